package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/campusrag/internal/core/domain"
)

var (
	imageTenant      string
	imageTitle       string
	imageDescription string
	imageTags        []string
	imageTagFilter   string
)

var imageCmd = &cobra.Command{
	Use:   "image",
	Short: "Manage college images",
	Long: `Images are returned alongside search results when a query term appears in
their title, description or tags.`,
}

var imageAddCmd = &cobra.Command{
	Use:   "add [file]",
	Short: "Register an image",
	Args:  cobra.ExactArgs(1),
	RunE:  runImageAdd,
}

var imageListCmd = &cobra.Command{
	Use:   "list",
	Short: "List images",
	Args:  cobra.NoArgs,
	RunE:  runImageList,
}

var imageDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Remove an image",
	Args:  cobra.ExactArgs(1),
	RunE:  runImageDelete,
}

func init() {
	for _, c := range []*cobra.Command{imageAddCmd, imageListCmd, imageDeleteCmd} {
		addTenantFlag(c, &imageTenant)
		imageCmd.AddCommand(c)
	}
	imageAddCmd.Flags().StringVar(&imageTitle, "title", "", "image title (default: from file name)")
	imageAddCmd.Flags().StringVar(&imageDescription, "description", "", "what the image shows")
	imageAddCmd.Flags().StringSliceVar(&imageTags, "tag", nil, "tag, may be repeated or comma separated")
	imageListCmd.Flags().StringVar(&imageTagFilter, "tag", "", "only list images with this tag")
	rootCmd.AddCommand(imageCmd)
}

func runImageAdd(cmd *cobra.Command, args []string) error {
	if imageService == nil {
		return errors.New("image service not configured")
	}
	if imageTenant == "" {
		return errTenantRequired
	}

	img, err := imageService.Add(cmd.Context(), domain.Image{
		TenantID:    domain.TenantID(imageTenant),
		Title:       imageTitle,
		FilePath:    args[0],
		Description: imageDescription,
		Tags:        strings.Join(imageTags, ", "),
	})
	if err != nil {
		return fmt.Errorf("add image failed: %w", err)
	}
	cmd.Println(success("Added image %s (%s).", img.Title, img.ID))
	return nil
}

func runImageList(cmd *cobra.Command, _ []string) error {
	if imageService == nil {
		return errors.New("image service not configured")
	}
	if imageTenant == "" {
		return errTenantRequired
	}

	images, err := imageService.List(cmd.Context(), domain.TenantID(imageTenant), imageTagFilter)
	if err != nil {
		return fmt.Errorf("list images failed: %w", err)
	}
	if len(images) == 0 {
		cmd.Println("No images found.")
		return nil
	}

	for _, img := range images {
		cmd.Printf("%s  %s\n", muted(img.ID), img.Title)
		cmd.Printf("    %s\n", img.FilePath)
		if img.Description != "" {
			cmd.Printf("    %s\n", img.Description)
		}
		if img.Tags != "" {
			cmd.Printf("    %s\n", muted("tags: "+img.Tags))
		}
	}
	return nil
}

func runImageDelete(cmd *cobra.Command, args []string) error {
	if imageService == nil {
		return errors.New("image service not configured")
	}
	if imageTenant == "" {
		return errTenantRequired
	}

	if err := imageService.Delete(cmd.Context(), domain.TenantID(imageTenant), args[0]); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("image %s not found", args[0])
		}
		return fmt.Errorf("delete image failed: %w", err)
	}
	cmd.Println(success("Deleted image %s.", args[0]))
	return nil
}
