package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/campusrag/internal/core/domain"
)

var (
	manageTenant string
	clearYes     bool
	statsJSON    bool
)

var deleteCmd = &cobra.Command{
	Use:   "delete [document-id]",
	Short: "Remove a document from a college index",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop a college's whole index",
	Long:  `Removes every chunk of every document of the college. Requires --yes.`,
	Args:  cobra.NoArgs,
	RunE:  runClear,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the size of a college index",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	for _, c := range []*cobra.Command{deleteCmd, clearCmd, statsCmd} {
		addTenantFlag(c, &manageTenant)
		rootCmd.AddCommand(c)
	}
	clearCmd.Flags().BoolVar(&clearYes, "yes", false, "confirm dropping the index")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output stats as JSON")
}

func runDelete(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}
	if manageTenant == "" {
		return errTenantRequired
	}

	removed, err := ingestService.DeleteDocument(cmd.Context(), domain.TenantID(manageTenant), args[0])
	if err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}
	if removed == 0 {
		cmd.Printf("Document %s not found in college %s.\n", args[0], manageTenant)
		return nil
	}
	cmd.Println(success("Deleted %s (%d chunks).", args[0], removed))
	return nil
}

func runClear(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}
	if manageTenant == "" {
		return errTenantRequired
	}
	if !clearYes {
		return errors.New("refusing to clear without --yes")
	}

	if err := ingestService.ClearTenant(cmd.Context(), domain.TenantID(manageTenant)); err != nil {
		return fmt.Errorf("clear failed: %w", err)
	}
	cmd.Println(success("Cleared the index of college %s.", manageTenant))
	return nil
}

func runStats(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}
	if manageTenant == "" {
		return errTenantRequired
	}

	stats, err := ingestService.Stats(cmd.Context(), domain.TenantID(manageTenant))
	if err != nil {
		return fmt.Errorf("stats failed: %w", err)
	}

	if statsJSON {
		data, err := json.MarshalIndent(map[string]any{
			"tenant_id": stats.TenantID,
			"slots":     stats.Slots,
			"dimension": stats.Dimension,
			"documents": stats.Documents,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal stats: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(heading("College " + stats.TenantID.String()))
	cmd.Printf("  Documents: %d\n", stats.Documents)
	cmd.Printf("  Chunks:    %d\n", stats.Slots)
	if stats.Dimension > 0 {
		cmd.Printf("  Dimension: %d\n", stats.Dimension)
	} else {
		cmd.Printf("  Dimension: %s\n", muted("(empty index)"))
	}
	return nil
}
