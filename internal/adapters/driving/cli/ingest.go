package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/campusrag/internal/core/domain"
)

var (
	ingestTenant  string
	ingestID      string
	ingestTitle   string
	ingestText    string
	ingestReplace bool
	ingestMeta    map[string]string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [paths...]",
	Short: "Add documents to a college index",
	Long: `Loads each file, splits it into chunks, embeds them and appends them to the
college's index. Directories are walked recursively and every supported file
is ingested with its path relative to the directory as document id.

Supported extensions: ` + strings.Join(domain.SupportedExtensions(), " ") + `

Examples:
  campusrag ingest -t 7 handbook.pdf
  campusrag ingest -t 7 --replace docs/
  campusrag ingest -t 7 --id fees --text "Tuition is due on 1 September."`,
	RunE: runIngest,
}

func init() {
	addTenantFlag(ingestCmd, &ingestTenant)
	ingestCmd.Flags().StringVar(&ingestID, "id", "", "document id (default: file name)")
	ingestCmd.Flags().StringVar(&ingestTitle, "title", "", "document title")
	ingestCmd.Flags().StringVar(&ingestText, "text", "", "ingest this text instead of files")
	ingestCmd.Flags().BoolVar(&ingestReplace, "replace", false, "replace earlier versions of the documents")
	ingestCmd.Flags().StringToStringVar(&ingestMeta, "meta", nil, "extra metadata as key=value")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}
	if ingestTenant == "" {
		return errTenantRequired
	}

	var requests []domain.IngestRequest
	switch {
	case ingestText != "" && len(args) > 0:
		return errors.New("use either --text or paths, not both")
	case ingestText != "":
		requests = append(requests, newIngestRequest("", ingestID, ingestTitle, ingestText))
	case len(args) == 0:
		return errors.New("nothing to ingest: pass paths or --text")
	default:
		var err error
		requests, err = collectIngestRequests(args)
		if err != nil {
			return err
		}
	}

	failed := 0
	for _, req := range requests {
		result, err := ingestService.Ingest(cmd.Context(), req)
		if err != nil {
			failed++
			cmd.PrintErrln(warning("✗ %s: %v", displayName(req), err))
			continue
		}
		line := fmt.Sprintf("✓ %s (%s, %d chunks", result.DocumentID, result.Format, result.Chunks)
		if result.Replaced > 0 {
			line += fmt.Sprintf(", replaced %d", result.Replaced)
		}
		cmd.Println(success("%s)", line))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(requests))
	}
	return nil
}

// collectIngestRequests expands directory arguments into one request per
// supported file. --id and --title only apply to a single file argument.
func collectIngestRequests(args []string) ([]domain.IngestRequest, error) {
	var requests []domain.IngestRequest
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			id, title := "", ""
			if len(args) == 1 {
				id, title = ingestID, ingestTitle
			}
			requests = append(requests, newIngestRequest(arg, id, title, ""))
			continue
		}

		files, err := supportedFiles(arg)
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", arg, err)
		}
		for _, rel := range files {
			requests = append(requests, newIngestRequest(filepath.Join(arg, rel), filepath.ToSlash(rel), "", ""))
		}
	}
	return requests, nil
}

func newIngestRequest(path, id, title, text string) domain.IngestRequest {
	req := domain.IngestRequest{
		TenantID:   domain.TenantID(ingestTenant),
		DocumentID: id,
		Title:      title,
		Path:       path,
		Text:       text,
		Replace:    ingestReplace,
	}
	if len(ingestMeta) > 0 {
		req.Metadata = make(map[string]any, len(ingestMeta))
		for k, v := range ingestMeta {
			req.Metadata[k] = v
		}
	}
	return req
}

// supportedFiles returns the ingestible files under root relative to it,
// skipping hidden files and directories.
func supportedFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if _, err := domain.FormatFromPath(path); err != nil {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	return files, err
}

func displayName(req domain.IngestRequest) string {
	if req.DocumentID != "" {
		return req.DocumentID
	}
	return req.Path
}
