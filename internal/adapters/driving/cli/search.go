package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/campusrag/internal/core/domain"
)

// snippetLength is the maximum number of runes of chunk text shown per hit.
const snippetLength = 240

var (
	searchTenant        string
	searchTopK          int
	searchMinSimilarity float64
	searchImages        bool
	searchJSON          bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Retrieve the chunks most similar to a query",
	Long: `Embeds the query and returns the most similar chunks from the college's
index, best first. Similarity is in [-1, 1] with 1 meaning identical.

If the embedding service cannot be reached the result is empty and a
warning is printed instead of failing.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	addTenantFlag(searchCmd, &searchTenant)
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "k", 0, "maximum number of chunks (default from settings)")
	searchCmd.Flags().Float64Var(&searchMinSimilarity, "min-similarity", 0, "drop chunks below this similarity")
	searchCmd.Flags().BoolVar(&searchImages, "images", false, "also list images matching the query")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}
	if searchTenant == "" {
		return errTenantRequired
	}

	result, err := retrievalService.RetrieveContext(cmd.Context(), domain.RetrievalRequest{
		TenantID:      domain.TenantID(searchTenant),
		Query:         args[0],
		TopK:          searchTopK,
		MinSimilarity: searchMinSimilarity,
		IncludeImages: searchImages,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, result)
	}
	outputSearchText(cmd, result)
	return nil
}

type searchChunkJSON struct {
	Content    string         `json:"content"`
	Similarity float64        `json:"similarity"`
	Metadata   map[string]any `json:"metadata"`
}

type searchImageJSON struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	FilePath    string   `json:"file_path"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

type searchJSONOutput struct {
	Chunks   []searchChunkJSON  `json:"chunks"`
	Images   []searchImageJSON  `json:"images"`
	Sources  []domain.SourceRef `json:"sources"`
	Degraded bool               `json:"degraded,omitempty"`
	Warning  string             `json:"warning,omitempty"`
}

func outputSearchJSON(cmd *cobra.Command, result *domain.RetrievalResult) error {
	out := searchJSONOutput{
		Chunks:   make([]searchChunkJSON, 0, len(result.Chunks)),
		Images:   make([]searchImageJSON, 0, len(result.Images)),
		Sources:  result.Sources(),
		Degraded: result.Degraded,
		Warning:  result.Warning,
	}
	for _, c := range result.Chunks {
		out.Chunks = append(out.Chunks, searchChunkJSON{
			Content:    c.Content,
			Similarity: c.Similarity,
			Metadata:   c.Record.Metadata(),
		})
	}
	for _, img := range result.Images {
		out.Images = append(out.Images, searchImageJSON{
			ID:          img.ID,
			Title:       img.Title,
			FilePath:    img.FilePath,
			Description: img.Description,
			Tags:        img.TagList(),
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchText(cmd *cobra.Command, result *domain.RetrievalResult) {
	if result.Degraded {
		cmd.PrintErrln(warning("Warning: %s", result.Warning))
	}
	if len(result.Chunks) == 0 {
		cmd.Println("No results found.")
	} else {
		cmd.Println(heading("Results:"))
		cmd.Println()
		for i, c := range result.Chunks {
			title := c.Record.Title
			if title == "" {
				title = c.Record.DocumentID
			}
			cmd.Printf("  [%d] %s (%s)\n", i+1, title, score(c.Similarity))
			cmd.Printf("      %s\n", muted(fmt.Sprintf("%s #%d", c.Record.Source, c.Record.ChunkIndex)))
			cmd.Printf("      %s\n", snippet(c.Content, snippetLength))
			cmd.Println()
		}
	}

	if len(result.Images) > 0 {
		cmd.Println(heading("Images:"))
		for _, img := range result.Images {
			cmd.Printf("  %s %s\n", img.Title, muted(img.FilePath))
		}
	}
}

// snippet collapses whitespace and cuts s to at most n runes.
func snippet(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}
