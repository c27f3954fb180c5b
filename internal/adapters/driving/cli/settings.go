package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/campusrag/internal/core/domain"
)

var (
	settingsModel  string
	settingsAPIKey string
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the data directory, embedding providers, chunking and
retrieval defaults.

Settings live in config.toml in the configuration directory. The variables
CAMPUSRAG_DATA_DIR, CAMPUSRAG_EMBEDDING_PROVIDER, OLLAMA_BASE_URL and
OPENAI_API_KEY override the file, and may be set in a .env file.`,
	Annotations: map[string]string{annotationSettingsOnly: "true"},
	RunE:        runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding [provider]",
	Short: "Configure the embedding provider",
	Long: `Configure the primary embedding provider and check that it answers.

Providers: ollama, openai, hashing. Without an argument a menu is shown.

Changing the provider usually changes the vector dimension, so existing
college indexes must be cleared and re-ingested.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSettingsEmbedding,
}

var settingsValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the settings and ping the embedding provider",
	RunE:  runSettingsValidate,
}

func init() {
	settingsEmbeddingCmd.Flags().StringVar(&settingsModel, "model", "", "model name (default depends on provider)")
	settingsEmbeddingCmd.Flags().StringVar(&settingsAPIKey, "api-key", "", "API key for hosted providers")
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	settingsCmd.AddCommand(settingsValidateCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println(heading("Current Settings"))
	cmd.Println()
	cmd.Println("[Storage]")
	cmd.Printf("  Data dir: %s\n", settings.DataDir)
	cmd.Println()

	printEmbedding(cmd, "[Embedding]", settings.Embedding)
	printEmbedding(cmd, "[Fallback]", settings.Fallback)

	cmd.Println("[Chunking]")
	cmd.Printf("  Size: %d\n", settings.Chunking.Size)
	cmd.Printf("  Overlap: %d\n", settings.Chunking.Overlap)
	cmd.Println()

	cmd.Println("[Retrieval]")
	cmd.Printf("  Top K: %d\n", settings.Retrieval.TopK)
	cmd.Printf("  Min similarity: %g\n", settings.Retrieval.MinSimilarity)
	cmd.Printf("  Embed timeout: %s\n", settings.Retrieval.EmbedTimeout)
	cmd.Printf("  Batch size: %d\n", settings.BatchSize)
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Println(warning("Warning: %v", err))
		cmd.Println("Run 'campusrag settings embedding' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}
	return nil
}

func printEmbedding(cmd *cobra.Command, title string, e domain.EmbeddingSettings) {
	cmd.Println(title)
	cmd.Printf("  Provider: %s\n", e.Provider.Description())
	cmd.Printf("  Model: %s\n", e.Model)
	if e.Provider.IsLocal() && e.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", e.BaseURL)
	}
	if e.Provider.RequiresAPIKey() {
		if e.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(e.APIKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	if dims := e.ResolvedDimensions(); dims > 0 {
		cmd.Printf("  Dimensions: %d\n", dims)
	}
	status := "configured"
	if !e.IsConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()
}

func runSettingsEmbedding(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	reader := bufio.NewReader(cmd.InOrStdin())

	var provider domain.AIProvider
	if len(args) == 1 {
		provider = domain.AIProvider(strings.ToLower(args[0]))
		if !provider.IsValid() {
			return fmt.Errorf("unknown embedding provider %q", args[0])
		}
	} else {
		cmd.Println("Select Embedding Provider")
		providers := domain.AllEmbeddingProviders()
		for i, p := range providers {
			cmd.Printf("  %d. %s\n", i+1, p.Description())
		}
		cmd.Print("\nEnter choice [1]: ")
		provider = providers[parseChoice(readLine(reader), len(providers), 1)-1]
	}

	model := settingsModel
	if model == "" {
		model = domain.DefaultEmbeddingModels()[provider]
	}

	apiKey := settingsAPIKey
	if provider.RequiresAPIKey() && apiKey == "" && os.Getenv("OPENAI_API_KEY") == "" {
		cmd.Print("Enter API key: ")
		apiKey = readPassword(cmd.InOrStdin(), reader)
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if err := settingsService.SetEmbeddingProvider(provider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure embedding provider: %w", err)
	}

	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateEmbeddingConfig(cmd.Context()); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("embedding configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("Embedding provider configured: %s (%s)\n", provider.Description(), model)
	cmd.Println(muted("Clear and re-ingest existing colleges if the vector dimension changed."))
	return nil
}

func runSettingsValidate(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if err := settingsService.Validate(); err != nil {
		return err
	}
	if err := settingsService.ValidateEmbeddingConfig(cmd.Context()); err != nil {
		return fmt.Errorf("embedding provider: %w", err)
	}
	cmd.Println(success("Configuration is valid."))
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads without echo when in is a terminal.
func readPassword(in io.Reader, reader *bufio.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
