// Package cli provides the campusrag command line interface.
package cli

import (
	"context"
	"errors"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/campusrag/internal/core/ports/driving"
	"github.com/custodia-labs/campusrag/internal/logger"
)

// annotationSettingsOnly marks commands that only need the settings service,
// so startup skips the embedding provider handshake.
const annotationSettingsOnly = "campusrag/settings-only"

// annotationNoServices marks commands that need no services at all.
const annotationNoServices = "campusrag/no-services"

// Services holds the driving ports the commands run against.
type Services struct {
	Ingest    driving.IngestService
	Retrieval driving.RetrievalService
	Image     driving.ImageService
	Settings  driving.SettingsService
}

// BootstrapOptions tells the bootstrap function what a command needs.
type BootstrapOptions struct {
	// ConfigDir overrides the configuration directory when set.
	ConfigDir string

	// SettingsOnly skips everything but the settings service.
	SettingsOnly bool
}

// Bootstrap builds the services for a command. The returned cleanup
// function releases them and is never nil on success.
type Bootstrap func(ctx context.Context, opts BootstrapOptions) (*Services, func(), error)

var (
	version = "dev"

	configDir string
	verbose   bool

	ingestService    driving.IngestService
	retrievalService driving.RetrievalService
	imageService     driving.ImageService
	settingsService  driving.SettingsService

	bootstrap Bootstrap
	teardown  func()
)

var rootCmd = &cobra.Command{
	Use:   "campusrag",
	Short: "Per-college document retrieval",
	Long: `campusrag indexes the documents of each college in its own vector store
and retrieves the chunks most similar to a question.

Documents are loaded, split into overlapping chunks, embedded and stored
under <data_dir>/college_<id>/vectorstore.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: runPersistentPre,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "configuration directory (default: user config dir)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// SetServices installs the services used by every command.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	ingestService = s.Ingest
	retrievalService = s.Retrieval
	imageService = s.Image
	settingsService = s.Settings
}

// SetBootstrap installs the function that lazily builds the services.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// Execute runs the root command.
func Execute(ctx context.Context, v string) error {
	version = v
	defer releaseServices()
	return fang.Execute(ctx, rootCmd, fang.WithVersion(v))
}

func runPersistentPre(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	return bootstrapServices(cmd)
}

// bootstrapServices builds the services the command needs unless they
// were installed up front.
func bootstrapServices(cmd *cobra.Command) error {
	if bootstrap == nil || hasAnnotation(cmd, annotationNoServices) {
		return nil
	}
	settingsOnly := hasAnnotation(cmd, annotationSettingsOnly)
	if settingsService != nil && (settingsOnly || ingestService != nil) {
		return nil
	}

	services, cleanup, err := bootstrap(cmd.Context(), BootstrapOptions{
		ConfigDir:    configDir,
		SettingsOnly: settingsOnly,
	})
	if err != nil {
		return err
	}
	SetServices(services)
	teardown = cleanup
	return nil
}

func releaseServices() {
	if teardown != nil {
		teardown()
		teardown = nil
	}
}

func hasAnnotation(cmd *cobra.Command, key string) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[key] == "true" {
			return true
		}
	}
	return false
}

var errTenantRequired = errors.New("--tenant is required")

// addTenantFlag registers the --tenant flag on cmd, bound to target.
func addTenantFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVarP(target, "tenant", "t", "", "college id")
}
