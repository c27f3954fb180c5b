package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/campusrag/internal/adapters/driving/tui"
	"github.com/custodia-labs/campusrag/internal/core/domain"
)

var tuiTenant string

// runProgram runs the bubbletea program. Tests replace it.
var runProgram = func(app *tui.App) error { return app.Run() }

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse a college index interactively",
	Long: `Launch an interactive terminal UI that runs queries against one
college's index and shows the retrieved passages and related images.

Controls:
  Enter    - Search / open passage
  ↑/k, ↓/j - Navigate passages
  n        - New search
  i        - Toggle image lookup
  Esc      - Back
  ?        - Help
  q        - Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	addTenantFlag(tuiCmd, &tuiTenant)
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}
	if tuiTenant == "" {
		return errTenantRequired
	}

	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	app, err := tui.NewApp(&tui.Ports{
		Retrieval: retrievalService,
		Ingest:    ingestService,
		Tenant:    domain.TenantID(tuiTenant),
	})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	if err := runProgram(app); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
