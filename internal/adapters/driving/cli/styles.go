package cli

import (
	"fmt"

	"github.com/custodia-labs/campusrag/internal/adapters/driving/tui/styles"
)

// Command output shares the TUI palette.
var outputStyles = styles.DefaultStyles()

func heading(s string) string { return outputStyles.Title.Render(s) }

func muted(s string) string { return outputStyles.Muted.Render(s) }

func success(format string, args ...any) string {
	return outputStyles.Success.Render(fmt.Sprintf(format, args...))
}

func warning(format string, args ...any) string {
	return outputStyles.Warning.Render(fmt.Sprintf(format, args...))
}

func score(similarity float64) string {
	return outputStyles.Score.Render(fmt.Sprintf("%.3f", similarity))
}
