package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/campusrag/internal/adapters/driving/tui"
	"github.com/custodia-labs/campusrag/internal/core/domain"
)

// stubProgram replaces the bubbletea runner for the duration of a test.
func stubProgram(t *testing.T, run func(*tui.App) error) {
	t.Helper()
	orig := runProgram
	runProgram = run
	t.Cleanup(func() { runProgram = orig })
}

func TestTUICmd_RequiresTenant(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "tui")

	assert.ErrorIs(t, err, errTenantRequired)
}

func TestTUICmd_RunsApp(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	var ran *tui.App
	stubProgram(t, func(app *tui.App) error {
		ran = app
		return nil
	})

	_, err := execute(t, "tui", "-t", "7")

	require.NoError(t, err)
	require.NotNil(t, ran)
	assert.Empty(t, ran.Chunks())
}

func TestTUICmd_InvalidTenant(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	stubProgram(t, func(*tui.App) error { return nil })

	_, err := execute(t, "tui", "-t", "../x")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTUICmd_ProgramError(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	stubProgram(t, func(*tui.App) error { return errors.New("no tty") })

	_, err := execute(t, "tui", "-t", "7")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "TUI error: no tty")
}

func TestTUICmd_ProgramPanic(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	stubProgram(t, func(*tui.App) error { panic("render") })

	_, err := execute(t, "tui", "-t", "7")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "TUI panic: render")
}
