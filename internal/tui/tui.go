package tui

import (
	"os"

	"rentdata/internal/logging"
	"rentdata/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

// Run opens the data file at path and runs the grid editor until the user quits.
// Diagnostics logged during the session are replayed to stderr afterwards.
func Run(path string, log zerolog.Logger) error {
	applyThemePreference()
	applyColorProfilePreference()

	st, diag, m := newSession(path)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()

	// Normally flushed by the quit key; this covers ctrl+c via signals and program errors.
	if cerr := st.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if rerr := diag.ReplayTo(os.Stderr); rerr != nil {
		log.Error().Err(rerr).Msg("failed to replay diagnostics")
	}
	return err
}

// newSession opens the store with a logger that writes into the session's
// diagnostics buffer and builds the grid model on top of it.
func newSession(path string) (*store.Store, *diagnostics, appModel) {
	diag := &diagnostics{}
	sessionLog := logging.New(diag)
	st := store.Open(path, sessionLog)
	return st, diag, newAppModel(st, diag, sessionLog)
}
