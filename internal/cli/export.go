package cli

import (
	"errors"
	"fmt"
	"strings"

	"rentdata/internal/store"

	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var sqlitePath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export listings and derived totals to SQLite",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sqlitePath = strings.TrimSpace(sqlitePath)
			if sqlitePath == "" {
				return writeErr(cmd, errors.New("missing --sqlite"))
			}
			st, entries, err := sortedSnapshot(app, "name")
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := store.ExportSQLite(cmd.Context(), sqlitePath, st.PetCount(), entries); err != nil {
				return writeErr(cmd, fmt.Errorf("export sqlite: %w", err))
			}
			app.Log.Info().Str("path", sqlitePath).Int("entries", len(entries)).Msg("exported")
			return nil
		},
	}
	cmd.Flags().StringVar(&sqlitePath, "sqlite", "", "SQLite database to write")
	return cmd
}
