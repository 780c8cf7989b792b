package cli

import (
	"fmt"
	"os"
	"strings"

	"rentdata/internal/format"
	"rentdata/internal/logging"
	"rentdata/internal/model"
	"rentdata/internal/store"
	"rentdata/internal/tui"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type App struct {
	File   string
	Pretty bool
	Format string

	Log zerolog.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{Log: logging.New(os.Stderr)}

	cmd := &cobra.Command{
		Use:          "rentdata",
		Short:        "Rental cost tracker (terminal table editor)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Edit ./rentdata.json in the interactive table
  rentdata

  # Print listings sorted by total rent
  rentdata list --sort total-rent --pretty

  # Cost report
  rentdata report
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runTUI(app)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&app.File, "file", "", "Path to the data file (default: ./"+store.FileName+")")
	cmd.PersistentFlags().BoolVar(&app.Pretty, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", "json", "Output format (json|edn|yaml)")

	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newReportCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

// runTUI never fails the process: problems are reported on the diagnostic stream.
func runTUI(app *App) {
	if err := tui.Run(dataPath(app), app.Log); err != nil {
		app.Log.Error().Err(err).Msg("tui exited with error")
	}
}

func dataPath(app *App) string {
	if p := strings.TrimSpace(app.File); p != "" {
		return p
	}
	return store.DefaultPath()
}

func openStore(app *App) *store.Store {
	return store.Open(dataPath(app), app.Log)
}

// sortedSnapshot opens the data file and returns its entries sorted by sortFlag.
func sortedSnapshot(app *App, sortFlag string) (*store.Store, []model.Entry, error) {
	f, err := model.ParseField(sortFlag)
	if err != nil {
		return nil, nil, err
	}
	st := openStore(app)
	st.SetSortField(f)
	return st, st.Snapshot(), nil
}

func writeOut(cmd *cobra.Command, app *App, records []format.Record) error {
	return format.Write(cmd.OutOrStdout(), records, app.Format, app.Pretty)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
