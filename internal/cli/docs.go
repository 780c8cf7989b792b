package cli

import (
	"fmt"

	"rentdata/internal/docs"
	"rentdata/internal/format"
	"rentdata/internal/tui"

	"github.com/spf13/cobra"
)

func newDocsCmd(app *App) *cobra.Command {
	var (
		raw   bool
		width int
	)

	cmd := &cobra.Command{
		Use:   "docs [topic]",
		Short: "Show documentation (keys, formulas, file-format)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				records := make([]format.Record, 0)
				for _, t := range docs.List() {
					records = append(records, format.Record{
						{Key: "topic", Value: t.Name},
						{Key: "title", Value: t.Title},
					})
				}
				return writeOut(cmd, app, records)
			}

			topic := args[0]
			body, ok := docs.Get(topic)
			if !ok {
				return writeErr(cmd, fmt.Errorf("unknown docs topic: %q (run `rentdata docs` to list topics)", topic))
			}
			if raw {
				_, err := fmt.Fprint(cmd.OutOrStdout(), body)
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), tui.RenderMarkdown(body, width))
			return err
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print Markdown source instead of rendering it")
	cmd.Flags().IntVar(&width, "width", 100, "Wrap width for rendered output")
	return cmd
}
