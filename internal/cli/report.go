package cli

import (
	"fmt"
	"strings"

	"rentdata/internal/model"
	"rentdata/internal/publish"
	"rentdata/internal/tui"

	"github.com/spf13/cobra"
)

func newReportCmd(app *App) *cobra.Command {
	var (
		sortBy    string
		raw       bool
		out       string
		overwrite bool
		width     int
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render a Markdown cost report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, entries, err := sortedSnapshot(app, sortBy)
			if err != nil {
				return writeErr(cmd, err)
			}
			sortField, _ := model.ParseField(sortBy)

			if strings.TrimSpace(out) != "" {
				if _, err := publish.WriteReport(st.PetCount(), entries, out, publish.WriteOptions{
					Overwrite: overwrite,
					SortField: sortField,
				}); err != nil {
					return writeErr(cmd, err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), out)
				return nil
			}

			md := publish.RenderReportMarkdown(st.PetCount(), entries, publish.RenderOptions{SortField: sortField})
			if raw {
				_, err := fmt.Fprint(cmd.OutOrStdout(), md)
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), tui.RenderMarkdown(md, width))
			return err
		},
	}
	cmd.Flags().StringVar(&sortBy, "sort", "name", "Sort field")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print Markdown source instead of rendering it")
	cmd.Flags().StringVar(&out, "out", "", "Write the Markdown report to this file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite --out if it exists")
	cmd.Flags().IntVar(&width, "width", 120, "Wrap width for rendered output")
	return cmd
}
