package cli

import (
	"rentdata/internal/format"
	"rentdata/internal/model"

	"github.com/spf13/cobra"
)

func newListCmd(app *App) *cobra.Command {
	var sortBy string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print listings with derived totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, entries, err := sortedSnapshot(app, sortBy)
			if err != nil {
				return writeErr(cmd, err)
			}
			records := make([]format.Record, 0, len(entries))
			for _, e := range entries {
				records = append(records, entryRecord(e))
			}
			return writeOut(cmd, app, records)
		},
	}
	cmd.Flags().StringVar(&sortBy, "sort", "name", "Sort field (name, beds, baths, deposit, petdeposit, petmonthly, parkingmonthly, monthlyrent, totalrent, rentfor2, rentfor3, rentfor4)")
	return cmd
}

// entryRecord lists every field in column order followed by the link.
func entryRecord(e model.Entry) format.Record {
	r := make(format.Record, 0, len(model.Fields)+1)
	for _, f := range model.Fields {
		switch {
		case f == model.Name:
			r = append(r, format.Field{Key: f.Key(), Value: e.Name()})
		case f.IsInt():
			v, _ := e.Int(f)
			r = append(r, format.Field{Key: f.Key(), Value: int(v)})
		default:
			v, _ := e.Float(f)
			r = append(r, format.Field{Key: f.Key(), Value: v})
		}
	}
	return append(r, format.Field{Key: "link", Value: e.Link()})
}
