package publish

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	"rentdata/internal/model"

	"github.com/dustin/go-humanize"
)

type RenderOptions struct {
	// SortField is only echoed in the header; entries are rendered in the order given.
	SortField model.Field
}

// reportColumns are the table columns, left to right.
var reportColumns = []model.Field{
	model.Name,
	model.Beds,
	model.Baths,
	model.MonthlyRent,
	model.TotalRent,
	model.RentFor2,
	model.RentFor3,
	model.RentFor4,
	model.Deposit,
	model.PetDeposit,
}

// RenderReportMarkdown renders a cost report: a header, one table row per entry,
// the cheapest listing per occupancy, and the listing links.
func RenderReportMarkdown(petCount int8, entries []model.Entry, opt RenderOptions) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# Rental cost report")
	writeLn("")
	writeLn("- Pet count: " + strconv.Itoa(int(petCount)))
	writeLn("- Listings: " + strconv.Itoa(len(entries)))
	writeLn("- Sorted by: " + opt.SortField.String())
	writeLn("")

	if len(entries) == 0 {
		writeLn("_No listings yet._")
		return buf.String()
	}

	labels := make([]string, 0, len(reportColumns))
	seps := make([]string, 0, len(reportColumns))
	for _, f := range reportColumns {
		labels = append(labels, f.String())
		if f == model.Name {
			seps = append(seps, "---")
		} else {
			seps = append(seps, "---:")
		}
	}
	writeLn("| " + strings.Join(labels, " | ") + " |")
	writeLn("| " + strings.Join(seps, " | ") + " |")
	for _, e := range entries {
		cells := make([]string, 0, len(reportColumns))
		for _, f := range reportColumns {
			cells = append(cells, cellText(e, f))
		}
		writeLn("| " + strings.Join(cells, " | ") + " |")
	}
	writeLn("")

	writeLn("## Cheapest")
	writeLn("")
	for _, f := range []model.Field{model.TotalRent, model.RentFor2, model.RentFor3, model.RentFor4} {
		if e, ok := cheapest(entries, f); ok {
			v, _ := e.Float(f)
			writeLn("- " + f.String() + ": " + escapeCell(e.Name()) + " (" + FormatMoney(v) + ")")
		}
	}

	var links []string
	for _, e := range entries {
		if l := strings.TrimSpace(e.Link()); l != "" {
			links = append(links, "- ["+escapeCell(e.Name())+"]("+l+")")
		}
	}
	if len(links) > 0 {
		writeLn("")
		writeLn("## Links")
		writeLn("")
		for _, l := range links {
			writeLn(l)
		}
	}
	return buf.String()
}

func cellText(e model.Entry, f model.Field) string {
	if f == model.Name {
		return escapeCell(e.Name())
	}
	if v, ok := e.Int(f); ok {
		return strconv.Itoa(int(v))
	}
	v, _ := e.Float(f)
	return FormatMoney(v)
}

// cheapest returns the entry with the lowest finite value for f; ties keep the
// first entry.
func cheapest(entries []model.Entry, f model.Field) (model.Entry, bool) {
	var (
		best  model.Entry
		found bool
	)
	for _, e := range entries {
		v, ok := e.Float(f)
		if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if bv, _ := best.Float(f); !found || v < bv {
			best, found = e, true
		}
	}
	return best, found
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}

// FormatMoney renders an amount with thousands separators and two decimals.
func FormatMoney(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	}
	if v < 0 {
		return "-" + humanize.FormatFloat("#,###.##", -v)
	}
	return humanize.FormatFloat("#,###.##", v)
}
