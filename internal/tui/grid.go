package tui

import (
	"strconv"
	"strings"

	"rentdata/internal/model"
	"rentdata/internal/publish"

	"github.com/charmbracelet/lipgloss"
)

const (
	defaultWidth  = 120
	defaultHeight = 30

	// title, header, status and help lines around the rows
	chromeLines = 4
)

const helpText = "↑↓←→/hjkl: move   enter: edit   a: add   d: delete   s/S: sort   p: pets   r: reload   v: report   ?: help   q: quit"

func (m appModel) viewWidth() int {
	if m.width <= 0 {
		return defaultWidth
	}
	return m.width
}

func (m appModel) viewHeight() int {
	if m.height <= 0 {
		return defaultHeight
	}
	return m.height
}

func (m appModel) bodyHeight() int {
	h := m.viewHeight() - chromeLines
	if h < 1 {
		h = 1
	}
	return h
}

func (m appModel) reportHeight() int {
	h := m.viewHeight() - 1
	if h < 1 {
		h = 1
	}
	return h
}

func columnLabel(col int) string {
	if col == linkCol {
		return "Link"
	}
	return model.Fields[col].String()
}

func columnWidth(col int) int {
	switch {
	case col == linkCol:
		return 32
	case model.Fields[col] == model.Name:
		return 22
	case model.Fields[col].IsInt():
		return 6
	default:
		return 12
	}
}

func rightAligned(col int) bool {
	return col != linkCol && model.Fields[col] != model.Name
}

// cellText is the display form of a cell.
func cellText(e model.Entry, col int) string {
	if col == linkCol {
		return e.Link()
	}
	f := model.Fields[col]
	if f == model.Name {
		return e.Name()
	}
	if v, ok := e.Int(f); ok {
		return strconv.Itoa(int(v))
	}
	v, _ := e.Float(f)
	return publish.FormatMoney(v)
}

// ensureVisible clamps the cursor and scrolls so it stays on screen.
func (m *appModel) ensureVisible() {
	if m.row >= len(m.rows) {
		m.row = len(m.rows) - 1
	}
	if m.row < 0 {
		m.row = 0
	}
	if m.col >= numColumns {
		m.col = numColumns - 1
	}
	if m.col < 0 {
		m.col = 0
	}

	h := m.bodyHeight()
	if m.row < m.rowOffset {
		m.rowOffset = m.row
	}
	if m.row >= m.rowOffset+h {
		m.rowOffset = m.row - h + 1
	}
	if m.rowOffset < 0 {
		m.rowOffset = 0
	}

	// The name column is pinned; the others scroll horizontally.
	if m.colOffset < 1 {
		m.colOffset = 1
	}
	if m.col > 0 && m.col < m.colOffset {
		m.colOffset = m.col
	}
	for m.col > 0 && !containsInt(m.visibleColumns(), m.col) && m.colOffset < m.col {
		m.colOffset++
	}
}

func (m appModel) visibleColumns() []int {
	avail := m.viewWidth()
	cols := []int{0}
	used := columnWidth(0)
	for c := m.colOffset; c < numColumns; c++ {
		w := columnWidth(c) + 1
		if used+w > avail && len(cols) > 1 {
			break
		}
		cols = append(cols, c)
		used += w
	}
	return cols
}

func containsInt(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

func (m appModel) View() string {
	switch m.mode {
	case modeReport:
		return m.report.View() + "\n" + styleMuted().Render("↑↓/pgup/pgdn: scroll   esc/v: back")
	case modeConfirmDelete:
		modal := renderConfirmModal(
			m.viewWidth(),
			"Delete listing",
			"Delete \""+m.pendingDelete+"\"? This cannot be undone.",
			"Delete",
			"Cancel",
			m.confirmFocus,
		)
		return lipgloss.Place(m.viewWidth(), m.viewHeight(), lipgloss.Center, lipgloss.Center, modal)
	}

	cols := m.visibleColumns()
	lines := make([]string, 0, m.bodyHeight()+chromeLines)
	lines = append(lines, m.titleLine())
	lines = append(lines, m.headerLine(cols))

	if len(m.rows) == 0 {
		lines = append(lines, styleMuted().Render("No listings yet. Press a to add one."))
	}
	end := m.rowOffset + m.bodyHeight()
	if end > len(m.rows) {
		end = len(m.rows)
	}
	for i := m.rowOffset; i < end; i++ {
		lines = append(lines, m.rowLine(i, cols))
	}

	lines = append(lines, m.footerLine())
	lines = append(lines, styleMuted().Render(fitCell(helpText, m.viewWidth(), false)))
	return strings.Join(lines, "\n")
}

func (m appModel) titleLine() string {
	parts := []string{
		lipgloss.NewStyle().Bold(true).Render("rentdata"),
		m.store.Path(),
		"pets: " + itoa8(m.store.PetCount()),
		"listings: " + strconv.Itoa(len(m.rows)),
	}
	if m.store.Dirty() {
		parts = append(parts, styleError().Render("unsaved"))
	}
	return strings.Join(parts, "  ")
}

func (m appModel) headerLine(cols []int) string {
	sortField := m.store.SortField()
	cells := make([]string, 0, len(cols))
	for _, c := range cols {
		label := columnLabel(c)
		st := styleHeader()
		if c != linkCol && model.Fields[c] == sortField {
			label = "▲" + label
			st = styleSortHeader()
		}
		cells = append(cells, st.Render(fitCell(label, columnWidth(c), rightAligned(c))))
	}
	return strings.Join(cells, " ")
}

func (m appModel) rowLine(i int, cols []int) string {
	e := m.rows[i]
	cells := make([]string, 0, len(cols))
	for _, c := range cols {
		text := fitCell(cellText(e, c), columnWidth(c), rightAligned(c))
		switch {
		case i == m.row && c == m.col:
			text = styleCursorCell().Render(text)
		case i == m.row:
			text = styleSelectedRow().Render(text)
		}
		cells = append(cells, text)
	}
	sep := " "
	if i == m.row {
		sep = styleSelectedRow().Render(" ")
	}
	return strings.Join(cells, sep)
}

func (m appModel) footerLine() string {
	if m.mode == modeEditCell || m.mode == modeEditPetCount {
		label := m.inputLabel() + ": "
		w := m.viewWidth() - len([]rune(label))
		return label + renderInputLine(w, m.input.View())
	}
	if m.status == "" {
		return ""
	}
	line := fitCell(m.status, m.viewWidth(), false)
	if m.statusErr {
		return styleError().Render(line)
	}
	return styleMuted().Render(line)
}
