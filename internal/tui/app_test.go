package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"rentdata/internal/logging"
	"rentdata/internal/model"
	"rentdata/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	xansi "github.com/charmbracelet/x/ansi"
)

const alphaDoc = `{
  "properties": {"petcount": 2},
  "rentdata": {
    "Alpha": {"beds": 2, "baths": 1, "deposit": 500, "petdeposit": 250, "petmonthly": 50, "parkingmonthly": 25, "monthlyrent": 1000, "link": "https://alpha"}
  }
}`

const twoDoc = `{
  "properties": {"petcount": 2},
  "rentdata": {
    "Alpha": {"beds": 2, "baths": 1, "deposit": 500, "petdeposit": 250, "petmonthly": 50, "parkingmonthly": 25, "monthlyrent": 1000, "link": ""},
    "Beta": {"beds": 1, "baths": 1, "deposit": 300, "petdeposit": 0, "petmonthly": 0, "parkingmonthly": 0, "monthlyrent": 800, "link": ""}
  }
}`

func newTestModel(t *testing.T, doc string) (appModel, *store.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rentdata.json")
	if doc != "" {
		if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	diag := &diagnostics{}
	log := logging.New(diag)
	st := store.Open(path, log)
	m := newAppModel(st, diag, log)
	m = send(t, m, tea.WindowSizeMsg{Width: 200, Height: 40})
	return m, st, path
}

func send(t *testing.T, m appModel, msg tea.Msg) appModel {
	t.Helper()
	next, _ := m.Update(msg)
	am, ok := next.(appModel)
	if !ok {
		t.Fatalf("unexpected model type %T", next)
	}
	return am
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+u":
		return tea.KeyMsg{Type: tea.KeyCtrlU}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m appModel, keys ...string) appModel {
	t.Helper()
	for _, k := range keys {
		m = send(t, m, key(k))
	}
	return m
}

// editCell opens the editor on column f of the current row, replaces the text and commits.
func editCell(t *testing.T, m appModel, f model.Field, text string) appModel {
	t.Helper()
	m.col = colOf(f)
	m = press(t, m, "enter")
	if m.mode != modeEditCell {
		t.Fatalf("expected edit mode on %s; got %v", f, m.mode)
	}
	m = press(t, m, "ctrl+u")
	for _, r := range text {
		m = press(t, m, string(r))
	}
	return press(t, m, "enter")
}

func colOf(f model.Field) int {
	for i, ff := range model.Fields {
		if ff == f {
			return i
		}
	}
	return -1
}

func floatOf(t *testing.T, st *store.Store, name string, f model.Field) float64 {
	t.Helper()
	for _, e := range st.Snapshot() {
		if e.Name() == name {
			v, _ := e.Float(f)
			return v
		}
	}
	t.Fatalf("entry %q not found", name)
	return 0
}

func TestEditMoney_RecalculatesAndSaves(t *testing.T) {
	t.Parallel()

	m, st, path := newTestModel(t, alphaDoc)
	m = editCell(t, m, model.MonthlyRent, "2000")

	if m.mode != modeTable {
		t.Fatalf("expected table mode after commit; got %v", m.mode)
	}
	if got := floatOf(t, st, "Alpha", model.TotalRent); got != 2125 {
		t.Fatalf("expected total rent 2125; got %v", got)
	}
	if st.Dirty() {
		t.Fatalf("expected edit to be flushed")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(b), `"monthlyrent": 2000`) {
		t.Fatalf("expected saved rent; got:\n%s", b)
	}
}

func TestEdit_RejectsMalformedNumber(t *testing.T) {
	t.Parallel()

	m, st, _ := newTestModel(t, alphaDoc)
	m = editCell(t, m, model.Beds, "12x")

	e := st.Snapshot()[0]
	if v, _ := e.Int(model.Beds); v != 2 {
		t.Fatalf("expected beds to stay 2; got %d", v)
	}
	if !m.statusErr || !strings.Contains(m.status, "rejected edit") {
		t.Fatalf("expected rejection in status line; got %q (err=%v)", m.status, m.statusErr)
	}

	m = editCell(t, m, model.MonthlyRent, "1,200")
	if got := floatOf(t, st, "Alpha", model.MonthlyRent); got != 1000 {
		t.Fatalf("expected rent to stay 1000; got %v", got)
	}

	// Out of int8 range.
	_ = editCell(t, m, model.Baths, "200")
	if v, _ := st.Snapshot()[0].Int(model.Baths); v != 1 {
		t.Fatalf("expected baths to stay 1; got %d", v)
	}
}

func TestEdit_RejectsNonFiniteAmount(t *testing.T) {
	t.Parallel()

	m, st, path := newTestModel(t, alphaDoc)
	for _, text := range []string{"NaN", "inf", "-Inf", "1e999"} {
		m = editCell(t, m, model.Deposit, text)
		if got := floatOf(t, st, "Alpha", model.Deposit); got != 500 {
			t.Fatalf("%s: expected deposit to stay 500; got %v", text, got)
		}
		if !m.statusErr || !strings.Contains(m.status, "rejected edit") {
			t.Fatalf("%s: expected rejection in status line; got %q", text, m.status)
		}
	}

	if err := st.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	reopened := store.Open(path, logging.Nop())
	if reopened.Len() != 1 {
		t.Fatalf("expected the listing to survive a save; got %d entries", reopened.Len())
	}
}

func TestNewSession_LogsIntoDiagnostics(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), store.FileName)
	if err := os.WriteFile(path, []byte(`{"rentdata": [`), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}
	st, diag, m := newSession(path)
	defer st.Close()

	if m.store != st {
		t.Fatalf("expected the model to edit the opened store")
	}
	var buf strings.Builder
	if err := diag.ReplayTo(&buf); err != nil {
		t.Fatalf("replay: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatalf("expected the unreadable file to be reported in diagnostics")
	}
}

func TestEdit_EmptyMeansZero(t *testing.T) {
	t.Parallel()

	m, st, _ := newTestModel(t, alphaDoc)
	_ = editCell(t, m, model.ParkingMonthly, "")

	if got := floatOf(t, st, "Alpha", model.ParkingMonthly); got != 0 {
		t.Fatalf("expected parking 0; got %v", got)
	}
	if got := floatOf(t, st, "Alpha", model.TotalRent); got != 1100 {
		t.Fatalf("expected total rent 1100; got %v", got)
	}
}

func TestRename_RequiresUniqueName(t *testing.T) {
	t.Parallel()

	m, st, _ := newTestModel(t, twoDoc)
	m = press(t, m, "down")
	if m.currentName() != "Beta" {
		t.Fatalf("expected cursor on Beta; got %q", m.currentName())
	}

	m = editCell(t, m, model.Name, "alpha")
	if st.IsNameUnique("Beta") {
		t.Fatalf("expected rename to a taken name to be rejected")
	}
	if !strings.Contains(m.status, "name is already in use") {
		t.Fatalf("expected status diagnostic; got %q", m.status)
	}

	// Trailing space makes it a different name.
	m = editCell(t, m, model.Name, "alpha ")
	if !st.IsNameUnique("Beta") || st.IsNameUnique("alpha ") {
		t.Fatalf("expected rename to %q", "alpha ")
	}
	if m.currentName() != "alpha " {
		t.Fatalf("expected cursor to follow the renamed entry; got %q", m.currentName())
	}
}

func TestEditLink_IgnoresCaseOnlyChange(t *testing.T) {
	t.Parallel()

	m, st, _ := newTestModel(t, alphaDoc)
	m.col = linkCol
	m = press(t, m, "enter", "ctrl+u")
	for _, r := range "HTTPS://ALPHA" {
		m = press(t, m, string(r))
	}
	m = press(t, m, "enter")
	if got := st.Snapshot()[0].Link(); got != "https://alpha" {
		t.Fatalf("expected link unchanged; got %q", got)
	}

	m.col = linkCol
	m = press(t, m, "enter", "ctrl+u", "x")
	_ = press(t, m, "enter")
	if got := st.Snapshot()[0].Link(); got != "x" {
		t.Fatalf("expected link x; got %q", got)
	}
}

func TestDerivedColumn_IsReadOnly(t *testing.T) {
	t.Parallel()

	m, _, _ := newTestModel(t, alphaDoc)
	m.col = colOf(model.TotalRent)
	m = press(t, m, "enter")
	if m.mode != modeTable {
		t.Fatalf("expected derived column to refuse editing")
	}
	if !strings.Contains(m.status, "computed") {
		t.Fatalf("expected hint in status; got %q", m.status)
	}
}

func TestEditCancel_KeepsValue(t *testing.T) {
	t.Parallel()

	m, st, _ := newTestModel(t, alphaDoc)
	m.col = colOf(model.Deposit)
	m = press(t, m, "enter", "ctrl+u", "9", "esc")
	if m.mode != modeTable {
		t.Fatalf("expected table mode after esc")
	}
	if got := floatOf(t, st, "Alpha", model.Deposit); got != 500 {
		t.Fatalf("expected deposit 500; got %v", got)
	}
}

func TestAddAndDelete(t *testing.T) {
	t.Parallel()

	m, st, _ := newTestModel(t, alphaDoc)
	m = press(t, m, "a")
	if st.Len() != 2 {
		t.Fatalf("expected 2 entries; got %d", st.Len())
	}
	if m.currentName() != "New_1" {
		t.Fatalf("expected cursor on New_1; got %q", m.currentName())
	}

	m = press(t, m, "d")
	if m.mode != modeConfirmDelete {
		t.Fatalf("expected confirm modal")
	}
	if !strings.Contains(xansi.Strip(m.View()), "New_1") {
		t.Fatalf("expected modal to name the entry")
	}
	m = press(t, m, "esc")
	if st.Len() != 2 {
		t.Fatalf("expected cancel to keep the entry")
	}

	m = press(t, m, "d", "tab", "enter")
	if st.Len() != 2 || m.mode != modeTable {
		t.Fatalf("expected cancel button to keep the entry")
	}

	m = press(t, m, "d", "enter")
	if st.Len() != 1 || !st.IsNameUnique("New_1") {
		t.Fatalf("expected New_1 to be deleted")
	}
	if m.currentName() != "Alpha" {
		t.Fatalf("expected cursor to fall back to Alpha; got %q", m.currentName())
	}
}

func TestSortCycle(t *testing.T) {
	t.Parallel()

	m, st, _ := newTestModel(t, twoDoc)
	m = press(t, m, "s")
	if st.SortField() != model.Beds {
		t.Fatalf("expected sort by beds; got %v", st.SortField())
	}
	if m.rows[0].Name() != "Beta" {
		t.Fatalf("expected Beta first by beds; got %q", m.rows[0].Name())
	}

	m = press(t, m, "S", "S")
	if st.SortField() != model.RentFor4 {
		t.Fatalf("expected wrap-around to the last field; got %v", st.SortField())
	}
	if !strings.Contains(xansi.Strip(m.View()), "▲Rent") {
		t.Fatalf("expected sort marker in header")
	}
}

func TestPetCount_RecalculatesAll(t *testing.T) {
	t.Parallel()

	m, st, _ := newTestModel(t, alphaDoc)
	m = press(t, m, "p")
	if m.mode != modeEditPetCount || m.input.Value() != "2" {
		t.Fatalf("expected pet count editor seeded with 2; got mode %v value %q", m.mode, m.input.Value())
	}
	m = press(t, m, "ctrl+u", "0", "enter")
	if st.PetCount() != 0 {
		t.Fatalf("expected pet count 0; got %d", st.PetCount())
	}
	if got := floatOf(t, st, "Alpha", model.TotalRent); got != 1025 {
		t.Fatalf("expected total rent 1025; got %v", got)
	}

	_ = press(t, m, "p", "ctrl+u", "x", "enter")
	if st.PetCount() != 0 {
		t.Fatalf("expected malformed pet count to be rejected")
	}
}

func TestPollTick_ReloadsExternalChange(t *testing.T) {
	t.Parallel()

	m, st, path := newTestModel(t, alphaDoc)

	if err := os.WriteFile(path, []byte(twoDoc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	next, cmd := m.Update(pollTickMsg{})
	if cmd == nil {
		t.Fatalf("expected the poll to be rescheduled")
	}
	m = next.(appModel)
	if len(m.rows) != 2 || st.Len() != 2 {
		t.Fatalf("expected reload to pick up 2 entries; got %d", len(m.rows))
	}
}

func TestQuit_Flushes(t *testing.T) {
	t.Parallel()

	m, _, _ := newTestModel(t, alphaDoc)
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestView_RendersMoneyAndLabels(t *testing.T) {
	t.Parallel()

	m, _, _ := newTestModel(t, alphaDoc)
	out := xansi.Strip(m.View())
	for _, want := range []string{"Alpha", "1,125.00", "587.50", "356.25", "pets: 2"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected view to contain %q:\n%s", want, out)
		}
	}
}

func TestView_EmptyStore(t *testing.T) {
	t.Parallel()

	m, _, _ := newTestModel(t, "")
	if !strings.Contains(xansi.Strip(m.View()), "No listings yet") {
		t.Fatalf("expected empty hint")
	}
	// Editing with no rows is a no-op.
	m = press(t, m, "enter", "d")
	if m.mode != modeTable {
		t.Fatalf("expected table mode; got %v", m.mode)
	}
}

func TestHorizontalScroll_KeepsCursorVisible(t *testing.T) {
	t.Parallel()

	m, _, _ := newTestModel(t, alphaDoc)
	m = send(t, m, tea.WindowSizeMsg{Width: 60, Height: 20})
	for i := 0; i < numColumns; i++ {
		m = press(t, m, "l")
	}
	if m.col != linkCol {
		t.Fatalf("expected cursor on the link column; got %d", m.col)
	}
	cols := m.visibleColumns()
	if cols[0] != 0 || !containsInt(cols, linkCol) {
		t.Fatalf("expected name pinned and link visible; got %v", cols)
	}
}

func TestReportView(t *testing.T) {
	t.Setenv("RENTDATA_TUI_THEME", "dark")

	m, _, _ := newTestModel(t, alphaDoc)
	m = press(t, m, "v")
	if m.mode != modeReport {
		t.Fatalf("expected report mode")
	}
	if out := xansi.Strip(m.View()); !strings.Contains(out, "Rental cost report") {
		t.Fatalf("expected rendered report:\n%s", out)
	}
	m = press(t, m, "esc")
	if m.mode != modeTable {
		t.Fatalf("expected esc to return to the table")
	}
}

func TestHelpView(t *testing.T) {
	t.Setenv("RENTDATA_TUI_THEME", "dark")

	m, _, _ := newTestModel(t, alphaDoc)
	m = press(t, m, "?")
	if m.mode != modeReport {
		t.Fatalf("expected help view")
	}
	if out := xansi.Strip(m.View()); !strings.Contains(out, "Keys") {
		t.Fatalf("expected key reference:\n%s", out)
	}
	m = press(t, m, "?")
	if m.mode != modeTable {
		t.Fatalf("expected ? to close help")
	}
}
