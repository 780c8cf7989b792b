package tui

import (
	"time"

	"rentdata/internal/docs"
	"rentdata/internal/model"
	"rentdata/internal/publish"
	"rentdata/internal/store"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

type mode int

const (
	modeTable mode = iota
	modeEditCell
	modeEditPetCount
	modeConfirmDelete
	modeReport
)

const pollInterval = time.Second

type pollTickMsg struct{}

// Columns are model.Fields in order followed by the link.
var (
	linkCol    = len(model.Fields)
	numColumns = len(model.Fields) + 1
)

type appModel struct {
	store *store.Store
	diag  *diagnostics
	log   zerolog.Logger

	width  int
	height int

	mode mode

	rows      []model.Entry
	row       int
	col       int
	rowOffset int
	colOffset int

	input    textinput.Model
	editName string
	editCol  int

	confirmFocus  confirmModalFocus
	pendingDelete string

	report viewport.Model

	status    string
	statusErr bool
	diagSeq   int
}

func newAppModel(st *store.Store, diag *diagnostics, log zerolog.Logger) appModel {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 512

	m := appModel{
		store:     st,
		diag:      diag,
		log:       log,
		input:     ti,
		colOffset: 1,
	}
	// Load problems were logged before the UI existed; surface the latest one.
	m.syncDiagnostics()
	m.refresh("")
	return m
}

func (m appModel) Init() tea.Cmd { return tickPoll() }

func tickPoll() tea.Cmd {
	return tea.Tick(pollInterval, func(time.Time) tea.Msg { return pollTickMsg{} })
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	next.syncDiagnostics()
	return next, cmd
}

func (m appModel) update(msg tea.Msg) (appModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.report.Width = m.viewWidth()
		m.report.Height = m.reportHeight()
		m.ensureVisible()
		return m, nil

	case pollTickMsg:
		// Pick up edits made to the file by other programs.
		if m.store.Changed() {
			m.store.RequestReload()
			m.refresh(m.currentName())
		}
		return m, tickPoll()

	case tea.KeyMsg:
		switch m.mode {
		case modeEditCell, modeEditPetCount:
			return m.updateInput(msg)
		case modeConfirmDelete:
			return m.updateConfirm(msg)
		case modeReport:
			return m.updateReport(msg)
		default:
			return m.updateTable(msg)
		}
	}
	return m, nil
}

func (m appModel) updateTable(msg tea.KeyMsg) (appModel, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		if err := m.store.Close(); err != nil {
			m.log.Error().Err(err).Msg("failed to save before exit")
		}
		return m, tea.Quit

	case "up", "k":
		m.moveRow(-1)
	case "down", "j":
		m.moveRow(1)
	case "pgup":
		m.moveRow(-m.bodyHeight())
	case "pgdown":
		m.moveRow(m.bodyHeight())
	case "home", "g":
		m.moveRow(-len(m.rows))
	case "end", "G":
		m.moveRow(len(m.rows))
	case "left", "h", "shift+tab":
		m.moveCol(-1)
	case "right", "l", "tab":
		m.moveCol(1)

	case "enter":
		return m.startCellEdit()

	case "a":
		name, err := m.store.InsertDefault()
		if err != nil {
			m.log.Error().Err(err).Msg("failed to add entry")
			return m, nil
		}
		m.refresh(name)
		m.setStatus("Added "+name, false)

	case "d":
		if e, ok := m.current(); ok {
			m.pendingDelete = e.Name()
			m.confirmFocus = confirmFocusConfirm
			m.mode = modeConfirmDelete
		}

	case "s":
		m.cycleSort(1)
	case "S":
		m.cycleSort(-1)

	case "p":
		m.mode = modeEditPetCount
		return m, m.beginInput(itoa8(m.store.PetCount()))

	case "r":
		m.store.RequestReload()
		m.refresh(m.currentName())
		m.setStatus("Reloaded "+m.store.Path(), false)

	case "v":
		m.openReport()
	case "?":
		m.openHelp()
	}
	return m, nil
}

func (m appModel) updateInput(msg tea.KeyMsg) (appModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if m.mode == modeEditPetCount {
			m.commitPetCount(m.input.Value())
		} else {
			m.commitCellEdit(m.input.Value())
		}
		m.endInput()
		return m, nil
	case "esc", "ctrl+g":
		m.endInput()
		m.setStatus("Edit cancelled", false)
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m appModel) updateConfirm(msg tea.KeyMsg) (appModel, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab", "left", "right", "h", "l":
		m.confirmFocus = m.confirmFocus.toggle()
	case "y":
		m.confirmFocus = confirmFocusConfirm
		m.applyDelete()
	case "enter":
		if m.confirmFocus == confirmFocusConfirm {
			m.applyDelete()
		} else {
			m.mode = modeTable
		}
	case "esc", "ctrl+g", "n":
		m.mode = modeTable
	}
	return m, nil
}

func (m *appModel) applyDelete() {
	name := m.pendingDelete
	m.pendingDelete = ""
	m.mode = modeTable
	m.store.Delete(name)
	m.refresh("")
	m.setStatus("Deleted "+name, false)
}

func (m appModel) updateReport(msg tea.KeyMsg) (appModel, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "v", "?":
		m.mode = modeTable
		return m, nil
	case "ctrl+c":
		m.mode = modeTable
		return m.updateTable(msg)
	}
	var cmd tea.Cmd
	m.report, cmd = m.report.Update(msg)
	return m, cmd
}

func (m *appModel) openReport() {
	md := publish.RenderReportMarkdown(m.store.PetCount(), m.rows, publish.RenderOptions{SortField: m.store.SortField()})
	m.report = viewport.New(m.viewWidth(), m.reportHeight())
	m.report.SetContent(RenderMarkdown(md, m.viewWidth()))
	m.mode = modeReport
}

func (m *appModel) openHelp() {
	body, _ := docs.Get("keys")
	m.report = viewport.New(m.viewWidth(), m.reportHeight())
	m.report.SetContent(RenderMarkdown(body, m.viewWidth()))
	m.mode = modeReport
}

func (m *appModel) cycleSort(delta int) {
	n := len(model.Fields)
	next := (int(m.store.SortField()) + delta + n) % n
	m.store.SetSortField(model.Fields[next])
	m.refresh(m.currentName())
	m.setStatus("Sorted by "+model.Fields[next].String(), false)
}

// refresh takes a new snapshot and moves the cursor to selectName when it is
// still present.
func (m *appModel) refresh(selectName string) {
	m.rows = m.store.Snapshot()
	if selectName != "" {
		for i, e := range m.rows {
			if e.Name() == selectName {
				m.row = i
				break
			}
		}
	}
	m.ensureVisible()
}

func (m appModel) current() (model.Entry, bool) {
	if m.row < 0 || m.row >= len(m.rows) {
		return model.Entry{}, false
	}
	return m.rows[m.row], true
}

func (m appModel) currentName() string {
	if e, ok := m.current(); ok {
		return e.Name()
	}
	return ""
}

func (m *appModel) moveRow(delta int) {
	m.row += delta
	m.ensureVisible()
}

func (m *appModel) moveCol(delta int) {
	m.col += delta
	m.ensureVisible()
}

func (m *appModel) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

// syncDiagnostics shows the newest logged line in the status bar.
func (m *appModel) syncDiagnostics() {
	if m.diag == nil {
		return
	}
	line, seq := m.diag.Last()
	if seq != m.diagSeq {
		m.diagSeq = seq
		m.setStatus(line, true)
	}
}
