package tui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"rentdata/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) startCellEdit() (appModel, tea.Cmd) {
	e, ok := m.current()
	if !ok {
		return m, nil
	}
	if m.col != linkCol && !model.Fields[m.col].Editable() {
		m.setStatus(model.Fields[m.col].String()+" is computed and cannot be edited", false)
		return m, nil
	}
	m.editName = e.Name()
	m.editCol = m.col
	m.mode = modeEditCell
	return m, m.beginInput(rawCellText(e, m.col))
}

func (m *appModel) beginInput(seed string) tea.Cmd {
	m.input.SetValue(seed)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *appModel) endInput() {
	m.input.Blur()
	m.input.SetValue("")
	m.editName = ""
	m.mode = modeTable
}

func (m appModel) inputLabel() string {
	if m.mode == modeEditPetCount {
		return "Pet count"
	}
	return columnLabel(m.editCol) + " of " + m.editName
}

// commitCellEdit applies the edited text to the entry being edited. Rejected
// input leaves the entry untouched and is logged.
func (m *appModel) commitCellEdit(text string) {
	name := m.editName
	e, ok := m.entryNamed(name)
	if !ok {
		m.log.Warn().Str("name", name).Msg("entry disappeared while editing")
		return
	}

	if m.editCol == linkCol {
		if strings.EqualFold(text, e.Link()) {
			return
		}
		m.store.SetLink(name, text)
		m.refresh(name)
		return
	}

	f := model.Fields[m.editCol]
	switch {
	case f == model.Name:
		if e.Is(text) {
			return
		}
		if !m.store.IsNameUnique(text) {
			m.log.Warn().Str("name", text).Msg("name is already in use")
			return
		}
		m.store.Rename(name, text)
		m.refresh(text)

	case f.IsInt():
		v, err := parseInt8(text)
		if err != nil {
			m.log.Warn().Err(err).Str("field", f.String()).Msg("rejected edit")
			return
		}
		m.store.SetInt(name, f, v)
		m.refresh(name)

	case f.Editable():
		v, err := parseMoney(text)
		if err != nil {
			m.log.Warn().Err(err).Str("field", f.String()).Msg("rejected edit")
			return
		}
		m.store.SetFloat(name, f, v)
		m.refresh(name)
	}
}

func (m *appModel) commitPetCount(text string) {
	v, err := parseInt8(text)
	if err != nil {
		m.log.Warn().Err(err).Msg("rejected pet count")
		return
	}
	m.store.SetPetCount(v)
	m.refresh(m.currentName())
	m.setStatus("Pet count set to "+itoa8(v), false)
}

func (m appModel) entryNamed(name string) (model.Entry, bool) {
	for _, e := range m.rows {
		if e.Name() == name {
			return e, true
		}
	}
	return model.Entry{}, false
}

// parseInt8 parses a small integer. Empty text means zero.
func parseInt8(text string) (int8, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(text, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("parse %q as a whole number: %w", text, err)
	}
	return int8(v), nil
}

// parseMoney parses a currency amount. Empty text means zero.
func parseMoney(text string) (float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %q as an amount: %w", text, err)
	}
	// The data file cannot hold these; accepting one would drop the listing on save.
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("parse %q as an amount: not a finite number", text)
	}
	return v, nil
}

func itoa8(v int8) string { return strconv.Itoa(int(v)) }

// rawCellText is the editable form of a cell: no separators, full precision.
func rawCellText(e model.Entry, col int) string {
	if col == linkCol {
		return e.Link()
	}
	f := model.Fields[col]
	if f == model.Name {
		return e.Name()
	}
	if v, ok := e.Int(f); ok {
		return itoa8(v)
	}
	v, _ := e.Float(f)
	return strconv.FormatFloat(v, 'f', -1, 64)
}
