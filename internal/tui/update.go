package tui

import (
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/diarioapp/diario/internal/journal"
	"github.com/diarioapp/diario/internal/tui/components/notelist"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		h, v := docStyle.GetFrameSize()
		m.dayList.SetSize(msg.Width-h, msg.Height-v-4)
		m.recentList.SetSize(msg.Width-h, msg.Height-v-4)
		return m, nil

	case notelist.AddNoteMsg:
		index, err := m.store.CreateNote(m.dayKey, time.Now())
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.refreshLists()
		m.openNoteForm(m.dayKey, index)
		return m, m.form.Init()

	case notelist.EditNoteMsg:
		m.openNoteForm(msg.DayKey, msg.Index)
		if m.form == nil {
			return m, nil
		}
		return m, m.form.Init()

	case notelist.DeleteNoteMsg:
		m.deleteDayKey = msg.DayKey
		m.deleteIndex = msg.Index
		m.previousState = m.state
		m.state = StateConfirmDelete
		return m, nil

	case notelist.CopyNoteMsg:
		if entry, ok := m.store.Note(msg.DayKey, msg.Index); ok {
			body := entry.Content
			if body == "" {
				body = entry.Summary
			}
			if body == "" {
				body = entry.Transcript
			}
			if err := clipboard.WriteAll(body); err != nil {
				m.status = err.Error()
			} else {
				m.status = "Copied to clipboard."
			}
		}
		return m, nil
	}

	switch m.state {
	case StateEditing:
		return m.updateEditing(msg)
	case StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Quit):
			if m.dayList.FilterActive() || m.recentList.FilterActive() {
				break
			}
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % tabCount
			m.status = ""
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state - 1 + tabCount) % tabCount
			m.status = ""
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case StateDay:
		m.dayList, cmd = m.dayList.Update(msg)
	case StateRecent:
		m.recentList, cmd = m.recentList.Update(msg)
	}
	return m, cmd
}

func (m Model) updateEditing(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		patch := journal.Patch{
			Content: &m.noteForm.Content,
			Rating:  &m.noteForm.Rating,
		}
		if _, err := m.store.UpdateNote(m.editDayKey, m.editIndex, patch); err != nil {
			m.status = err.Error()
		}
		m.refreshLists()
		m.form = nil
		m.noteForm = nil
		m.state = m.previousState
		return m, nil
	case huh.StateAborted:
		m.form = nil
		m.noteForm = nil
		m.state = m.previousState
		return m, nil
	}

	return m, cmd
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "y", "Y":
		released, err := m.store.DeleteNote(m.deleteDayKey, m.deleteIndex)
		if err != nil {
			m.status = err.Error()
		} else {
			m.media.Release(released)
		}
		m.refreshLists()
		m.state = m.previousState
	case "n", "N", "esc", "q":
		m.state = m.previousState
	}
	return m, nil
}
