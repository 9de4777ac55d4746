package notelist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/diarioapp/diario/internal/journal"
)

type AddNoteMsg struct{}

type EditNoteMsg struct {
	DayKey string
	Index  int
}

type DeleteNoteMsg struct {
	DayKey string
	Index  int
}

type CopyNoteMsg struct {
	DayKey string
	Index  int
}

type Item struct {
	Note journal.RecentEntry
}

func (i Item) Title() string {
	title := i.Note.When.Format("15:04")
	if i.Note.Rating > 0 {
		title += "  " + strings.Repeat("★", i.Note.Rating) + strings.Repeat("☆", 5-i.Note.Rating)
	}
	if i.Note.HasAudio() {
		title += "  🎙"
	}
	return title
}

func (i Item) Description() string {
	body := i.Note.Content
	if body == "" {
		body = i.Note.Summary
	}
	if body == "" {
		body = i.Note.Transcript
	}
	if body == "" {
		return "(empty note)"
	}
	return oneLine(body, 80)
}

func (i Item) FilterValue() string {
	return i.Note.Content + " " + i.Note.Summary + " " + i.Note.Transcript
}

func oneLine(s string, max int) string {
	s = strings.ReplaceAll(strings.TrimSpace(s), "\n", " ")
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}

type KeyMap struct {
	Add    key.Binding
	Edit   key.Binding
	Delete key.Binding
	Copy   key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e", "enter"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Copy: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy"),
		),
	}
}

type Model struct {
	list     list.Model
	keys     KeyMap
	editable bool
	empty    string
}

// New builds a note list. Editable lists (the day view) emit add, edit,
// delete and copy messages; read-only lists (the recent view) only browse.
func New(notes []journal.RecentEntry, title, empty string, editable bool, width, height int) Model {
	items := make([]list.Item, len(notes))
	for i, n := range notes {
		items[i] = Item{Note: n}
	}

	l := list.New(items, list.NewDefaultDelegate(), width, height)
	l.Title = title
	l.SetShowTitle(false)
	l.SetShowHelp(false) // handled globally by the main model

	keys := DefaultKeyMap()
	if editable {
		l.AdditionalShortHelpKeys = func() []key.Binding {
			return []key.Binding{keys.Add, keys.Edit, keys.Delete, keys.Copy}
		}
		l.AdditionalFullHelpKeys = func() []key.Binding {
			return []key.Binding{keys.Add, keys.Edit, keys.Delete, keys.Copy}
		}
	}

	return Model{list: l, keys: keys, editable: editable, empty: empty}
}

func (m *Model) SetNotes(notes []journal.RecentEntry) {
	items := make([]list.Item, len(notes))
	for i, n := range notes {
		items[i] = Item{Note: n}
	}
	m.list.SetItems(items)
}

func (m Model) Selected() (journal.RecentEntry, bool) {
	i, ok := m.list.SelectedItem().(Item)
	if !ok {
		return journal.RecentEntry{}, false
	}
	return i.Note, true
}

// FilterActive reports whether the user is typing a filter query, so global
// keybindings can stand down.
func (m Model) FilterActive() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		if !m.editable {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddNoteMsg{} }
		case key.Matches(msg, m.keys.Edit):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return EditNoteMsg{DayKey: i.Note.DayKey, Index: i.Note.Index} }
			}
		case key.Matches(msg, m.keys.Delete):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return DeleteNoteMsg{DayKey: i.Note.DayKey, Index: i.Note.Index} }
			}
		case key.Matches(msg, m.keys.Copy):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return CopyNoteMsg{DayKey: i.Note.DayKey, Index: i.Note.Index} }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return fmt.Sprintf("\n  %s", m.empty)
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
