package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/diarioapp/diario/internal/i18n"
	"github.com/diarioapp/diario/internal/journal"
	"github.com/diarioapp/diario/internal/media"
	"github.com/diarioapp/diario/internal/models"
	"github.com/diarioapp/diario/internal/tui/components/notelist"
)

type SessionState int

const (
	StateDay SessionState = iota
	StateRecent
	StateStats
	StateEditing
	StateConfirmDelete
)

// tabCount covers the cyclable tabs; modal states sit past it.
const tabCount = 3

type NoteFormModel struct {
	Content string
	Rating  int
}

type Model struct {
	store         *journal.Store
	media         *media.Owner
	lang          i18n.Lang
	state         SessionState
	previousState SessionState
	keys          KeyMap
	help          help.Model
	dayKey        string
	dayList       notelist.Model
	recentList    notelist.Model
	form          *huh.Form
	noteForm      *NoteFormModel
	editDayKey    string
	editIndex     int
	deleteDayKey  string
	deleteIndex   int
	status        string
	quitting      bool
	width         int
	height        int
}

func NewModel(store *journal.Store, owner *media.Owner, lang i18n.Lang) Model {
	dayKey := time.Now().Format(models.DayKeyFormat)

	m := Model{
		store:  store,
		media:  owner,
		lang:   lang,
		state:  StateDay,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		dayKey: dayKey,
		dayList: notelist.New(nil, i18n.T(lang, "app.title"),
			i18n.T(lang, "day.empty")+"\n  Press 'a' to add one.", true, 0, 0),
		recentList: notelist.New(nil, i18n.T(lang, "recent.title"),
			i18n.T(lang, "recent.empty", journal.RecentWindowDays), false, 0, 0),
	}
	m.refreshLists()

	return m
}

// refreshLists rebuilds both list views from the store after a mutation.
func (m *Model) refreshLists() {
	var dayNotes []journal.RecentEntry
	for i, entry := range m.store.Entries(m.dayKey) {
		dayNotes = append(dayNotes, journal.RecentEntry{
			Entry:  entry,
			DayKey: m.dayKey,
			Index:  i,
			When:   entry.EffectiveTime(),
		})
	}
	m.dayList.SetNotes(dayNotes)
	m.recentList.SetNotes(m.store.RecentEntries(journal.RecentWindowDays, time.Now()))
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	if m.state == StateDay {
		keys = append(keys, m.keys.Add, m.keys.Edit, m.keys.Delete)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Enter}

	var actions []key.Binding
	if m.state == StateDay {
		actions = []key.Binding{m.keys.Add, m.keys.Edit, m.keys.Delete, m.keys.Copy}
	}

	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// openNoteForm builds the huh form for editing one note.
func (m *Model) openNoteForm(dayKey string, index int) {
	entry, ok := m.store.Note(dayKey, index)
	if !ok {
		return
	}

	m.noteForm = &NoteFormModel{
		Content: entry.Content,
		Rating:  entry.Rating,
	}
	m.editDayKey = dayKey
	m.editIndex = index

	labels := i18n.Export(m.lang)
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title(labels.ContentLabel).
				Value(&m.noteForm.Content),
			huh.NewSelect[int]().
				Title(labels.RatingLabel).
				Options(
					huh.NewOption("-", 0),
					huh.NewOption("★", 1),
					huh.NewOption("★★", 2),
					huh.NewOption("★★★", 3),
					huh.NewOption("★★★★", 4),
					huh.NewOption("★★★★★", 5),
				).
				Value(&m.noteForm.Rating),
		),
	)
	m.previousState = m.state
	m.state = StateEditing
}
