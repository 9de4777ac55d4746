package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/diarioapp/diario/internal/i18n"
	"github.com/diarioapp/diario/internal/models"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string

	switch m.state {
	case StateDay:
		content = m.viewDay()
	case StateRecent:
		content = m.viewRecent()
	case StateStats:
		content = m.viewStats()
	case StateEditing:
		content = m.form.View()
	case StateConfirmDelete:
		content = m.viewConfirmDelete()
	}

	sections := []string{m.viewTabs(), content}
	if m.status != "" {
		sections = append(sections, statusStyle.Render("  "+m.status))
	}
	sections = append(sections, m.help.View(m))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range m.tabTitles() {
		if m.state == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) tabTitles() []string {
	if m.lang == i18n.LangEn {
		return []string{"Today", "Recent", "Stats"}
	}
	return []string{"Oggi", "Recenti", "Statistiche"}
}

func (m Model) viewDay() string {
	header := labelStyle.Render("  " + i18n.LongDate(models.DayStart(m.dayKey), m.lang))
	return lipgloss.JoinVertical(lipgloss.Left, header, docStyle.Render(m.dayList.View()))
}

func (m Model) viewRecent() string {
	return docStyle.Render(m.recentList.View())
}

func (m Model) viewStats() string {
	lines := lipgloss.JoinVertical(lipgloss.Left,
		fmt.Sprintf("%s: %d", i18n.T(m.lang, "stats.total"), m.store.TotalEntries()),
		fmt.Sprintf("%s: %s", i18n.T(m.lang, "stats.avg"), m.store.AverageRating()),
		fmt.Sprintf("%s: %d", i18n.T(m.lang, "stats.recordings"), m.store.AudioRecordingCount()),
		"",
		labelStyle.Render(fmt.Sprintf("Days with entries: %d", len(m.store.DaysWithEntries()))),
	)
	return docStyle.Render(lines)
}

func (m Model) viewConfirmDelete() string {
	entry, _ := m.store.Note(m.deleteDayKey, m.deleteIndex)
	when := entry.EffectiveTime()
	if when.IsZero() {
		when = time.Now()
	}

	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render("Are you sure you want to delete this note?"),
			labelStyle.Render(fmt.Sprintf("%s %s", m.deleteDayKey, when.Format("15:04"))),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
