package i18n

import (
	"fmt"
	"strings"
	"time"
)

// Lang is a display language code.
type Lang string

const (
	LangIt Lang = "it"
	LangEn Lang = "en"
)

// ParseLang normalizes a user-supplied language code, defaulting to Italian.
func ParseLang(s string) Lang {
	if strings.EqualFold(strings.TrimSpace(s), "en") {
		return LangEn
	}
	return LangIt
}

// ExportLabels are the localized strings the calendar export embeds in every
// event.
type ExportLabels struct {
	CalendarName    string
	RatingLabel     string
	ContentLabel    string
	TranscriptLabel string
	SummaryLabel    string
	None            string
}

func Export(lang Lang) ExportLabels {
	if lang == LangEn {
		return ExportLabels{
			CalendarName:    "Psychological Journal",
			RatingLabel:     "Rating",
			ContentLabel:    "Content",
			TranscriptLabel: "Transcript",
			SummaryLabel:    "Summary",
			None:            "None",
		}
	}
	return ExportLabels{
		CalendarName:    "Diario Psicologico",
		RatingLabel:     "Valutazione",
		ContentLabel:    "Contenuto",
		TranscriptLabel: "Trascrizione",
		SummaryLabel:    "Sintesi",
		None:            "Nessuna",
	}
}

var dict = map[Lang]map[string]string{
	LangIt: {
		"app.title":          "Diario Psicologico",
		"app.subtitle":       "Le tue riflessioni quotidiane, in un unico posto.",
		"day.empty":          "Nessuna nota per questo giorno.",
		"day.noteN":          "Nota %d",
		"recent.title":       "Note recenti",
		"recent.empty":       "Nessuna voce negli ultimi %d giorni.",
		"stats.total":        "Voci totali",
		"stats.avg":          "Valutazione media",
		"stats.recordings":   "Audio registrati",
		"stats.ratingsReset": "Statistiche azzerate: tutti i voti sono stati impostati a 0.",
		"audio.purged":       "Eliminati audio da %d voci. Trascrizioni e sintesi rimosse.",
		"audio.purgedNone":   "Nessun audio trovato da eliminare. Trascrizioni e sintesi rimosse comunque.",
		"export.done":        "Esportazione completata: %s",
		"onboard.done":       "Configurazione iniziale completata.",
		"onboard.hint":       "Prima esecuzione: usa 'diario settings onboard' per configurare trascrizione e sintesi AI.",
	},
	LangEn: {
		"app.title":          "Psychological Journal",
		"app.subtitle":       "Your daily reflections, in one place.",
		"day.empty":          "No notes for this day.",
		"day.noteN":          "Note %d",
		"recent.title":       "Recent notes",
		"recent.empty":       "No entries in the last %d days.",
		"stats.total":        "Total entries",
		"stats.avg":          "Average rating",
		"stats.recordings":   "Audio recordings",
		"stats.ratingsReset": "Stats reset: all ratings set to 0.",
		"audio.purged":       "Removed audio from %d entries. Transcripts and summaries cleared.",
		"audio.purgedNone":   "No audio found to remove. Transcripts and summaries cleared anyway.",
		"export.done":        "Export complete: %s",
		"onboard.done":       "Onboarding complete.",
		"onboard.hint":       "First run: use 'diario settings onboard' to set up AI transcription and summaries.",
	},
}

// T looks up a UI string for the language, formatting args into it. Unknown
// keys come back verbatim so a missing translation never hides output.
func T(lang Lang, key string, args ...interface{}) string {
	msg, ok := dict[lang][key]
	if !ok {
		msg = key
	}
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}

var (
	itWeekdays = [...]string{"domenica", "lunedì", "martedì", "mercoledì", "giovedì", "venerdì", "sabato"}
	itMonths   = [...]string{"gennaio", "febbraio", "marzo", "aprile", "maggio", "giugno",
		"luglio", "agosto", "settembre", "ottobre", "novembre", "dicembre"}
)

// LongDate renders a day in the language's long form.
func LongDate(t time.Time, lang Lang) string {
	if lang == LangEn {
		return t.Format("Monday, January 2, 2006")
	}
	return fmt.Sprintf("%s %d %s %d", itWeekdays[int(t.Weekday())], t.Day(), itMonths[int(t.Month())-1], t.Year())
}
