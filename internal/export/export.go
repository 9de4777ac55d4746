package export

import (
	"encoding/json"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/diarioapp/diario/internal/i18n"
	"github.com/diarioapp/diario/internal/models"
)

// Events are anchored at a fixed evening slot on the entry's day so every
// entry maps to a distinct, validly-ordered time range.
const (
	eventStartHour   = 18
	eventDurationMin = 30
)

// Error reports an entry the ICS builder rejected. No partial payload is
// ever returned alongside it.
type Error struct {
	Index int
	Date  string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("cannot export entry %d (date %q): %v", e.Index, e.Date, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Entry is the exported subset of a journal record.
type Entry struct {
	Date       string `json:"date"`
	Content    string `json:"content"`
	Rating     int    `json:"rating"`
	Transcript string `json:"transcript,omitempty"`
	Summary    string `json:"summary,omitempty"`
	AudioURL   string `json:"audioUrl,omitempty"`
}

// FromModels strips journal records down to their exported subset. Callers
// wanting a privacy-safe export blank the text fields before encoding;
// the encoders have no sensitivity logic of their own.
func FromModels(entries []models.Entry) []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = Entry{
			Date:       e.Date,
			Content:    e.Content,
			Rating:     e.Rating,
			Transcript: e.Transcript,
			Summary:    e.Summary,
			AudioURL:   e.AudioURL,
		}
	}
	return out
}

// Blank clears the sensitive text fields of every entry, for privacy-flagged
// exports.
func Blank(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		e.Content = ""
		e.Transcript = ""
		e.Summary = ""
		out[i] = e
	}
	return out
}

// ToJSON renders the entries as a pretty-printed array.
func ToJSON(entries []Entry) (string, error) {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode entries: %w", err)
	}
	return string(data), nil
}

// ToICS renders one VEVENT per entry, labels localized for lang. Event UIDs
// derive deterministically from the entry's date and list position, so
// re-exporting identical input yields identical UIDs and calendar importers
// can deduplicate.
func ToICS(entries []Entry, lang i18n.Lang) (string, error) {
	labels := i18n.Export(lang)

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetXWRCalName(labels.CalendarName)

	for i, entry := range entries {
		day, err := time.ParseInLocation(models.DayKeyFormat, entry.Date, time.Local)
		if err != nil {
			return "", &Error{Index: i, Date: entry.Date, Err: err}
		}

		start := time.Date(day.Year(), day.Month(), day.Day(), eventStartHour, 0, 0, 0, time.Local)
		end := start.Add(eventDurationMin * time.Minute)

		event := cal.AddEvent(eventUID(entry.Date, i))
		event.SetDtStampTime(start)
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary(fmt.Sprintf("%s - %s: %d/5", labels.CalendarName, labels.RatingLabel, entry.Rating))
		event.SetDescription(eventDescription(entry, labels))
	}

	return cal.Serialize(), nil
}

// eventUID hashes the entry's date and position into a stable UUID.
func eventUID(date string, index int) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(fmt.Sprintf("diario-%s-%d", date, index))).String()
}

func eventDescription(entry Entry, labels i18n.ExportLabels) string {
	transcript := entry.Transcript
	if transcript == "" {
		transcript = labels.None
	}
	summary := entry.Summary
	if summary == "" {
		summary = labels.None
	}
	return fmt.Sprintf("%s: %s\n\n%s: %s\n\n%s: %s",
		labels.ContentLabel, entry.Content,
		labels.TranscriptLabel, transcript,
		labels.SummaryLabel, summary,
	)
}

// Filename names an export payload by the day it was produced.
func Filename(now time.Time, extension string) string {
	return fmt.Sprintf("diario-%s.%s", now.Format(models.DayKeyFormat), extension)
}
