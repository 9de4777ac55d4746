package journal

import (
	"encoding/json"
	"time"

	"github.com/diarioapp/diario/internal/models"
)

// Migrate converts a raw persisted entries payload of any historical shape
// into the current day-keyed multi-note form. Three shapes exist in the
// wild: one record per day, an array of records per day, and arrays whose
// records predate one or more fields. Migrate is total: malformed input
// yields a best-effort store, never an error.
func Migrate(raw []byte) map[string][]models.Entry {
	migrated := make(map[string][]models.Entry)
	if len(raw) == 0 {
		return migrated
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		// Not an object at the top level; nothing salvageable.
		return migrated
	}

	for dayKey, value := range top {
		var items []json.RawMessage
		// A JSON null also unmarshals cleanly, leaving items nil; only a real
		// array counts as the multi-note shape.
		if err := json.Unmarshal(value, &items); err == nil && items != nil {
			entries := make([]models.Entry, 0, len(items))
			for _, item := range items {
				entries = append(entries, normalizeEntry(dayKey, item))
			}
			migrated[dayKey] = entries
			continue
		}
		// Legacy single-entry-per-day shape.
		migrated[dayKey] = []models.Entry{normalizeEntry(dayKey, value)}
	}

	return migrated
}

// normalizeEntry coerces one raw candidate record into a valid Entry.
// Fields are copied through only when they carry the expected JSON type;
// everything else falls back to the documented defaults.
func normalizeEntry(dayKey string, raw json.RawMessage) models.Entry {
	entry := models.Entry{
		Date:      dayKey,
		CreatedAt: midnightISO(dayKey),
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return entry
	}

	if s, ok := asString(fields["date"]); ok {
		entry.Date = s
	}
	if s, ok := asString(fields["content"]); ok {
		entry.Content = s
	}
	if n, ok := asNumber(fields["rating"]); ok {
		entry.Rating = int(n)
	}
	if s, ok := asString(fields["audioUrl"]); ok {
		entry.AudioURL = s
	}
	if s, ok := asString(fields["transcript"]); ok {
		entry.Transcript = s
	}
	if s, ok := asString(fields["summary"]); ok {
		entry.Summary = s
	}
	if s, ok := asString(fields["createdAt"]); ok {
		entry.CreatedAt = s
	}

	return entry
}

func asString(raw json.RawMessage) (string, bool) {
	if raw == nil {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func asNumber(raw json.RawMessage) (float64, bool) {
	if raw == nil {
		return 0, false
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, false
	}
	return n, true
}

// midnightISO renders local midnight of a day key as RFC3339, the synthetic
// createdAt for records that predate the field. Unparseable day keys render
// the zero time so the record still round-trips.
func midnightISO(dayKey string) string {
	t, err := time.ParseInLocation(models.DayKeyFormat, dayKey, time.Local)
	if err != nil {
		return time.Time{}.Format(time.RFC3339)
	}
	return t.Format(time.RFC3339)
}
