package models

import "time"

// DayKeyFormat is the layout of the calendar day keys that bucket entries.
const DayKeyFormat = "2006-01-02"

// Entry is a single journal record within a day bucket. A day can hold any
// number of entries; insertion order is creation order.
type Entry struct {
	Date       string `json:"date"` // YYYY-MM-DD format
	Content    string `json:"content"`
	Rating     int    `json:"rating"` // 0–5, 0 means unrated
	AudioURL   string `json:"audioUrl,omitempty"`
	Transcript string `json:"transcript,omitempty"`
	Summary    string `json:"summary,omitempty"`
	CreatedAt  string `json:"createdAt,omitempty"` // RFC3339 timestamp
}

// HasAudio reports whether the entry carries a recording handle.
func (e Entry) HasAudio() bool {
	return e.AudioURL != ""
}

// EffectiveTime is the timestamp used for recency ordering: CreatedAt when
// it parses, otherwise local midnight of the entry's day key.
func (e Entry) EffectiveTime() time.Time {
	if e.CreatedAt != "" {
		if t, err := time.Parse(time.RFC3339, e.CreatedAt); err == nil {
			return t
		}
	}
	return DayStart(e.Date)
}

// DayStart returns local midnight for a day key. Unparseable keys yield the
// zero time, which sorts such entries out of any recency window.
func DayStart(dayKey string) time.Time {
	t, err := time.ParseInLocation(DayKeyFormat, dayKey, time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

// ValidDayKey reports whether s is a well-formed YYYY-MM-DD day key.
func ValidDayKey(s string) bool {
	_, err := time.Parse(DayKeyFormat, s)
	return err == nil
}
