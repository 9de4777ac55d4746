package journal

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/diarioapp/diario/internal/logger"
	"github.com/diarioapp/diario/internal/models"
	"github.com/diarioapp/diario/internal/storage"
)

// RecentWindowDays is the default lookback window of the recent view.
const RecentWindowDays = 30

// FallbackPolicy selects which derived text substitutes for an empty content
// body when an entry is saved. Summary-first is the default.
type FallbackPolicy int

const (
	FallbackSummaryFirst FallbackPolicy = iota
	FallbackTranscriptFirst
)

// PersistError reports a storage write failure. The in-memory snapshot has
// already been updated and stays authoritative for the session; only
// durability is lost.
type PersistError struct {
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("failed to persist journal entries: %v", e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}

// Patch carries the fields of an entry to replace; nil fields are left
// untouched. Setting AudioURL (even to the empty string) clears the derived
// transcript and summary together with the handle, mirroring how the
// recorder UI persists an audio deletion.
type Patch struct {
	Content    *string
	Rating     *int
	AudioURL   *string
	Transcript *string
	Summary    *string
}

// Fields is a full entry body for SaveEntry.
type Fields struct {
	Content    string
	Rating     int
	AudioURL   string
	Transcript string
	Summary    string
}

// Store owns the day-keyed journal. Every mutation updates the in-memory
// snapshot and immediately re-serializes it to the backend. Operations that
// detach an audio handle return it so the owning component can release the
// underlying resource; the store itself holds nothing but the string.
type Store struct {
	backend storage.Provider
	policy  FallbackPolicy
	entries map[string][]models.Entry
}

// Open loads the persisted entries through the migration normalizer. A
// missing key yields an empty store; malformed payloads are absorbed by the
// normalizer and never fail the load.
func Open(backend storage.Provider) (*Store, error) {
	raw, ok, err := backend.Get(storage.KeyEntries)
	if err != nil {
		return nil, fmt.Errorf("failed to load journal entries: %w", err)
	}

	s := &Store{
		backend: backend,
		policy:  FallbackSummaryFirst,
		entries: make(map[string][]models.Entry),
	}
	if ok {
		s.entries = Migrate([]byte(raw))
	}
	return s, nil
}

func (s *Store) SetFallbackPolicy(policy FallbackPolicy) {
	s.policy = policy
}

func (s *Store) persist() error {
	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return &PersistError{Err: err}
	}
	if err := s.backend.Set(storage.KeyEntries, string(data)); err != nil {
		logger.Error("journal persist failed", "err", err)
		return &PersistError{Err: err}
	}
	return nil
}

// Entries returns a copy of the day's note sequence.
func (s *Store) Entries(dayKey string) []models.Entry {
	day := s.entries[dayKey]
	out := make([]models.Entry, len(day))
	copy(out, day)
	return out
}

// Note returns the entry at index for a day, if it exists.
func (s *Store) Note(dayKey string, index int) (models.Entry, bool) {
	day := s.entries[dayKey]
	if index < 0 || index >= len(day) {
		return models.Entry{}, false
	}
	return day[index], true
}

// CreateNote appends an empty note to the day and returns its index.
func (s *Store) CreateNote(dayKey string, now time.Time) (int, error) {
	note := models.Entry{
		Date:      dayKey,
		CreatedAt: now.Format(time.RFC3339),
	}
	s.entries[dayKey] = append(s.entries[dayKey], note)
	return len(s.entries[dayKey]) - 1, s.persist()
}

// UpdateNote replaces only the provided fields of the entry at index. A
// missing slot is a no-op. The returned handle, when non-empty, is an audio
// URL the caller must release.
func (s *Store) UpdateNote(dayKey string, index int, patch Patch) (string, error) {
	day := s.entries[dayKey]
	if index < 0 || index >= len(day) {
		return "", nil
	}

	entry := day[index]
	released := ""

	if patch.Content != nil {
		entry.Content = *patch.Content
	}
	if patch.Rating != nil {
		entry.Rating = clampRating(*patch.Rating)
	}
	if patch.AudioURL != nil {
		if entry.AudioURL != "" && entry.AudioURL != *patch.AudioURL {
			released = entry.AudioURL
		}
		entry.AudioURL = *patch.AudioURL
		if entry.AudioURL == "" {
			entry.Transcript = ""
			entry.Summary = ""
		}
	}
	if patch.Transcript != nil {
		entry.Transcript = *patch.Transcript
	}
	if patch.Summary != nil {
		entry.Summary = *patch.Summary
	}

	day[index] = entry
	return released, s.persist()
}

// DeleteNote removes the entry at index. The returned handle, when
// non-empty, is the deleted entry's audio URL to release.
func (s *Store) DeleteNote(dayKey string, index int) (string, error) {
	day := s.entries[dayKey]
	if index < 0 || index >= len(day) {
		return "", nil
	}

	released := day[index].AudioURL
	s.entries[dayKey] = append(day[:index:index], day[index+1:]...)
	return released, s.persist()
}

// SaveEntry writes the full body of a note. When the content is blank it is
// substituted, per the configured fallback policy, by the summary or
// transcript so voice-only notes still have a readable body. Saving to an
// index just past the end appends a new note.
func (s *Store) SaveEntry(dayKey string, index int, fields Fields, now time.Time) error {
	content := fields.Content
	if strings.TrimSpace(content) == "" {
		content = s.fallbackContent(fields)
	}

	entry := models.Entry{
		Date:       dayKey,
		Content:    content,
		Rating:     clampRating(fields.Rating),
		AudioURL:   fields.AudioURL,
		Transcript: fields.Transcript,
		Summary:    fields.Summary,
		CreatedAt:  now.Format(time.RFC3339),
	}

	day := s.entries[dayKey]
	if index >= 0 && index < len(day) {
		day[index] = entry
	} else {
		s.entries[dayKey] = append(day, entry)
	}
	return s.persist()
}

func (s *Store) fallbackContent(fields Fields) string {
	first, second := fields.Summary, fields.Transcript
	if s.policy == FallbackTranscriptFirst {
		first, second = fields.Transcript, fields.Summary
	}
	if strings.TrimSpace(first) != "" {
		return first
	}
	if strings.TrimSpace(second) != "" {
		return second
	}
	return ""
}

// ResetAllRatings zeroes the rating of every note across all days in one
// snapshot swap, leaving every other field untouched.
func (s *Store) ResetAllRatings() error {
	for dayKey, day := range s.entries {
		for i := range day {
			day[i].Rating = 0
		}
		s.entries[dayKey] = day
	}
	return s.persist()
}

// DeleteAllAudio clears audio URL, transcript and summary on every note.
// It returns how many notes previously had a recording and the detached
// handles the caller must release.
func (s *Store) DeleteAllAudio() (int, []string, error) {
	count := 0
	var released []string
	for dayKey, day := range s.entries {
		for i := range day {
			if day[i].AudioURL != "" {
				count++
				released = append(released, day[i].AudioURL)
			}
			day[i].AudioURL = ""
			day[i].Transcript = ""
			day[i].Summary = ""
		}
		s.entries[dayKey] = day
	}
	return count, released, s.persist()
}

// DaysWithEntries returns the calendar days holding at least one note,
// sorted ascending.
func (s *Store) DaysWithEntries() []time.Time {
	var days []time.Time
	for dayKey, day := range s.entries {
		if len(day) > 0 {
			days = append(days, models.DayStart(dayKey))
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

func (s *Store) TotalEntries() int {
	total := 0
	for _, day := range s.entries {
		total += len(day)
	}
	return total
}

// AverageRating is the mean rating across all notes, formatted to one
// decimal. An empty store yields "0.0".
func (s *Store) AverageRating() string {
	total := s.TotalEntries()
	if total == 0 {
		return "0.0"
	}
	sum := 0
	for _, day := range s.entries {
		for _, entry := range day {
			sum += entry.Rating
		}
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(total))
}

func (s *Store) AudioRecordingCount() int {
	count := 0
	for _, day := range s.entries {
		for _, entry := range day {
			if entry.HasAudio() {
				count++
			}
		}
	}
	return count
}

// RecentEntry pairs a note with its effective timestamp for the recent view.
type RecentEntry struct {
	models.Entry
	DayKey string
	Index  int
	When   time.Time
}

// RecentEntries flattens all day buckets, keeps notes whose effective
// timestamp falls within the window ending at now, and sorts them newest
// first. Ties keep flatten order (days ascending, then insertion order).
func (s *Store) RecentEntries(windowDays int, now time.Time) []RecentEntry {
	cutoff := now.AddDate(0, 0, -windowDays)

	var list []RecentEntry
	for _, dayKey := range s.sortedDayKeys() {
		for i, entry := range s.entries[dayKey] {
			when := entry.EffectiveTime()
			if when.Before(cutoff) {
				continue
			}
			list = append(list, RecentEntry{Entry: entry, DayKey: dayKey, Index: i, When: when})
		}
	}

	sort.SliceStable(list, func(i, j int) bool { return list[i].When.After(list[j].When) })
	return list
}

// ExportList flattens the store in deterministic order (days ascending,
// insertion order within a day) for the export encoders.
func (s *Store) ExportList() []models.Entry {
	var list []models.Entry
	for _, dayKey := range s.sortedDayKeys() {
		list = append(list, s.entries[dayKey]...)
	}
	return list
}

func (s *Store) sortedDayKeys() []string {
	keys := make([]string, 0, len(s.entries))
	for dayKey := range s.entries {
		keys = append(keys, dayKey)
	}
	sort.Strings(keys)
	return keys
}

func clampRating(rating int) int {
	if rating < 0 {
		return 0
	}
	if rating > 5 {
		return 5
	}
	return rating
}
