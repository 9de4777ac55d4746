package settings

import (
	"encoding/json"
	"fmt"

	"github.com/diarioapp/diario/internal/i18n"
	"github.com/diarioapp/diario/internal/logger"
	"github.com/diarioapp/diario/internal/storage"
)

// Baseline model identifiers applied when a persisted record predates the
// field or holds a non-string value.
const (
	DefaultTranscriptionModel = "whisper-1"
	DefaultSummaryModel       = "gpt-4o-mini"
)

// Built-in summarization prompts per display language.
const (
	DefaultSummaryPromptIt = "Sei un assistente che riassume in modo conciso e perspicace le voci di un diario psicologico. Estrai i temi principali, le emozioni e le riflessioni chiave in poche frasi."
	DefaultSummaryPromptEn = "You are an assistant that concisely and insightfully summarizes the entries of a psychological journal. Extract the main themes, emotions and key reflections in a few sentences."
)

// Settings is the fully-populated current shape of the settings record.
// SummaryPrompt is a legacy single-language mirror kept in sync with the
// active language so consumers of the old shape keep working.
type Settings struct {
	APIKey             string `json:"apiKey"`
	TranscriptionModel string `json:"transcriptionModel"`
	SummaryModel       string `json:"summaryModel"`
	SummaryPromptIt    string `json:"summaryPromptIt"`
	SummaryPromptEn    string `json:"summaryPromptEn"`
	SummaryPrompt      string `json:"summaryPrompt"`
	BackendURL         string `json:"backendUrl,omitempty"`
	AllowClientOpenAI  bool   `json:"allowClientOpenAI,omitempty"`
}

// Default returns the settings a fresh install starts from.
func Default(lang i18n.Lang) Settings {
	return Normalize(nil, lang)
}

// ActivePrompt is the summarization prompt for the language, falling back to
// the built-in default when the stored one is empty.
func (s Settings) ActivePrompt(lang i18n.Lang) string {
	if lang == i18n.LangEn {
		if s.SummaryPromptEn != "" {
			return s.SummaryPromptEn
		}
		return DefaultSummaryPromptEn
	}
	if s.SummaryPromptIt != "" {
		return s.SummaryPromptIt
	}
	return DefaultSummaryPromptIt
}

// Normalize coerces a settings record of unknown vintage into the current
// shape. It is total (malformed input yields defaults) and idempotent.
func Normalize(raw []byte, lang i18n.Lang) Settings {
	var fields map[string]json.RawMessage
	if len(raw) > 0 {
		// A decode failure just leaves fields nil and every default in place.
		_ = json.Unmarshal(raw, &fields)
	}

	s := Settings{
		APIKey:             stringField(fields, "apiKey", ""),
		TranscriptionModel: stringField(fields, "transcriptionModel", DefaultTranscriptionModel),
		SummaryModel:       stringField(fields, "summaryModel", DefaultSummaryModel),
		BackendURL:         stringField(fields, "backendUrl", ""),
		AllowClientOpenAI:  boolField(fields, "allowClientOpenAI"),
	}

	legacy := stringField(fields, "summaryPrompt", "")
	s.SummaryPromptIt = stringField(fields, "summaryPromptIt", "")
	if s.SummaryPromptIt == "" {
		if legacy != "" {
			s.SummaryPromptIt = legacy
		} else {
			s.SummaryPromptIt = DefaultSummaryPromptIt
		}
	}
	s.SummaryPromptEn = stringField(fields, "summaryPromptEn", DefaultSummaryPromptEn)
	if s.SummaryPromptEn == "" {
		s.SummaryPromptEn = DefaultSummaryPromptEn
	}

	// The legacy field mirrors the prompt of the active language.
	if lang == i18n.LangEn {
		s.SummaryPrompt = s.SummaryPromptEn
	} else {
		s.SummaryPrompt = s.SummaryPromptIt
	}

	return s
}

func stringField(fields map[string]json.RawMessage, key, fallback string) string {
	raw, ok := fields[key]
	if !ok {
		return fallback
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return fallback
	}
	return s
}

func boolField(fields map[string]json.RawMessage, key string) bool {
	raw, ok := fields[key]
	if !ok {
		return false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false
	}
	return b
}

// Store keeps the normalized settings in memory and re-serializes them to
// the backend on every save, re-running normalization each round-trip.
type Store struct {
	backend  storage.Provider
	lang     i18n.Lang
	settings Settings
}

func OpenStore(backend storage.Provider, lang i18n.Lang) (*Store, error) {
	raw, _, err := backend.Get(storage.KeySettings)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return &Store{
		backend:  backend,
		lang:     lang,
		settings: Normalize([]byte(raw), lang),
	}, nil
}

func (st *Store) Current() Settings {
	return st.settings
}

// SetCurrent replaces the in-memory record without persisting, used to
// overlay values (like a keyring-held API key) that must not hit storage.
func (st *Store) SetCurrent(s Settings) {
	st.settings = s
}

// Save normalizes and persists the record. Like the journal store, memory
// stays authoritative when the write fails.
func (st *Store) Save(s Settings) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize settings: %w", err)
	}
	st.settings = Normalize(data, st.lang)

	data, err = json.MarshalIndent(st.settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize settings: %w", err)
	}
	if err := st.backend.Set(storage.KeySettings, string(data)); err != nil {
		logger.Error("settings persist failed", "err", err)
		return fmt.Errorf("failed to persist settings: %w", err)
	}
	return nil
}

// OnboardingComplete reports whether the first-run flow has finished.
func OnboardingComplete(backend storage.Provider) bool {
	value, ok, err := backend.Get(storage.KeyOnboarding)
	if err != nil {
		logger.Warn("failed to read onboarding flag", "err", err)
		return false
	}
	return ok && value == "true"
}

// MarkOnboardingComplete records that the first-run flow has finished.
func MarkOnboardingComplete(backend storage.Provider) error {
	return backend.Set(storage.KeyOnboarding, "true")
}
