package settings

import (
	"encoding/json"
	"testing"

	"github.com/diarioapp/diario/internal/i18n"
)

func TestNormalizeEmptyYieldsDefaults(t *testing.T) {
	s := Normalize(nil, i18n.LangIt)

	if s.TranscriptionModel != DefaultTranscriptionModel {
		t.Errorf("transcription model = %q", s.TranscriptionModel)
	}
	if s.SummaryModel != DefaultSummaryModel {
		t.Errorf("summary model = %q", s.SummaryModel)
	}
	if s.SummaryPromptIt != DefaultSummaryPromptIt || s.SummaryPromptEn != DefaultSummaryPromptEn {
		t.Error("prompts not defaulted")
	}
	if s.SummaryPrompt != DefaultSummaryPromptIt {
		t.Error("legacy prompt should mirror the Italian prompt for lang=it")
	}
	if s.APIKey != "" || s.BackendURL != "" || s.AllowClientOpenAI {
		t.Errorf("fresh settings carry unexpected values: %+v", s)
	}
}

func TestNormalizeLegacyPromptMigrates(t *testing.T) {
	raw := []byte(`{"apiKey": "sk-test", "summaryPrompt": "vecchio prompt"}`)
	s := Normalize(raw, i18n.LangIt)

	if s.SummaryPromptIt != "vecchio prompt" {
		t.Errorf("legacy prompt not adopted as Italian prompt: %q", s.SummaryPromptIt)
	}
	if s.SummaryPromptEn != DefaultSummaryPromptEn {
		t.Errorf("English prompt should default: %q", s.SummaryPromptEn)
	}
	if s.APIKey != "sk-test" {
		t.Errorf("apiKey lost: %q", s.APIKey)
	}
}

func TestNormalizePerLanguagePromptWinsOverLegacy(t *testing.T) {
	raw := []byte(`{"summaryPrompt": "legacy", "summaryPromptIt": "nuovo"}`)
	s := Normalize(raw, i18n.LangIt)

	if s.SummaryPromptIt != "nuovo" {
		t.Errorf("per-language prompt should win: %q", s.SummaryPromptIt)
	}
}

func TestNormalizeLegacyMirrorFollowsLanguage(t *testing.T) {
	raw := []byte(`{"summaryPromptIt": "it prompt", "summaryPromptEn": "en prompt"}`)

	if s := Normalize(raw, i18n.LangIt); s.SummaryPrompt != "it prompt" {
		t.Errorf("lang=it mirror = %q", s.SummaryPrompt)
	}
	if s := Normalize(raw, i18n.LangEn); s.SummaryPrompt != "en prompt" {
		t.Errorf("lang=en mirror = %q", s.SummaryPrompt)
	}
}

func TestNormalizeMalformedInput(t *testing.T) {
	for name, raw := range map[string]string{
		"garbage":      "{{{",
		"wrong types":  `{"apiKey": 42, "allowClientOpenAI": "yes", "transcriptionModel": []}`,
		"top-level arr": `[1,2]`,
	} {
		s := Normalize([]byte(raw), i18n.LangIt)
		if s.TranscriptionModel != DefaultTranscriptionModel || s.APIKey != "" {
			t.Errorf("%s: malformed input should yield defaults, got %+v", name, s)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	raw := []byte(`{"apiKey": "sk-x", "summaryPrompt": "legacy", "backendUrl": "https://proxy.local"}`)

	once := Normalize(raw, i18n.LangIt)
	data, err := json.Marshal(once)
	if err != nil {
		t.Fatal(err)
	}
	twice := Normalize(data, i18n.LangIt)

	if once != twice {
		t.Errorf("normalization not idempotent:\n  once:  %+v\n  twice: %+v", once, twice)
	}
}

func TestActivePrompt(t *testing.T) {
	s := Settings{SummaryPromptIt: "it", SummaryPromptEn: "en"}
	if got := s.ActivePrompt(i18n.LangIt); got != "it" {
		t.Errorf("ActivePrompt(it) = %q", got)
	}
	if got := s.ActivePrompt(i18n.LangEn); got != "en" {
		t.Errorf("ActivePrompt(en) = %q", got)
	}

	empty := Settings{}
	if got := empty.ActivePrompt(i18n.LangEn); got != DefaultSummaryPromptEn {
		t.Errorf("empty prompt should fall back to default, got %q", got)
	}
}
