package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/diarioapp/diario/internal/i18n"
	"github.com/diarioapp/diario/internal/settings"
)

func testSettings(backendURL string) settings.Settings {
	s := settings.Default(i18n.LangIt)
	s.APIKey = "sk-test"
	s.BackendURL = backendURL
	return s
}

func writeAudioFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "note.m4a")
	if err := os.WriteFile(path, []byte("fake audio bytes"), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTranscribe(t *testing.T) {
	var gotPath, gotAuth, gotModel string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("not a multipart request: %v", err)
		}
		gotModel = r.FormValue("model")
		if _, _, err := r.FormFile("file"); err != nil {
			t.Errorf("missing file part: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]string{"text": "ciao mondo"})
	}))
	defer server.Close()

	client := NewClient()
	text, err := client.Transcribe(context.Background(), testSettings(server.URL), writeAudioFixture(t))
	if err != nil {
		t.Fatal(err)
	}
	if text != "ciao mondo" {
		t.Errorf("transcript = %q", text)
	}
	if gotPath != "/audio/transcriptions" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("auth = %q", gotAuth)
	}
	if gotModel != settings.DefaultTranscriptionModel {
		t.Errorf("model = %q", gotModel)
	}
}

func TestSummarize(t *testing.T) {
	var gotReq struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		w.Write([]byte(`{"choices": [{"message": {"content": "la sintesi"}}]}`))
	}))
	defer server.Close()

	client := NewClient()
	summary, err := client.Summarize(context.Background(), testSettings(server.URL), "testo lungo", i18n.LangIt)
	if err != nil {
		t.Fatal(err)
	}
	if summary != "la sintesi" {
		t.Errorf("summary = %q", summary)
	}
	if gotReq.Model != settings.DefaultSummaryModel {
		t.Errorf("model = %q", gotReq.Model)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" {
		t.Fatalf("messages = %+v", gotReq.Messages)
	}
	if gotReq.Messages[0].Content != settings.DefaultSummaryPromptIt {
		t.Errorf("system prompt = %q", gotReq.Messages[0].Content)
	}
	if gotReq.Messages[1].Content != "testo lungo" {
		t.Errorf("user message = %q", gotReq.Messages[1].Content)
	}
}

func TestSummarizeEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	_, err := NewClient().Summarize(context.Background(), testSettings(server.URL), "testo", i18n.LangIt)
	var perr *ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
}

func TestProviderErrorParsing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"message": "Incorrect API key provided", "type": "invalid_request_error"}}`))
	}))
	defer server.Close()

	_, err := NewClient().Summarize(context.Background(), testSettings(server.URL), "testo", i18n.LangIt)
	var perr *ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if perr.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d", perr.StatusCode)
	}
	if perr.Message != "Incorrect API key provided" {
		t.Errorf("message = %q", perr.Message)
	}
}

func TestMissingAPIKey(t *testing.T) {
	s := settings.Default(i18n.LangIt)
	s.BackendURL = "https://proxy.local"

	if _, err := NewClient().Summarize(context.Background(), s, "x", i18n.LangIt); !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("expected ErrNoAPIKey, got %v", err)
	}
	if _, err := NewClient().Transcribe(context.Background(), s, "x.m4a"); !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("expected ErrNoAPIKey, got %v", err)
	}
}

func TestDirectCallsPolicy(t *testing.T) {
	// No backend URL and direct calls not allowed: refuse before any I/O.
	s := settings.Default(i18n.LangIt)
	s.APIKey = "sk-test"

	_, err := NewClient().Summarize(context.Background(), s, "x", i18n.LangIt)
	if !errors.Is(err, ErrDirectCallsDisabled) {
		t.Fatalf("expected ErrDirectCallsDisabled, got %v", err)
	}

	// A configured backend URL routes there regardless of the policy flag.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": [{"message": {"content": "ok"}}]}`))
	}))
	defer server.Close()

	s.BackendURL = server.URL + "/"
	if _, err := NewClient().Summarize(context.Background(), s, "x", i18n.LangIt); err != nil {
		t.Errorf("backend routing failed: %v", err)
	}
}
