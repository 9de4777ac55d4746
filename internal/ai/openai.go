package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/diarioapp/diario/internal/i18n"
	"github.com/diarioapp/diario/internal/settings"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	requestTimeout = 120 * time.Second
)

// ErrNoAPIKey is returned when a provider call is attempted without a
// configured credential.
var ErrNoAPIKey = errors.New("OpenAI API key is not set")

// ErrDirectCallsDisabled is returned when no backend URL is configured and
// the policy flag allowing direct provider calls is off.
var ErrDirectCallsDisabled = errors.New("direct provider calls are disabled; configure a backend URL or enable allowClientOpenAI")

// ProviderError is a failed provider response (auth, quota, malformed
// request). Network-level failures surface as wrapped transport errors
// instead.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error (status %d): %s", e.StatusCode, e.Message)
}

// Client talks to an OpenAI-compatible API, either the provider directly or
// a configured backend proxy.
type Client struct {
	httpClient *http.Client
}

func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

func baseURL(s settings.Settings) (string, error) {
	if url := strings.TrimRight(s.BackendURL, "/"); url != "" {
		return url, nil
	}
	if !s.AllowClientOpenAI {
		return "", ErrDirectCallsDisabled
	}
	return defaultBaseURL, nil
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// Transcribe uploads the audio file and returns the provider's transcript.
func (c *Client) Transcribe(ctx context.Context, s settings.Settings, audioPath string) (string, error) {
	if s.APIKey == "" {
		return "", ErrNoAPIKey
	}
	base, err := baseURL(s)
	if err != nil {
		return "", err
	}

	file, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("failed to open audio file: %w", err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return "", fmt.Errorf("failed to build upload: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("failed to read audio file: %w", err)
	}
	if err := writer.WriteField("model", s.TranscriptionModel); err != nil {
		return "", fmt.Errorf("failed to build upload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to build upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/audio/transcriptions", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+s.APIKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	data, err := c.do(req)
	if err != nil {
		return "", err
	}

	var result transcriptionResponse
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("failed to parse transcription response: %w", err)
	}
	return result.Text, nil
}

// Summarize asks the chat model for a summary of text, instructed by the
// language's summarization prompt.
func (c *Client) Summarize(ctx context.Context, s settings.Settings, text string, lang i18n.Lang) (string, error) {
	if s.APIKey == "" {
		return "", ErrNoAPIKey
	}
	base, err := baseURL(s)
	if err != nil {
		return "", err
	}

	payload := chatRequest{
		Model: s.SummaryModel,
		Messages: []chatMessage{
			{Role: "system", Content: s.ActivePrompt(lang)},
			{Role: "user", Content: text},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+s.APIKey)
	req.Header.Set("Content-Type", "application/json")

	data, err := c.do(req)
	if err != nil {
		return "", err
	}

	var result chatResponse
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("failed to parse summary response: %w", err)
	}
	if len(result.Choices) == 0 || result.Choices[0].Message.Content == "" {
		return "", &ProviderError{StatusCode: http.StatusOK, Message: "no summary generated"}
	}
	return result.Choices[0].Message.Content, nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read provider response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Error.Message != "" {
			return nil, &ProviderError{StatusCode: resp.StatusCode, Message: apiErr.Error.Message}
		}
		return nil, &ProviderError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	return data, nil
}
