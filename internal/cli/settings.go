package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/diarioapp/diario/internal/i18n"
	"github.com/diarioapp/diario/internal/keyring"
	"github.com/diarioapp/diario/internal/settings"
)

type SettingsCmd struct {
	Show    SettingsShowCmd    `cmd:"" help:"Show the current settings." default:"1"`
	Set     SettingsSetCmd     `cmd:"" help:"Update individual settings."`
	Onboard SettingsOnboardCmd `cmd:"" help:"Run the first-run setup form."`
}

type SettingsShowCmd struct{}

func (c *SettingsShowCmd) Run(ctx *Context) error {
	st, err := ctx.openSettings()
	if err != nil {
		return err
	}
	s := st.Current()

	fmt.Printf("API key:             %s\n", maskKey(s.APIKey))
	fmt.Printf("Transcription model: %s\n", s.TranscriptionModel)
	fmt.Printf("Summary model:       %s\n", s.SummaryModel)
	fmt.Printf("Backend URL:         %s\n", orDash(s.BackendURL))
	fmt.Printf("Direct calls:        %t\n", s.AllowClientOpenAI)
	fmt.Printf("Prompt (it):         %s\n", snippet(s.SummaryPromptIt, 60))
	fmt.Printf("Prompt (en):         %s\n", snippet(s.SummaryPromptEn, 60))
	fmt.Printf("Onboarded:           %t\n", settings.OnboardingComplete(ctx.Backend))
	return nil
}

func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 8 {
		return "********"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

type SettingsSetCmd struct {
	APIKey             *string `help:"Provider API key."`
	Keyring            bool    `help:"Store the API key in the OS keyring instead of the settings file."`
	TranscriptionModel *string `help:"Transcription model identifier."`
	SummaryModel       *string `help:"Summary model identifier."`
	SummaryPromptIt    *string `help:"Italian summarization prompt."`
	SummaryPromptEn    *string `help:"English summarization prompt."`
	BackendURL         *string `help:"Backend proxy URL (empty for direct provider calls)."`
	AllowClientOpenAI  *bool   `help:"Allow direct provider calls without a backend."`
}

func (c *SettingsSetCmd) Run(ctx *Context) error {
	st, err := ctx.openSettings()
	if err != nil {
		return err
	}
	s := st.Current()

	if c.APIKey != nil {
		if c.Keyring {
			if !keyring.IsAvailable() {
				return keyring.ErrKeyringUnavailable
			}
			if err := keyring.SetAPIKey(*c.APIKey); err != nil {
				return err
			}
			s.APIKey = ""
			fmt.Println("API key stored in OS keyring.")
		} else {
			s.APIKey = *c.APIKey
		}
	}
	if c.TranscriptionModel != nil {
		s.TranscriptionModel = *c.TranscriptionModel
	}
	if c.SummaryModel != nil {
		s.SummaryModel = *c.SummaryModel
	}
	if c.SummaryPromptIt != nil {
		s.SummaryPromptIt = *c.SummaryPromptIt
	}
	if c.SummaryPromptEn != nil {
		s.SummaryPromptEn = *c.SummaryPromptEn
	}
	if c.BackendURL != nil {
		s.BackendURL = strings.TrimSpace(*c.BackendURL)
	}
	if c.AllowClientOpenAI != nil {
		s.AllowClientOpenAI = *c.AllowClientOpenAI
	}

	if err := st.Save(s); err != nil {
		return err
	}
	fmt.Println("Settings saved.")
	return nil
}

type SettingsOnboardCmd struct{}

func (c *SettingsOnboardCmd) Run(ctx *Context) error {
	st, err := ctx.openSettings()
	if err != nil {
		return err
	}
	s := st.Current()

	apiKey := s.APIKey
	transcriptionModel := s.TranscriptionModel
	summaryModel := s.SummaryModel
	promptIt := s.SummaryPromptIt
	promptEn := s.SummaryPromptEn
	useKeyring := false

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("OpenAI API Key").
				Description("Stored locally, never sent anywhere except the provider.").
				EchoMode(huh.EchoModePassword).
				Value(&apiKey),
			huh.NewSelect[string]().
				Title("Transcription model").
				Options(huh.NewOptions("whisper-1")...).
				Value(&transcriptionModel),
			huh.NewSelect[string]().
				Title("Summary model").
				Options(huh.NewOptions("gpt-4o-mini", "gpt-4o", "gpt-3.5-turbo")...).
				Value(&summaryModel),
		),
		huh.NewGroup(
			huh.NewText().
				Title("Summarization prompt (italiano)").
				Value(&promptIt),
			huh.NewText().
				Title("Summarization prompt (English)").
				Value(&promptEn),
			huh.NewConfirm().
				Title("Store the API key in the OS keyring?").
				Value(&useKeyring),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	// Blank prompts fall back to the built-in defaults.
	if strings.TrimSpace(promptIt) == "" {
		promptIt = settings.DefaultSummaryPromptIt
	}
	if strings.TrimSpace(promptEn) == "" {
		promptEn = settings.DefaultSummaryPromptEn
	}

	s.TranscriptionModel = transcriptionModel
	s.SummaryModel = summaryModel
	s.SummaryPromptIt = promptIt
	s.SummaryPromptEn = promptEn

	if useKeyring && apiKey != "" {
		if err := keyring.SetAPIKey(apiKey); err != nil {
			return err
		}
		s.APIKey = ""
	} else {
		s.APIKey = apiKey
	}

	if err := st.Save(s); err != nil {
		return err
	}
	if err := settings.MarkOnboardingComplete(ctx.Backend); err != nil {
		return err
	}

	fmt.Println(i18n.T(ctx.Lang, "onboard.done"))
	return nil
}
