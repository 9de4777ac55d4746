package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/diarioapp/diario/internal/ai"
	"github.com/diarioapp/diario/internal/backup"
	"github.com/diarioapp/diario/internal/i18n"
	"github.com/diarioapp/diario/internal/journal"
	"github.com/diarioapp/diario/internal/keyring"
	"github.com/diarioapp/diario/internal/logger"
	"github.com/diarioapp/diario/internal/media"
	"github.com/diarioapp/diario/internal/models"
	"github.com/diarioapp/diario/internal/settings"
	"github.com/diarioapp/diario/internal/share"
	"github.com/diarioapp/diario/internal/storage"
)

type Context struct {
	Backend storage.Provider
	Lang    i18n.Lang
	AI      *ai.Client
	Media   *media.Owner
	Sink    *share.DirSink
}

// PerformAutomaticBackup snapshots the storage file, logging failures
// without interrupting the user's workflow.
func (ctx *Context) PerformAutomaticBackup() {
	mgr := backup.NewManager(ctx.Backend.GetConfigPath())
	if _, err := mgr.CreateBackup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// FirstRunHint returns a localized suggestion to run the onboarding flow,
// or "" once the first-run flag has been set.
func (ctx *Context) FirstRunHint() string {
	if settings.OnboardingComplete(ctx.Backend) {
		return ""
	}
	return i18n.T(ctx.Lang, "onboard.hint")
}

// openJournal loads the backend and the entry store on top of it.
func (ctx *Context) openJournal() (*journal.Store, error) {
	if err := ctx.Backend.Load(); err != nil {
		return nil, err
	}
	return journal.Open(ctx.Backend)
}

// openSettings loads the backend and the normalized settings record. When
// the record carries no API key, the OS keyring is consulted as a fallback.
func (ctx *Context) openSettings() (*settings.Store, error) {
	if err := ctx.Backend.Load(); err != nil {
		return nil, err
	}
	st, err := settings.OpenStore(ctx.Backend, ctx.Lang)
	if err != nil {
		return nil, err
	}
	if st.Current().APIKey == "" {
		if key, err := keyring.GetAPIKey(); err == nil {
			s := st.Current()
			s.APIKey = key
			// In-memory overlay only; the key stays out of the storage file.
			st.SetCurrent(s)
		}
	}
	return st, nil
}

// resolveDay parses a day argument, accepting "today", "yesterday" or a
// YYYY-MM-DD day key.
func resolveDay(arg string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(arg)) {
	case "", "today":
		return time.Now().Format(models.DayKeyFormat), nil
	case "yesterday":
		return time.Now().AddDate(0, 0, -1).Format(models.DayKeyFormat), nil
	}
	if !models.ValidDayKey(arg) {
		return "", fmt.Errorf("invalid date format, use YYYY-MM-DD or 'today': %q", arg)
	}
	return arg, nil
}

// validateRating rejects values outside the 0..5 scale before they reach
// the store.
func validateRating(rating int) error {
	if rating < 0 || rating > 5 {
		return fmt.Errorf("rating must be between 0 and 5, got %d", rating)
	}
	return nil
}

// snippet trims an entry body to one display line.
func snippet(s string, max int) string {
	s = strings.ReplaceAll(strings.TrimSpace(s), "\n", " ")
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}
