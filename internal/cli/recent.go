package cli

import (
	"fmt"
	"time"

	"github.com/diarioapp/diario/internal/i18n"
	"github.com/diarioapp/diario/internal/journal"
	"github.com/diarioapp/diario/internal/models"
)

type RecentCmd struct {
	Days int `help:"Lookback window in days." default:"30"`
}

func (c *RecentCmd) Run(ctx *Context) error {
	store, err := ctx.openJournal()
	if err != nil {
		return err
	}

	window := c.Days
	if window <= 0 {
		window = journal.RecentWindowDays
	}

	list := store.RecentEntries(window, time.Now())
	if len(list) == 0 {
		fmt.Println(i18n.T(ctx.Lang, "recent.empty", window))
		return nil
	}

	fmt.Printf("%s\n\n", i18n.T(ctx.Lang, "recent.title"))
	for _, item := range list {
		display := displayBody(item)
		fmt.Printf("  %s %s\n", i18n.LongDate(models.DayStart(item.DayKey), ctx.Lang), item.When.Format("15:04"))
		fmt.Printf("      %s\n", snippet(display, 110))
	}
	return nil
}

// displayBody falls back to the summary, then the transcript, when a note
// has no typed body.
func displayBody(item journal.RecentEntry) string {
	if item.Content != "" {
		return item.Content
	}
	if item.Summary != "" {
		return item.Summary
	}
	return item.Transcript
}
