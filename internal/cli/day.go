package cli

import (
	"fmt"
	"time"

	"github.com/diarioapp/diario/internal/i18n"
	"github.com/diarioapp/diario/internal/models"
)

type DayCmd struct {
	Date string `arg:"" help:"Day to show (YYYY-MM-DD or 'today')." default:"today"`
}

func (c *DayCmd) Run(ctx *Context) error {
	dayKey, err := resolveDay(c.Date)
	if err != nil {
		return err
	}

	store, err := ctx.openJournal()
	if err != nil {
		return err
	}

	notes := store.Entries(dayKey)
	fmt.Printf("%s\n\n", i18n.LongDate(models.DayStart(dayKey), ctx.Lang))

	if len(notes) == 0 {
		fmt.Println("  " + i18n.T(ctx.Lang, "day.empty"))
		return nil
	}

	for i, note := range notes {
		printNote(ctx.Lang, i, note)
	}
	return nil
}

func printNote(lang i18n.Lang, index int, note models.Entry) {
	header := i18n.T(lang, "day.noteN", index+1)
	if note.CreatedAt != "" {
		if t, err := time.Parse(time.RFC3339, note.CreatedAt); err == nil {
			header += " - " + t.Format("15:04")
		}
	}
	fmt.Printf("  %s  %s\n", header, ratingStars(note.Rating))
	if note.Content != "" {
		fmt.Printf("      %s\n", snippet(note.Content, 100))
	}
	if note.HasAudio() {
		fmt.Printf("      [audio] %s\n", note.AudioURL)
	}
	if note.Summary != "" {
		fmt.Printf("      [summary] %s\n", snippet(note.Summary, 80))
	}
}

func ratingStars(rating int) string {
	if rating <= 0 {
		return "·····"
	}
	stars := ""
	for i := 0; i < 5; i++ {
		if i < rating {
			stars += "★"
		} else {
			stars += "☆"
		}
	}
	return stars
}
