package cli

import (
	"fmt"
	"time"

	"github.com/atotto/clipboard"

	"github.com/diarioapp/diario/internal/i18n"
	"github.com/diarioapp/diario/internal/journal"
)

type NoteCmd struct {
	Add    NoteAddCmd    `cmd:"" help:"Add an empty note to a day."`
	Save   NoteSaveCmd   `cmd:"" help:"Save a note's body and rating."`
	Edit   NoteEditCmd   `cmd:"" help:"Edit individual note fields."`
	Delete NoteDeleteCmd `cmd:"" help:"Delete a note."`
	Copy   NoteCopyCmd   `cmd:"" help:"Copy a note to the clipboard."`
}

type NoteAddCmd struct {
	Date string `arg:"" help:"Day to add the note to (YYYY-MM-DD or 'today')." default:"today"`
}

func (c *NoteAddCmd) Run(ctx *Context) error {
	dayKey, err := resolveDay(c.Date)
	if err != nil {
		return err
	}

	store, err := ctx.openJournal()
	if err != nil {
		return err
	}

	index, err := store.CreateNote(dayKey, time.Now())
	if err != nil {
		return err
	}

	fmt.Printf("%s (%s)\n", i18n.T(ctx.Lang, "day.noteN", index+1), dayKey)
	return nil
}

type NoteSaveCmd struct {
	Date    string `arg:"" help:"Day of the note (YYYY-MM-DD or 'today')."`
	Index   int    `arg:"" help:"Note index within the day (0-based)."`
	Content string `help:"Note body. Empty falls back to summary, then transcript."`
	Rating  int    `help:"Day rating 0-5 (0 = unrated)." default:"0"`

	TranscriptFirst bool `help:"Prefer the transcript over the summary when filling empty content."`
}

func (c *NoteSaveCmd) Run(ctx *Context) error {
	dayKey, err := resolveDay(c.Date)
	if err != nil {
		return err
	}
	if err := validateRating(c.Rating); err != nil {
		return err
	}

	store, err := ctx.openJournal()
	if err != nil {
		return err
	}
	if c.TranscriptFirst {
		store.SetFallbackPolicy(journal.FallbackTranscriptFirst)
	}

	// An out-of-range index appends at the end of the day, so resolve
	// where the note will actually land before saving.
	index := effectiveNoteIndex(store, dayKey, c.Index)

	// Carry the audio artifacts of the existing slot through the save.
	fields := journal.Fields{
		Content: c.Content,
		Rating:  c.Rating,
	}
	if existing, ok := store.Note(dayKey, index); ok {
		fields.AudioURL = existing.AudioURL
		fields.Transcript = existing.Transcript
		fields.Summary = existing.Summary
	}

	if err := store.SaveEntry(dayKey, index, fields, time.Now()); err != nil {
		return err
	}

	if saved, ok := store.Note(dayKey, index); ok && saved.Content != c.Content {
		fmt.Printf("Saved note %d for %s (content filled from audio artifacts)\n", index, dayKey)
		return nil
	}
	fmt.Printf("Saved note %d for %s\n", index, dayKey)
	return nil
}

// effectiveNoteIndex resolves where a save lands: an existing slot keeps its
// index, anything out of range appends after the day's last note.
func effectiveNoteIndex(store *journal.Store, dayKey string, index int) int {
	if _, ok := store.Note(dayKey, index); ok {
		return index
	}
	return len(store.Entries(dayKey))
}

type NoteEditCmd struct {
	Date    string  `arg:"" help:"Day of the note (YYYY-MM-DD or 'today')."`
	Index   int     `arg:"" help:"Note index within the day (0-based)."`
	Content *string `help:"New note body."`
	Rating  *int    `help:"New rating 0-5."`
}

func (c *NoteEditCmd) Run(ctx *Context) error {
	dayKey, err := resolveDay(c.Date)
	if err != nil {
		return err
	}
	if c.Rating != nil {
		if err := validateRating(*c.Rating); err != nil {
			return err
		}
	}

	store, err := ctx.openJournal()
	if err != nil {
		return err
	}

	if _, ok := store.Note(dayKey, c.Index); !ok {
		return fmt.Errorf("no note %d for %s", c.Index, dayKey)
	}

	released, err := store.UpdateNote(dayKey, c.Index, journal.Patch{
		Content: c.Content,
		Rating:  c.Rating,
	})
	if err != nil {
		return err
	}
	ctx.Media.Release(released)

	fmt.Printf("Updated note %d for %s\n", c.Index, dayKey)
	return nil
}

type NoteDeleteCmd struct {
	Date  string `arg:"" help:"Day of the note (YYYY-MM-DD or 'today')."`
	Index int    `arg:"" help:"Note index within the day (0-based)."`
}

func (c *NoteDeleteCmd) Run(ctx *Context) error {
	dayKey, err := resolveDay(c.Date)
	if err != nil {
		return err
	}

	store, err := ctx.openJournal()
	if err != nil {
		return err
	}

	if _, ok := store.Note(dayKey, c.Index); !ok {
		return fmt.Errorf("no note %d for %s", c.Index, dayKey)
	}

	released, err := store.DeleteNote(dayKey, c.Index)
	if err != nil {
		return err
	}
	ctx.Media.Release(released)

	fmt.Printf("Deleted note %d for %s\n", c.Index, dayKey)
	return nil
}

type NoteCopyCmd struct {
	Date    string `arg:"" help:"Day of the note (YYYY-MM-DD or 'today')."`
	Index   int    `arg:"" help:"Note index within the day (0-based)."`
	Summary bool   `help:"Copy the AI summary instead of the note body."`
}

func (c *NoteCopyCmd) Run(ctx *Context) error {
	dayKey, err := resolveDay(c.Date)
	if err != nil {
		return err
	}

	store, err := ctx.openJournal()
	if err != nil {
		return err
	}

	note, ok := store.Note(dayKey, c.Index)
	if !ok {
		return fmt.Errorf("no note %d for %s", c.Index, dayKey)
	}

	text := note.Content
	if c.Summary {
		text = note.Summary
	}
	if text == "" {
		return fmt.Errorf("nothing to copy")
	}

	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	fmt.Println("Copied to clipboard.")
	return nil
}
