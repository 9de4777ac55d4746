package cli

import (
	"context"
	"fmt"

	"github.com/diarioapp/diario/internal/journal"
)

type AudioCmd struct {
	Attach     AudioAttachCmd     `cmd:"" help:"Attach a recording to a note."`
	Remove     AudioRemoveCmd     `cmd:"" help:"Remove a note's recording and derived text."`
	Transcribe AudioTranscribeCmd `cmd:"" help:"Transcribe a note's recording."`
	Summarize  AudioSummarizeCmd  `cmd:"" help:"Summarize a note's transcript."`
}

type AudioAttachCmd struct {
	Date  string `arg:"" help:"Day of the note (YYYY-MM-DD or 'today')."`
	Index int    `arg:"" help:"Note index within the day (0-based)."`
	File  string `arg:"" type:"existingfile" help:"Audio file to attach."`
}

func (c *AudioAttachCmd) Run(ctx *Context) error {
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

	handle, err := ctx.Media.Attach(c.File)
	if err != nil {
		return err
	}

	released, err := store.UpdateNote(dayKey, c.Index, journal.Patch{AudioURL: &handle})
	if err != nil {
		// The store mutation failed to persist; drop the orphaned copy.
		ctx.Media.Release(handle)
		return err
	}
	ctx.Media.Release(released)

	fmt.Printf("Attached recording to note %d for %s\n", c.Index, dayKey)
	return nil
}

type AudioRemoveCmd struct {
	Date  string `arg:"" help:"Day of the note (YYYY-MM-DD or 'today')."`
	Index int    `arg:"" help:"Note index within the day (0-based)."`
}

func (c *AudioRemoveCmd) Run(ctx *Context) error {
	dayKey, err := resolveDay(c.Date)
	if err != nil {
		return err
	}

	store, err := ctx.openJournal()
	if err != nil {
		return err
	}

	empty := ""
	released, err := store.UpdateNote(dayKey, c.Index, journal.Patch{AudioURL: &empty})
	if err != nil {
		return err
	}
	if released == "" {
		return fmt.Errorf("note %d for %s has no recording", c.Index, dayKey)
	}
	ctx.Media.Release(released)

	fmt.Printf("Removed recording from note %d for %s\n", c.Index, dayKey)
	return nil
}

type AudioTranscribeCmd struct {
	Date  string `arg:"" help:"Day of the note (YYYY-MM-DD or 'today')."`
	Index int    `arg:"" help:"Note index within the day (0-based)."`
}

func (c *AudioTranscribeCmd) Run(ctx *Context) error {
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

	audioPath, err := ctx.Media.Path(note.AudioURL)
	if err != nil {
		return err
	}

	st, err := ctx.openSettings()
	if err != nil {
		return err
	}

	// A failed provider call leaves the stored transcript untouched.
	text, err := ctx.AI.Transcribe(context.Background(), st.Current(), audioPath)
	if err != nil {
		return fmt.Errorf("transcription failed: %w", err)
	}

	if _, err := store.UpdateNote(dayKey, c.Index, journal.Patch{Transcript: &text}); err != nil {
		return err
	}

	fmt.Println(text)
	return nil
}

type AudioSummarizeCmd struct {
	Date  string `arg:"" help:"Day of the note (YYYY-MM-DD or 'today')."`
	Index int    `arg:"" help:"Note index within the day (0-based)."`

	ToContent bool `help:"Also fill the note body with the summary when the body is empty."`
}

func (c *AudioSummarizeCmd) Run(ctx *Context) error {
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
	if note.Transcript == "" {
		return fmt.Errorf("note %d for %s has no transcript to summarize", c.Index, dayKey)
	}

	st, err := ctx.openSettings()
	if err != nil {
		return err
	}

	// A failed provider call leaves the stored summary untouched.
	summary, err := ctx.AI.Summarize(context.Background(), st.Current(), note.Transcript, ctx.Lang)
	if err != nil {
		return fmt.Errorf("summarization failed: %w", err)
	}

	patch := journal.Patch{Summary: &summary}
	if c.ToContent && note.Content == "" {
		patch.Content = &summary
	}
	if _, err := store.UpdateNote(dayKey, c.Index, patch); err != nil {
		return err
	}

	fmt.Println(summary)
	return nil
}
