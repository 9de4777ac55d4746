package cli

import (
	"fmt"

	"github.com/diarioapp/diario/internal/i18n"
)

type StatsCmd struct {
	Show         StatsShowCmd         `cmd:"" help:"Show journal statistics." default:"1"`
	ResetRatings StatsResetRatingsCmd `cmd:"" help:"Set every note's rating back to 0."`
	PurgeAudio   StatsPurgeAudioCmd   `cmd:"" help:"Remove all recordings, transcripts and summaries."`
}

type StatsShowCmd struct{}

func (c *StatsShowCmd) Run(ctx *Context) error {
	store, err := ctx.openJournal()
	if err != nil {
		return err
	}

	fmt.Printf("%s: %d\n", i18n.T(ctx.Lang, "stats.total"), store.TotalEntries())
	fmt.Printf("%s: %s\n", i18n.T(ctx.Lang, "stats.avg"), store.AverageRating())
	fmt.Printf("%s: %d\n", i18n.T(ctx.Lang, "stats.recordings"), store.AudioRecordingCount())
	return nil
}

type StatsResetRatingsCmd struct{}

func (c *StatsResetRatingsCmd) Run(ctx *Context) error {
	store, err := ctx.openJournal()
	if err != nil {
		return err
	}

	if err := store.ResetAllRatings(); err != nil {
		return err
	}
	fmt.Println(i18n.T(ctx.Lang, "stats.ratingsReset"))
	return nil
}

type StatsPurgeAudioCmd struct{}

func (c *StatsPurgeAudioCmd) Run(ctx *Context) error {
	store, err := ctx.openJournal()
	if err != nil {
		return err
	}

	count, released, err := store.DeleteAllAudio()
	if err != nil {
		return err
	}
	ctx.Media.ReleaseAll(released)

	if count > 0 {
		fmt.Println(i18n.T(ctx.Lang, "audio.purged", count))
	} else {
		fmt.Println(i18n.T(ctx.Lang, "audio.purgedNone"))
	}
	return nil
}
