package cli

import (
	"fmt"
	"time"

	"github.com/diarioapp/diario/internal/export"
	"github.com/diarioapp/diario/internal/i18n"
)

type ExportCmd struct {
	JSON ExportJSONCmd `cmd:"" name:"json" help:"Export all entries as a JSON array."`
	ICS  ExportICSCmd  `cmd:"" name:"ics" help:"Export all entries as an ICS calendar."`
}

type ExportJSONCmd struct {
	Private bool `help:"Blank note bodies, transcripts and summaries."`
}

func (c *ExportJSONCmd) Run(ctx *Context) error {
	entries, err := exportEntries(ctx, c.Private)
	if err != nil {
		return err
	}

	payload, err := export.ToJSON(entries)
	if err != nil {
		return err
	}

	return deliver(ctx, payload, export.Filename(time.Now(), "json"), "application/json")
}

type ExportICSCmd struct {
	Private bool `help:"Blank note bodies, transcripts and summaries."`
}

func (c *ExportICSCmd) Run(ctx *Context) error {
	entries, err := exportEntries(ctx, c.Private)
	if err != nil {
		return err
	}

	payload, err := export.ToICS(entries, ctx.Lang)
	if err != nil {
		return err
	}

	return deliver(ctx, payload, export.Filename(time.Now(), "ics"), "text/calendar")
}

func exportEntries(ctx *Context, private bool) ([]export.Entry, error) {
	store, err := ctx.openJournal()
	if err != nil {
		return nil, err
	}

	entries := export.FromModels(store.ExportList())
	if private {
		entries = export.Blank(entries)
	}
	return entries, nil
}

func deliver(ctx *Context, payload, filename, mimeType string) error {
	delivered, err := ctx.Sink.Deliver(payload, filename, mimeType)
	if err != nil {
		return err
	}
	if !delivered {
		return fmt.Errorf("export was not delivered")
	}
	fmt.Println(i18n.T(ctx.Lang, "export.done", ctx.Sink.Path(filename)))
	return nil
}
