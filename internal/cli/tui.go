package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/diarioapp/diario/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
	store, err := ctx.openJournal()
	if err != nil {
		return err
	}

	// Perform automatic backup on TUI startup (after successful load)
	ctx.PerformAutomaticBackup()

	// The alt screen restores the terminal on exit, so the hint stays
	// visible after the session ends.
	if hint := ctx.FirstRunHint(); hint != "" {
		fmt.Println(hint)
	}

	p := tea.NewProgram(tui.NewModel(store, ctx.Media, ctx.Lang), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
	return nil
}
