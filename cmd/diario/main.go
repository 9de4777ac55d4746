package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/diarioapp/diario/internal/ai"
	"github.com/diarioapp/diario/internal/cli"
	"github.com/diarioapp/diario/internal/i18n"
	"github.com/diarioapp/diario/internal/logger"
	"github.com/diarioapp/diario/internal/media"
	"github.com/diarioapp/diario/internal/share"
	"github.com/diarioapp/diario/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Storage file path (.json for a plain file, anything else for SQLite)." type:"path" default:"~/.config/diario/diario.json"`
	Lang    string `help:"Display language (it or en)." env:"DIARIO_LANG" default:"it"`
	Debug   bool   `help:"Enable debug logging."`

	Init     cli.InitCmd     `cmd:"" help:"Initialize diario storage."`
	Tui      cli.TuiCmd      `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Day      cli.DayCmd      `cmd:"" help:"Show the notes for a day."`
	Recent   cli.RecentCmd   `cmd:"" help:"Show recent notes."`
	Stats    cli.StatsCmd    `cmd:"" help:"Show and manage journal statistics."`
	Doctor   cli.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Note     cli.NoteCmd     `cmd:"" help:"Manage journal notes."`
	Audio    cli.AudioCmd    `cmd:"" help:"Manage note recordings and derived text."`
	Export   cli.ExportCmd   `cmd:"" help:"Export the journal."`
	Backup   cli.BackupCmd   `cmd:"" help:"Manage storage backups."`
	Settings cli.SettingsCmd `cmd:"" help:"Manage application settings."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("diario"),
		kong.Description("Personal psychological journal with audio notes and AI summaries"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": "v0.3.0"},
	)

	configDir := filepath.Dir(CLI.Config)
	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: configDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	}

	// Storage type follows the file extension.
	var backend storage.Provider
	if strings.HasSuffix(CLI.Config, ".json") {
		backend = storage.NewJSONStore(CLI.Config)
	} else {
		backend = storage.NewSQLiteStore(CLI.Config)
	}

	appCtx := &cli.Context{
		Backend: backend,
		Lang:    i18n.ParseLang(CLI.Lang),
		AI:      ai.NewClient(),
		Media:   media.NewOwner(filepath.Join(configDir, "audio")),
		Sink:    share.NewDirSink(filepath.Join(configDir, "exports")),
	}

	err := ctx.Run(appCtx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
