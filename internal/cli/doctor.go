package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/diarioapp/diario/internal/backup"
	"github.com/diarioapp/diario/internal/journal"
	"github.com/diarioapp/diario/internal/settings"
	"github.com/diarioapp/diario/internal/storage"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	storeReachable := false

	// Check 1: storage reachable
	if err := checkStorageReachable(ctx); err != nil {
		fmt.Printf("❌ Storage reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Storage reachable: OK\n")
		storeReachable = true
	}

	// Check 2: journal entries parse (only if storage is reachable)
	if storeReachable {
		if err := checkEntriesParse(ctx); err != nil {
			fmt.Printf("❌ Journal entries: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Journal entries: OK\n")
		}

		// Check 3: settings normalize
		if err := checkSettings(ctx); err != nil {
			fmt.Printf("❌ Settings: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Settings: OK\n")
		}
	} else {
		fmt.Printf("⊘ Journal entries: SKIPPED (storage not reachable)\n")
		fmt.Printf("⊘ Settings: SKIPPED (storage not reachable)\n")
	}

	// Check 4: backups present (warning only)
	if err := checkBackupsPresent(ctx); err != nil {
		fmt.Printf("⚠ Backups present: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else {
		fmt.Printf("✓ Backups present: OK\n")
	}

	// Check 5: audio files resolve (warning only)
	if storeReachable {
		if err := checkAudioFiles(ctx); err != nil {
			fmt.Printf("⚠ Audio files: WARNING\n")
			fmt.Printf("   %v\n", err)
		} else {
			fmt.Printf("✓ Audio files: OK\n")
		}
	}

	// Check 6: clock/timezone sanity
	if err := checkClockTimezone(); err != nil {
		fmt.Printf("❌ Clock/timezone: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Clock/timezone: OK\n")
	}

	// Check 7: concurrent diario processes (warning only)
	if err := checkDuplicateProcesses(); err != nil {
		fmt.Printf("⚠ Process check: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else {
		fmt.Printf("✓ Process check: OK\n")
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkStorageReachable(ctx *Context) error {
	if err := ctx.Backend.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}

	// For SQLite, also try a simple query.
	if sqliteStore, ok := ctx.Backend.(*storage.SQLiteStore); ok {
		db := sqliteStore.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}

	return nil
}

func checkEntriesParse(ctx *Context) error {
	store, err := journal.Open(ctx.Backend)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}

	// DayStart yields the zero time for keys that are not YYYY-MM-DD.
	for _, day := range store.DaysWithEntries() {
		if day.IsZero() {
			return fmt.Errorf("invalid day key in journal")
		}
	}

	return nil
}

func checkSettings(ctx *Context) error {
	if _, err := settings.OpenStore(ctx.Backend, ctx.Lang); err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	return nil
}

func checkBackupsPresent(ctx *Context) error {
	mgr := backup.NewManager(ctx.Backend.GetConfigPath())
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'diario backup create'")
	}

	return nil
}

// checkAudioFiles looks for notes whose recording handle no longer resolves
// to a file on disk.
func checkAudioFiles(ctx *Context) error {
	store, err := journal.Open(ctx.Backend)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}

	missing := 0
	for _, entry := range store.ExportList() {
		if entry.AudioURL == "" {
			continue
		}
		if _, err := ctx.Media.Path(entry.AudioURL); err != nil {
			missing++
		}
	}

	if missing > 0 {
		return fmt.Errorf("%d note(s) reference missing audio files - run 'diario stats purge-audio' to clear them", missing)
	}
	return nil
}

func checkClockTimezone() error {
	now := time.Now()

	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}

	_, offset := now.Zone()
	if offset == 0 && now.Location() == time.UTC {
		// This might be intentional, so just note it
		fmt.Printf("   Note: timezone is UTC\n")
	}

	return nil
}

// checkDuplicateProcesses warns when another diario instance is running, as
// concurrent writers can clobber each other's saves.
func checkDuplicateProcesses() error {
	procs, err := ps.Processes()
	if err != nil {
		return fmt.Errorf("failed to list processes: %w", err)
	}

	self := os.Getpid()
	binary := strings.TrimSuffix(filepath.Base(os.Args[0]), ".exe")
	count := 0
	for _, p := range procs {
		if p.Pid() == self {
			continue
		}
		if strings.TrimSuffix(p.Executable(), ".exe") == binary {
			count++
		}
	}

	if count > 0 {
		return fmt.Errorf("%d other %s process(es) running - concurrent writes may conflict", count, binary)
	}
	return nil
}
