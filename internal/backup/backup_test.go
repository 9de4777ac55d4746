package backup

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

func setupSQLiteStore(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "diario.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE kv (key TEXT PRIMARY KEY, value TEXT NOT NULL)`); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO kv (key, value) VALUES ('journal-entries', '{"2026-03-01": []}')`); err != nil {
		t.Fatalf("failed to insert test data: %v", err)
	}

	return dbPath
}

func setupJSONStore(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "diario.json")
	content := `{"version": 1, "values": {"journal-entries": "{}"}}`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCreateBackupSQLite(t *testing.T) {
	dbPath := setupSQLiteStore(t)

	mgr := NewManager(dbPath)
	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		t.Fatalf("backup file was not created: %s", backupPath)
	}

	// The backup is a valid database holding the kv rows.
	db, err := sql.Open("sqlite", backupPath)
	if err != nil {
		t.Fatalf("failed to open backup database: %v", err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM kv").Scan(&count); err != nil {
		t.Fatalf("failed to query backup database: %v", err)
	}
	if count != 1 {
		t.Errorf("backup kv rows = %d, want 1", count)
	}
}

func TestCreateBackupJSON(t *testing.T) {
	path := setupJSONStore(t)

	mgr := NewManager(path)
	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	if filepath.Ext(backupPath) != ".json" {
		t.Errorf("JSON backup should keep the .json extension: %s", backupPath)
	}

	original, _ := os.ReadFile(path)
	copied, err := os.ReadFile(backupPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(original) != string(copied) {
		t.Error("JSON backup differs from the source file")
	}
}

func TestCreateBackupMissingSource(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := mgr.CreateBackup(); err == nil {
		t.Fatal("expected error for missing storage file")
	}
}

func TestListBackups(t *testing.T) {
	dbPath := setupSQLiteStore(t)
	mgr := NewManager(dbPath)

	// Empty directory.
	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 0 {
		t.Errorf("expected no backups, got %d", len(backups))
	}

	if _, err := mgr.CreateBackup(); err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.CreateBackup(); err != nil {
		t.Fatal(err)
	}

	backups, err = mgr.ListBackups()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 2 {
		t.Fatalf("expected 2 backups, got %d", len(backups))
	}
	for _, b := range backups {
		if b.Size == 0 {
			t.Errorf("backup %s has zero size", b.Path)
		}
		if b.Timestamp.IsZero() {
			t.Errorf("backup %s has no parsed timestamp", b.Path)
		}
	}
}

func TestRestoreBackup(t *testing.T) {
	dbPath := setupSQLiteStore(t)
	mgr := NewManager(dbPath)

	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatal(err)
	}

	// Mutate the live database after the backup.
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`INSERT INTO kv (key, value) VALUES ('extra', 'x')`); err != nil {
		t.Fatal(err)
	}
	db.Close()

	if err := mgr.RestoreBackup(backupPath); err != nil {
		t.Fatalf("RestoreBackup failed: %v", err)
	}

	restored, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer restored.Close()

	var count int
	if err := restored.QueryRow("SELECT COUNT(*) FROM kv").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("restore did not roll back the mutation: %d rows", count)
	}
}

func TestRestoreBackupTakesSafetyCopy(t *testing.T) {
	dbPath := setupSQLiteStore(t)
	mgr := NewManager(dbPath)

	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatal(err)
	}
	before, err := mgr.ListBackups()
	if err != nil {
		t.Fatal(err)
	}

	if err := mgr.RestoreBackup(backupPath); err != nil {
		t.Fatal(err)
	}

	after, err := mgr.ListBackups()
	if err != nil {
		t.Fatal(err)
	}
	if len(after) <= len(before) {
		t.Errorf("restore should add a safety backup: %d -> %d", len(before), len(after))
	}
}

func TestRestoreRejectsCorruptedBackup(t *testing.T) {
	dbPath := setupSQLiteStore(t)
	mgr := NewManager(dbPath)

	corrupted := filepath.Join(mgr.GetBackupDir(), "diario-20260301-1200.db")
	if err := os.MkdirAll(mgr.GetBackupDir(), 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(corrupted, []byte("not a database"), 0600); err != nil {
		t.Fatal(err)
	}

	if err := mgr.RestoreBackup(corrupted); err == nil {
		t.Fatal("expected corrupted backup to be rejected")
	}
}

func TestRestoreRejectsInvalidJSON(t *testing.T) {
	path := setupJSONStore(t)
	mgr := NewManager(path)

	bad := filepath.Join(mgr.GetBackupDir(), "diario-20260301-1200.json")
	if err := os.MkdirAll(mgr.GetBackupDir(), 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bad, []byte("{broken"), 0600); err != nil {
		t.Fatal(err)
	}

	if err := mgr.RestoreBackup(bad); err == nil {
		t.Fatal("expected invalid JSON backup to be rejected")
	}
}

func TestUniqueBackupFilenames(t *testing.T) {
	dbPath := setupSQLiteStore(t)
	mgr := NewManager(dbPath)

	// Backups within the same minute must not overwrite each other.
	seen := make(map[string]bool)
	for i := 0; i < 3; i++ {
		path, err := mgr.CreateBackup()
		if err != nil {
			t.Fatal(err)
		}
		if seen[path] {
			t.Errorf("duplicate backup path: %s", path)
		}
		seen[path] = true
	}
}

func TestRotateKeepsMostRecent(t *testing.T) {
	dbPath := setupSQLiteStore(t)
	mgr := NewManager(dbPath)

	if err := os.MkdirAll(mgr.GetBackupDir(), 0700); err != nil {
		t.Fatal(err)
	}
	// Seed more timestamped files than the retention limit.
	for day := 1; day <= MaxBackups+3; day++ {
		name := filepath.Join(mgr.GetBackupDir(),
			BackupFilePrefix+"202602"+twoDigits(day)+"-1200.db")
		if err := os.WriteFile(name, []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}

	if _, err := mgr.CreateBackup(); err != nil {
		t.Fatal(err)
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != MaxBackups {
		t.Errorf("after rotation: %d backups, want %d", len(backups), MaxBackups)
	}
}

func twoDigits(n int) string {
	return string([]byte{byte('0' + n/10), byte('0' + n%10)})
}
