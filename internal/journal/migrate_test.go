package journal

import (
	"encoding/json"
	"testing"
	"time"
)

func TestMigrateModernShape(t *testing.T) {
	raw := `{
		"2026-03-01": [
			{"date": "2026-03-01", "content": "first", "rating": 4, "createdAt": "2026-03-01T09:30:00Z"},
			{"date": "2026-03-01", "content": "second", "rating": 0, "audioUrl": "abc.m4a", "transcript": "t", "summary": "s", "createdAt": "2026-03-01T21:00:00Z"}
		]
	}`

	migrated := Migrate([]byte(raw))
	day := migrated["2026-03-01"]
	if len(day) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(day))
	}
	if day[0].Content != "first" || day[0].Rating != 4 {
		t.Errorf("first entry mangled: %+v", day[0])
	}
	if day[1].AudioURL != "abc.m4a" || day[1].Transcript != "t" || day[1].Summary != "s" {
		t.Errorf("second entry lost audio fields: %+v", day[1])
	}
}

func TestMigrateLegacySingleEntryShape(t *testing.T) {
	raw := `{"2024-05-10": {"date": "2024-05-10", "content": "old style", "rating": 3}}`

	migrated := Migrate([]byte(raw))
	day := migrated["2024-05-10"]
	if len(day) != 1 {
		t.Fatalf("expected legacy record wrapped into 1 entry, got %d", len(day))
	}
	if day[0].Content != "old style" || day[0].Rating != 3 {
		t.Errorf("legacy entry mangled: %+v", day[0])
	}

	// Records predating createdAt get local midnight of their day.
	want := time.Date(2024, 5, 10, 0, 0, 0, 0, time.Local).Format(time.RFC3339)
	if day[0].CreatedAt != want {
		t.Errorf("createdAt = %q, want %q", day[0].CreatedAt, want)
	}
}

func TestMigrateNullDayValueWrapsDefault(t *testing.T) {
	// A day holding JSON null is not a note sequence; like any other
	// non-array value it wraps into a single defaulted entry.
	raw := `{"2024-01-01": null, "2024-01-02": []}`

	migrated := Migrate([]byte(raw))
	day := migrated["2024-01-01"]
	if len(day) != 1 {
		t.Fatalf("expected null day wrapped into 1 entry, got %d", len(day))
	}
	if day[0].Date != "2024-01-01" || day[0].Content != "" || day[0].Rating != 0 {
		t.Errorf("wrapped entry not defaulted: %+v", day[0])
	}
	want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local).Format(time.RFC3339)
	if day[0].CreatedAt != want {
		t.Errorf("createdAt = %q, want %q", day[0].CreatedAt, want)
	}

	// An actually-empty array stays an empty bucket.
	if got := migrated["2024-01-02"]; len(got) != 0 {
		t.Errorf("empty array should stay empty, got %d entries", len(got))
	}
}

func TestMigrateMalformedInput(t *testing.T) {
	cases := map[string]string{
		"empty":          "",
		"not json":       "garbage{",
		"top-level list": `[1, 2, 3]`,
		"string":         `"hello"`,
	}

	for name, raw := range cases {
		if got := Migrate([]byte(raw)); len(got) != 0 {
			t.Errorf("%s: expected empty store, got %d days", name, len(got))
		}
	}
}

func TestMigrateMixedFieldTypes(t *testing.T) {
	// Wrong-typed fields fall back to defaults instead of failing the load.
	raw := `{"2026-01-02": [{"content": 42, "rating": "high", "createdAt": false}]}`

	migrated := Migrate([]byte(raw))
	day := migrated["2026-01-02"]
	if len(day) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(day))
	}
	if day[0].Content != "" || day[0].Rating != 0 {
		t.Errorf("wrong-typed fields not defaulted: %+v", day[0])
	}
	if day[0].Date != "2026-01-02" {
		t.Errorf("date not backfilled from day key: %q", day[0].Date)
	}
}

func TestMigrateIdempotent(t *testing.T) {
	raw := `{"2026-03-01": [{"date": "2026-03-01", "content": "hi", "rating": 2, "createdAt": "2026-03-01T08:00:00Z"}]}`

	once := Migrate([]byte(raw))
	data, err := json.Marshal(once)
	if err != nil {
		t.Fatal(err)
	}
	twice := Migrate(data)

	if len(twice) != len(once) {
		t.Fatalf("day count changed: %d vs %d", len(twice), len(once))
	}
	for dayKey := range once {
		if len(twice[dayKey]) != len(once[dayKey]) {
			t.Fatalf("entry count changed for %s", dayKey)
		}
		for i := range once[dayKey] {
			if twice[dayKey][i] != once[dayKey][i] {
				t.Errorf("entry %d changed across migrations:\n  first:  %+v\n  second: %+v", i, once[dayKey][i], twice[dayKey][i])
			}
		}
	}
}

func TestMigrateInvalidDayKeyStillLoads(t *testing.T) {
	raw := `{"not-a-date": [{"content": "kept"}]}`

	migrated := Migrate([]byte(raw))
	day := migrated["not-a-date"]
	if len(day) != 1 || day[0].Content != "kept" {
		t.Fatalf("record under invalid day key dropped: %+v", day)
	}

	var zero time.Time
	if day[0].CreatedAt != zero.Format(time.RFC3339) {
		t.Errorf("unparseable day key should yield zero-time createdAt, got %q", day[0].CreatedAt)
	}
}
