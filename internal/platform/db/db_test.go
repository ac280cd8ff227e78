package db

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSchemaStats(t *testing.T) {
	now := time.Now()
	statuses := []MigrationStatus{
		{Version: 1, Name: "001_core.sql", Applied: true, AppliedAt: &now},
		{Version: 2, Name: "002_indexes.sql", Applied: true, AppliedAt: &now},
		{Version: 3, Name: "003_audit.sql"},
	}

	s := schemaStats(statuses)
	if s.Version != 2 {
		t.Errorf("Version = %d, want 2", s.Version)
	}
	if s.Pending != 1 {
		t.Errorf("Pending = %d, want 1", s.Pending)
	}
}

func TestSchemaStats_Empty(t *testing.T) {
	s := schemaStats(nil)
	if s.Version != 0 || s.Pending != 0 {
		t.Errorf("expected zero stats, got %+v", s)
	}
}

func TestLoadMigrations_SortsAndSkips(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"002_history.sql": "CREATE TABLE b (id INT);",
		"001_visits.sql":  "CREATE TABLE a (id INT);",
		"README.md":       "not a migration",
		"notes.sql":       "no version prefix",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	m := NewMigrator(nil, dir)
	migrations, err := m.LoadMigrations()
	if err != nil {
		t.Fatalf("LoadMigrations: %v", err)
	}
	if len(migrations) != 2 {
		t.Fatalf("expected 2 migrations, got %d", len(migrations))
	}
	if migrations[0].Version != 1 || migrations[1].Version != 2 {
		t.Errorf("migrations out of order: %d, %d", migrations[0].Version, migrations[1].Version)
	}
	if migrations[0].Name != "001_visits.sql" {
		t.Errorf("first migration = %s, want 001_visits.sql", migrations[0].Name)
	}
}
