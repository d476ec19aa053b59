package backup

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeStore(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "gym.db")
	if err := os.WriteFile(path, []byte("store-bytes"), 0o600); err != nil {
		t.Fatalf("write store: %v", err)
	}
	return path
}

func TestSnapshot_NameAndContent(t *testing.T) {
	dir := t.TempDir()
	storePath := writeStore(t, dir)
	mgr := NewManager(storePath, "", "gym_backup")

	now := time.Date(2024, 6, 10, 14, 30, 5, 0, time.UTC)
	snapshot, err := mgr.Snapshot(now)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	wantName := "gym_backup_20240610_143005.db"
	if filepath.Base(snapshot) != wantName {
		t.Fatalf("snapshot name = %s, want %s", filepath.Base(snapshot), wantName)
	}
	if filepath.Dir(snapshot) != dir {
		t.Fatalf("snapshot not a sibling of the store: %s", snapshot)
	}

	data, errRead := os.ReadFile(snapshot)
	if errRead != nil {
		t.Fatalf("read snapshot: %v", errRead)
	}
	if string(data) != "store-bytes" {
		t.Fatalf("snapshot content = %q", data)
	}

	// The live store is untouched.
	orig, errRead := os.ReadFile(storePath)
	if errRead != nil || string(orig) != "store-bytes" {
		t.Fatalf("live store changed: %q, %v", orig, errRead)
	}
}

func TestSnapshot_MissingStoreFails(t *testing.T) {
	dir := t.TempDir()
	mgr := NewManager(filepath.Join(dir, "missing.db"), "", "gym_backup")
	if _, err := mgr.Snapshot(time.Now()); err == nil {
		t.Fatalf("expected error for missing store")
	}
}

func TestPrune_RetentionBoundary(t *testing.T) {
	dir := t.TempDir()
	storePath := writeStore(t, dir)
	mgr := NewManager(storePath, "", "gym_backup")
	now := time.Now()

	ages := map[string]time.Duration{
		"gym_backup_20240601_000000.db": 8 * 24 * time.Hour,
		"gym_backup_20240603_000000.db": 6 * 24 * time.Hour,
		"gym_backup_20240609_230000.db": 1 * time.Hour,
	}
	for name, age := range ages {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("old"), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		mtime := now.Add(-age)
		if err := os.Chtimes(path, mtime, mtime); err != nil {
			t.Fatalf("chtimes %s: %v", name, err)
		}
	}

	pruned := mgr.Prune(now)
	if pruned != 1 {
		t.Fatalf("expected 1 pruned file, got %d", pruned)
	}

	if _, err := os.Stat(filepath.Join(dir, "gym_backup_20240601_000000.db")); !os.IsNotExist(err) {
		t.Fatalf("8-day-old snapshot should be gone: %v", err)
	}
	for _, keep := range []string{"gym_backup_20240603_000000.db", "gym_backup_20240609_230000.db"} {
		if _, err := os.Stat(filepath.Join(dir, keep)); err != nil {
			t.Fatalf("%s should remain: %v", keep, err)
		}
	}
}

func TestRun_SnapshotThenPrune(t *testing.T) {
	dir := t.TempDir()
	storePath := writeStore(t, dir)
	mgr := NewManager(storePath, "", "gym_backup")
	now := time.Now()

	stale := filepath.Join(dir, "gym_backup_20240101_000000.db")
	if err := os.WriteFile(stale, []byte("old"), 0o600); err != nil {
		t.Fatalf("write stale: %v", err)
	}
	old := now.Add(-30 * 24 * time.Hour)
	if err := os.Chtimes(stale, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	result, err := mgr.Run(now)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Pruned != 1 {
		t.Fatalf("expected 1 pruned, got %d", result.Pruned)
	}
	if _, errStat := os.Stat(result.SnapshotPath); errStat != nil {
		t.Fatalf("snapshot missing: %v", errStat)
	}
}

func TestPrune_IgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	storePath := writeStore(t, dir)
	mgr := NewManager(storePath, "", "gym_backup")
	now := time.Now()

	unrelated := filepath.Join(dir, "notes.db")
	if err := os.WriteFile(unrelated, []byte("x"), 0o600); err != nil {
		t.Fatalf("write unrelated: %v", err)
	}
	old := now.Add(-30 * 24 * time.Hour)
	if err := os.Chtimes(unrelated, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	if pruned := mgr.Prune(now); pruned != 0 {
		t.Fatalf("expected 0 pruned, got %d", pruned)
	}
	if _, err := os.Stat(unrelated); err != nil {
		t.Fatalf("unrelated file should remain: %v", err)
	}
}
