// Package backup snapshots the store file and prunes snapshots past the
// retention window.
package backup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
)

// DefaultRetention is the age past which snapshots are deleted.
const DefaultRetention = 7 * 24 * time.Hour

// snapshotTimeLayout stamps snapshot names with one-second resolution. The
// resulting name, <prefix>_<YYYYMMDD_HHMMSS>.db, must stay parseable because
// pruning matches candidates by pattern, not content.
const snapshotTimeLayout = "20060102_150405"

// Manager copies the store file into timestamped snapshots and deletes
// snapshots older than the retention window.
type Manager struct {
	storePath string        // Live store file.
	dir       string        // Snapshot directory, sibling of the store by default.
	prefix    string        // Snapshot name prefix.
	retention time.Duration // Age threshold for pruning.
}

// NewManager constructs a backup manager with the default retention. An
// empty dir places snapshots next to the store file.
func NewManager(storePath, dir, prefix string) *Manager {
	if dir == "" {
		dir = filepath.Dir(storePath)
	}
	if prefix == "" {
		prefix = "gym_backup"
	}
	return &Manager{storePath: storePath, dir: dir, prefix: prefix, retention: DefaultRetention}
}

// Result reports the outcome of one backup pass.
type Result struct {
	SnapshotPath string // Path of the snapshot written by this pass.
	Pruned       int    // Number of stale snapshots deleted.
}

// Run takes one snapshot and prunes stale ones. A snapshot failure aborts
// the pass and is returned to the caller; the live store is never touched.
func (m *Manager) Run(now time.Time) (Result, error) {
	snapshot, errSnapshot := m.Snapshot(now)
	if errSnapshot != nil {
		return Result{}, errSnapshot
	}
	pruned := m.Prune(now)
	return Result{SnapshotPath: snapshot, Pruned: pruned}, nil
}

// Snapshot copies the store file to <dir>/<prefix>_<timestamp>.db and
// returns the new path.
func (m *Manager) Snapshot(now time.Time) (string, error) {
	src, errOpen := os.Open(m.storePath)
	if errOpen != nil {
		return "", fmt.Errorf("backup: open store %s: %w", m.storePath, errOpen)
	}
	defer func() { _ = src.Close() }()

	name := fmt.Sprintf("%s_%s.db", m.prefix, now.Format(snapshotTimeLayout))
	path := filepath.Join(m.dir, name)

	dst, errCreate := os.Create(path)
	if errCreate != nil {
		return "", fmt.Errorf("backup: create snapshot %s: %w", path, errCreate)
	}

	if _, errCopy := io.Copy(dst, src); errCopy != nil {
		_ = dst.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("backup: copy store to %s: %w", path, errCopy)
	}
	if errSync := dst.Sync(); errSync != nil {
		_ = dst.Close()
		return "", fmt.Errorf("backup: sync snapshot %s: %w", path, errSync)
	}
	if errClose := dst.Close(); errClose != nil {
		return "", fmt.Errorf("backup: close snapshot %s: %w", path, errClose)
	}
	return path, nil
}

// Prune deletes snapshots whose modification time is strictly older than the
// retention window and returns how many were removed. A failure on one file
// does not stop pruning of the rest.
func (m *Manager) Prune(now time.Time) int {
	pattern := filepath.Join(m.dir, m.prefix+"_*.db")
	matches, errGlob := filepath.Glob(pattern)
	if errGlob != nil {
		log.WithError(errGlob).WithField("pattern", pattern).Warn("backup prune glob failed")
		return 0
	}

	cutoff := now.Add(-m.retention)
	pruned := 0
	for _, candidate := range matches {
		if candidate == m.storePath {
			continue
		}
		info, errStat := os.Stat(candidate)
		if errStat != nil {
			log.WithError(errStat).WithField("path", candidate).Warn("backup prune stat failed")
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		if errRemove := os.Remove(candidate); errRemove != nil {
			log.WithError(errRemove).WithField("path", candidate).Warn("backup prune delete failed")
			continue
		}
		pruned++
	}
	return pruned
}
