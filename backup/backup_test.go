package backup

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSnapshot(t *testing.T, dir, stamp string) string {
	t.Helper()
	path := filepath.Join(dir, snapshotPrefix+stamp+snapshotSuffix)
	if err := os.WriteFile(path, []byte("snapshot"), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func TestPruneSnapshots(t *testing.T) {
	dir := t.TempDir()

	oldest := writeSnapshot(t, dir, "20260101T000000Z")
	middle := writeSnapshot(t, dir, "20260201T000000Z")
	newest := writeSnapshot(t, dir, "20260301T000000Z")
	unrelated := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(unrelated, []byte("keep"), 0o644); err != nil {
		t.Fatalf("failed to write unrelated file: %v", err)
	}

	if err := pruneSnapshots(dir, 2); err != nil {
		t.Fatalf("pruneSnapshots failed: %v", err)
	}

	if _, err := os.Stat(oldest); !os.IsNotExist(err) {
		t.Error("oldest snapshot not pruned")
	}
	for _, keep := range []string{middle, newest, unrelated} {
		if _, err := os.Stat(keep); err != nil {
			t.Errorf("%s should survive pruning: %v", keep, err)
		}
	}
}

func TestPruneSnapshotsUnderLimit(t *testing.T) {
	dir := t.TempDir()
	path := writeSnapshot(t, dir, "20260101T000000Z")

	if err := pruneSnapshots(dir, 8); err != nil {
		t.Fatalf("pruneSnapshots failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("snapshot removed while under the limit: %v", err)
	}
}

func TestPruneSnapshotsZeroKeepIsNoop(t *testing.T) {
	dir := t.TempDir()
	path := writeSnapshot(t, dir, "20260101T000000Z")

	if err := pruneSnapshots(dir, 0); err != nil {
		t.Fatalf("pruneSnapshots failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("keep=0 should disable pruning, file removed: %v", err)
	}
}
