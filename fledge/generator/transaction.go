package generator

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Transaction stages file writes and journals the prior state of every
// path it touches, so a failed request can be put back exactly as it was:
// pre-existing files get their old bytes back, new files are removed.
type Transaction struct {
	operations []fileOperation
	journal    []snapshot
	seen       map[string]bool
	committed  bool
}

type fileOperation struct {
	path    string
	content []byte
	mode    os.FileMode
}

type snapshot struct {
	path    string
	existed bool
	content []byte
	mode    os.FileMode
}

// NewTransaction creates a new file operation transaction
func NewTransaction() *Transaction {
	return &Transaction{seen: make(map[string]bool)}
}

// AddFile stages a file write operation (doesn't write yet)
func (t *Transaction) AddFile(path string, content []byte, mode os.FileMode) {
	t.operations = append(t.operations, fileOperation{
		path:    path,
		content: content,
		mode:    mode,
	})
}

// Snapshot records the current state of path. Only the first snapshot of
// a path is kept.
func (t *Transaction) Snapshot(path string) error {
	if t.seen[path] {
		return nil
	}

	s := snapshot{path: path}
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return fmt.Errorf("failed to snapshot %s: %w", path, err)
	default:
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to snapshot %s: %w", path, err)
		}
		s.existed = true
		s.content = content
		s.mode = info.Mode().Perm()
	}

	t.seen[path] = true
	t.journal = append(t.journal, s)
	return nil
}

// Commit writes all staged files to disk.
// If any write fails, every journaled path is restored.
func (t *Transaction) Commit() error {
	if t.committed {
		return fmt.Errorf("transaction already committed")
	}

	for _, op := range t.operations {
		if err := t.Snapshot(op.path); err != nil {
			t.Restore()
			return err
		}

		dir := filepath.Dir(op.path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Restore()
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}

		if err := os.WriteFile(op.path, op.content, op.mode); err != nil {
			t.Restore()
			return fmt.Errorf("failed to write file %s: %w", op.path, err)
		}
	}

	t.committed = true
	return nil
}

// Restore puts every journaled path back to its snapshot, newest first.
// Best effort: individual failures are ignored.
func (t *Transaction) Restore() {
	for i := len(t.journal) - 1; i >= 0; i-- {
		s := t.journal[i]
		if s.existed {
			os.WriteFile(s.path, s.content, s.mode)
		} else {
			os.Remove(s.path)
		}
	}
}

// Rollback restores an uncommitted transaction (for use in defer).
// It is a no-op after a successful Commit.
func (t *Transaction) Rollback() {
	if !t.committed {
		t.Restore()
	}
}
