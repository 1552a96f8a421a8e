package generator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Operation represents a file system operation that can be validated and executed.
//
// Validate checks if the operation would succeed without executing it.
// It must not modify the disk.
// force=true skips conflict checks (e.g., file already exists).
//
// Execute performs the actual operation. This should only be called after Validate succeeds.
//
// Description returns a human-readable description for output (e.g., "Create src/boot.js (234 bytes)").
type Operation interface {
	Validate(ctx context.Context, force bool) error
	Execute(ctx context.Context) error
	Description() string
}

// Targeter is implemented by operations that modify a single file.
// Execute journals the target before running the operation so it can be
// restored if a later operation fails.
type Targeter interface {
	Target() string
}

// WriteFileOp creates a new file with content.
//
// Validation behavior:
//   - Checks that missing parent directories can be created, without
//     creating them (Execute does)
//   - Checks for file conflicts unless force=true
//   - Allows empty content (zero bytes) but rejects nil content
type WriteFileOp struct {
	Path    string      // File path to create
	Content []byte      // File content (can be empty, must not be nil)
	Mode    fs.FileMode // File permissions (e.g., 0644)
}

func (op *WriteFileOp) Validate(ctx context.Context, force bool) error {
	if err := checkCreatable(filepath.Dir(op.Path)); err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(op.Path); err == nil {
			return fmt.Errorf("file already exists: %s", op.Path)
		}
	}

	if op.Content == nil {
		return fmt.Errorf("content is nil for file: %s", op.Path)
	}

	return nil
}

// checkCreatable reports whether dir exists as a directory, or could be
// created because its nearest existing ancestor is one.
func checkCreatable(dir string) error {
	for d := dir; ; d = filepath.Dir(d) {
		info, err := os.Stat(d)
		switch {
		case err == nil && info.IsDir():
			return nil
		case err == nil:
			return fmt.Errorf("cannot create directory %s: %s is not a directory", dir, d)
		case !errors.Is(err, fs.ErrNotExist):
			return fmt.Errorf("cannot create directory %s: %w", dir, err)
		}

		if parent := filepath.Dir(d); parent == d {
			return fmt.Errorf("cannot create directory %s: no existing parent", dir)
		}
	}
}

func (op *WriteFileOp) Execute(ctx context.Context) error {
	dir := filepath.Dir(op.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	return os.WriteFile(op.Path, op.Content, op.Mode)
}

func (op *WriteFileOp) Description() string {
	return fmt.Sprintf("Create %s (%d bytes)", op.Path, len(op.Content))
}

func (op *WriteFileOp) Target() string { return op.Path }

// UpdateFileOp rewrites an existing file through Transform.
//
// The file must already exist; a missing file fails validation with an
// error wrapping fs.ErrNotExist. Validate runs Transform against the
// current content so transform errors surface before anything is written.
// Execute re-reads the file and applies Transform while holding the path
// lock from LockPath, so concurrent updates of one file never lose writes.
// Under Execute the lock is already held from snapshot to restore.
type UpdateFileOp struct {
	Path      string
	Transform func(existing []byte) ([]byte, error)

	added, removed int
}

func (op *UpdateFileOp) Validate(ctx context.Context, force bool) error {
	if op.Transform == nil {
		return fmt.Errorf("no transform for file: %s", op.Path)
	}

	existing, err := os.ReadFile(op.Path)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", op.Path, err)
	}

	updated, err := op.Transform(existing)
	if err != nil {
		return fmt.Errorf("cannot update %s: %w", op.Path, err)
	}

	op.added, op.removed = NewDiffGenerator().Stat(existing, updated)
	return nil
}

func (op *UpdateFileOp) Execute(ctx context.Context) error {
	unlock := lockUnlessHeld(ctx, op.Path)
	defer unlock()

	info, err := os.Stat(op.Path)
	if err != nil {
		return err
	}

	existing, err := os.ReadFile(op.Path)
	if err != nil {
		return err
	}

	updated, err := op.Transform(existing)
	if err != nil {
		return fmt.Errorf("cannot update %s: %w", op.Path, err)
	}

	if bytes.Equal(existing, updated) {
		op.added, op.removed = 0, 0
		return nil
	}

	op.added, op.removed = NewDiffGenerator().Stat(existing, updated)
	return os.WriteFile(op.Path, updated, info.Mode().Perm())
}

func (op *UpdateFileOp) Description() string {
	if op.added == 0 && op.removed == 0 {
		return fmt.Sprintf("Unchanged %s", op.Path)
	}
	return fmt.Sprintf("Update %s (+%d -%d)", op.Path, op.added, op.removed)
}

func (op *UpdateFileOp) Target() string { return op.Path }
