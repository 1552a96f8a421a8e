package generator_test

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/simonhull/hatch/fledge/generator"
)

func appendLine(line string) func([]byte) ([]byte, error) {
	return func(existing []byte) ([]byte, error) {
		return append(append([]byte{}, existing...), []byte(line+"\n")...), nil
	}
}

func TestExecute_DryRun(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()

	ops := []generator.Operation{
		&generator.WriteFileOp{
			Path:    filepath.Join(tmpDir, "test.txt"),
			Content: []byte("hello"),
			Mode:    0644,
		},
	}

	var buf bytes.Buffer
	err := generator.Execute(ctx, ops, generator.ExecuteOptions{
		DryRun: true,
		Writer: &buf,
	})
	if err != nil {
		t.Fatalf("dry run failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(tmpDir, "test.txt")); !os.IsNotExist(err) {
		t.Error("dry run created file")
	}

	if !strings.Contains(buf.String(), "[DRY RUN]") {
		t.Errorf("output missing [DRY RUN] marker, got: %s", buf.String())
	}
}

func TestExecute_ForceOverwrite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.txt")

	if err := os.WriteFile(path, []byte("old"), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	ops := []generator.Operation{
		&generator.WriteFileOp{Path: path, Content: []byte("new"), Mode: 0644},
	}

	var buf bytes.Buffer
	if err := generator.Execute(ctx, ops, generator.ExecuteOptions{Writer: &buf}); err == nil {
		t.Error("expected error when file exists without force")
	}

	if err := generator.Execute(ctx, ops, generator.ExecuteOptions{Force: true, Writer: &buf}); err != nil {
		t.Fatalf("execute with force failed: %v", err)
	}

	content, _ := os.ReadFile(path)
	if string(content) != "new" {
		t.Errorf("file not overwritten: got %q", content)
	}
}

func TestExecute_ValidationBeforeExecution(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()

	ops := []generator.Operation{
		&generator.WriteFileOp{
			Path:    filepath.Join(tmpDir, "valid.txt"),
			Content: []byte("valid"),
			Mode:    0644,
		},
		&generator.UpdateFileOp{
			Path:      filepath.Join(tmpDir, "missing-index.js"),
			Transform: appendLine("x"),
		},
	}

	err := generator.Execute(ctx, ops, generator.ExecuteOptions{Writer: &bytes.Buffer{}})
	if err == nil {
		t.Fatal("expected validation error for missing file")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("error should wrap fs.ErrNotExist: %v", err)
	}

	if _, err := os.Stat(filepath.Join(tmpDir, "valid.txt")); !os.IsNotExist(err) {
		t.Error("valid.txt was created despite validation failure in another operation")
	}
}

func TestExecute_ValidationFailureLeavesNoDirectories(t *testing.T) {
	tmpDir := t.TempDir()

	ops := []generator.Operation{
		&generator.WriteFileOp{Path: filepath.Join(tmpDir, "levels", "boss", "boss.js"), Content: []byte("scene"), Mode: 0644},
		&generator.UpdateFileOp{Path: filepath.Join(tmpDir, "missing-index.js"), Transform: appendLine("x")},
	}

	if err := generator.Execute(context.Background(), ops, generator.ExecuteOptions{Writer: &bytes.Buffer{}}); err == nil {
		t.Fatal("expected validation error")
	}

	if _, err := os.Stat(filepath.Join(tmpDir, "levels")); !os.IsNotExist(err) {
		t.Error("levels/ was created despite validation failure")
	}
}

func TestExecute_WriteAndUpdate(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()
	index := filepath.Join(tmpDir, "index.js")

	if err := os.WriteFile(index, []byte("a\n"), 0644); err != nil {
		t.Fatal(err)
	}

	ops := []generator.Operation{
		&generator.WriteFileOp{Path: filepath.Join(tmpDir, "scene.js"), Content: []byte("scene"), Mode: 0644},
		&generator.UpdateFileOp{Path: index, Transform: appendLine("b")},
	}

	var buf bytes.Buffer
	if err := generator.Execute(ctx, ops, generator.ExecuteOptions{Writer: &buf}); err != nil {
		t.Fatalf("execute failed: %v", err)
	}

	content, _ := os.ReadFile(index)
	if string(content) != "a\nb\n" {
		t.Errorf("index not updated: %q", content)
	}

	output := buf.String()
	if strings.Count(output, "✓") != 2 {
		t.Errorf("expected 2 checkmarks in output, got: %s", output)
	}
	if !strings.Contains(output, "Update "+index+" (+1 -0)") {
		t.Errorf("update description missing diff stat: %s", output)
	}
}

func TestExecute_RollbackOnExecutionFailure(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()
	index := filepath.Join(tmpDir, "index.js")
	original := []byte("exports.Nada = require('./Nada');\n")

	if err := os.WriteFile(index, original, 0644); err != nil {
		t.Fatal(err)
	}

	// Validation sees a good transform; the real run fails.
	validated := false
	failOnExecute := func(existing []byte) ([]byte, error) {
		if validated {
			return nil, errors.New("disk on fire")
		}
		validated = true
		return append(append([]byte{}, existing...), "x\n"...), nil
	}

	scene := filepath.Join(tmpDir, "scene.js")
	ops := []generator.Operation{
		&generator.WriteFileOp{Path: scene, Content: []byte("scene"), Mode: 0644},
		&generator.UpdateFileOp{Path: index, Transform: failOnExecute},
	}

	err := generator.Execute(ctx, ops, generator.ExecuteOptions{Writer: &bytes.Buffer{}})
	if err == nil {
		t.Fatal("expected execution failure")
	}

	if _, err := os.Stat(scene); !os.IsNotExist(err) {
		t.Error("scene.js should have been rolled back")
	}
	content, _ := os.ReadFile(index)
	if !bytes.Equal(content, original) {
		t.Errorf("index should be untouched, got %q", content)
	}
}

// failingOp runs fn and then fails.
type failingOp struct {
	fn func()
}

func (op *failingOp) Validate(context.Context, bool) error {
	return nil
}

func (op *failingOp) Description() string {
	return "fail"
}

func (op *failingOp) Execute(context.Context) error {
	op.fn()
	return errors.New("disk on fire")
}

func TestExecute_RollbackKeepsConcurrentUpdate(t *testing.T) {
	index := filepath.Join(t.TempDir(), "index.js")
	if err := os.WriteFile(index, []byte("a\n"), 0644); err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	concurrent := func() {
		go func() {
			defer close(done)
			op := &generator.UpdateFileOp{Path: index, Transform: appendLine("other")}
			if err := op.Execute(context.Background()); err != nil {
				t.Errorf("concurrent update failed: %v", err)
			}
		}()
		// Give the other writer a chance to run if the index were unlocked.
		time.Sleep(50 * time.Millisecond)
	}

	ops := []generator.Operation{
		&generator.UpdateFileOp{Path: index, Transform: appendLine("mine")},
		&failingOp{fn: concurrent},
	}

	if err := generator.Execute(context.Background(), ops, generator.ExecuteOptions{Writer: &bytes.Buffer{}}); err == nil {
		t.Fatal("expected execution failure")
	}
	<-done

	content, _ := os.ReadFile(index)
	if string(content) != "a\nother\n" {
		t.Errorf("rollback should keep the concurrent update and drop ours, got %q", content)
	}
}

func TestExecute_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path := filepath.Join(t.TempDir(), "test.txt")
	ops := []generator.Operation{
		&generator.WriteFileOp{Path: path, Content: []byte("x"), Mode: 0644},
	}

	err := generator.Execute(ctx, ops, generator.ExecuteOptions{Writer: &bytes.Buffer{}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("no file should be written after cancellation")
	}
}

func TestWriteFileOp_Validate(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()
	existing := filepath.Join(tmpDir, "existing.txt")

	if err := os.WriteFile(existing, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		op        *generator.WriteFileOp
		force     bool
		wantError bool
	}{
		{"valid operation", &generator.WriteFileOp{Path: filepath.Join(tmpDir, "valid.txt"), Content: []byte("c")}, false, false},
		{"nil content fails", &generator.WriteFileOp{Path: filepath.Join(tmpDir, "nil.txt")}, false, true},
		{"empty content is fine", &generator.WriteFileOp{Path: filepath.Join(tmpDir, "empty.txt"), Content: []byte{}}, false, false},
		{"existing file without force fails", &generator.WriteFileOp{Path: existing, Content: []byte("new")}, false, true},
		{"existing file with force succeeds", &generator.WriteFileOp{Path: existing, Content: []byte("new")}, true, false},
		{"missing parent directories are allowed", &generator.WriteFileOp{Path: filepath.Join(tmpDir, "a", "b", "c.txt"), Content: []byte("c")}, false, false},
		{"parent is a file fails", &generator.WriteFileOp{Path: filepath.Join(existing, "c.txt"), Content: []byte("c")}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.op.Validate(ctx, tt.force)
			if tt.wantError && err == nil {
				t.Error("expected error but got nil")
			}
			if !tt.wantError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}

	if _, err := os.Stat(filepath.Join(tmpDir, "a")); !os.IsNotExist(err) {
		t.Error("Validate created a directory")
	}
}

func TestWriteFileOp_ErrorMessageNoCLIHints(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.txt")
	if err := os.WriteFile(path, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	op := &generator.WriteFileOp{Path: path, Content: []byte("new"), Mode: 0644}
	err := op.Validate(context.Background(), false)
	if err == nil {
		t.Fatal("expected validation error")
	}

	if strings.Contains(err.Error(), "--force") {
		t.Errorf("error message should not mention CLI flags: %v", err)
	}
	if !strings.Contains(err.Error(), "already exists") {
		t.Errorf("error message should describe the problem: %v", err)
	}
}

func TestUpdateFileOp_NoChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.js")
	if err := os.WriteFile(path, []byte("a\n"), 0644); err != nil {
		t.Fatal(err)
	}

	op := &generator.UpdateFileOp{
		Path:      path,
		Transform: func(b []byte) ([]byte, error) { return b, nil },
	}

	if err := op.Validate(context.Background(), false); err != nil {
		t.Fatal(err)
	}
	if err := op.Execute(context.Background()); err != nil {
		t.Fatal(err)
	}
	if op.Description() != "Unchanged "+path {
		t.Errorf("unexpected description: %s", op.Description())
	}
}

func TestUpdateFileOp_ConcurrentUpdates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.js")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			op := &generator.UpdateFileOp{Path: path, Transform: appendLine("line")}
			if err := op.Execute(context.Background()); err != nil {
				t.Errorf("execute failed: %v", err)
			}
		}()
	}
	wg.Wait()

	content, _ := os.ReadFile(path)
	if got := strings.Count(string(content), "line\n"); got != n {
		t.Errorf("lost updates: want %d lines, got %d", n, got)
	}
}
