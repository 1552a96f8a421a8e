package exec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockCommand re-runs the test binary as a fake formatter
func mockCommand(name string, args ...string) *exec.Cmd {
	cs := []string{"-test.run=TestHelperProcess", "--", name}
	cs = append(cs, args...)
	cmd := exec.Command(os.Args[0], cs...)
	cmd.Env = []string{"GO_WANT_HELPER_PROCESS=1"}
	return cmd
}

// TestHelperProcess is the fake command, not a real test
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	args := os.Args
	for i, arg := range args {
		if arg == "--" {
			args = args[i+1:]
			break
		}
	}
	if len(args) == 0 {
		fmt.Fprintf(os.Stderr, "no command specified\n")
		os.Exit(1)
	}

	switch args[0] {
	case "prettier":
		for _, f := range args[1:] {
			if !strings.HasPrefix(f, "--") {
				fmt.Println(f)
			}
		}
		os.Exit(0)
	case "pwd":
		wd, _ := os.Getwd()
		fmt.Println(wd)
		os.Exit(0)
	case "sleep":
		time.Sleep(10 * time.Second)
		os.Exit(0)
	case "error":
		fmt.Fprintf(os.Stderr, "src/test.js: SyntaxError\n")
		os.Exit(2)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		os.Exit(1)
	}
}

func newMockExecutor(opts *Options) *Executor {
	e := NewExecutor(opts)
	e.commandFunc = mockCommand
	return e
}

func TestNewExecutor(t *testing.T) {
	e := NewExecutor(nil)
	assert.Equal(t, os.Stdout, e.stdout)
	assert.Equal(t, os.Stderr, e.stderr)
	assert.NotNil(t, e.commandFunc)

	var stdout, stderr bytes.Buffer
	e = NewExecutor(&Options{Stdout: &stdout, Stderr: &stderr, Env: []string{"A=1"}, Dir: "game"})
	assert.Equal(t, &stdout, e.stdout)
	assert.Equal(t, &stderr, e.stderr)
	assert.Equal(t, []string{"A=1"}, e.env)
	assert.Equal(t, "game", e.dir)
}

func TestSplit(t *testing.T) {
	name, args, err := Split("  npx prettier   --write ")
	require.NoError(t, err)
	assert.Equal(t, "npx", name)
	assert.Equal(t, []string{"prettier", "--write"}, args)

	_, _, err = Split("   ")
	assert.Error(t, err)
}

func TestExecutor_Run(t *testing.T) {
	var stdout bytes.Buffer
	e := newMockExecutor(&Options{Stdout: &stdout})

	require.NoError(t, e.Run(context.Background(), "prettier", "--write", "src/test.js", "src/scenes-index.js"))
	assert.Equal(t, "src/test.js\nsrc/scenes-index.js\n", stdout.String())
}

func TestExecutor_RunWithError(t *testing.T) {
	var stderr bytes.Buffer
	e := newMockExecutor(&Options{Stderr: &stderr})

	err := e.Run(context.Background(), "error")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error failed")
	assert.Contains(t, stderr.String(), "SyntaxError")

	var exitErr *exec.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 2, exitErr.ExitCode())
}

func TestExecutor_WorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	var stdout bytes.Buffer
	e := newMockExecutor(&Options{Stdout: &stdout, Dir: dir})

	require.NoError(t, e.Run(context.Background(), "pwd"))

	want, err := os.Stat(dir)
	require.NoError(t, err)
	got, err := os.Stat(strings.TrimSpace(stdout.String()))
	require.NoError(t, err)
	assert.True(t, os.SameFile(want, got))
}

func TestExecutor_Cancelled(t *testing.T) {
	e := newMockExecutor(&Options{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := e.Run(ctx, "sleep")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cancelled")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestExecutor_CommandNotFound(t *testing.T) {
	e := NewExecutor(&Options{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}})

	err := e.Run(context.Background(), "hatch-no-such-formatter")
	require.Error(t, err)
	assert.ErrorIs(t, err, exec.ErrNotFound)
	assert.Contains(t, err.Error(), "not found. Please install it")
}

func TestExecutor_RunWithSpinnerWithoutTerminal(t *testing.T) {
	var out bytes.Buffer
	e := newMockExecutor(&Options{Stdout: &out, Stderr: &out})

	require.NoError(t, e.RunWithSpinner(context.Background(), "Formatting", "prettier", "src/test.js"))
	assert.Equal(t, "   │ src/test.js\n", out.String())

	out.Reset()
	require.Error(t, e.RunWithSpinner(context.Background(), "Formatting", "error"))
	assert.Contains(t, out.String(), "   │ src/test.js: SyntaxError")
}

func TestSpinnerModel(t *testing.T) {
	var m tea.Model = newSpinnerModel("Formatting")
	assert.Contains(t, m.View(), "Formatting...")

	m, cmd := m.Update(spinnerDoneMsg{})
	assert.NotNil(t, cmd)
	assert.Equal(t, "✅ Formatting\n", m.View())

	m, _ = newSpinnerModel("Formatting").Update(spinnerDoneMsg{err: errors.New("boom")})
	assert.Equal(t, "❌ Formatting\n", m.View())
}

func TestPrefixWriter(t *testing.T) {
	var out bytes.Buffer
	w := NewPrefixWriter(&out, ">>> ")

	n, err := w.Write([]byte("Hello World\n"))
	require.NoError(t, err)
	assert.Equal(t, 12, n)
	assert.Equal(t, ">>> Hello World\n", out.String())

	out.Reset()
	n, err = w.Write([]byte("Partial"))
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.Empty(t, out.String())

	_, err = w.Write([]byte(" Line\nnext"))
	require.NoError(t, err)
	assert.Equal(t, ">>> Partial Line\n", out.String())

	require.NoError(t, w.Flush())
	assert.Equal(t, ">>> Partial Line\n>>> next\n", out.String())
	require.NoError(t, w.Flush())
	assert.Equal(t, ">>> Partial Line\n>>> next\n", out.String())
}
