package generator

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ConflictResolution represents what to do with an existing file
type ConflictResolution int

const (
	Skip ConflictResolution = iota
	Overwrite
	ShowDiff
	Cancel
)

func (r ConflictResolution) String() string {
	switch r {
	case Skip:
		return "skip"
	case Overwrite:
		return "overwrite"
	case ShowDiff:
		return "diff"
	default:
		return "cancel"
	}
}

// ConflictStrategy determines how to resolve conflicts
type ConflictStrategy interface {
	Resolve(path string, existing, newer []byte) (ConflictResolution, error)
}

// Resolver decides what happens to a generated file whose target already exists.
type Resolver struct {
	strategy ConflictStrategy
	diffGen  *DiffGenerator
	out      io.Writer
}

var (
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("yellow")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("white")).Bold(true)
)

// NewResolver creates a conflict resolver with the specified flags.
// Returns error if --force is combined with --skip or --diff.
func NewResolver(force, skip, diff bool) (*Resolver, error) {
	if force && (skip || diff) {
		return nil, fmt.Errorf("--force cannot be combined with --skip or --diff")
	}

	dg := NewDiffGenerator()
	return &Resolver{
		strategy: selectStrategy(force, skip, diff, dg),
		diffGen:  dg,
		out:      os.Stdout,
	}, nil
}

// NewResolverWithStrategy is for callers (and tests) that bring their own strategy.
func NewResolverWithStrategy(s ConflictStrategy, out io.Writer) *Resolver {
	return &Resolver{strategy: s, diffGen: NewDiffGenerator(), out: out}
}

// ResolveConflict determines what to do with a file that already exists.
// A ShowDiff answer prints the diff and asks again, so the returned value
// is always Skip, Overwrite or Cancel.
func (r *Resolver) ResolveConflict(path string, existing, newer []byte) (ConflictResolution, error) {
	for {
		res, err := r.strategy.Resolve(path, existing, newer)
		if err != nil || res != ShowDiff {
			return res, err
		}
		fmt.Fprintln(r.out, r.diffGen.GenerateDiffDefault(path, path, existing, newer))
	}
}

func selectStrategy(force, skip, diff bool, dg *DiffGenerator) ConflictStrategy {
	switch {
	case force:
		return &ForceStrategy{}
	case skip:
		return &SkipStrategy{}
	case diff:
		return &DiffStrategy{diffGen: dg}
	default:
		return &InteractiveStrategy{}
	}
}

// ForceStrategy always returns Overwrite (no prompts)
type ForceStrategy struct{}

func (s *ForceStrategy) Resolve(path string, existing, newer []byte) (ConflictResolution, error) {
	return Overwrite, nil
}

// SkipStrategy always returns Skip (no prompts)
type SkipStrategy struct{}

func (s *SkipStrategy) Resolve(path string, existing, newer []byte) (ConflictResolution, error) {
	return Skip, nil
}

// DiffStrategy shows the diff first, then falls through to the interactive menu.
// Diffs longer than a screen open in a scrollable viewport.
type DiffStrategy struct {
	diffGen *DiffGenerator
}

func (s *DiffStrategy) Resolve(path string, existing, newer []byte) (ConflictResolution, error) {
	diff := s.diffGen.GenerateDiffDefault(path, path, existing, newer)

	if strings.Count(diff, "\n") > 20 {
		final, err := tea.NewProgram(newDiffViewerModel(path, diff), tea.WithAltScreen()).Run()
		if err != nil {
			return Cancel, fmt.Errorf("failed to show diff: %w", err)
		}
		if final.(diffViewerModel).cancelled {
			return Cancel, nil
		}
	} else {
		fmt.Println(diff)
	}

	return (&InteractiveStrategy{}).Resolve(path, existing, newer)
}

// InteractiveStrategy asks what to do with the existing module in a
// keyboard-driven menu.
type InteractiveStrategy struct{}

func (s *InteractiveStrategy) Resolve(path string, existing, newer []byte) (ConflictResolution, error) {
	fileInfo, err := os.Stat(path)
	if err != nil && !os.IsNotExist(err) {
		return Cancel, fmt.Errorf("failed to stat file: %w", err)
	}

	final, err := tea.NewProgram(newConflictMenuModel(path, describeExisting(fileInfo, existing, newer))).Run()
	if err != nil {
		return Cancel, fmt.Errorf("failed to show menu: %w", err)
	}

	result := final.(conflictMenuModel)
	if result.selected == nil {
		return Cancel, nil
	}
	return *result.selected, nil
}

type conflictChoice struct {
	label string
	res   ConflictResolution
}

// conflictChoices is the menu, top to bottom.
var conflictChoices = []conflictChoice{
	{"Compare with the generated module", ShowDiff},
	{"Keep my module and only register it", Skip},
	{"Replace it with the generated module", Overwrite},
	{"Cancel", Cancel},
}

type conflictMenuModel struct {
	path     string
	summary  string // one line about the file on disk, may be empty
	cursor   int
	selected *ConflictResolution
}

func newConflictMenuModel(path, summary string) conflictMenuModel {
	return conflictMenuModel{path: path, summary: summary}
}

func (m conflictMenuModel) Init() tea.Cmd {
	return nil
}

func (m conflictMenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	case "up", "k":
		m.cursor = max(m.cursor-1, 0)
	case "down", "j":
		m.cursor = min(m.cursor+1, len(conflictChoices)-1)
	case "enter":
		res := conflictChoices[m.cursor].res
		m.selected = &res
		return m, tea.Quit
	}

	return m, nil
}

func (m conflictMenuModel) View() string {
	var b strings.Builder

	b.WriteString(warningStyle.Render("A module already exists at ") + titleStyle.Render(m.path) + "\n")
	if m.summary != "" {
		b.WriteString(mutedStyle.Render("  "+m.summary) + "\n")
	}
	b.WriteString("\n")

	for i, c := range conflictChoices {
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("  › "+c.label) + "\n")
		} else {
			b.WriteString("    " + c.label + "\n")
		}
	}

	b.WriteString("\n" + mutedStyle.Render("  ↑/↓ choose · enter confirm · q cancel") + "\n")
	return b.String()
}

// describeExisting summarises the module on disk for the menu, e.g.
// "edited 2h ago, 1.2 KB, differs by +3 -1 lines".
func describeExisting(info os.FileInfo, existing, newer []byte) string {
	var parts []string
	if info != nil {
		parts = append(parts,
			"edited "+humanAge(time.Since(info.ModTime())),
			humanSize(info.Size()))
	}

	added, removed := NewDiffGenerator().Stat(existing, newer)
	if added == 0 && removed == 0 {
		parts = append(parts, "same as the generated module")
	} else {
		parts = append(parts, fmt.Sprintf("differs by +%d -%d lines", added, removed))
	}
	return strings.Join(parts, ", ")
}

// diffViewerModel pages through a long diff between the module on disk
// and the generated one. ctrl+c cancels the whole scene; q returns to
// the menu.
type diffViewerModel struct {
	path      string
	viewport  viewport.Model
	diff      string
	ready     bool
	cancelled bool
}

var diffFrame = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))

func newDiffViewerModel(path, diff string) diffViewerModel {
	return diffViewerModel{path: path, diff: diff}
}

func (m diffViewerModel) Init() tea.Cmd {
	return nil
}

func (m diffViewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancelled = true
			return m, tea.Quit
		case "q", "esc":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		// Title and help lines plus the frame's top and bottom edges.
		w, h := msg.Width-diffFrame.GetHorizontalFrameSize(), msg.Height-2-diffFrame.GetVerticalFrameSize()
		if !m.ready {
			m.viewport = viewport.New(w, h)
			m.viewport.SetContent(m.diff)
			m.ready = true
		}
		m.viewport.Width, m.viewport.Height = w, h
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m diffViewerModel) View() string {
	if !m.ready {
		return "Loading diff…"
	}

	title := titleStyle.Render(m.path) + mutedStyle.Render(fmt.Sprintf("  on disk → generated  %3.f%%", m.viewport.ScrollPercent()*100))
	help := mutedStyle.Render("↑/↓ scroll · q back to menu · ctrl+c cancel")
	return title + "\n" + diffFrame.Render(m.viewport.View()) + "\n" + help + "\n"
}

// humanAge renders d in its largest whole unit ("just now", "5m ago",
// "3d ago").
func humanAge(d time.Duration) string {
	const day = 24 * time.Hour
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d/time.Minute))
	case d < day:
		return fmt.Sprintf("%dh ago", int(d/time.Hour))
	case d < 365*day:
		return fmt.Sprintf("%dd ago", int(d/day))
	default:
		return fmt.Sprintf("%dy ago", int(d/(365*day)))
	}
}

// humanSize renders a byte count with one decimal above 1 KB.
func humanSize(n int64) string {
	size, units := float64(n), []string{"KB", "MB", "GB"}
	if size < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	unit := ""
	for _, u := range units {
		size /= 1024
		unit = u
		if size < 1024 {
			break
		}
	}
	return fmt.Sprintf("%.1f %s", size, unit)
}
