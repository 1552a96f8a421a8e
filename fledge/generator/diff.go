package generator

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// DiffOptions configures how diffs are generated and displayed.
// All fields are optional.
type DiffOptions struct {
	ContextLines int  // Unchanged lines around each change (default 3)
	TabWidth     int  // Spaces per tab (default 4)
	ShowLineNums bool // Old-file line numbers in the left margin
}

// DiffGenerator computes unified diffs with the Myers algorithm.
// The V-array backing store is reused between calls, so keep one per
// resolver instead of allocating per file.
type DiffGenerator struct {
	v     []int
	trace [][]int
}

// NewDiffGenerator creates a diff generator optimized for repeated use.
func NewDiffGenerator() *DiffGenerator {
	return &DiffGenerator{}
}

// GenerateDiffDefault is GenerateDiff with default options.
func (dg *DiffGenerator) GenerateDiffDefault(oldPath, newPath string, old, newer []byte) string {
	return dg.GenerateDiff(oldPath, newPath, old, newer, nil)
}

// GenerateDiff renders a styled unified diff. Returns "" when the inputs
// are identical.
func (dg *DiffGenerator) GenerateDiff(oldPath, newPath string, old, newer []byte, opts *DiffOptions) string {
	o := DiffOptions{ContextLines: 3, TabWidth: 4}
	if opts != nil {
		o.ShowLineNums = opts.ShowLineNums
		if opts.ContextLines > 0 {
			o.ContextLines = opts.ContextLines
		}
		if opts.TabWidth > 0 {
			o.TabWidth = opts.TabWidth
		}
	}

	if isBinary(old) || isBinary(newer) {
		return "Binary files differ\n"
	}

	oldLines := splitLines(string(old))
	newLines := splitLines(string(newer))

	if len(oldLines) > 10000 || len(newLines) > 10000 {
		return fmt.Sprintf("Files too large for diff (%d and %d lines)\n", len(oldLines), len(newLines))
	}

	hunks := buildHunks(dg.editScript(oldLines, newLines), o.ContextLines)
	if len(hunks) == 0 {
		return ""
	}

	var buf strings.Builder
	buf.WriteString(headerStyle.Render("--- "+oldPath) + "\n")
	buf.WriteString(headerStyle.Render("+++ "+newPath) + "\n")

	width := terminalWidth()
	for _, h := range hunks {
		buf.WriteString(formatHunk(h, o, width))
	}
	return buf.String()
}

// Stat counts the lines added and removed between old and newer.
func (dg *DiffGenerator) Stat(old, newer []byte) (added, removed int) {
	for _, l := range dg.editScript(splitLines(string(old)), splitLines(string(newer))) {
		switch l.op {
		case opAdded:
			added++
		case opRemoved:
			removed++
		}
	}
	return added, removed
}

type operation int

const (
	opUnchanged operation = iota
	opAdded
	opRemoved
)

type diffLine struct {
	oldLineNum int // 0 if added
	newLineNum int // 0 if removed
	content    string
	op         operation
}

type hunk struct {
	oldStart, oldCount int
	newStart, newCount int
	lines              []diffLine
}

var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	hunkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("22"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("52"))
	lineNumStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Faint(true)
)

// editScript computes the shortest edit script between old and newer
// ("An O(ND) Difference Algorithm and Its Variations", Myers 1986).
func (dg *DiffGenerator) editScript(old, newer []string) []diffLine {
	n, m := len(old), len(newer)
	maxD := n + m
	offset := maxD + 1

	size := 2*maxD + 3
	if cap(dg.v) < size {
		dg.v = make([]int, size)
	}
	dg.v = dg.v[:size]
	clear(dg.v)
	dg.trace = dg.trace[:0]

	v := dg.v
forward:
	for d := 0; d <= maxD; d++ {
		dg.trace = append(dg.trace, append([]int(nil), v...))

		for k := -d; k <= d; k += 2 {
			var x int
			if k == -d || (k != d && v[offset+k-1] < v[offset+k+1]) {
				x = v[offset+k+1]
			} else {
				x = v[offset+k-1] + 1
			}
			y := x - k

			for x < n && y < m && old[x] == newer[y] {
				x++
				y++
			}
			v[offset+k] = x

			if x >= n && y >= m {
				break forward
			}
		}
	}

	// Walk the trace backwards, prepending in reverse then flipping once.
	var rev []diffLine
	x, y := n, m
	for d := len(dg.trace) - 1; d >= 0; d-- {
		tv := dg.trace[d]
		k := x - y

		prevK := k - 1
		if k == -d || (k != d && tv[offset+k-1] < tv[offset+k+1]) {
			prevK = k + 1
		}
		prevX := tv[offset+prevK]
		prevY := prevX - prevK

		for x > prevX && y > prevY {
			x--
			y--
			rev = append(rev, diffLine{oldLineNum: x + 1, newLineNum: y + 1, content: old[x], op: opUnchanged})
		}

		if d == 0 {
			break
		}
		if x == prevX {
			y--
			rev = append(rev, diffLine{newLineNum: y + 1, content: newer[y], op: opAdded})
		} else {
			x--
			rev = append(rev, diffLine{oldLineNum: x + 1, content: old[x], op: opRemoved})
		}
	}

	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return rev
}

// buildHunks groups changed lines, with contextLines of surrounding context,
// into hunks. Changes closer than 2*contextLines share a hunk.
func buildHunks(lines []diffLine, contextLines int) []hunk {
	var hunks []hunk

	start, end := -1, -1
	emit := func() {
		h := hunk{lines: append([]diffLine(nil), lines[start:end]...)}
		finalizeHunk(&h)
		hunks = append(hunks, h)
	}

	for i, l := range lines {
		if l.op == opUnchanged {
			continue
		}
		lo := max(0, i-contextLines)
		hi := min(len(lines), i+contextLines+1)

		if start >= 0 && lo <= end {
			end = max(end, hi)
			continue
		}
		if start >= 0 {
			emit()
		}
		start, end = lo, hi
	}
	if start >= 0 {
		emit()
	}

	return hunks
}

func finalizeHunk(h *hunk) {
	for _, l := range h.lines {
		if l.oldLineNum > 0 && (h.oldStart == 0 || l.oldLineNum < h.oldStart) {
			h.oldStart = l.oldLineNum
		}
		if l.newLineNum > 0 && (h.newStart == 0 || l.newLineNum < h.newStart) {
			h.newStart = l.newLineNum
		}
		if l.op != opAdded {
			h.oldCount++
		}
		if l.op != opRemoved {
			h.newCount++
		}
	}
}

func formatHunk(h hunk, opts DiffOptions, termWidth int) string {
	var buf strings.Builder
	buf.WriteString(hunkStyle.Render(fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.oldStart, h.oldCount, h.newStart, h.newCount)) + "\n")

	for _, l := range h.lines {
		content := truncateLine(expandTabs(l.content, opts.TabWidth), termWidth-10)

		var formatted string
		switch l.op {
		case opAdded:
			formatted = addedStyle.Render("+" + content)
		case opRemoved:
			formatted = removedStyle.Render("-" + content)
		default:
			formatted = " " + content
		}

		if opts.ShowLineNums {
			num := "    "
			if l.oldLineNum > 0 {
				num = fmt.Sprintf("%4d", l.oldLineNum)
			}
			formatted = lineNumStyle.Render(num) + " " + formatted
		}
		buf.WriteString(formatted + "\n")
	}

	return buf.String()
}

// isBinary reports a NUL byte in the first 8 KiB
func isBinary(data []byte) bool {
	return bytes.IndexByte(data[:min(len(data), 8192)], 0) != -1
}

// splitLines splits on \n, dropping the empty element after a final newline
func splitLines(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

func expandTabs(s string, tabWidth int) string {
	var buf strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			spaces := tabWidth - (col % tabWidth)
			buf.WriteString(strings.Repeat(" ", spaces))
			col += spaces
			continue
		}
		buf.WriteRune(r)
		col++
	}
	return buf.String()
}

func truncateLine(s string, maxWidth int) string {
	if maxWidth <= 0 {
		maxWidth = 80
	}
	if utf8.RuneCountInString(s) <= maxWidth {
		return s
	}
	if maxWidth < 3 {
		return "..."[:maxWidth]
	}
	return string([]rune(s)[:maxWidth-3]) + "..."
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}
