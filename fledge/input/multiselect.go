package input

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrAborted is returned when the user quits a selection with ctrl+c, q or esc.
var ErrAborted = errors.New("selection aborted")

// Option is one row of a MultiSelect list.
type Option struct {
	Value string
	Hint  string
}

var (
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	checkedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("green"))
)

// MultiSelect shows a checkbox list and returns the checked values in
// option order. Values in preselected start checked.
func MultiSelect(message string, options []Option, preselected []string) ([]string, error) {
	final, err := tea.NewProgram(newMultiSelectModel(message, options, preselected)).Run()
	if err != nil {
		return nil, fmt.Errorf("failed to show selection: %w", err)
	}

	m := final.(multiSelectModel)
	if m.aborted {
		return nil, ErrAborted
	}
	return m.values(), nil
}

type multiSelectModel struct {
	message string
	options []Option
	checked []bool
	cursor  int
	done    bool
	aborted bool
}

func newMultiSelectModel(message string, options []Option, preselected []string) multiSelectModel {
	on := make(map[string]bool, len(preselected))
	for _, v := range preselected {
		on[v] = true
	}

	checked := make([]bool, len(options))
	for i, o := range options {
		checked[i] = on[o.Value]
	}

	return multiSelectModel{message: message, options: options, checked: checked}
}

func (m multiSelectModel) Init() tea.Cmd {
	return nil
}

func (m multiSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "q", "esc":
		m.aborted = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case " ", "x":
		if len(m.checked) > 0 {
			m.checked = append([]bool(nil), m.checked...)
			m.checked[m.cursor] = !m.checked[m.cursor]
		}
	case "a":
		all := !m.allChecked()
		m.checked = make([]bool, len(m.options))
		for i := range m.checked {
			m.checked[i] = all
		}
	case "enter":
		m.done = true
		return m, tea.Quit
	}

	return m, nil
}

func (m multiSelectModel) allChecked() bool {
	for _, c := range m.checked {
		if !c {
			return false
		}
	}
	return true
}

func (m multiSelectModel) values() []string {
	var out []string
	for i, o := range m.options {
		if m.checked[i] {
			out = append(out, o.Value)
		}
	}
	return out
}

func (m multiSelectModel) View() string {
	if m.done || m.aborted {
		return ""
	}

	var b strings.Builder
	b.WriteString(promptStyle.Render(m.message) + "\n")
	b.WriteString(hintStyle.Render("  [↑/↓] Navigate    [Space] Toggle    [a] All    [Enter] Confirm") + "\n\n")

	for i, o := range m.options {
		box := "[ ]"
		if m.checked[i] {
			box = checkedStyle.Render("[x]")
		}

		line := box + " " + o.Value
		if o.Hint != "" {
			line += hintStyle.Render("  " + o.Hint)
		}

		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> ") + line + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}

	return b.String()
}
