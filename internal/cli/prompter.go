package cli

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/pelicanstate/constructhub/internal/cli/formatter"
)

// stopWord ends an intake conversation early.
const stopWord = "/done"

// Prompter collects answers and task selections for the intake command.
type Prompter interface {
	// Ask returns the answer to question. ok is false when no more answers
	// will come.
	Ask(question string) (answer string, ok bool, err error)
	// SelectTasks returns the titles to turn into work orders.
	SelectTasks(titles []string) ([]string, error)
}

// linePrompter reads one answer per line. Blank lines and "#" comments are
// skipped.
type linePrompter struct {
	scanner *bufio.Scanner
}

func newLinePrompter(r io.Reader) *linePrompter {
	return &linePrompter{scanner: bufio.NewScanner(r)}
}

func (p *linePrompter) Ask(string) (string, bool, error) {
	for p.scanner.Scan() {
		line := strings.TrimSpace(p.scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if line == stopWord {
			return "", false, nil
		}
		return line, true, nil
	}
	return "", false, p.scanner.Err()
}

func (p *linePrompter) SelectTasks(titles []string) ([]string, error) {
	return titles, nil
}

// huhPrompter asks on the terminal.
type huhPrompter struct{}

func (huhPrompter) Ask(question string) (string, bool, error) {
	var answer string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title(question).
				Description("Type " + stopWord + " to finish early").
				Value(&answer),
		),
	).WithTheme(constructhubHuhTheme()).WithShowHelp(false)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", false, nil
		}
		return "", false, err
	}
	answer = strings.TrimSpace(answer)
	if answer == stopWord {
		return "", false, nil
	}
	return answer, true, nil
}

func (huhPrompter) SelectTasks(titles []string) ([]string, error) {
	selected := append([]string(nil), titles...)
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Tasks to create").
				Options(huh.NewOptions(titles...)...).
				Value(&selected),
		),
	).WithTheme(constructhubHuhTheme()).WithShowHelp(false)

	if err := form.Run(); err != nil {
		return nil, err
	}
	return selected, nil
}

func constructhubHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}
