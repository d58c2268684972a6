// Package tui is a full-screen front end for the interactive session. It
// feeds each typed line to the same command shell the plain terminal uses.
package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/mood2movie/internal/cli"
)

// Shell is the command interpreter behind the screen.
type Shell interface {
	Execute(ctx context.Context, line string) error
	Report(err error)
	PromptLabel() string
}

// maxScrollback bounds the number of output lines kept in memory.
const maxScrollback = 500

// commandDoneMsg carries the result of one executed command line.
type commandDoneMsg struct {
	err    error
	output string
}

// Model holds the TUI state.
type Model struct {
	ctx     context.Context
	shell   Shell
	output  *Output
	keymap  KeyMap
	input   textinput.Model
	spinner spinner.Model
	lines   []string
	history []string
	histPos int
	width   int
	height  int
	busy    bool
	quit    bool
}

// New creates a model driving shell. Whatever shell prints must go to output.
func New(ctx context.Context, shell Shell, output *Output) Model {
	input := textinput.New()
	input.Placeholder = "type 'start' to begin, 'help' for commands"
	input.Focus()
	input.CharLimit = 256

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(cli.PrimaryColor)

	m := Model{
		ctx:     ctx,
		shell:   shell,
		output:  output,
		keymap:  DefaultKeyMap(),
		input:   input,
		spinner: spin,
		width:   80,
		height:  24,
	}
	m.input.Prompt = cli.FormatPrompt(shell.PromptLabel())
	return m
}

// Init starts the cursor blinking.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-lipgloss.Width(m.input.Prompt)-2, 10)
		return m, nil

	case commandDoneMsg:
		m.busy = false
		m.appendOutput(msg.output)
		m.input.Prompt = cli.FormatPrompt(m.shell.PromptLabel())
		if errors.Is(msg.err, cli.ErrQuit) {
			m.quit = true
			return m, tea.Quit
		}
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keymap.Quit):
			m.quit = true
			return m, tea.Quit
		case m.busy:
			// Input is locked while a command runs.
			return m, nil
		case key.Matches(msg, m.keymap.Submit):
			return m.submit()
		case key.Matches(msg, m.keymap.HistoryPrev):
			m.recall(-1)
			return m, nil
		case key.Matches(msg, m.keymap.HistoryNext):
			m.recall(1)
			return m, nil
		case key.Matches(msg, m.keymap.ClearScreen):
			m.lines = nil
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())
	m.input.Reset()
	if line == "" {
		return m, nil
	}

	m.history = append(m.history, line)
	m.histPos = len(m.history)
	m.appendOutput(m.input.Prompt + line)
	m.busy = true

	return m, tea.Batch(m.spinner.Tick, m.execute(line))
}

// execute runs line off the UI goroutine. Only one command runs at a time, so
// the shared output buffer is drained by whoever finished last.
func (m Model) execute(line string) tea.Cmd {
	shell, output, ctx := m.shell, m.output, m.ctx
	return func() tea.Msg {
		err := shell.Execute(ctx, line)
		if err != nil && !errors.Is(err, cli.ErrQuit) {
			shell.Report(err)
		}
		return commandDoneMsg{err: err, output: output.Drain()}
	}
}

func (m *Model) recall(delta int) {
	if len(m.history) == 0 {
		return
	}
	m.histPos = min(max(m.histPos+delta, 0), len(m.history))
	if m.histPos == len(m.history) {
		m.input.SetValue("")
		return
	}
	m.input.SetValue(m.history[m.histPos])
	m.input.CursorEnd()
}

func (m *Model) appendOutput(text string) {
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return
	}
	m.lines = append(m.lines, strings.Split(text, "\n")...)
	if over := len(m.lines) - maxScrollback; over > 0 {
		m.lines = m.lines[over:]
	}
}

// View renders the scrollback, the input line, and a key hint footer.
func (m Model) View() string {
	if m.quit {
		return ""
	}

	header := cli.FormatTitle("mood2movie")
	footer := cli.SubtleStyle.Render(m.helpLine())

	input := m.input.View()
	if m.busy {
		input = m.spinner.View() + " " + cli.SubtleStyle.Render("working...")
	}

	// Header, input and footer each take their own rows.
	room := max(m.height-lipgloss.Height(header)-3, 1)
	visible := m.lines
	if len(visible) > room {
		visible = visible[len(visible)-room:]
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		strings.Join(visible, "\n"),
		input,
		footer,
	)
}

func (m Model) helpLine() string {
	parts := make([]string, 0, 4)
	for _, b := range m.keymap.ShortHelp() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}
