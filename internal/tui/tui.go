// Package tui shows live search progress using bubbletea.
package tui

import (
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/FraserHum/dota-chop-shop-sub001/internal/worker"
)

// TUI renders a worker's message stream until the final message arrives.
type TUI struct {
	messages <-chan worker.Message
	title    string
	onCancel func()
	output   io.Writer
	input    io.Reader
}

// Option configures the TUI.
type Option func(*TUI)

// New creates a TUI reading from a worker channel.
func New(messages <-chan worker.Message, opts ...Option) *TUI {
	t := &TUI{
		messages: messages,
		title:    "chopshop",
		output:   os.Stderr,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// WithTitle sets the header line.
func WithTitle(title string) Option {
	return func(t *TUI) {
		t.title = title
	}
}

// WithOnCancel sets the callback invoked when the user presses 'q' or ctrl+c.
func WithOnCancel(fn func()) Option {
	return func(t *TUI) {
		t.onCancel = fn
	}
}

// WithIO overrides the terminal streams.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(t *TUI) {
		t.input = in
		t.output = out
	}
}

// Run blocks until the stream ends or the user cancels. It returns the
// final worker message, or nil when none arrived.
func (t *TUI) Run() (*worker.Message, error) {
	m := newModel(t.messages, t.title, t.onCancel)

	opts := []tea.ProgramOption{tea.WithOutput(t.output)}
	if t.input != nil {
		opts = append(opts, tea.WithInput(t.input))
	}
	final, err := tea.NewProgram(m, opts...).Run()
	if err != nil {
		return nil, err
	}
	return final.(model).final, nil
}
