package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/FraserHum/dota-chop-shop-sub001/internal/progression"
	"github.com/FraserHum/dota-chop-shop-sub001/internal/worker"
)

// historySize is how many finished progress lines stay on screen.
const historySize = 6

var styles = struct {
	Title   lipgloss.Style
	Phase   lipgloss.Style
	Stats   lipgloss.Style
	History lipgloss.Style
	Footer  lipgloss.Style
	Error   lipgloss.Style
}{
	Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
	Phase:   lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
	Stats:   lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
	History: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	Footer:  lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
}

type model struct {
	messages <-chan worker.Message
	onCancel func()
	title    string
	spinner  spinner.Model

	current  *progression.Progress
	history  []string
	final    *worker.Message
	canceled bool
	width    int
}

// messageMsg wraps a worker message for the bubbletea message system.
type messageMsg worker.Message

type channelClosedMsg struct{}

func newModel(messages <-chan worker.Message, title string, onCancel func()) model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return model{
		messages: messages,
		onCancel: onCancel,
		title:    title,
		spinner:  sp,
	}
}

func waitForMessage(ch <-chan worker.Message) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return channelClosedMsg{}
		}
		return messageMsg(msg)
	}
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tea.Batch(waitForMessage(m.messages), m.spinner.Tick)
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if !m.canceled && m.onCancel != nil {
				m.onCancel()
			}
			m.canceled = true
			// keep reading so the worker's final message is still collected
			return m, nil
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case messageMsg:
		wm := worker.Message(msg)
		if wm.Final() {
			m.final = &wm
			return m, tea.Quit
		}
		m.observe(*wm.Progress)
		return m, waitForMessage(m.messages)

	case channelClosedMsg:
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// observe moves the previous snapshot into history whenever the phase,
// checkpoint or sequence changes.
func (m *model) observe(p progression.Progress) {
	if prev := m.current; prev != nil &&
		(prev.Phase != p.Phase || prev.Checkpoint != p.Checkpoint || prev.Sequence != p.Sequence) {
		m.history = append(m.history, prev.Message)
		if len(m.history) > historySize {
			m.history = m.history[len(m.history)-historySize:]
		}
	}
	m.current = &p
}

// View implements tea.Model.
func (m model) View() string {
	var b strings.Builder
	b.WriteString(styles.Title.Render(m.title))
	b.WriteString("\n")

	for _, h := range m.history {
		b.WriteString(styles.History.Render("  " + h))
		b.WriteString("\n")
	}

	if m.final != nil {
		if m.final.Err != nil {
			b.WriteString(styles.Error.Render("search failed: " + m.final.Err.Error()))
		} else if r := m.final.Result; r != nil {
			b.WriteString(styles.Stats.Render(fmt.Sprintf("done: %d sequences, %d evaluated", len(r.Sequences), r.Evaluated)))
		}
		b.WriteString("\n")
		return b.String()
	}

	if p := m.current; p != nil {
		fmt.Fprintf(&b, "%s %s %s\n", m.spinner.View(), styles.Phase.Render(p.Phase.String()), p.Message)
		b.WriteString(styles.Stats.Render(fmt.Sprintf("  %d evaluated, %d valid, %s",
			p.Evaluated, p.Valid, p.Elapsed.Round(100*time.Millisecond))))
		b.WriteString("\n")
	} else {
		fmt.Fprintf(&b, "%s starting\n", m.spinner.View())
	}

	footer := "q: cancel"
	if m.canceled {
		footer = "canceling..."
	}
	b.WriteString(styles.Footer.Render(footer))
	b.WriteString("\n")
	return b.String()
}
