package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"bea-chatbot/internal/domain"
	"bea-chatbot/internal/widget"
)

// Conversation is the part of widget.Controller the terminal chat drives.
type Conversation interface {
	Submit(text string) (*widget.Exchange, error)
	ToggleVisibility() bool
	Snapshot() widget.Snapshot
}

// Message types for the TUI
type (
	// snapshotMsg carries a controller state change.
	snapshotMsg widget.Snapshot
	// closedMsg is sent once the controller stops publishing.
	closedMsg struct{}
)

const (
	defaultWidth  = 80
	defaultHeight = 24
)

// Model is the Bubble Tea model of the chat popup.
type Model struct {
	conv    Conversation
	updates <-chan widget.Snapshot

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	snap     widget.Snapshot
	spinning bool
	notice   string

	width  int
	height int
}

// NewModel creates the chat model. updates is a subscription on the same
// conversation, typically from widget.Controller.Subscribe.
func NewModel(conv Conversation, updates <-chan widget.Snapshot) Model {
	in := textinput.New()
	in.Placeholder = "Écrivez votre question..."
	in.CharLimit = domain.MaxTextLength
	in.Prompt = "› "
	in.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	m := Model{
		conv:     conv,
		updates:  updates,
		viewport: viewport.New(defaultWidth-4, defaultHeight-7),
		input:    in,
		spinner:  s,
		snap:     conv.Snapshot(),
	}
	m.resize(defaultWidth, defaultHeight)
	return m
}

// Init starts listening for controller updates.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForSnapshot())
}

// waitForSnapshot blocks on the subscription for the next state change.
func (m Model) waitForSnapshot() tea.Cmd {
	ch := m.updates
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return closedMsg{}
		}
		return snapshotMsg(snap)
	}
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "ctrl+t":
			m.conv.ToggleVisibility()
			m.snap = m.conv.Snapshot()
			m.notice = ""
			m.refresh()
			return m, nil

		case "enter":
			if !m.snap.Visible {
				return m, nil
			}
			return m.submit()

		case "up", "down", "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

		if m.snap.Visible {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil

	case snapshotMsg:
		m.snap = widget.Snapshot(msg)
		m.refresh()
		cmds = append(cmds, m.waitForSnapshot(), m.startSpinner())

	case closedMsg:
		return m, tea.Quit

	case spinner.TickMsg:
		// Stop ticking once the answer is in.
		if !m.snap.Busy {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refresh()
		cmds = append(cmds, cmd)

	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	_, err := m.conv.Submit(m.input.Value())
	switch {
	case errors.Is(err, widget.ErrEmptyInput):
		return m, nil
	case errors.Is(err, widget.ErrBusy):
		m.notice = "Une réponse est en cours, patientez..."
		return m, nil
	case err != nil:
		m.notice = err.Error()
		return m, nil
	}

	m.input.Reset()
	m.notice = ""
	m.snap = m.conv.Snapshot()
	m.refresh()
	cmd := m.startSpinner()
	return m, cmd
}

// startSpinner begins ticking when the placeholder is showing and nothing ticks yet.
func (m *Model) startSpinner() tea.Cmd {
	if !m.snap.Busy || m.spinning {
		return nil
	}
	m.spinning = true
	return m.spinner.Tick
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	// Header, input line, hints and border.
	vpHeight := height - 7
	if vpHeight < 3 {
		vpHeight = 3
	}
	contentWidth := width - 4
	if contentWidth < 20 {
		contentWidth = 20
	}

	m.viewport.Width = contentWidth
	m.viewport.Height = vpHeight
	m.input.Width = contentWidth - 4
}

// refresh re-renders the transcript into the viewport.
func (m *Model) refresh() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func (m Model) renderTranscript() string {
	width := m.viewport.Width - 2

	var b strings.Builder
	b.WriteString(greetingStyle.Width(width).Render(widget.Greeting))
	b.WriteString("\n")

	for _, msg := range m.snap.Messages {
		b.WriteString("\n")
		switch {
		case msg.Role == widget.RoleUser:
			b.WriteString(userLabelStyle.Render("Vous") + "\n")
			b.WriteString(userBubbleStyle.Width(width).Render(msg.Text))
		case msg.Pending:
			b.WriteString(assistantLabelStyle.Render("BEA") + "\n")
			b.WriteString(pendingStyle.Render(m.spinner.View() + " " + msg.Text))
		default:
			b.WriteString(assistantLabelStyle.Render("BEA") + "\n")
			b.WriteString(assistantBubbleStyle.Width(width).Render(msg.Text))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// View renders the TUI
func (m Model) View() string {
	if !m.snap.Visible {
		launcher := launcherStyle.Render("💬 Assistant BEA")
		return lipgloss.JoinVertical(lipgloss.Left,
			launcher,
			hintStyle.Render("ctrl+t ouvrir • esc quitter"),
		)
	}

	header := headerStyle.Width(m.viewport.Width).Render("Assistant virtuel BEA")

	sections := []string{header, m.viewport.View(), m.input.View()}
	if m.notice != "" {
		sections = append(sections, noticeStyle.Render(m.notice))
	}
	sections = append(sections, hintStyle.Render("entrée envoyer • ctrl+t fermer • esc quitter"))

	return popupStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// Run starts the chat TUI on a controller and blocks until the user quits.
func Run(c *widget.Controller) error {
	updates, stop := c.Subscribe()
	defer stop()

	p := tea.NewProgram(
		NewModel(c, updates),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
