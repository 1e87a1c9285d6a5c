// Package tui is a terminal control panel for a session. Terminals report
// key presses but not releases, so each actuator key toggles run/stop.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"motor-control-panel/config"
	"motor-control-panel/devices"
	"motor-control-panel/logging"
	"motor-control-panel/session"
	"motor-control-panel/types"
	"motor-control-panel/utils"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	connectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	offlineStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	runningStyle   = lipgloss.NewStyle().Bold(true).Background(lipgloss.Color("208")).Foreground(lipgloss.Color("0")).Padding(0, 1)
	idleStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Padding(0, 1)
	outboundStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("45"))
	inboundStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	eventStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	logBoxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238"))
)

type logEntryMsg types.LogEntry

type connectResultMsg struct{ err error }

type disconnectedMsg struct{}

// Model is the Bubble Tea model driving one session.
type Model struct {
	session  *session.Session
	selector devices.Selector
	desktop  utils.Desktop
	entries  chan types.LogEntry

	running map[int]bool
	keys    keyMap
	log     viewport.Model
	notice  string
	width   int
}

func New(s *session.Session, sel devices.Selector, desktop utils.Desktop) Model {
	m := Model{
		session:  s,
		selector: sel,
		desktop:  desktop,
		entries:  s.Log().Subscribe(64),
		running:  make(map[int]bool),
		keys:     defaultKeys(),
		log:      viewport.New(80, 15),
		width:    80,
	}
	m.log.SetContent(m.renderLog())
	return m
}

// Close drops the model's log subscription.
func (m Model) Close() {
	m.session.Log().Unsubscribe(m.entries)
}

func (m Model) Init() tea.Cmd {
	return waitForEntry(m.entries)
}

func waitForEntry(ch chan types.LogEntry) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-ch
		if !ok {
			return nil
		}
		return logEntryMsg(e)
	}
}

func (m Model) connect() tea.Cmd {
	return func() tea.Msg {
		return connectResultMsg{err: m.session.Connect(context.Background(), m.selector)}
	}
}

func (m Model) disconnect() tea.Cmd {
	return func() tea.Msg {
		m.session.Disconnect()
		return disconnectedMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.log.Width = msg.Width - 2
		if h := msg.Height - 8; h > 3 {
			m.log.Height = h
		}
		m.log.SetContent(m.renderLog())
		return m, nil

	case logEntryMsg:
		m.log.SetContent(m.renderLog())
		m.log.GotoTop()
		return m, waitForEntry(m.entries)

	case connectResultMsg:
		if msg.err != nil {
			m.notice = msg.err.Error()
		} else {
			m.notice = ""
		}
		return m, nil

	case disconnectedMsg:
		clear(m.running)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.log, cmd = m.log.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, func() tea.Msg {
			if m.session.State() != types.Disconnected {
				m.session.Disconnect()
			}
			return tea.Quit()
		}

	case key.Matches(msg, m.keys.Toggle):
		id, _ := strconv.Atoi(msg.String())
		// Sent from Update, not a Cmd: Cmds run concurrently and could
		// reorder a run and the stop that follows it.
		if !m.session.IsConnected() {
			m.notice = "not connected"
			return m, nil
		}
		// running only changes when the line reached the controller.
		if m.running[id] {
			if err := m.session.SendStop(id); err != nil {
				m.notice = err.Error()
				return m, nil
			}
			delete(m.running, id)
		} else {
			if err := m.session.SendRun(id, m.session.DriveLevel()); err != nil {
				m.notice = err.Error()
				return m, nil
			}
			m.running[id] = true
		}
		m.notice = ""
		return m, nil

	case key.Matches(msg, m.keys.StopAll):
		if err := m.session.SendStopAll(); err != nil {
			m.notice = err.Error()
		}
		clear(m.running)
		return m, nil

	case key.Matches(msg, m.keys.LevelUp):
		m.adjustLevel(5)
		return m, nil
	case key.Matches(msg, m.keys.LevelDown):
		m.adjustLevel(-5)
		return m, nil
	case key.Matches(msg, m.keys.FineUp):
		m.adjustLevel(1)
		return m, nil
	case key.Matches(msg, m.keys.FineDown):
		m.adjustLevel(-1)
		return m, nil

	case key.Matches(msg, m.keys.Connect):
		if m.session.State() != types.Disconnected {
			return m, nil
		}
		m.notice = "connecting..."
		return m, m.connect()

	case key.Matches(msg, m.keys.Disconnect):
		clear(m.running)
		return m, m.disconnect()

	case key.Matches(msg, m.keys.Copy):
		if err := m.desktop.Copy(logging.Format(m.session.LogSnapshot())); err != nil {
			m.notice = err.Error()
		} else {
			m.notice = "log copied"
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.log, cmd = m.log.Update(msg)
	return m, cmd
}

func (m *Model) adjustLevel(delta int) {
	level := m.session.DriveLevel() + delta
	level = max(config.MIN_LEVEL, min(config.MAX_LEVEL, level))
	_ = m.session.SetDriveLevel(level)
}

func (m Model) renderLog() string {
	var b strings.Builder
	for _, e := range m.session.LogSnapshot() {
		line := e.Time.Format("15:04:05") + " " + e.Message
		switch e.Kind {
		case types.Outbound:
			line = outboundStyle.Render(line)
		case types.Inbound:
			line = inboundStyle.Render(line)
		default:
			line = eventStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

func (m Model) View() string {
	st := m.session.Status()

	label := utils.StateLabel(st.Connected)
	if st.State != types.Connected.String() && st.State != types.Disconnected.String() {
		label = st.State + "..."
	}
	state := offlineStyle.Render(label)
	if st.Connected {
		state = connectedStyle.Render(label + " " + st.Port)
	}
	header := fmt.Sprintf("%s  %s  level %d", titleStyle.Render("Motor Control Panel"), state, st.DriveLevel)

	var buttons []string
	for id := config.MIN_ACTUATOR; id <= config.MAX_ACTUATOR; id++ {
		label := strconv.Itoa(id)
		if m.running[id] {
			buttons = append(buttons, runningStyle.Render(label))
		} else {
			buttons = append(buttons, idleStyle.Render(label))
		}
	}

	var help []string
	for _, b := range m.keys.help() {
		h := b.Help()
		help = append(help, h.Key+" "+h.Desc)
	}

	parts := []string{
		header,
		lipgloss.JoinHorizontal(lipgloss.Top, buttons...),
		logBoxStyle.Render(m.log.View()),
		helpStyle.Render(strings.Join(help, " • ")),
	}
	if m.notice != "" {
		parts = append(parts, offlineStyle.Render(m.notice))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// Run starts the terminal panel and blocks until the operator quits.
func Run(s *session.Session, sel devices.Selector, desktop utils.Desktop) error {
	m := New(s, sel, desktop)
	defer m.Close()

	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
