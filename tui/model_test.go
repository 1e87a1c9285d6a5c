package tui

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"motor-control-panel/devices"
	"motor-control-panel/logging"
	"motor-control-panel/session"

	tea "github.com/charmbracelet/bubbletea"
)

type stubPort struct {
	mu       sync.Mutex
	written  strings.Builder
	writeErr error
	closed  chan struct{}
	once    sync.Once
}

func (p *stubPort) Read(b []byte) (int, error) {
	<-p.closed
	return 0, io.ErrClosedPipe
}

func (p *stubPort) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.writeErr != nil {
		return 0, p.writeErr
	}
	return p.written.Write(b)
}

func (p *stubPort) Close() error {
	p.once.Do(func() { close(p.closed) })
	return nil
}

func (p *stubPort) wire() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.written.String()
}

type stubDriver struct{ port *stubPort }

func (d stubDriver) Name() string { return "stub" }
func (d stubDriver) Open(string, devices.LinkConfig) (devices.Transport, error) {
	return d.port, nil
}

type stubDesktop struct{ copied string }

func (d *stubDesktop) Copy(text string) error { d.copied = text; return nil }
func (d *stubDesktop) Type(string) error      { return errors.New("unsupported") }

func newModel(t *testing.T) (Model, *session.Session, *stubPort, *stubDesktop) {
	t.Helper()
	port := &stubPort{closed: make(chan struct{})}
	sess := session.New(stubDriver{port}, logging.NewSink(201))
	desk := &stubDesktop{}
	m := New(sess, devices.FixedPort("/dev/ttyACM0"), desk)
	t.Cleanup(func() {
		m.Close()
		sess.Disconnect()
	})
	return m, sess, port, desk
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestLevelKeys(t *testing.T) {
	m, sess, _, _ := newModel(t)

	m = press(t, m, runes("+"))
	if sess.DriveLevel() != 133 {
		t.Errorf("after + level = %d", sess.DriveLevel())
	}
	m = press(t, m, runes("["))
	m = press(t, m, runes("-"))
	if sess.DriveLevel() != 127 {
		t.Errorf("after [ - level = %d", sess.DriveLevel())
	}

	for i := 0; i < 60; i++ {
		m = press(t, m, runes("+"))
	}
	if sess.DriveLevel() != 255 {
		t.Errorf("level not clamped: %d", sess.DriveLevel())
	}
	for i := 0; i < 60; i++ {
		m = press(t, m, runes("-"))
	}
	if sess.DriveLevel() != 0 {
		t.Errorf("level not clamped: %d", sess.DriveLevel())
	}
}

func TestToggleSendsRunThenStop(t *testing.T) {
	m, sess, port, _ := newModel(t)

	m = press(t, m, runes("3"))
	if port.wire() != "" || !strings.Contains(m.View(), "not connected") {
		t.Fatal("toggle while disconnected should only show a notice")
	}

	if err := sess.Connect(context.Background(), devices.FixedPort("/dev/ttyACM0")); err != nil {
		t.Fatal(err)
	}
	_ = sess.SetDriveLevel(180)

	m = press(t, m, runes("3"))
	if !m.running[3] {
		t.Error("actuator 3 not marked running")
	}
	m = press(t, m, runes("3"))
	if m.running[3] {
		t.Error("actuator 3 still marked running")
	}
	if got := port.wire(); got != "ON 3 180\nOFF 3\n" {
		t.Errorf("wire = %q", got)
	}

	m = press(t, m, runes("5"))
	m = press(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	if len(m.running) != 0 {
		t.Error("stop all left actuators marked running")
	}
	if !strings.HasSuffix(port.wire(), "ON 5 180\nOFF ALL\n") {
		t.Errorf("wire = %q", port.wire())
	}
}

func TestToggleIgnoresFailedWrites(t *testing.T) {
	m, sess, port, _ := newModel(t)
	if err := sess.Connect(context.Background(), devices.FixedPort("/dev/ttyACM0")); err != nil {
		t.Fatal(err)
	}

	port.mu.Lock()
	port.writeErr = errors.New("device unplugged")
	port.mu.Unlock()

	m = press(t, m, runes("4"))
	if m.running[4] {
		t.Error("actuator 4 marked running although ON was not written")
	}
	if !strings.Contains(m.View(), "device unplugged") {
		t.Error("write failure not shown")
	}

	port.mu.Lock()
	port.writeErr = nil
	port.mu.Unlock()

	m = press(t, m, runes("4"))
	if !m.running[4] {
		t.Fatal("actuator 4 not running after a good write")
	}

	port.mu.Lock()
	port.writeErr = errors.New("device unplugged")
	port.mu.Unlock()

	m = press(t, m, runes("4"))
	if !m.running[4] {
		t.Error("actuator 4 cleared although OFF was not written")
	}
}

func TestConnectCommand(t *testing.T) {
	m, sess, _, _ := newModel(t)

	next, cmd := m.Update(runes("c"))
	if cmd == nil {
		t.Fatal("no connect command")
	}
	msg := cmd()
	res, ok := msg.(connectResultMsg)
	if !ok || res.err != nil {
		t.Fatalf("msg = %#v", msg)
	}
	m = press(t, next.(Model), res)
	if !sess.IsConnected() {
		t.Error("session not connected")
	}

	_, cmd = m.Update(runes("d"))
	if _, ok := cmd().(disconnectedMsg); !ok {
		t.Error("disconnect command returned wrong message")
	}
	if sess.IsConnected() {
		t.Error("still connected")
	}
}

func TestCopyLog(t *testing.T) {
	m, sess, _, desk := newModel(t)
	sess.Log().Event("hello there")

	m = press(t, m, runes("y"))
	if !strings.Contains(desk.copied, "hello there") {
		t.Errorf("copied %q", desk.copied)
	}
	if !strings.Contains(m.View(), "log copied") {
		t.Error("no copy notice")
	}
}

func TestLogEntryRefreshesView(t *testing.T) {
	m, sess, _, _ := newModel(t)
	m = press(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	e := sess.Log().Append("lifecycle", "Connected to /dev/ttyACM9.")
	next, cmd := m.Update(logEntryMsg(e))
	if cmd == nil {
		t.Error("entry handling did not re-arm the subscription")
	}
	if !strings.Contains(next.(Model).View(), "Connected to /dev/ttyACM9.") {
		t.Error("log view not refreshed")
	}
}
