package session

import (
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"motor-control-panel/devices"
	"motor-control-panel/logging"
)

// fakeTransport is an in-memory serial link. Inbound bytes are fed through
// feed; everything written is kept in order.
type fakeTransport struct {
	mu      sync.Mutex
	written []string

	writeDelay time.Duration
	writeErr   error
	closeErr   error
	// writeStarted, when set, receives each line as its write begins.
	writeStarted chan string

	inbound chan []byte
	readErr chan error
	closed  chan struct{}
	once    sync.Once
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		inbound: make(chan []byte, 16),
		readErr: make(chan error, 1),
		closed:  make(chan struct{}),
	}
}

func (f *fakeTransport) Read(b []byte) (int, error) {
	select {
	case data := <-f.inbound:
		return copy(b, data), nil
	case err := <-f.readErr:
		return 0, err
	case <-f.closed:
		return 0, io.ErrClosedPipe
	}
}

func (f *fakeTransport) Write(b []byte) (int, error) {
	if f.writeStarted != nil {
		f.writeStarted <- strings.TrimSuffix(string(b), "\n")
	}
	if f.writeDelay > 0 {
		time.Sleep(f.writeDelay)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return 0, f.writeErr
	}
	f.written = append(f.written, string(b))
	return len(b), nil
}

func (f *fakeTransport) Close() error {
	f.once.Do(func() { close(f.closed) })
	return f.closeErr
}

func (f *fakeTransport) feed(s string) { f.inbound <- []byte(s) }

func (f *fakeTransport) setWriteErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writeErr = err
}

func (f *fakeTransport) writes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.written...)
}

type fakeDriver struct {
	mu        sync.Mutex
	transport *fakeTransport
	openErr   error
	opened    []string
}

func (d *fakeDriver) Name() string { return "fake" }

func (d *fakeDriver) Open(port string, link devices.LinkConfig) (devices.Transport, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.opened = append(d.opened, port)
	if d.openErr != nil {
		return nil, d.openErr
	}
	return d.transport, nil
}

func (d *fakeDriver) openCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.opened)
}

var errFakeIO = errors.New("fake i/o failure")

func newTestSession(t *testing.T) (*Session, *fakeTransport, *fakeDriver) {
	t.Helper()
	ft := newFakeTransport()
	drv := &fakeDriver{transport: ft}
	return New(drv, logging.NewSink(201)), ft, drv
}

// messages returns the log oldest first.
func messages(s *Session) []string {
	snap := s.LogSnapshot()
	out := make([]string, len(snap))
	for i, e := range snap {
		out[len(snap)-1-i] = e.Message
	}
	return out
}

func outbound(s *Session) []string {
	var out []string
	for _, m := range messages(s) {
		if strings.HasPrefix(m, "TX: ") {
			out = append(out, m)
		}
	}
	return out
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func hasMessage(s *Session, msg string) bool {
	for _, m := range messages(s) {
		if m == msg {
			return true
		}
	}
	return false
}

func indexOf(list []string, msg string) int {
	for i, m := range list {
		if m == msg {
			return i
		}
	}
	return -1
}
