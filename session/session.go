// Package session owns the link to the motor controller: it opens and
// closes the transport, serializes outbound commands, runs the inbound read
// loop and records everything in the activity log.
//
// State machine:
//
//	Disconnected --Connect--> Connecting --open ok--> Connected
//	Connecting --failure--> Disconnected
//	Connected --Disconnect--> Disconnecting --cleanup--> Disconnected
//
// Sends are accepted only in Connected.
package session

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"motor-control-panel/config"
	"motor-control-panel/devices"
	"motor-control-panel/logging"
	"motor-control-panel/protocol"
	"motor-control-panel/types"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Session is one operator's controller. The zero value is not usable; use New.
type Session struct {
	// lifeMu serializes Connect and Disconnect.
	lifeMu sync.Mutex

	// writeSlot holds one token while a line is being written. Waiting
	// writers are served in arrival order.
	writeSlot chan struct{}

	mu         sync.RWMutex
	state      types.ConnState
	transport  devices.Transport
	port       string
	id         string
	cancelRead context.CancelFunc
	readDone   chan struct{}

	driver devices.Driver
	link   devices.LinkConfig
	sink   *logging.Sink
	level  atomic.Int32
}

func New(driver devices.Driver, sink *logging.Sink) *Session {
	s := &Session{
		writeSlot: make(chan struct{}, 1),
		driver:    driver,
		link:      devices.DefaultLink(),
		sink:      sink,
	}
	s.level.Store(config.DEFAULT_DRIVE_LEVEL)
	return s
}

// Connect asks sel for a port, opens it and starts the read loop. Any
// failure leaves the session Disconnected, logs one "Connection error"
// entry and returns a *ConnectionError. There is no retry.
func (s *Session) Connect(ctx context.Context, sel devices.Selector) error {
	s.lifeMu.Lock()
	defer s.lifeMu.Unlock()

	s.mu.Lock()
	if s.state != types.Disconnected {
		s.mu.Unlock()
		return ErrAlreadyConnected
	}
	s.state = types.Connecting
	s.mu.Unlock()

	port, err := sel.SelectPort(ctx)
	if err != nil {
		return s.failConnect("select port", "", err)
	}

	t, err := s.driver.Open(port, s.link)
	if err != nil {
		return s.failConnect("open", port, err)
	}

	id := uuid.NewString()
	readCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	s.mu.Lock()
	s.state = types.Connected
	s.transport = t
	s.port = port
	s.id = id
	s.cancelRead = cancel
	s.readDone = done
	s.mu.Unlock()

	s.sink.Event(fmt.Sprintf("Connected to %s.", port))
	log.Info().Str("session", id).Str("port", port).Str("driver", s.driver.Name()).
		Int("baud", s.link.BaudRate).Msg("connected")

	go s.readLoop(readCtx, t, done)
	return nil
}

func (s *Session) failConnect(op, port string, cause error) error {
	s.mu.Lock()
	s.state = types.Disconnected
	s.mu.Unlock()

	err := &ConnectionError{Op: op, Port: port, Cause: cause}
	s.sink.Event("Connection error: " + err.Error())
	log.Warn().Err(cause).Str("op", op).Str("port", port).Msg("connect failed")
	return err
}

// Disconnect tries to stop every actuator, then tears the link down. Each
// step runs even if an earlier one failed, and the session always ends
// Disconnected. An in-flight send is allowed to finish first.
//
// OFF ALL is attempted on every call, including when nothing was ever
// connected; that attempt is then logged as a write failure.
func (s *Session) Disconnect() {
	s.lifeMu.Lock()
	defer s.lifeMu.Unlock()

	s.lockWrite()

	s.mu.Lock()
	t := s.transport
	id := s.id
	cancel := s.cancelRead
	done := s.readDone
	if s.state == types.Connected {
		s.state = types.Disconnecting
	}
	s.mu.Unlock()

	stopAll, _ := protocol.Encode(protocol.StopAll())
	if t != nil {
		// Failure is already logged by writeLine.
		_ = s.writeLine(t, stopAll)
	} else {
		s.sink.Event(fmt.Sprintf("Write error: %s: %v", stopAll, ErrNotConnected))
	}

	if cancel != nil {
		cancel()
	}

	if t != nil {
		if err := t.Close(); err != nil {
			s.sink.Event(fmt.Sprintf("Close error: %v", err))
			log.Warn().Err(err).Str("session", id).Msg("close transport")
		}
	}

	if done != nil {
		<-done
	}

	s.mu.Lock()
	s.state = types.Disconnected
	s.transport = nil
	s.port = ""
	s.id = ""
	s.cancelRead = nil
	s.readDone = nil
	s.mu.Unlock()

	s.unlockWrite()

	s.sink.Event("Disconnected.")
	log.Info().Str("session", id).Msg("disconnected")
}

func (s *Session) State() types.ConnState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Session) IsConnected() bool {
	return s.State() == types.Connected
}

// Port returns the open device name, or "" when not connected.
func (s *Session) Port() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.port
}

func (s *Session) ID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.id
}

func (s *Session) DriveLevel() int {
	return int(s.level.Load())
}

// SetDriveLevel changes the level used by Press. It sends nothing.
func (s *Session) SetDriveLevel(level int) error {
	if err := protocol.ValidateLevel(level); err != nil {
		return err
	}
	s.level.Store(int32(level))
	return nil
}

func (s *Session) Status() types.Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return types.Status{
		State:      s.state.String(),
		Connected:  s.state == types.Connected,
		Port:       s.port,
		SessionID:  s.id,
		DriveLevel: int(s.level.Load()),
	}
}

func (s *Session) LogSnapshot() []types.LogEntry {
	return s.sink.Snapshot()
}

func (s *Session) Log() *logging.Sink {
	return s.sink
}
