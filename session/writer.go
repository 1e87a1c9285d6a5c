package session

import (
	"fmt"

	"motor-control-panel/devices"
	"motor-control-panel/protocol"
	"motor-control-panel/types"

	"github.com/rs/zerolog/log"
)

func (s *Session) lockWrite()   { s.writeSlot <- struct{}{} }
func (s *Session) unlockWrite() { <-s.writeSlot }

// Send encodes cmd and writes it. Invalid commands fail before any I/O.
// Concurrent sends never interleave and complete in the order they queued.
func (s *Session) Send(cmd protocol.Command) error {
	line, err := protocol.Encode(cmd)
	if err != nil {
		return err
	}

	s.lockWrite()
	defer s.unlockWrite()

	s.mu.RLock()
	t := s.transport
	connected := s.state == types.Connected
	s.mu.RUnlock()

	if !connected || t == nil {
		return ErrNotConnected
	}
	return s.writeLine(t, line)
}

func (s *Session) SendRun(id, level int) error { return s.Send(protocol.Run(id, level)) }

func (s *Session) SendStop(id int) error { return s.Send(protocol.Stop(id)) }

func (s *Session) SendStopAll() error { return s.Send(protocol.StopAll()) }

// Press runs actuator id at the current drive level. Errors are logged and
// swallowed so a control surface can fire it from an event handler.
func (s *Session) Press(id int) {
	level := s.DriveLevel()
	if err := s.SendRun(id, level); err != nil {
		log.Warn().Err(err).Int("actuator", id).Int("level", level).Msg("press not sent")
	}
}

// Release stops actuator id. Errors are logged and swallowed.
func (s *Session) Release(id int) {
	if err := s.SendStop(id); err != nil {
		log.Warn().Err(err).Int("actuator", id).Msg("release not sent")
	}
}

// writeLine must be called with the write slot held.
func (s *Session) writeLine(t devices.Transport, line string) error {
	if _, err := t.Write([]byte(line + protocol.LineTerminator)); err != nil {
		werr := &TransportWriteError{Line: line, Cause: err}
		s.sink.Event(fmt.Sprintf("Write error: %v", werr))
		log.Warn().Err(err).Str("line", line).Msg("write failed")
		return werr
	}
	s.sink.Outbound(line)
	log.Debug().Str("line", line).Msg("tx")
	return nil
}
