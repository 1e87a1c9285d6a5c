package session

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConnected is returned by sends outside the Connected state. No
	// byte reaches the transport and nothing is logged.
	ErrNotConnected = errors.New("not connected")

	// ErrAlreadyConnected is returned by Connect unless the session is
	// Disconnected.
	ErrAlreadyConnected = errors.New("already connected")
)

// ConnectionError reports a failed connect: no port chosen, or the port
// could not be opened. The session is back in Disconnected.
type ConnectionError struct {
	Op    string
	Port  string
	Cause error
}

func (e *ConnectionError) Error() string {
	if e.Port != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Port, e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// TransportWriteError reports a failed write while connected. The command
// is dropped and the connection state is left alone.
type TransportWriteError struct {
	Line  string
	Cause error
}

func (e *TransportWriteError) Error() string {
	return fmt.Sprintf("%s: %v", e.Line, e.Cause)
}

func (e *TransportWriteError) Unwrap() error {
	return e.Cause
}
