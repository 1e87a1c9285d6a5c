package types

import "time"

// ConnState is the lifecycle state of a controller session.
type ConnState int

const (
	Disconnected ConnState = iota
	Connecting
	Connected
	Disconnecting
)

func (s ConnState) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Disconnecting:
		return "disconnecting"
	default:
		return "unknown"
	}
}

// LogKind tags a log entry by where the line came from.
type LogKind string

const (
	Outbound  LogKind = "outbound"
	Inbound   LogKind = "inbound"
	Lifecycle LogKind = "lifecycle"
)

// LogEntry is one line of the operator activity log. Entries are never
// modified after they are appended.
type LogEntry struct {
	Time    time.Time `json:"time"`
	Kind    LogKind   `json:"kind"`
	Message string    `json:"message"`
}

// Status is what control surfaces render to decide which controls are live.
type Status struct {
	State      string `json:"state"`
	Connected  bool   `json:"connected"`
	Port       string `json:"port"`
	SessionID  string `json:"session_id"`
	DriveLevel int    `json:"drive_level"`
}
