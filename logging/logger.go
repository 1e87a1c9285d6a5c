package logging

import (
	"sync"
	"time"

	"motor-control-panel/types"
)

// Sink is the bounded operator activity log. It keeps the newest entries up
// to its capacity and fans each new entry out to subscribers.
type Sink struct {
	mu       sync.RWMutex
	entries  []types.LogEntry // oldest first
	capacity int
	clients  map[chan types.LogEntry]bool
	now      func() time.Time
}

func NewSink(capacity int) *Sink {
	if capacity < 1 {
		capacity = 1
	}
	return &Sink{
		entries:  make([]types.LogEntry, 0, capacity),
		capacity: capacity,
		clients:  make(map[chan types.LogEntry]bool),
		now:      time.Now,
	}
}

func (s *Sink) Append(kind types.LogKind, message string) types.LogEntry {
	entry := types.LogEntry{Time: s.now(), Kind: kind, Message: message}

	s.mu.Lock()
	s.entries = append(s.entries, entry)
	if over := len(s.entries) - s.capacity; over > 0 {
		// Shift down instead of reslicing so the backing array stays bounded.
		copy(s.entries, s.entries[over:])
		s.entries = s.entries[:s.capacity]
	}
	// Fan out before unlocking so subscribers see entries in log order.
	s.broadcastLocked(entry)
	s.mu.Unlock()

	return entry
}

func (s *Sink) Outbound(line string) { s.Append(types.Outbound, "TX: "+line) }

func (s *Sink) Inbound(line string) { s.Append(types.Inbound, "RX: "+line) }

func (s *Sink) Event(message string) { s.Append(types.Lifecycle, message) }

// Snapshot returns a copy of the log, most recent entry first.
func (s *Sink) Snapshot() []types.LogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.LogEntry, len(s.entries))
	for i, e := range s.entries {
		out[len(s.entries)-1-i] = e
	}
	return out
}

func (s *Sink) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Sink) Capacity() int { return s.capacity }

func (s *Sink) Subscribe(buffer int) chan types.LogEntry {
	client := make(chan types.LogEntry, buffer)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[client] = true
	return client
}

func (s *Sink) Unsubscribe(client chan types.LogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clients[client] {
		delete(s.clients, client)
		close(client)
	}
}

// broadcastLocked must be called with s.mu held. Sends never block.
func (s *Sink) broadcastLocked(entry types.LogEntry) {
	for client := range s.clients {
		select {
		case client <- entry:
		default:
			// slow subscriber, it can resync from Snapshot
		}
	}
}
