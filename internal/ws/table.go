package ws

import (
	"sync"

	"github.com/sirupsen/logrus"
)

const sendBuffer = 256

// Table maps participant ids to their open event channels. One channel per
// participant; opening a second stream for the same id replaces the first.
type Table struct {
	mu       sync.RWMutex
	channels map[string]chan Frame
}

func NewTable() *Table {
	return &Table{channels: make(map[string]chan Frame)}
}

// Open registers a fresh channel for participantID and returns it. Any
// previously open channel for the same id is closed, so its write pump exits
// and the stale stream dies; last connection wins.
func (t *Table) Open(participantID string) chan Frame {
	t.mu.Lock()
	defer t.mu.Unlock()
	if old, ok := t.channels[participantID]; ok {
		close(old)
	}
	ch := make(chan Frame, sendBuffer)
	t.channels[participantID] = ch
	return ch
}

// Close removes and closes the channel for participantID, but only if ch is
// still the current one — a reconnect may already have replaced it.
func (t *Table) Close(participantID string, ch chan Frame) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if cur, ok := t.channels[participantID]; ok && cur == ch {
		delete(t.channels, participantID)
		close(cur)
	}
}

// Send queues a frame for participantID. Returns false when no channel is
// open — dropped, not an error; broadcasters just skip the recipient. A full
// buffer also drops the frame: a client that far behind is effectively dead
// and will be reclaimed by the sweeper.
func (t *Table) Send(participantID string, f Frame) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	ch, ok := t.channels[participantID]
	if !ok {
		return false
	}
	select {
	case ch <- f:
		return true
	default:
		logrus.Warnf("event buffer full, dropping %s for %s", f.Type, participantID)
		return false
	}
}

// IsOpen reports whether participantID currently holds an open channel.
func (t *Table) IsOpen(participantID string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.channels[participantID]
	return ok
}

// CloseAll tears down every open channel. Used at process shutdown.
func (t *Table) CloseAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for id, ch := range t.channels {
		close(ch)
		delete(t.channels, id)
	}
}
