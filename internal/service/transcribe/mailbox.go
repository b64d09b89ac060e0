package transcribe

import (
	"context"
	"sync"
)

// Callback is a provider transcription callback for one recording.
type Callback struct {
	Text   string
	Status string // completed / failed
}

// Mailbox holds the most recent asynchronous transcription callback per
// call. The provider posts transcriptions on a separate webhook that
// races the recording action callback, so a turn consults the mailbox
// and waits briefly if the transcription has not landed yet.
type Mailbox struct {
	mu      sync.Mutex
	entries map[string]Callback
	waiters map[string][]chan struct{}
}

// NewMailbox creates an empty mailbox.
func NewMailbox() *Mailbox {
	return &Mailbox{
		entries: make(map[string]Callback),
		waiters: make(map[string][]chan struct{}),
	}
}

// Deliver stores a provider callback and wakes any turn waiting for it.
// A later callback for the same call replaces the earlier one.
func (m *Mailbox) Deliver(callID string, cb Callback) {
	m.mu.Lock()
	m.entries[callID] = cb
	ws := m.waiters[callID]
	delete(m.waiters, callID)
	m.mu.Unlock()

	for _, w := range ws {
		close(w)
	}
}

// Await takes the callback for a call, waiting until the context
// expires if none has been delivered yet. The callback is consumed:
// each recording's transcription is used by exactly one turn.
func (m *Mailbox) Await(ctx context.Context, callID string) (Callback, bool) {
	for {
		m.mu.Lock()
		if cb, ok := m.entries[callID]; ok {
			delete(m.entries, callID)
			m.mu.Unlock()
			return cb, true
		}
		w := make(chan struct{})
		m.waiters[callID] = append(m.waiters[callID], w)
		m.mu.Unlock()

		select {
		case <-ctx.Done():
			return Callback{}, false
		case <-w:
			// Delivered; loop around to take it.
		}
	}
}

// Drop discards any pending callback and waiters for a call. Called on
// eviction so abandoned calls do not leak entries.
func (m *Mailbox) Drop(callID string) {
	m.mu.Lock()
	delete(m.entries, callID)
	ws := m.waiters[callID]
	delete(m.waiters, callID)
	m.mu.Unlock()

	for _, w := range ws {
		close(w)
	}
}
