// Package mock provides a scriptable STT adapter for testing without
// cloud credentials.
package mock

import (
	"context"
	"sync"

	"voice-tutor-service/internal/service/stt"
)

// Adapter implements stt.Adapter with scripted responses. Each call
// consumes the next scripted result; when the script runs out the last
// entry repeats.
type Adapter struct {
	mu      sync.Mutex
	script  []Response
	pos     int
	calls   int
	lastOpt stt.Options
}

// Response is one scripted transcription outcome.
type Response struct {
	Result stt.Result
	Err    error
}

// New creates a mock adapter returning the given responses in order.
func New(script ...Response) *Adapter {
	return &Adapter{script: script}
}

// Name returns the provider identifier.
func (a *Adapter) Name() string {
	return "mock"
}

// Transcribe returns the next scripted response.
func (a *Adapter) Transcribe(_ context.Context, _ []byte, opts stt.Options) (stt.Result, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.calls++
	a.lastOpt = opts

	if len(a.script) == 0 {
		return stt.Result{}, nil
	}
	r := a.script[a.pos]
	if a.pos < len(a.script)-1 {
		a.pos++
	}
	return r.Result, r.Err
}

// Calls reports how many times Transcribe ran.
func (a *Adapter) Calls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}

// LastOptions returns the options of the most recent call.
func (a *Adapter) LastOptions() stt.Options {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastOpt
}
