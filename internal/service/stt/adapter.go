// Package stt defines the interface for batch Speech-to-Text adapters.
// The service transcribes short recorded utterances, not live streams,
// so the contract is a single recognize call per recording.
package stt

import "context"

// Options configures a recognition request.
type Options struct {
	// LanguageTag is the BCP 47 tag of the expected speech.
	LanguageTag string

	// SampleRateHz of the submitted audio. Telephony recordings are
	// 8 kHz unless stated otherwise.
	SampleRateHz int32

	// Hints bias recognition toward the expected answer space: answer
	// letters, number words and domain vocabulary.
	Hints []string
}

// Result is a recognized transcript with the provider's confidence.
type Result struct {
	Text       string
	Confidence float64
}

// Adapter is the interface for STT providers (Google, Azure, mock).
type Adapter interface {
	// Name returns the provider identifier.
	Name() string

	// Transcribe converts recorded audio bytes to text.
	Transcribe(ctx context.Context, audio []byte, opts Options) (Result, error)
}
