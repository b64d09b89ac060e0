package models

import (
	"net/url"
	"strconv"
)

// Transcription status values delivered by the provider callback.
const (
	TranscriptionCompleted = "completed"
	TranscriptionFailed    = "failed"
)

// Call status values delivered on status callbacks.
const (
	CallInProgress = "in-progress"
	CallCompleted  = "completed"
	CallFailed     = "failed"
	CallBusy       = "busy"
	CallNoAnswer   = "no-answer"
)

// WebhookRequest carries the provider form fields the core consumes.
// Field names follow the telephony provider's POST parameters.
type WebhookRequest struct {
	CallSID             string
	From                string
	To                  string
	Digits              string
	RecordingURL        string
	RecordingDuration   int
	TranscriptionText   string
	TranscriptionStatus string
	CallStatus          string
	CallDuration        int
}

// WebhookFromForm decodes a provider webhook from posted form values.
func WebhookFromForm(form url.Values) WebhookRequest {
	return WebhookRequest{
		CallSID:             form.Get("CallSid"),
		From:                form.Get("From"),
		To:                  form.Get("To"),
		Digits:              form.Get("Digits"),
		RecordingURL:        form.Get("RecordingUrl"),
		RecordingDuration:   atoiOrZero(form.Get("RecordingDuration")),
		TranscriptionText:   form.Get("TranscriptionText"),
		TranscriptionStatus: form.Get("TranscriptionStatus"),
		CallStatus:          form.Get("CallStatus"),
		CallDuration:        atoiOrZero(form.Get("CallDuration")),
	}
}

// Recording returns the recording reference, if any, carried by this
// webhook.
func (w WebhookRequest) Recording() (RecordingRef, bool) {
	if w.RecordingURL == "" {
		return RecordingRef{}, false
	}
	return RecordingRef{URL: w.RecordingURL, Duration: w.RecordingDuration}, true
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
