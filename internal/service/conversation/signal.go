package conversation

import "voice-tutor-service/internal/locale"

// Signal is one input event driving a session turn.
type Signal interface {
	isSignal()
}

// LessonFinished reports that lesson playback ran to its end without the
// caller speaking a navigation command.
type LessonFinished struct{}

func (LessonFinished) isSignal() {}

// Utterance carries the resolved transcription of a caller recording.
type Utterance struct {
	Text string

	// AutoAnswered marks text synthesized by the deterministic
	// transcription fallback rather than heard from the caller.
	AutoAnswered bool

	// Suspect marks primary-tier text that failed the plausibility
	// heuristic but was used anyway.
	Suspect bool
}

func (Utterance) isSignal() {}

// Navigation carries an already-resolved navigation command, typically
// from a DTMF digit.
type Navigation struct {
	Command locale.Command
}

func (Navigation) isSignal() {}

// Output is the engine's answer for one turn. Either AwaitInput or
// Terminal is always set; a turn never leaves the caller hanging.
type Output struct {
	// Feedback reacts to what just happened (grading result,
	// transition announcement). May be empty.
	Feedback string

	// Prompt is what the service asks or reads next.
	Prompt string

	// AwaitInput requests a recording after the prompt.
	AwaitInput bool

	// Terminal ends the call after the prompt.
	Terminal bool
}
