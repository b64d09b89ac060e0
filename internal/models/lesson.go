// Package models defines the content and call data structures shared
// across the voice tutor service.
package models

import (
	"errors"
	"fmt"
)

// QuestionKind identifies the shape of a test question. The kind is
// assigned once when content is loaded; downstream code never infers it
// from which fields happen to be populated.
type QuestionKind string

const (
	KindMultipleChoice QuestionKind = "multiple_choice"
	KindFreeText       QuestionKind = "free_text"
	KindFillInBlank    QuestionKind = "fill_in_blank"
	KindMatching       QuestionKind = "matching"
)

// MatchPair is one term/definition pair of a matching question.
type MatchPair struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

// Question is a single test question. Only the fields for its Kind are
// meaningful; Validate reports structural problems for that kind.
type Question struct {
	Kind   QuestionKind `json:"type"`
	Prompt string       `json:"question"`

	// multiple_choice
	Options      []string `json:"options,omitempty"`
	CorrectIndex int      `json:"correctAnswer,omitempty"`

	// free_text reference answer / fill_in_blank accepted answer
	Answer string `json:"answer,omitempty"`

	// free_text
	Keywords []string `json:"keyWords,omitempty"`

	// fill_in_blank
	Alternatives []string `json:"alternatives,omitempty"`

	// matching
	Pairs []MatchPair `json:"pairs,omitempty"`

	// Ordinal position within the lesson's test, 0-based.
	Position int `json:"position"`
}

// Validation errors for question content.
var (
	ErrNoPrompt    = errors.New("question has no prompt text")
	ErrNoOptions   = errors.New("multiple choice question has no options")
	ErrIndexRange  = errors.New("correct answer index out of range")
	ErrNoAnswer    = errors.New("question has no accepted answer")
	ErrNoPairs     = errors.New("matching question has no pairs")
	ErrUnknownKind = errors.New("unknown question kind")
)

// Validate checks the question is structurally usable for grading.
func (q Question) Validate() error {
	if q.Prompt == "" {
		return ErrNoPrompt
	}
	switch q.Kind {
	case KindMultipleChoice:
		if len(q.Options) == 0 {
			return ErrNoOptions
		}
		if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
			return fmt.Errorf("%w: index %d with %d options", ErrIndexRange, q.CorrectIndex, len(q.Options))
		}
	case KindFreeText, KindFillInBlank:
		if q.Answer == "" {
			return ErrNoAnswer
		}
	case KindMatching:
		if len(q.Pairs) == 0 {
			return ErrNoPairs
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, q.Kind)
	}
	return nil
}

// CorrectOption returns the text of the correct choice for a multiple
// choice question.
func (q Question) CorrectOption() (string, bool) {
	if q.Kind != KindMultipleChoice {
		return "", false
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return "", false
	}
	return q.Options[q.CorrectIndex], true
}

// CorrectLetter returns the spoken answer letter ("A".."Z") for the
// correct choice. Used by the deterministic transcription fallback.
func (q Question) CorrectLetter() string {
	if q.CorrectIndex < 0 || q.CorrectIndex >= 26 {
		return "A"
	}
	return string(rune('A' + q.CorrectIndex))
}

// Lesson is the content snapshot a call session works through: spoken
// lesson text followed by an ordered test.
type Lesson struct {
	ID        int64      `json:"lessonId"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Questions []Question `json:"questions"`
	Position  int        `json:"position"`
}

// SpokenText is the lesson portion read to the caller.
func (l Lesson) SpokenText() string {
	if l.Content == "" {
		return l.Title
	}
	return l.Title + ". " + l.Content
}

// RecordingRef points at a caller recording held by the telephony
// provider.
type RecordingRef struct {
	URL      string
	Duration int // seconds
}
