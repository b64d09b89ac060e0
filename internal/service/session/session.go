// Package session provides concurrency-safe per-call state storage with
// lifecycle management. State must be reconstructed between independent
// webhook turns; the store is the only owner of session lifetime.
package session

import (
	"time"

	"voice-tutor-service/internal/locale"
	"voice-tutor-service/internal/models"
)

// AnswerRecord is one graded answer in a session's log.
type AnswerRecord struct {
	Question     string
	Utterance    string
	Correct      bool
	Recording    models.RecordingRef
	AutoAnswered bool
}

// CallSession is the full mutable state of one phone call's progress
// through a lesson and its test.
type CallSession struct {
	CallID string
	Caller string
	Locale locale.Locale

	// Lesson is the current content snapshot.
	Lesson models.Lesson

	State State

	// Cursor is the 0-based index of the current test question,
	// monotonic within a test phase; Cursor <= TotalQuestions.
	Cursor         int
	TotalQuestions int

	// Score counts correct answers; it always equals the number of
	// answer log entries marked correct.
	Score   int
	Answers []AnswerRecord

	LastRecording models.RecordingRef

	// History records visited lessons and navigation commands, newest
	// last.
	History []string

	CreatedAt time.Time
	LastTurn  time.Time
}

// CurrentQuestion returns the question at the cursor.
func (s *CallSession) CurrentQuestion() (models.Question, bool) {
	if s.Cursor < 0 || s.Cursor >= len(s.Lesson.Questions) {
		return models.Question{}, false
	}
	return s.Lesson.Questions[s.Cursor], true
}

// BeginTest initializes the test phase for the current lesson.
func (s *CallSession) BeginTest() {
	s.State = StateTestActive
	s.Cursor = 0
	s.Score = 0
	s.Answers = nil
	s.TotalQuestions = len(s.Lesson.Questions)
}

// ReplaceLesson swaps in a new content snapshot and restarts playback.
// The answer log and score reset with the lesson.
func (s *CallSession) ReplaceLesson(lesson models.Lesson) {
	s.Lesson = lesson
	s.State = StateLessonPlaying
	s.Cursor = 0
	s.Score = 0
	s.Answers = nil
	s.TotalQuestions = len(lesson.Questions)
}

// RecordAnswer appends a graded answer and advances the cursor.
func (s *CallSession) RecordAnswer(rec AnswerRecord) {
	s.Answers = append(s.Answers, rec)
	if rec.Correct {
		s.Score++
	}
	s.Cursor++
}

// Percentage computes the final test score, rounded.
func (s *CallSession) Percentage() int {
	if s.TotalQuestions == 0 {
		return 0
	}
	return int(float64(s.Score)/float64(s.TotalQuestions)*100 + 0.5)
}

// clone returns a snapshot safe to use outside the store's locks.
func (s *CallSession) clone() CallSession {
	out := *s
	out.Answers = append([]AnswerRecord(nil), s.Answers...)
	out.History = append([]string(nil), s.History...)
	out.Lesson.Questions = append([]models.Question(nil), s.Lesson.Questions...)
	return out
}
