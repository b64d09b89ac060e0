// Package results delivers graded answers and test summaries to
// downstream consumers. Writes are best-effort at call sites; a failed
// sink never interrupts a live call.
package results

import (
	"context"
	"time"
)

// AnswerRecord is one graded answer.
type AnswerRecord struct {
	ID           string    `json:"id"`
	CallID       string    `json:"callSid"`
	Caller       string    `json:"caller"`
	LessonID     int64     `json:"lessonId"`
	Position     int       `json:"position"`
	QuestionKind string    `json:"questionKind"`
	Utterance    string    `json:"utterance"`
	Correct      bool      `json:"correct"`
	AutoAnswered bool      `json:"autoAnswered"`
	AnsweredAt   time.Time `json:"answeredAt"`
}

// SummaryRecord is the outcome of one completed lesson test.
type SummaryRecord struct {
	ID          string    `json:"id"`
	CallID      string    `json:"callSid"`
	Caller      string    `json:"caller"`
	LessonID    int64     `json:"lessonId"`
	LessonTitle string    `json:"lessonTitle"`
	Score       int       `json:"score"`
	Total       int       `json:"total"`
	Percentage  int       `json:"percentage"`
	CompletedAt time.Time `json:"completedAt"`
}

// Sink receives answer and summary records.
type Sink interface {
	RecordAnswer(ctx context.Context, rec AnswerRecord) error
	RecordSummary(ctx context.Context, rec SummaryRecord) error
}

// Fanout delivers every record to all sinks and returns the first
// error encountered, after trying every sink.
type Fanout []Sink

func (f Fanout) RecordAnswer(ctx context.Context, rec AnswerRecord) error {
	var first error
	for _, s := range f {
		if err := s.RecordAnswer(ctx, rec); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (f Fanout) RecordSummary(ctx context.Context, rec SummaryRecord) error {
	var first error
	for _, s := range f {
		if err := s.RecordSummary(ctx, rec); err != nil && first == nil {
			first = err
		}
	}
	return first
}
