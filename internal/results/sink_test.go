package results

import (
	"context"
	"errors"
	"testing"
	"time"

	"voice-tutor-service/internal/events"
)

type recordingSink struct {
	answers   []AnswerRecord
	summaries []SummaryRecord
	err       error
}

func (s *recordingSink) RecordAnswer(ctx context.Context, rec AnswerRecord) error {
	s.answers = append(s.answers, rec)
	return s.err
}

func (s *recordingSink) RecordSummary(ctx context.Context, rec SummaryRecord) error {
	s.summaries = append(s.summaries, rec)
	return s.err
}

func TestFanoutDeliversToAllSinks(t *testing.T) {
	a := &recordingSink{}
	b := &recordingSink{}
	f := Fanout{a, b}

	rec := AnswerRecord{ID: "id-1", CallID: "CA123", Correct: true, AnsweredAt: time.Now()}
	if err := f.RecordAnswer(context.Background(), rec); err != nil {
		t.Fatalf("RecordAnswer: %v", err)
	}

	if len(a.answers) != 1 || len(b.answers) != 1 {
		t.Errorf("answer delivered to %d/%d sinks, want 1/1", len(a.answers), len(b.answers))
	}
}

func TestFanoutContinuesPastFailingSink(t *testing.T) {
	boom := errors.New("sink down")
	failing := &recordingSink{err: boom}
	healthy := &recordingSink{}
	f := Fanout{failing, healthy}

	rec := SummaryRecord{ID: "id-2", CallID: "CA123", Score: 4, Total: 5, Percentage: 80}
	err := f.RecordSummary(context.Background(), rec)

	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
	if len(healthy.summaries) != 1 {
		t.Error("healthy sink skipped after earlier failure")
	}
}

func TestKafkaSinkLogOnlyMode(t *testing.T) {
	s := NewKafkaSink(events.New(&events.Config{Enabled: false}))

	rec := AnswerRecord{ID: "id-3", CallID: "CA123", Utterance: "dva", Correct: true}
	if err := s.RecordAnswer(context.Background(), rec); err != nil {
		t.Errorf("RecordAnswer in log-only mode: %v", err)
	}

	sum := SummaryRecord{ID: "id-4", CallID: "CA123", Score: 5, Total: 5, Percentage: 100}
	if err := s.RecordSummary(context.Background(), sum); err != nil {
		t.Errorf("RecordSummary in log-only mode: %v", err)
	}
}
