package results

import (
	"context"

	"voice-tutor-service/internal/events"
)

// KafkaSink publishes records through the Kafka event publisher, keyed
// by call SID so one call's events stay on one partition.
type KafkaSink struct {
	publisher *events.Publisher
}

// NewKafkaSink wraps an event publisher as a Sink.
func NewKafkaSink(p *events.Publisher) *KafkaSink {
	return &KafkaSink{publisher: p}
}

func (s *KafkaSink) RecordAnswer(ctx context.Context, rec AnswerRecord) error {
	return s.publisher.PublishAnswer(ctx, rec.CallID, rec)
}

func (s *KafkaSink) RecordSummary(ctx context.Context, rec SummaryRecord) error {
	return s.publisher.PublishSummary(ctx, rec.CallID, rec)
}
