package results

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"voice-tutor-service/internal/observability/logging"
	"voice-tutor-service/internal/observability/metrics"
)

// PostgresSink writes answer and summary rows to Postgres.
type PostgresSink struct {
	pool    *pgxpool.Pool
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

// NewPostgresSink wraps an existing connection pool.
func NewPostgresSink(pool *pgxpool.Pool) *PostgresSink {
	return &PostgresSink{
		pool:    pool,
		logger:  logging.WithComponent("results.postgres"),
		metrics: metrics.DefaultMetrics,
	}
}

func (s *PostgresSink) RecordAnswer(ctx context.Context, rec AnswerRecord) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO answer_results
		   (id, call_sid, caller, lesson_id, position, question_kind,
		    utterance, correct, auto_answered, answered_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		rec.ID, rec.CallID, rec.Caller, rec.LessonID, rec.Position,
		rec.QuestionKind, rec.Utterance, rec.Correct, rec.AutoAnswered,
		rec.AnsweredAt)
	if err != nil {
		s.logger.Error().Err(err).Str("callSid", rec.CallID).Msg("insert answer result failed")
		s.metrics.RecordResultsSinkError("postgres")
		return fmt.Errorf("insert answer result: %w", err)
	}
	return nil
}

func (s *PostgresSink) RecordSummary(ctx context.Context, rec SummaryRecord) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO test_summaries
		   (id, call_sid, caller, lesson_id, lesson_title, score, total,
		    percentage, completed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rec.ID, rec.CallID, rec.Caller, rec.LessonID, rec.LessonTitle,
		rec.Score, rec.Total, rec.Percentage, rec.CompletedAt)
	if err != nil {
		s.logger.Error().Err(err).Str("callSid", rec.CallID).Msg("insert test summary failed")
		s.metrics.RecordResultsSinkError("postgres")
		return fmt.Errorf("insert test summary: %w", err)
	}
	return nil
}
