package content

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"voice-tutor-service/internal/models"
	"voice-tutor-service/internal/observability/logging"
)

// PostgresGateway loads lessons and questions from Postgres. Questions
// live in a jsonb payload column; payloads failing the embedded schema
// are skipped with a warning so one malformed row cannot take a lesson
// down.
type PostgresGateway struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPostgresGateway wraps an existing connection pool.
func NewPostgresGateway(pool *pgxpool.Pool) *PostgresGateway {
	return &PostgresGateway{
		pool:   pool,
		logger: logging.WithComponent("content.postgres"),
	}
}

const lessonColumns = `id, title, content, position`

// InitialLesson returns the lowest-positioned lesson in the catalog.
func (g *PostgresGateway) InitialLesson(ctx context.Context, callerID string) (models.Lesson, error) {
	row := g.pool.QueryRow(ctx,
		`SELECT `+lessonColumns+` FROM lessons ORDER BY position ASC LIMIT 1`)
	return g.scanLesson(ctx, row)
}

// NextLesson returns the lesson positioned after the given one.
func (g *PostgresGateway) NextLesson(ctx context.Context, current models.Lesson) (models.Lesson, error) {
	row := g.pool.QueryRow(ctx,
		`SELECT `+lessonColumns+` FROM lessons WHERE position > $1 ORDER BY position ASC LIMIT 1`,
		current.Position)
	return g.scanLesson(ctx, row)
}

// PreviousLesson returns the lesson positioned before the given one.
func (g *PostgresGateway) PreviousLesson(ctx context.Context, current models.Lesson) (models.Lesson, error) {
	row := g.pool.QueryRow(ctx,
		`SELECT `+lessonColumns+` FROM lessons WHERE position < $1 ORDER BY position DESC LIMIT 1`,
		current.Position)
	return g.scanLesson(ctx, row)
}

func (g *PostgresGateway) scanLesson(ctx context.Context, row pgx.Row) (models.Lesson, error) {
	var l models.Lesson
	err := row.Scan(&l.ID, &l.Title, &l.Content, &l.Position)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Lesson{}, ErrNoLesson
	}
	if err != nil {
		return models.Lesson{}, fmt.Errorf("scan lesson: %w", err)
	}

	questions, err := g.loadQuestions(ctx, l.ID)
	if err != nil {
		return models.Lesson{}, err
	}
	l.Questions = questions
	return l, nil
}

func (g *PostgresGateway) loadQuestions(ctx context.Context, lessonID int64) ([]models.Question, error) {
	rows, err := g.pool.Query(ctx,
		`SELECT id, payload FROM questions WHERE lesson_id = $1 ORDER BY position ASC`,
		lessonID)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	var questions []models.Question
	for rows.Next() {
		var (
			id      int64
			payload []byte
		)
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		q, err := DecodeQuestion(payload)
		if err != nil {
			g.logger.Warn().
				Int64("lessonId", lessonID).
				Int64("questionId", id).
				Err(err).
				Msg("skipping malformed question payload")
			continue
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}
	return questions, nil
}
