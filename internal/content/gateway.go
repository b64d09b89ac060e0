// Package content loads lessons and their tests for call sessions.
package content

import (
	"context"
	"errors"

	"voice-tutor-service/internal/models"
)

// ErrNoLesson reports that no lesson exists for the request, for example
// stepping past either end of the catalog or an empty catalog.
var ErrNoLesson = errors.New("no lesson available")

// Gateway resolves the lesson a call should play next. Implementations
// return ErrNoLesson when there is nothing to serve; any other error is
// a backend failure.
type Gateway interface {
	// InitialLesson picks the first lesson for a caller.
	InitialLesson(ctx context.Context, callerID string) (models.Lesson, error)

	// NextLesson returns the lesson following the given one in catalog
	// order.
	NextLesson(ctx context.Context, current models.Lesson) (models.Lesson, error)

	// PreviousLesson returns the lesson preceding the given one.
	PreviousLesson(ctx context.Context, current models.Lesson) (models.Lesson, error)
}
