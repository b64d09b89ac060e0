package content

import (
	"context"
	"sort"

	"voice-tutor-service/internal/models"
)

// StaticGateway serves a fixed in-memory lesson catalog. It backs tests
// and credential-less development runs where no database is configured.
type StaticGateway struct {
	lessons []models.Lesson
}

// NewStaticGateway builds a gateway over the given lessons, ordered by
// their Position field.
func NewStaticGateway(lessons []models.Lesson) *StaticGateway {
	ordered := make([]models.Lesson, len(lessons))
	copy(ordered, lessons)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Position < ordered[j].Position
	})
	return &StaticGateway{lessons: ordered}
}

// InitialLesson returns the first lesson in the catalog.
func (g *StaticGateway) InitialLesson(ctx context.Context, callerID string) (models.Lesson, error) {
	if len(g.lessons) == 0 {
		return models.Lesson{}, ErrNoLesson
	}
	return g.lessons[0], nil
}

// NextLesson returns the lesson after current in catalog order.
func (g *StaticGateway) NextLesson(ctx context.Context, current models.Lesson) (models.Lesson, error) {
	i := g.indexOf(current.ID)
	if i < 0 || i+1 >= len(g.lessons) {
		return models.Lesson{}, ErrNoLesson
	}
	return g.lessons[i+1], nil
}

// PreviousLesson returns the lesson before current in catalog order.
func (g *StaticGateway) PreviousLesson(ctx context.Context, current models.Lesson) (models.Lesson, error) {
	i := g.indexOf(current.ID)
	if i <= 0 {
		return models.Lesson{}, ErrNoLesson
	}
	return g.lessons[i-1], nil
}

func (g *StaticGateway) indexOf(id int64) int {
	for i, l := range g.lessons {
		if l.ID == id {
			return i
		}
	}
	return -1
}
