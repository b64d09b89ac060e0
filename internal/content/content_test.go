package content

import (
	"context"
	"errors"
	"testing"

	"voice-tutor-service/internal/models"
)

func catalog() []models.Lesson {
	return []models.Lesson{
		{ID: 3, Title: "Třetí lekce", Position: 2},
		{ID: 1, Title: "První lekce", Position: 0},
		{ID: 2, Title: "Druhá lekce", Position: 1},
	}
}

func TestStaticGatewayOrdering(t *testing.T) {
	g := NewStaticGateway(catalog())
	ctx := context.Background()

	first, err := g.InitialLesson(ctx, "+420777123456")
	if err != nil {
		t.Fatalf("InitialLesson: %v", err)
	}
	if first.ID != 1 {
		t.Fatalf("initial lesson ID = %d, want 1", first.ID)
	}

	second, err := g.NextLesson(ctx, first)
	if err != nil {
		t.Fatalf("NextLesson: %v", err)
	}
	if second.ID != 2 {
		t.Fatalf("next lesson ID = %d, want 2", second.ID)
	}

	back, err := g.PreviousLesson(ctx, second)
	if err != nil {
		t.Fatalf("PreviousLesson: %v", err)
	}
	if back.ID != 1 {
		t.Fatalf("previous lesson ID = %d, want 1", back.ID)
	}
}

func TestStaticGatewayBounds(t *testing.T) {
	g := NewStaticGateway(catalog())
	ctx := context.Background()

	last := models.Lesson{ID: 3, Position: 2}
	if _, err := g.NextLesson(ctx, last); !errors.Is(err, ErrNoLesson) {
		t.Errorf("NextLesson past end: err = %v, want ErrNoLesson", err)
	}

	first := models.Lesson{ID: 1, Position: 0}
	if _, err := g.PreviousLesson(ctx, first); !errors.Is(err, ErrNoLesson) {
		t.Errorf("PreviousLesson past start: err = %v, want ErrNoLesson", err)
	}

	unknown := models.Lesson{ID: 99, Position: 9}
	if _, err := g.NextLesson(ctx, unknown); !errors.Is(err, ErrNoLesson) {
		t.Errorf("NextLesson for unknown lesson: err = %v, want ErrNoLesson", err)
	}
}

func TestStaticGatewayEmpty(t *testing.T) {
	g := NewStaticGateway(nil)
	if _, err := g.InitialLesson(context.Background(), "anyone"); !errors.Is(err, ErrNoLesson) {
		t.Errorf("InitialLesson on empty catalog: err = %v, want ErrNoLesson", err)
	}
}

func TestDecodeQuestion(t *testing.T) {
	raw := []byte(`{
		"type": "multiple_choice",
		"question": "Kolik kostí má dospělý člověk?",
		"options": ["100", "206", "300", "50"],
		"correctAnswer": 1,
		"position": 0
	}`)

	q, err := DecodeQuestion(raw)
	if err != nil {
		t.Fatalf("DecodeQuestion: %v", err)
	}
	if q.Kind != models.KindMultipleChoice {
		t.Errorf("Kind = %q, want multiple_choice", q.Kind)
	}
	if q.CorrectIndex != 1 || len(q.Options) != 4 {
		t.Errorf("decoded %+v, want correctAnswer 1 with 4 options", q)
	}
}

func TestDecodeQuestionRejectsMalformed(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"not json", `{"type": "multiple_choice"`},
		{"unknown kind", `{"type": "essay", "question": "Popiš fotosyntézu."}`},
		{"missing prompt", `{"type": "free_text", "answer": "voda"}`},
		{"choice without options", `{"type": "multiple_choice", "question": "Kolik?", "correctAnswer": 0}`},
		{"single option", `{"type": "multiple_choice", "question": "Kolik?", "options": ["1"], "correctAnswer": 0}`},
		{"free text without answer", `{"type": "free_text", "question": "Popiš vodní cyklus."}`},
		{"matching without pairs", `{"type": "matching", "question": "Spoj dvojice.", "pairs": []}`},
		{"index out of range", `{"type": "multiple_choice", "question": "Kolik?", "options": ["1", "2"], "correctAnswer": 5}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeQuestion([]byte(tc.raw)); err == nil {
				t.Errorf("DecodeQuestion accepted %s", tc.raw)
			}
		})
	}
}

func TestDecodeQuestionAcceptsAllKinds(t *testing.T) {
	cases := []string{
		`{"type": "free_text", "question": "Popiš vodní cyklus.", "answer": "Voda se vypařuje a padá jako déšť.", "keyWords": ["voda", "vypařuje", "déšť"]}`,
		`{"type": "fill_in_blank", "question": "Hlavní město ČR je ___.", "answer": "Praha", "alternatives": ["Prahu"]}`,
		`{"type": "matching", "question": "Spoj pojmy.", "pairs": [{"term": "srdce", "definition": "pumpuje krev"}]}`,
	}
	for _, raw := range cases {
		if _, err := DecodeQuestion([]byte(raw)); err != nil {
			t.Errorf("DecodeQuestion(%s): %v", raw, err)
		}
	}
}
