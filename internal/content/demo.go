package content

import "voice-tutor-service/internal/models"

// DemoCatalog is a small built-in lesson set used when no database is
// configured, enough to exercise a full call end to end.
func DemoCatalog() []models.Lesson {
	return []models.Lesson{
		{
			ID:       1,
			Title:    "Lidské tělo",
			Content:  "Kostra dospělého člověka má 206 kostí. Srdce pumpuje krev do celého těla a plíce zajišťují dýchání.",
			Position: 0,
			Questions: []models.Question{
				{
					Kind:         models.KindMultipleChoice,
					Prompt:       "Kolik kostí má dospělý člověk?",
					Options:      []string{"100", "206", "300", "50"},
					CorrectIndex: 1,
					Position:     0,
				},
				{
					Kind:     models.KindFreeText,
					Prompt:   "K čemu slouží srdce?",
					Answer:   "Srdce pumpuje krev do celého těla",
					Keywords: []string{"srdce", "pumpuje", "krev"},
					Position: 1,
				},
			},
		},
		{
			ID:       2,
			Title:    "Bezpečnost při požáru",
			Content:  "Při požáru je nejdůležitější rychle opustit budovu a zavolat hasiče na číslo 150.",
			Position: 1,
			Questions: []models.Question{
				{
					Kind:         models.KindMultipleChoice,
					Prompt:       "Co uděláte jako první při požáru?",
					Options:      []string{"Opustit budovu", "Hasit sám", "Schovat se", "Otevřít okna"},
					CorrectIndex: 0,
					Position:     0,
				},
				{
					Kind:         models.KindFillInBlank,
					Prompt:       "Telefonní číslo hasičů je ...",
					Answer:       "150",
					Alternatives: []string{"sto padesát"},
					Position:     1,
				},
			},
		},
	}
}
