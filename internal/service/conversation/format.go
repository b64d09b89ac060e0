package conversation

import (
	"fmt"
	"strings"

	"voice-tutor-service/internal/locale"
	"voice-tutor-service/internal/models"
)

// FormatQuestion renders a question as spoken text. Multiple choice
// options are read out with their answer letters so the caller can
// answer "B" or "dva".
func FormatQuestion(q models.Question, l locale.Locale) string {
	switch q.Kind {
	case models.KindMultipleChoice:
		var b strings.Builder
		b.WriteString(q.Prompt)
		for i, opt := range q.Options {
			fmt.Fprintf(&b, " %c) %s.", 'A'+i, opt)
		}
		b.WriteString(" ")
		b.WriteString(locale.ChooseOption(l))
		return b.String()
	case models.KindMatching:
		terms := make([]string, len(q.Pairs))
		for i, p := range q.Pairs {
			terms[i] = p.Term
		}
		return q.Prompt + " " + strings.Join(terms, ", ") + "."
	default:
		return q.Prompt
	}
}
