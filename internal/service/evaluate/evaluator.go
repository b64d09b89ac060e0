// Package evaluate grades spoken answers against test questions. All
// matching is fuzzy: utterances arrive as short, noisy ASR transcripts,
// so the evaluator works on normalized text and similarity scores
// rather than exact comparison.
package evaluate

import (
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"voice-tutor-service/internal/locale"
	"voice-tutor-service/internal/models"
	"voice-tutor-service/internal/textnorm"
)

// Thresholds are the tunable cutoffs of the fuzzy matcher. The values
// were calibrated on real call transcripts; they are configuration, not
// constants.
type Thresholds struct {
	// Ambiguity guard: an utterance with at least this many distinct
	// recognized option/keyword tokens is re-prompted.
	MaxKeywordHits int
	// Ambiguity guard: an utterance longer than this many words is
	// re-prompted.
	MaxUtteranceWords int

	ChoiceSimilarity   float64 // whole utterance vs correct option
	WordSimilarity     float64 // single utterance word vs correct option
	WordOverlap        float64 // partial word overlap share
	FreeTextSimilarity float64 // utterance vs reference answer
	KeywordShare       float64 // share of keyword list that must appear
	BlankSimilarity    float64 // utterance vs accepted fill-in answer
}

// DefaultThresholds returns the production cutoffs.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MaxKeywordHits:     6,
		MaxUtteranceWords:  20,
		ChoiceSimilarity:   0.70,
		WordSimilarity:     0.75,
		WordOverlap:        0.60,
		FreeTextSimilarity: 0.60,
		KeywordShare:       0.50,
		BlankSimilarity:    0.70,
	}
}

// minMatchWordLen filters out articles and filler when matching words.
const minMatchWordLen = 3

// Evaluator grades utterances. It is stateless; Evaluate is a pure
// function of the question data, utterance and locale.
type Evaluator struct {
	th Thresholds
}

// New creates an evaluator with the given thresholds.
func New(th Thresholds) *Evaluator {
	return &Evaluator{th: th}
}

// Evaluate grades one utterance against one question. It never fails: a
// structurally invalid question is logged as a content-validation
// failure and graded Incorrect, so a bad content row cannot abort a
// live call.
func (e *Evaluator) Evaluate(q models.Question, utterance string, loc locale.Locale) Verdict {
	if err := q.Validate(); err != nil {
		log.Warn().
			Err(err).
			Str("kind", string(q.Kind)).
			Int("position", q.Position).
			Msg("Ungradable question, counting as incorrect")
		return Incorrect
	}

	norm := textnorm.Normalize(utterance)
	if norm == "" {
		return Incorrect
	}
	if e.isAmbiguous(norm, q) {
		return Ambiguous
	}

	switch q.Kind {
	case models.KindMultipleChoice:
		return e.evaluateChoice(q, norm, loc)
	case models.KindFreeText:
		return verdictOf(e.evaluateFreeText(q, norm))
	case models.KindFillInBlank:
		return verdictOf(e.evaluateBlank(q, norm))
	case models.KindMatching:
		return verdictOf(e.evaluateMatching(q, norm))
	default:
		return Incorrect
	}
}

// isAmbiguous implements the guard checked before any kind-specific
// logic: a caller who read the whole option list back, or rambled far
// past a single answer, cannot be graded against one choice.
func (e *Evaluator) isAmbiguous(norm string, q models.Question) bool {
	if len(strings.Fields(norm)) > e.th.MaxUtteranceWords {
		return true
	}
	distinct := 0
	seen := map[string]bool{}
	for _, token := range recognizedTokens(q) {
		if seen[token] {
			continue
		}
		seen[token] = true
		if textnorm.ContainsWord(norm, token) {
			distinct++
			if distinct >= e.th.MaxKeywordHits {
				return true
			}
		}
	}
	return false
}

// recognizedTokens collects the vocabulary that betrays an option
// recital: the option list for multiple choice, the keyword list for
// free text. Accepted answers are excluded; an utterance is allowed to
// match the full reference answer verbatim without tripping the guard.
func recognizedTokens(q models.Question) []string {
	var src []string
	switch q.Kind {
	case models.KindMultipleChoice:
		src = q.Options
	case models.KindFreeText:
		src = q.Keywords
	}
	var tokens []string
	for _, s := range src {
		tokens = append(tokens, textnorm.Words(s, minMatchWordLen)...)
	}
	return tokens
}

// evaluateChoice runs the multiple-choice precedence chain. The first
// rule that recognizes the utterance decides the verdict.
func (e *Evaluator) evaluateChoice(q models.Question, norm string, loc locale.Locale) Verdict {
	correct, _ := q.CorrectOption()

	// 1. Answer letter: "B" picks index 1.
	if idx, ok := letterIndex(norm, len(q.Options)); ok {
		return verdictOf(idx == q.CorrectIndex)
	}

	// 2. Locale number word or digit: "dva" / "2" picks index 1.
	if idx, ok := numberIndex(norm, loc, len(q.Options)); ok {
		return verdictOf(idx == q.CorrectIndex)
	}

	// 3. The correct option spoken (or embedded) verbatim.
	if textnorm.Contains(norm, correct) {
		return Correct
	}

	// 4. Curated domain synonyms for known answer phrases.
	if synonymMatches(norm, correct) {
		return Correct
	}

	// 5. The whole utterance is close enough to the correct option.
	if textnorm.Similarity(norm, correct) >= e.th.ChoiceSimilarity {
		return Correct
	}

	// 6. A single utterance word is close enough to the correct option.
	for _, w := range textnorm.Words(norm, minMatchWordLen) {
		if textnorm.Similarity(w, correct) >= e.th.WordSimilarity {
			return Correct
		}
	}

	// 7. Enough word overlap with the correct option.
	if textnorm.WordOverlap(norm, correct, minMatchWordLen) >= e.th.WordOverlap {
		return Correct
	}

	return Incorrect
}

func (e *Evaluator) evaluateFreeText(q models.Question, norm string) bool {
	if textnorm.Similarity(norm, q.Answer) >= e.th.FreeTextSimilarity {
		return true
	}
	if len(q.Keywords) == 0 {
		return false
	}
	hits := textnorm.KeywordHits(norm, q.Keywords)
	return float64(hits)/float64(len(q.Keywords)) >= e.th.KeywordShare
}

func (e *Evaluator) evaluateBlank(q models.Question, norm string) bool {
	if textnorm.Normalize(q.Answer) == norm {
		return true
	}
	for _, alt := range q.Alternatives {
		if textnorm.Normalize(alt) == norm {
			return true
		}
	}
	return textnorm.Similarity(norm, q.Answer) >= e.th.BlankSimilarity
}

func (e *Evaluator) evaluateMatching(q models.Question, norm string) bool {
	for _, p := range q.Pairs {
		if textnorm.Contains(norm, p.Term) || textnorm.Contains(norm, p.Definition) {
			return true
		}
	}
	return false
}

// letterIndex finds a standalone answer letter in the utterance and
// returns its option index. Only letters within the option range count.
func letterIndex(norm string, optionCount int) (int, bool) {
	for _, w := range strings.Fields(norm) {
		if len(w) != 1 {
			continue
		}
		idx := int(w[0]) - 'a'
		if idx >= 0 && idx < optionCount {
			return idx, true
		}
	}
	return 0, false
}

// numberIndex finds a spoken number word or digit selecting an option
// by its 1-based position.
func numberIndex(norm string, loc locale.Locale, optionCount int) (int, bool) {
	words := loc.NumberWords()
	for _, w := range strings.Fields(norm) {
		if n, err := strconv.Atoi(w); err == nil {
			if n >= 1 && n <= optionCount {
				return n - 1, true
			}
			continue
		}
		for i, nw := range words {
			if i >= optionCount {
				break
			}
			if w == textnorm.Normalize(nw) {
				return i, true
			}
		}
	}
	return 0, false
}
