package evaluate

import "fmt"

// Verdict is the outcome of grading one utterance against one question.
type Verdict int

const (
	// Incorrect - the utterance does not match the expected answer.
	Incorrect Verdict = iota
	// Correct - the utterance matches the expected answer.
	Correct
	// Ambiguous - the utterance is too information-dense or too long to
	// confidently map to a single answer. The caller is re-prompted.
	Ambiguous
)

// String returns the string representation of the verdict.
func (v Verdict) String() string {
	switch v {
	case Incorrect:
		return "incorrect"
	case Correct:
		return "correct"
	case Ambiguous:
		return "ambiguous"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(v))
	}
}

// verdictOf maps a boolean grading result to a Verdict.
func verdictOf(correct bool) Verdict {
	if correct {
		return Correct
	}
	return Incorrect
}
