package session

import "fmt"

// State represents the conversation state of a call session.
type State int

const (
	// StateLessonPlaying - lesson content is being read to the caller.
	StateLessonPlaying State = iota
	// StateTestActive - the caller is answering test questions.
	StateTestActive
	// StateNavigationMenu - the caller is choosing a navigation action.
	StateNavigationMenu
	// StateSessionComplete - the call finished normally. Terminal.
	StateSessionComplete
	// StateError - the call hit an unrecoverable failure. Terminal.
	StateError
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateLessonPlaying:
		return "LESSON_PLAYING"
	case StateTestActive:
		return "TEST_ACTIVE"
	case StateNavigationMenu:
		return "NAVIGATION_MENU"
	case StateSessionComplete:
		return "SESSION_COMPLETE"
	case StateError:
		return "ERROR"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(s))
	}
}

// IsTerminal returns true if no further turns are expected.
func (s State) IsTerminal() bool {
	return s == StateSessionComplete || s == StateError
}
