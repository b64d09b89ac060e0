// Package conversation drives the tutoring state machine. Each webhook
// turn feeds one Signal through Process against the caller's session;
// the resulting Output is rendered to TwiML by the transport layer.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"voice-tutor-service/internal/content"
	"voice-tutor-service/internal/locale"
	"voice-tutor-service/internal/models"
	"voice-tutor-service/internal/observability/logging"
	"voice-tutor-service/internal/observability/metrics"
	"voice-tutor-service/internal/results"
	"voice-tutor-service/internal/service/evaluate"
	"voice-tutor-service/internal/service/session"
)

// Engine advances call sessions through lesson playback, testing and
// navigation. It holds no session state of its own; callers run Process
// inside the store's per-session mutation lock.
type Engine struct {
	evaluator *evaluate.Evaluator
	gateway   content.Gateway
	sink      results.Sink
	logger    zerolog.Logger
	metrics   *metrics.Metrics
}

// New builds an engine. The sink is used best-effort; its failures are
// logged and never surface into a call.
func New(evaluator *evaluate.Evaluator, gateway content.Gateway, sink results.Sink) *Engine {
	return &Engine{
		evaluator: evaluator,
		gateway:   gateway,
		sink:      sink,
		logger:    logging.WithComponent("conversation"),
		metrics:   metrics.DefaultMetrics,
	}
}

// Process applies one signal to the session and returns what to say
// next. Every output either awaits further input or is terminal.
func (e *Engine) Process(ctx context.Context, sig Signal, s *session.CallSession) Output {
	start := time.Now()
	defer func() {
		e.metrics.RecordTurn(s.State.String(), time.Since(start).Seconds())
	}()

	if s.State.IsTerminal() {
		return Output{Feedback: locale.Goodbye(s.Locale), Terminal: true}
	}

	switch sig := sig.(type) {
	case LessonFinished:
		return e.lessonFinished(s)
	case Utterance:
		return e.utterance(ctx, sig, s)
	case Navigation:
		return e.applyCommand(ctx, sig.Command, s)
	default:
		e.logger.Error().Str("callSid", s.CallID).Msgf("unknown signal %T", sig)
		return e.fail(s)
	}
}

// lessonFinished handles the end of lesson playback. In other states the
// signal is a stray callback and the current prompt is repeated.
func (e *Engine) lessonFinished(s *session.CallSession) Output {
	switch s.State {
	case session.StateLessonPlaying:
		if len(s.Lesson.Questions) == 0 {
			s.State = session.StateSessionComplete
			return Output{
				Feedback: locale.NoTest(s.Locale) + " " + locale.Goodbye(s.Locale),
				Terminal: true,
			}
		}
		s.BeginTest()
		q, _ := s.CurrentQuestion()
		return Output{
			Feedback:   locale.LessonDone(s.Locale),
			Prompt:     FormatQuestion(q, s.Locale),
			AwaitInput: true,
		}
	case session.StateTestActive:
		q, ok := s.CurrentQuestion()
		if !ok {
			return e.fail(s)
		}
		return Output{Prompt: FormatQuestion(q, s.Locale), AwaitInput: true}
	default:
		return Output{Prompt: locale.NavigationMenu(s.Locale), AwaitInput: true}
	}
}

func (e *Engine) utterance(ctx context.Context, utt Utterance, s *session.CallSession) Output {
	switch s.State {
	case session.StateTestActive:
		return e.grade(ctx, utt, s)
	case session.StateLessonPlaying:
		// Speech during playback is either a navigation command or a
		// request for the menu.
		if cmd, ok := locale.CommandFromUtterance(utt.Text, s.Locale); ok {
			return e.applyCommand(ctx, cmd, s)
		}
		s.State = session.StateNavigationMenu
		return Output{Prompt: locale.NavigationMenu(s.Locale), AwaitInput: true}
	case session.StateNavigationMenu:
		if cmd, ok := locale.CommandFromUtterance(utt.Text, s.Locale); ok {
			return e.applyCommand(ctx, cmd, s)
		}
		return Output{Prompt: locale.NavigationMenu(s.Locale), AwaitInput: true}
	default:
		return e.fail(s)
	}
}

// grade evaluates one answer and advances the test.
func (e *Engine) grade(ctx context.Context, utt Utterance, s *session.CallSession) Output {
	q, ok := s.CurrentQuestion()
	if !ok {
		return e.fail(s)
	}

	verdict := e.evaluator.Evaluate(q, utt.Text, s.Locale)
	e.metrics.RecordVerdict(verdict.String())

	if verdict == evaluate.Ambiguous {
		return Output{
			Feedback:   locale.Ambiguous(s.Locale),
			Prompt:     FormatQuestion(q, s.Locale),
			AwaitInput: true,
		}
	}

	correct := verdict == evaluate.Correct
	s.RecordAnswer(session.AnswerRecord{
		Question:     q.Prompt,
		Utterance:    utt.Text,
		Correct:      correct,
		Recording:    s.LastRecording,
		AutoAnswered: utt.AutoAnswered,
	})
	e.recordAnswer(ctx, s, q, utt, correct)

	feedback := locale.Incorrect(s.Locale)
	if correct {
		feedback = locale.Correct(s.Locale)
	}

	if s.Cursor < s.TotalQuestions {
		next, ok := s.CurrentQuestion()
		if !ok {
			return e.fail(s)
		}
		return Output{
			Feedback:   feedback,
			Prompt:     FormatQuestion(next, s.Locale),
			AwaitInput: true,
		}
	}
	return e.finishTest(ctx, feedback, s)
}

// finishTest closes out the test, reports the summary and either moves
// to the next lesson or ends the session with the final score.
func (e *Engine) finishTest(ctx context.Context, feedback string, s *session.CallSession) Output {
	percentage := s.Percentage()
	e.recordSummary(ctx, s, percentage)

	scoreText := locale.ScoreFeedback(s.Locale, percentage)

	next, err := e.gateway.NextLesson(ctx, s.Lesson)
	if errors.Is(err, content.ErrNoLesson) {
		s.State = session.StateSessionComplete
		return Output{
			Feedback: feedback + " " + scoreText + " " + locale.Goodbye(s.Locale),
			Terminal: true,
		}
	}
	if err != nil {
		e.logger.Error().Err(err).Str("callSid", s.CallID).Msg("next lesson lookup failed")
		return e.fail(s)
	}

	s.ReplaceLesson(next)
	s.History = append(s.History, fmt.Sprintf("lesson:%d", next.ID))
	return Output{
		Feedback:   feedback + " " + scoreText + " " + locale.NextLesson(s.Locale),
		Prompt:     next.SpokenText(),
		AwaitInput: true,
	}
}

// applyCommand executes a navigation command from a digit or keyword.
func (e *Engine) applyCommand(ctx context.Context, cmd locale.Command, s *session.CallSession) Output {
	s.History = append(s.History, string(cmd))

	switch cmd {
	case locale.CmdRepeatLesson:
		s.ReplaceLesson(s.Lesson)
		return Output{
			Feedback:   locale.RepeatLesson(s.Locale),
			Prompt:     s.Lesson.SpokenText(),
			AwaitInput: true,
		}
	case locale.CmdNextLesson:
		return e.switchLesson(ctx, s, e.gateway.NextLesson, locale.NextLesson, locale.NoNextLesson)
	case locale.CmdPreviousLesson:
		return e.switchLesson(ctx, s, e.gateway.PreviousLesson, locale.PreviousLesson, locale.NoPreviousLesson)
	case locale.CmdEndSession:
		s.State = session.StateSessionComplete
		return Output{Feedback: locale.Goodbye(s.Locale), Terminal: true}
	default:
		e.logger.Warn().Str("callSid", s.CallID).Str("command", string(cmd)).Msg("unknown navigation command")
		return Output{Prompt: locale.NavigationMenu(s.Locale), AwaitInput: true}
	}
}

// switchLesson moves to an adjacent lesson; with none available the
// caller stays in the navigation menu.
func (e *Engine) switchLesson(
	ctx context.Context,
	s *session.CallSession,
	lookup func(context.Context, models.Lesson) (models.Lesson, error),
	announce, unavailable func(locale.Locale) string,
) Output {
	lesson, err := lookup(ctx, s.Lesson)
	if errors.Is(err, content.ErrNoLesson) {
		s.State = session.StateNavigationMenu
		return Output{
			Feedback:   unavailable(s.Locale),
			Prompt:     locale.NavigationMenu(s.Locale),
			AwaitInput: true,
		}
	}
	if err != nil {
		e.logger.Error().Err(err).Str("callSid", s.CallID).Msg("lesson lookup failed")
		return e.fail(s)
	}

	s.ReplaceLesson(lesson)
	s.History = append(s.History, fmt.Sprintf("lesson:%d", lesson.ID))
	return Output{
		Feedback:   announce(s.Locale),
		Prompt:     lesson.SpokenText(),
		AwaitInput: true,
	}
}

// fail moves the session to the error state with a generic apology.
func (e *Engine) fail(s *session.CallSession) Output {
	s.State = session.StateError
	return Output{Feedback: locale.Apology(s.Locale), Terminal: true}
}

func (e *Engine) recordAnswer(ctx context.Context, s *session.CallSession, q models.Question, utt Utterance, correct bool) {
	if e.sink == nil {
		return
	}
	rec := results.AnswerRecord{
		ID:           uuid.NewString(),
		CallID:       s.CallID,
		Caller:       s.Caller,
		LessonID:     s.Lesson.ID,
		Position:     q.Position,
		QuestionKind: string(q.Kind),
		Utterance:    utt.Text,
		Correct:      correct,
		AutoAnswered: utt.AutoAnswered,
		AnsweredAt:   time.Now().UTC(),
	}
	if err := e.sink.RecordAnswer(ctx, rec); err != nil {
		e.logger.Warn().Err(err).Str("callSid", s.CallID).Msg("answer record dropped")
		e.metrics.RecordResultsSinkError("answer")
	}
}

func (e *Engine) recordSummary(ctx context.Context, s *session.CallSession, percentage int) {
	if e.sink == nil {
		return
	}
	rec := results.SummaryRecord{
		ID:          uuid.NewString(),
		CallID:      s.CallID,
		Caller:      s.Caller,
		LessonID:    s.Lesson.ID,
		LessonTitle: s.Lesson.Title,
		Score:       s.Score,
		Total:       s.TotalQuestions,
		Percentage:  percentage,
		CompletedAt: time.Now().UTC(),
	}
	if err := e.sink.RecordSummary(ctx, rec); err != nil {
		e.logger.Warn().Err(err).Str("callSid", s.CallID).Msg("summary record dropped")
		e.metrics.RecordResultsSinkError("summary")
	}
}
