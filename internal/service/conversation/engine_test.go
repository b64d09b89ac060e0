package conversation

import (
	"context"
	"strings"
	"testing"

	"voice-tutor-service/internal/content"
	"voice-tutor-service/internal/locale"
	"voice-tutor-service/internal/models"
	"voice-tutor-service/internal/results"
	"voice-tutor-service/internal/service/evaluate"
	"voice-tutor-service/internal/service/session"
)

type captureSink struct {
	answers   []results.AnswerRecord
	summaries []results.SummaryRecord
}

func (s *captureSink) RecordAnswer(ctx context.Context, rec results.AnswerRecord) error {
	s.answers = append(s.answers, rec)
	return nil
}

func (s *captureSink) RecordSummary(ctx context.Context, rec results.SummaryRecord) error {
	s.summaries = append(s.summaries, rec)
	return nil
}

func boneQuestion(pos int) models.Question {
	return models.Question{
		Kind:         models.KindMultipleChoice,
		Prompt:       "Kolik kostí má dospělý člověk?",
		Options:      []string{"100", "206", "300", "50"},
		CorrectIndex: 1,
		Position:     pos,
	}
}

func lessonWith(n int) models.Lesson {
	l := models.Lesson{ID: 1, Title: "Lidské tělo", Content: "Kostra dospělého člověka má 206 kostí.", Position: 0}
	for i := 0; i < n; i++ {
		l.Questions = append(l.Questions, boneQuestion(i))
	}
	return l
}

func newSession(n int) *session.CallSession {
	return &session.CallSession{
		CallID: "CA123",
		Caller: "+420777123456",
		Locale: locale.Czech,
		Lesson: lessonWith(n),
		State:  session.StateLessonPlaying,
	}
}

func newEngine(sink results.Sink, lessons ...models.Lesson) *Engine {
	return New(evaluate.New(evaluate.DefaultThresholds()), content.NewStaticGateway(lessons), sink)
}

func checkOutputContract(t *testing.T, out Output) {
	t.Helper()
	if !out.AwaitInput && !out.Terminal {
		t.Errorf("output neither awaits input nor terminates: %+v", out)
	}
}

func TestLessonFinishedStartsTest(t *testing.T) {
	e := newEngine(&captureSink{}, lessonWith(2))
	s := newSession(2)

	out := e.Process(context.Background(), LessonFinished{}, s)
	checkOutputContract(t, out)

	if s.State != session.StateTestActive {
		t.Fatalf("state = %v, want TEST_ACTIVE", s.State)
	}
	if s.Cursor != 0 || s.TotalQuestions != 2 {
		t.Errorf("cursor/total = %d/%d, want 0/2", s.Cursor, s.TotalQuestions)
	}
	if !out.AwaitInput {
		t.Error("expected AwaitInput for first question")
	}
	if !strings.Contains(out.Prompt, "A) 100") || !strings.Contains(out.Prompt, "B) 206") {
		t.Errorf("prompt lacks lettered options: %q", out.Prompt)
	}
}

func TestLessonWithoutQuestionsCompletes(t *testing.T) {
	e := newEngine(&captureSink{}, lessonWith(0))
	s := newSession(0)

	out := e.Process(context.Background(), LessonFinished{}, s)
	checkOutputContract(t, out)

	if s.State != session.StateSessionComplete {
		t.Fatalf("state = %v, want SESSION_COMPLETE", s.State)
	}
	if !out.Terminal {
		t.Error("expected terminal output")
	}
	if out.Feedback == "" {
		t.Error("expected an explanatory goodbye")
	}
}

func TestCorrectAnswerAdvances(t *testing.T) {
	sink := &captureSink{}
	e := newEngine(sink, lessonWith(2))
	s := newSession(2)
	e.Process(context.Background(), LessonFinished{}, s)

	out := e.Process(context.Background(), Utterance{Text: "dva"}, s)
	checkOutputContract(t, out)

	if s.Cursor != 1 || s.Score != 1 {
		t.Errorf("cursor/score = %d/%d, want 1/1", s.Cursor, s.Score)
	}
	if !strings.Contains(out.Feedback, "Správně") {
		t.Errorf("feedback = %q, want correct announcement", out.Feedback)
	}
	if !out.AwaitInput {
		t.Error("expected next question prompt")
	}
	if len(sink.answers) != 1 || !sink.answers[0].Correct {
		t.Errorf("answer records = %+v, want one correct", sink.answers)
	}
}

func TestAmbiguousAnswerKeepsCursor(t *testing.T) {
	sink := &captureSink{}
	e := newEngine(sink, lessonWith(1))
	s := newSession(1)
	e.Process(context.Background(), LessonFinished{}, s)

	rambling := strings.Repeat("slovo ", 25)
	out := e.Process(context.Background(), Utterance{Text: rambling}, s)
	checkOutputContract(t, out)

	if s.Cursor != 0 || len(s.Answers) != 0 {
		t.Errorf("cursor/answers = %d/%d, want 0/0 after ambiguous turn", s.Cursor, len(s.Answers))
	}
	if s.State != session.StateTestActive {
		t.Errorf("state = %v, want TEST_ACTIVE", s.State)
	}
	if !out.AwaitInput || !strings.Contains(out.Prompt, "Kolik kostí") {
		t.Errorf("expected same-question re-prompt, got %+v", out)
	}
	if len(sink.answers) != 0 {
		t.Error("ambiguous turn must not record an answer")
	}
}

func TestPerfectRunReportsFullScore(t *testing.T) {
	sink := &captureSink{}
	e := newEngine(sink, lessonWith(5))
	s := newSession(5)
	e.Process(context.Background(), LessonFinished{}, s)

	var out Output
	for i := 0; i < 5; i++ {
		out = e.Process(context.Background(), Utterance{Text: "B"}, s)
		checkOutputContract(t, out)
	}

	if s.State != session.StateSessionComplete {
		t.Fatalf("state = %v, want SESSION_COMPLETE", s.State)
	}
	if !out.Terminal {
		t.Error("expected terminal output after last question with no next lesson")
	}
	if len(sink.summaries) != 1 {
		t.Fatalf("summaries = %d, want 1", len(sink.summaries))
	}
	sum := sink.summaries[0]
	if sum.Score != 5 || sum.Total != 5 || sum.Percentage != 100 {
		t.Errorf("summary = %+v, want 5/5 at 100%%", sum)
	}
	if len(sink.answers) != 5 {
		t.Errorf("answer records = %d, want 5", len(sink.answers))
	}
}

func TestTestCompletionAdvancesToNextLesson(t *testing.T) {
	first := lessonWith(1)
	second := models.Lesson{ID: 2, Title: "Dýchací soustava", Content: "Plíce.", Position: 1}
	sink := &captureSink{}
	e := newEngine(sink, first, second)
	s := newSession(1)
	e.Process(context.Background(), LessonFinished{}, s)

	out := e.Process(context.Background(), Utterance{Text: "dva"}, s)
	checkOutputContract(t, out)

	if s.State != session.StateLessonPlaying {
		t.Fatalf("state = %v, want LESSON_PLAYING", s.State)
	}
	if s.Lesson.ID != 2 {
		t.Errorf("lesson ID = %d, want 2", s.Lesson.ID)
	}
	if s.Cursor != 0 || s.Score != 0 || len(s.Answers) != 0 {
		t.Errorf("cursor/score/answers = %d/%d/%d, want reset", s.Cursor, s.Score, len(s.Answers))
	}
	if !strings.Contains(out.Prompt, "Dýchací soustava") {
		t.Errorf("prompt = %q, want new lesson text", out.Prompt)
	}
	if len(sink.summaries) != 1 || sink.summaries[0].Percentage != 100 {
		t.Errorf("summary = %+v, want one at 100%%", sink.summaries)
	}
}

func TestNavigationRepeatLesson(t *testing.T) {
	e := newEngine(&captureSink{}, lessonWith(2))
	s := newSession(2)
	e.Process(context.Background(), LessonFinished{}, s)
	e.Process(context.Background(), Utterance{Text: "B"}, s)

	out := e.Process(context.Background(), Navigation{Command: locale.CmdRepeatLesson}, s)
	checkOutputContract(t, out)

	if s.State != session.StateLessonPlaying {
		t.Fatalf("state = %v, want LESSON_PLAYING", s.State)
	}
	if s.Cursor != 0 || s.Score != 0 || len(s.Answers) != 0 {
		t.Errorf("repeat did not reset progress: cursor=%d score=%d answers=%d", s.Cursor, s.Score, len(s.Answers))
	}
	if !strings.Contains(out.Prompt, "Lidské tělo") {
		t.Errorf("prompt = %q, want lesson text", out.Prompt)
	}
}

func TestNavigationNextUnavailable(t *testing.T) {
	e := newEngine(&captureSink{}, lessonWith(1))
	s := newSession(1)
	s.State = session.StateNavigationMenu

	out := e.Process(context.Background(), Navigation{Command: locale.CmdNextLesson}, s)
	checkOutputContract(t, out)

	if s.State != session.StateNavigationMenu {
		t.Fatalf("state = %v, want NAVIGATION_MENU", s.State)
	}
	if out.Feedback == "" || !out.AwaitInput {
		t.Errorf("expected none-available feedback with menu re-prompt, got %+v", out)
	}
}

func TestNavigationEndSession(t *testing.T) {
	e := newEngine(&captureSink{}, lessonWith(1))
	s := newSession(1)

	out := e.Process(context.Background(), Navigation{Command: locale.CmdEndSession}, s)
	checkOutputContract(t, out)

	if s.State != session.StateSessionComplete {
		t.Fatalf("state = %v, want SESSION_COMPLETE", s.State)
	}
	if !out.Terminal {
		t.Error("expected terminal output")
	}
}

func TestSpokenKeywordDuringLesson(t *testing.T) {
	first := lessonWith(1)
	second := models.Lesson{ID: 2, Title: "Druhá lekce", Position: 1}
	e := newEngine(&captureSink{}, first, second)
	s := newSession(1)

	out := e.Process(context.Background(), Utterance{Text: "chci další lekci"}, s)
	checkOutputContract(t, out)

	if s.Lesson.ID != 2 || s.State != session.StateLessonPlaying {
		t.Errorf("lesson/state = %d/%v, want 2/LESSON_PLAYING", s.Lesson.ID, s.State)
	}
}

func TestUnknownSpeechDuringLessonOpensMenu(t *testing.T) {
	e := newEngine(&captureSink{}, lessonWith(1))
	s := newSession(1)

	out := e.Process(context.Background(), Utterance{Text: "haló haló"}, s)
	checkOutputContract(t, out)

	if s.State != session.StateNavigationMenu {
		t.Fatalf("state = %v, want NAVIGATION_MENU", s.State)
	}
	if !out.AwaitInput || out.Prompt == "" {
		t.Errorf("expected menu prompt, got %+v", out)
	}
}

func TestTerminalSessionGetsGoodbye(t *testing.T) {
	e := newEngine(&captureSink{}, lessonWith(1))
	s := newSession(1)
	s.State = session.StateSessionComplete

	out := e.Process(context.Background(), Utterance{Text: "B"}, s)
	checkOutputContract(t, out)

	if !out.Terminal {
		t.Error("expected terminal output for finished session")
	}
}

func TestAutoAnsweredFlagPropagates(t *testing.T) {
	sink := &captureSink{}
	e := newEngine(sink, lessonWith(1))
	s := newSession(1)
	e.Process(context.Background(), LessonFinished{}, s)

	e.Process(context.Background(), Utterance{Text: "B", AutoAnswered: true}, s)

	if len(sink.answers) != 1 || !sink.answers[0].AutoAnswered {
		t.Errorf("answer records = %+v, want auto-answered flag set", sink.answers)
	}
	if len(s.Answers) != 1 || !s.Answers[0].AutoAnswered {
		t.Errorf("session log = %+v, want auto-answered flag set", s.Answers)
	}
}
