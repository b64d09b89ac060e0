package http

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"voice-tutor-service/internal/content"
	"voice-tutor-service/internal/locale"
	"voice-tutor-service/internal/models"
	"voice-tutor-service/internal/service/conversation"
	"voice-tutor-service/internal/service/evaluate"
	"voice-tutor-service/internal/service/session"
	"voice-tutor-service/internal/service/stt/mock"
	"voice-tutor-service/internal/service/transcribe"
	"voice-tutor-service/internal/twiml"
)

func fixtureLesson() models.Lesson {
	return models.Lesson{
		ID:      1,
		Title:   "Lidské tělo",
		Content: "Kostra dospělého člověka má 206 kostí.",
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
	}
}

type fixture struct {
	handler *Handler
	server  http.Handler
	store   *session.Store
	mailbox *transcribe.Mailbox
}

func newFixture(t *testing.T, lessons ...models.Lesson) *fixture {
	t.Helper()

	mailbox := transcribe.NewMailbox()
	store := session.NewStore(func(callID string, _ session.CallSession, _ session.EvictReason) {
		mailbox.Drop(callID)
	})
	gateway := content.NewStaticGateway(lessons)
	pipeline := transcribe.New(mailbox,
		transcribe.NewDownloader(&http.Client{Timeout: time.Second}, "AC123", "secret", time.Millisecond),
		mock.New(),
		transcribe.Config{PrimaryWait: 50 * time.Millisecond, SecondaryTimeout: time.Second, SampleRateHz: 8000},
	)
	engine := conversation.New(evaluate.New(evaluate.DefaultThresholds()), gateway, nil)
	handler := NewHandler(store, engine, pipeline, mailbox, gateway,
		twiml.DefaultRecordConfig("/v1/voice/process", "/v1/voice/transcribe"))

	return &fixture{
		handler: handler,
		server:  NewRouter(handler),
		store:   store,
		mailbox: mailbox,
	}
}

func (f *fixture) post(t *testing.T, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	return rec
}

func baseForm(callSID string) url.Values {
	return url.Values{
		"CallSid": {callSID},
		"From":    {"+420777123456"},
		"To":      {"+420222333444"},
	}
}

func TestCallStartPlaysLesson(t *testing.T) {
	f := newFixture(t, fixtureLesson())

	rec := f.post(t, "/v1/voice/call", baseForm("CA100"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/xml" {
		t.Errorf("content type = %q, want application/xml", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Vítejte") {
		t.Errorf("missing welcome message: %s", body)
	}
	if !strings.Contains(body, "206 kostí") {
		t.Errorf("missing lesson text: %s", body)
	}
	if !strings.Contains(body, "<Record") {
		t.Errorf("call start must await input: %s", body)
	}

	sess, err := f.store.Get("CA100")
	if err != nil {
		t.Fatalf("session not created: %v", err)
	}
	if sess.State != session.StateLessonPlaying || sess.Locale != locale.Czech {
		t.Errorf("session = %v/%v, want LESSON_PLAYING/cs", sess.State, sess.Locale)
	}
}

func TestCallStartWithoutLessons(t *testing.T) {
	f := newFixture(t)

	rec := f.post(t, "/v1/voice/call", baseForm("CA101"))

	body := rec.Body.String()
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 even with no content", rec.Code)
	}
	if !strings.Contains(body, "<Hangup") {
		t.Errorf("expected terminal response: %s", body)
	}
	if _, err := f.store.Get("CA101"); err == nil {
		t.Error("no session should exist without a lesson")
	}
}

func TestDuplicateCallStartReplaysCurrentPrompt(t *testing.T) {
	f := newFixture(t, fixtureLesson())
	f.post(t, "/v1/voice/call", baseForm("CA110"))
	f.post(t, "/v1/voice/process", baseForm("CA110"))

	// Repeated start webhook for a session already mid-test.
	rec := f.post(t, "/v1/voice/call", baseForm("CA110"))

	body := rec.Body.String()
	if !strings.Contains(body, "Kolik kostí") {
		t.Errorf("expected current question replayed: %s", body)
	}
	if strings.Contains(body, "Vítejte") {
		t.Errorf("duplicate start must not restart the lesson: %s", body)
	}
	sess, err := f.store.Get("CA110")
	if err != nil {
		t.Fatalf("session evicted by duplicate start: %v", err)
	}
	if sess.State != session.StateTestActive || sess.Cursor != 0 {
		t.Errorf("state = %v cursor = %d, want TEST_ACTIVE at 0", sess.State, sess.Cursor)
	}
}

func TestLessonFinishedStartsTest(t *testing.T) {
	f := newFixture(t, fixtureLesson())
	f.post(t, "/v1/voice/call", baseForm("CA102"))

	rec := f.post(t, "/v1/voice/process", baseForm("CA102"))

	body := rec.Body.String()
	if !strings.Contains(body, "Kolik kostí") || !strings.Contains(body, "B) 206") {
		t.Errorf("expected first question with options: %s", body)
	}
	sess, _ := f.store.Get("CA102")
	if sess.State != session.StateTestActive {
		t.Errorf("state = %v, want TEST_ACTIVE", sess.State)
	}
}

func TestAnswerTurnUsesDeliveredTranscription(t *testing.T) {
	f := newFixture(t, fixtureLesson())
	f.post(t, "/v1/voice/call", baseForm("CA103"))
	f.post(t, "/v1/voice/process", baseForm("CA103"))

	// Async transcription callback lands before the action webhook.
	trans := baseForm("CA103")
	trans.Set("TranscriptionText", "béčko")
	trans.Set("TranscriptionStatus", "completed")
	f.post(t, "/v1/voice/transcribe", trans)

	answer := baseForm("CA103")
	answer.Set("RecordingUrl", "https://api.example.com/rec/1")
	answer.Set("RecordingDuration", "3")
	rec := f.post(t, "/v1/voice/process", answer)

	body := rec.Body.String()
	// "béčko" is not a graded match for option B; the call continues
	// either way with a valid document.
	if !strings.Contains(body, "<Say") {
		t.Errorf("expected spoken feedback: %s", body)
	}
	sess, _ := f.store.Get("CA103")
	if len(sess.Answers) != 1 {
		t.Fatalf("answers = %d, want 1 graded answer", len(sess.Answers))
	}
	if sess.Answers[0].Utterance != "béčko" {
		t.Errorf("graded utterance = %q, want transcription text", sess.Answers[0].Utterance)
	}
}

func TestDigitsNavigateFromTest(t *testing.T) {
	second := models.Lesson{ID: 2, Title: "Dýchací soustava", Content: "Plíce.", Position: 1}
	f := newFixture(t, fixtureLesson(), second)
	f.post(t, "/v1/voice/call", baseForm("CA104"))
	f.post(t, "/v1/voice/process", baseForm("CA104"))

	form := baseForm("CA104")
	form.Set("Digits", "2")
	rec := f.post(t, "/v1/voice/process", form)

	body := rec.Body.String()
	if !strings.Contains(body, "Dýchací soustava") {
		t.Errorf("expected next lesson playback: %s", body)
	}
	sess, _ := f.store.Get("CA104")
	if sess.Lesson.ID != 2 || sess.State != session.StateLessonPlaying {
		t.Errorf("lesson/state = %d/%v, want 2/LESSON_PLAYING", sess.Lesson.ID, sess.State)
	}
}

func TestEndSessionDigitEvicts(t *testing.T) {
	f := newFixture(t, fixtureLesson())
	f.post(t, "/v1/voice/call", baseForm("CA105"))

	form := baseForm("CA105")
	form.Set("Digits", "4")
	rec := f.post(t, "/v1/voice/process", form)

	if !strings.Contains(rec.Body.String(), "<Hangup") {
		t.Errorf("expected hangup: %s", rec.Body.String())
	}
	if _, err := f.store.Get("CA105"); err == nil {
		t.Error("terminal turn should evict the session")
	}
}

func TestUnknownCallGetsSafeTerminal(t *testing.T) {
	f := newFixture(t, fixtureLesson())

	rec := f.post(t, "/v1/voice/process", baseForm("CA-unknown"))

	body := rec.Body.String()
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(body, "<Hangup") {
		t.Errorf("unknown call must get a terminal document: %s", body)
	}
}

func TestStatusCallbackEvictsFinishedCall(t *testing.T) {
	f := newFixture(t, fixtureLesson())
	f.post(t, "/v1/voice/call", baseForm("CA106"))

	form := baseForm("CA106")
	form.Set("CallStatus", "completed")
	form.Set("CallDuration", "95")
	rec := f.post(t, "/v1/voice/status", form)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if _, err := f.store.Get("CA106"); err == nil {
		t.Error("completed call should be evicted")
	}
}

func TestHealthEndpoints(t *testing.T) {
	f := newFixture(t, fixtureLesson())

	for _, path := range []string{"/v1/liveness", "/v1/readiness"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		f.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, rec.Code)
		}
	}
}
