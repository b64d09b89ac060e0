// Package http exposes the telephony webhook surface. Every handler
// answers a valid TwiML document, including on internal failures; a
// broken response here strands a live phone call.
package http

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"voice-tutor-service/internal/content"
	"voice-tutor-service/internal/locale"
	"voice-tutor-service/internal/models"
	"voice-tutor-service/internal/observability/logging"
	"voice-tutor-service/internal/observability/metrics"
	"voice-tutor-service/internal/service/conversation"
	"voice-tutor-service/internal/service/session"
	"voice-tutor-service/internal/service/transcribe"
	"voice-tutor-service/internal/twiml"
)

// Handler serves the voice webhook endpoints.
type Handler struct {
	store     *session.Store
	engine    *conversation.Engine
	pipeline  *transcribe.Pipeline
	mailbox   *transcribe.Mailbox
	gateway   content.Gateway
	recordCfg twiml.RecordConfig
	logger    zerolog.Logger
	metrics   *metrics.Metrics
}

// NewHandler wires the webhook surface.
func NewHandler(
	store *session.Store,
	engine *conversation.Engine,
	pipeline *transcribe.Pipeline,
	mailbox *transcribe.Mailbox,
	gateway content.Gateway,
	recordCfg twiml.RecordConfig,
) *Handler {
	return &Handler{
		store:     store,
		engine:    engine,
		pipeline:  pipeline,
		mailbox:   mailbox,
		gateway:   gateway,
		recordCfg: recordCfg,
		logger:    logging.WithComponent("http"),
		metrics:   metrics.DefaultMetrics,
	}
}

// HandleCall answers the initial call webhook: detect locale, load the
// first lesson, create the session and start playback.
func (h *Handler) HandleCall(w http.ResponseWriter, r *http.Request) {
	req := h.parse(r)
	loc := locale.FromNumber(req.From)
	log := logging.WithCall(req.CallSID)

	if req.CallSID == "" {
		h.respond(w, conversation.Output{Feedback: locale.Apology(loc), Terminal: true}, loc)
		return
	}

	lesson, err := h.gateway.InitialLesson(r.Context(), req.From)
	if err != nil {
		if !errors.Is(err, content.ErrNoLesson) {
			log.Error().Err(err).Msg("initial lesson lookup failed")
		}
		h.respond(w, conversation.Output{Feedback: locale.Apology(loc), Terminal: true}, loc)
		return
	}

	sess := session.CallSession{
		CallID: req.CallSID,
		Caller: req.From,
		Locale: loc,
		Lesson: lesson,
		State:  session.StateLessonPlaying,
	}
	if _, err := h.store.Create(sess); err != nil {
		// A duplicate start webhook for a live call: the stored
		// session keeps its state, only the prompt is replayed.
		log.Warn().Err(err).Msg("session already exists for call start")
		if snap, getErr := h.store.Get(req.CallSID); getErr == nil {
			h.respond(w, replayOutput(snap), snap.Locale)
			return
		}
	}

	log.Info().
		Str("caller", req.From).
		Str("locale", string(loc)).
		Int64("lessonId", lesson.ID).
		Msg("call started")

	h.respond(w, conversation.Output{
		Feedback:   locale.Welcome(loc),
		Prompt:     lesson.SpokenText(),
		AwaitInput: true,
	}, loc)
}

// replayOutput rebuilds what a duplicate start webhook should hear for
// a live session: the current question mid-test, the menu in the menu,
// the lesson opening otherwise.
func replayOutput(s session.CallSession) conversation.Output {
	switch s.State {
	case session.StateTestActive:
		if q, ok := s.CurrentQuestion(); ok {
			return conversation.Output{
				Prompt:     conversation.FormatQuestion(q, s.Locale),
				AwaitInput: true,
			}
		}
	case session.StateNavigationMenu:
		return conversation.Output{
			Prompt:     locale.NavigationMenu(s.Locale),
			AwaitInput: true,
		}
	}
	return conversation.Output{
		Feedback:   locale.Welcome(s.Locale),
		Prompt:     s.Lesson.SpokenText(),
		AwaitInput: true,
	}
}

// HandleProcess answers the recording action callback: build the turn's
// signal, run the engine under the session lock, render the output.
func (h *Handler) HandleProcess(w http.ResponseWriter, r *http.Request) {
	req := h.parse(r)
	log := logging.WithCall(req.CallSID)

	snap, err := h.store.Get(req.CallSID)
	if err != nil {
		log.Warn().Err(err).Msg("turn for unknown call")
		h.respondUnknownCall(w, req)
		return
	}

	// Slow transcription work happens outside the session lock; the
	// provider serializes webhooks per call.
	sig := h.buildSignal(r, req, snap)

	var out conversation.Output
	_, err = h.store.Mutate(req.CallSID, func(s *session.CallSession) error {
		if rec, ok := req.Recording(); ok {
			s.LastRecording = rec
		}
		out = h.engine.Process(r.Context(), sig, s)
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Msg("session vanished mid-turn")
		h.respondUnknownCall(w, req)
		return
	}

	if out.Terminal {
		h.store.Evict(req.CallSID, session.EvictTerminal)
	}
	h.respond(w, out, snap.Locale)
}

// buildSignal maps one webhook onto an engine signal given the state
// the session was in when the webhook arrived.
func (h *Handler) buildSignal(r *http.Request, req models.WebhookRequest, snap session.CallSession) conversation.Signal {
	if req.Digits != "" {
		if cmd, ok := locale.CommandFromDigit(req.Digits); ok {
			return conversation.Navigation{Command: cmd}
		}
	}

	switch snap.State {
	case session.StateLessonPlaying:
		// Playback ran out; provider-side transcription of anything
		// said over the lesson may ride along on the callback.
		if req.TranscriptionStatus == models.TranscriptionCompleted && req.TranscriptionText != "" {
			return conversation.Utterance{Text: req.TranscriptionText}
		}
		return conversation.LessonFinished{}
	case session.StateTestActive, session.StateNavigationMenu:
		rec, ok := req.Recording()
		if !ok {
			// Stray callback without audio; the engine re-prompts.
			return conversation.LessonFinished{}
		}
		q, _ := snap.CurrentQuestion()
		res := h.pipeline.Resolve(r.Context(), transcribe.Request{
			CallID:    req.CallSID,
			Recording: rec,
			Locale:    snap.Locale,
			Question:  q,
		})
		return conversation.Utterance{
			Text:         res.Text,
			AutoAnswered: res.AutoAnswered,
			Suspect:      res.Suspect,
		}
	default:
		return conversation.LessonFinished{}
	}
}

// HandleTranscribe receives the provider's asynchronous transcription
// callback and parks it for the turn awaiting it.
func (h *Handler) HandleTranscribe(w http.ResponseWriter, r *http.Request) {
	req := h.parse(r)
	if req.CallSID == "" {
		h.respondEmpty(w)
		return
	}

	h.mailbox.Deliver(req.CallSID, transcribe.Callback{
		Text:   req.TranscriptionText,
		Status: req.TranscriptionStatus,
	})
	log := logging.WithCall(req.CallSID)
	log.Debug().
		Str("status", req.TranscriptionStatus).
		Msg("transcription callback delivered")
	h.respondEmpty(w)
}

// HandleStatus receives call status events and evicts finished calls.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	req := h.parse(r)
	log := logging.WithCall(req.CallSID)
	log.Info().
		Str("callStatus", req.CallStatus).
		Int("callDuration", req.CallDuration).
		Msg("call status event")

	switch req.CallStatus {
	case models.CallCompleted, models.CallFailed, models.CallBusy, models.CallNoAnswer:
		h.store.Evict(req.CallSID, session.EvictTerminal)
	}
	h.respondEmpty(w)
}

func (h *Handler) parse(r *http.Request) models.WebhookRequest {
	if err := r.ParseForm(); err != nil {
		h.logger.Warn().Err(err).Msg("malformed webhook form")
	}
	return models.WebhookFromForm(r.PostForm)
}

// respondUnknownCall ends a call the store no longer knows about.
func (h *Handler) respondUnknownCall(w http.ResponseWriter, req models.WebhookRequest) {
	loc := locale.FromNumber(req.From)
	h.respond(w, conversation.Output{Feedback: locale.Goodbye(loc), Terminal: true}, loc)
}

func (h *Handler) respond(w http.ResponseWriter, out conversation.Output, loc locale.Locale) {
	body, err := twiml.Render(out, loc, h.recordCfg)
	if err != nil {
		h.logger.Error().Err(err).Msg("twiml render failed")
		h.respondEmpty(w)
		return
	}
	w.Header().Set("Content-Type", twiml.ContentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// respondEmpty writes a bare TwiML document, valid but silent.
func (h *Handler) respondEmpty(w http.ResponseWriter) {
	w.Header().Set("Content-Type", twiml.ContentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><Response></Response>`))
}
