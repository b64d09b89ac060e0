// Package transcribe resolves a caller recording into usable text via a
// primary/secondary/deterministic-fallback cascade. The cascade never
// fails: a call must always move forward, so the last tier synthesizes
// an answer instead of surfacing an error.
package transcribe

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"voice-tutor-service/internal/locale"
	"voice-tutor-service/internal/models"
	"voice-tutor-service/internal/observability/metrics"
	"voice-tutor-service/internal/service/stt"
	"voice-tutor-service/internal/textnorm"
)

var errSecondaryUnavailable = errors.New("secondary transcription unavailable")

// Tier identifies which cascade step produced a result.
type Tier string

const (
	TierPrimary   Tier = "primary"
	TierSecondary Tier = "secondary"
	TierFallback  Tier = "fallback"
)

// Result is the outcome of resolving one recording.
type Result struct {
	Text string
	Tier Tier

	// AutoAnswered marks a deterministic fallback: the text was
	// synthesized, not spoken by the caller.
	AutoAnswered bool

	// Suspect marks a primary transcript that failed the nonsense
	// heuristic but was used anyway.
	Suspect bool
}

// Request carries everything one resolution needs.
type Request struct {
	CallID    string
	Recording models.RecordingRef
	Locale    locale.Locale
	Question  models.Question
}

// Config are the pipeline timing knobs.
type Config struct {
	// PrimaryWait bounds how long a turn waits for the provider's
	// asynchronous transcription callback.
	PrimaryWait time.Duration
	// SecondaryTimeout bounds the download plus recognize round trip.
	SecondaryTimeout time.Duration
	// SampleRateHz of provider recordings.
	SampleRateHz int32
}

// DefaultConfig returns production timing defaults.
func DefaultConfig() Config {
	return Config{
		PrimaryWait:      2 * time.Second,
		SecondaryTimeout: 12 * time.Second,
		SampleRateHz:     8000,
	}
}

// Pipeline resolves recordings. Safe for concurrent use; each call's
// turn runs the cascade independently.
type Pipeline struct {
	mailbox    *Mailbox
	downloader *Downloader
	adapter    stt.Adapter
	cfg        Config
	metrics    *metrics.Metrics
}

// New creates a pipeline. The adapter may be nil, in which case the
// secondary tier is skipped and failures fall through to the
// deterministic tier.
func New(mailbox *Mailbox, downloader *Downloader, adapter stt.Adapter, cfg Config) *Pipeline {
	return &Pipeline{
		mailbox:    mailbox,
		downloader: downloader,
		adapter:    adapter,
		cfg:        cfg,
		metrics:    metrics.DefaultMetrics,
	}
}

// Resolve turns a recording into text. It never fails; the worst case
// is a fallback-tier result carrying the current question's correct
// answer letter.
func (p *Pipeline) Resolve(ctx context.Context, req Request) Result {
	logger := log.With().Str("callSid", req.CallID).Logger()

	// Tier 1: the provider's own transcription callback.
	waitCtx, cancel := context.WithTimeout(ctx, p.cfg.PrimaryWait)
	cb, ok := p.mailbox.Await(waitCtx, req.CallID)
	cancel()

	if ok && cb.Status == models.TranscriptionCompleted && cb.Text != "" {
		if !p.looksNonsense(cb.Text, req) {
			p.metrics.RecordTranscription(string(TierPrimary))
			return Result{Text: cb.Text, Tier: TierPrimary}
		}
		logger.Warn().Str("text", cb.Text).Msg("Primary transcript looks like noise, verifying with secondary")
		if second, err := p.secondary(ctx, req); err == nil {
			p.metrics.RecordTranscription(string(TierSecondary))
			return second
		}
		// Suspicious but usable beats nothing.
		p.metrics.RecordTranscription(string(TierPrimary))
		return Result{Text: cb.Text, Tier: TierPrimary, Suspect: true}
	}

	// Tier 2: download the recording and run our own recognition.
	if second, err := p.secondary(ctx, req); err == nil {
		p.metrics.RecordTranscription(string(TierSecondary))
		return second
	} else if p.adapter != nil {
		logger.Warn().Err(err).Msg("Secondary transcription failed, using deterministic fallback")
		p.metrics.RecordSTTError(p.adapter.Name(), "secondary_failed")
	}

	// Tier 3: deterministic fallback so the call keeps moving.
	p.metrics.RecordTranscription(string(TierFallback))
	return Result{
		Text:         req.Question.CorrectLetter(),
		Tier:         TierFallback,
		AutoAnswered: true,
	}
}

func (p *Pipeline) secondary(ctx context.Context, req Request) (Result, error) {
	if p.adapter == nil || p.downloader == nil || req.Recording.URL == "" {
		return Result{}, errSecondaryUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, p.cfg.SecondaryTimeout)
	defer cancel()

	audio, err := p.downloader.Fetch(ctx, req.Recording)
	if err != nil {
		return Result{}, err
	}

	res, err := p.adapter.Transcribe(ctx, audio, stt.Options{
		LanguageTag:  req.Locale.LanguageTag(),
		SampleRateHz: p.cfg.SampleRateHz,
		Hints:        vocabularyHints(req.Locale, req.Question),
	})
	if err != nil {
		return Result{}, err
	}
	if res.Text == "" {
		return Result{}, errSecondaryUnavailable
	}
	return Result{Text: res.Text, Tier: TierSecondary}, nil
}

// looksNonsense applies the heuristic check on primary transcripts:
// very short output, or plain ASCII with none of the locale's letters
// and none of the expected answer tokens, usually means the provider
// transcribed noise.
func (p *Pipeline) looksNonsense(text string, req Request) bool {
	norm := textnorm.Normalize(text)
	if len([]rune(norm)) < 2 {
		return true
	}
	if req.Question.Kind != models.KindMultipleChoice {
		return false
	}
	for _, r := range text {
		for _, l := range req.Locale.LocalLetters() {
			if r == l {
				return false
			}
		}
	}
	for _, hint := range vocabularyHints(req.Locale, req.Question) {
		if len(strings.Fields(hint)) <= 1 {
			if textnorm.ContainsWord(norm, hint) {
				return false
			}
		} else if textnorm.Contains(norm, hint) {
			return false
		}
	}
	return true
}

// vocabularyHints builds the expected answer space for a question:
// answer letters, locale number words and the option/keyword
// vocabulary.
func vocabularyHints(loc locale.Locale, q models.Question) []string {
	var hints []string

	optionCount := len(q.Options)
	if optionCount == 0 {
		optionCount = 4
	}
	for i := 0; i < optionCount && i < 26; i++ {
		hints = append(hints, string(rune('A'+i)))
	}
	for i, w := range loc.NumberWords() {
		if i >= optionCount {
			break
		}
		hints = append(hints, w)
	}
	for _, opt := range q.Options {
		hints = append(hints, opt)
	}
	hints = append(hints, q.Keywords...)
	if q.Answer != "" {
		hints = append(hints, q.Answer)
	}
	for _, pair := range q.Pairs {
		hints = append(hints, pair.Term, pair.Definition)
	}
	return hints
}
