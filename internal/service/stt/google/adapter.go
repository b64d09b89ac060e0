// Package google provides a Google Cloud Speech-to-Text adapter.
package google

import (
	"context"
	"errors"

	speech "cloud.google.com/go/speech/apiv1"
	speechpb "google.golang.org/genproto/googleapis/cloud/speech/v1"

	"voice-tutor-service/internal/service/stt"
)

// ErrNoSpeech is returned when the service recognized nothing in the
// recording.
var ErrNoSpeech = errors.New("no speech recognized")

// Adapter implements stt.Adapter using Google Cloud Speech-to-Text.
type Adapter struct {
	client *speech.Client
}

// New creates a new Google STT adapter.
// Requires GOOGLE_APPLICATION_CREDENTIALS environment variable to be set.
func New(ctx context.Context) (*Adapter, error) {
	c, err := speech.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &Adapter{client: c}, nil
}

// Name returns the provider identifier.
func (a *Adapter) Name() string {
	return "google"
}

// Transcribe submits a recorded utterance for batch recognition. The
// vocabulary hints are passed as a speech context so short answers
// ("B", "dva") are preferred over free-form dictation.
func (a *Adapter) Transcribe(ctx context.Context, audio []byte, opts stt.Options) (stt.Result, error) {
	sampleRate := opts.SampleRateHz
	if sampleRate == 0 {
		sampleRate = 8000
	}

	cfg := &speechpb.RecognitionConfig{
		Encoding:        speechpb.RecognitionConfig_LINEAR16,
		SampleRateHertz: sampleRate,
		LanguageCode:    opts.LanguageTag,
	}
	if len(opts.Hints) > 0 {
		cfg.SpeechContexts = []*speechpb.SpeechContext{{Phrases: opts.Hints}}
	}

	resp, err := a.client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: cfg,
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	})
	if err != nil {
		return stt.Result{}, err
	}

	for _, r := range resp.Results {
		if len(r.Alternatives) == 0 {
			continue
		}
		alt := r.Alternatives[0]
		return stt.Result{Text: alt.Transcript, Confidence: float64(alt.Confidence)}, nil
	}
	return stt.Result{}, ErrNoSpeech
}

// Close releases the underlying client.
func (a *Adapter) Close() error {
	return a.client.Close()
}
