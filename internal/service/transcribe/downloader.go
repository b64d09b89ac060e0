package transcribe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"voice-tutor-service/internal/models"
)

// Downloader fetches caller recordings from the telephony provider.
// Recordings are not always ready the moment the action callback fires,
// so a 404 is retried once after a short fixed delay.
type Downloader struct {
	client     *http.Client
	accountSID string
	authToken  string
	retryDelay time.Duration
}

// NewDownloader creates a recording downloader with provider
// credentials.
func NewDownloader(client *http.Client, accountSID, authToken string, retryDelay time.Duration) *Downloader {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if retryDelay <= 0 {
		retryDelay = 2 * time.Second
	}
	return &Downloader{
		client:     client,
		accountSID: accountSID,
		authToken:  authToken,
		retryDelay: retryDelay,
	}
}

// Fetch downloads the raw recording audio.
func (d *Downloader) Fetch(ctx context.Context, ref models.RecordingRef) ([]byte, error) {
	audio, status, err := d.get(ctx, ref.URL)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		// Recording not yet available; one delayed retry.
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(d.retryDelay):
		}
		audio, status, err = d.get(ctx, ref.URL)
		if err != nil {
			return nil, err
		}
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("recording download failed with status %d", status)
	}
	return audio, nil
}

func (d *Downloader) get(ctx context.Context, url string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build recording request: %w", err)
	}
	if d.accountSID != "" {
		req.SetBasicAuth(d.accountSID, d.authToken)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("download recording: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, nil
	}
	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read recording body: %w", err)
	}
	return audio, resp.StatusCode, nil
}
