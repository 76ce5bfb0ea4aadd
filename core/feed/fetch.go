package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// FetchError indicates the feed could not be retrieved after all retries.
// It is systemic: without a feed snapshot there is nothing to reconcile.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching calendar feed: %v", e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Fetcher retrieves the raw iCal feed over HTTPS.
type Fetcher struct {
	cfg    Config
	client *http.Client
	logg   *zap.Logger
}

// NewFetcher creates a feed fetcher with the configured timeout.
func NewFetcher(cfg Config, logg *zap.Logger) *Fetcher {
	return &Fetcher{
		cfg: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		logg: logg,
	}
}

// Fetch downloads the feed, retrying transient failures with exponential
// backoff up to the configured retry cap. Client errors (4xx) are treated as
// permanent since retrying a bad URL or revoked export cannot succeed.
func (f *Fetcher) Fetch(ctx context.Context) ([]byte, error) {
	var body []byte

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.cfg.URL, nil)
		if err != nil {
			return backoff.Permanent(err)
		}

		resp, err := f.client.Do(req)
		if err != nil {
			f.logg.Warn("feed request failed, will retry", zap.Error(err))
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return backoff.Permanent(fmt.Errorf("feed returned status %d", resp.StatusCode))
		}
		if resp.StatusCode != http.StatusOK {
			f.logg.Warn("feed returned non-OK status, will retry", zap.Int("status", resp.StatusCode))
			return fmt.Errorf("feed returned status %d", resp.StatusCode)
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(f.cfg.MaxRetries)),
		ctx,
	)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, &FetchError{URL: f.cfg.URL, Err: err}
	}

	return body, nil
}
