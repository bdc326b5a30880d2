package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Store is the external image-storage collaborator. The core only ever needs
// to drop a stored avatar by its opaque public id.
type Store interface {
	Delete(ctx context.Context, publicID string) error
}

type httpStore struct {
	baseURL string
	client  *http.Client
}

func NewHTTPStore(baseURL string, timeout time.Duration) Store {
	return &httpStore{baseURL: baseURL, client: &http.Client{Timeout: timeout}}
}

func (s *httpStore) Delete(ctx context.Context, publicID string) error {
	payload := map[string]string{"public_id": publicID}
	return s.post(ctx, "/api/v1/destroy", payload)
}

func (s *httpStore) post(ctx context.Context, path string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := s.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 500 {
			return fmt.Errorf("media store %s: status %d", path, resp.StatusCode)
		}
		if resp.StatusCode >= 400 {
			return backoff.Permanent(fmt.Errorf("media store %s: status %d", path, resp.StatusCode))
		}
		return nil
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	return backoff.Retry(op, policy)
}
