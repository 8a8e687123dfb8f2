// Package notes creates a collaborative notes document on a HackMD-style
// pad service. Note creation is strictly best-effort: a meeting without a
// minutes pad is still a meeting, so every failure degrades to "no link".
package notes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"meetbot/internal/log"
)

const defaultBaseURL = "https://hackmd.io"

// CreateError reports a failed note creation. Callers log it and continue.
type CreateError struct {
	Err error
}

func (e *CreateError) Error() string { return fmt.Sprintf("notes: create failed: %v", e.Err) }

func (e *CreateError) Unwrap() error { return e.Err }

// Client posts markdown to the pad service's anonymous create endpoint.
type Client struct {
	http *http.Client
	base string
}

// New builds a notes client. baseURL defaults to the hackmd.io service.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		http: &http.Client{
			Timeout: 15 * time.Second,
			// The create endpoint answers with a redirect to the new
			// pad; the Location header is the result, so don't follow.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		base: strings.TrimSuffix(baseURL, "/"),
	}
}

// Create posts content as a new pad and returns the pad URL.
func (c *Client) Create(ctx context.Context, content string) (string, error) {
	var padURL string
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/new", strings.NewReader(content))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "text/markdown")

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		io.Copy(io.Discard, resp.Body)

		if resp.StatusCode < 300 || resp.StatusCode >= 400 {
			err := fmt.Errorf("unexpected status %s", resp.Status)
			if resp.StatusCode >= 500 {
				return err
			}
			return backoff.Permanent(err)
		}
		loc := resp.Header.Get("Location")
		if loc == "" {
			return backoff.Permanent(errors.New("redirect without Location header"))
		}
		if strings.HasPrefix(loc, "/") {
			loc = c.base + loc
		}
		padURL = loc
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 2), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return "", &CreateError{Err: err}
	}
	return padURL, nil
}

// CreateBestEffort creates a pad and swallows failures, logging the content
// that would have been posted so nothing is lost.
func (c *Client) CreateBestEffort(ctx context.Context, content string) string {
	url, err := c.Create(ctx, content)
	if err != nil {
		log.Error("continuing without a notes document", err)
		log.Info("note body that would have been created", "body", content)
		return ""
	}
	return url
}
