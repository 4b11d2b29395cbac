package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/kneeraazon404/JSON-from-PDF-to-CSV/internal/common"
	"github.com/kneeraazon404/JSON-from-PDF-to-CSV/internal/retry"
)

// betaHeader opts every request into the assistants API surface.
const betaHeader = "assistants=v1"

// StatusError is a non-2xx response. Message carries the API error envelope
// text when the body had one, otherwise the raw body.
type StatusError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *StatusError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("openai status %d (%s): %s", e.StatusCode, e.Type, e.Message)
	}
	return fmt.Sprintf("openai status %d: %s", e.StatusCode, e.Message)
}

func newStatusError(code int, raw []byte) *StatusError {
	var env struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &env); err == nil && env.Error.Message != "" {
		return &StatusError{StatusCode: code, Type: env.Error.Type, Message: env.Error.Message}
	}
	return &StatusError{StatusCode: code, Message: strings.TrimSpace(string(raw))}
}

// retryableStatus: 429 and 5xx heal on their own; other 4xx never do.
func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

// do executes one API call with auth headers, client-side pacing, and
// transient retry. build produces the request body and content type per
// attempt (multipart bodies cannot be replayed); nil means no body.
func (c *Client) do(ctx context.Context, method, path string, build func() (io.Reader, string, error)) ([]byte, error) {
	rid := requestID(ctx)
	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + path

	var out []byte
	attempt := 0
	err := c.retry.Do(ctx, func(ctx context.Context) error {
		attempt++
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return retry.Permanent(err)
			}
		}

		var body io.Reader
		var contentType string
		if build != nil {
			var err error
			body, contentType, err = build()
			if err != nil {
				return retry.Permanent(err)
			}
		}

		req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
		if err != nil {
			return retry.Permanent(err)
		}
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
		req.Header.Set("OpenAI-Beta", betaHeader)
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			c.log.Warn("openai.request.retryable",
				"req_id", rid, "method", method, "path", path,
				"attempt", attempt, "error", err)
			return fmt.Errorf("openai http error: %w", err)
		}
		defer func() {
			if cerr := resp.Body.Close(); cerr != nil {
				c.log.Warn("openai.body_close_error", "req_id", rid, "error", cerr)
			}
		}()

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read openai response: %w", err)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			serr := newStatusError(resp.StatusCode, raw)
			if !retryableStatus(resp.StatusCode) {
				return retry.Permanent(serr)
			}
			c.log.Warn("openai.request.retryable",
				"req_id", rid, "method", method, "path", path,
				"attempt", attempt, "status", resp.StatusCode)
			return serr
		}

		out = raw
		return nil
	})
	return out, err
}

// postJSON marshals body, POSTs it, and decodes the response into out.
func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	raw, err := c.do(ctx, http.MethodPost, path, func() (io.Reader, string, error) {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, "", fmt.Errorf("marshal request: %w", err)
		}
		return bytes.NewReader(b), "application/json", nil
	})
	if err != nil {
		return err
	}
	return decodeJSON(raw, out)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	raw, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return decodeJSON(raw, out)
}

// deleteResource issues a DELETE and verifies the API acknowledged it.
func (c *Client) deleteResource(ctx context.Context, path string) error {
	raw, err := c.do(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return err
	}
	var d deleted
	if err := decodeJSON(raw, &d); err != nil {
		return err
	}
	if !d.Deleted {
		return fmt.Errorf("delete %s: not acknowledged", path)
	}
	return nil
}

func decodeJSON(raw []byte, out any) error {
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode openai response: %w", err)
	}
	return nil
}

// requestID reuses the caller's correlation id so one document's calls group
// together in the logs; a fresh id covers direct callers.
func requestID(ctx context.Context) string {
	if rid := common.RequestIDFromContext(ctx); rid != "" {
		return rid
	}
	return uuid.New().String()
}
