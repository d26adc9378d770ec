// Package leadapi is a client for the lead automation REST API. Responses
// wrap their payload in a JSON envelope with the business data under "data".
package leadapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

const maxErrorBody = 512

// Client is a minimal HTTP client for the lead API. It does not retry.
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

// New creates a client. baseURL should be like "http://localhost:5000".
func New(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger.With().Str("component", "leadapi").Logger(),
	}
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// do sends one request and returns the raw response body of a successful
// envelope.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, in any) ([]byte, error) {
	var body io.Reader = http.NoBody
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("%s: encode request: %w", op, err)
		}
		body = bytes.NewReader(b)
	}
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("op", op).Str("request_id", reqID).Msg("api request failed")
		return nil, &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	c.logger.Debug().
		Str("op", op).
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Str("request_id", reqID).
		Msg("api request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, serverError(op, resp.StatusCode, b)
	}
	if ok := gjson.GetBytes(b, "success"); ok.Exists() && !ok.Bool() {
		return nil, serverError(op, resp.StatusCode, b)
	}
	return b, nil
}

func serverError(op string, status int, body []byte) *ServerError {
	msg := ""
	if gjson.ValidBytes(body) {
		msg = gjson.GetBytes(body, "error").String()
	}
	raw := string(body)
	if len(raw) > maxErrorBody {
		raw = raw[:maxErrorBody]
	}
	return &ServerError{Op: op, Status: status, Message: msg, Body: raw}
}

// decode unmarshals the envelope member at path into out. A missing member
// leaves out untouched.
func decode(op string, body []byte, path string, out any) error {
	res := gjson.GetBytes(body, path)
	if !res.Exists() || res.Type == gjson.Null {
		return nil
	}
	if err := json.Unmarshal([]byte(res.Raw), out); err != nil {
		return fmt.Errorf("%s: decode %s: %w", op, path, err)
	}
	return nil
}
