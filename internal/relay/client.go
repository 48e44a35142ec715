package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

type Client struct {
	base string
	http *http.Client
}

type Config struct {
	BaseURL string
	Timeout time.Duration
	// Tokens signs every request; nil sends unauthenticated requests.
	Tokens oauth2.TokenSource
}

func NewClient(cfg Config) *Client {
	h := &http.Client{}
	if cfg.Tokens != nil {
		h = oauth2.NewClient(context.Background(), cfg.Tokens)
	}
	if cfg.Timeout > 0 {
		h.Timeout = cfg.Timeout
	}
	return &Client{base: strings.TrimRight(cfg.BaseURL, "/"), http: h}
}

func (c *Client) CompleteLesson(ctx context.Context, req LessonRequest) (string, error) {
	var out reply
	if err := c.post(ctx, PathCompleteLesson, req, &out); err != nil {
		return "", err
	}
	return out.TxHash, nil
}

func (c *Client) CompleteCourse(ctx context.Context, req CourseRequest) (string, error) {
	var out reply
	if err := c.post(ctx, PathCompleteCourse, req, &out); err != nil {
		return "", err
	}
	return out.TxHash, nil
}

func (c *Client) IsCompleted(ctx context.Context, q CompletionQuery) (bool, error) {
	var out reply
	if err := c.post(ctx, PathIsCompleted, q, &out); err != nil {
		return false, err
	}
	if out.Completed == nil {
		return false, &Error{Op: PathIsCompleted, Status: http.StatusOK, Message: "missing completed flag"}
	}
	return *out.Completed, nil
}

func (c *Client) post(ctx context.Context, path string, in any, out *reply) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("relay %s: %w", path, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("relay %s: %w", path, err)
	}
	if res.StatusCode/100 != 2 {
		return decodeFailure(path, res.StatusCode, raw)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("relay %s: decode: %w", path, err)
	}
	if !out.Success {
		return &Error{Op: path, Status: res.StatusCode, Message: out.Error}
	}
	return nil
}

// decodeFailure reads either the JSON error body (ledger failures) or the
// plain-text body (validation failures).
func decodeFailure(path string, status int, raw []byte) error {
	var r reply
	if json.Unmarshal(raw, &r) == nil && r.Error != "" {
		return &Error{Op: path, Status: status, Message: r.Error}
	}
	msg := strings.TrimSpace(string(raw))
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &Error{Op: path, Status: status, Message: msg}
}

// IsRelayError reports whether err came back from the relay rather than the network.
func IsRelayError(err error) bool {
	var re *Error
	return errors.As(err, &re)
}
