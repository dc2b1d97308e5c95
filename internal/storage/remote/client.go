// Package remote talks to the study site's REST backend. It implements
// storage.RecordStore over POST /api/StudyRecord and
// GET /api/StudyRecord/user/{id}.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/julianstephens/studylit/internal/constants"
	"github.com/julianstephens/studylit/internal/logger"
	"github.com/julianstephens/studylit/internal/models"
	"github.com/julianstephens/studylit/internal/session"
	"github.com/julianstephens/studylit/internal/storage"
)

type unauthorizedError struct{}

func (unauthorizedError) Error() string { return "not authorized: session missing or expired" }
func (unauthorizedError) Hint() string {
	return "log in again and store the new token with '" + constants.AppName + " session set'"
}

// ErrUnauthorized is returned when no token is stored or the backend answers 401/403.
var ErrUnauthorized error = unauthorizedError{}

// StatusError is any other non-2xx answer from the backend.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: backend returned %d", e.Method, e.Path, e.Code)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Client is a storage.RecordStore backed by the REST API.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	tokens  session.TokenStore
	limiter *rate.Limiter
}

var _ storage.RecordStore = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.http = c }
}

// WithLimiter replaces the default request throttle.
func WithLimiter(l *rate.Limiter) Option {
	return func(cl *Client) { cl.limiter = l }
}

// NewClient returns a client for the backend at baseURL, e.g. https://localhost:5001.
func NewClient(baseURL string, tokens session.TokenStore, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid backend URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid backend URL %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid backend URL %q: missing host", baseURL)
	}

	c := &Client{
		baseURL: u,
		http:    &http.Client{Timeout: constants.RemoteRequestTimeout},
		tokens:  tokens,
		limiter: rate.NewLimiter(rate.Limit(constants.RemoteRequestsPerSec), constants.RemoteRequestBurst),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the backend root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// recordDTO mirrors the backend's JSON.
type recordDTO struct {
	ID           flexibleID `json:"id,omitempty"`
	UserID       int64      `json:"userId"`
	WorkMinutes  int        `json:"workMinutes"`
	BreakMinutes int        `json:"breakMinutes"`
	RecordDate   time.Time  `json:"recordDate"`
}

// flexibleID accepts numeric and string ids.
type flexibleID string

func (f *flexibleID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("record id: %w", err)
	}
	*f = flexibleID(n.String())
	return nil
}

func (c *Client) Create(ctx context.Context, rec models.NewStudyRecord) (string, error) {
	if err := storage.ValidateNewRecord(rec); err != nil {
		return "", err
	}

	body, err := json.Marshal(recordDTO{
		UserID:       rec.UserID,
		WorkMinutes:  rec.WorkMinutes,
		BreakMinutes: rec.BreakMinutes,
		RecordDate:   rec.RecordDate.UTC(),
	})
	if err != nil {
		return "", fmt.Errorf("encode study record: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, constants.StudyRecordPath, body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return "", err
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read create response: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return "", nil
	}
	var created recordDTO
	if err := json.Unmarshal(raw, &created); err != nil {
		// The record was stored; only the echo is unreadable.
		logger.Warn("Unreadable create response", "error", err)
		return "", nil
	}
	return string(created.ID), nil
}

func (c *Client) ListByUser(ctx context.Context, userID int64) ([]models.StudyRecord, error) {
	path := constants.StudyRecordPath + "/user/" + strconv.FormatInt(userID, 10)
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return []models.StudyRecord{}, nil
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var dtos []recordDTO
	if err := json.NewDecoder(resp.Body).Decode(&dtos); err != nil {
		return nil, fmt.Errorf("decode study records: %w", err)
	}

	records := make([]models.StudyRecord, 0, len(dtos))
	for _, d := range dtos {
		records = append(records, models.StudyRecord{
			ID:           string(d.ID),
			UserID:       d.UserID,
			WorkMinutes:  d.WorkMinutes,
			BreakMinutes: d.BreakMinutes,
			RecordDate:   d.RecordDate.UTC(),
		})
	}
	return records, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	token, err := c.tokens.Token()
	if err != nil {
		if errors.Is(err, session.ErrNoToken) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("read session token: %w", err)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	endpoint := c.baseURL.JoinPath(path)
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		logger.Error("Backend request failed", "method", method, "path", path, "error", err)
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	logger.Debug("Backend request", "method", method, "path", path, "status", resp.StatusCode)
	return resp, nil
}

func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{
			Method: resp.Request.Method,
			Path:   resp.Request.URL.Path,
			Code:   resp.StatusCode,
			Body:   strings.TrimSpace(string(snippet)),
		}
	}
	return nil
}
