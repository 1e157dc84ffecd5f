// Package api is the HTTP client for the remote developer-record service.
//
// Create, Update and Delete never fail on 4xx/5xx: they hand back the Response and the
// caller decides what counts as success (see Expect). Only transport-level failures are
// returned as errors.
package api

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

	"devroster/internal/model"

	"github.com/rs/zerolog"
)

// DefaultBaseURL is where the original backend listens.
const DefaultBaseURL = "http://127.0.0.1:8000/api/desarrolladores/"

const (
	OpCreate = "create"
	OpUpdate = "update"
	OpList   = "list"
	OpDelete = "delete"
)

// Expected success statuses per operation.
var successStatus = map[string]int{
	OpCreate: http.StatusCreated,
	OpUpdate: http.StatusOK,
	OpList:   http.StatusOK,
	OpDelete: http.StatusOK,
}

// SuccessStatus returns the status an operation must answer with to count as success.
func SuccessStatus(op string) int { return successStatus[op] }

// HTTPClient is the subset of *http.Client used here.
type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// Options configure a Client. Zero values pick defaults.
type Options struct {
	BaseURL string
	// Timeout bounds each request. Zero means no timeout.
	Timeout    time.Duration
	HTTPClient HTTPClient
	Logger     zerolog.Logger
}

// Client talks to the record API rooted at a base URL.
type Client struct {
	base *url.URL
	hc   HTTPClient
	log  zerolog.Logger
}

// Response is the raw outcome of a mutating call.
type Response struct {
	Status int
	Body   []byte
	// Message is the server-provided message (message/detail/error field) or a generic
	// description of the status.
	Message string
}

// OK reports whether the response carries the success status for op.
func (r Response) OK(op string) bool { return r.Status == SuccessStatus(op) }

// New builds a client for opts.BaseURL (DefaultBaseURL when empty).
func New(opts Options) (*Client, error) {
	raw := strings.TrimSpace(opts.BaseURL)
	if raw == "" {
		raw = DefaultBaseURL
	}
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url must be http(s): %s", raw)
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	return &Client{base: u, hc: hc, log: opts.Logger}, nil
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string { return c.base.String() }

// Create posts a new record; the server assigns the id. Success is 201.
func (c *Client) Create(ctx context.Context, d model.Developer) (Response, error) {
	d.ID = ""
	return c.send(ctx, OpCreate, http.MethodPost, "crear/", d)
}

// Update replaces the record with the given id. Success is 200.
func (c *Client) Update(ctx context.Context, d model.Developer, id model.ID) (Response, error) {
	if id.IsZero() {
		return Response{}, &TransportError{Op: OpUpdate, Err: fmt.Errorf("missing id")}
	}
	return c.send(ctx, OpUpdate, http.MethodPost, "actualizar/"+idSegment(id), d)
}

// Delete removes the record with the given id. Success is 200.
func (c *Client) Delete(ctx context.Context, id model.ID) (Response, error) {
	if id.IsZero() {
		return Response{}, &TransportError{Op: OpDelete, Err: fmt.Errorf("missing id")}
	}
	return c.send(ctx, OpDelete, http.MethodDelete, "eliminar/"+idSegment(id), nil)
}

// List fetches the full collection in server order.
func (c *Client) List(ctx context.Context) ([]model.Developer, error) {
	resp, err := c.send(ctx, OpList, http.MethodGet, "listado", nil)
	if err != nil {
		return nil, err
	}
	if err := Expect(OpList, resp); err != nil {
		return nil, err
	}
	out := []model.Developer{}
	body := bytes.TrimSpace(resp.Body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return out, nil
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &TransportError{Op: OpList, Err: fmt.Errorf("decode body: %w", err)}
	}
	return out, nil
}

// Expect converts a response with the wrong status into a *StatusError.
func Expect(op string, resp Response) error {
	if resp.OK(op) {
		return nil
	}
	return &StatusError{Op: op, Status: resp.Status, Message: resp.Message}
}

// endpoint resolves an escaped relative path against the base URL.
func (c *Client) endpoint(path string) (string, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return "", err
	}
	return c.base.ResolveReference(ref).String(), nil
}

// idSegment escapes id as a single path segment. Dot segments are percent-encoded
// so path resolution cannot climb out of the route.
func idSegment(id model.ID) string {
	s := url.PathEscape(id.String())
	if s == "." || s == ".." {
		s = strings.ReplaceAll(s, ".", "%2E")
	}
	return s
}

func (c *Client) send(ctx context.Context, op, method, path string, payload any) (Response, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return Response{}, &TransportError{Op: op, Err: fmt.Errorf("marshal body: %w", err)}
		}
		body = bytes.NewReader(b)
	}

	target, err := c.endpoint(path)
	if err != nil {
		return Response{}, &TransportError{Op: op, Err: fmt.Errorf("build url: %w", err)}
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return Response{}, &TransportError{Op: op, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	res, err := c.hc.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("op", op).Str("method", method).Str("url", target).Msg("request failed")
		return Response{}, &TransportError{Op: op, Err: err}
	}
	defer res.Body.Close()

	b, err := io.ReadAll(res.Body)
	if err != nil {
		return Response{}, &TransportError{Op: op, Err: fmt.Errorf("read body: %w", err)}
	}

	c.log.Debug().
		Str("op", op).
		Str("method", method).
		Str("url", target).
		Int("status", res.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("api request")

	return Response{Status: res.StatusCode, Body: b, Message: messageFrom(res.StatusCode, b)}, nil
}

// messageFrom picks the most useful human message out of a response body.
func messageFrom(status int, body []byte) string {
	var obj map[string]any
	if err := json.Unmarshal(body, &obj); err == nil {
		for _, k := range []string{"message", "mensaje", "detail", "error"} {
			if s, ok := obj[k].(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	if status >= 200 && status < 300 {
		return http.StatusText(status)
	}
	return fmt.Sprintf("request failed with status code %d", status)
}
