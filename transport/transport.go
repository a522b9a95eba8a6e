// Package transport is the HTTP execution primitive shared by every vendor
// adapter: JSON in, JSON out, one structured error on any failure.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// maxErrorBody bounds how much of a failed response body is kept in StatusError.
const maxErrorBody = 1024

// Engine executes a prepared HTTP request. *http.Client satisfies it.
type Engine interface {
	Do(req *http.Request) (*http.Response, error)
}

// EngineFunc adapts a function to the Engine interface.
type EngineFunc func(req *http.Request) (*http.Response, error)

func (f EngineFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }

// Transport issues JSON requests against a fixed base URL with preconfigured
// headers. It is safe for concurrent use once constructed.
type Transport struct {
	name     string
	baseURL  string
	headers  http.Header
	query    url.Values
	engine   Engine
	timeout  time.Duration
	logger   *slog.Logger
	logLevel LogLevel
	redact   map[string]bool
}

// Option configures a Transport.
type Option func(*Transport)

// WithName sets the name used in errors and log lines (e.g. "openai").
func WithName(name string) Option {
	return func(t *Transport) { t.name = name }
}

// WithHeader adds a default header sent on every request.
func WithHeader(key, value string) Option {
	return func(t *Transport) { t.headers.Set(key, value) }
}

// WithQuery adds a default query parameter sent on every request.
func WithQuery(key, value string) Option {
	return func(t *Transport) { t.query.Set(key, value) }
}

// WithEngine substitutes the HTTP engine, e.g. a signing wrapper or a test double.
func WithEngine(e Engine) Option {
	return func(t *Transport) {
		if e != nil {
			t.engine = e
		}
	}
}

// WithTimeout bounds every call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(t *Transport) { t.timeout = d }
}

// WithLogger sets the logger used for HTTP logging.
func WithLogger(l *slog.Logger) Option {
	return func(t *Transport) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithLogLevel enables HTTP logging. The default is LogNone.
func WithLogLevel(level LogLevel) Option {
	return func(t *Transport) { t.logLevel = level }
}

// WithRedactedHeaders adds header names whose values never appear in logs.
func WithRedactedHeaders(names ...string) Option {
	return func(t *Transport) {
		for _, n := range names {
			t.redact[http.CanonicalHeaderKey(n)] = true
		}
	}
}

// New creates a Transport for baseURL.
func New(baseURL string, opts ...Option) *Transport {
	t := &Transport{
		name:    "http",
		baseURL: strings.TrimRight(baseURL, "/"),
		headers: http.Header{},
		query:   url.Values{},
		engine:  http.DefaultClient,
		logger:  slog.Default(),
		redact:  make(map[string]bool),
	}
	for _, h := range defaultRedacted {
		t.redact[http.CanonicalHeaderKey(h)] = true
	}
	t.headers.Set("Content-Type", "application/json")
	t.headers.Set("Accept", "application/json")
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Name returns the transport name.
func (t *Transport) Name() string { return t.name }

// BaseURL returns the base URL all paths are resolved against.
func (t *Transport) BaseURL() string { return t.baseURL }

// Timeout returns the per-call bound.
func (t *Transport) Timeout() time.Duration { return t.timeout }

// Get issues a GET and decodes the JSON body into out.
func (t *Transport) Get(ctx context.Context, path string, out any) error {
	return t.Do(ctx, http.MethodGet, path, nil, out)
}

// Post encodes in as JSON, issues a POST and decodes the JSON body into out.
func (t *Transport) Post(ctx context.Context, path string, in, out any) error {
	return t.Do(ctx, http.MethodPost, path, in, out)
}

// Do performs one request. Any failure (encoding, network, timeout, non-2xx,
// decoding) is returned as an error wrapping one of the package sentinels.
// A nil out skips decoding.
func (t *Transport) Do(ctx context.Context, method, path string, in, out any) error {
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	var payload []byte
	if in != nil {
		var err error
		payload, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%w: marshal %s request: %w", ErrInvalidRequest, t.name, err)
		}
	}

	target, err := t.resolve(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidRequest, t.name, err)
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("%w: create %s request: %w", ErrInvalidRequest, t.name, err)
	}
	for k, vs := range t.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if payload == nil {
		req.Header.Del("Content-Type")
	}

	id := RequestID(ctx)
	if id == "" {
		id = uuid.NewString()
	}
	t.logRequest(ctx, id, req, payload)

	start := time.Now()
	resp, err := t.engine.Do(req)
	if err != nil {
		return t.wrapNetworkError(ctx, method, target, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return t.wrapNetworkError(ctx, method, target, err)
	}
	t.logResponse(ctx, id, resp, raw, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text := string(raw)
		if len(text) > maxErrorBody {
			text = text[:maxErrorBody]
		}
		return &StatusError{
			Name:       t.name,
			Method:     method,
			URL:        redactURL(target),
			StatusCode: resp.StatusCode,
			Body:       text,
			Err:        statusSentinel(resp.StatusCode),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrDecode, t.name, method, err)
	}
	return nil
}

func (t *Transport) resolve(path string) (string, error) {
	u, err := url.Parse(t.baseURL + path)
	if err != nil {
		return "", err
	}
	if len(t.query) > 0 {
		q := u.Query()
		for k, vs := range t.query {
			if q.Has(k) {
				continue
			}
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func (t *Transport) wrapNetworkError(ctx context.Context, method, target string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s %s %s: %w", ErrTimeout, t.name, method, redactURL(target), err)
	}
	return fmt.Errorf("%w: %s %s %s: %w", ErrProviderUnavailable, t.name, method, redactURL(target), err)
}

type requestIDKey struct{}

// WithRequestID stores a request id that Do uses for log correlation instead
// of generating its own.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the id stored by WithRequestID, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
