// Package transporttest provides a recording transport.Engine for tests.
package transporttest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ineyio/textgen/transport"
)

// Reply is a canned response for one route.
type Reply struct {
	Status int
	Body   string
	Header http.Header
	Err    error
}

// Recorded is a captured outgoing request.
type Recorded struct {
	Method   string
	URL      string
	Path     string
	RawQuery string
	Header   http.Header
	Body     []byte
}

// JSON decodes the recorded body into a generic map.
func (r Recorded) JSON() (map[string]any, error) {
	var m map[string]any
	if err := json.Unmarshal(r.Body, &m); err != nil {
		return nil, fmt.Errorf("transporttest: decode body: %w", err)
	}
	return m, nil
}

// Engine matches requests by method and path, replays canned replies and
// records every request it sees. Unmatched requests get a 404.
type Engine struct {
	mu       sync.Mutex
	routes   map[string]Reply
	requests []Recorded
	latency  time.Duration
	calls    atomic.Int64
}

var _ transport.Engine = (*Engine)(nil)

// Option configures an Engine.
type Option func(*Engine)

// WithLatency delays every reply, honoring request cancellation.
func WithLatency(d time.Duration) Option {
	return func(e *Engine) { e.latency = d }
}

// New creates an empty Engine.
func New(opts ...Option) *Engine {
	e := &Engine{routes: make(map[string]Reply)}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// On registers a raw reply for method and path.
func (e *Engine) On(method, path string, status int, body string) *Engine {
	return e.Reply(method, path, Reply{Status: status, Body: body})
}

// OnJSON registers a reply whose body is v encoded as JSON.
func (e *Engine) OnJSON(method, path string, status int, v any) *Engine {
	b, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("transporttest: encode reply: %v", err))
	}
	return e.On(method, path, status, string(b))
}

// OnError makes the engine fail requests to method and path with err.
func (e *Engine) OnError(method, path string, err error) *Engine {
	return e.Reply(method, path, Reply{Err: err})
}

// Reply registers r for method and path.
func (e *Engine) Reply(method, path string, r Reply) *Engine {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.routes[method+" "+path] = r
	return e
}

// Do implements transport.Engine.
func (e *Engine) Do(req *http.Request) (*http.Response, error) {
	e.calls.Add(1)

	var body []byte
	if req.Body != nil {
		b, err := io.ReadAll(req.Body)
		req.Body.Close()
		if err != nil {
			return nil, err
		}
		body = b
	}

	e.mu.Lock()
	e.requests = append(e.requests, Recorded{
		Method:   req.Method,
		URL:      req.URL.String(),
		Path:     req.URL.Path,
		RawQuery: req.URL.RawQuery,
		Header:   req.Header.Clone(),
		Body:     body,
	})
	reply, ok := e.routes[req.Method+" "+req.URL.Path]
	e.mu.Unlock()

	if e.latency > 0 {
		select {
		case <-time.After(e.latency):
		case <-req.Context().Done():
			return nil, req.Context().Err()
		}
	}

	if !ok {
		reply = Reply{Status: http.StatusNotFound, Body: `{"error":{"message":"no route"}}`}
	}
	if reply.Err != nil {
		return nil, reply.Err
	}

	header := reply.Header.Clone()
	if header == nil {
		header = http.Header{}
	}
	if header.Get("Content-Type") == "" {
		header.Set("Content-Type", "application/json")
	}
	status := reply.Status
	if status == 0 {
		status = http.StatusOK
	}
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Header:     header,
		Body:       io.NopCloser(bytes.NewReader([]byte(reply.Body))),
		Request:    req,
	}, nil
}

// Requests returns a copy of every recorded request, oldest first.
func (e *Engine) Requests() []Recorded {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Recorded, len(e.requests))
	copy(out, e.requests)
	return out
}

// Last returns the most recent request.
func (e *Engine) Last() (Recorded, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.requests) == 0 {
		return Recorded{}, false
	}
	return e.requests[len(e.requests)-1], true
}

// CallCount returns the number of requests seen.
func (e *Engine) CallCount() int64 { return e.calls.Load() }
