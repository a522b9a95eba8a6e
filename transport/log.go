package transport

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

// LogLevel selects how much of each HTTP exchange is logged.
type LogLevel int

const (
	LogNone LogLevel = iota
	LogInfo
	LogHeaders
	LogBody
)

const redacted = "REDACTED"

// defaultRedacted lists the authentication headers used by supported vendors.
var defaultRedacted = []string{
	"Authorization",
	"X-Api-Key",
	"X-Goog-Api-Key",
	"Api-Key",
	"X-Amz-Security-Token",
	"Proxy-Authorization",
}

func (l LogLevel) String() string {
	switch l {
	case LogNone:
		return "none"
	case LogInfo:
		return "info"
	case LogHeaders:
		return "headers"
	case LogBody:
		return "body"
	default:
		return "unknown"
	}
}

// ParseLogLevel parses "none", "info", "headers" or "body". Empty means none.
func ParseLogLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return LogNone, nil
	case "info":
		return LogInfo, nil
	case "headers":
		return LogHeaders, nil
	case "body", "all":
		return LogBody, nil
	default:
		return LogNone, fmt.Errorf("textgen: unknown http log level %q", s)
	}
}

// UnmarshalText lets LogLevel be used directly in YAML and flag values.
func (l *LogLevel) UnmarshalText(text []byte) error {
	v, err := ParseLogLevel(string(text))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

func (t *Transport) logRequest(ctx context.Context, id string, req *http.Request, body []byte) {
	if t.logLevel == LogNone {
		return
	}
	attrs := []slog.Attr{
		slog.String("client", t.name),
		slog.String("request_id", id),
		slog.String("method", req.Method),
		slog.String("url", redactURL(req.URL.String())),
	}
	if t.logLevel >= LogHeaders {
		attrs = append(attrs, slog.Any("headers", t.redactHeaders(req.Header)))
	}
	if t.logLevel >= LogBody && len(body) > 0 {
		attrs = append(attrs, slog.String("body", string(body)))
	}
	t.logger.LogAttrs(ctx, slog.LevelInfo, "http request", attrs...)
}

func (t *Transport) logResponse(ctx context.Context, id string, resp *http.Response, body []byte, d time.Duration) {
	if t.logLevel == LogNone {
		return
	}
	attrs := []slog.Attr{
		slog.String("client", t.name),
		slog.String("request_id", id),
		slog.Int("status", resp.StatusCode),
		slog.Int64("duration_ms", d.Milliseconds()),
	}
	if t.logLevel >= LogHeaders {
		attrs = append(attrs, slog.Any("headers", t.redactHeaders(resp.Header)))
	}
	if t.logLevel >= LogBody && len(body) > 0 {
		attrs = append(attrs, slog.String("body", string(body)))
	}
	t.logger.LogAttrs(ctx, slog.LevelInfo, "http response", attrs...)
}

// redactHeaders flattens headers into sorted "Key: value" lines with
// credentials replaced.
func (t *Transport) redactHeaders(h http.Header) []string {
	lines := make([]string, 0, len(h))
	for k, vs := range h {
		v := strings.Join(vs, ",")
		if t.redact[http.CanonicalHeaderKey(k)] {
			v = redacted
		}
		lines = append(lines, k+": "+v)
	}
	sort.Strings(lines)
	return lines
}

// redactURL hides query parameters that carry credentials.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	changed := false
	for _, k := range []string{"key", "api_key", "api-key"} {
		if q.Has(k) {
			q.Set(k, redacted)
			changed = true
		}
	}
	if changed {
		u.RawQuery = q.Encode()
	}
	return u.String()
}
