package textgen

import (
	"log/slog"
	"maps"
	"strings"
	"time"

	"github.com/ineyio/textgen/transport"
)

// Settings carries everything a vendor constructor needs. Vendor-specific
// values (an Azure resource, a Yandex folder id, ...) travel in Options.
type Settings struct {
	APIKey             string
	BaseURL            string
	DefaultModel       string
	DefaultTemperature *float64
	Timeout            time.Duration
	HTTPLogLevel       transport.LogLevel
	Engine             transport.Engine
	Logger             *slog.Logger
	Meter              Meter
	Options            map[string]string
}

// Option configures Settings.
type Option func(*Settings)

// WithAPIKey sets the vendor credential.
func WithAPIKey(key string) Option {
	return func(s *Settings) { s.APIKey = key }
}

// WithBaseURL overrides the vendor's default endpoint.
func WithBaseURL(url string) Option {
	return func(s *Settings) { s.BaseURL = url }
}

// WithDefaultModel sets the model used when a request names none.
func WithDefaultModel(model string) Option {
	return func(s *Settings) { s.DefaultModel = model }
}

// WithDefaultTemperature sets the temperature used when a request sets none.
func WithDefaultTemperature(t float64) Option {
	return func(s *Settings) { s.DefaultTemperature = &t }
}

// WithTimeout bounds every call.
func WithTimeout(d time.Duration) Option {
	return func(s *Settings) { s.Timeout = d }
}

// WithHTTPLogLevel enables HTTP request/response logging.
func WithHTTPLogLevel(level transport.LogLevel) Option {
	return func(s *Settings) { s.HTTPLogLevel = level }
}

// WithEngine substitutes the HTTP engine, typically with a test double.
func WithEngine(e transport.Engine) Option {
	return func(s *Settings) { s.Engine = e }
}

// WithLogger sets the logger for HTTP logging.
func WithLogger(l *slog.Logger) Option {
	return func(s *Settings) { s.Logger = l }
}

// WithMeter sets the meter notified around every call.
func WithMeter(m Meter) Option {
	return func(s *Settings) { s.Meter = m }
}

// WithOption sets a vendor-specific setting.
func WithOption(key, value string) Option {
	return func(s *Settings) {
		if s.Options == nil {
			s.Options = make(map[string]string)
		}
		s.Options[strings.ToLower(key)] = value
	}
}

// NewSettings applies opts to empty Settings.
func NewSettings(opts ...Option) Settings {
	var s Settings
	for _, opt := range opts {
		opt(&s)
	}
	s.Options = maps.Clone(s.Options)
	return s
}

// Option returns the vendor-specific setting for key, or "".
func (s Settings) Option(key string) string {
	return s.Options[strings.ToLower(key)]
}

// Require returns the vendor-specific setting for key or an ErrConfiguration
// error naming the client.
func (s Settings) Require(kind ClientType, key string) (string, error) {
	v := strings.TrimSpace(s.Option(key))
	if v == "" {
		return "", Configurationf("%s: option %q is required", kind, key)
	}
	return v, nil
}

// RequireAPIKey returns the API key or an ErrConfiguration error.
func (s Settings) RequireAPIKey(kind ClientType) (string, error) {
	if strings.TrimSpace(s.APIKey) == "" {
		return "", Configurationf("%s: api key is required", kind)
	}
	return s.APIKey, nil
}

// URL returns BaseURL, or def when none was configured.
func (s Settings) URL(def string) string {
	if s.BaseURL != "" {
		return s.BaseURL
	}
	return def
}

// Transport builds the vendor transport for baseURL with the engine, logger
// and log level from s. The call timeout is enforced by Core, not here.
func (s Settings) Transport(kind ClientType, baseURL string, opts ...transport.Option) *transport.Transport {
	base := []transport.Option{
		transport.WithName(string(kind)),
		transport.WithEngine(s.Engine),
		transport.WithLogger(s.Logger),
		transport.WithLogLevel(s.HTTPLogLevel),
	}
	return transport.New(baseURL, append(base, opts...)...)
}
