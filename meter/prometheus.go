package meter

import (
	"context"
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ineyio/textgen"
)

// PrometheusMeter reports client calls as Prometheus metrics.
type PrometheusMeter struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	tokens   *prometheus.CounterVec
	inFlight *prometheus.GaugeVec
}

var _ textgen.Meter = (*PrometheusMeter)(nil)

// NewPrometheusMeter creates the collectors and registers them with reg.
func NewPrometheusMeter(reg prometheus.Registerer) (*PrometheusMeter, error) {
	if reg == nil {
		return nil, fmt.Errorf("meter: prometheus registerer is nil")
	}

	m := &PrometheusMeter{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "textgen_requests_total",
			Help: "Total number of client operations by outcome.",
		}, []string{"client", "op", "model", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "textgen_request_duration_seconds",
			Help:    "Client operation latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"client", "op"}),
		tokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "textgen_tokens_total",
			Help: "Tokens reported by vendors, by direction.",
		}, []string{"client", "model", "direction"}),
		inFlight: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "textgen_requests_in_flight",
			Help: "Client operations currently running.",
		}, []string{"client", "op"}),
	}

	for _, c := range []prometheus.Collector{m.requests, m.duration, m.tokens, m.inFlight} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("meter: register collector: %w", err)
		}
	}
	return m, nil
}

func (m *PrometheusMeter) OnRequest(_ context.Context, e textgen.RequestEvent) {
	m.inFlight.WithLabelValues(string(e.Client), e.Op).Inc()
}

func (m *PrometheusMeter) OnResult(_ context.Context, e textgen.ResultEvent) {
	client := string(e.Client)
	m.inFlight.WithLabelValues(client, e.Op).Dec()
	m.requests.WithLabelValues(client, e.Op, e.Model, outcome(e)).Inc()
	m.duration.WithLabelValues(client, e.Op).Observe(e.Duration.Seconds())

	if u := e.Usage; u != nil {
		if u.InputTokens != nil {
			m.tokens.WithLabelValues(client, e.Model, "input").Add(float64(*u.InputTokens))
		}
		if u.OutputTokens != nil {
			m.tokens.WithLabelValues(client, e.Model, "output").Add(float64(*u.OutputTokens))
		}
	}
}

// outcome is "ok", the HTTP status of a vendor rejection, or "error".
func outcome(e textgen.ResultEvent) string {
	if e.Success {
		return "ok"
	}
	if code := textgen.StatusCode(e.Error); code != 0 {
		return strconv.Itoa(code)
	}
	return "error"
}
