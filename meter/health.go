package meter

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ineyio/textgen"
)

const (
	healthFailureThreshold = 3
	healthFailureWindow    = 5 * time.Minute
	healthUnhealthyPeriod  = 30 * time.Second
)

// HealthState describes the observed health of a vendor.
type HealthState int

const (
	HealthHealthy HealthState = iota
	HealthUnhealthy
	HealthHalfOpen
)

func (h HealthState) String() string {
	switch h {
	case HealthHealthy:
		return "healthy"
	case HealthUnhealthy:
		return "unhealthy"
	case HealthHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// HealthMeter tracks per-vendor health with circuit breaker states. It only
// observes: calls are never blocked. Three vendor-side failures (timeouts,
// unavailability, rate limiting) within five minutes mark a vendor
// unhealthy; after thirty seconds it is reported half-open until the next
// result decides.
type HealthMeter struct {
	mu      sync.RWMutex
	vendors map[textgen.ClientType]*vendorHealth
	now     func() time.Time
}

type vendorHealth struct {
	state       HealthState
	failures    []time.Time // sliding window of failure timestamps
	unhealthyAt time.Time
}

var _ textgen.Meter = (*HealthMeter)(nil)

// NewHealthMeter creates a HealthMeter.
func NewHealthMeter() *HealthMeter {
	return &HealthMeter{
		vendors: make(map[textgen.ClientType]*vendorHealth),
		now:     time.Now,
	}
}

func (h *HealthMeter) OnRequest(context.Context, textgen.RequestEvent) {}

func (h *HealthMeter) OnResult(_ context.Context, e textgen.ResultEvent) {
	switch {
	case e.Success:
		h.RecordSuccess(e.Client)
	case vendorFault(e.Error):
		h.RecordFailure(e.Client)
	}
}

// vendorFault reports whether err says the vendor, not the caller, failed.
func vendorFault(err error) bool {
	return errors.Is(err, textgen.ErrTimeout) ||
		errors.Is(err, textgen.ErrProviderUnavailable) ||
		errors.Is(err, textgen.ErrRateLimited)
}

// Health returns the current state for a vendor.
func (h *HealthMeter) Health(kind textgen.ClientType) HealthState {
	h.mu.RLock()
	vh, ok := h.vendors[kind]
	h.mu.RUnlock()

	if !ok {
		return HealthHealthy
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if vh.state == HealthUnhealthy && h.now().Sub(vh.unhealthyAt) >= healthUnhealthyPeriod {
		vh.state = HealthHalfOpen
	}
	return vh.state
}

// RecordSuccess marks a vendor healthy and clears its failures.
func (h *HealthMeter) RecordSuccess(kind textgen.ClientType) {
	h.mu.Lock()
	defer h.mu.Unlock()

	vh := h.getOrCreate(kind)
	vh.state = HealthHealthy
	vh.failures = vh.failures[:0]
}

// RecordFailure records a vendor-side failure.
func (h *HealthMeter) RecordFailure(kind textgen.ClientType) {
	h.mu.Lock()
	defer h.mu.Unlock()

	vh := h.getOrCreate(kind)
	now := h.now()
	if vh.state == HealthHalfOpen || (vh.state == HealthUnhealthy && now.Sub(vh.unhealthyAt) >= healthUnhealthyPeriod) {
		vh.state = HealthUnhealthy
		vh.unhealthyAt = now
		return
	}
	if vh.state == HealthUnhealthy {
		return
	}

	cutoff := now.Add(-healthFailureWindow)
	valid := vh.failures[:0]
	for _, t := range vh.failures {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}
	vh.failures = append(valid, now)

	if len(vh.failures) >= healthFailureThreshold {
		vh.state = HealthUnhealthy
		vh.unhealthyAt = now
	}
}

func (h *HealthMeter) getOrCreate(kind textgen.ClientType) *vendorHealth {
	vh, ok := h.vendors[kind]
	if !ok {
		vh = &vendorHealth{state: HealthHealthy}
		h.vendors[kind] = vh
	}
	return vh
}
