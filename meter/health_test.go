package meter

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ineyio/textgen"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestHealth() (*HealthMeter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	h := NewHealthMeter()
	h.now = clock.now
	return h, clock
}

func TestHealthMeter_OpensAfterFailures(t *testing.T) {
	h, _ := newTestHealth()
	assert.Equal(t, HealthHealthy, h.Health(textgen.ClientOpenAI))

	h.RecordFailure(textgen.ClientOpenAI)
	h.RecordFailure(textgen.ClientOpenAI)
	assert.Equal(t, HealthHealthy, h.Health(textgen.ClientOpenAI))

	h.RecordFailure(textgen.ClientOpenAI)
	assert.Equal(t, HealthUnhealthy, h.Health(textgen.ClientOpenAI))
	assert.Equal(t, HealthHealthy, h.Health(textgen.ClientGoogle))
}

func TestHealthMeter_FailuresOutsideWindow(t *testing.T) {
	h, clock := newTestHealth()

	h.RecordFailure(textgen.ClientOpenAI)
	h.RecordFailure(textgen.ClientOpenAI)
	clock.advance(6 * time.Minute)
	h.RecordFailure(textgen.ClientOpenAI)
	assert.Equal(t, HealthHealthy, h.Health(textgen.ClientOpenAI))
}

func TestHealthMeter_HalfOpenRecovery(t *testing.T) {
	h, clock := newTestHealth()
	for range 3 {
		h.RecordFailure(textgen.ClientOpenAI)
	}

	clock.advance(31 * time.Second)
	assert.Equal(t, HealthHalfOpen, h.Health(textgen.ClientOpenAI))

	h.RecordFailure(textgen.ClientOpenAI)
	assert.Equal(t, HealthUnhealthy, h.Health(textgen.ClientOpenAI))

	clock.advance(31 * time.Second)
	h.RecordSuccess(textgen.ClientOpenAI)
	assert.Equal(t, HealthHealthy, h.Health(textgen.ClientOpenAI))
}

func TestHealthMeter_OnResultIgnoresCallerErrors(t *testing.T) {
	h, _ := newTestHealth()
	ctx := context.Background()

	for range 5 {
		h.OnResult(ctx, textgen.ResultEvent{Client: textgen.ClientCohere, Error: textgen.ErrAuthFailed})
		h.OnResult(ctx, textgen.ResultEvent{Client: textgen.ClientCohere, Error: &textgen.ValidationError{Field: "model"}})
	}
	assert.Equal(t, HealthHealthy, h.Health(textgen.ClientCohere))

	for range 3 {
		h.OnResult(ctx, textgen.ResultEvent{Client: textgen.ClientCohere, Error: fmt.Errorf("x: %w", textgen.ErrTimeout)})
	}
	assert.Equal(t, HealthUnhealthy, h.Health(textgen.ClientCohere))

	h.OnResult(ctx, textgen.ResultEvent{Client: textgen.ClientCohere, Success: true})
	assert.Equal(t, HealthHealthy, h.Health(textgen.ClientCohere))
}

func TestHealthState_String(t *testing.T) {
	assert.Equal(t, "healthy", HealthHealthy.String())
	assert.Equal(t, "unhealthy", HealthUnhealthy.String())
	assert.Equal(t, "half-open", HealthHalfOpen.String())
	assert.Equal(t, "unknown", HealthState(9).String())
}
