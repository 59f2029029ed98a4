package health

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/go-gravidog/pkg/body"
	"github.com/opd-ai/go-gravidog/pkg/physics"
	"github.com/opd-ai/go-gravidog/pkg/shape"
)

// mockHealthCheck implements HealthCheck for testing
type mockHealthCheck struct {
	name    string
	healthy bool
}

func (m *mockHealthCheck) Name() string {
	return m.name
}

func (m *mockHealthCheck) Check(ctx context.Context) error {
	if !m.healthy {
		return errors.New("mock health check failed")
	}
	return nil
}

// slowHealthCheck respects context cancellation
type slowHealthCheck struct {
	name  string
	delay time.Duration
}

func (s *slowHealthCheck) Name() string {
	return s.name
}

func (s *slowHealthCheck) Check(ctx context.Context) error {
	select {
	case <-time.After(s.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func ball(x, y float64) *body.Body {
	return body.MustNew(shape.NewCircle(physics.Vector2D{X: x, Y: y}, 1))
}

func TestHealthChecker_AddRemoveCheck(t *testing.T) {
	hc := NewHealthChecker()
	hc.AddCheck(&mockHealthCheck{name: "test", healthy: true})
	hc.AddCheck(&mockHealthCheck{name: "test", healthy: false})
	assert.Len(t, hc.checks, 1)

	hc.RemoveCheck("test")
	assert.Empty(t, hc.checks)
}

func TestHealthChecker_CheckHealth(t *testing.T) {
	tests := []struct {
		name     string
		checks   []*mockHealthCheck
		expected string
	}{
		{"no checks - healthy", nil, StatusHealthy},
		{"all healthy", []*mockHealthCheck{{name: "a", healthy: true}, {name: "b", healthy: true}}, StatusHealthy},
		{"one unhealthy", []*mockHealthCheck{{name: "a", healthy: true}, {name: "b"}}, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hc := NewHealthChecker()
			for _, c := range tt.checks {
				hc.AddCheck(c)
			}

			status := hc.CheckHealth(context.Background())
			assert.Equal(t, tt.expected, status.Status)
			require.Len(t, status.Checks, len(tt.checks))
			for _, c := range tt.checks {
				want := StatusHealthy
				if !c.healthy {
					want = StatusUnhealthy
				}
				assert.Equal(t, want, status.Checks[c.name].Status)
			}
		})
	}
}

func TestHealthChecker_CheckHealthWithTimeout(t *testing.T) {
	hc := NewHealthChecker()
	hc.AddCheck(&slowHealthCheck{name: "slow", delay: 100 * time.Millisecond})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	status := hc.CheckHealth(ctx)
	assert.Equal(t, StatusUnhealthy, status.Status)
	assert.Equal(t, StatusUnhealthy, status.Checks["slow"].Status)
}

func TestHealthChecker_Routes(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		healthy  bool
		code     int
		contains string
	}{
		{"liveness", "/healthz", false, http.StatusOK, `"alive"`},
		{"ready", "/readyz", true, http.StatusOK, `"healthy"`},
		{"not_ready", "/readyz", false, http.StatusServiceUnavailable, `"unhealthy"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hc := NewHealthChecker()
			hc.AddCheck(&mockHealthCheck{name: "world", healthy: tt.healthy})

			rec := httptest.NewRecorder()
			hc.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Body.String(), tt.contains)
		})
	}

	t.Run("readiness_body_decodes", func(t *testing.T) {
		hc := NewHealthChecker()
		hc.AddCheck(&mockHealthCheck{name: "world"})
		rec := httptest.NewRecorder()
		hc.ReadinessHandler(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		var status HealthStatus
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&status))
		assert.Equal(t, "mock health check failed", status.Checks["world"].Message)
	})
}

func TestStabilityCheck(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(b *body.Body)
		healthy bool
	}{
		{"at_rest", func(b *body.Body) {}, true},
		{"under_limit", func(b *body.Body) { b.SetVelocity(physics.Vector2D{X: 99}) }, true},
		{"too_fast", func(b *body.Body) { b.SetVelocity(physics.Vector2D{X: 101}) }, false},
		{"nan", func(b *body.Body) { b.SetVelocity(physics.Vector2D{Y: math.NaN()}) }, false},
		{"inf_position", func(b *body.Body) { b.SetLocation(physics.Vector2D{X: math.Inf(1)}) }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMonitor(100)
			b := ball(0, 0)
			tt.setup(b)
			m.Observe([]*body.Body{ball(5, 5), b})

			err := NewStabilityCheck("stability", m).Check(context.Background())
			if tt.healthy {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrUnstable))
			}
		})
	}

	t.Run("recovers_on_next_step", func(t *testing.T) {
		m := NewMonitor(1)
		fast := ball(0, 0)
		fast.SetVelocity(physics.Vector2D{X: 5})
		m.Observe([]*body.Body{fast})
		check := NewStabilityCheck("stability", m)
		require.Error(t, check.Check(context.Background()))

		fast.SetVelocity(physics.Vector2D{})
		m.Observe([]*body.Body{fast})
		assert.NoError(t, check.Check(context.Background()))
	})

	t.Run("limit_disabled", func(t *testing.T) {
		m := NewMonitor(0)
		fast := ball(0, 0)
		fast.SetVelocity(physics.Vector2D{X: 1e9})
		m.Observe([]*body.Body{fast})
		assert.NoError(t, NewStabilityCheck("stability", m).Check(context.Background()))
	})
}

func TestProgressCheck(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMonitor(0)
	m.now = func() time.Time { return now }
	check := NewProgressCheck("progress", m, time.Second)
	assert.Equal(t, "progress", check.Name())

	assert.Error(t, check.Check(context.Background()))

	m.Observe(nil)
	assert.NoError(t, check.Check(context.Background()))
	assert.Equal(t, uint64(1), m.Steps())

	now = now.Add(2 * time.Second)
	err := check.Check(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "idle")
}

func TestMemoryHealthCheck(t *testing.T) {
	tests := []struct {
		name    string
		usage   int64
		limit   int64
		healthy bool
	}{
		{"under", 50, 100, true},
		{"at", 100, 100, true},
		{"over", 150, 100, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := NewMemoryHealthCheck(tt.limit, func() int64 { return tt.usage })
			assert.Equal(t, "memory", check.Name())
			err := check.Check(context.Background())
			if tt.healthy {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}

	assert.GreaterOrEqual(t, HeapMB(), int64(0))
}
