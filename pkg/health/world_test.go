package health

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/go-gravidog/pkg/config"
	"github.com/opd-ai/go-gravidog/pkg/logging"
	"github.com/opd-ai/go-gravidog/pkg/physics"
	"github.com/opd-ai/go-gravidog/pkg/world"
)

func TestMonitor_AttachedToWorld(t *testing.T) {
	w, err := world.New(config.DefaultConfig(), logging.Discard(), nil)
	require.NoError(t, err)
	b := ball(0, 10)
	require.NoError(t, w.Add(b))

	m := NewMonitor(50)
	sub := m.Attach(w)
	hc := NewHealthChecker()
	hc.AddCheck(NewStabilityCheck("stability", m))

	w.Step()
	assert.Equal(t, uint64(1), m.Steps())
	assert.Equal(t, StatusHealthy, hc.CheckHealth(context.Background()).Status)

	b.SetVelocity(physics.Vector2D{X: 500})
	w.Step()
	status := hc.CheckHealth(context.Background())
	assert.Equal(t, StatusUnhealthy, status.Status)
	assert.Contains(t, status.Checks["stability"].Message, "limit")

	sub.Cancel()
	w.Step()
	assert.Equal(t, uint64(2), m.Steps())
}
