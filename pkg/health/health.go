// Package health watches running simulations for numerical blow-ups and
// stalls and serves the results as HTTP liveness and readiness probes.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/opd-ai/go-gravidog/pkg/body"
	"github.com/opd-ai/go-gravidog/pkg/event"
)

// HealthCheck defines the interface for individual health checks.
// Each component can implement this interface to provide its health status.
type HealthCheck interface {
	// Name returns the unique name of this health check
	Name() string
	// Check performs the health check and returns an error if unhealthy
	Check(ctx context.Context) error
}

// HealthStatus is the aggregated result of every registered check.
type HealthStatus struct {
	Status string                     `json:"status"`
	Checks map[string]ComponentHealth `json:"checks"`
}

// ComponentHealth represents the health status of an individual component.
type ComponentHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthChecker runs a named set of checks.
type HealthChecker struct {
	checks map[string]HealthCheck
	mu     sync.RWMutex
}

// NewHealthChecker creates a new health checker instance.
func NewHealthChecker() *HealthChecker {
	return &HealthChecker{
		checks: make(map[string]HealthCheck),
	}
}

// AddCheck registers a new health check with the health checker.
// If a check with the same name already exists, it will be replaced.
func (hc *HealthChecker) AddCheck(check HealthCheck) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.checks[check.Name()] = check
}

// RemoveCheck removes a health check by name.
func (hc *HealthChecker) RemoveCheck(name string) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	delete(hc.checks, name)
}

// CheckHealth executes all registered health checks and returns the aggregated status.
// The overall status is "healthy" only if all individual checks pass.
func (hc *HealthChecker) CheckHealth(ctx context.Context) HealthStatus {
	hc.mu.RLock()
	defer hc.mu.RUnlock()

	status := HealthStatus{
		Status: StatusHealthy,
		Checks: make(map[string]ComponentHealth),
	}

	for name, check := range hc.checks {
		if err := check.Check(ctx); err != nil {
			status.Status = StatusUnhealthy
			status.Checks[name] = ComponentHealth{
				Status:  StatusUnhealthy,
				Message: err.Error(),
			}
		} else {
			status.Checks[name] = ComponentHealth{
				Status: StatusHealthy,
			}
		}
	}

	return status
}

// LivenessHandler answers 200 with {"status":"alive"} while the process
// can serve HTTP at all.
func (hc *HealthChecker) LivenessHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	response := map[string]string{"status": "alive"}
	json.NewEncoder(w).Encode(response)
}

// ReadinessHandler runs every check and answers 200 when all pass, 503
// otherwise, with the HealthStatus as the body.
func (hc *HealthChecker) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	health := hc.CheckHealth(ctx)

	w.Header().Set("Content-Type", "application/json")

	if health.Status == StatusHealthy {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	json.NewEncoder(w).Encode(health)
}

// Statuses reported per check and overall.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// ErrUnstable marks a world whose bodies left the finite or speed-limited
// range.
var ErrUnstable = errors.New("simulation unstable")

// Stepper is the part of a world a Monitor observes.
type Stepper interface {
	Bodies() []*body.Body
	Bus() *event.Bus
}

// Monitor samples a world after every sub-step from the stepping
// goroutine and keeps the verdict for checks running elsewhere.
type Monitor struct {
	speedLimit float64
	now        func() time.Time

	mu       sync.Mutex
	steps    uint64
	lastStep time.Time
	problem  error
}

// NewMonitor creates a monitor. speedLimit <= 0 disables the speed test.
func NewMonitor(speedLimit float64) *Monitor {
	return &Monitor{speedLimit: speedLimit, now: time.Now}
}

// Attach subscribes the monitor to w's step events.
func (m *Monitor) Attach(w Stepper) *event.Subscription {
	return w.Bus().Subscribe(event.WorldStepped, func(e event.Event) {
		m.Observe(w.Bodies())
	})
}

// Observe records one step over bodies.
func (m *Monitor) Observe(bodies []*body.Body) {
	var problem error
	for _, b := range bodies {
		if !b.IsFinite() {
			problem = fmt.Errorf("%w: %s has a non-finite position or velocity", ErrUnstable, b)
			break
		}
		if m.speedLimit > 0 && b.Speed() > m.speedLimit {
			problem = fmt.Errorf("%w: %s moves at %.1f, limit %.1f", ErrUnstable, b, b.Speed(), m.speedLimit)
			break
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.steps++
	m.lastStep = m.now()
	m.problem = problem
}

// Steps returns how many steps have been observed.
func (m *Monitor) Steps() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.steps
}

func (m *Monitor) snapshot() (uint64, time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.steps, m.lastStep, m.problem
}

// StabilityCheck fails while the last observed step had a body with NaN
// or Inf state or one faster than the speed limit.
type StabilityCheck struct {
	name    string
	monitor *Monitor
}

// NewStabilityCheck creates a stability check named name.
func NewStabilityCheck(name string, m *Monitor) *StabilityCheck {
	return &StabilityCheck{name: name, monitor: m}
}

// Name returns the name of this health check.
func (s *StabilityCheck) Name() string { return s.name }

// Check returns the monitor's last verdict.
func (s *StabilityCheck) Check(ctx context.Context) error {
	_, _, problem := s.monitor.snapshot()
	return problem
}

// ProgressCheck fails when no step was observed within the window.
type ProgressCheck struct {
	name    string
	monitor *Monitor
	window  time.Duration
}

// NewProgressCheck creates a progress check named name.
func NewProgressCheck(name string, m *Monitor, window time.Duration) *ProgressCheck {
	return &ProgressCheck{name: name, monitor: m, window: window}
}

// Name returns the name of this health check.
func (p *ProgressCheck) Name() string { return p.name }

// Check verifies the world stepped recently.
func (p *ProgressCheck) Check(ctx context.Context) error {
	steps, last, _ := p.monitor.snapshot()
	if steps == 0 {
		return fmt.Errorf("world has not stepped yet")
	}
	if idle := p.monitor.now().Sub(last); idle > p.window {
		return fmt.Errorf("world idle for %s, window %s", idle.Round(time.Millisecond), p.window)
	}
	return nil
}

// MemoryHealthCheck fails when heap usage exceeds a limit.
type MemoryHealthCheck struct {
	maxMemoryMB    int64
	getMemoryUsage func() int64
}

// NewMemoryHealthCheck creates a memory check. getMemoryUsage reports MB.
func NewMemoryHealthCheck(maxMemoryMB int64, getMemoryUsage func() int64) *MemoryHealthCheck {
	return &MemoryHealthCheck{
		maxMemoryMB:    maxMemoryMB,
		getMemoryUsage: getMemoryUsage,
	}
}

// Name returns the name of this health check.
func (m *MemoryHealthCheck) Name() string {
	return "memory"
}

// Check verifies that memory usage is within acceptable limits.
func (m *MemoryHealthCheck) Check(ctx context.Context) error {
	currentMB := m.getMemoryUsage()
	if currentMB > m.maxMemoryMB {
		return fmt.Errorf("memory usage %dMB exceeds limit %dMB", currentMB, m.maxMemoryMB)
	}
	return nil
}

// HeapMB reports the current heap allocation in megabytes.
func HeapMB() int64 {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	return int64(stats.HeapAlloc / 1024 / 1024)
}

// Routes serves LivenessHandler at /healthz and ReadinessHandler at /readyz.
func (hc *HealthChecker) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", hc.LivenessHandler)
	mux.HandleFunc("/readyz", hc.ReadinessHandler)
	return mux
}
