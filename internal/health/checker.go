// Package health reports gateway health and per-session statistics,
// out of the frame hot path.
package health

import (
	"context"
	"time"
)

// ComponentStatus is one component's health level.
type ComponentStatus string

const (
	ComponentStatusHealthy   ComponentStatus = "healthy"
	ComponentStatusDegraded  ComponentStatus = "degraded"
	ComponentStatusUnhealthy ComponentStatus = "unhealthy"
)

// ComponentHealth is one component's health report.
type ComponentHealth struct {
	Name      string          `json:"name"`
	Status    ComponentStatus `json:"status"`
	Message   string          `json:"message,omitempty"`
	LastCheck time.Time       `json:"last_check"`
}

// HealthChecker checks one component.
type HealthChecker interface {
	Check(ctx context.Context) (*ComponentHealth, error)
}

// CompositeHealthChecker aggregates per-component checkers.
type CompositeHealthChecker struct {
	checkers map[string]HealthChecker
	timeout  time.Duration
}

// NewCompositeHealthChecker creates an aggregate checker with a
// per-component timeout.
func NewCompositeHealthChecker(timeout time.Duration) *CompositeHealthChecker {
	return &CompositeHealthChecker{
		checkers: make(map[string]HealthChecker),
		timeout:  timeout,
	}
}

// RegisterChecker adds a component checker. Not safe for concurrent
// use; register everything during startup.
func (c *CompositeHealthChecker) RegisterChecker(name string, checker HealthChecker) {
	c.checkers[name] = checker
}

// CheckAll runs every registered checker.
func (c *CompositeHealthChecker) CheckAll(ctx context.Context) map[string]*ComponentHealth {
	results := make(map[string]*ComponentHealth)

	for name, checker := range c.checkers {
		checkCtx, cancel := context.WithTimeout(ctx, c.timeout)
		health, err := checker.Check(checkCtx)
		cancel()

		if err != nil {
			health = &ComponentHealth{
				Name:      name,
				Status:    ComponentStatusUnhealthy,
				Message:   err.Error(),
				LastCheck: time.Now(),
			}
		}
		if health != nil {
			results[name] = health
		}
	}
	return results
}

// GetOverallStatus folds component statuses into one: any unhealthy
// component wins, then degraded, then healthy.
func (c *CompositeHealthChecker) GetOverallStatus(ctx context.Context) ComponentStatus {
	hasUnhealthy := false
	hasDegraded := false
	for _, h := range c.CheckAll(ctx) {
		switch h.Status {
		case ComponentStatusUnhealthy:
			hasUnhealthy = true
		case ComponentStatusDegraded:
			hasDegraded = true
		}
	}

	if hasUnhealthy {
		return ComponentStatusUnhealthy
	}
	if hasDegraded {
		return ComponentStatusDegraded
	}
	return ComponentStatusHealthy
}
