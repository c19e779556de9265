package health

import (
	"context"
	"fmt"
	"time"
)

// SessionCounter is the registry surface the health module needs.
type SessionCounter interface {
	Count() int
}

// BackendConnectivity is the inference client surface the health
// module needs.
type BackendConnectivity interface {
	Connected() bool
	ChannelCount() int
}

// RegistryChecker reports the session registry's state.
type RegistryChecker struct {
	registry SessionCounter
}

// NewRegistryChecker creates a registry checker.
func NewRegistryChecker(registry SessionCounter) *RegistryChecker {
	return &RegistryChecker{registry: registry}
}

// Check reports the active session count. The registry is in-memory
// and cannot fail; it is always healthy.
func (c *RegistryChecker) Check(ctx context.Context) (*ComponentHealth, error) {
	return &ComponentHealth{
		Name:      "session_registry",
		Status:    ComponentStatusHealthy,
		Message:   fmt.Sprintf("%d active session(s)", c.registry.Count()),
		LastCheck: time.Now(),
	}, nil
}

// InferenceChecker reports inference backend connectivity.
type InferenceChecker struct {
	client BackendConnectivity
}

// NewInferenceChecker creates an inference connectivity checker.
func NewInferenceChecker(client BackendConnectivity) *InferenceChecker {
	return &InferenceChecker{client: client}
}

// Check reports degraded while the stream is down with no sessions
// attached (the client connects lazily) and unhealthy when sessions
// exist but the stream is gone.
func (c *InferenceChecker) Check(ctx context.Context) (*ComponentHealth, error) {
	now := time.Now()
	if c.client.Connected() {
		return &ComponentHealth{
			Name:      "inference_backend",
			Status:    ComponentStatusHealthy,
			Message:   fmt.Sprintf("stream up, %d channel(s)", c.client.ChannelCount()),
			LastCheck: now,
		}, nil
	}
	if c.client.ChannelCount() > 0 {
		return &ComponentHealth{
			Name:      "inference_backend",
			Status:    ComponentStatusUnhealthy,
			Message:   "stream down with sessions attached",
			LastCheck: now,
		}, nil
	}
	return &ComponentHealth{
		Name:      "inference_backend",
		Status:    ComponentStatusDegraded,
		Message:   "stream not established",
		LastCheck: now,
	}, nil
}
