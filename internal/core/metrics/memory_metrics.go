package metrics

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"haircast-core/internal/core/dispose"
)

// MemoryMetrics is the in-memory Metrics implementation.
type MemoryMetrics struct {
	*dispose.ResourceBase

	counters map[string]*int64
	gauges   map[string]float64
	mu       sync.RWMutex
}

// NewMemoryMetrics creates an in-memory metrics collector.
func NewMemoryMetrics(parentCtx context.Context) *MemoryMetrics {
	m := &MemoryMetrics{
		ResourceBase: dispose.NewResourceBase("MemoryMetrics"),
		counters:     make(map[string]*int64),
		gauges:       make(map[string]float64),
	}
	m.ResourceBase.Initialize(parentCtx)
	return m
}

// IncrementCounter adds one to a counter.
func (m *MemoryMetrics) IncrementCounter(name string, labels map[string]string) error {
	return m.AddCounter(name, 1, labels)
}

// AddCounter adds value to a counter.
func (m *MemoryMetrics) AddCounter(name string, value float64, labels map[string]string) error {
	key := buildKey(name, labels)
	m.mu.Lock()
	counter, exists := m.counters[key]
	if !exists {
		var val int64
		counter = &val
		m.counters[key] = counter
	}
	m.mu.Unlock()
	atomic.AddInt64(counter, int64(value))
	return nil
}

// GetCounter reads a counter value.
func (m *MemoryMetrics) GetCounter(name string, labels map[string]string) (float64, error) {
	key := buildKey(name, labels)
	m.mu.RLock()
	defer m.mu.RUnlock()
	if counter, exists := m.counters[key]; exists {
		return float64(atomic.LoadInt64(counter)), nil
	}
	return 0, nil
}

// SetGauge sets a gauge value.
func (m *MemoryMetrics) SetGauge(name string, value float64, labels map[string]string) error {
	key := buildKey(name, labels)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gauges[key] = value
	return nil
}

// GetGauge reads a gauge value.
func (m *MemoryMetrics) GetGauge(name string, labels map[string]string) (float64, error) {
	key := buildKey(name, labels)
	m.mu.RLock()
	defer m.mu.RUnlock()
	if gauge, exists := m.gauges[key]; exists {
		return gauge, nil
	}
	return 0, nil
}

// Close shuts down the collector.
func (m *MemoryMetrics) Close() error {
	return m.ResourceBase.CloseWithError()
}

// buildKey flattens name plus sorted labels into a stable map key.
func buildKey(name string, labels map[string]string) string {
	if len(labels) == 0 {
		return name
	}
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	key := name
	for _, k := range keys {
		key = fmt.Sprintf("%s{%s=%s}", key, k, labels[k])
	}
	return key
}
