package metrics

import (
	"errors"
	"sync"
)

var (
	globalMetrics Metrics
	globalMu      sync.RWMutex

	// ErrNilMetrics is returned when SetGlobalMetrics receives nil.
	ErrNilMetrics = errors.New("metrics: SetGlobalMetrics called with nil")
	// ErrNotInitialized is returned when the global collector is unset.
	ErrNotInitialized = errors.New("metrics: global metrics not initialized, call SetGlobalMetrics first")
)

// SetGlobalMetrics installs the process-wide Metrics instance.
func SetGlobalMetrics(m Metrics) error {
	if m == nil {
		return ErrNilMetrics
	}
	globalMu.Lock()
	defer globalMu.Unlock()
	globalMetrics = m
	return nil
}

// GetGlobalMetrics returns the process-wide Metrics instance, or nil.
func GetGlobalMetrics() Metrics {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalMetrics
}

// TryGetGlobalMetrics returns the global instance or ErrNotInitialized.
func TryGetGlobalMetrics() (Metrics, error) {
	m := GetGlobalMetrics()
	if m == nil {
		return nil, ErrNotInitialized
	}
	return m, nil
}

// IncrementCounter increments a counter on the global collector.
func IncrementCounter(name string, labels map[string]string) error {
	m, err := TryGetGlobalMetrics()
	if err != nil {
		return err
	}
	return m.IncrementCounter(name, labels)
}

// AddCounter adds to a counter on the global collector.
func AddCounter(name string, value float64, labels map[string]string) error {
	m, err := TryGetGlobalMetrics()
	if err != nil {
		return err
	}
	return m.AddCounter(name, value, labels)
}

// SetGauge sets a gauge on the global collector.
func SetGauge(name string, value float64, labels map[string]string) error {
	m, err := TryGetGlobalMetrics()
	if err != nil {
		return err
	}
	return m.SetGauge(name, value, labels)
}

// GetCounter reads a counter from the global collector.
func GetCounter(name string, labels map[string]string) (float64, error) {
	m, err := TryGetGlobalMetrics()
	if err != nil {
		return 0, err
	}
	return m.GetCounter(name, labels)
}

// GetGauge reads a gauge from the global collector.
func GetGauge(name string, labels map[string]string) (float64, error) {
	m, err := TryGetGlobalMetrics()
	if err != nil {
		return 0, err
	}
	return m.GetGauge(name, labels)
}
