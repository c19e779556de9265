// Package metrics provides the metrics collection interface for
// haircast-core. The in-memory implementation is enough for a single
// gateway process and keeps the door open for a Prometheus backend.
package metrics

// Metrics is the metrics collection interface.
type Metrics interface {
	// Counter operations
	IncrementCounter(name string, labels map[string]string) error
	AddCounter(name string, value float64, labels map[string]string) error
	GetCounter(name string, labels map[string]string) (float64, error)

	// Gauge operations
	SetGauge(name string, value float64, labels map[string]string) error
	GetGauge(name string, labels map[string]string) (float64, error)

	// Close the collector.
	Close() error
}
