// Package metrics provides MetricsCollector implementations for the splits
// library.
package metrics

import "github.com/noveng05/splits/types"

// NopMetrics is a no-op metrics collector that discards all recordings.
//
// Used as the default collector and as the embedded fallback for partial
// implementations.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
//
// Returns:
//   - *NopMetrics: Collector that performs no operations
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// RecordAssignment discards the recording.
func (n *NopMetrics) RecordAssignment(_, _, _ string) {}

// RecordVaryDefaulted discards the recording.
func (n *NopMetrics) RecordVaryDefaulted(_ string) {}

// RecordRegistryFetch discards the recording.
func (n *NopMetrics) RecordRegistryFetch(_ string, _ float64, _ bool) {}

// RecordOffline discards the recording.
func (n *NopMetrics) RecordOffline() {}

// RecordDeliveryAttempt discards the recording.
func (n *NopMetrics) RecordDeliveryAttempt(_ string, _ bool) {}

// RecordDeliveryBackoff discards the recording.
func (n *NopMetrics) RecordDeliveryBackoff(_ string, _ float64) {}

// RecordQueueDepth discards the recording.
func (n *NopMetrics) RecordQueueDepth(_ int) {}

// RecordIdentityMerge discards the recording.
func (n *NopMetrics) RecordIdentityMerge(_ bool) {}

// RecordIdentityDeferred discards the recording.
func (n *NopMetrics) RecordIdentityDeferred() {}
