package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestNopMetrics(t *testing.T) {
	m := NewNop()
	require.NotNil(t, m)

	// None of these should panic.
	m.RecordAssignment("blue_button", "true", "computed")
	m.RecordVaryDefaulted("blue_button")
	m.RecordRegistryFetch("split_registry", 0.01, true)
	m.RecordOffline()
	m.RecordDeliveryAttempt("assignment", false)
	m.RecordDeliveryBackoff("assignment", 0.1)
	m.RecordQueueDepth(3)
	m.RecordIdentityMerge(true)
	m.RecordIdentityDeferred()
}

func TestPrometheusCollector_MetricNames(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPrometheus(reg, "splits_test")

	m.RecordAssignment("blue_button", "true", "computed")
	m.RecordAssignment("blue_button", "true", "cache")
	m.RecordVaryDefaulted("time")
	m.RecordRegistryFetch("split_registry", 0.02, true)
	m.RecordRegistryFetch("assignment_registry", 0.5, false)
	m.RecordOffline()
	m.RecordDeliveryAttempt("assignment", true)
	m.RecordDeliveryAttempt("identifier", false)
	m.RecordDeliveryBackoff("assignment", 0.05)
	m.RecordQueueDepth(7)
	m.RecordIdentityMerge(true)
	m.RecordIdentityDeferred()

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}

	require.True(t, names["splits_test_assignments_total"])
	require.True(t, names["splits_test_vary_defaulted_total"])
	require.True(t, names["splits_test_registry_fetch_duration_seconds"])
	require.True(t, names["splits_test_registry_fetch_failures_total"])
	require.True(t, names["splits_test_offline_transitions_total"])
	require.True(t, names["splits_test_delivery_attempts_total"])
	require.True(t, names["splits_test_delivery_queue_depth"])
	require.True(t, names["splits_test_identity_merges_total"])
	require.True(t, names["splits_test_identity_deferrals_total"])
}

func TestPrometheusCollector_SharedRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()

	// Two collectors on one registry must not panic on duplicate registration.
	m1 := NewPrometheus(reg, "shared")
	m2 := NewPrometheus(reg, "shared")

	m1.RecordOffline()
	m2.RecordOffline()
}
