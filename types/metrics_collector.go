package types

// MetricsCollector defines methods for recording operational metrics.
//
// Implementations should be non-blocking and handle failures gracefully.
// Delivery metrics are called from the dispatcher's background goroutine and
// must be thread-safe.
//
// This interface composes smaller, domain-focused interfaces for better modularity.
type MetricsCollector interface {
	AssignmentMetrics
	RegistryMetrics
	DeliveryMetrics
	IdentityMetrics
}

// AssignmentMetrics defines metrics for variant assignment operations.
type AssignmentMetrics interface {
	// RecordAssignment records a resolved assignment.
	//
	// Parameters:
	//   - splitName: The split that was evaluated
	//   - variant: The resolved variant
	//   - source: How it was resolved ("cache", "computed", "defaulted", "offline")
	RecordAssignment(splitName, variant, source string)

	// RecordVaryDefaulted records a vary call that fell back to its default
	// branch because the resolved variant matched no declared when.
	RecordVaryDefaulted(splitName string)
}

// RegistryMetrics defines metrics for remote registry fetches.
type RegistryMetrics interface {
	// RecordRegistryFetch records a registry fetch attempt.
	//
	// Parameters:
	//   - kind: Registry kind ("split_registry", "assignment_registry")
	//   - duration: Time taken in seconds
	//   - success: true if the fetch succeeded
	RecordRegistryFetch(kind string, duration float64, success bool)

	// RecordOffline records a visitor entering sticky offline mode.
	RecordOffline()
}

// DeliveryMetrics defines metrics for asynchronous event delivery.
type DeliveryMetrics interface {
	// RecordDeliveryAttempt records a sink delivery attempt.
	//
	// Parameters:
	//   - kind: Event kind ("assignment", "identifier")
	//   - success: true if the sink accepted the event
	RecordDeliveryAttempt(kind string, success bool)

	// RecordDeliveryBackoff records an observed retry backoff duration in seconds.
	RecordDeliveryBackoff(kind string, duration float64)

	// RecordQueueDepth sets the current delivery queue depth (gauge metric).
	RecordQueueDepth(depth int)
}

// IdentityMetrics defines metrics for identity-link operations.
type IdentityMetrics interface {
	// RecordIdentityMerge records a completed (or failed) identity merge.
	RecordIdentityMerge(success bool)

	// RecordIdentityDeferred records an identity link handed to the
	// notifier after the synchronous path timed out.
	RecordIdentityDeferred()
}
