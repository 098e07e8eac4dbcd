package types

import "time"

// AssignmentEvent reports one assignment computed during a visitor's
// lifetime that the remote service does not yet know about.
type AssignmentEvent struct {
	// VisitorID is the visitor the assignment belongs to.
	VisitorID string `json:"visitor_id"`

	// SplitName is the split that was evaluated.
	SplitName string `json:"split_name"`

	// Variant is the variant the visitor resolved to.
	Variant string `json:"variant"`

	// AssignedAt is when the assignment was computed.
	AssignedAt time.Time `json:"assigned_at"`
}

// IdentifierEvent reports an identity-link request that could not be
// completed synchronously and must be delivered at least once.
type IdentifierEvent struct {
	// VisitorID is the local visitor id being linked.
	VisitorID string `json:"visitor_id"`

	// IdentifierType is the remote identifier type name.
	IdentifierType string `json:"identifier_type"`

	// Value is the identifier value.
	Value string `json:"value"`
}

// Notifier accepts events for asynchronous, at-least-once delivery to the
// remote analytics/experimentation service.
//
// Queueing must not block the caller's unit of work. Implementations own
// their retry/defer behavior; the Visitor and session layers only hand
// events over.
type Notifier interface {
	// QueueAssignment enqueues a new-assignment event for delivery.
	QueueAssignment(event AssignmentEvent) error

	// QueueIdentifier enqueues an identity-link event for delivery.
	QueueIdentifier(event IdentifierEvent) error
}
