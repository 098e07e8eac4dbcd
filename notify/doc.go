// Package notify delivers new-assignment and identity-link events to the
// remote analytics/experimentation service asynchronously.
//
// The Dispatcher owns a bounded in-memory queue and a background worker that
// retries failed deliveries with decorrelated jitter backoff. Assignment
// events are coalesced per (visitor, split) so a re-recorded default never
// races an earlier report. Delivery is at-least-once while the process lives;
// events that exhaust their attempts are dropped and logged.
//
// Two sinks are provided: HTTPSink posts events to the remote service's JSON
// API, and JetStreamSink publishes them to NATS JetStream subjects for
// pipelines that consume from a broker.
package notify
