// Package testing provides test helpers for the splits library: a test
// logger, an httptest fake of the remote split-testing service, and an
// embedded NATS server for JetStream sink tests.
package testing
