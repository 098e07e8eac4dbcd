// Package session wires visitors into net/http request handling.
//
// The Manager's middleware reads the visitor-id cookie, builds a Visitor for
// the request, exposes it via the request context, refreshes the cookie on
// the way out, and flushes the visitor's new assignments to the notifier when
// the request completes.
package session
