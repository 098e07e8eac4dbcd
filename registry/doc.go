// Package registry provides RegistryClient implementations: the remote HTTP
// service, a YAML weights file, and a static in-memory source for testing and
// embedded use.
package registry
