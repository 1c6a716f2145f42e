// Package ports defines the driven-side interfaces of the voice ordering
// core: the ordering backend and the live-call registry.
//
// Adapters under pkg/adapters implement these interfaces; the conversation
// core depends only on the interfaces, following Hexagonal Architecture.
// The tests subpackage provides reusable contract suites that every adapter
// implementation must pass.
package ports
