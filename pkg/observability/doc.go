/*
Package observability exposes Prometheus metrics for the voice ordering
service: call volume, conversation stage entries, intent outcomes, and order
submissions. The Collector plugs into the conversation core through
flow.Hooks.
*/
package observability
