// Package call manages the lifecycle of one phone call: it wires a flow
// controller to per-call metrics, the live-call registry, and the hangup
// timing, and guarantees the call record is submitted exactly once no matter
// how the call ends.
package call
