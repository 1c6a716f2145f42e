// Package flow implements the voice ordering conversation as a node-based
// state machine.
//
// Each call owns one Controller. The controller holds the active Node (the
// conversation stage), dispatches classified caller intents against the
// node's declared function set, mutates the call's order state, and returns
// the utterances to speak back. Node factories regenerate nodes with fresh
// interpolated text, so the confirmation read-back and the completion
// narration always reflect the current order.
//
// The controller talks to the outside world only through ports.OrderBackend;
// everything else in this package is deterministic and side-effect free.
package flow
