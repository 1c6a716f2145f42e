package domain

import "errors"

// ErrIntentNotAllowed is returned when an intent is received that the current
// node does not declare (protocol violation).
var ErrIntentNotAllowed = errors.New("intent not allowed in current node")

// ErrOrderAlreadySubmitted is returned when a second submission result is
// stored for the same order (duplicate-submission guard).
var ErrOrderAlreadySubmitted = errors.New("order already submitted")

// ErrCustomerAlreadySet is returned when customer info is recorded twice for
// one call.
var ErrCustomerAlreadySet = errors.New("customer info already set")

// ErrCustomerNotSet is returned when an order snapshot is requested before
// the caller's identity was collected.
var ErrCustomerNotSet = errors.New("customer info not set")

// ErrEmptyOrder is returned when submission is attempted with no items.
var ErrEmptyOrder = errors.New("order has no items")

// ErrCallNotFound is returned when a call ID cannot be found in the registry.
var ErrCallNotFound = errors.New("call not found")
