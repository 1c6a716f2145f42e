package domain

// OrderState is the accumulating record of one call's order: items, customer
// identity, and the submission result. It is created when the call begins,
// owned exclusively by the flow controller, and discarded when the call ends.
//
// Fields are unexported so the one-shot invariants (customer set once, result
// set once) cannot be bypassed.
type OrderState struct {
	orderType string
	items     []OrderItem
	customer  *Customer
	result    *OrderResult
}

// NewOrderState creates an empty order of the given type.
// An empty orderType defaults to pickup.
func NewOrderState(orderType string) *OrderState {
	if orderType == "" {
		orderType = OrderTypePickup
	}
	return &OrderState{orderType: orderType}
}

// OrderType returns the order type ("pickup" or "delivery").
func (s *OrderState) OrderType() string { return s.orderType }

// AppendItem adds an item to the order. A quantity below 1 defaults to 1.
func (s *OrderState) AppendItem(item OrderItem) {
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	s.items = append(s.items, item)
}

// ReplaceItems swaps the whole item list. Items are never edited in place.
func (s *OrderState) ReplaceItems(items []OrderItem) {
	s.items = append([]OrderItem(nil), items...)
}

// Items returns a copy of the ordered item list.
func (s *OrderState) Items() []OrderItem {
	return append([]OrderItem(nil), s.items...)
}

// Empty reports whether no items have been ordered yet.
func (s *OrderState) Empty() bool { return len(s.items) == 0 }

// SetCustomer records the caller's identity. It may be set exactly once;
// a second attempt returns ErrCustomerAlreadySet.
func (s *OrderState) SetCustomer(c Customer) error {
	if s.customer != nil {
		return ErrCustomerAlreadySet
	}
	s.customer = &c
	return nil
}

// Customer returns the recorded customer, if set.
func (s *OrderState) Customer() (Customer, bool) {
	if s.customer == nil {
		return Customer{}, false
	}
	return *s.customer, true
}

// SetResult stores the backend's verdict. It may be set exactly once;
// a second attempt returns ErrOrderAlreadySubmitted.
func (s *OrderState) SetResult(r OrderResult) error {
	if s.result != nil {
		return ErrOrderAlreadySubmitted
	}
	s.result = &r
	return nil
}

// Result returns the submission result, if the order was submitted.
func (s *OrderState) Result() (OrderResult, bool) {
	if s.result == nil {
		return OrderResult{}, false
	}
	return *s.result, true
}

// Submitted reports whether a submission result has been stored
// (successful or not).
func (s *OrderState) Submitted() bool { return s.result != nil }

// Snapshot produces the immutable order to submit to the backend.
// It fails with ErrEmptyOrder when no items were collected and with
// ErrCustomerNotSet when the caller's identity is missing.
func (s *OrderState) Snapshot() (VoiceOrder, error) {
	if len(s.items) == 0 {
		return VoiceOrder{}, ErrEmptyOrder
	}
	if s.customer == nil {
		return VoiceOrder{}, ErrCustomerNotSet
	}
	return VoiceOrder{
		OrderType: s.orderType,
		Items:     s.Items(),
		Customer:  *s.customer,
	}, nil
}
