package domain

// Order types accepted by the backend.
const (
	OrderTypePickup   = "pickup"
	OrderTypeDelivery = "delivery"
)

// OrderItem is one line of the caller's order. Items are immutable once
// appended to the order; removal replaces the whole list.
type OrderItem struct {
	ItemName  string   `json:"itemName"`
	Quantity  int      `json:"quantity"`
	Size      string   `json:"size,omitempty"`
	Modifiers []string `json:"modifiers,omitempty"`
}

// Customer identifies who the order is for. Both fields are required before
// submission.
type Customer struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// VoiceOrder is the immutable order snapshot submitted to the backend.
type VoiceOrder struct {
	OrderType string      `json:"orderType"`
	Items     []OrderItem `json:"items"`
	Customer  Customer    `json:"customer"`
}

// OrderResult is the backend's verdict on a submitted order.
// It is produced at most once per call and read-only thereafter.
type OrderResult struct {
	Success  bool     `json:"success"`
	OrderID  string   `json:"orderId,omitempty"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// MenuItem is one entry of the restaurant menu as returned by the backend.
type MenuItem struct {
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	BasePrice float64 `json:"basePrice"`
}

// Menu is the backend's menu payload. Either field may be empty depending on
// how much detail the backend exposes.
type Menu struct {
	Categories []string   `json:"categories,omitempty"`
	Items      []MenuItem `json:"items,omitempty"`
}
