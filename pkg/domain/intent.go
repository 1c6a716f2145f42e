package domain

// IntentName identifies a caller action classified by the upstream language
// model. Dispatch is keyed on (node, intent); an intent name outside the
// current node's function set is a protocol violation.
type IntentName string

const (
	IntentSetReadyToOrder IntentName = "set_ready_to_order"
	IntentGetMenu         IntentName = "get_menu"
	IntentRepeatMenu      IntentName = "repeat_menu"
	IntentAddItem         IntentName = "add_item"
	IntentRemoveItem      IntentName = "remove_item"
	IntentCompleteOrder   IntentName = "complete_order"
	IntentModifyOrder     IntentName = "modify_order"
	IntentConfirmOrder    IntentName = "confirm_order"
	IntentSetCustomerInfo IntentName = "set_customer_info"
	IntentEndCall         IntentName = "end_call"
)

// Intent is one classified caller turn: the function the model chose plus its
// argument map. Argument shapes are intent-specific and validated against the
// declaring node's FunctionSpec.
type Intent struct {
	Name IntentName     `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}
