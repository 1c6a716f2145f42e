package domain

import "github.com/hamchowderr/ncr-aloha/pkg/schema"

// Node names for the ordering conversation.
const (
	NodeGreeting          = "greeting"
	NodeMenuInfo          = "menu_info"
	NodeOrderCollection   = "order_collection"
	NodeOrderConfirmation = "order_confirmation"
	NodeCustomerInfo      = "customer_info"
	NodeCompletion        = "completion"
)

// Node is one stage of the ordering conversation. It is an immutable value
// object produced by a factory function; factories may be called again to
// regenerate a node with fresh interpolated text (e.g. the confirmation
// read-back after the order changed).
type Node struct {
	// Name identifies the conversation stage.
	Name string

	// EntryUtterances are spoken unconditionally when the node is entered,
	// before any caller input is processed.
	EntryUtterances []string

	// RoleInstructions sets the assistant persona for the classifier. Only the
	// first node of a call needs to carry it.
	RoleInstructions string

	// Instructions guide the upstream classifier while this node is active.
	// Opaque to the controller.
	Instructions string

	// Functions are the intents the classifier may emit in this stage.
	Functions []FunctionSpec
}

// Allows reports whether the intent is legal in this node.
func (n Node) Allows(name IntentName) bool {
	_, ok := n.Function(name)
	return ok
}

// Function returns the spec for the named intent, if declared.
func (n Node) Function(name IntentName) (FunctionSpec, bool) {
	for _, f := range n.Functions {
		if f.Name == name {
			return f, true
		}
	}
	return FunctionSpec{}, false
}

// IntentNames lists the intents this node accepts, in declaration order.
func (n Node) IntentNames() []IntentName {
	names := make([]IntentName, len(n.Functions))
	for i, f := range n.Functions {
		names[i] = f.Name
	}
	return names
}

// FunctionSpec declares one callable function to the upstream classifier:
// its name, when to use it, and the argument shape it takes.
type FunctionSpec struct {
	Name        IntentName
	Description string
	Parameters  schema.Schema
}

// JSONSchema renders the function declaration as the classifier-facing
// document: name, description, and a JSON Schema for the parameters.
func (f FunctionSpec) JSONSchema() map[string]any {
	params := f.Parameters
	if params == nil {
		params = schema.Schema{}
	}
	return map[string]any{
		"name":        string(f.Name),
		"description": f.Description,
		"parameters":  params.JSONSchema(),
	}
}
