package flow

import (
	"fmt"
	"strings"

	"github.com/hamchowderr/ncr-aloha/pkg/domain"
	"github.com/hamchowderr/ncr-aloha/pkg/schema"
)

// Default classifier instructions per node. Config.NodePrompts overrides
// these per node name.
const (
	greetingPrompt = `This is a pickup order. Listen to what the customer wants.
If they ask about the menu, use get_menu.
When they mention what they want to order, use set_ready_to_order.`

	menuInfoPrompt = `The customer just heard the menu. Answer follow-up questions briefly.
If they want to hear it again, use repeat_menu.
When they mention what they want to order, use set_ready_to_order.`

	orderCollectionPrompt = `Help the customer build their order.

GUIDELINES:
- For wings: ALWAYS ask size and flavor
- Confirm each item as they add it
- After each item, ask "Anything else?"
- When they say "that's it" or similar, use complete_order

Use add_item for each item. Use remove_item if they change their mind about
an item. Use get_menu if they ask about the menu or prices.`

	orderConfirmationPrompt = `Read back this order naturally and ask if it sounds right:
%s

If they want to change something, use modify_order.
If they confirm, use confirm_order.`

	customerInfoPrompt = `Collect the customer's name and phone number for the order.

Ask: "Can I get a name for the order?"
Then: "And your phone number?"

Read back the phone number to confirm it's correct.

When you have both name and phone, use set_customer_info to submit.`

	completionPrompt = `Say goodbye warmly and use end_call to finish.`
)

func greetingNode(cfg *Config) domain.Node {
	return domain.Node{
		Name:             domain.NodeGreeting,
		EntryUtterances:  []string{cfg.Greeting},
		RoleInstructions: cfg.RoleInstructions,
		Instructions:     cfg.prompt(domain.NodeGreeting, greetingPrompt),
		Functions: []domain.FunctionSpec{
			{
				Name:        domain.IntentSetReadyToOrder,
				Description: "Customer mentions a food item they want to order or says they're ready to order",
			},
			{
				Name:        domain.IntentGetMenu,
				Description: "Customer asks about the menu, what you have, or prices",
			},
		},
	}
}

// menuInfoNode is the side-state entered after a menu read-out. Its entry
// utterance carries the menu text so repeat_menu can simply regenerate it.
func menuInfoNode(cfg *Config, menuText string) domain.Node {
	if menuText == "" {
		menuText = cfg.MenuFallback
	}
	return domain.Node{
		Name:            domain.NodeMenuInfo,
		EntryUtterances: []string{menuText},
		Instructions:    cfg.prompt(domain.NodeMenuInfo, menuInfoPrompt),
		Functions: []domain.FunctionSpec{
			{
				Name:        domain.IntentSetReadyToOrder,
				Description: "Customer mentions a food item they want to order or says they're ready to order",
			},
			{
				Name:        domain.IntentRepeatMenu,
				Description: "Customer asks to hear the menu again",
			},
		},
	}
}

func orderCollectionNode(cfg *Config) domain.Node {
	return domain.Node{
		Name:         domain.NodeOrderCollection,
		Instructions: cfg.prompt(domain.NodeOrderCollection, orderCollectionPrompt),
		Functions: []domain.FunctionSpec{
			{
				Name:        domain.IntentAddItem,
				Description: "Add an item to the order",
				Parameters: schema.Schema{
					"item_name": {Type: schema.String(), Description: "Menu item name", Required: true},
					"quantity":  {Type: schema.Int(), Description: "Number of this item", Default: 1},
					"size":      {Type: schema.String(), Description: "Size for wings (1 lb, 2 lb, 3 lb, 5 lb)"},
					"modifiers": {Type: schema.Slice(schema.String()), Description: "Flavors or modifications"},
				},
			},
			{
				Name:        domain.IntentRemoveItem,
				Description: "Remove an item the customer no longer wants",
				Parameters: schema.Schema{
					"item_name": {Type: schema.String(), Description: "Name of the menu item to remove", Required: true},
				},
			},
			{
				Name:        domain.IntentGetMenu,
				Description: "Customer asks about menu or prices",
			},
			{
				Name:        domain.IntentCompleteOrder,
				Description: "Customer is done adding items (e.g. 'that's it', 'that's all')",
			},
		},
	}
}

func orderConfirmationNode(cfg *Config, state *domain.OrderState) domain.Node {
	lines := FormatOrderLines(state.Items())
	readBack := fmt.Sprintf("Let me read that back: %s. Does that sound right?",
		JoinWithAnd(trimBullets(lines)))

	return domain.Node{
		Name:            domain.NodeOrderConfirmation,
		EntryUtterances: []string{readBack},
		Instructions:    cfg.prompt(domain.NodeOrderConfirmation, fmt.Sprintf(orderConfirmationPrompt, strings.Join(lines, "\n"))),
		Functions: []domain.FunctionSpec{
			{
				Name:        domain.IntentModifyOrder,
				Description: "Customer wants to change something",
			},
			{
				Name:        domain.IntentConfirmOrder,
				Description: "Customer confirms the order is correct",
			},
		},
	}
}

func customerInfoNode(cfg *Config) domain.Node {
	return domain.Node{
		Name:         domain.NodeCustomerInfo,
		Instructions: cfg.prompt(domain.NodeCustomerInfo, customerInfoPrompt),
		Functions: []domain.FunctionSpec{
			{
				Name:        domain.IntentSetCustomerInfo,
				Description: "Record customer name and phone, submit order",
				Parameters: schema.Schema{
					"name":  {Type: schema.String(), Description: "Customer's name", Required: true},
					"phone": {Type: schema.String(), Description: "Customer's phone number", Required: true},
				},
			},
		},
	}
}

func completionNode(cfg *Config, state *domain.OrderState) domain.Node {
	var narration string
	if result, ok := state.Result(); ok && result.Success {
		narration = fmt.Sprintf("Order placed! Your order number is %s. %s Thanks for calling %s!",
			shortOrderID(result.OrderID), cfg.ReadyLine, cfg.RestaurantName)
	} else {
		reason := "Unknown error"
		if ok && len(result.Errors) > 0 {
			reason = strings.Join(result.Errors, ", ")
		}
		narration = fmt.Sprintf("Sorry, there was a problem with your order: %s. Please try again or call back.", reason)
	}

	return domain.Node{
		Name:            domain.NodeCompletion,
		EntryUtterances: []string{narration},
		Instructions:    cfg.prompt(domain.NodeCompletion, completionPrompt),
		Functions: []domain.FunctionSpec{
			{
				Name:        domain.IntentEndCall,
				Description: "End the call after saying goodbye",
			},
		},
	}
}

// Nodes returns one instance of every node in the flow, built against an
// empty order. Used for startup validation and introspection; live nodes are
// regenerated from the call's actual state.
func Nodes(cfg *Config) []domain.Node {
	state := domain.NewOrderState(cfg.OrderType)
	return []domain.Node{
		greetingNode(cfg),
		menuInfoNode(cfg, ""),
		orderCollectionNode(cfg),
		orderConfirmationNode(cfg, state),
		customerInfoNode(cfg),
		completionNode(cfg, state),
	}
}

// shortOrderID trims backend order IDs to something speakable.
func shortOrderID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func trimBullets(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = strings.TrimPrefix(l, "- ")
	}
	return out
}
