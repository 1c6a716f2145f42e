package flow

import (
	"context"
	"fmt"
	"strings"

	"github.com/hamchowderr/ncr-aloha/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// decodeArgs maps validated intent arguments onto a typed struct. Weak typing
// tolerates JSON numerics arriving as float64.
func decodeArgs(args map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(args); err != nil {
		return fmt.Errorf("failed to decode intent args: %w", err)
	}
	return nil
}

type addItemArgs struct {
	ItemName  string   `mapstructure:"item_name"`
	Quantity  int      `mapstructure:"quantity"`
	Size      string   `mapstructure:"size"`
	Modifiers []string `mapstructure:"modifiers"`
}

type removeItemArgs struct {
	ItemName string `mapstructure:"item_name"`
}

type customerInfoArgs struct {
	Name  string `mapstructure:"name"`
	Phone string `mapstructure:"phone"`
}

// buildHandlers wires the (node, intent) dispatch table. Every function a
// node declares must have an entry here; New verifies that at construction.
func (c *Controller) buildHandlers() map[handlerKey]handlerFunc {
	return map[handlerKey]handlerFunc{
		{domain.NodeGreeting, domain.IntentSetReadyToOrder}: c.handleReadyToOrder,
		{domain.NodeGreeting, domain.IntentGetMenu}:         c.handleGetMenu,

		{domain.NodeMenuInfo, domain.IntentSetReadyToOrder}: c.handleReadyToOrder,
		{domain.NodeMenuInfo, domain.IntentRepeatMenu}:      c.handleRepeatMenu,

		{domain.NodeOrderCollection, domain.IntentAddItem}:       c.handleAddItem,
		{domain.NodeOrderCollection, domain.IntentRemoveItem}:    c.handleRemoveItem,
		{domain.NodeOrderCollection, domain.IntentGetMenu}:       c.handleGetMenu,
		{domain.NodeOrderCollection, domain.IntentCompleteOrder}: c.handleCompleteOrder,

		{domain.NodeOrderConfirmation, domain.IntentModifyOrder}:  c.handleModifyOrder,
		{domain.NodeOrderConfirmation, domain.IntentConfirmOrder}: c.handleConfirmOrder,

		{domain.NodeCustomerInfo, domain.IntentSetCustomerInfo}: c.handleSetCustomerInfo,

		{domain.NodeCompletion, domain.IntentEndCall}: c.handleEndCall,
	}
}

func (c *Controller) handleReadyToOrder(ctx context.Context, args map[string]any) (step, error) {
	next := orderCollectionNode(c.cfg)
	return step{
		utterance: "Great! What would you like to order?",
		next:      &next,
	}, nil
}

// handleGetMenu fetches the live menu and moves to the menu side-state. A
// fetch failure degrades to the configured fallback line and stays put.
func (c *Controller) handleGetMenu(ctx context.Context, args map[string]any) (step, error) {
	menu, err := c.backend.FetchMenu(ctx)
	if err != nil {
		c.logger.Warn("menu fetch failed", "error", err)
		return step{utterance: c.cfg.MenuFallback}, nil
	}

	text := formatMenu(menu)
	if text == "" {
		return step{utterance: c.cfg.MenuFallback}, nil
	}

	c.menuText = text
	next := menuInfoNode(c.cfg, text)
	return step{next: &next}, nil
}

func (c *Controller) handleRepeatMenu(ctx context.Context, args map[string]any) (step, error) {
	if c.menuText != "" {
		return step{utterance: c.menuText}, nil
	}
	return step{utterance: c.cfg.MenuFallback}, nil
}

func (c *Controller) handleAddItem(ctx context.Context, args map[string]any) (step, error) {
	var in addItemArgs
	if err := decodeArgs(args, &in); err != nil {
		return step{}, err
	}

	if in.Quantity < 1 {
		in.Quantity = 1
	}
	item := domain.OrderItem{
		ItemName:  in.ItemName,
		Quantity:  in.Quantity,
		Size:      in.Size,
		Modifiers: in.Modifiers,
	}
	c.state.AppendItem(item)

	return step{
		utterance: fmt.Sprintf("Got it, %s. Anything else?", FormatItem(item)),
	}, nil
}

func (c *Controller) handleRemoveItem(ctx context.Context, args map[string]any) (step, error) {
	var in removeItemArgs
	if err := decodeArgs(args, &in); err != nil {
		return step{}, err
	}

	target := strings.ToLower(strings.TrimSpace(in.ItemName))
	var kept []domain.OrderItem
	removed := false
	for _, item := range c.state.Items() {
		if !removed && strings.Contains(strings.ToLower(item.ItemName), target) {
			removed = true
			continue
		}
		kept = append(kept, item)
	}

	if !removed {
		return step{
			utterance: fmt.Sprintf("I don't see %s on your order. Anything else?", in.ItemName),
		}, nil
	}

	c.state.ReplaceItems(kept)
	return step{
		utterance: fmt.Sprintf("Okay, I took off the %s. Anything else?", in.ItemName),
	}, nil
}

func (c *Controller) handleCompleteOrder(ctx context.Context, args map[string]any) (step, error) {
	if c.state.Empty() {
		return step{utterance: c.cfg.EmptyOrderLine}, nil
	}
	next := orderConfirmationNode(c.cfg, c.state)
	return step{next: &next}, nil
}

func (c *Controller) handleModifyOrder(ctx context.Context, args map[string]any) (step, error) {
	next := orderCollectionNode(c.cfg)
	return step{
		utterance: "No problem. What would you like to change?",
		next:      &next,
	}, nil
}

func (c *Controller) handleConfirmOrder(ctx context.Context, args map[string]any) (step, error) {
	next := customerInfoNode(c.cfg)
	return step{
		utterance: "Perfect! Can I get a name for the order?",
		next:      &next,
	}, nil
}

// handleSetCustomerInfo records the caller identity and submits the order.
// The submission happens at most once per call: a repeat of this intent after
// a verdict is stored just re-narrates the completion stage.
func (c *Controller) handleSetCustomerInfo(ctx context.Context, args map[string]any) (step, error) {
	if c.state.Submitted() {
		next := completionNode(c.cfg, c.state)
		return step{next: &next}, nil
	}

	var in customerInfoArgs
	if err := decodeArgs(args, &in); err != nil {
		return step{}, err
	}

	if err := c.state.SetCustomer(domain.Customer{Name: in.Name, Phone: in.Phone}); err != nil {
		c.logger.Warn("customer already recorded", "error", err)
	}

	order, err := c.state.Snapshot()
	if err != nil {
		return step{}, err
	}

	result, err := c.backend.SubmitOrder(ctx, order)
	if err != nil {
		c.logger.Error("order submission failed", "error", err)
		result = domain.OrderResult{
			Success: false,
			Errors:  []string{err.Error()},
		}
	}

	if err := c.state.SetResult(result); err != nil {
		return step{}, err
	}
	c.hooks.orderSubmitted(result)
	c.logger.Info("order submitted",
		"success", result.Success,
		"order_id", result.OrderID,
		"items", len(order.Items),
	)

	next := completionNode(c.cfg, c.state)
	return step{next: &next}, nil
}

func (c *Controller) handleEndCall(ctx context.Context, args map[string]any) (step, error) {
	return step{
		utterance: c.cfg.Farewell,
		endOfCall: true,
	}, nil
}
