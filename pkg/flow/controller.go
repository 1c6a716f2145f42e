package flow

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hamchowderr/ncr-aloha/internal/logging"
	"github.com/hamchowderr/ncr-aloha/pkg/domain"
	"github.com/hamchowderr/ncr-aloha/pkg/ports"
	"github.com/hamchowderr/ncr-aloha/pkg/schema"
)

// Intent outcomes reported through Hooks.OnIntent.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeInvalid  = "invalid"
)

// Reply is what the controller wants spoken after a caller turn: the
// handler's immediate utterance, then any entry utterances of a node that was
// just entered, in that order.
type Reply struct {
	// Utterance is the handler's direct response. May be empty when the new
	// node's entry utterances carry the whole reply.
	Utterance string `json:"utterance,omitempty"`

	// EntryUtterances are spoken after Utterance when a node transition
	// happened.
	EntryUtterances []string `json:"entry_utterances,omitempty"`

	// Node is the conversation stage after this turn.
	Node string `json:"node"`

	// Instructions are the classifier instructions for the (possibly new)
	// active node.
	Instructions string `json:"instructions,omitempty"`

	// Functions are the classifier-facing function declarations of the active
	// node.
	Functions []map[string]any `json:"functions,omitempty"`

	// EndOfCall signals that the transport should hang up after the farewell
	// has played out.
	EndOfCall bool `json:"end_of_call,omitempty"`
}

// Hooks receive controller lifecycle events. All fields are optional.
type Hooks struct {
	// OnNodeEnter fires after a node becomes active, including the initial one.
	OnNodeEnter func(node string)

	// OnIntent fires for every dispatched intent with its outcome.
	OnIntent func(node string, intent domain.IntentName, outcome string)

	// OnOrderSubmitted fires exactly once per call, after the backend verdict
	// (or the synthesized failure verdict) is stored.
	OnOrderSubmitted func(result domain.OrderResult)
}

func (h Hooks) nodeEnter(node string) {
	if h.OnNodeEnter != nil {
		h.OnNodeEnter(node)
	}
}

func (h Hooks) intent(node string, intent domain.IntentName, outcome string) {
	if h.OnIntent != nil {
		h.OnIntent(node, intent, outcome)
	}
}

func (h Hooks) orderSubmitted(result domain.OrderResult) {
	if h.OnOrderSubmitted != nil {
		h.OnOrderSubmitted(result)
	}
}

// step is a handler's verdict for one turn: what to say, where to go.
type step struct {
	utterance string
	next      *domain.Node
	endOfCall bool
}

type handlerKey struct {
	node   string
	intent domain.IntentName
}

type handlerFunc func(ctx context.Context, args map[string]any) (step, error)

// Controller runs the ordering conversation for one call. It owns the order
// state and the active node, dispatches classified intents, and produces the
// utterances to speak back.
//
// A Controller is safe for concurrent use; turns are serialized internally.
type Controller struct {
	cfg     *Config
	backend ports.OrderBackend
	logger  *slog.Logger
	hooks   Hooks

	handlers map[handlerKey]handlerFunc

	mu       sync.Mutex
	state    *domain.OrderState
	node     domain.Node
	started  bool
	ended    bool
	menuText string
}

// Option customizes a Controller.
type Option func(*Controller)

// WithLogger sets the structured logger. Defaults to a no-op logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHooks installs lifecycle hooks.
func WithHooks(hooks Hooks) Option {
	return func(c *Controller) {
		c.hooks = hooks
	}
}

// New builds a Controller for one call. It fails if any node declares a
// function with no registered handler, so an incomplete dispatch table is
// caught at construction rather than mid-call.
func New(cfg *Config, backend ports.OrderBackend, opts ...Option) (*Controller, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if backend == nil {
		return nil, fmt.Errorf("order backend is required")
	}

	c := &Controller{
		cfg:     cfg,
		backend: backend,
		logger:  logging.NewNop(),
		state:   domain.NewOrderState(cfg.OrderType),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.handlers = c.buildHandlers()

	for _, node := range Nodes(cfg) {
		for _, name := range node.IntentNames() {
			if _, ok := c.handlers[handlerKey{node: node.Name, intent: name}]; !ok {
				return nil, fmt.Errorf("node %q declares %q with no handler", node.Name, name)
			}
		}
	}
	return c, nil
}

// Start activates the greeting node and returns its entry utterances.
// Calling Start twice returns the current node without re-greeting.
func (c *Controller) Start(ctx context.Context) Reply {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.started {
		c.started = true
		c.setNode(greetingNode(c.cfg))
		return c.reply(step{next: &c.node})
	}
	return c.reply(step{})
}

// CurrentNode returns the active conversation stage.
func (c *Controller) CurrentNode() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.node.Name
}

// Items returns a copy of the items ordered so far.
func (c *Controller) Items() []domain.OrderItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Items()
}

// Customer returns the recorded caller identity, if collected. Safe to call
// while a turn is in flight; teardown reads it from the transport goroutine.
func (c *Controller) Customer() (domain.Customer, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Customer()
}

// Result returns the submission verdict, if the order was submitted.
func (c *Controller) Result() (domain.OrderResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Result()
}

// HandleIntent runs one caller turn. Intents outside the active node's
// function set are protocol violations and return ErrIntentNotAllowed with
// the state untouched. Argument validation failures are recovered in place
// with a corrective utterance.
func (c *Controller) HandleIntent(ctx context.Context, intent domain.Intent) (Reply, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.started || c.ended {
		c.hooks.intent(c.node.Name, intent.Name, OutcomeRejected)
		return Reply{}, fmt.Errorf("intent %q on inactive call: %w", intent.Name, domain.ErrIntentNotAllowed)
	}

	spec, ok := c.node.Function(intent.Name)
	if !ok {
		c.logger.Warn("intent not allowed in node", "node", c.node.Name, "intent", string(intent.Name))
		c.hooks.intent(c.node.Name, intent.Name, OutcomeRejected)
		return Reply{}, fmt.Errorf("intent %q in node %q: %w", intent.Name, c.node.Name, domain.ErrIntentNotAllowed)
	}

	if err := schema.Validate(spec.Parameters, intent.Args); err != nil {
		c.logger.Warn("intent arguments invalid", "node", c.node.Name, "intent", string(intent.Name), "error", err)
		c.hooks.intent(c.node.Name, intent.Name, OutcomeInvalid)
		return c.reply(step{utterance: c.cfg.Reprompt}), nil
	}
	args := schema.Apply(spec.Parameters, intent.Args)

	handler := c.handlers[handlerKey{node: c.node.Name, intent: intent.Name}]
	st, err := handler(ctx, args)
	if err != nil {
		c.hooks.intent(c.node.Name, intent.Name, OutcomeInvalid)
		return c.reply(step{utterance: c.cfg.Reprompt}), nil
	}

	c.hooks.intent(c.node.Name, intent.Name, OutcomeOK)
	c.logger.Debug("intent handled", "node", c.node.Name, "intent", string(intent.Name))

	if st.next != nil {
		c.setNode(*st.next)
	}
	if st.endOfCall {
		c.ended = true
	}
	return c.reply(st), nil
}

// Ended reports whether end_call has been handled.
func (c *Controller) Ended() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ended
}

func (c *Controller) setNode(node domain.Node) {
	c.node = node
	c.hooks.nodeEnter(node.Name)
}

// reply renders a step against the active node. Callers hold c.mu.
func (c *Controller) reply(st step) Reply {
	r := Reply{
		Utterance:    st.utterance,
		Node:         c.node.Name,
		Instructions: c.node.Instructions,
		EndOfCall:    st.endOfCall,
	}
	if st.next != nil {
		r.EntryUtterances = append([]string(nil), c.node.EntryUtterances...)
	}
	for _, f := range c.node.Functions {
		r.Functions = append(r.Functions, f.JSONSchema())
	}
	return r
}
