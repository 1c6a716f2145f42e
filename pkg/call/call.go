package call

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/hamchowderr/ncr-aloha/internal/logging"
	"github.com/hamchowderr/ncr-aloha/pkg/domain"
	"github.com/hamchowderr/ncr-aloha/pkg/flow"
	"github.com/hamchowderr/ncr-aloha/pkg/ports"
)

// Call ties one phone call together: the conversation controller, the call
// metrics, and the live-call registry entry. It owns the call lifecycle from
// first greeting to teardown.
type Call struct {
	sessionID  string
	fromNumber string
	toNumber   string

	cfg        *flow.Config
	controller *flow.Controller
	metrics    *Metrics
	backend    ports.OrderBackend
	registry   ports.CallRegistry
	logger     *slog.Logger

	endOnce sync.Once
	onEnd   func()

	mu          sync.Mutex
	hangupTimer *time.Timer
}

// Option customizes a Call.
type Option func(*options)

type options struct {
	logger *slog.Logger
	hooks  flow.Hooks
	onEnd  func()
}

// WithLogger sets the structured logger. Defaults to a no-op logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithFlowHooks installs conversation lifecycle hooks, e.g. the metrics
// collector bridge.
func WithFlowHooks(hooks flow.Hooks) Option {
	return func(o *options) {
		o.hooks = hooks
	}
}

// WithOnEnd installs a callback that fires once when the call is finalized,
// whether by the hangup timer or a transport disconnect.
func WithOnEnd(fn func()) Option {
	return func(o *options) {
		o.onEnd = fn
	}
}

// New creates a Call. The registry may be nil when live-call introspection is
// not wanted.
func New(sessionID, fromNumber, toNumber string, cfg *flow.Config, backend ports.OrderBackend, registry ports.CallRegistry, opts ...Option) (*Call, error) {
	if cfg == nil {
		cfg = flow.DefaultConfig()
	}

	o := &options{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(o)
	}

	c := &Call{
		sessionID:  sessionID,
		fromNumber: fromNumber,
		toNumber:   toNumber,
		cfg:        cfg,
		metrics:    NewMetrics(sessionID, fromNumber, toNumber),
		backend:    backend,
		registry:   registry,
		logger:     o.logger.With("session_id", sessionID),
		onEnd:      o.onEnd,
	}

	hooks := o.hooks
	userSubmitted := hooks.OnOrderSubmitted
	hooks.OnOrderSubmitted = func(result domain.OrderResult) {
		c.metrics.RecordOrder(result)
		if userSubmitted != nil {
			userSubmitted(result)
		}
	}

	controller, err := flow.New(cfg, backend,
		flow.WithLogger(c.logger),
		flow.WithHooks(hooks),
	)
	if err != nil {
		return nil, err
	}
	c.controller = controller
	return c, nil
}

// SessionID identifies this call.
func (c *Call) SessionID() string { return c.sessionID }

// Info renders the registry entry for this call.
func (c *Call) Info(status string) domain.CallInfo {
	return domain.CallInfo{
		SessionID:  c.sessionID,
		FromNumber: c.fromNumber,
		ToNumber:   c.toNumber,
		StartedAt:  c.metrics.startTime,
		Status:     status,
	}
}

// Start registers the call and speaks the greeting.
func (c *Call) Start(ctx context.Context) flow.Reply {
	if c.registry != nil {
		if err := c.registry.Put(ctx, c.Info(domain.CallStatusActive)); err != nil {
			c.logger.Warn("failed to register call", "error", err)
		}
	}
	c.logger.Info("call started", "from", c.fromNumber, "to", c.toNumber)

	reply := c.controller.Start(ctx)
	c.recordReply(reply)
	return reply
}

// AddCallerUtterance records what the caller said. The transcript drives the
// per-call turn count.
func (c *Call) AddCallerUtterance(content string) {
	c.metrics.AddTranscript(domain.RoleUser, content)
}

// HandleIntent runs one caller turn. Protocol violations are absorbed here:
// the caller hears the reprompt line and the conversation stays where it was.
func (c *Call) HandleIntent(ctx context.Context, intent domain.Intent) (flow.Reply, error) {
	reply, err := c.controller.HandleIntent(ctx, intent)
	if err != nil {
		if errors.Is(err, domain.ErrIntentNotAllowed) {
			reply = flow.Reply{
				Utterance: c.cfg.Reprompt,
				Node:      c.controller.CurrentNode(),
			}
			c.recordReply(reply)
			return reply, nil
		}
		return flow.Reply{}, err
	}

	c.recordReply(reply)

	if reply.EndOfCall {
		c.scheduleHangup(ctx)
	}
	return reply, nil
}

// recordReply appends every spoken utterance to the transcript.
func (c *Call) recordReply(reply flow.Reply) {
	c.metrics.AddTranscript(domain.RoleAssistant, reply.Utterance)
	for _, u := range reply.EntryUtterances {
		c.metrics.AddTranscript(domain.RoleAssistant, u)
	}
}

// scheduleHangup marks the call as ending and tears it down after the
// farewell has had time to play out.
func (c *Call) scheduleHangup(ctx context.Context) {
	if c.registry != nil {
		if err := c.registry.Put(ctx, c.Info(domain.CallStatusEnding)); err != nil {
			c.logger.Warn("failed to mark call ending", "error", err)
		}
	}

	delay := time.Duration(c.cfg.HangupDelay)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hangupTimer == nil {
		c.hangupTimer = time.AfterFunc(delay, func() {
			c.End(context.Background())
		})
	}
}

// End finalizes the call: it stamps the end time, records the customer,
// submits the call record, and removes the registry entry. End is safe to
// call from both the hangup timer and a transport disconnect; only the first
// caller does the work.
func (c *Call) End(ctx context.Context) {
	c.endOnce.Do(func() {
		c.mu.Lock()
		if c.hangupTimer != nil {
			c.hangupTimer.Stop()
		}
		c.mu.Unlock()

		c.metrics.Finish()
		if customer, ok := c.controller.Customer(); ok {
			c.metrics.RecordCustomer(customer)
		}
		c.metrics.LogSummary(c.logger)

		if err := c.metrics.SubmitToAPI(ctx, c.backend); err != nil {
			c.logger.Error("failed to submit call record", "error", err)
		}

		if c.registry != nil {
			if err := c.registry.Delete(ctx, c.sessionID); err != nil {
				c.logger.Warn("failed to deregister call", "error", err)
			}
		}

		if c.onEnd != nil {
			c.onEnd()
		}
	})
}

// Record exposes the current call record, e.g. for inspection endpoints.
func (c *Call) Record() domain.CallRecord {
	return c.metrics.Record()
}

// Ended reports whether the conversation reached its end state.
func (c *Call) Ended() bool {
	return c.controller.Ended()
}
