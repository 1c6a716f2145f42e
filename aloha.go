package aloha

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hamchowderr/ncr-aloha/internal/logging"
	"github.com/hamchowderr/ncr-aloha/pkg/call"
	"github.com/hamchowderr/ncr-aloha/pkg/flow"
	"github.com/hamchowderr/ncr-aloha/pkg/observability"
	"github.com/hamchowderr/ncr-aloha/pkg/ports"
)

// Version of the voice ordering service.
const Version = "0.1.0"

// Service is the high-level entry point: it answers calls, tracks the live
// ones, and tears them down. One Service handles many concurrent calls.
type Service struct {
	cfg       *flow.Config
	backend   ports.OrderBackend
	registry  ports.CallRegistry
	collector *observability.Collector
	logger    *slog.Logger

	mu    sync.Mutex
	calls map[string]*call.Call
}

// Option defines a functional option for configuring the Service.
type Option func(*Service)

// WithLogger sets the structured logger. Defaults to a no-op logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRegistry attaches a live-call registry, e.g. the Redis one when
// several instances share a number.
func WithRegistry(registry ports.CallRegistry) Option {
	return func(s *Service) {
		s.registry = registry
	}
}

// WithCollector attaches a Prometheus collector.
func WithCollector(collector *observability.Collector) Option {
	return func(s *Service) {
		s.collector = collector
	}
}

// New creates a Service. The backend is required; cfg may be nil for the
// built-in defaults.
func New(cfg *flow.Config, backend ports.OrderBackend, opts ...Option) (*Service, error) {
	if backend == nil {
		return nil, fmt.Errorf("order backend is required")
	}
	if cfg == nil {
		cfg = flow.DefaultConfig()
	}

	s := &Service{
		cfg:     cfg,
		backend: backend,
		logger:  logging.NewNop(),
		calls:   make(map[string]*call.Call),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Config returns the flow configuration in use.
func (s *Service) Config() *flow.Config { return s.cfg }

// Registry returns the attached live-call registry, if any.
func (s *Service) Registry() ports.CallRegistry { return s.registry }

// Collector returns the attached metrics collector, if any.
func (s *Service) Collector() *observability.Collector { return s.collector }

// Answer starts a new call session and returns the greeting. The session ID
// must be unique among live calls.
func (s *Service) Answer(ctx context.Context, sessionID, fromNumber, toNumber string) (*call.Call, flow.Reply, error) {
	callOpts := []call.Option{call.WithLogger(s.logger)}
	if s.collector != nil {
		callOpts = append(callOpts, call.WithFlowHooks(s.collector.FlowHooks()))
	}
	callOpts = append(callOpts, call.WithOnEnd(func() {
		if s.collector != nil {
			s.collector.CallEnded()
		}
		s.remove(sessionID)
	}))

	c, err := call.New(sessionID, fromNumber, toNumber, s.cfg, s.backend, s.registry, callOpts...)
	if err != nil {
		return nil, flow.Reply{}, err
	}

	s.mu.Lock()
	if _, exists := s.calls[sessionID]; exists {
		s.mu.Unlock()
		return nil, flow.Reply{}, fmt.Errorf("session %q already live", sessionID)
	}
	s.calls[sessionID] = c
	s.mu.Unlock()

	if s.collector != nil {
		s.collector.CallStarted()
	}

	reply := c.Start(ctx)
	return c, reply, nil
}

// Get returns a live call by session ID.
func (s *Service) Get(sessionID string) (*call.Call, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.calls[sessionID]
	return c, ok
}

// Disconnect finalizes a live call, e.g. when the caller hangs up.
func (s *Service) Disconnect(ctx context.Context, sessionID string) bool {
	c, ok := s.Get(sessionID)
	if !ok {
		return false
	}
	c.End(ctx)
	return true
}

// Live returns the number of calls this instance is handling.
func (s *Service) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

// Shutdown finalizes every live call, flushing their records.
func (s *Service) Shutdown(ctx context.Context) {
	s.mu.Lock()
	live := make([]*call.Call, 0, len(s.calls))
	for _, c := range s.calls {
		live = append(live, c)
	}
	s.mu.Unlock()

	for _, c := range live {
		c.End(ctx)
	}
}

func (s *Service) remove(sessionID string) {
	s.mu.Lock()
	delete(s.calls, sessionID)
	s.mu.Unlock()
}
