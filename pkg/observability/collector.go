package observability

import (
	"net/http"

	"github.com/hamchowderr/ncr-aloha/pkg/domain"
	"github.com/hamchowderr/ncr-aloha/pkg/flow"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the Prometheus metrics of the voice ordering service. It
// carries its own registry so tests can run collectors side by side.
type Collector struct {
	registry *prometheus.Registry

	callsStarted prometheus.Counter
	callsEnded   prometheus.Counter
	activeCalls  prometheus.Gauge
	nodeEntries  *prometheus.CounterVec
	intents      *prometheus.CounterVec
	orders       *prometheus.CounterVec
}

// NewCollector creates and registers the metric set.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		callsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "voiceorder_calls_started_total",
			Help: "Total number of calls answered",
		}),
		callsEnded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "voiceorder_calls_ended_total",
			Help: "Total number of calls torn down",
		}),
		activeCalls: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "voiceorder_active_calls",
			Help: "Calls currently in progress",
		}),
		nodeEntries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "voiceorder_node_entries_total",
			Help: "Total number of conversation stage entries",
		}, []string{"node"}),
		intents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "voiceorder_intents_total",
			Help: "Total number of dispatched intents by outcome",
		}, []string{"node", "intent", "outcome"}),
		orders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "voiceorder_orders_total",
			Help: "Total number of submitted orders by status",
		}, []string{"status"}),
	}

	c.registry.MustRegister(
		c.callsStarted,
		c.callsEnded,
		c.activeCalls,
		c.nodeEntries,
		c.intents,
		c.orders,
	)
	return c
}

// Handler serves this collector's metrics in Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, e.g. for test scraping.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// CallStarted records an answered call.
func (c *Collector) CallStarted() {
	c.callsStarted.Inc()
	c.activeCalls.Inc()
}

// CallEnded records a torn-down call.
func (c *Collector) CallEnded() {
	c.callsEnded.Inc()
	c.activeCalls.Dec()
}

// FlowHooks bridges the conversation lifecycle into the metric set.
func (c *Collector) FlowHooks() flow.Hooks {
	return flow.Hooks{
		OnNodeEnter: func(node string) {
			c.nodeEntries.WithLabelValues(node).Inc()
		},
		OnIntent: func(node string, intent domain.IntentName, outcome string) {
			c.intents.WithLabelValues(node, string(intent), outcome).Inc()
		},
		OnOrderSubmitted: func(result domain.OrderResult) {
			status := "failure"
			if result.Success {
				status = "success"
			}
			c.orders.WithLabelValues(status).Inc()
		},
	}
}
