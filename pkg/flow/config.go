package flow

import (
	"fmt"
	"os"
	"time"

	"github.com/hamchowderr/ncr-aloha/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration with YAML support for values like "3s".
type Duration time.Duration

// UnmarshalYAML parses a duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML renders the duration as a string.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Config parameterizes one ordering flow: the restaurant identity, the fixed
// spoken lines, per-node classifier prompt overrides, and call pacing. The
// same state machine serves any restaurant by swapping the Config.
type Config struct {
	// RestaurantName is interpolated into greetings and farewells.
	RestaurantName string `yaml:"restaurant_name"`

	// OrderType is the order type submitted to the backend ("pickup" or
	// "delivery"). Defaults to pickup.
	OrderType string `yaml:"order_type"`

	// Greeting is spoken when the call connects, before any caller input.
	Greeting string `yaml:"greeting"`

	// RoleInstructions set the assistant persona for the upstream classifier.
	RoleInstructions string `yaml:"role_instructions"`

	// Reprompt is spoken when the caller's intent cannot be acted on in the
	// current stage.
	Reprompt string `yaml:"reprompt"`

	// EmptyOrderLine is spoken when the caller tries to finish an empty order.
	EmptyOrderLine string `yaml:"empty_order_line"`

	// MenuFallback is spoken when the menu cannot be fetched from the backend.
	MenuFallback string `yaml:"menu_fallback"`

	// ReadyLine is spoken on the pickup ETA after a successful submission.
	ReadyLine string `yaml:"ready_line"`

	// Farewell is the last utterance before hangup.
	Farewell string `yaml:"farewell"`

	// HangupDelay is how long after the farewell the transport is torn down,
	// so the utterance has time to play out. Defaults to 3s.
	HangupDelay Duration `yaml:"hangup_delay"`

	// NodePrompts overrides the classifier instructions per node name.
	NodePrompts map[string]string `yaml:"node_prompts"`
}

// DefaultConfig returns the built-in Allstar Wings & Ribs flow configuration.
func DefaultConfig() *Config {
	name := "Allstar Wings & Ribs"
	return &Config{
		RestaurantName: name,
		OrderType:      domain.OrderTypePickup,
		Greeting:       fmt.Sprintf("Hi there! Thanks for calling %s. What can I get for you today?", name),
		RoleInstructions: fmt.Sprintf(`You are a friendly voice ordering assistant for %s.

Keep responses brief and conversational - this is a phone order.
Be warm and helpful, like a real restaurant employee taking orders.
Always confirm what you heard before moving on.
NEVER use markdown formatting (no asterisks, no bold, no lists).
NEVER mention other restaurants.`, name),
		Reprompt:       "Sorry, I didn't catch that. Could you say it again?",
		EmptyOrderLine: "You haven't ordered anything yet. What would you like?",
		MenuFallback:   "We have wings, ribs, burgers, fries, salads, and desserts. Our wings come in one, two, three, or five pound sizes. What sounds good?",
		ReadyLine:      "It'll be ready in about 15 to 20 minutes for pickup.",
		Farewell:       "Goodbye!",
		HangupDelay:    Duration(3 * time.Second),
	}
}

// LoadConfig reads a YAML flow configuration, overlaying it on the defaults.
// Every omitted key keeps its default value.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read flow config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse flow config: %w", err)
	}

	if cfg.OrderType != domain.OrderTypePickup && cfg.OrderType != domain.OrderTypeDelivery {
		return nil, fmt.Errorf("invalid order_type %q", cfg.OrderType)
	}

	return cfg, nil
}

// prompt returns the classifier instructions for a node, honoring overrides.
func (c *Config) prompt(node, fallback string) string {
	if override, ok := c.NodePrompts[node]; ok && override != "" {
		return override
	}
	return fallback
}
