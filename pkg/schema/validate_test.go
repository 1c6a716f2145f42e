package schema_test

import (
	"testing"

	"github.com/hamchowderr/ncr-aloha/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_RequiredAndTypes(t *testing.T) {
	params := schema.Schema{
		"item_name": {Type: schema.String(), Required: true},
		"quantity":  {Type: schema.Int(), Default: 1},
		"modifiers": {Type: schema.Slice(schema.String())},
	}

	t.Run("valid", func(t *testing.T) {
		err := schema.Validate(params, map[string]any{
			"item_name": "Wings",
			"quantity":  2,
			"modifiers": []any{"BBQ"},
		})
		assert.NoError(t, err)
	})

	t.Run("missing required", func(t *testing.T) {
		err := schema.Validate(params, map[string]any{"quantity": 2})
		require.Error(t, err)
		errs := schema.ValidationErrors(err)
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0].Error(), "item_name")
		assert.Contains(t, errs[0].Error(), "required")
	})

	t.Run("missing optional is fine", func(t *testing.T) {
		err := schema.Validate(params, map[string]any{"item_name": "Wings"})
		assert.NoError(t, err)
	})

	t.Run("type mismatch", func(t *testing.T) {
		err := schema.Validate(params, map[string]any{
			"item_name": 42,
			"quantity":  "two",
		})
		require.Error(t, err)
		assert.Len(t, schema.ValidationErrors(err), 2)
	})

	t.Run("json numbers are integers when whole", func(t *testing.T) {
		// encoding/json decodes numbers as float64
		err := schema.Validate(params, map[string]any{
			"item_name": "Wings",
			"quantity":  float64(3),
		})
		assert.NoError(t, err)

		err = schema.Validate(params, map[string]any{
			"item_name": "Wings",
			"quantity":  2.5,
		})
		assert.Error(t, err)
	})
}

func TestValidate_Enum(t *testing.T) {
	params := schema.Schema{
		"order_type": {Type: schema.Enum("pickup", "delivery")},
	}

	assert.NoError(t, schema.Validate(params, map[string]any{"order_type": "pickup"}))
	assert.NoError(t, schema.Validate(params, map[string]any{"order_type": "delivery"}))

	err := schema.Validate(params, map[string]any{"order_type": "dine-in"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "enum")
}

func TestApply_Defaults(t *testing.T) {
	params := schema.Schema{
		"item_name": {Type: schema.String(), Required: true},
		"quantity":  {Type: schema.Int(), Default: 1},
		"size":      {Type: schema.String()},
	}

	in := map[string]any{"item_name": "Fries"}
	out := schema.Apply(params, in)

	assert.Equal(t, 1, out["quantity"])
	assert.Equal(t, "Fries", out["item_name"])
	_, hasSize := out["size"]
	assert.False(t, hasSize, "fields without defaults stay absent")

	// Input map untouched
	_, mutated := in["quantity"]
	assert.False(t, mutated)

	// Explicit values win over defaults
	out = schema.Apply(params, map[string]any{"item_name": "Fries", "quantity": 4})
	assert.Equal(t, 4, out["quantity"])
}

func TestSchema_JSONSchema(t *testing.T) {
	params := schema.Schema{
		"item_name": {Type: schema.String(), Description: "Menu item name", Required: true},
		"quantity":  {Type: schema.Int(), Default: 1},
		"modifiers": {Type: schema.Slice(schema.String())},
		"size":      {Type: schema.Enum("1 lb", "2 lb", "3 lb", "5 lb")},
	}

	doc := params.JSONSchema()
	assert.Equal(t, "object", doc["type"])

	props, ok := doc["properties"].(map[string]any)
	require.True(t, ok)
	require.Len(t, props, 4)

	name := props["item_name"].(map[string]any)
	assert.Equal(t, "string", name["type"])
	assert.Equal(t, "Menu item name", name["description"])

	mods := props["modifiers"].(map[string]any)
	assert.Equal(t, "array", mods["type"])
	assert.Equal(t, map[string]any{"type": "string"}, mods["items"])

	size := props["size"].(map[string]any)
	assert.Equal(t, []any{"1 lb", "2 lb", "3 lb", "5 lb"}, size["enum"])

	assert.Equal(t, []string{"item_name"}, doc["required"])
}

func TestSchema_JSONSchema_NoRequired(t *testing.T) {
	params := schema.Schema{
		"quantity": {Type: schema.Int()},
	}
	doc := params.JSONSchema()
	_, has := doc["required"]
	assert.False(t, has, "empty required list is omitted")
}
