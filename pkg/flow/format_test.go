package flow

import (
	"testing"

	"github.com/hamchowderr/ncr-aloha/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestFormatItem(t *testing.T) {
	tests := []struct {
		name string
		item domain.OrderItem
		want string
	}{
		{
			name: "plain",
			item: domain.OrderItem{ItemName: "Fries", Quantity: 1},
			want: "1x Fries",
		},
		{
			name: "with size",
			item: domain.OrderItem{ItemName: "Wings", Quantity: 2, Size: "2 lb"},
			want: "2x Wings (2 lb)",
		},
		{
			name: "with modifiers",
			item: domain.OrderItem{ItemName: "Wings", Quantity: 1, Size: "1 lb", Modifiers: []string{"BBQ", "Hot"}},
			want: "1x Wings (1 lb) with BBQ, Hot",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatItem(tt.item))
		})
	}
}

func TestFormatOrderLinesPreservesOrder(t *testing.T) {
	lines := FormatOrderLines([]domain.OrderItem{
		{ItemName: "Ribs", Quantity: 1},
		{ItemName: "Wings", Quantity: 2},
		{ItemName: "Fries", Quantity: 1},
	})

	assert.Equal(t, []string{"- 1x Ribs", "- 2x Wings", "- 1x Fries"}, lines)
}

func TestJoinWithAnd(t *testing.T) {
	assert.Equal(t, "", JoinWithAnd(nil))
	assert.Equal(t, "wings", JoinWithAnd([]string{"wings"}))
	assert.Equal(t, "wings and ribs", JoinWithAnd([]string{"wings", "ribs"}))
	assert.Equal(t, "wings, ribs, and burgers", JoinWithAnd([]string{"wings", "ribs", "burgers"}))
}

func TestFormatMenuCategoriesOnly(t *testing.T) {
	got := formatMenu(domain.Menu{Categories: []string{"wings", "ribs"}})
	assert.Contains(t, got, "We have wings and ribs.")
	assert.Contains(t, got, "What sounds good to you?")
}

func TestFormatMenuWithItems(t *testing.T) {
	menu := domain.Menu{
		Items: []domain.MenuItem{
			{Name: "Classic Wings", Category: "Wings", BasePrice: 12.99},
			{Name: "Hot Wings", Category: "Wings", BasePrice: 13.99},
			{Name: "Baby Back Ribs", Category: "Ribs", BasePrice: 18.50},
		},
	}

	got := formatMenu(menu)
	assert.Contains(t, got, "Classic Wings at $12.99")
	assert.Contains(t, got, "Baby Back Ribs at $18.50")
	assert.Contains(t, got, "Ribs:")
}

func TestFormatMenuCapsItemsPerCategory(t *testing.T) {
	menu := domain.Menu{}
	for i := 0; i < 8; i++ {
		menu.Items = append(menu.Items, domain.MenuItem{
			Name:      string(rune('A'+i)) + " Wings",
			Category:  "Wings",
			BasePrice: 10,
		})
	}

	got := formatMenu(menu)
	assert.Contains(t, got, "E Wings")
	assert.NotContains(t, got, "F Wings")
}

func TestFormatMenuEmpty(t *testing.T) {
	assert.Equal(t, "", formatMenu(domain.Menu{}))
}
