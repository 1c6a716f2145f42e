package flow

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hamchowderr/ncr-aloha/pkg/domain"
)

// FormatItem renders one order line for speech, e.g.
// "2x Wings (2 lb) with BBQ, Hot". Both the add-item acknowledgment and the
// confirmation read-back use this one routine.
func FormatItem(item domain.OrderItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%dx %s", item.Quantity, item.ItemName)
	if item.Size != "" {
		fmt.Fprintf(&b, " (%s)", item.Size)
	}
	if len(item.Modifiers) > 0 {
		fmt.Fprintf(&b, " with %s", strings.Join(item.Modifiers, ", "))
	}
	return b.String()
}

// FormatOrderLines renders the whole order as read-back lines, one per item,
// in insertion order.
func FormatOrderLines(items []domain.OrderItem) []string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "- " + FormatItem(item)
	}
	return lines
}

// JoinWithAnd joins parts for speech: "wings", "wings and ribs",
// "wings, ribs, and burgers".
func JoinWithAnd(parts []string) string {
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	case 2:
		return parts[0] + " and " + parts[1]
	default:
		return strings.Join(parts[:len(parts)-1], ", ") + ", and " + parts[len(parts)-1]
	}
}

// maxItemsPerCategory caps how many items are read out per category so the
// menu stays listenable on the phone.
const maxItemsPerCategory = 5

// formatMenu renders the backend menu for speech. With full item data it
// lists a few items per category with prices; with categories only, it
// summarizes them.
func formatMenu(menu domain.Menu) string {
	if len(menu.Items) > 0 {
		byCategory := make(map[string][]domain.MenuItem)
		var order []string
		for _, item := range menu.Items {
			cat := item.Category
			if cat == "" {
				cat = "Other"
			}
			if _, seen := byCategory[cat]; !seen {
				order = append(order, cat)
			}
			byCategory[cat] = append(byCategory[cat], item)
		}
		sort.Strings(order)

		var b strings.Builder
		b.WriteString("Here's our menu.")
		for _, cat := range order {
			items := byCategory[cat]
			if len(items) > maxItemsPerCategory {
				items = items[:maxItemsPerCategory]
			}
			names := make([]string, len(items))
			for i, item := range items {
				names[i] = fmt.Sprintf("%s at $%.2f", item.Name, item.BasePrice)
			}
			fmt.Fprintf(&b, " %s: %s.", cat, JoinWithAnd(names))
		}
		b.WriteString(" What sounds good?")
		return b.String()
	}

	if len(menu.Categories) > 0 {
		return fmt.Sprintf(
			"We have %s. Our wings come in one, two, three, or five pound sizes. What sounds good to you?",
			JoinWithAnd(menu.Categories),
		)
	}

	return ""
}
