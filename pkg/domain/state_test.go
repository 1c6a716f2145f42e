package domain_test

import (
	"testing"

	"github.com/hamchowderr/ncr-aloha/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderState_Items(t *testing.T) {
	st := domain.NewOrderState("")
	assert.Equal(t, domain.OrderTypePickup, st.OrderType())
	assert.True(t, st.Empty())

	st.AppendItem(domain.OrderItem{ItemName: "Wings", Quantity: 2, Size: "2 lb", Modifiers: []string{"BBQ"}})
	st.AppendItem(domain.OrderItem{ItemName: "Fries"}) // quantity defaults to 1

	items := st.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "Wings", items[0].ItemName)
	assert.Equal(t, 1, items[1].Quantity)

	// Items() returns a copy; mutating it must not touch the order.
	items[0].ItemName = "Ribs"
	assert.Equal(t, "Wings", st.Items()[0].ItemName)

	st.ReplaceItems([]domain.OrderItem{{ItemName: "Fries", Quantity: 1}})
	require.Len(t, st.Items(), 1)
}

func TestOrderState_CustomerOnce(t *testing.T) {
	st := domain.NewOrderState(domain.OrderTypePickup)

	_, ok := st.Customer()
	assert.False(t, ok)

	require.NoError(t, st.SetCustomer(domain.Customer{Name: "Alex", Phone: "4165551234"}))
	err := st.SetCustomer(domain.Customer{Name: "Sam", Phone: "000"})
	assert.ErrorIs(t, err, domain.ErrCustomerAlreadySet)

	c, ok := st.Customer()
	require.True(t, ok)
	assert.Equal(t, "Alex", c.Name)
}

func TestOrderState_ResultOnce(t *testing.T) {
	st := domain.NewOrderState(domain.OrderTypePickup)
	assert.False(t, st.Submitted())

	require.NoError(t, st.SetResult(domain.OrderResult{Success: true, OrderID: "abc123"}))
	assert.True(t, st.Submitted())

	err := st.SetResult(domain.OrderResult{Success: false})
	assert.ErrorIs(t, err, domain.ErrOrderAlreadySubmitted)

	r, ok := st.Result()
	require.True(t, ok)
	assert.True(t, r.Success)
	assert.Equal(t, "abc123", r.OrderID)
}

func TestOrderState_Snapshot(t *testing.T) {
	st := domain.NewOrderState(domain.OrderTypePickup)

	_, err := st.Snapshot()
	assert.ErrorIs(t, err, domain.ErrEmptyOrder)

	st.AppendItem(domain.OrderItem{ItemName: "Wings", Quantity: 2})
	_, err = st.Snapshot()
	assert.ErrorIs(t, err, domain.ErrCustomerNotSet)

	require.NoError(t, st.SetCustomer(domain.Customer{Name: "Alex", Phone: "4165551234"}))
	order, err := st.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, domain.OrderTypePickup, order.OrderType)
	require.Len(t, order.Items, 1)
	assert.Equal(t, domain.Customer{Name: "Alex", Phone: "4165551234"}, order.Customer)

	// Snapshot is detached from later mutations.
	st.AppendItem(domain.OrderItem{ItemName: "Fries"})
	assert.Len(t, order.Items, 1)
}
