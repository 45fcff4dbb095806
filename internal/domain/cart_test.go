package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddLine_MergesSameProduct(t *testing.T) {
	now := time.Now()
	var state CartState

	state = state.AddLine(CartLine{ProductID: 42, Name: "70s suede jacket", Price: 100, Quantity: 1}, now)
	require.Len(t, state.Items, 1)
	assert.Equal(t, 1, state.ItemCount())
	assert.Equal(t, 100.0, state.Subtotal())

	state = state.AddLine(CartLine{ProductID: 42, Name: "70s suede jacket", Price: 100, Quantity: 2}, now.Add(time.Second))

	require.Len(t, state.Items, 1)
	assert.Equal(t, 3, state.Items[0].Quantity)
	assert.Equal(t, 300.0, state.Subtotal())
}

func TestAddLine_AppendsNewProductWithFreshID(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var state CartState

	state = state.AddLine(CartLine{ProductID: 7, Price: 25, Quantity: 2}, now)
	state = state.AddLine(CartLine{ProductID: 9, Price: 40, Quantity: 1}, now)

	require.Len(t, state.Items, 2)
	assert.Equal(t, NewLineID(7, now), state.Items[0].ID)
	assert.Equal(t, NewLineID(9, now), state.Items[1].ID)
	assert.Equal(t, 3, state.ItemCount())
	assert.Equal(t, 90.0, state.Subtotal())
}

func TestAddLine_DoesNotMutateReceiver(t *testing.T) {
	now := time.Now()
	base := CartState{}.AddLine(CartLine{ProductID: 1, Quantity: 1}, now)

	_ = base.AddLine(CartLine{ProductID: 1, Quantity: 5}, now)

	assert.Equal(t, 1, base.Items[0].Quantity)
}

func TestSetQuantity_ZeroRemovesLine(t *testing.T) {
	now := time.Now()
	state := CartState{}.AddLine(CartLine{ProductID: 5, Price: 10, Quantity: 1}, now)
	lineID := state.Items[0].ID

	state = state.SetQuantity(lineID, 0, now.Add(time.Second))

	assert.Empty(t, state.Items)
	assert.Equal(t, 0, state.ItemCount())
}

func TestSetQuantity_NegativeRemovesLine(t *testing.T) {
	now := time.Now()
	state := CartState{}.AddLine(CartLine{ProductID: 5, Price: 10, Quantity: 3}, now)

	state = state.SetQuantity(state.Items[0].ID, -4, now)

	assert.Empty(t, state.Items)
}

func TestSetQuantity_AdjustsMatchingLineOnly(t *testing.T) {
	now := time.Now()
	state := CartState{}.
		AddLine(CartLine{ProductID: 1, Price: 10, Quantity: 2}, now).
		AddLine(CartLine{ProductID: 2, Price: 20, Quantity: 1}, now)

	state = state.SetQuantity(state.Items[0].ID, 5, now)

	require.Len(t, state.Items, 2)
	assert.Equal(t, 5, state.Items[0].Quantity)
	assert.Equal(t, 1, state.Items[1].Quantity)
	assert.Equal(t, 70.0, state.Subtotal())
}

func TestRemoveLine_UnknownIDIsNoOp(t *testing.T) {
	now := time.Now()
	state := CartState{}.AddLine(CartLine{ProductID: 1, Quantity: 1}, now)

	state = state.RemoveLine("no-such-line", now)

	assert.Len(t, state.Items, 1)
}

func TestClear_IsIdempotent(t *testing.T) {
	now := time.Now()
	state := CartState{}.AddLine(CartLine{ProductID: 1, Quantity: 2}, now)

	once := state.Clear(now)
	twice := once.Clear(now)

	assert.Empty(t, once.Items)
	assert.Equal(t, once.Items, twice.Items)
	assert.Equal(t, 0, twice.ItemCount())
	assert.Equal(t, 0.0, twice.Subtotal())
}

func TestSeedCart_MergesDuplicateProductLines(t *testing.T) {
	now := time.Now()
	persisted := []CartLine{
		{ID: "3-100", ProductID: 3, Price: 15, Quantity: 1},
		{ID: "8-200", ProductID: 8, Price: 30, Quantity: 2},
		{ID: "3-300", ProductID: 3, Price: 15, Quantity: 4},
	}

	state := SeedCart(persisted, now)

	require.Len(t, state.Items, 2)
	assert.Equal(t, "3-100", state.Items[0].ID)
	assert.Equal(t, 5, state.Items[0].Quantity)
	assert.Equal(t, 5, state.ItemQuantity(3))
	assert.True(t, state.Contains(8))
	assert.False(t, state.Contains(99))
}

func TestCartDerivedValues_RecomputedAfterEveryMutation(t *testing.T) {
	now := time.Now()
	var state CartState

	state = state.AddLine(CartLine{ProductID: 1, Price: 9.5, Quantity: 2}, now)
	assert.Equal(t, 19.0, state.Subtotal())

	state = state.AddLine(CartLine{ProductID: 2, Price: 0.5, Quantity: 4}, now)
	assert.Equal(t, 21.0, state.Subtotal())
	assert.Equal(t, 6, state.ItemCount())

	state = state.RemoveLine(state.Items[0].ID, now)
	assert.Equal(t, 2.0, state.Subtotal())
	assert.Equal(t, 4, state.ItemCount())
}
