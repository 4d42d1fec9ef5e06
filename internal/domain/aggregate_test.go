package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartitionDisjointUnion(t *testing.T) {
	orders := []Order{
		{ID: "a", Status: "pendingToBuy"},
		{ID: "b", Status: "pending"},
		{ID: "c", Status: "processing"}, // legacy alias of active
		{ID: "d", Status: "finished"},
		{ID: "e", Status: "delivering"}, // legacy alias of finished
		{ID: "f", Status: "delivered"},
		{ID: "g", Status: "cancelled"}, // excluded
		{ID: "h", Status: "???"},       // excluded
	}

	b := Partition(orders)

	assert.Len(t, b.Cart, 1)
	assert.Len(t, b.Pending, 1)
	assert.Len(t, b.Active, 1)
	assert.Len(t, b.Finished, 2)
	assert.Len(t, b.Delivered, 1)

	seen := map[string]int{}
	for _, part := range [][]Order{b.Cart, b.Pending, b.Active, b.Finished, b.Delivered} {
		for _, o := range part {
			seen[o.ID]++
		}
	}
	require.Len(t, seen, 6, "cancelled and unknown must not land in any bucket")
	for id, n := range seen {
		assert.Equal(t, 1, n, "order %s placed in more than one bucket", id)
	}
	assert.NotContains(t, seen, "g")
	assert.NotContains(t, seen, "h")
}

func TestBucketStats(t *testing.T) {
	empty := Partition(nil).Stats()
	for st, s := range empty {
		assert.Zero(t, s.Count, "empty %s count", st)
		assert.Zero(t, s.Total, "empty %s total", st)
	}

	orders := []Order{
		{Status: "pendingToBuy", TotalPrice: 1500},
		{Status: "pendingToBuy", TotalPrice: 2500},
		{Status: "pendingToBuy", TotalPrice: 4000},
		{Status: "pending", TotalPrice: 999},
	}
	stats := Partition(orders).Stats()
	assert.Equal(t, 3, stats[StatusCart].Count)
	assert.Equal(t, 8000.0, stats[StatusCart].Total)
	assert.Equal(t, 999.0, stats[StatusPending].Total)

	assert.Equal(t, 8000.0, CartTotal(orders))
}

func TestWalletDerivations(t *testing.T) {
	txs := []Transaction{
		{Type: Credit, Amount: 1000},
		{Type: Debit, Amount: 300},
		{Type: Credit, Amount: 200},
	}
	assert.Equal(t, 900.0, Balance(txs))
	assert.Equal(t, 300.0, TotalSpend(txs))

	assert.Zero(t, Balance(nil))
	assert.Zero(t, TotalSpend(nil))
}

func TestComputeTotal(t *testing.T) {
	total := ComputeTotal(1000, 2,
		[]Packaging{{Type: "box", Price: 100}, {Type: "bag", Price: 50}},
		Drink{Name: "cola", Price: 500},
		Delivery{Requested: true, Price: 700, Type: DeliveryStandard})
	assert.Equal(t, 3350.0, total)

	// Delivery fee only counts when requested.
	total = ComputeTotal(1000, 1, nil, NoDrink(), Delivery{Requested: false, Price: 700})
	assert.Equal(t, 1000.0, total)
}
