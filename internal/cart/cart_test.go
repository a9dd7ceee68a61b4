package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/modybick/pos/internal/domain"
)

var (
	coffee = domain.Product{Barcode: "B", Name: "Coffee", Price: 100}
	water  = domain.Product{Barcode: "A", Name: "Water", Price: 300}
)

func TestAdd_NewEntrySnapshotsNameAndPrice(t *testing.T) {
	c := New()

	entry := c.Add(coffee)

	assert.Equal(t, "Coffee", entry.Name)
	assert.Equal(t, int64(100), entry.UnitPrice)
	assert.Equal(t, 1, entry.Quantity)
	assert.Equal(t, int64(100), c.Total())
}

func TestAdd_ExistingEntryIncrements(t *testing.T) {
	c := New()

	c.Add(coffee)
	entry := c.Add(coffee)

	assert.Equal(t, 2, entry.Quantity)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, int64(200), c.Total())
}

func TestAdjust_RemovesEntryAtZero(t *testing.T) {
	c := New()
	c.Add(coffee)
	c.Add(coffee)

	c.Adjust("B", -2)

	assert.Equal(t, 0, c.Len())
	assert.Equal(t, int64(0), c.Total())
}

func TestAdjust_UnknownBarcodeIsNoop(t *testing.T) {
	c := New()
	c.Add(coffee)

	c.Adjust("missing", 5)

	assert.Equal(t, 1, c.Len())
	assert.Equal(t, int64(100), c.Total())
}

func TestTotal_AlwaysMatchesEntries(t *testing.T) {
	c := New()

	c.Add(coffee)
	c.Add(water)
	c.Add(coffee)
	c.Adjust("A", 2)
	c.Adjust("B", -1)

	var want int64
	for _, e := range c.Entries() {
		want += e.UnitPrice * int64(e.Quantity)
	}
	assert.Equal(t, want, c.Total())
}

func TestEntries_PreserveInsertionOrder(t *testing.T) {
	c := New()
	c.Add(coffee) // barcode B
	c.Add(water)  // barcode A

	entries := c.Entries()
	assert.Equal(t, "B", entries[0].Barcode)
	assert.Equal(t, "A", entries[1].Barcode)
}

func TestSortedEntries_BarcodeAscending(t *testing.T) {
	c := New()
	c.Add(coffee) // barcode B
	c.Add(water)  // barcode A

	sorted := c.SortedEntries()
	assert.Equal(t, "A", sorted[0].Barcode)
	assert.Equal(t, "B", sorted[1].Barcode)
}

func TestRestore_ReplacesContents(t *testing.T) {
	c := New()
	c.Add(coffee)

	c.Restore([]domain.CartEntry{
		{Barcode: "X", Name: "Old Name", UnitPrice: 250, Quantity: 3},
		{Barcode: "Y", Name: "Gone", UnitPrice: 90, Quantity: 0}, // dropped
	})

	assert.Equal(t, 1, c.Len())
	entries := c.Entries()
	assert.Equal(t, "X", entries[0].Barcode)
	assert.Equal(t, int64(750), c.Total())
}

func TestClear_EmptiesCart(t *testing.T) {
	c := New()
	c.Add(coffee)
	c.Add(water)

	c.Clear()

	assert.Equal(t, 0, c.Len())
	assert.Equal(t, int64(0), c.Total())

	// Cart is usable again after clearing.
	c.Add(coffee)
	assert.Equal(t, int64(100), c.Total())
}
