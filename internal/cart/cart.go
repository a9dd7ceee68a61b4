package cart

import (
	"sort"

	"github.com/modybick/pos/internal/domain"
)

// Cart accumulates scanned products for one in-progress transaction.
// Entries keep insertion order for display; checkout re-sorts by barcode.
//
// A Cart is owned by exactly one session and is not safe for concurrent
// use; the session serializes access (see service.Session).
type Cart struct {
	entries []*domain.CartEntry
	index   map[string]int
}

func New() *Cart {
	return &Cart{index: make(map[string]int)}
}

// Add increments the quantity for the product's barcode, inserting a new
// entry with a name/price snapshot if the product is not in the cart yet.
// It returns the entry after the update.
func (c *Cart) Add(p domain.Product) domain.CartEntry {
	if i, ok := c.index[p.Barcode]; ok {
		c.entries[i].Quantity++
		return *c.entries[i]
	}

	entry := &domain.CartEntry{
		Barcode:   p.Barcode,
		Name:      p.Name,
		UnitPrice: p.Price,
		Quantity:  1,
	}
	c.index[p.Barcode] = len(c.entries)
	c.entries = append(c.entries, entry)
	return *entry
}

// Adjust changes an entry's quantity by delta. At quantity <= 0 the entry is
// removed. Unknown barcodes are a no-op.
func (c *Cart) Adjust(barcode string, delta int) {
	i, ok := c.index[barcode]
	if !ok {
		return
	}

	c.entries[i].Quantity += delta
	if c.entries[i].Quantity <= 0 {
		c.remove(i)
	}
}

func (c *Cart) remove(i int) {
	delete(c.index, c.entries[i].Barcode)
	c.entries = append(c.entries[:i], c.entries[i+1:]...)
	for j := i; j < len(c.entries); j++ {
		c.index[c.entries[j].Barcode] = j
	}
}

func (c *Cart) Clear() {
	c.entries = nil
	c.index = make(map[string]int)
}

// Restore replaces the cart contents with previously persisted entries,
// e.g. when reproducing a historical sale. Entries with quantity <= 0 are
// dropped rather than allowed to violate the cart invariant.
func (c *Cart) Restore(entries []domain.CartEntry) {
	c.Clear()
	for _, e := range entries {
		if e.Quantity <= 0 {
			continue
		}
		copied := e
		c.index[e.Barcode] = len(c.entries)
		c.entries = append(c.entries, &copied)
	}
}

// Entries returns a copy of the cart in insertion order.
func (c *Cart) Entries() []domain.CartEntry {
	out := make([]domain.CartEntry, len(c.entries))
	for i, e := range c.entries {
		out[i] = *e
	}
	return out
}

// SortedEntries returns a copy ordered by barcode ascending, the
// deterministic order used at commit time.
func (c *Cart) SortedEntries() []domain.CartEntry {
	out := c.Entries()
	sort.Slice(out, func(i, j int) bool {
		return out[i].Barcode < out[j].Barcode
	})
	return out
}

// Total is always recomputed from the entries, never cached.
func (c *Cart) Total() int64 {
	var total int64
	for _, e := range c.entries {
		total += e.Subtotal()
	}
	return total
}

func (c *Cart) Len() int {
	return len(c.entries)
}
