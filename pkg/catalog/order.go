package catalog

import "sort"

// DefaultOrder is the rank used for documents without a numeric order.
const DefaultOrder = 1000

func (e Entry) effectiveOrder() int {
	if !e.OrderSet {
		return DefaultOrder
	}
	return e.Order
}

// SortEntries orders entries by ascending order. Ties keep their input
// order.
func SortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].effectiveOrder() < entries[j].effectiveOrder()
	})
}
