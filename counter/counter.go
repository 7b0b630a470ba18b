// Package counter accumulates occurrence statistics for categorical
// observations.
//
// A Counter tracks three things for a stream of records (field name ->
// category value maps):
//
//   - how often each individual field-value (Item) has been observed,
//   - how often each unordered cross-field pair of Items has co-occurred
//     within a single record, and
//   - a stable, incrementing integer index assigned to each Item in order
//     of first observation.
//
// Accumulation is commutative and associative: the final state depends only
// on the multiset of records observed, never on their arrival order.
package counter

import "sort"

// Item identifies a single field-value, e.g. (Income, "low").
type Item struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// String returns "field=value".
func (it Item) String() string { return it.Field + "=" + it.Value }

// Less orders Items lexicographically by field, then value.
func (it Item) Less(other Item) bool {
	if it.Field != other.Field {
		return it.Field < other.Field
	}
	return it.Value < other.Value
}

// Pair is an unordered pair of Items from different fields, stored in
// canonical (lexicographic) order so that (a,b) and (b,a) are the same key.
type Pair struct {
	A Item
	B Item
}

// NewPair canonicalizes the pair ordering.
func NewPair(a, b Item) Pair {
	if b.Less(a) {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

// Counter owns the value registry and the co-occurrence graph.
// It is not safe for concurrent use; callers serialize updates.
type Counter struct {
	n      int
	counts map[string]map[Item]int
	joint  map[Pair]int
	index  map[Item]int
	items  []Item // insertion order, items[i] has index i
}

// New returns an empty Counter.
func New() *Counter {
	return &Counter{
		counts: make(map[string]map[Item]int),
		joint:  make(map[Pair]int),
		index:  make(map[Item]int),
	}
}

// Update folds one record into the counts. Fields with empty values are
// treated as missing and skipped. A record with a single populated field
// contributes no pair counts but still registers its lone value. A record
// with no populated fields is skipped entirely, with no mutation.
func (c *Counter) Update(record map[string]string) {
	items := make([]Item, 0, len(record))
	for field, value := range record {
		if value == "" {
			continue
		}
		items = append(items, Item{Field: field, Value: value})
	}
	if len(items) == 0 {
		return
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Less(items[j]) })

	for _, it := range items {
		fc, ok := c.counts[it.Field]
		if !ok {
			fc = make(map[Item]int)
			c.counts[it.Field] = fc
		}
		fc[it]++
		if _, ok := c.index[it]; !ok {
			c.index[it] = len(c.items)
			c.items = append(c.items, it)
		}
	}
	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			// A record holds one value per field, so items[i] and
			// items[j] always belong to different fields here.
			c.joint[Pair{A: items[i], B: items[j]}]++
		}
	}
	c.n++
}

// N returns the number of records folded in so far.
func (c *Counter) N() int { return c.n }

// Len returns the number of distinct Items observed.
func (c *Counter) Len() int { return len(c.items) }

// Count returns the observation count of it, or 0 if unseen.
func (c *Counter) Count(it Item) int {
	return c.counts[it.Field][it]
}

// JointCount returns the co-occurrence count of a and b in either order,
// or 0 if the pair was never observed together.
func (c *Counter) JointCount(a, b Item) int {
	return c.joint[NewPair(a, b)]
}

// IndexOf returns the stable integer index of it.
func (c *Counter) IndexOf(it Item) (int, bool) {
	i, ok := c.index[it]
	return i, ok
}

// Items returns all observed Items in index order. The slice is a copy.
func (c *Counter) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// ItemAt returns the Item with index i.
func (c *Counter) ItemAt(i int) Item { return c.items[i] }

// Fields returns the observed field names in sorted order.
func (c *Counter) Fields() []string {
	fields := make([]string, 0, len(c.counts))
	for f := range c.counts {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// FieldCounts returns a copy of the per-value counts for one field.
func (c *Counter) FieldCounts(field string) map[Item]int {
	src := c.counts[field]
	out := make(map[Item]int, len(src))
	for it, n := range src {
		out[it] = n
	}
	return out
}

// RangeJoint calls fn for every observed pair and its co-occurrence count.
// Iteration order is unspecified. Returning false stops the iteration.
func (c *Counter) RangeJoint(fn func(p Pair, count int) bool) {
	for p, n := range c.joint {
		if !fn(p, n) {
			return
		}
	}
}
