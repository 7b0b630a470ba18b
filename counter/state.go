package counter

import "fmt"

// State is a serializable export of a Counter, used by persistence
// collaborators. Items appear in index order; joint entries reference
// items by index to keep encoded snapshots compact.
type State struct {
	N     int          `json:"n"`
	Items []ItemState  `json:"items"`
	Joint []JointState `json:"joint,omitempty"`
}

// ItemState is one registered field-value and its count.
type ItemState struct {
	Field string `json:"field"`
	Value string `json:"value"`
	Count int    `json:"count"`
}

// JointState is one co-occurrence edge between the items at indices A and B.
type JointState struct {
	A     int `json:"a"`
	B     int `json:"b"`
	Count int `json:"count"`
}

// State exports the full counter state.
func (c *Counter) State() State {
	st := State{
		N:     c.n,
		Items: make([]ItemState, len(c.items)),
		Joint: make([]JointState, 0, len(c.joint)),
	}
	for i, it := range c.items {
		st.Items[i] = ItemState{Field: it.Field, Value: it.Value, Count: c.counts[it.Field][it]}
	}
	for p, n := range c.joint {
		st.Joint = append(st.Joint, JointState{A: c.index[p.A], B: c.index[p.B], Count: n})
	}
	return st
}

// FromState reconstructs a Counter from an exported State.
func FromState(st State) (*Counter, error) {
	if st.N < 0 {
		return nil, fmt.Errorf("counter: negative record count %d", st.N)
	}
	c := New()
	c.n = st.N
	for i, is := range st.Items {
		it := Item{Field: is.Field, Value: is.Value}
		if is.Count <= 0 {
			return nil, fmt.Errorf("counter: item %s has non-positive count %d", it, is.Count)
		}
		if _, ok := c.index[it]; ok {
			return nil, fmt.Errorf("counter: duplicate item %s at index %d", it, i)
		}
		fc, ok := c.counts[it.Field]
		if !ok {
			fc = make(map[Item]int)
			c.counts[it.Field] = fc
		}
		fc[it] = is.Count
		c.index[it] = len(c.items)
		c.items = append(c.items, it)
	}
	for _, js := range st.Joint {
		if js.A < 0 || js.A >= len(c.items) || js.B < 0 || js.B >= len(c.items) {
			return nil, fmt.Errorf("counter: joint entry references unknown item index (%d, %d)", js.A, js.B)
		}
		a, b := c.items[js.A], c.items[js.B]
		if a.Field == b.Field {
			return nil, fmt.Errorf("counter: joint entry pairs two values of field %q", a.Field)
		}
		if js.Count <= 0 {
			return nil, fmt.Errorf("counter: pair (%s, %s) has non-positive count %d", a, b, js.Count)
		}
		if js.Count > c.counts[a.Field][a] || js.Count > c.counts[b.Field][b] {
			return nil, fmt.Errorf("counter: pair (%s, %s) count %d exceeds endpoint count", a, b, js.Count)
		}
		c.joint[NewPair(a, b)] = js.Count
	}
	return c, nil
}
