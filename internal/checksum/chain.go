package checksum

// Scope names why a filter is attached; it is a property of the attach/
// detach discipline, not of the filter itself.
type Scope int

const (
	ScopeFile Scope = iota
	ScopeFrame
	ScopeObject
)

// attached pairs a live filter with the scope it was attached under.
type attached struct {
	scope  Scope
	filter Filter
}

// Chain is the base stream's ordered list of currently-attached filters.
// Every primitive transfer visits every attached filter. Attaching mid-stream
// begins accumulation from that byte; multiple scopes may coexist.
type Chain struct {
	filters []attached
}

// Attach adds f to the chain under scope, starting accumulation now.
func (c *Chain) Attach(scope Scope, f Filter) {
	c.filters = append(c.filters, attached{scope: scope, filter: f})
}

// Detach removes the first filter matching f (by identity) from the chain.
// It is a no-op if f is not attached.
func (c *Chain) Detach(f Filter) {
	for i, a := range c.filters {
		if a.filter == f {
			c.filters = append(c.filters[:i], c.filters[i+1:]...)
			return
		}
	}
}

// DetachScope removes every filter attached under scope and returns them,
// in attach order, so callers can read final Sum() values after detaching.
func (c *Chain) DetachScope(scope Scope) []Filter {
	var removed []Filter
	kept := c.filters[:0]
	for _, a := range c.filters {
		if a.scope == scope {
			removed = append(removed, a.filter)
		} else {
			kept = append(kept, a)
		}
	}
	c.filters = kept
	return removed
}

// Write feeds p to every attached filter. It never fails: filters are
// accumulators, not substrate I/O.
func (c *Chain) Write(p []byte) {
	for _, a := range c.filters {
		_, _ = a.filter.Write(p)
	}
}

// Len reports how many filters are currently attached.
func (c *Chain) Len() int { return len(c.filters) }
