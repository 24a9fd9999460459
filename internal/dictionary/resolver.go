package dictionary

// SlotSetter writes a resolved object into the field that was waiting for
// it. A single-slot resolver fills exactly one pointer field this way.
type SlotSetter func(resolved any)

// ContainerAppender appends one resolved node to an owning container, used
// by the container (linked-list) resolver flavor, walking the dictionary's
// Next() side table.
type ContainerAppender func(node any)

type resolverKind int

const (
	kindSlot resolverKind = iota
	kindContainer
)

type pending struct {
	kind     resolverKind
	target   Key
	setSlot  SlotSetter
	appendTo ContainerAppender
}

// Resolver is the queue of pointer fix-ups created while reading a record's
// body. Frame pointers can refer forward to records not yet read, so a
// resolver accumulates fix-ups as it goes and drains them once every
// record up to the drain point has been declared.
type Resolver struct {
	queue []pending
}

// NewResolver returns an empty deferred-resolution queue.
func NewResolver() *Resolver { return &Resolver{} }

// Defer registers a single-slot fix-up: once target has been declared, set
// is called with the live object. A Null target is legal and simply
// discarded at drain time.
func (r *Resolver) Defer(target Key, set SlotSetter) {
	r.queue = append(r.queue, pending{kind: kindSlot, target: target, setSlot: set})
}

// DeferContainer registers a container fix-up: head is the (class,
// instance) of a linked list's first node; at drain time the resolver walks
// dict's Next() chain from head, removing each node from the dictionary and
// appending it to the container in list order.
func (r *Resolver) DeferContainer(head Key, appendTo ContainerAppender) {
	r.queue = append(r.queue, pending{kind: kindContainer, target: head, appendTo: appendTo})
}

// Len reports how many fix-ups are still queued.
func (r *Resolver) Len() int { return len(r.queue) }

// Drain resolves every queued fix-up against dict. A non-null target that
// dict cannot find is a dangling reference; drain continues past it so a
// caller can collect every dangling reference in one pass if desired, but
// returns the first error by default (to collect all, pass a collect
// callback via DrainCollect).
func (r *Resolver) Drain(dict *Dictionary) error {
	return r.drain(dict, nil)
}

// DrainCollect behaves like Drain but never stops early: every dangling
// reference found is passed to collect, and the queue is fully drained.
func (r *Resolver) DrainCollect(dict *Dictionary, collect func(error)) {
	_ = r.drain(dict, collect)
}

func (r *Resolver) drain(dict *Dictionary, collect func(error)) error {
	var firstErr error
	report := func(key Key) {
		err := &ErrDanglingReference{Key: key}
		if collect != nil {
			collect(err)
			return
		}
		if firstErr == nil {
			firstErr = err
		}
	}

	// Slot fix-ups resolve first. A node's "next" pointer is itself queued
	// as a slot fix-up (see record.go's deferNext), so every container
	// walk below needs this pass complete before it can trust dict.Next.
	for _, p := range r.queue {
		if p.kind != kindSlot || p.target == Null {
			continue
		}
		obj, ok := dict.Lookup(p.target)
		if !ok {
			report(p.target)
			continue
		}
		p.setSlot(obj)
	}

	for _, p := range r.queue {
		if p.kind != kindContainer || p.target == Null {
			continue
		}
		cur, ok := dict.Lookup(p.target)
		if !ok {
			report(p.target)
			continue
		}
		key := p.target
		for {
			p.appendTo(cur)
			dict.Remove(key)
			next := dict.Next(cur)
			if next == nil {
				break
			}
			nextKey, ok := dict.RefOf(next)
			if !ok {
				break
			}
			key = nextKey.Key
			cur = next
		}
	}

	r.queue = nil
	if firstErr != nil {
		return firstErr
	}
	return nil
}
