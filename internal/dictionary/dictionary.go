// Package dictionary implements the Frame reference dictionary and deferred
// resolver: the four-map transactional update of
// ref_by_id/object_by_ref/ref_by_object/instance_counter, plus a side
// table for linked-list "next" pointers.
package dictionary

import "fmt"

// Key identifies a declared record by its wire (class, instance) pair.
type Key struct {
	Class    uint32
	Instance uint32
}

// Null is the (class=0, instance=0) null reference.
var Null = Key{}

func (k Key) String() string { return fmt.Sprintf("(%d,%d)", k.Class, k.Instance) }

// StreamRef is the raw pointer header (PTR_STRUCT) preceding every record
// body. Length and ChkType are only meaningful for the long form
// (version >= 8); short-form records leave them zero.
type StreamRef struct {
	Key
	Length  uint64
	ChkType uint16
}

// ErrDuplicateDeclaration is returned when the same (class, instance) is
// declared twice within one file.
type ErrDuplicateDeclaration struct{ Key Key }

func (e *ErrDuplicateDeclaration) Error() string {
	return "dictionary: duplicate declaration " + e.Key.String()
}

// ErrDanglingReference is returned when the resolver queue drains and a
// referenced (class, instance) was never declared.
type ErrDanglingReference struct{ Key Key }

func (e *ErrDanglingReference) Error() string {
	return "dictionary: dangling reference " + e.Key.String()
}

// Dictionary holds the four read/write-path maps of declared-object
// bookkeeping: by key, by object identity, and the per-class instance
// counter.
type Dictionary struct {
	refByID      map[Key]StreamRef
	objectByRef  map[Key]any
	refByObject  map[any]StreamRef
	instanceCtr  map[uint32]uint32
	next         map[any]any // linked-list side table: node -> next node
}

// New returns an empty Dictionary, scoped to one open stream.
func New() *Dictionary {
	return &Dictionary{
		refByID:     make(map[Key]StreamRef),
		objectByRef: make(map[Key]any),
		refByObject: make(map[any]StreamRef),
		instanceCtr: make(map[uint32]uint32),
		next:        make(map[any]any),
	}
}

// Declare records a read-path declaration: sr's (class, instance) must not
// already exist, and obj becomes retrievable by that key.
func (d *Dictionary) Declare(sr StreamRef, obj any) error {
	if sr.Key != Null {
		if _, exists := d.refByID[sr.Key]; exists {
			return &ErrDuplicateDeclaration{Key: sr.Key}
		}
		d.refByID[sr.Key] = sr
		d.objectByRef[sr.Key] = obj
	}
	d.refByObject[obj] = sr
	return nil
}

// Lookup resolves a (class, instance) key to its declared object. ok is
// false both for the null key and for an undeclared key; callers
// distinguish dangling references by checking the key against Null first.
func (d *Dictionary) Lookup(key Key) (any, bool) {
	obj, ok := d.objectByRef[key]
	return obj, ok
}

// RefOf returns the StreamRef an object was declared (or assigned) under.
func (d *Dictionary) RefOf(obj any) (StreamRef, bool) {
	sr, ok := d.refByObject[obj]
	return sr, ok
}

// RefCreate assigns a fresh instance id for obj under class the first time
// it is submitted for writing, and reuses the existing assignment on every
// subsequent call for the same object.
func (d *Dictionary) RefCreate(obj any, class uint32) StreamRef {
	if sr, ok := d.refByObject[obj]; ok {
		return sr
	}
	inst := d.instanceCtr[class]
	d.instanceCtr[class] = inst + 1
	sr := StreamRef{Key: Key{Class: class, Instance: inst}}
	d.refByID[sr.Key] = sr
	d.objectByRef[sr.Key] = obj
	d.refByObject[obj] = sr
	return sr
}

// SetNext records that obj's wire encoding continues with next in a
// linked list. The in-memory model has no next field of its own; only the
// wire representation is a linked list.
func (d *Dictionary) SetNext(obj, next any) { d.next[obj] = next }

// Next returns the node following obj in a linked list, or nil.
func (d *Dictionary) Next(obj any) any { return d.next[obj] }

// ResetInstanceCounts clears per-class instance counters, performed at the
// start of each logical file and after an end-of-file record.
func (d *Dictionary) ResetInstanceCounts() {
	d.instanceCtr = make(map[uint32]uint32)
}

// Remove deletes a declaration entirely, used once a resolver has drained
// a linked-list head into its owning container.
func (d *Dictionary) Remove(key Key) {
	obj, ok := d.objectByRef[key]
	if !ok {
		return
	}
	delete(d.objectByRef, key)
	delete(d.refByID, key)
	delete(d.refByObject, obj)
}

// Len reports how many (class, instance) declarations are currently live.
func (d *Dictionary) Len() int { return len(d.refByID) }
