package dictionary

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type node struct {
	name string
}

func TestDeclareDuplicateFails(t *testing.T) {
	d := New()
	k := Key{Class: 5, Instance: 1}
	require.NoError(t, d.Declare(StreamRef{Key: k}, &node{"a"}))
	err := d.Declare(StreamRef{Key: k}, &node{"b"})
	var dup *ErrDuplicateDeclaration
	require.ErrorAs(t, err, &dup)
}

func TestRefCreateIsStableAndMonotonic(t *testing.T) {
	d := New()
	a := &node{"a"}
	b := &node{"b"}
	refA1 := d.RefCreate(a, 3)
	refB := d.RefCreate(b, 3)
	refA2 := d.RefCreate(a, 3)

	require.Equal(t, refA1, refA2)
	require.Equal(t, uint32(0), refA1.Instance)
	require.Equal(t, uint32(1), refB.Instance)
}

func TestResolverSingleSlot(t *testing.T) {
	d := New()
	target := &node{"target"}
	require.NoError(t, d.Declare(StreamRef{Key: Key{Class: 1, Instance: 1}}, target))

	r := NewResolver()
	var got any
	r.Defer(Key{Class: 1, Instance: 1}, func(resolved any) { got = resolved })
	require.NoError(t, r.Drain(d))
	require.Same(t, target, got)
}

func TestResolverNullIsDiscarded(t *testing.T) {
	d := New()
	r := NewResolver()
	called := false
	r.Defer(Null, func(resolved any) { called = true })
	require.NoError(t, r.Drain(d))
	require.False(t, called)
}

func TestResolverDanglingReference(t *testing.T) {
	d := New()
	r := NewResolver()
	r.Defer(Key{Class: 9, Instance: 4}, func(resolved any) {})
	err := r.Drain(d)
	var dangling *ErrDanglingReference
	require.ErrorAs(t, err, &dangling)
	require.Equal(t, uint32(9), dangling.Key.Class)
}

func TestResolverContainerWalksLinkedList(t *testing.T) {
	d := New()
	a := &node{"a"}
	b := &node{"b"}
	keyA := Key{Class: 2, Instance: 0}
	keyB := Key{Class: 2, Instance: 1}
	require.NoError(t, d.Declare(StreamRef{Key: keyA}, a))
	require.NoError(t, d.Declare(StreamRef{Key: keyB}, b))
	d.SetNext(a, b)

	r := NewResolver()
	var order []string
	r.DeferContainer(keyA, func(n any) { order = append(order, n.(*node).name) })
	require.NoError(t, r.Drain(d))

	require.Equal(t, []string{"a", "b"}, order)
	require.Equal(t, 0, d.Len())
}
