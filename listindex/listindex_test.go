package listindex_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/structive-go/structive/listindex"
)

func TestAtNegativeAndPositive(t *testing.T) {
	root := listindex.New(nil, 0)
	mid := listindex.New(root, 0)
	leaf := listindex.New(mid, 0)

	require.Same(t, root, leaf.At(0))
	require.Same(t, mid, leaf.At(1))
	require.Same(t, leaf, leaf.At(2))

	require.Same(t, leaf, leaf.At(-1))
	require.Same(t, mid, leaf.At(-2))
	require.Same(t, root, leaf.At(-3))

	require.Nil(t, leaf.At(3))
	require.Nil(t, leaf.At(-4))
}

func TestIndexesRootToSelf(t *testing.T) {
	root := listindex.New(nil, 2)
	child := listindex.New(root, 5)
	require.Equal(t, []int{2, 5}, child.Indexes())
}

func TestSetIndexBumpsVersionAndIsVisibleAfterReread(t *testing.T) {
	root := listindex.New(nil, 0)
	child := listindex.New(root, 0)
	_ = child.Indexes() // populate cache

	root.SetIndex(9)
	require.Equal(t, []int{9, 0}, child.Indexes())
}

func TestReconcileEmptyNewReturnsEmpty(t *testing.T) {
	old := []*listindex.ListIndex{listindex.New(nil, 0)}
	out := listindex.Reconcile(nil, []string{"a"}, []string{}, old)
	require.Len(t, out, 0)
}

func TestReconcileEmptyOldCreatesFresh(t *testing.T) {
	out := listindex.Reconcile[string](nil, nil, []string{"a", "b"}, nil)
	require.Len(t, out, 2)
	require.Equal(t, 0, out[0].Index())
	require.Equal(t, 1, out[1].Index())
}

func TestReconcileEqualListsReusesSameSlice(t *testing.T) {
	oldIdx := []*listindex.ListIndex{listindex.New(nil, 0), listindex.New(nil, 1)}
	out := listindex.Reconcile(nil, []string{"a", "b"}, []string{"a", "b"}, oldIdx)
	require.Same(t, &oldIdx[0], &out[0])
	require.Equal(t, oldIdx, out)
}

func TestReconcileAppendReusesExistingAndCreatesOneNew(t *testing.T) {
	a := listindex.New(nil, 0)
	b := listindex.New(nil, 1)
	oldIdx := []*listindex.ListIndex{a, b}
	out := listindex.Reconcile(nil, []string{"a", "b"}, []string{"a", "b", "c"}, oldIdx)

	require.Len(t, out, 3)
	require.Same(t, a, out[0])
	require.Same(t, b, out[1])
	require.NotSame(t, a, out[2])
	require.NotSame(t, b, out[2])
	require.Equal(t, 0, a.Index())
	require.Equal(t, 1, b.Index())
}

func TestReconcileReorderReassignsIndexOnlyOnMovedItems(t *testing.T) {
	a := listindex.New(nil, 0)
	b := listindex.New(nil, 1)
	c := listindex.New(nil, 2)
	oldIdx := []*listindex.ListIndex{a, b, c}

	out := listindex.Reconcile(nil, []string{"a", "b", "c"}, []string{"c", "a", "b"}, oldIdx)

	require.Same(t, c, out[0])
	require.Same(t, a, out[1])
	require.Same(t, b, out[2])
	require.Equal(t, 0, c.Index())
	require.Equal(t, 1, a.Index())
	require.Equal(t, 2, b.Index())
}

func TestReconcileDuplicateValuesReuseLastOccurrence(t *testing.T) {
	a := listindex.New(nil, 0)
	b := listindex.New(nil, 1) // duplicate value "x" at position 1
	oldIdx := []*listindex.ListIndex{a, b}

	out := listindex.Reconcile(nil, []string{"x", "x"}, []string{"x"}, oldIdx)
	require.Len(t, out, 1)
	require.Same(t, b, out[0])
}
