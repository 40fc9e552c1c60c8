// Package listindex implements the List Index: a stable identity object for
// each element of a reactive list. List Indexes are
// diffed across list mutations (see Reconcile) to drive efficient loop reconciliation. The ancestor chain is
// held through weak pointers so an index kept alive only by its
// descendants can still be collected.
package listindex

import (
	"fmt"
	"sync/atomic"
	"weak"
)

// version is the global counter bumped whenever any ListIndex's index is
// reassigned. Atomic because it is read far more often than written.
var version atomic.Int64

// Version returns the current global version counter.
func Version() int64 { return version.Load() }

func bump() int64 {
	return version.Add(1)
}

var nextID atomic.Int64

// ListIndex is a stable identity for one element position in a (possibly
// nested) reactive list.
type ListIndex struct {
	id    int64
	sid   string
	index int

	parent *ListIndex

	cachedVersion     int64
	cachedIndexes     []int
	cachedChain       []weak.Pointer[ListIndex]
}

// New creates a fresh ListIndex at the given position with the given
// parent (nil for a top-level list).
func New(parent *ListIndex, pos int) *ListIndex {
	id := nextID.Add(1)
	li := &ListIndex{
		id:     id,
		sid:    fmt.Sprintf("li%d", id),
		index:  pos,
		parent: parent,
	}
	return li
}

// ID returns the numeric identity, stable for this ListIndex's lifetime.
func (li *ListIndex) ID() int64 { return li.id }

// SID returns the string identity (interning key companion for State
// Property Refs).
func (li *ListIndex) SID() string { return li.sid }

// Index returns this ListIndex's current position in its list.
func (li *ListIndex) Index() int { return li.index }

// SetIndex reassigns this ListIndex's position, bumping the global version
// counter so cached ancestor-chain reads become dirty.
func (li *ListIndex) SetIndex(pos int) {
	if li.index == pos {
		return
	}
	li.index = pos
	bump()
}

// Parent returns the immediate parent ListIndex, or nil for a top-level
// list element.
func (li *ListIndex) Parent() *ListIndex { return li.parent }

// dirty reports whether the cached root->self chain might be stale: any
// write anywhere bumps the global version, so this is a cheap
// over-approximation rather than precise per-ancestor tracking.
func (li *ListIndex) dirty() bool {
	return li.cachedChain == nil || li.cachedVersion != version.Load()
}

func (li *ListIndex) refreshChain() {
	var chain []*ListIndex
	for cur := li; cur != nil; cur = cur.parent {
		chain = append(chain, cur)
	}
	// reverse into root-first order
	for l, r := 0, len(chain)-1; l < r; l, r = l+1, r-1 {
		chain[l], chain[r] = chain[r], chain[l]
	}
	indexes := make([]int, len(chain))
	weakChain := make([]weak.Pointer[ListIndex], len(chain))
	for i, li2 := range chain {
		indexes[i] = li2.index
		weakChain[i] = weak.Make(li2)
	}
	li.cachedIndexes = indexes
	li.cachedChain = weakChain
	li.cachedVersion = version.Load()
}

// Indexes returns the root-to-self array of positions, recomputing lazily
// if dirty.
func (li *ListIndex) Indexes() []int {
	if li.dirty() {
		li.refreshChain()
	}
	out := make([]int, len(li.cachedIndexes))
	copy(out, li.cachedIndexes)
	return out
}

// ListIndexes returns the root-to-self array of ListIndex pointers
// (resolved from the internal weak-ref cache), recomputing lazily if dirty.
func (li *ListIndex) ListIndexes() []*ListIndex {
	if li.dirty() {
		li.refreshChain()
	}
	out := make([]*ListIndex, 0, len(li.cachedChain))
	for _, w := range li.cachedChain {
		if v := w.Value(); v != nil {
			out = append(out, v)
		}
	}
	return out
}

// At returns the ancestor ListIndex at depth pos, root-first (0 = root).
// Negative values count from self (-1 = self, -2 = self's parent, ...).
// Out-of-range returns nil.
func (li *ListIndex) At(pos int) *ListIndex {
	chain := li.ListIndexes()
	n := len(chain)
	idx := pos
	if pos < 0 {
		idx = n + pos
	}
	if idx < 0 || idx >= n {
		return nil
	}
	return chain[idx]
}

// Depth returns the number of ancestors (0 for a top-level element).
func (li *ListIndex) Depth() int {
	d := 0
	for cur := li.parent; cur != nil; cur = cur.parent {
		d++
	}
	return d
}
