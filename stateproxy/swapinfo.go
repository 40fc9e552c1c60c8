package stateproxy

import "github.com/structive-go/structive/listindex"

// swapInfo snapshots a list ref's values and their ListIndexes the first
// time one of its elements is written in a batch.
// The backing slice is mutated in place by subsequent element writes, so
// without this snapshot a later read could no longer tell "this value
// moved" from "this value was replaced" — swapInfo freezes the "before
// this batch" baseline that listindex.Reconcile needs to tell them apart.
type swapInfo struct {
	oldValues      []any
	oldListIndexes []*listindex.ListIndex
}

func newSwapInfo(values []any, indexes []*listindex.ListIndex) *swapInfo {
	cp := make([]any, len(values))
	copy(cp, values)
	cpIdx := make([]*listindex.ListIndex, len(indexes))
	copy(cpIdx, indexes)
	return &swapInfo{oldValues: cp, oldListIndexes: cpIdx}
}
