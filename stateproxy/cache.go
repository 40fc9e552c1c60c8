// Package stateproxy implements the read-only and writable State Proxies:
// reflection-driven get/set dispatch over a component's
// state struct, a per-ref value+list-index cache stamped with
// (version, revision), the ref stack that drives dynamic dependency
// tracking, and loop-context threading for wildcard/`$N` resolution.
//
// The active evaluation context is a ref stack rather than a single
// "current" pointer, since nested getter evaluation needs the *chain* of
// active refs, not just the innermost
// one; the Get-registers-dependency /
// Set-triggers-dependents shape becomes GetByRef's dependency recording and
// setByRef's updater.EnqueueRef call.
package stateproxy

import "github.com/structive-go/structive/listindex"

// cacheEntry is one cached read: the resolved value, any list indexes
// discovered while resolving it (so a cached list-path read doesn't need to
// re-run reconciliation), and the (version, revision) it was computed under.
type cacheEntry struct {
	value       any
	listIndexes []*listindex.ListIndex
	version     int64
	revision    int64
}

// cache holds per-ref cached reads, keyed by stateref.Ref.Key().
type cache struct {
	entries map[string]*cacheEntry
}

func newCache() *cache {
	return &cache{entries: map[string]*cacheEntry{}}
}

func (c *cache) get(key string) (*cacheEntry, bool) {
	e, ok := c.entries[key]
	return e, ok
}

func (c *cache) set(key string, value any, listIndexes []*listindex.ListIndex, version, revision int64) {
	c.entries[key] = &cacheEntry{value: value, listIndexes: listIndexes, version: version, revision: revision}
}

func (c *cache) clear() {
	c.entries = map[string]*cacheEntry{}
}
