// Package update implements the Updater: per-component write batching,
// the (version, revision) invalidation stamp that drives state-proxy
// cache freshness, and microtask-coalesced render scheduling.
//
// The write queue is drained repeatedly rather than once, since a render
// pass can itself enqueue further writes; the rendering flag keeps such
// mid-render writes queued instead of recursing.
package update

import (
	"sync/atomic"

	"github.com/structive-go/structive/pathmanager"
	"github.com/structive-go/structive/stateproxy"
	"github.com/structive-go/structive/stateref"
)

var nextVersion atomic.Int64

type versionRevision struct {
	version  int64
	revision int64
}

// RenderFunc performs one render pass over a batch of invalidated refs.
// batch is nil for Updater.InitialRender, signalling "render everything".
type RenderFunc func(batch []*stateref.Ref)

// UpdatedCallbackFunc receives the batch's written paths and, per path,
// the last written element's loop indexes.
type UpdatedCallbackFunc func(paths []string, indexesByPath map[string][]int)

// Updater batches writes for one component instance and drives its render
// passes. A component keeps one long-lived Updater across batches rather
// than constructing a fresh one per write; nothing depends on per-batch
// construction beyond the monotonic version stamp.
type Updater struct {
	manager  *pathmanager.Manager
	version  int64
	revision int64

	queue     []*stateref.Ref
	saveQueue []*stateref.Ref

	versionRevisionByPath map[string]versionRevision

	rendering bool
	scheduled bool

	render          RenderFunc
	updatedCallback UpdatedCallbackFunc
}

// New constructs an Updater for manager. render is called, possibly
// several times per batch until the queue stays empty, with the refs
// written since the previous call.
func New(manager *pathmanager.Manager, render RenderFunc) *Updater {
	return &Updater{
		manager:               manager,
		version:               nextVersion.Add(1),
		versionRevisionByPath: map[string]versionRevision{},
		render:                render,
	}
}

// Version returns this Updater's construction-time version stamp.
func (u *Updater) Version() int64 { return u.version }

// Revision returns the current write-ordinal counter, bumped on every
// EnqueueRef.
func (u *Updater) Revision() int64 { return u.revision }

// VersionRevision implements stateproxy.Updater: the (version, revision)
// last stamped for path by an invalidating write, or (version, 0) if path
// has never been invalidated.
func (u *Updater) VersionRevision(path string) (int64, int64) {
	if e, ok := u.versionRevisionByPath[path]; ok {
		return e.version, e.revision
	}
	return u.version, 0
}

// SetUpdatedCallback registers the component's UpdatedCallback hook, invoked
// after a batch's saveQueue drains.
func (u *Updater) SetUpdatedCallback(fn UpdatedCallbackFunc) { u.updatedCallback = fn }

// EnqueueRef implements stateproxy.Updater: records a write, invalidates
// its dependency closure, and schedules a render pass if none is already
// pending.
func (u *Updater) EnqueueRef(ref *stateref.Ref) {
	u.revision++
	u.queue = append(u.queue, ref)
	u.saveQueue = append(u.saveQueue, ref)
	u.invalidate(ref.Info().Pattern())

	if !u.rendering && !u.scheduled {
		u.scheduled = true
		scheduleMicrotask(u.Flush)
	}
}

// invalidate walks path's static children and dynamic dependents,
// stamping each reachable path with the current (version, revision).
// Elementwise descent is skipped at path itself when path is a
// wildcard-leaf element path, so writing one list element doesn't
// invalidate its siblings.
func (u *Updater) invalidate(path string) {
	visited := map[string]bool{}
	u.invalidateRec(path, true, visited)
}

func (u *Updater) invalidateRec(path string, isSource bool, visited map[string]bool) {
	if visited[path] {
		return
	}
	visited[path] = true
	u.versionRevisionByPath[path] = versionRevision{u.version, u.revision}

	if !(isSource && u.manager.IsElement(path)) {
		for _, child := range u.manager.StaticChildren(path) {
			u.invalidateRec(child, false, visited)
		}
	}
	for _, dependent := range u.manager.DynamicDependents(path) {
		u.invalidateRec(dependent, false, visited)
	}
}

// Flush drains the write queue, calling render once per drain until a
// pass enqueues no further writes, then (if due) schedules the
// UpdatedCallback follow-up microtask. The component engine's initial
// mount goes through InitialRender, not Flush.
func (u *Updater) Flush() {
	u.scheduled = false
	u.rendering = true
	defer func() { u.rendering = false }()

	for len(u.queue) > 0 {
		batch := u.queue
		u.queue = nil
		if u.render != nil {
			u.render(batch)
		}
	}

	if u.updatedCallback != nil && len(u.saveQueue) > 0 {
		paths, indexesByPath := summarize(u.saveQueue)
		u.saveQueue = nil
		cb := u.updatedCallback
		scheduleMicrotask(func() { cb(paths, indexesByPath) })
	}
}

// InitialRender performs a component's first render pass, outside the
// normal write-triggered batching.
func (u *Updater) InitialRender() {
	if u.render != nil {
		u.render(nil)
	}
}

func summarize(refs []*stateref.Ref) ([]string, map[string][]int) {
	seen := map[string]bool{}
	var paths []string
	indexesByPath := map[string][]int{}
	for _, ref := range refs {
		p := ref.Info().Pattern()
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
		if ref.ListIndex() != nil {
			indexesByPath[p] = ref.ListIndex().Indexes()
		}
	}
	return paths, indexesByPath
}

// Update wraps fn in a writable state-proxy session. loopRef, if
// non-nil, is pushed as the active loop context for the session's
// duration.
func (u *Updater) Update(state any, loopRef *stateref.Ref, fn func(p *stateproxy.Proxy) error) error {
	p, err := stateproxy.NewWritable(state, u.manager, u)
	if err != nil {
		return err
	}
	if loopRef != nil {
		return p.WithLoopContext(loopRef, func() error { return fn(p) })
	}
	return fn(p)
}
