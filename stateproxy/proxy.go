package stateproxy

import (
	"reflect"

	"github.com/structive-go/structive/listindex"
	"github.com/structive-go/structive/pathmanager"
	"github.com/structive-go/structive/stateref"
	"github.com/structive-go/structive/structivepath"
	"github.com/structive-go/structive/xerrors"
)

// Proxy is the single gate onto a component's state: all
// state reads and writes for one component instance go through GetByRef/
// SetByRef, regardless of whether the call originated from a template
// binding, a getter computing a derived value, or external code via the
// component engine.
//
// A read-only Proxy (writable == false) is used for rendering sessions;
// a writable Proxy is handed to user code only inside an Updater.Update
// session.
type Proxy struct {
	ptrVal  reflect.Value
	elemVal reflect.Value

	manager  *pathmanager.Manager
	updater  Updater
	cache    *cache
	writable bool

	refStack      []*stateref.Ref
	swapInfoByRef map[string]*swapInfo

	// DelegateGet/DelegateSet let the component engine forward a ref to a
	// parent component's state output;
	// nil means this proxy never delegates. The component package does
	// not set them.
	DelegateGet func(ref *stateref.Ref) (value any, handled bool, err error)
	DelegateSet func(ref *stateref.Ref, value any) (handled bool, err error)
}

func newProxy(state any, manager *pathmanager.Manager, updater Updater, writable bool) (*Proxy, error) {
	v := reflect.ValueOf(state)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return nil, xerrors.New(xerrors.STC001, "state must be a non-nil pointer to a struct")
	}
	p := &Proxy{
		ptrVal:        v,
		elemVal:       v.Elem(),
		manager:       manager,
		updater:       updater,
		cache:         newCache(),
		writable:      writable,
		swapInfoByRef: map[string]*swapInfo{},
	}
	p.install()
	return p, nil
}

// NewReadOnly builds a read-only Proxy over state.
func NewReadOnly(state any, manager *pathmanager.Manager, updater Updater) (*Proxy, error) {
	return newProxy(state, manager, updater, false)
}

// NewWritable builds a writable Proxy over state.
func NewWritable(state any, manager *pathmanager.Manager, updater Updater) (*Proxy, error) {
	return newProxy(state, manager, updater, true)
}

// Writable reports whether this proxy permits SetByRef.
func (p *Proxy) Writable() bool { return p.writable }

// State returns the underlying state pointer.
func (p *Proxy) State() any { return p.ptrVal.Interface() }

// WithLoopContext pushes ref as the active loop context for the duration
// of fn, guaranteeing the pop even if fn panics.
func (p *Proxy) WithLoopContext(ref *stateref.Ref, fn func() error) error {
	p.refStack = append(p.refStack, ref)
	defer func() {
		p.refStack = p.refStack[:len(p.refStack)-1]
	}()
	return fn()
}

// currentRef returns the ref on top of the stack, or nil.
func (p *Proxy) currentRef() *stateref.Ref {
	if len(p.refStack) == 0 {
		return nil
	}
	return p.refStack[len(p.refStack)-1]
}

// loopIndexesFor returns the loop-index array ($1, $2, ...) visible at the
// current point of evaluation: the ListIndex chain of the innermost ref on
// the stack, or nil outside any loop context.
func (p *Proxy) loopIndexesFor(ref *stateref.Ref) []int {
	if ref != nil && ref.ListIndex() != nil {
		return ref.ListIndex().Indexes()
	}
	if cur := p.currentRef(); cur != nil && cur.ListIndex() != nil {
		return cur.ListIndex().Indexes()
	}
	return nil
}

// trackIfInsideGetter records a dynamic dependency edge when the caller is
// currently evaluating a getter-only path and reads a different ref.
func (p *Proxy) trackIfInsideGetter(targetPath string) {
	top := p.currentRef()
	if top == nil {
		return
	}
	sourcePath := top.Info().Pattern()
	if sourcePath == targetPath {
		return
	}
	if p.manager.IsOnlyGetter(sourcePath) {
		p.manager.AddDynamicDependency(sourcePath, targetPath)
	}
}

// fresh reports whether a cached entry is still valid: no write has
// invalidated path since the entry was cached. Each Proxy owns its cache,
// so entries live only as long as that Proxy. Freshness compares the
// path's last-invalidated revision, as reported by the Updater, against
// the revision stored with the entry when it was cached.
func (p *Proxy) fresh(e *cacheEntry, path string) bool {
	_, pathRevision := p.updater.VersionRevision(path)
	return pathRevision <= e.revision
}

// GetByRef resolves ref's current value, consulting and populating the
// cache, and recording a dynamic dependency edge when appropriate.
func (p *Proxy) GetByRef(ref *stateref.Ref) (any, error) {
	path := ref.Info().Pattern()
	p.trackIfInsideGetter(path)

	cacheable := p.manager.CacheEligible(ref.Info())
	if cacheable {
		if entry, ok := p.cache.get(ref.Key()); ok && p.fresh(entry, path) {
			return entry.value, nil
		}
	}

	if p.DelegateGet != nil {
		if v, handled, err := p.DelegateGet(ref); handled {
			return v, err
		}
	}

	p.refStack = append(p.refStack, ref)
	value, listIndexes, err := p.resolve(ref)
	p.refStack = p.refStack[:len(p.refStack)-1]
	if err != nil {
		return nil, err
	}

	if cacheable {
		_, rev := p.updater.VersionRevision(path)
		p.cache.set(ref.Key(), value, listIndexes, p.updater.Version(), rev)
	}
	return value, nil
}

// ListIndexesByRef resolves ref (populating the cache like GetByRef) and
// returns the list-index slice discovered for it, for a list-path ref.
// Used by the Renderer to diff a list's current indexes against the
// ones it last rendered.
func (p *Proxy) ListIndexesByRef(ref *stateref.Ref) ([]*listindex.ListIndex, error) {
	if _, err := p.GetByRef(ref); err != nil {
		return nil, err
	}
	if entry, ok := p.cache.get(ref.Key()); ok {
		return entry.listIndexes, nil
	}
	return nil, nil
}

// resolve performs the actual reflective read: a getter-method call when
// path has one, otherwise a struct-field/accessor walk.
func (p *Proxy) resolve(ref *stateref.Ref) (any, []*listindex.ListIndex, error) {
	path := ref.Info().Pattern()

	if name, ok := p.manager.GetterMethodName[path]; ok {
		meth := p.ptrVal.MethodByName(name)
		if !meth.IsValid() {
			return nil, nil, xerrors.New(xerrors.STC001, "getter method not found").With("path", path).With("method", name)
		}
		out := meth.Call(nil)
		value := out[0].Interface()
		return value, p.discoverListIndexes(ref, value), nil
	}

	acc := pathmanager.PathAccessor(path)
	v, err := acc.Get(p.elemVal, p.loopIndexesFor(ref))
	if err != nil {
		return nil, nil, err
	}
	value := v.Interface()
	return value, p.discoverListIndexes(ref, value), nil
}

// discoverListIndexes reconciles path's current slice value against the
// previous snapshot (cache, or a pending Swap Info if element writes
// touched this list earlier in the same batch) and returns the new
// ListIndex slice.
func (p *Proxy) discoverListIndexes(ref *stateref.Ref, value any) []*listindex.ListIndex {
	path := ref.Info().Pattern()
	if !p.manager.IsList(path) {
		return nil
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil
	}
	newValues := sliceToAny(rv)

	var oldValues []any
	var oldIndexes []*listindex.ListIndex
	if si, ok := p.swapInfoByRef[ref.Key()]; ok {
		oldValues = si.oldValues
		oldIndexes = si.oldListIndexes
		delete(p.swapInfoByRef, ref.Key())
	} else if entry, ok := p.cache.get(ref.Key()); ok {
		oldIndexes = entry.listIndexes
		if ov := reflect.ValueOf(entry.value); ov.IsValid() && (ov.Kind() == reflect.Slice || ov.Kind() == reflect.Array) {
			oldValues = sliceToAny(ov)
		}
	}

	return listindex.Reconcile(ref.ListIndex(), oldValues, newValues, oldIndexes)
}

func sliceToAny(rv reflect.Value) []any {
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

// SetByRef assigns value to ref, snapshotting Swap Info for element writes
// before mutation and scheduling a render via the Updater.
func (p *Proxy) SetByRef(ref *stateref.Ref, value any) error {
	if !p.writable {
		return xerrors.New(xerrors.STATE202, "write attempted on a read-only state proxy").With("path", ref.Info().Pattern())
	}
	path := ref.Info().Pattern()

	// Enqueued even when the write fails, so the render pass observes
	// whatever state a partial assignment left behind.
	defer p.updater.EnqueueRef(ref)

	if p.manager.IsElement(path) {
		if err := p.ensureSwapInfo(ref); err != nil {
			return err
		}
	}

	if p.DelegateSet != nil {
		if handled, err := p.DelegateSet(ref, value); handled {
			return err
		}
	}

	p.refStack = append(p.refStack, ref)
	err := p.assign(ref, value)
	p.refStack = p.refStack[:len(p.refStack)-1]
	return err
}

// ensureSwapInfo snapshots the parent list's current values/indexes the
// first time in a batch that one of its elements is written, so later
// element writes in the same batch (and the eventual list re-read) can
// tell a value-swap from a structural change even though the backing slice
// has already been mutated in place by then.
func (p *Proxy) ensureSwapInfo(ref *stateref.Ref) error {
	parentRef, err := ref.Parent()
	if err != nil {
		return err
	}
	if parentRef == nil {
		return nil
	}
	if _, ok := p.swapInfoByRef[parentRef.Key()]; ok {
		return nil
	}
	current, err := p.GetByRef(parentRef)
	if err != nil {
		return err
	}
	rv := reflect.ValueOf(current)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil
	}
	entry, _ := p.cache.get(parentRef.Key())
	var oldIndexes []*listindex.ListIndex
	if entry != nil {
		oldIndexes = entry.listIndexes
	}
	p.swapInfoByRef[parentRef.Key()] = newSwapInfo(sliceToAny(rv), oldIndexes)
	return nil
}

// assign performs the actual reflective write: a setter-method call when
// path has one, otherwise a struct-field/accessor walk.
func (p *Proxy) assign(ref *stateref.Ref, value any) error {
	path := ref.Info().Pattern()

	if name, ok := p.manager.SetterMethodName[path]; ok {
		meth := p.ptrVal.MethodByName(name)
		if !meth.IsValid() {
			return xerrors.New(xerrors.STC001, "setter method not found").With("path", path).With("method", name)
		}
		in := []reflect.Value{coerce(value, meth.Type().In(0))}
		meth.Call(in)
		return nil
	}

	acc := pathmanager.PathAccessor(path)
	return acc.Set(p.elemVal, reflect.ValueOf(value), p.loopIndexesFor(ref))
}

// coerce adapts an untyped value (as arrives from template bindings/event
// handlers) to t when it isn't already assignable, leaving it unchanged
// otherwise so a genuine type mismatch still surfaces as a reflect panic
// rather than being silently swallowed.
func coerce(value any, t reflect.Type) reflect.Value {
	rv := reflect.ValueOf(value)
	if rv.IsValid() && rv.Type().AssignableTo(t) {
		return rv
	}
	if rv.IsValid() && rv.Type().ConvertibleTo(t) {
		return rv.Convert(t)
	}
	return rv
}

// Resolve
// interns path, derives the Ref from indexes, and optionally assigns
// value. The Ref's ListIndex chain is built fresh from indexes with
// listindex.New (one level per entry); it is not one of the list's
// tracked ListIndex identities.
func (p *Proxy) Resolve(path string, indexes []int, value ...any) (*stateref.Ref, error) {
	info, err := structivepath.Intern(path)
	if err != nil {
		return nil, err
	}
	var li *listindex.ListIndex
	for _, idx := range indexes {
		li = listindex.New(li, idx)
	}
	ref, err := stateref.Get(info, li)
	if err != nil {
		return nil, err
	}
	if len(value) > 0 {
		return ref, p.SetByRef(ref, value[0])
	}
	return ref, nil
}

// TrackDependency records current-getter -> path as a dynamic
// dependency, for getters whose reads don't themselves go through the
// proxy.
func (p *Proxy) TrackDependency(path string) {
	p.trackIfInsideGetter(path)
}

// GetAll resolves
// path and, if it descends through a wildcard, returns every currently-
// known element's value in list order (indexes addresses any outer
// wildcard levels for a nested list). A path with no wildcard returns its
// single value wrapped in a one-element slice.
func (p *Proxy) GetAll(path string, indexes []int) ([]any, error) {
	info, err := structivepath.Intern(path)
	if err != nil {
		return nil, err
	}

	wps := info.WildcardParentInfos()
	if len(wps) == 0 {
		r, err := stateref.Get(info, nil)
		if err != nil {
			return nil, err
		}
		v, err := p.GetByRef(r)
		if err != nil {
			return nil, err
		}
		return []any{v}, nil
	}

	// The deepest wildcard's immediate list ancestor: where the slice
	// value itself lives (e.g. "items" for both "items.*" and "items.*.name").
	listInfo := wps[len(wps)-1]
	var outerLI *listindex.ListIndex
	for _, idx := range indexes {
		outerLI = listindex.New(outerLI, idx)
	}
	parentRef, err := stateref.Get(listInfo, outerLI)
	if err != nil {
		return nil, err
	}
	parentValue, err := p.GetByRef(parentRef)
	if err != nil {
		return nil, err
	}
	rv := reflect.ValueOf(parentValue)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, xerrors.New(xerrors.LIST203, "path is not a list").With("path", path)
	}
	lis := p.discoverListIndexes(parentRef, parentValue)
	out := make([]any, 0, len(lis))
	for _, li := range lis {
		elemRef, err := stateref.Get(info, li)
		if err != nil {
			return nil, err
		}
		v, err := p.GetByRef(elemRef)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
