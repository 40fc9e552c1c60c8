// Package childbind implements the Child-Component Binding: a binding
// whose DOM node is itself the root of a nested Structive component
// instance.
//
// A parent registers its children so a disconnect walk reaches the whole
// subtree. The browser's `customElements.whenDefined(tagName)` gating --
// deferring registration until the child custom element upgrades --
// has no analogue here: a Go child
// component is an already-constructed Go value, not a tag a browser
// upgrades asynchronously, so registration happens synchronously on
// Activate instead of after an awaited promise.
package childbind

import (
	"github.com/structive-go/structive/listindex"
	"github.com/structive-go/structive/stateproxy"
	"github.com/structive-go/structive/stateref"
	"github.com/structive-go/structive/structivepath"
)

// ChildComponent is the surface a nested component instance exposes to
// its Child-Component Binding.
type ChildComponent interface {
	// SetParentRef receives the binding's own ref, the handle the child
	// resolves forwarded parent state through.
	SetParentRef(ref *stateref.Ref)
	// NotifyRedraw forwards a filtered batch of parent refs a render
	// pass touched.
	NotifyRedraw(refs []*stateref.Ref)
}

// ParentComponent is the surface a Child-Component Binding registers
// itself against.
type ParentComponent interface {
	RegisterChildComponent(child ChildComponent)
	UnregisterChildComponent(child ChildComponent)
}

type parentIndexSource interface {
	ListIndex() *listindex.ListIndex
}

// Binding is the Child-Component Binding for one nested component
// instance.
type Binding struct {
	info      *structivepath.Info
	parentSrc parentIndexSource
	parent    ParentComponent
	child     ChildComponent

	registered bool
}

// New constructs a Child-Component Binding for path, wiring parent and
// child together on Activate.
func New(path string, parent ParentComponent, child ChildComponent, parentSrc parentIndexSource) (*Binding, error) {
	info, err := structivepath.Intern(path)
	if err != nil {
		return nil, err
	}
	return &Binding{info: info, parentSrc: parentSrc, parent: parent, child: child}, nil
}

func (b *Binding) Path() string { return b.info.Pattern() }

// Ref derives this child-component binding's own ref.
func (b *Binding) Ref() (*stateref.Ref, error) {
	var li *listindex.ListIndex
	if b.parentSrc != nil {
		li = b.parentSrc.ListIndex()
	}
	return stateref.Get(b.info, li)
}

// ApplyChange forwards this binding's own ref to the child state.
func (b *Binding) ApplyChange(proxy *stateproxy.Proxy) error {
	ref, err := b.Ref()
	if err != nil {
		return err
	}
	b.child.SetParentRef(ref)
	return nil
}

// Activate registers the parent<->child relation.
func (b *Binding) Activate() {
	if b.registered {
		return
	}
	b.parent.RegisterChildComponent(b.child)
	b.registered = true
}

// Inactivate unregisters the parent<->child relation.
func (b *Binding) Inactivate() {
	if !b.registered {
		return
	}
	b.parent.UnregisterChildComponent(b.child)
	b.registered = false
}

// Notify filters refs (see FilterRedraw) and forwards the survivors to
// this binding's child, if any pass.
func (b *Binding) Notify(refs []*stateref.Ref) {
	filtered := b.FilterRedraw(refs)
	if len(filtered) > 0 {
		b.child.NotifyRedraw(filtered)
	}
}

// FilterRedraw filters refs down to the ones this binding's child cares
// about:
//   - the ref's pattern differs from this binding's own path,
//   - the ref's pattern descends from this binding's own path (the
//     binding's pattern is in the ref's cumulative path set), so a write
//     under the bound subtree reaches the child,
//   - the ref's list-index chain agrees with this binding's own, up to
//     this binding's wildcard depth.
func (b *Binding) FilterRedraw(refs []*stateref.Ref) []*stateref.Ref {
	myLI, myErr := b.Ref()
	var myIndexes []int
	if myErr == nil && myLI.ListIndex() != nil {
		myIndexes = myLI.ListIndex().Indexes()
	}
	depth := b.info.WildcardCount()
	myPattern := b.info.Pattern()

	var out []*stateref.Ref
	for _, r := range refs {
		pattern := r.Info().Pattern()
		if pattern == myPattern {
			continue
		}
		if _, ok := r.Info().CumulativePathSet()[myPattern]; !ok {
			continue
		}
		if !liAgrees(r, myIndexes, depth) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func liAgrees(r *stateref.Ref, myIndexes []int, depth int) bool {
	if depth == 0 {
		return true
	}
	if r.ListIndex() == nil {
		return false
	}
	theirIndexes := r.ListIndex().Indexes()
	if len(theirIndexes) < depth || len(myIndexes) < depth {
		return false
	}
	for i := 0; i < depth; i++ {
		if theirIndexes[i] != myIndexes[i] {
			return false
		}
	}
	return true
}
