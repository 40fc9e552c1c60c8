// Package render implements the Renderer: given a batch of written refs,
// it decides which bindings need re-evaluating and in what order,
// skipping refs and bindings already covered this pass. The Registry
// abstracts binding lookup so one pass covers text/attr/loop/conditional/
// child bindings uniformly.
package render

import (
	"github.com/structive-go/structive/binding"
	"github.com/structive-go/structive/listindex"
	"github.com/structive-go/structive/pathmanager"
	"github.com/structive-go/structive/stateproxy"
	"github.com/structive-go/structive/stateref"
	"github.com/structive-go/structive/structivepath"
	"github.com/structive-go/structive/xerrors"
)

// Registry looks up the Bindings attached to a ref, and the notifier of
// each registered child component to forward the batch to after a pass.
type Registry interface {
	BindingsFor(ref *stateref.Ref) []binding.Binding
	ChildNotifiers() []func(refs []*stateref.Ref)
}

// Renderer drives one render pass over a batch of written refs.
type Renderer struct {
	manager  *pathmanager.Manager
	registry Registry
	proxy    *stateproxy.Proxy

	processed map[string]bool
	updated   map[binding.Binding]bool
}

// New constructs a Renderer for one pass. proxy must be read-only so
// bindings read from a consistent snapshot.
func New(manager *pathmanager.Manager, registry Registry, proxy *stateproxy.Proxy) *Renderer {
	return &Renderer{
		manager:   manager,
		registry:  registry,
		proxy:     proxy,
		processed: map[string]bool{},
		updated:   map[binding.Binding]bool{},
	}
}

// Render processes items.
func (r *Renderer) Render(items []*stateref.Ref) error {
	refSet := make(map[string]*stateref.Ref, len(items))
	for _, ref := range items {
		refSet[ref.Key()] = ref
	}

	// Elementwise pass: group element refs by parent-list ref.
	byParent := map[string][]*stateref.Ref{}
	var parentRefs []*stateref.Ref
	seenParent := map[string]bool{}
	for _, ref := range items {
		if !r.manager.IsElement(ref.Info().Pattern()) {
			continue
		}
		parent, err := ref.Parent()
		if err != nil {
			return err
		}
		if parent == nil {
			continue
		}
		if !seenParent[parent.Key()] {
			seenParent[parent.Key()] = true
			parentRefs = append(parentRefs, parent)
		}
		byParent[parent.Key()] = append(byParent[parent.Key()], ref)
	}

	for _, parentRef := range parentRefs {
		group := byParent[parentRef.Key()]
		if _, inBatch := refSet[parentRef.Key()]; inBatch {
			// the list itself will be re-diffed by the general pass's
			// renderItem on the parent ref; its loop binding covers these
			// elements too. Only the element refs are marked processed --
			// the parent ref must stay live for that pass.
			for _, el := range group {
				r.processed[el.Key()] = true
			}
			continue
		}
		if err := r.applyBindingsFor(parentRef); err != nil {
			return err
		}
		r.processed[parentRef.Key()] = true
		for _, el := range group {
			r.processed[el.Key()] = true
		}
	}

	// General pass over everything not already covered.
	for _, ref := range items {
		if r.processed[ref.Key()] {
			continue
		}
		if err := r.renderItem(ref); err != nil {
			return err
		}
	}

	// Child notification.
	for _, notify := range r.registry.ChildNotifiers() {
		notify(items)
	}

	return nil
}

func (r *Renderer) applyBindingsFor(ref *stateref.Ref) error {
	for _, b := range r.registry.BindingsFor(ref) {
		if r.updated[b] {
			continue
		}
		if err := b.ApplyChange(r.proxy); err != nil {
			return err
		}
		r.updated[b] = true
	}
	return nil
}

// renderItem applies ref's bindings, then recurses into its list
// elements and dynamic dependents.
func (r *Renderer) renderItem(ref *stateref.Ref) error {
	if r.processed[ref.Key()] {
		return nil
	}
	r.processed[ref.Key()] = true

	path := ref.Info().Pattern()
	if structivepath.FindPathNodeByPath(r.manager.Root, path) == nil {
		return xerrors.New(xerrors.PATH101, "missing path tree node").With("path", path)
	}

	if err := r.applyBindingsFor(ref); err != nil {
		return err
	}

	if r.manager.IsList(path) {
		newIndexes, err := r.proxy.ListIndexesByRef(ref)
		if err != nil {
			return err
		}
		for _, li := range newIndexes {
			elPath := path + ".*"
			elInfo, err := structivepath.Intern(elPath)
			if err != nil {
				continue
			}
			elRef, err := stateref.Get(elInfo, li)
			if err != nil {
				return err
			}
			if err := r.renderItem(elRef); err != nil {
				return err
			}
		}
	}

	for _, dependent := range r.manager.DynamicDependents(path) {
		if err := r.renderDependent(ref, dependent); err != nil {
			return err
		}
	}

	return nil
}

// renderDependent resolves dependentPath against ref's own ListIndex, as
// is, before recursing. A wildcard dependent is not expanded across the
// elements of its lists; with no ListIndex on ref it fails with LIST-201.
func (r *Renderer) renderDependent(ref *stateref.Ref, dependentPath string) error {
	info, err := structivepath.Intern(dependentPath)
	if err != nil {
		return err
	}
	if info.WildcardCount() == 0 {
		depRef, err := stateref.Get(info, nil)
		if err != nil {
			return err
		}
		return r.renderItem(depRef)
	}

	var li *listindex.ListIndex
	if ref.ListIndex() != nil {
		li = ref.ListIndex()
	}
	depRef, err := stateref.Get(info, li)
	if err != nil {
		return err
	}
	return r.renderItem(depRef)
}
