package component

import (
	"github.com/structive-go/structive/binding"
	"github.com/structive-go/structive/binding/childbind"
	"github.com/structive-go/structive/binding/condbind"
	"github.com/structive-go/structive/binding/loopbind"
	"github.com/structive-go/structive/bindcontent"
	"github.com/structive-go/structive/stateref"
)

// registry implements render.Registry by walking the live BindContent
// tree rooted at root and indexing every binding it finds by its current
// Ref key, freshly on each Render call -- the tree shape (which loop
// elements exist, which conditionals are shown) can only have changed
// since the last pass, so a stale index would miss newly-mounted
// content.
type registry struct {
	root *bindcontent.BindContent

	byKey     map[string][]binding.Binding
	notifiers []func(refs []*stateref.Ref)
	built     bool
}

func (r *registry) ensureBuilt() {
	if r.built {
		return
	}
	r.byKey = map[string][]binding.Binding{}
	r.notifiers = nil
	r.walk(r.root)
	r.built = true
}

func (r *registry) walk(content *bindcontent.BindContent) {
	for _, b := range content.Bindings() {
		ref, err := b.Ref()
		if err == nil {
			r.byKey[ref.Key()] = append(r.byKey[ref.Key()], b)
		}
		switch t := b.(type) {
		case *loopbind.Binding:
			for _, child := range t.Contents() {
				r.walk(child)
			}
		case *condbind.Binding:
			for _, child := range t.BindContents() {
				r.walk(child)
			}
		case *childbind.Binding:
			r.notifiers = append(r.notifiers, t.Notify)
		case *childBinding:
			r.notifiers = append(r.notifiers, t.Notify)
		}
	}
}

// BindingsFor implements render.Registry.
func (r *registry) BindingsFor(ref *stateref.Ref) []binding.Binding {
	r.ensureBuilt()
	return r.byKey[ref.Key()]
}

// ChildNotifiers implements render.Registry.
func (r *registry) ChildNotifiers() []func(refs []*stateref.Ref) {
	r.ensureBuilt()
	return r.notifiers
}
