// Package loopbind implements the Loop Binding: one BindContent per live
// list element, reconciled against the list's current value on every
// ApplyChange.
//
// Reconciliation diffs the new identity set against the previous one,
// removes what dropped out, reuses or creates what's left, then reorders
// the DOM to match; listindex.Reconcile (via
// stateproxy.Proxy.ListIndexesByRef) supplies the identity diff. A
// reused content is always remounted after its predecessor rather than
// checked for already being in place -- skipping the move would save DOM
// calls, not change behavior.
package loopbind

import (
	"github.com/structive-go/structive/binding"
	"github.com/structive-go/structive/bindcontent"
	"github.com/structive-go/structive/domport"
	"github.com/structive-go/structive/listindex"
	"github.com/structive-go/structive/stateproxy"
	"github.com/structive-go/structive/stateref"
	"github.com/structive-go/structive/structivepath"
)

// parentIndexSource supplies the list index of the loop's own enclosing
// context, nil when the loop is not itself nested inside another loop.
type parentIndexSource interface {
	ListIndex() *listindex.ListIndex
}

// Binding is the Loop Binding for one list path.
type Binding struct {
	info       *structivepath.Info
	parentSrc  parentIndexSource
	parent     domport.Node
	anchor     domport.Node
	doc        domport.Document
	templateID string

	contentByLI map[*listindex.ListIndex]*bindcontent.BindContent
	pool        []*bindcontent.BindContent
}

// New constructs a Loop Binding for path, mounted as a single comment
// anchor under parent; element BindContents are inserted immediately
// after the anchor as the list is populated.
func New(path string, parent domport.Node, anchor domport.Node, doc domport.Document, templateID string, parentSrc parentIndexSource) (*Binding, error) {
	info, err := structivepath.Intern(path)
	if err != nil {
		return nil, err
	}
	return &Binding{
		info:        info,
		parentSrc:   parentSrc,
		parent:      parent,
		anchor:      anchor,
		doc:         doc,
		templateID:  templateID,
		contentByLI: map[*listindex.ListIndex]*bindcontent.BindContent{},
	}, nil
}

func (b *Binding) Path() string { return b.info.Pattern() }

// Contents returns the live element BindContents, for callers (the
// component engine's binding registry) that need to recurse into a
// loop's per-element bindings.
func (b *Binding) Contents() []*bindcontent.BindContent {
	out := make([]*bindcontent.BindContent, 0, len(b.contentByLI))
	for _, c := range b.contentByLI {
		out = append(out, c)
	}
	return out
}

// Ref derives this loop binding's own ref (its list path plus its enclosing loop context's list index).
func (b *Binding) Ref() (*stateref.Ref, error) {
	var li *listindex.ListIndex
	if b.parentSrc != nil {
		li = b.parentSrc.ListIndex()
	}
	return stateref.Get(b.info, li)
}

// ApplyChange reconciles the list's current elements against the
// previous pass's BindContents.
func (b *Binding) ApplyChange(proxy *stateproxy.Proxy) error {
	ref, err := b.Ref()
	if err != nil {
		return err
	}
	newIndexes, err := proxy.ListIndexesByRef(ref)
	if err != nil {
		return err
	}

	newSet := make(map[*listindex.ListIndex]bool, len(newIndexes))
	for _, li := range newIndexes {
		newSet[li] = true
	}

	// Remove dropped elements.
	for li, content := range b.contentByLI {
		if newSet[li] {
			continue
		}
		content.Unmount()
		content.Inactivate()
		b.pool = append(b.pool, content)
		delete(b.contentByLI, li)
	}

	// Rebuild in new order, reusing or creating as needed.
	prev := b.anchor
	for _, li := range newIndexes {
		content, existed := b.contentByLI[li]
		if !existed {
			if n := len(b.pool); n > 0 {
				content = b.pool[n-1]
				b.pool = b.pool[:n-1]
			} else {
				content, err = bindcontent.New(b.doc, b.templateID)
				if err != nil {
					return err
				}
			}
			content.AssignListIndex(li)
			b.contentByLI[li] = content
		} else {
			content.Unmount()
		}
		content.MountAfter(b.parent, prev)
		if err := content.ApplyChange(proxy, map[binding.Binding]bool{}); err != nil {
			return err
		}
		if last, lerr := content.LastNode(); lerr == nil {
			prev = last
		}
	}
	return nil
}

func (b *Binding) Activate() {
	for _, content := range b.contentByLI {
		content.Activate()
	}
}

func (b *Binding) Inactivate() {
	for _, content := range b.contentByLI {
		content.Unmount()
		content.Inactivate()
		b.pool = append(b.pool, content)
	}
	b.contentByLI = map[*listindex.ListIndex]*bindcontent.BindContent{}
}
