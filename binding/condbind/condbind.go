// Package condbind implements the Conditional Binding: a single child
// BindContent, mounted only while its guard path reads true. The binding
// controls DOM presence, not visibility -- the content is unmounted when
// the guard is false, not hidden with CSS.
package condbind

import (
	"github.com/structive-go/structive/binding"
	"github.com/structive-go/structive/bindcontent"
	"github.com/structive-go/structive/domport"
	"github.com/structive-go/structive/listindex"
	"github.com/structive-go/structive/stateproxy"
	"github.com/structive-go/structive/stateref"
	"github.com/structive-go/structive/structivepath"
	"github.com/structive-go/structive/xerrors"
)

type parentIndexSource interface {
	ListIndex() *listindex.ListIndex
}

// Binding is the Conditional Binding for a boolean-valued path.
type Binding struct {
	info       *structivepath.Info
	parentSrc  parentIndexSource
	parent     domport.Node
	anchor     domport.Node
	doc        domport.Document
	templateID string

	content *bindcontent.BindContent
	shown   bool
}

// New constructs a Conditional Binding guarded by path, mounted as a
// comment anchor under parent.
func New(path string, parent domport.Node, anchor domport.Node, doc domport.Document, templateID string, parentSrc parentIndexSource) (*Binding, error) {
	info, err := structivepath.Intern(path)
	if err != nil {
		return nil, err
	}
	return &Binding{info: info, parentSrc: parentSrc, parent: parent, anchor: anchor, doc: doc, templateID: templateID}, nil
}

func (b *Binding) Path() string { return b.info.Pattern() }

// Ref derives this conditional binding's own ref (its guard path plus its enclosing loop context's list index).
func (b *Binding) Ref() (*stateref.Ref, error) {
	var li *listindex.ListIndex
	if b.parentSrc != nil {
		li = b.parentSrc.ListIndex()
	}
	return stateref.Get(b.info, li)
}

// BindContents returns the live child content, or none when unshown.
func (b *Binding) BindContents() []*bindcontent.BindContent {
	if b.shown && b.content != nil {
		return []*bindcontent.BindContent{b.content}
	}
	return nil
}

// ApplyChange reads the guard value and mounts/unmounts the child
// content accordingly.
func (b *Binding) ApplyChange(proxy *stateproxy.Proxy) error {
	ref, err := b.Ref()
	if err != nil {
		return err
	}
	v, err := proxy.GetByRef(ref)
	if err != nil {
		return err
	}
	cond, ok := v.(bool)
	if !ok {
		return xerrors.New(xerrors.BIND201, "conditional binding value is not a bool").With("path", b.info.Pattern())
	}

	if cond {
		if !b.shown {
			if b.content == nil {
				b.content, err = bindcontent.New(b.doc, b.templateID)
				if err != nil {
					return err
				}
			}
			b.content.Activate()
			b.content.MountAfter(b.parent, b.anchor)
			b.shown = true
		}
		return b.content.ApplyChange(proxy, map[binding.Binding]bool{})
	}

	if b.shown {
		b.content.Unmount()
		b.content.Inactivate()
		b.shown = false
	}
	return nil
}

func (b *Binding) Activate() {
	if b.shown && b.content != nil {
		b.content.Activate()
	}
}

func (b *Binding) Inactivate() {
	if b.content != nil {
		b.content.Unmount()
		b.content.Inactivate()
	}
	b.shown = false
}
