package binding

import (
	"fmt"

	"github.com/structive-go/structive/domport"
	"github.com/structive-go/structive/listindex"
	"github.com/structive-go/structive/stateproxy"
	"github.com/structive-go/structive/stateref"
	"github.com/structive-go/structive/structivepath"
)

// ListIndexSource supplies the current loop-context list index a binding
// should resolve its path against. bindcontent.BindContent satisfies this
// (its ListIndex may be reassigned when the content is recycled at a
// different list position via AssignListIndex), so a binding
// re-derives its Ref from (info, src.ListIndex()) on every ApplyChange
// rather than baking a single Ref at construction time.
type ListIndexSource interface {
	ListIndex() *listindex.ListIndex
}

// TextBinding sets a text node's content to a path's current value,
// stringified. Collapsed from
// a reactive-effect subscription into a plain re-evaluate-on-demand call
// since the Renderer (not a per-binding effect) decides when to run it.
type TextBinding struct {
	node domport.Node
	info *structivepath.Info
	src  ListIndexSource
}

// NewText constructs a TextBinding writing node's text content whenever
// info's value changes, resolved against src's current loop context.
func NewText(node domport.Node, info *structivepath.Info, src ListIndexSource) *TextBinding {
	return &TextBinding{node: node, info: info, src: src}
}

func (b *TextBinding) Path() string { return b.info.Pattern() }

func (b *TextBinding) Ref() (*stateref.Ref, error) {
	return stateref.Get(b.info, b.src.ListIndex())
}

func (b *TextBinding) ApplyChange(proxy *stateproxy.Proxy) error {
	ref, err := b.Ref()
	if err != nil {
		return err
	}
	v, err := proxy.GetByRef(ref)
	if err != nil {
		return err
	}
	b.node.SetTextContent(stringify(v))
	return nil
}

func (b *TextBinding) Activate()   {}
func (b *TextBinding) Inactivate() {}

func stringify(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
