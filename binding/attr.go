package binding

import (
	"github.com/structive-go/structive/domport"
	"github.com/structive-go/structive/stateproxy"
	"github.com/structive-go/structive/stateref"
	"github.com/structive-go/structive/structivepath"
)

// AttrBinding sets one DOM attribute to a path's current value,
// stringified. Boolean values follow the HTML convention of presence
// meaning true: false removes the attribute entirely.
type AttrBinding struct {
	node domport.Node
	name string
	info *structivepath.Info
	src  ListIndexSource
}

// NewAttr constructs an AttrBinding writing attribute name on node.
func NewAttr(node domport.Node, name string, info *structivepath.Info, src ListIndexSource) *AttrBinding {
	return &AttrBinding{node: node, name: name, info: info, src: src}
}

func (b *AttrBinding) Path() string { return b.info.Pattern() }

func (b *AttrBinding) Ref() (*stateref.Ref, error) {
	return stateref.Get(b.info, b.src.ListIndex())
}

func (b *AttrBinding) ApplyChange(proxy *stateproxy.Proxy) error {
	ref, err := b.Ref()
	if err != nil {
		return err
	}
	v, err := proxy.GetByRef(ref)
	if err != nil {
		return err
	}
	if bv, ok := v.(bool); ok {
		if bv {
			b.node.SetAttribute(b.name, "")
		} else {
			b.node.RemoveAttribute(b.name)
		}
		return nil
	}
	b.node.SetAttribute(b.name, stringify(v))
	return nil
}

func (b *AttrBinding) Activate()   {}
func (b *AttrBinding) Inactivate() {}
