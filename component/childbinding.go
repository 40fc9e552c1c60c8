package component

import (
	"github.com/structive-go/structive/binding"
	"github.com/structive-go/structive/binding/childbind"
	"github.com/structive-go/structive/bindcontent"
	"github.com/structive-go/structive/domport"
	"github.com/structive-go/structive/stateproxy"
)

// childBinding adapts a childbind.Binding so the nested child component's
// own ConnectedCallback/DisconnectedCallback run alongside the usual
// parent-ref forwarding: the embedded Binding only knows
// how to forward refs and register/unregister against the parent, it has
// no notion of mounting a *Component into the real DOM.
type childBinding struct {
	*childbind.Binding
	node      domport.Node
	child     *Component
	connected bool
}

// ApplyChange connects the child component the first time its anchor node
// has a parent in the tree (i.e. once the enclosing BindContent has
// actually been mounted), then forwards the parent ref as usual.
func (cb *childBinding) ApplyChange(proxy *stateproxy.Proxy) error {
	if !cb.connected {
		if parent := cb.node.ParentNode(); parent != nil {
			if err := cb.child.ConnectedCallback(parent, cb.node, ""); err != nil {
				return err
			}
			cb.connected = true
		}
	}
	return cb.Binding.ApplyChange(proxy)
}

// Inactivate disconnects the child component in addition to unregistering
// it from the parent.
func (cb *childBinding) Inactivate() {
	cb.Binding.Inactivate()
	if cb.connected {
		cb.child.DisconnectedCallback()
		cb.connected = false
	}
}

// NewChildBindFactory returns a bindcontent.BindFactory that, at the
// template's declared child-component bind site, constructs a nested
// child component from newChildState and childTemplateID and wires a
// Child-Component Binding connecting it to parent. This
// is the construction path a component's template uses to mount a
// `state.<sub>` child; nothing else in the engine builds a
// childbind.Binding.
func NewChildBindFactory(parent *Component, path string, childTemplateID string, newChildState func() any) bindcontent.BindFactory {
	return func(node domport.Node, bc *bindcontent.BindContent) (binding.Binding, error) {
		child, err := New(newChildState(), parent.doc, childTemplateID)
		if err != nil {
			return nil, err
		}
		child.parent = parent
		b, err := childbind.New(path, parent, child, bc)
		if err != nil {
			return nil, err
		}
		return &childBinding{Binding: b, node: node, child: child}, nil
	}
}
