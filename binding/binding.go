// Package binding defines the Binding contract every compiled data-bind
// site implements: loop, conditional, and child-component bindings (in
// their own sub-packages) plus the plain text/attribute bindings
// BindContent constructs directly. A DOM capability is a small interface
// the concrete binding implements, not a struct hierarchy.
package binding

import (
	"github.com/structive-go/structive/stateproxy"
	"github.com/structive-go/structive/stateref"
)

// Binding is one compiled data-bind site: a DOM node plus the path it
// reads, able to re-evaluate itself against a read-only state proxy.
type Binding interface {
	// Path is the structured path this binding reads.
	Path() string

	// Ref derives this binding's current concrete ref (its Path plus its
	// owning content's list-index chain), used by a binding registry to
	// key a binding by the same ref the Renderer batches writes under.
	Ref() (*stateref.Ref, error)

	// ApplyChange re-reads Path through proxy and updates the bound DOM
	// node accordingly.
	ApplyChange(proxy *stateproxy.Proxy) error

	// Activate/Inactivate propagate mount/unmount state to whatever the
	// binding owns (a child BindContent, a registered child component).
	Activate()
	Inactivate()
}
