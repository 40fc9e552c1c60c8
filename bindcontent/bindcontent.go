package bindcontent

import (
	"github.com/structive-go/structive/binding"
	"github.com/structive-go/structive/domport"
	"github.com/structive-go/structive/listindex"
	"github.com/structive-go/structive/stateproxy"
	"github.com/structive-go/structive/xerrors"
)

// BindContent is a materialised instance of a registered Template: its
// constructed top-level nodes and the Bindings compiled against it. The
// root ref's
// list index, if any, is carried as the content's Loop Context.
type BindContent struct {
	template *Template
	doc      domport.Document

	nodes    []domport.Node
	bindings []binding.Binding

	li      *listindex.ListIndex
	mounted bool
}

// New builds a BindContent from the registered template id, constructing
// its node tree via doc and a Binding per compiled BindSpec.
func New(doc domport.Document, templateID string) (*BindContent, error) {
	tmpl, err := Lookup(templateID)
	if err != nil {
		return nil, err
	}

	nodesByPath := map[string]domport.Node{}
	top := make([]domport.Node, len(tmpl.Root))
	for i, tn := range tmpl.Root {
		top[i] = buildTree(doc, tn, []int{i}, nodesByPath)
	}

	bc := &BindContent{template: tmpl, doc: doc, nodes: top}
	for _, spec := range tmpl.Binds {
		node, ok := nodesByPath[pathKey(spec.PathFromRoot)]
		if !ok {
			return nil, xerrors.New(xerrors.BIND104, "declared bind node missing").
				With("templateID", templateID)
		}
		b, err := spec.New(node, bc)
		if err != nil {
			return nil, xerrors.New(xerrors.BIND103, "binding construction failed").
				WithCause(err).With("templateID", templateID)
		}
		bc.bindings = append(bc.bindings, b)
	}
	return bc, nil
}

// Bindings returns this content's compiled bindings, in template order.
func (bc *BindContent) Bindings() []binding.Binding { return bc.bindings }

// ListIndex returns the content's current loop context, or nil.
func (bc *BindContent) ListIndex() *listindex.ListIndex { return bc.li }

// AssignListIndex reassigns the content's loop context, so the same
// BindContent can be recycled at a different list position.
func (bc *BindContent) AssignListIndex(li *listindex.ListIndex) { bc.li = li }

// Mount appends this content's nodes to the end of parent's children.
func (bc *BindContent) Mount(parent domport.Node) {
	for _, n := range bc.nodes {
		parent.AppendChild(n)
	}
	bc.mounted = true
}

// MountBefore inserts this content's nodes, in order, immediately before
// the before node (which must already be a child of parent).
func (bc *BindContent) MountBefore(parent domport.Node, before domport.Node) {
	for _, n := range bc.nodes {
		parent.InsertBefore(n, before)
	}
	bc.mounted = true
}

// MountAfter inserts this content's nodes, in order, immediately after
// the after node.
func (bc *BindContent) MountAfter(parent domport.Node, after domport.Node) {
	before := after.NextSibling()
	bc.MountBefore(parent, before)
}

// Unmount detaches every node this content owns. Idempotent.
func (bc *BindContent) Unmount() {
	if !bc.mounted {
		return
	}
	for _, n := range bc.nodes {
		n.Remove()
	}
	bc.mounted = false
}

// LastNode returns the last top-level node this content owns. It does
// not descend into a nested child BindContent, so content mounted by a
// trailing loop or conditional binding is not considered. A content with
// no nodes returns BIND-104.
func (bc *BindContent) LastNode() (domport.Node, error) {
	if len(bc.nodes) == 0 {
		return nil, xerrors.New(xerrors.BIND104, "content has no nodes")
	}
	return bc.nodes[len(bc.nodes)-1], nil
}

// ApplyChange dispatches to every binding not already present in updated
// (keyed by the binding itself), adding each one it runs.
func (bc *BindContent) ApplyChange(proxy *stateproxy.Proxy, updated map[binding.Binding]bool) error {
	for _, b := range bc.bindings {
		if updated[b] {
			continue
		}
		if err := b.ApplyChange(proxy); err != nil {
			return err
		}
		updated[b] = true
	}
	return nil
}

// Activate propagates activation to every binding.
func (bc *BindContent) Activate() {
	for _, b := range bc.bindings {
		b.Activate()
	}
}

// Inactivate propagates inactivation to every binding and clears the
// loop context.
func (bc *BindContent) Inactivate() {
	for _, b := range bc.bindings {
		b.Inactivate()
	}
	bc.li = nil
}
