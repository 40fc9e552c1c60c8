// Package component implements the Component Engine: the
// per-instance wiring of a state struct, its Path Manager, its root
// BindContent, and the Updater that drives re-renders.
//
package component

import (
	"encoding/json"
	"reflect"

	"github.com/structive-go/structive/binding"
	"github.com/structive-go/structive/binding/childbind"
	"github.com/structive-go/structive/binding/condbind"
	"github.com/structive-go/structive/binding/loopbind"
	"github.com/structive-go/structive/bindcontent"
	"github.com/structive-go/structive/domport"
	"github.com/structive-go/structive/listindex"
	"github.com/structive-go/structive/logutil"
	"github.com/structive-go/structive/pathmanager"
	"github.com/structive-go/structive/render"
	"github.com/structive-go/structive/stateproxy"
	"github.com/structive-go/structive/stateref"
	"github.com/structive-go/structive/structivepath"
	"github.com/structive-go/structive/update"
)

// Component is one Structive component instance: a state struct plus the
// Path Manager, BindContent tree, and Updater driving it.
type Component struct {
	state      any
	manager    *pathmanager.Manager
	doc        domport.Document
	templateID string

	root *bindcontent.BindContent
	up   *update.Updater

	placeholder domport.Node
	mounted     bool
	replaceHost bool

	parent    childbind.ParentComponent
	parentRef *stateref.Ref
	children  map[childbind.ChildComponent]bool
}

// New runs Component Engine `setup()`: builds the Path Manager for
// state's type and constructs the root BindContent from templateID.
func New(state any, doc domport.Document, templateID string) (*Component, error) {
	t := reflect.TypeOf(state)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	manager, err := pathmanager.New(t)
	if err != nil {
		return nil, err
	}

	c := &Component{
		state:      state,
		manager:    manager,
		doc:        doc,
		templateID: templateID,
		children:   map[childbind.ChildComponent]bool{},
	}

	root, err := bindcontent.New(doc, templateID)
	if err != nil {
		return nil, err
	}
	c.root = root

	c.up = update.New(manager, func(batch []*stateref.Ref) { c.renderBatch(batch) })
	if manager.HasUpdatedCallback {
		c.up.SetUpdatedCallback(func(paths []string, indexesByPath map[string][]int) {
			if cb, ok := c.state.(pathmanager.UpdatedCallback); ok {
				cb.UpdatedCallback(paths, indexesByPath)
			}
		})
	}

	return c, nil
}

// State returns the underlying state struct pointer.
func (c *Component) State() any { return c.state }

// ConnectedCallback mounts the component after placeholder, optionally
// assigns dataStateJSON onto the state, runs the initial render, and
// invokes the state's ConnectedCallback if any.
func (c *Component) ConnectedCallback(parent domport.Node, placeholder domport.Node, dataStateJSON string) error {
	c.placeholder = placeholder

	if dataStateJSON != "" {
		if err := json.Unmarshal([]byte(dataStateJSON), c.state); err != nil {
			return err
		}
	}

	c.root.Activate()
	c.root.MountAfter(parent, placeholder)
	c.mounted = true

	c.up.InitialRender()
	logutil.Logf("component %s connected\n", c.templateID)

	if cb, ok := c.state.(pathmanager.ConnectedCallback); ok {
		cb.ConnectedCallback()
	}
	return nil
}

// DisconnectedCallback runs the state's DisconnectedCallback, unregisters
// from the parent, removes the placeholder, and inactivates the
// BindContent.
func (c *Component) DisconnectedCallback() {
	if cb, ok := c.state.(pathmanager.DisconnectedCallback); ok {
		cb.DisconnectedCallback()
	}
	if c.parent != nil {
		c.parent.UnregisterChildComponent(c)
	}
	if c.placeholder != nil {
		c.placeholder.Remove()
	}
	c.root.Unmount()
	c.root.Inactivate()
	c.mounted = false
	logutil.Logf("component %s disconnected\n", c.templateID)
}

// GetPropertyValue bridges an external caller through a fresh read-only
// Updater session.
func (c *Component) GetPropertyValue(path string, indexes []int) (any, error) {
	proxy, err := stateproxy.NewReadOnly(c.state, c.manager, c.up)
	if err != nil {
		return nil, err
	}
	ref, err := proxy.Resolve(path, indexes)
	if err != nil {
		return nil, err
	}
	return proxy.GetByRef(ref)
}

// SetPropertyValue bridges an external caller through a fresh writable
// Updater session.
func (c *Component) SetPropertyValue(path string, indexes []int, value any) error {
	return c.up.Update(c.state, nil, func(proxy *stateproxy.Proxy) error {
		_, err := proxy.Resolve(path, indexes, value)
		return err
	})
}

// GetListIndexes bridges an external caller to read a list path's
// current list indexes as plain int slices.
func (c *Component) GetListIndexes(path string, indexes []int) ([][]int, error) {
	proxy, err := stateproxy.NewReadOnly(c.state, c.manager, c.up)
	if err != nil {
		return nil, err
	}
	info, err := structivepath.Intern(path)
	if err != nil {
		return nil, err
	}
	var li *listindex.ListIndex
	for _, idx := range indexes {
		li = listindex.New(li, idx)
	}
	ref, err := stateref.Get(info, li)
	if err != nil {
		return nil, err
	}
	lis, err := proxy.ListIndexesByRef(ref)
	if err != nil {
		return nil, err
	}
	out := make([][]int, len(lis))
	for i, l := range lis {
		out[i] = l.Indexes()
	}
	return out, nil
}

// RegisterChildComponent / UnregisterChildComponent implement
// childbind.ParentComponent, so a Child-Component Binding mounted inside
// this component's own BindContent tree can register against it.
func (c *Component) RegisterChildComponent(child childbind.ChildComponent) {
	c.children[child] = true
}

func (c *Component) UnregisterChildComponent(child childbind.ChildComponent) {
	delete(c.children, child)
}

// SetParentRef implements childbind.ChildComponent: stores the parent's
// forwarded ref so future bridging calls (GetPropertyValue etc.) could be
// extended to resolve through it.
func (c *Component) SetParentRef(ref *stateref.Ref) { c.parentRef = ref }

// NotifyRedraw implements childbind.ChildComponent. refs has already been
// filtered down to the paths this child's Child-Component Binding cares
// about (childbind.Binding.FilterRedraw); the child's own Path Manager has
// no correspondence to the parent's paths, so the only available response
// is a full re-render rather than a targeted batch.
func (c *Component) NotifyRedraw(refs []*stateref.Ref) {
	if !c.mounted || len(refs) == 0 {
		return
	}
	c.renderBatch(nil)
}

func (c *Component) renderBatch(batch []*stateref.Ref) {
	proxy, err := stateproxy.NewReadOnly(c.state, c.manager, c.up)
	if err != nil {
		return
	}
	if batch == nil {
		// initial render: apply every binding unconditionally.
		_ = applyAll(c.root, proxy)
		return
	}
	reg := &registry{root: c.root}
	r := render.New(c.manager, reg, proxy)
	_ = r.Render(batch)
}

// applyAll walks the live BindContent tree unconditionally, used only for
// the very first render where every path is "dirty".
func applyAll(content *bindcontent.BindContent, proxy *stateproxy.Proxy) error {
	updated := map[binding.Binding]bool{}
	if err := content.ApplyChange(proxy, updated); err != nil {
		return err
	}
	for _, b := range content.Bindings() {
		switch t := b.(type) {
		case *loopbind.Binding:
			for _, child := range t.Contents() {
				if err := applyAll(child, proxy); err != nil {
					return err
				}
			}
		case *condbind.Binding:
			for _, child := range t.BindContents() {
				if err := applyAll(child, proxy); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
