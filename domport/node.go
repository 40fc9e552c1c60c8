// Package domport defines the narrow DOM surface BindContent and the
// Binding implementations need: node-tree mutation
// plus the handful of content/attribute setters a binding dispatches to.
// It exists so the engine packages (bindcontent, binding, component) never
// import a concrete DOM binding directly -- domadapter wires a real
// browser DOM (honnef.co/go/js/dom/v2) under js&&wasm, mockdom wires an
// in-memory tree for tests and non-browser rendering.
//
// The surface is trimmed to the node-tree/text/attribute operations the
// engine actually calls; event wiring, styling, and querying stay out --
// the engine never queries the DOM by selector, every node it touches is
// one it itself mounted.
package domport

// Node is one node in a DOM-like tree: an element, a text node, or a
// comment node (used as Conditional/Loop Binding anchors).
type Node interface {
	NextSibling() Node
	ParentNode() Node

	AppendChild(child Node)
	InsertBefore(child Node, before Node)
	RemoveChild(child Node)
	Remove()

	SetTextContent(text string)
	TextContent() string

	SetAttribute(name, value string)
	GetAttribute(name string) string
	RemoveAttribute(name string)

	TagName() string
}

// Document constructs the primitive node kinds a template or binding
// needs. BindContent builds a template's node tree by calling these
// factories directly rather than cloning parsed markup -- the mustache/
// HTML preprocessing pipeline that would produce such markup is out of
// scope; a registered Template (bindcontent package)
// describes the tree to build instead.
type Document interface {
	CreateComment(data string) Node
	CreateTextNode(data string) Node
	CreateElement(tagName string) Node
}
