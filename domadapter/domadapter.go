//go:build js && wasm

// Package domadapter implements domport.Node/domport.Document over a real
// browser DOM via honnef.co/go/js/dom/v2.
package domadapter

import (
	"honnef.co/go/js/dom/v2"

	"github.com/structive-go/structive/domport"
)

// Node wraps a real dom.Node.
type Node struct {
	raw dom.Node
}

// Wrap adapts an existing honnef dom.Node to domport.Node.
func Wrap(raw dom.Node) domport.Node { return &Node{raw: raw} }

func (n *Node) NextSibling() domport.Node {
	s := n.raw.NextSibling()
	if s == nil {
		return nil
	}
	return Wrap(s)
}

func (n *Node) ParentNode() domport.Node {
	p := n.raw.ParentNode()
	if p == nil {
		return nil
	}
	return Wrap(p)
}

func (n *Node) AppendChild(child domport.Node) {
	n.raw.AppendChild(child.(*Node).raw)
}

func (n *Node) InsertBefore(child domport.Node, before domport.Node) {
	var b dom.Node
	if before != nil {
		b = before.(*Node).raw
	}
	n.raw.InsertBefore(child.(*Node).raw, b)
}

func (n *Node) RemoveChild(child domport.Node) {
	n.raw.RemoveChild(child.(*Node).raw)
}

func (n *Node) Remove() {
	if el, ok := n.raw.(dom.Element); ok {
		el.Remove()
		return
	}
	if p := n.raw.ParentNode(); p != nil {
		p.RemoveChild(n.raw)
	}
}

func (n *Node) SetTextContent(text string) { n.raw.SetTextContent(text) }
func (n *Node) TextContent() string        { return n.raw.TextContent() }

func (n *Node) SetAttribute(name, value string) {
	if el, ok := n.raw.(dom.Element); ok {
		el.SetAttribute(name, value)
	}
}

func (n *Node) GetAttribute(name string) string {
	if el, ok := n.raw.(dom.Element); ok {
		return el.GetAttribute(name)
	}
	return ""
}

func (n *Node) RemoveAttribute(name string) {
	if el, ok := n.raw.(dom.Element); ok {
		el.RemoveAttribute(name)
	}
}

func (n *Node) TagName() string {
	if el, ok := n.raw.(dom.Element); ok {
		return el.TagName()
	}
	return ""
}

// Document wraps the global browser document.
type Document struct {
	raw dom.Document
}

// New returns a Document backed by the current window's document.
func New() *Document {
	return &Document{raw: dom.GetWindow().Document()}
}

func (d *Document) CreateComment(data string) domport.Node {
	return Wrap(dom.WrapNode(d.raw.Underlying().Call("createComment", data)))
}

func (d *Document) CreateTextNode(data string) domport.Node {
	return Wrap(d.raw.CreateTextNode(data))
}

func (d *Document) CreateElement(tagName string) domport.Node {
	return Wrap(d.raw.CreateElement(tagName))
}
