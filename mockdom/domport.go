//go:build !js || !wasm

package mockdom

import (
	"sync"

	"github.com/structive-go/structive/domport"
)

// MockNode is an in-memory domport.Node: an element, text, or comment
// node in a plain slice-of-children tree, covering the tree/text/
// attribute operations that interface declares.
type MockNode struct {
	mu sync.RWMutex

	tagName    string // "" for text/comment nodes
	isComment  bool
	text       string
	attributes map[string]string
	children   []*MockNode
	parent     *MockNode
}

// NewMockElement creates an element node with the given tag name.
func NewMockElement(tagName string) *MockNode {
	return &MockNode{tagName: tagName, attributes: map[string]string{}}
}

// NewMockText creates a text node.
func NewMockText(data string) *MockNode {
	return &MockNode{text: data}
}

// NewMockComment creates a comment node.
func NewMockComment(data string) *MockNode {
	return &MockNode{text: data, isComment: true}
}

func (n *MockNode) TagName() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.tagName
}

func (n *MockNode) TextContent() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.text
}

func (n *MockNode) SetTextContent(text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.text = text
	if n.tagName != "" {
		// clearing an element's text content drops its element children,
		// matching real DOM textContent= semantics.
		for _, c := range n.children {
			c.parent = nil
		}
		n.children = nil
	}
}

func (n *MockNode) GetAttribute(name string) string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.attributes[name]
}

func (n *MockNode) SetAttribute(name, value string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.attributes == nil {
		n.attributes = map[string]string{}
	}
	n.attributes[name] = value
}

func (n *MockNode) RemoveAttribute(name string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.attributes, name)
}

func (n *MockNode) ParentNode() domport.Node {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *MockNode) NextSibling() domport.Node {
	n.mu.RLock()
	parent := n.parent
	n.mu.RUnlock()
	if parent == nil {
		return nil
	}
	parent.mu.RLock()
	defer parent.mu.RUnlock()
	for i, c := range parent.children {
		if c == n {
			if i+1 < len(parent.children) {
				return parent.children[i+1]
			}
			return nil
		}
	}
	return nil
}

func (n *MockNode) AppendChild(child domport.Node) {
	mc := child.(*MockNode)
	mc.detach()
	n.mu.Lock()
	defer n.mu.Unlock()
	mc.parent = n
	n.children = append(n.children, mc)
}

func (n *MockNode) InsertBefore(child domport.Node, before domport.Node) {
	mc := child.(*MockNode)
	mc.detach()
	n.mu.Lock()
	defer n.mu.Unlock()
	mc.parent = n
	if before == nil {
		n.children = append(n.children, mc)
		return
	}
	mb := before.(*MockNode)
	idx := len(n.children)
	for i, c := range n.children {
		if c == mb {
			idx = i
			break
		}
	}
	n.children = append(n.children, nil)
	copy(n.children[idx+1:], n.children[idx:])
	n.children[idx] = mc
}

func (n *MockNode) RemoveChild(child domport.Node) {
	mc := child.(*MockNode)
	n.mu.Lock()
	defer n.mu.Unlock()
	for i, c := range n.children {
		if c == mc {
			n.children = append(n.children[:i], n.children[i+1:]...)
			mc.parent = nil
			return
		}
	}
}

func (n *MockNode) Remove() {
	n.detach()
}

func (n *MockNode) detach() {
	n.mu.RLock()
	parent := n.parent
	n.mu.RUnlock()
	if parent != nil {
		parent.RemoveChild(n)
	}
}

// Children returns a snapshot of n's current children, for test assertions.
func (n *MockNode) Children() []*MockNode {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]*MockNode, len(n.children))
	copy(out, n.children)
	return out
}

// MockDocument is an in-memory domport.Document.
type MockDocument struct{}

// NewMockDocument returns a fresh document node factory.
func NewMockDocument() *MockDocument { return &MockDocument{} }

func (d *MockDocument) CreateComment(data string) domport.Node  { return NewMockComment(data) }
func (d *MockDocument) CreateTextNode(data string) domport.Node { return NewMockText(data) }
func (d *MockDocument) CreateElement(tagName string) domport.Node {
	return NewMockElement(tagName)
}
