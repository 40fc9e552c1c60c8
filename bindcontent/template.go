// Package bindcontent implements BindContent: a
// materialised instance of a registered template, its constructed DOM
// nodes, and the Bindings compiled against it.
//
// There is no markup-parsing stage; a Template here is a plain Go
// struct a component registers directly, a node tree built in Go rather
// than parsed from a string.
package bindcontent

import (
	"strconv"
	"strings"

	"github.com/structive-go/structive/binding"
	"github.com/structive-go/structive/domport"
	"github.com/structive-go/structive/xerrors"
)

// NodeKind distinguishes the three DOM node kinds a template may declare.
type NodeKind int

const (
	KindElement NodeKind = iota
	KindText
	KindComment
)

// TemplateNode describes one node of a template's static tree.
type TemplateNode struct {
	Kind     NodeKind
	TagName  string // KindElement only
	Data     string // literal text/comment data; bindings override it live
	Attrs    map[string]string
	Children []TemplateNode
}

// BindFactory constructs the Binding attached to node, the already-built
// domport.Node at a BindSpec's PathFromRoot.
type BindFactory func(node domport.Node, bc *BindContent) (binding.Binding, error)

// BindSpec is one compiled data-bind site: a node type + the path from
// the template root to it, paired with the factory that
// builds its Binding.
type BindSpec struct {
	PathFromRoot []int
	New          BindFactory
}

// Template is a pre-registered template: its static node tree plus every
// compiled bind site.
type Template struct {
	ID    string
	Root  []TemplateNode
	Binds []BindSpec
}

var registry = map[string]*Template{}

// Register adds t to the template registry, keyed by t.ID.
func Register(t *Template) { registry[t.ID] = t }

// Lookup returns the registered template for id, or BIND-101 if none.
func Lookup(id string) (*Template, error) {
	t, ok := registry[id]
	if !ok {
		return nil, xerrors.New(xerrors.BIND101, "template not found").With("templateID", id)
	}
	return t, nil
}

func pathKey(path []int) string {
	segs := make([]string, len(path))
	for i, p := range path {
		segs[i] = strconv.Itoa(p)
	}
	return strings.Join(segs, ".")
}

// buildTree constructs tn's node (and its descendants, for KindElement)
// via doc's factories, recording every constructed node's path-from-root
// key in out so BindSpec.PathFromRoot can be resolved after the fact.
func buildTree(doc domport.Document, tn TemplateNode, path []int, out map[string]domport.Node) domport.Node {
	var n domport.Node
	switch tn.Kind {
	case KindText:
		n = doc.CreateTextNode(tn.Data)
	case KindComment:
		n = doc.CreateComment(tn.Data)
	default:
		el := doc.CreateElement(tn.TagName)
		for name, value := range tn.Attrs {
			el.SetAttribute(name, value)
		}
		n = el
	}
	out[pathKey(path)] = n

	if tn.Kind == KindElement {
		for i, c := range tn.Children {
			childPath := append(append([]int{}, path...), i)
			child := buildTree(doc, c, childPath, out)
			n.AppendChild(child)
		}
	}
	return n
}
