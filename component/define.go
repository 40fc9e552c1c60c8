package component

import (
	"github.com/structive-go/structive/domport"
	"github.com/structive-go/structive/xerrors"
)

// Options configures a defined component tag.
type Options struct {
	// TemplateID names the registered bindcontent.Template the component
	// renders.
	TemplateID string

	// NewState constructs a fresh state struct pointer per instance.
	NewState func() any

	// ReplaceHost mounts the component's content inside the host node
	// after clearing it.
	// When false (default) the content is mounted as siblings after a
	// placeholder comment inserted into the host, so the host keeps its
	// other children.
	ReplaceHost bool
}

type definition struct {
	tagName string
	opts    Options
}

var definitions = map[string]*definition{}

// Define registers tagName so NewByTag can construct instances of it.
// Re-defining an already-defined tag is COMP-401.
func Define(tagName string, opts Options) error {
	if tagName == "" || opts.TemplateID == "" || opts.NewState == nil {
		return xerrors.New(xerrors.COMP401, "component definition incomplete").
			With("tagName", tagName)
	}
	if _, ok := definitions[tagName]; ok {
		return xerrors.New(xerrors.COMP401, "component tag already defined").
			With("tagName", tagName)
	}
	definitions[tagName] = &definition{tagName: tagName, opts: opts}
	return nil
}

// NewByTag constructs a fresh instance of a defined tag. An undefined tag
// is COMP-402.
func NewByTag(tagName string, doc domport.Document) (*Component, error) {
	def, ok := definitions[tagName]
	if !ok {
		return nil, xerrors.New(xerrors.COMP402, "component tag not defined").
			With("tagName", tagName)
	}
	c, err := New(def.opts.NewState(), doc, def.opts.TemplateID)
	if err != nil {
		return nil, err
	}
	c.replaceHost = def.opts.ReplaceHost
	return c, nil
}

// Mount connects c into host according to its mount mode: a placeholder
// comment is inserted (after clearing host when ReplaceHost is set) and
// ConnectedCallback runs against it. dataStateJSON, when non-empty, is
// assigned onto the state before the initial render.
func (c *Component) Mount(host domport.Node, dataStateJSON string) error {
	if c.replaceHost {
		host.SetTextContent("")
	}
	placeholder := c.doc.CreateComment("structive:" + c.templateID)
	host.AppendChild(placeholder)
	return c.ConnectedCallback(host, placeholder, dataStateJSON)
}
