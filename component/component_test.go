package component

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/structive-go/structive/binding"
	"github.com/structive-go/structive/bindcontent"
	"github.com/structive-go/structive/domport"
	"github.com/structive-go/structive/mockdom"
	"github.com/structive-go/structive/stateproxy"
	"github.com/structive-go/structive/structivepath"
)

type counterState struct {
	Label string
	Count int
}

func registerCounterTemplate(id string) {
	bindcontent.Register(&bindcontent.Template{
		ID: id,
		Root: []bindcontent.TemplateNode{
			{
				Kind:    bindcontent.KindElement,
				TagName: "div",
				Children: []bindcontent.TemplateNode{
					{Kind: bindcontent.KindText, Data: ""},
				},
			},
		},
		Binds: []bindcontent.BindSpec{
			{
				PathFromRoot: []int{0, 0},
				New: func(node domport.Node, bc *bindcontent.BindContent) (binding.Binding, error) {
					info := structivepath.MustIntern("label")
					return binding.NewText(node, info, bc), nil
				},
			},
		},
	})
}

func TestConnectedCallbackRunsInitialRender(t *testing.T) {
	registerCounterTemplate("counter-connected")
	doc := mockdom.NewMockDocument()
	state := &counterState{Label: "hello"}

	c, err := New(state, doc, "counter-connected")
	require.NoError(t, err)

	root := mockdom.NewMockElement("div")
	placeholder := mockdom.NewMockComment("")
	root.AppendChild(placeholder)

	require.NoError(t, c.ConnectedCallback(root, placeholder, ""))

	kids := root.Children()
	require.Len(t, kids, 2, "expected placeholder + mounted root")
	require.Equal(t, "hello", kids[1].Children()[0].TextContent())
}

func TestSetPropertyValueTriggersRerender(t *testing.T) {
	registerCounterTemplate("counter-set")
	doc := mockdom.NewMockDocument()
	state := &counterState{Label: "initial"}

	c, err := New(state, doc, "counter-set")
	require.NoError(t, err)

	root := mockdom.NewMockElement("div")
	placeholder := mockdom.NewMockComment("")
	root.AppendChild(placeholder)
	require.NoError(t, c.ConnectedCallback(root, placeholder, ""))

	require.NoError(t, c.SetPropertyValue("label", nil, "updated"))

	mounted := root.Children()[1]
	require.Equal(t, "updated", mounted.Children()[0].TextContent())
	require.Equal(t, "updated", state.Label)
}

type fullNameState struct {
	First string
	Last  string

	access stateproxy.StateAccess
}

func (s *fullNameState) SetStateAccess(a stateproxy.StateAccess) { s.access = a }

func (s *fullNameState) Full() string {
	first, _ := s.access.Get("first")
	last, _ := s.access.Get("last")
	return first.(string) + " " + last.(string)
}

// A getter's proxied reads record dynamic edges during the initial render,
// so a later write to a referent re-applies the getter's binding even
// though no static first->full edge exists.
func TestGetterDynamicDependencyDrivesRerender(t *testing.T) {
	bindcontent.Register(&bindcontent.Template{
		ID: "full-name",
		Root: []bindcontent.TemplateNode{
			{
				Kind:    bindcontent.KindElement,
				TagName: "span",
				Children: []bindcontent.TemplateNode{
					{Kind: bindcontent.KindText},
				},
			},
		},
		Binds: []bindcontent.BindSpec{
			{
				PathFromRoot: []int{0, 0},
				New: func(node domport.Node, bc *bindcontent.BindContent) (binding.Binding, error) {
					return binding.NewText(node, structivepath.MustIntern("full"), bc), nil
				},
			},
		},
	})

	doc := mockdom.NewMockDocument()
	state := &fullNameState{First: "A", Last: "B"}
	c, err := New(state, doc, "full-name")
	require.NoError(t, err)

	root := mockdom.NewMockElement("div")
	placeholder := mockdom.NewMockComment("")
	root.AppendChild(placeholder)
	require.NoError(t, c.ConnectedCallback(root, placeholder, ""))

	span := root.Children()[1]
	require.Equal(t, "A B", span.Children()[0].TextContent())

	require.NoError(t, c.SetPropertyValue("first", nil, "C"))
	require.Equal(t, "C B", span.Children()[0].TextContent())
}

func TestDisconnectedCallbackUnmountsAndRemovesPlaceholder(t *testing.T) {
	registerCounterTemplate("counter-disconnect")
	doc := mockdom.NewMockDocument()
	state := &counterState{Label: "x"}

	c, err := New(state, doc, "counter-disconnect")
	require.NoError(t, err)

	root := mockdom.NewMockElement("div")
	placeholder := mockdom.NewMockComment("")
	root.AppendChild(placeholder)
	require.NoError(t, c.ConnectedCallback(root, placeholder, ""))

	c.DisconnectedCallback()

	require.Empty(t, root.Children(), "expected DisconnectedCallback to remove both placeholder and root content")
}
