package condbind_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/structive-go/structive/bindcontent"
	"github.com/structive-go/structive/binding"
	"github.com/structive-go/structive/binding/condbind"
	"github.com/structive-go/structive/domport"
	"github.com/structive-go/structive/mockdom"
	"github.com/structive-go/structive/pathmanager"
	"github.com/structive-go/structive/stateproxy"
	"github.com/structive-go/structive/stateref"
	"github.com/structive-go/structive/structivepath"
	"github.com/structive-go/structive/update"
)

type condState struct {
	Visible bool
	Label   string
}

func newProxy(t *testing.T, state *condState) *stateproxy.Proxy {
	t.Helper()
	m, err := pathmanager.New(reflect.TypeOf(*state))
	require.NoError(t, err)
	u := update.New(m, func(batch []*stateref.Ref) {})
	p, err := stateproxy.NewReadOnly(state, m, u)
	require.NoError(t, err)
	return p
}

func registerCondTemplate(id string) {
	bindcontent.Register(&bindcontent.Template{
		ID: id,
		Root: []bindcontent.TemplateNode{
			{Kind: bindcontent.KindText, Data: ""},
		},
		Binds: []bindcontent.BindSpec{
			{
				PathFromRoot: []int{0},
				New: func(node domport.Node, bc *bindcontent.BindContent) (binding.Binding, error) {
					info := structivepath.MustIntern("label")
					return binding.NewText(node, info, bc), nil
				},
			},
		},
	})
}

func TestApplyChangeMountsContentWhenTrue(t *testing.T) {
	registerCondTemplate("cond-mount")
	doc := mockdom.NewMockDocument()
	parent := mockdom.NewMockElement("div")
	anchor := mockdom.NewMockComment("")
	parent.AppendChild(anchor)

	state := &condState{Visible: true, Label: "shown"}
	proxy := newProxy(t, state)

	b, err := condbind.New("visible", parent, anchor, doc, "cond-mount", nil)
	require.NoError(t, err)

	require.NoError(t, b.ApplyChange(proxy))

	require.Len(t, parent.Children(), 2)
	require.Equal(t, "shown", parent.Children()[1].TextContent())
	require.Len(t, b.BindContents(), 1)
}

func TestApplyChangeUnmountsContentWhenFalse(t *testing.T) {
	registerCondTemplate("cond-unmount")
	doc := mockdom.NewMockDocument()
	parent := mockdom.NewMockElement("div")
	anchor := mockdom.NewMockComment("")
	parent.AppendChild(anchor)

	state := &condState{Visible: true, Label: "shown"}
	proxy := newProxy(t, state)
	b, err := condbind.New("visible", parent, anchor, doc, "cond-unmount", nil)
	require.NoError(t, err)
	require.NoError(t, b.ApplyChange(proxy))

	state.Visible = false
	require.NoError(t, b.ApplyChange(proxy))

	require.Len(t, parent.Children(), 1) // anchor only
	require.Empty(t, b.BindContents())
}

func TestApplyChangeRejectsNonBoolValue(t *testing.T) {
	doc := mockdom.NewMockDocument()
	parent := mockdom.NewMockElement("div")
	anchor := mockdom.NewMockComment("")
	parent.AppendChild(anchor)

	state := &condState{Label: "x"}
	proxy := newProxy(t, state)
	b, err := condbind.New("label", parent, anchor, doc, "cond-unused", nil)
	require.NoError(t, err)

	err = b.ApplyChange(proxy)
	require.Error(t, err)
}
