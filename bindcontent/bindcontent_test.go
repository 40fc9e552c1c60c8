package bindcontent_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/structive-go/structive/bindcontent"
	"github.com/structive-go/structive/binding"
	"github.com/structive-go/structive/domport"
	"github.com/structive-go/structive/listindex"
	"github.com/structive-go/structive/mockdom"
	"github.com/structive-go/structive/pathmanager"
	"github.com/structive-go/structive/stateproxy"
	"github.com/structive-go/structive/stateref"
	"github.com/structive-go/structive/structivepath"
	"github.com/structive-go/structive/update"
)

type greetState struct {
	Name string
}

func registerGreetTemplate(id string) {
	bindcontent.Register(&bindcontent.Template{
		ID: id,
		Root: []bindcontent.TemplateNode{
			{
				Kind:    bindcontent.KindElement,
				TagName: "span",
				Attrs:   map[string]string{"class": "greeting"},
				Children: []bindcontent.TemplateNode{
					{Kind: bindcontent.KindText, Data: ""},
				},
			},
		},
		Binds: []bindcontent.BindSpec{
			{
				PathFromRoot: []int{0, 0},
				New: func(node domport.Node, bc *bindcontent.BindContent) (binding.Binding, error) {
					info := structivepath.MustIntern("name")
					return binding.NewText(node, info, bc), nil
				},
			},
		},
	})
}

func TestNewBuildsNodeTreeAndCompilesBindings(t *testing.T) {
	registerGreetTemplate("greet-new")
	doc := mockdom.NewMockDocument()

	bc, err := bindcontent.New(doc, "greet-new")
	require.NoError(t, err)

	require.Len(t, bc.Bindings(), 1)
}

func TestLookupMissingTemplateFails(t *testing.T) {
	doc := mockdom.NewMockDocument()
	_, err := bindcontent.New(doc, "does-not-exist")
	require.Error(t, err)
}

func TestMountAndUnmountToggleNodePresence(t *testing.T) {
	registerGreetTemplate("greet-mount")
	doc := mockdom.NewMockDocument()
	bc, err := bindcontent.New(doc, "greet-mount")
	require.NoError(t, err)

	parent := mockdom.NewMockElement("div")
	bc.Mount(parent)
	require.Len(t, parent.Children(), 1)

	bc.Unmount()
	require.Empty(t, parent.Children())

	// Unmount is idempotent.
	bc.Unmount()
	require.Empty(t, parent.Children())
}

func TestApplyChangeWritesBoundValue(t *testing.T) {
	registerGreetTemplate("greet-apply")
	doc := mockdom.NewMockDocument()
	bc, err := bindcontent.New(doc, "greet-apply")
	require.NoError(t, err)

	parent := mockdom.NewMockElement("div")
	bc.Mount(parent)

	state := &greetState{Name: "ada"}
	m, err := pathmanager.New(reflect.TypeOf(*state))
	require.NoError(t, err)
	u := update.New(m, func(batch []*stateref.Ref) {})
	proxy, err := stateproxy.NewReadOnly(state, m, u)
	require.NoError(t, err)

	require.NoError(t, bc.ApplyChange(proxy, map[binding.Binding]bool{}))

	span := parent.Children()[0]
	require.Equal(t, "ada", span.Children()[0].TextContent())
}

func TestActivateInactivatePropagateAndClearListIndex(t *testing.T) {
	registerGreetTemplate("greet-activate")
	doc := mockdom.NewMockDocument()
	bc, err := bindcontent.New(doc, "greet-activate")
	require.NoError(t, err)

	bc.AssignListIndex(listindex.New(nil, 0))
	require.NotNil(t, bc.ListIndex())
	bc.Activate()
	bc.Inactivate()

	require.Nil(t, bc.ListIndex())
}
