package stateproxy_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/structive-go/structive/pathmanager"
	"github.com/structive-go/structive/stateproxy"
	"github.com/structive-go/structive/stateref"
	"github.com/structive-go/structive/structivepath"
)

type todoItem struct {
	Name string
	Done bool
}

type todoState struct {
	Title string
	Items []todoItem
}

func (s *todoState) Count() int     { return len(s.Items) }
func (s *todoState) SetCount(n int) {}

func newTodoProxy(t *testing.T, state *todoState) (*stateproxy.Proxy, *fakeUpdater) {
	t.Helper()
	m, err := pathmanager.New(reflect.TypeOf(todoState{}))
	require.NoError(t, err)
	require.NoError(t, m.SynthesizeAccessors())
	u := newFakeUpdater()
	p, err := stateproxy.NewWritable(state, m, u)
	require.NoError(t, err)
	return p, u
}

func ref(t *testing.T, path string) *stateref.Ref {
	t.Helper()
	info := structivepath.MustIntern(path)
	r, err := stateref.Get(info, nil)
	require.NoError(t, err)
	return r
}

func TestGetByRefPlainField(t *testing.T) {
	p, _ := newTodoProxy(t, &todoState{Title: "hello"})
	v, err := p.GetByRef(ref(t, "title"))
	require.NoError(t, err)
	require.Equal(t, "hello", v)
}

func TestSetByRefThenGetByRefSeesNewValue(t *testing.T) {
	p, u := newTodoProxy(t, &todoState{Title: "a"})
	r := ref(t, "title")
	require.NoError(t, p.SetByRef(r, "b"))
	require.Len(t, u.enqueued, 1)

	v, err := p.GetByRef(r)
	require.NoError(t, err)
	require.Equal(t, "b", v)
}

func TestGetByRefGetterMethod(t *testing.T) {
	p, _ := newTodoProxy(t, &todoState{Items: []todoItem{{Name: "x"}, {Name: "y"}}})
	v, err := p.GetByRef(ref(t, "count"))
	require.NoError(t, err)
	require.Equal(t, 2, v)
}

func TestReadOnlyProxyRejectsWrite(t *testing.T) {
	m, err := pathmanager.New(reflect.TypeOf(todoState{}))
	require.NoError(t, err)
	u := newFakeUpdater()
	p, err := stateproxy.NewReadOnly(&todoState{Title: "x"}, m, u)
	require.NoError(t, err)

	err = p.SetByRef(ref(t, "title"), "y")
	require.Error(t, err)
}

func TestResolveAndGetAll(t *testing.T) {
	p, _ := newTodoProxy(t, &todoState{Items: []todoItem{{Name: "a"}, {Name: "b"}}})
	values, err := p.GetAll("items.*.name", nil)
	require.NoError(t, err)
	require.Equal(t, []any{"a", "b"}, values)
}

func TestResolveSetsValue(t *testing.T) {
	p, u := newTodoProxy(t, &todoState{Title: "a"})
	_, err := p.Resolve("title", nil, "z")
	require.NoError(t, err)
	require.Len(t, u.enqueued, 1)

	v, err := p.GetByRef(ref(t, "title"))
	require.NoError(t, err)
	require.Equal(t, "z", v)
}
