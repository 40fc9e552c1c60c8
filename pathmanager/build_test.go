package pathmanager_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/structive-go/structive/pathmanager"
)

type todoItem struct {
	Name string
	Done bool
}

type todoState struct {
	Title        string
	Items        []todoItem
	internalNote string //nolint:unused // exported-only classification check
}

func (s *todoState) Count() int          { return len(s.Items) }
func (s *todoState) SetCount(n int)      {}
func (s *todoState) DoneCount() int      { return 0 }
func (s *todoState) SetScore(n int)      {}
func (s *todoState) AddItem(name string) { s.Items = append(s.Items, todoItem{Name: name}) }
func (s *todoState) ConnectedCallback()  {}

func TestNewWalksStructFields(t *testing.T) {
	m, err := pathmanager.New(reflect.TypeOf(todoState{}))
	require.NoError(t, err)

	require.Contains(t, m.Alls, "title")
	require.Contains(t, m.Alls, "items")
	require.Contains(t, m.Alls, "items.*")
	require.Contains(t, m.Alls, "items.*.name")
	require.Contains(t, m.Alls, "items.*.done")

	require.True(t, m.IsList("items"))
	require.True(t, m.IsElement("items.*"))
	require.False(t, m.IsList("title"))
}

func TestNewClassifiesGettersAndSetters(t *testing.T) {
	m, err := pathmanager.New(reflect.TypeOf(todoState{}))
	require.NoError(t, err)

	require.True(t, m.IsGetter("count"))
	require.Contains(t, m.GetterSetters, "count")
	require.False(t, m.IsOnlyGetter("count"))

	require.True(t, m.IsGetter("doneCount"))
	require.True(t, m.IsOnlyGetter("doneCount"))

	require.Equal(t, "Count", m.GetterMethodName["count"])
	require.Equal(t, "SetCount", m.SetterMethodName["count"])

	require.Contains(t, m.Funcs, "AddItem")
	require.True(t, m.HasConnectedCallback)
	require.False(t, m.HasDisconnectedCallback)
}

func TestNewRecordsStaticDependencies(t *testing.T) {
	m, err := pathmanager.New(reflect.TypeOf(todoState{}))
	require.NoError(t, err)

	require.Contains(t, m.StaticDependencies["items"], "items.*")
	require.Contains(t, m.StaticDependencies["items.*"], "items.*.name")
}

func TestUnexportedFieldSkipped(t *testing.T) {
	m, err := pathmanager.New(reflect.TypeOf(todoState{}))
	require.NoError(t, err)
	require.NotContains(t, m.Alls, "internalNote")
}

func TestSetterOnlyMethodRegistersWritablePath(t *testing.T) {
	m, err := pathmanager.New(reflect.TypeOf(todoState{}))
	require.NoError(t, err)

	require.Contains(t, m.Alls, "score")
	require.Contains(t, m.Setters, "score")
	require.Equal(t, "SetScore", m.SetterMethodName["score"])
	require.False(t, m.IsGetter("score"))
}

func TestAddPathAndDynamicDependency(t *testing.T) {
	m, err := pathmanager.New(reflect.TypeOf(todoState{}))
	require.NoError(t, err)

	require.NoError(t, m.AddPath("computedTotal", false))
	require.Contains(t, m.Alls, "computedTotal")

	m.AddDynamicDependency("doneCount", "items.*.done")
	require.Contains(t, m.DynamicDependencies["doneCount"], "items.*.done")

	m.AddDynamicDependency("doneCount", "doneCount")
	require.NotContains(t, m.DynamicDependencies["doneCount"], "doneCount")
}

type taggedState struct {
	DisplayName string `structive:"name"`
	Hidden      string `structive:"-"`
}

func TestStructTagOverridesSegment(t *testing.T) {
	m, err := pathmanager.New(reflect.TypeOf(taggedState{}))
	require.NoError(t, err)
	require.Contains(t, m.Alls, "name")
	require.NotContains(t, m.Alls, "displayName")
	require.NotContains(t, m.Alls, "hidden")
}
