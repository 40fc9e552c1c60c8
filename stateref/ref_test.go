package stateref_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/structive-go/structive/listindex"
	"github.com/structive-go/structive/stateref"
	"github.com/structive-go/structive/structivepath"
	"github.com/structive-go/structive/xerrors"
)

func TestGetIsInterned(t *testing.T) {
	info := structivepath.MustIntern("stateref_test.count")
	a, err := stateref.Get(info, nil)
	require.NoError(t, err)
	b, err := stateref.Get(info, nil)
	require.NoError(t, err)
	require.Same(t, a, b)
}

func TestGetInternedPerListIndex(t *testing.T) {
	info := structivepath.MustIntern("stateref_test.items.*")
	li := listindex.New(nil, 0)
	a, err := stateref.Get(info, li)
	require.NoError(t, err)
	b, err := stateref.Get(info, li)
	require.NoError(t, err)
	require.Same(t, a, b)

	li2 := listindex.New(nil, 1)
	c, err := stateref.Get(info, li2)
	require.NoError(t, err)
	require.NotSame(t, a, c)
}

func TestGetWildcardRequiresListIndex(t *testing.T) {
	info := structivepath.MustIntern("stateref_test.wild.*")
	_, err := stateref.Get(info, nil)
	require.Error(t, err)
	require.True(t, xerrors.IsCode(err, xerrors.LIST201))
}

func TestParentStripsOneListIndexLevel(t *testing.T) {
	itemsWildcard := structivepath.MustIntern("stateref_test.parentstrip.*")
	nameUnderWildcard := structivepath.MustIntern("stateref_test.parentstrip.*.name")

	root := listindex.New(nil, 2)
	nameRef, err := stateref.Get(nameUnderWildcard, root)
	require.NoError(t, err)

	parent, err := nameRef.Parent()
	require.NoError(t, err)
	require.Equal(t, itemsWildcard, parent.Info())
	require.Same(t, root, parent.ListIndex())
}

func TestParentOfRootHasNoParent(t *testing.T) {
	info := structivepath.MustIntern("stateref_test_onlyroot")
	r, err := stateref.Get(info, nil)
	require.NoError(t, err)
	parent, err := r.Parent()
	require.NoError(t, err)
	require.Nil(t, parent)
}
