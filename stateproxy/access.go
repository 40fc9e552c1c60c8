package stateproxy

import (
	"github.com/structive-go/structive/listindex"
	"github.com/structive-go/structive/stateref"
	"github.com/structive-go/structive/structivepath"
	"github.com/structive-go/structive/xerrors"
)

// StateAccess is the surface a state getter uses to read sibling state
// through the active proxy session. A read made this way while a getter
// is being evaluated records a dynamic dependency edge, so
// a later write to the referent re-renders the getter's bindings.
//
// Go has no dynamic proxies, so a getter reading its receiver's fields
// directly bypasses tracking; reads that should invalidate go through
// Get/GetAll, or the getter declares the edge itself via TrackDependency.
type StateAccess interface {
	Get(path string) (any, error)
	GetAll(path string, indexes []int) ([]any, error)
	TrackDependency(path string)
}

// AccessReceiver is implemented by state structs that want the session's
// StateAccess injected. The proxy calls SetStateAccess once per session,
// before any getter runs.
type AccessReceiver interface {
	SetStateAccess(StateAccess)
}

// Get implements StateAccess: resolves path against the current loop
// context (for wildcard paths) and reads it via GetByRef, so the read is
// cached and dependency-tracked like any other.
func (p *Proxy) Get(path string) (any, error) {
	info, err := structivepath.Intern(path)
	if err != nil {
		return nil, err
	}
	var li *listindex.ListIndex
	if info.WildcardCount() > 0 {
		cur := p.currentRef()
		if cur == nil || cur.ListIndex() == nil {
			return nil, xerrors.New(xerrors.LIST201, "wildcard path read outside a loop context").
				With("path", path)
		}
		li = cur.ListIndex().At(info.WildcardCount() - 1)
		if li == nil {
			return nil, xerrors.New(xerrors.LIST201, "loop context shallower than path's wildcard depth").
				With("path", path)
		}
	}
	ref, err := stateref.Get(info, li)
	if err != nil {
		return nil, err
	}
	return p.GetByRef(ref)
}

// install hands the session's StateAccess to the state struct if it wants
// one.
func (p *Proxy) install() {
	if ar, ok := p.ptrVal.Interface().(AccessReceiver); ok {
		ar.SetStateAccess(p)
	}
}
