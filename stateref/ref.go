// Package stateref implements the State Property Ref: a (PathInfo,
// ListIndex|nil) pair, interned, with parent-ref derivation. Every read
// and write in the engine addresses state through a Ref rather than a
// bare path string.
package stateref

import (
	"runtime"
	"sync"
	"weak"

	"github.com/structive-go/structive/listindex"
	"github.com/structive-go/structive/structivepath"
	"github.com/structive-go/structive/xerrors"
)

// Ref identifies one cell of reactive state: a structural path paired with
// (optionally) the list-element identity that resolves its wildcards.
type Ref struct {
	info *structivepath.Info
	li   *listindex.ListIndex
	key  string
}

// Info returns this ref's structured path.
func (r *Ref) Info() *structivepath.Info { return r.info }

// ListIndex returns this ref's list index, or nil for a non-list-element ref.
func (r *Ref) ListIndex() *listindex.ListIndex { return r.li }

// Key returns the interning key: Info.Pattern()+"#"+ListIndex.SID(), or
// just Info.Pattern() when ListIndex is nil.
func (r *Ref) Key() string { return r.key }

// byListIndex interns refs keyed by (ListIndex, path); byNilListIndex
// interns refs with no ListIndex, keyed by path. Both key and value are
// held weakly: a Ref strongly references its ListIndex, so a strong
// intern table would pin every ListIndex ever seen for the life of the
// process. A cleanup registered on each ListIndex sweeps its submap once
// the ListIndex is collected; the mutex exists only because that cleanup
// runs off the engine's event loop.
var (
	internMu       sync.Mutex
	byListIndex    = map[weak.Pointer[listindex.ListIndex]]map[string]weak.Pointer[Ref]{}
	byNilListIndex = map[string]*Ref{}
)

// Get returns the canonical Ref for (info, li), constructing and
// registering it on first use.
func Get(info *structivepath.Info, li *listindex.ListIndex) (*Ref, error) {
	if info.WildcardCount() > 0 {
		if li == nil {
			return nil, xerrors.New(xerrors.LIST201, "wildcard path requires a list index").
				With("path", info.Pattern())
		}
		if li.Depth()+1 < info.WildcardCount() {
			return nil, xerrors.New(xerrors.LIST201, "list index does not reach the path's wildcard depth").
				With("path", info.Pattern()).With("depth", li.Depth())
		}
	}

	if li == nil {
		if r, ok := byNilListIndex[info.Pattern()]; ok {
			return r, nil
		}
		r := &Ref{info: info, key: info.Pattern()}
		byNilListIndex[info.Pattern()] = r
		return r, nil
	}

	wk := weak.Make(li)
	internMu.Lock()
	defer internMu.Unlock()
	byPath, ok := byListIndex[wk]
	if !ok {
		byPath = map[string]weak.Pointer[Ref]{}
		byListIndex[wk] = byPath
		runtime.AddCleanup(li, func(key weak.Pointer[listindex.ListIndex]) {
			internMu.Lock()
			delete(byListIndex, key)
			internMu.Unlock()
		}, wk)
	}
	if wr, ok := byPath[info.Pattern()]; ok {
		if r := wr.Value(); r != nil {
			return r, nil
		}
	}
	r := &Ref{info: info, li: li, key: info.Pattern() + "#" + li.SID()}
	byPath[info.Pattern()] = weak.Make(r)
	return r, nil
}

// MustGet is Get but panics on error; useful where the caller has already
// validated the (info, li) pairing.
func MustGet(info *structivepath.Info, li *listindex.ListIndex) *Ref {
	r, err := Get(info, li)
	if err != nil {
		panic(err)
	}
	return r
}

// Parent derives this ref's parent ref by taking Info.ParentInfo() and the
// appropriate ancestor ListIndex: one ListIndex level is stripped iff the
// parent path has fewer wildcards than this one.
func (r *Ref) Parent() (*Ref, error) {
	parentInfo := r.info.ParentInfo()
	if parentInfo == nil {
		return nil, nil
	}
	parentLI := r.li
	if r.li != nil && parentInfo.WildcardCount() < r.info.WildcardCount() {
		parentLI = r.li.Parent()
	}
	return Get(parentInfo, parentLI)
}
