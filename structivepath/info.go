// Package structivepath implements the structured path model: a canonical,
// globally-interned representation of state property paths (including
// wildcards for list elements) plus the per-component path tree that
// mirrors known paths for static dependency walks.
package structivepath

import (
	"strings"

	"github.com/structive-go/structive/xerrors"
)

// Wildcard is the segment literal that marks a list-element position.
const Wildcard = "*"

// reserved holds identifiers that can never appear as a path segment
// because they would collide with synthesized accessor/property names.
var reserved = map[string]struct{}{
	"constructor": {}, "prototype": {}, "__proto__": {}, "toString": {},
	"valueOf": {}, "hasOwnProperty": {}, "__defineGetter__": {}, "__defineSetter__": {},
	"break": {}, "case": {}, "chan": {}, "const": {}, "continue": {},
	"default": {}, "defer": {}, "else": {}, "fallthrough": {}, "for": {},
	"func": {}, "go": {}, "goto": {}, "if": {}, "import": {},
	"interface": {}, "map": {}, "package": {}, "range": {}, "return": {},
	"select": {}, "struct": {}, "switch": {}, "type": {}, "var": {},
}

// Info is a canonicalised path. Exactly one Info exists per distinct path
// string for the lifetime of the process (see Intern). Infos are
// immutable once constructed.
type Info struct {
	id      int
	pattern string

	pathSegments []string
	lastSegment  string

	parentInfo *Info

	cumulativePaths   []string
	cumulativePathSet map[string]struct{}

	wildcardPaths       []string
	wildcardParentInfos []*Info
	indexByWildcardPath map[string]int
	wildcardCount       int

	children map[string]*Info
}

// ID returns the monotonically assigned intern id (assignment order, not
// stable across process restarts).
func (i *Info) ID() int { return i.id }

// Pattern returns the canonical dotted path string this Info represents.
func (i *Info) Pattern() string { return i.pattern }

// PathSegments returns the path split on ".".
func (i *Info) PathSegments() []string { return i.pathSegments }

// LastSegment returns the final path segment ("*" for a wildcard leaf).
func (i *Info) LastSegment() string { return i.lastSegment }

// ParentInfo returns the Info for the path with its last segment removed,
// or nil for a root (single-segment) path.
func (i *Info) ParentInfo() *Info { return i.parentInfo }

// CumulativePaths returns every non-strict prefix of this path, root-first,
// ending with this path itself.
func (i *Info) CumulativePaths() []string { return i.cumulativePaths }

// CumulativePathSet returns the same prefixes as a set for O(1) membership.
func (i *Info) CumulativePathSet() map[string]struct{} { return i.cumulativePathSet }

// WildcardPaths returns every prefix (including this path) whose final
// segment is "*", in left-to-right order.
func (i *Info) WildcardPaths() []string { return i.wildcardPaths }

// WildcardParentInfos returns, for each entry in WildcardPaths, the Info of
// the prefix immediately preceding that "*".
func (i *Info) WildcardParentInfos() []*Info { return i.wildcardParentInfos }

// IndexByWildcardPath maps a wildcard-prefix string to its zero-based
// wildcard depth (the index of that "*" among all "*"s in this path).
func (i *Info) IndexByWildcardPath() map[string]int { return i.indexByWildcardPath }

// WildcardCount returns the number of "*" segments in this path.
func (i *Info) WildcardCount() int { return i.wildcardCount }

// Children returns the sub-tree of Infos one segment below this one, keyed
// by segment name (literal or "*"). Populated lazily as descendant paths
// are interned.
func (i *Info) Children() map[string]*Info { return i.children }

// IsWildcardLeaf reports whether this path's final segment is "*".
func (i *Info) IsWildcardLeaf() bool { return i.lastSegment == Wildcard }

// global intern state. The engine runs on one host event loop, so no
// locking.
var (
	internByPattern = map[string]*Info{}
	nextID          = 0
)

// Intern returns the canonical Info for path, constructing and registering
// it on first use. Subsequent calls with the same string return the exact
// same pointer.
func Intern(path string) (*Info, error) {
	if info, ok := internByPattern[path]; ok {
		return info, nil
	}
	return construct(path)
}

// MustIntern is Intern but panics on error; useful for package-level path
// constants built from literals the caller controls.
func MustIntern(path string) *Info {
	info, err := Intern(path)
	if err != nil {
		panic(err)
	}
	return info
}

func construct(path string) (*Info, error) {
	segments := strings.Split(path, ".")
	for _, seg := range segments {
		if seg == "" {
			return nil, xerrors.New(xerrors.STATE202, "empty path segment").With("path", path)
		}
		if seg == Wildcard {
			continue
		}
		if _, bad := reserved[seg]; bad {
			return nil, xerrors.New(xerrors.STATE202, "reserved word used as path segment").
				With("path", path).With("segment", seg)
		}
	}

	info := &Info{
		pattern:             path,
		pathSegments:        segments,
		lastSegment:         segments[len(segments)-1],
		cumulativePathSet:   map[string]struct{}{},
		indexByWildcardPath: map[string]int{},
		children:            map[string]*Info{},
	}

	if len(segments) > 1 {
		parentPath := strings.Join(segments[:len(segments)-1], ".")
		parent, err := Intern(parentPath)
		if err != nil {
			return nil, err
		}
		info.parentInfo = parent
		parent.children[info.lastSegment] = info
	}

	// cumulative paths: every prefix, root to self, left-to-right.
	for n := 1; n <= len(segments); n++ {
		info.cumulativePaths = append(info.cumulativePaths, strings.Join(segments[:n], "."))
	}
	for _, p := range info.cumulativePaths {
		info.cumulativePathSet[p] = struct{}{}
	}

	// wildcard accounting: left-to-right order determines wildcard depth,
	// strictly positional.
	wcIndex := 0
	for n, seg := range segments {
		if seg != Wildcard {
			continue
		}
		wcPath := strings.Join(segments[:n+1], ".")
		info.wildcardPaths = append(info.wildcardPaths, wcPath)
		info.indexByWildcardPath[wcPath] = wcIndex
		if n > 0 {
			parentPrefix := strings.Join(segments[:n], ".")
			wp, err := Intern(parentPrefix)
			if err != nil {
				return nil, err
			}
			info.wildcardParentInfos = append(info.wildcardParentInfos, wp)
		} else {
			info.wildcardParentInfos = append(info.wildcardParentInfos, nil)
		}
		wcIndex++
	}
	info.wildcardCount = wcIndex

	info.id = nextID
	nextID++
	internByPattern[path] = info
	return info, nil
}

// Lookup returns the already-interned Info for path without constructing
// it, and false if it has never been interned.
func Lookup(path string) (*Info, bool) {
	info, ok := internByPattern[path]
	return info, ok
}
