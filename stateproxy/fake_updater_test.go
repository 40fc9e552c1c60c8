package stateproxy_test

import "github.com/structive-go/structive/stateref"

// fakeUpdater is a minimal stateproxy.Updater for tests: every enqueued
// ref bumps revision and is recorded as "invalidated as of" that revision
// for its own path and its parent path (good enough to exercise cache freshness without
// pulling in the update package, which itself depends on stateproxy).
type fakeUpdater struct {
	version     int64
	revision    int64
	enqueued    []*stateref.Ref
	invalidated map[string]int64
}

func newFakeUpdater() *fakeUpdater {
	return &fakeUpdater{version: 1, invalidated: map[string]int64{}}
}

func (u *fakeUpdater) EnqueueRef(ref *stateref.Ref) {
	u.revision++
	u.enqueued = append(u.enqueued, ref)
	u.invalidated[ref.Info().Pattern()] = u.revision
	if parent := ref.Info().ParentInfo(); parent != nil {
		u.invalidated[parent.Pattern()] = u.revision
	}
}

func (u *fakeUpdater) Version() int64 { return u.version }

func (u *fakeUpdater) VersionRevision(path string) (int64, int64) {
	return u.version, u.invalidated[path]
}
