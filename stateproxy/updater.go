package stateproxy

import "github.com/structive-go/structive/stateref"

// Updater is the narrow slice of the Updater the proxy
// needs: enqueueing a write and answering cache-freshness questions. The
// concrete implementation lives in the update package; stateproxy only
// depends on this interface to avoid an import cycle (update depends on
// stateproxy's Ref/Proxy types to drive rendering sessions).
type Updater interface {
	// EnqueueRef records that ref was written and needs a render pass.
	EnqueueRef(ref *stateref.Ref)
	// Version returns the Updater's construction-time version counter.
	Version() int64
	// VersionRevision returns the (version, revision) last stamped for
	// path by a write anywhere in its static/dynamic dependency closure,
	// or (Version(), 0) if path has never been invalidated.
	VersionRevision(path string) (version int64, revision int64)
}
