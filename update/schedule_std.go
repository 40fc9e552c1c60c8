//go:build !js || !wasm

package update

// scheduleMicrotask runs fn synchronously outside a JS/WASM host: there is
// no microtask queue to coalesce onto, and tests drive Updater.EnqueueRef
// synchronously anyway.
func scheduleMicrotask(fn func()) {
	fn()
}
