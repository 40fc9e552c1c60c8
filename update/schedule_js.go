//go:build js && wasm

package update

import "syscall/js"

// scheduleMicrotask coalesces a render pass onto the host's microtask
// queue: after the current synchronous region, before the next macrotask.
func scheduleMicrotask(fn func()) {
	var cb js.Func
	cb = js.FuncOf(func(this js.Value, args []js.Value) any {
		cb.Release()
		fn()
		return nil
	})
	js.Global().Call("queueMicrotask", cb)
}
