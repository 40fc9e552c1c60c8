package devserver

import (
	"bytes"

	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// fallbackIndex renders a minimal bootstrap page for examples that don't
// ship their own index.html: the wasm_exec shim, an #app mount point, the
// WASM loader, and the live-reload hook.
func fallbackIndex(example string) []byte {
	page := h.Doctype(
		h.HTML(
			h.Lang("en"),
			h.Head(
				h.Meta(h.Charset("utf-8")),
				h.TitleEl(g.Text(example)),
				h.Script(h.Src("/wasm_exec.js")),
			),
			h.Body(
				h.Div(h.ID("app")),
				h.Script(g.Raw(`const go = new Go();
WebAssembly.instantiateStreaming(fetch("main.wasm"), go.importObject).then((result) => {
	go.run(result.instance);
});`)),
				g.Raw(livereloadScript),
			),
		),
	)

	var buf bytes.Buffer
	_ = page.Render(&buf)
	return buf.Bytes()
}
