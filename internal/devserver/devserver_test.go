package devserver

import (
	"io"
	"net/http"
	"strings"
	"testing"
)

func TestInjectLivereloadBeforeBodyClose(t *testing.T) {
	page := []byte("<html><body><p>hi</p></body></html>")
	out := string(injectLivereload(page))
	if !strings.Contains(out, "EventSource") {
		t.Fatalf("expected live-reload script injected, got: %s", out)
	}
	if strings.Index(out, "EventSource") > strings.Index(out, "</body>") {
		t.Fatalf("expected script before </body>, got: %s", out)
	}
}

func TestInjectLivereloadWithoutBodyAppends(t *testing.T) {
	out := string(injectLivereload([]byte("<p>bare fragment</p>")))
	if !strings.Contains(out, "bare fragment") || !strings.Contains(out, "EventSource") {
		t.Fatalf("expected fragment plus appended script, got: %s", out)
	}
}

func TestFallbackIndexContainsBootstrapAndLivereload(t *testing.T) {
	out := string(fallbackIndex("counter"))
	for _, want := range []string{"<!doctype html>", "wasm_exec.js", "main.wasm", `id="app"`, "/__livereload"} {
		if !strings.Contains(out, want) {
			t.Fatalf("fallback index missing %q; got: %s", want, out)
		}
	}
}

func TestIndexInjection(t *testing.T) {
	server := NewServer("counter", "localhost:0")
	if err := server.Start(); err != nil {
		t.Fatalf("failed to start server: %v", err)
	}
	defer server.Stop()

	resp, err := http.Get(server.URL() + "/")
	if err != nil {
		t.Fatalf("failed to GET index: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %v", resp.Status)
	}
	b, _ := io.ReadAll(resp.Body)
	body := string(b)
	if !strings.Contains(body, "/__livereload") || !strings.Contains(body, "EventSource") {
		t.Fatalf("index.html response missing live-reload injection; body: %s", body)
	}
}
