//go:build js && wasm

package main

import (
	"syscall/js"
	"testing"

	"github.com/dgallion1/asciislide/internal/jsdom"
	"github.com/dgallion1/asciislide/internal/navigator"
)

// stubPage installs a minimal window/document with a canvas holding three
// slides. Elements record their listeners under .listeners.
const stubPage = `
const mk = (cls) => {
  const e = {className: cls, children: [], listeners: {}, style: {}, textContent: ""};
  const set = new Set(cls.split(" ").filter(Boolean));
  e.classList = {add: (c) => set.add(c), remove: (c) => set.delete(c), contains: (c) => set.has(c)};
  e.appendChild = (c) => { e.children.push(c); return c; };
  e.addEventListener = (t, f) => { e.listeners[t] = f; };
  e.querySelector = () => null;
  e.querySelectorAll = () => [];
  e.closest = () => null;
  return e;
};
const slides = [mk("slide"), mk("slide"), mk("slide")];
const canvas = mk("presentation-canvas");
canvas.querySelectorAll = (s) => s === "section.slide" ? slides : [];
const doc = mk("");
doc.body = mk("");
doc.createElement = () => mk("");
doc.querySelector = (s) => s === ".presentation-canvas" ? canvas : null;
globalThis.document = doc;
globalThis.location = {hash: ""};
globalThis.history = {replaceState: (a, b, u) => { globalThis.location.hash = u; }};
globalThis.innerWidth = 1920;
globalThis.innerHeight = 1080;
globalThis.getComputedStyle = () => ({width: "1280px", height: "720px"});
globalThis.windowListeners = {};
globalThis.addEventListener = (t, f) => { globalThis.windowListeners[t] = f; };
globalThis.stub = {canvas, slides, doc, mk};
`

func setup(t *testing.T) (js.Value, *navigator.Controller) {
	t.Helper()
	window := js.Global()
	window.Get("Function").New(stubPage).Invoke()

	dom := jsdom.New()
	ctrl, err := navigator.New(dom, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bind(window, dom, ctrl)
	return window, ctrl
}

func TestBind_SlidesIsArray(t *testing.T) {
	window, _ := setup(t)
	slides := window.Get("Presentation").Get("slides")
	if slides.Type() != js.TypeObject || slides.Length() != 3 {
		t.Fatalf("expected an array of 3 slides, got %s", slides.Type())
	}
	want := window.Get("stub").Get("slides")
	for i := range 3 {
		if !slides.Index(i).Equal(want.Index(i)) {
			t.Errorf("slide %d is not the page's element", i)
		}
	}
}

func TestBind_GoAcceptsAnyValue(t *testing.T) {
	window, ctrl := setup(t)
	goFn := window.Get("Presentation").Get("go")

	goFn.Invoke("2")
	if ctrl.CurrentIndex() != 2 {
		t.Errorf("go(\"2\"): expected slide 2, got %d", ctrl.CurrentIndex())
	}
	goFn.Invoke(1)
	if ctrl.CurrentIndex() != 1 {
		t.Errorf("go(1): expected slide 1, got %d", ctrl.CurrentIndex())
	}
	goFn.Invoke("intro")
	goFn.Invoke(js.Global().Get("NaN"))
	goFn.Invoke(js.Undefined())
	if ctrl.CurrentIndex() != 1 {
		t.Errorf("non-numeric go() must be ignored, got %d", ctrl.CurrentIndex())
	}
	if got := window.Get("Presentation").Call("currentIndex").Int(); got != 1 {
		t.Errorf("currentIndex() = %d, want 1", got)
	}
}

func TestBind_PointerListenersOnCanvas(t *testing.T) {
	window, ctrl := setup(t)
	stub := window.Get("stub")
	canvas := stub.Get("canvas")
	doc := stub.Get("doc")

	for _, ev := range []string{"click", "touchstart", "touchend"} {
		if canvas.Get("listeners").Get(ev).Type() != js.TypeFunction {
			t.Errorf("expected %s listener on the canvas", ev)
		}
		if !doc.Get("listeners").Get(ev).IsUndefined() {
			t.Errorf("%s must not be bound on the document", ev)
		}
	}
	if doc.Get("listeners").Get("keydown").Type() != js.TypeFunction {
		t.Error("expected keydown on the document")
	}

	target := stub.Call("mk", "")
	canvas.Get("listeners").Get("click").Invoke(map[string]any{"target": target})
	if ctrl.CurrentIndex() != 1 {
		t.Errorf("expected canvas click to advance, got %d", ctrl.CurrentIndex())
	}
}
