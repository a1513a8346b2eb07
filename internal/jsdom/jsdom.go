//go:build js && wasm

// Package jsdom implements the navigator's DOM over the browser document
// through syscall/js.
package jsdom

import (
	"strconv"
	"strings"
	"syscall/js"

	"github.com/dgallion1/asciislide/internal/navigator"
)

// Document wraps the global window and document.
type Document struct {
	window js.Value
	doc    js.Value
	canvas js.Value
	footer js.Value
}

// New returns a Document bound to the page's globals.
func New() *Document {
	w := js.Global()
	return &Document{window: w, doc: w.Get("document")}
}

// Element is a browser element.
type Element struct {
	v js.Value
}

// Value exposes the underlying JS object.
func (e Element) Value() js.Value { return e.v }

func (e Element) AddClass(name string)      { e.v.Get("classList").Call("add", name) }
func (e Element) RemoveClass(name string)   { e.v.Get("classList").Call("remove", name) }
func (e Element) HasClass(name string) bool { return e.v.Get("classList").Call("contains", name).Bool() }

// Canvas returns the .presentation-canvas element, creating it if needed.
func (d *Document) Canvas() js.Value { return d.ensureCanvas() }

func (d *Document) Slides() []navigator.Element {
	canvas := d.ensureCanvas()
	return elements(canvas.Call("querySelectorAll", navigator.SlideSelector))
}

func (d *Document) Fragments(slide navigator.Element) []navigator.Element {
	e, ok := slide.(Element)
	if !ok {
		return nil
	}
	return elements(e.v.Call("querySelectorAll", "."+navigator.FragmentClass))
}

func (d *Document) SetFooter(text string) {
	if d.footer.IsUndefined() || d.footer.IsNull() {
		canvas := d.ensureCanvas()
		d.footer = canvas.Call("querySelector", "."+navigator.FooterClass)
		if d.footer.IsNull() {
			d.footer = d.newDiv(navigator.FooterClass)
			canvas.Call("appendChild", d.footer)
		}
	}
	d.footer.Set("textContent", text)
}

func (d *Document) Hash() string {
	return strings.TrimPrefix(d.window.Get("location").Get("hash").String(), "#")
}

func (d *Document) ReplaceHash(h string) {
	history := d.window.Get("history")
	if !history.IsUndefined() && history.Get("replaceState").Type() == js.TypeFunction {
		history.Call("replaceState", js.Null(), "", "#"+h)
		return
	}
	d.window.Get("location").Call("replace", "#"+h)
}

func (d *Document) Viewport() (float64, float64) {
	return d.window.Get("innerWidth").Float(), d.window.Get("innerHeight").Float()
}

// CanvasSize reads the computed style, falling back to the offset size
// while layout has not produced pixel values.
func (d *Document) CanvasSize() (float64, float64) {
	canvas := d.ensureCanvas()
	style := d.window.Call("getComputedStyle", canvas)
	w := pixels(style.Get("width").String())
	h := pixels(style.Get("height").String())
	if w <= 0 {
		w = canvas.Get("offsetWidth").Float()
	}
	if h <= 0 {
		h = canvas.Get("offsetHeight").Float()
	}
	return w, h
}

func (d *Document) SetScale(scale float64) {
	d.ensureCanvas().Get("style").Set("transform", "scale("+strconv.FormatFloat(scale, 'g', -1, 64)+")")
}

// ensureCanvas resolves the canvas, creating stage > canvas > slides and
// moving the body's slides into it when the page has none.
func (d *Document) ensureCanvas() js.Value {
	if !d.canvas.IsUndefined() && !d.canvas.IsNull() {
		return d.canvas
	}
	if c := d.doc.Call("querySelector", "."+navigator.CanvasClass); !c.IsNull() {
		d.canvas = c
		return c
	}

	body := d.doc.Get("body")
	stage := d.doc.Call("querySelector", "."+navigator.StageClass)
	if stage.IsNull() {
		stage = d.newDiv(navigator.StageClass)
		body.Call("appendChild", stage)
	}
	canvas := d.newDiv(navigator.CanvasClass)
	wrapper := d.newDiv(navigator.SlidesClass)
	for _, s := range elements(body.Call("querySelectorAll", navigator.SlideSelector)) {
		wrapper.Call("appendChild", s.(Element).v)
	}
	canvas.Call("appendChild", wrapper)
	stage.Call("appendChild", canvas)
	d.canvas = canvas
	return canvas
}

func (d *Document) newDiv(class string) js.Value {
	div := d.doc.Call("createElement", "div")
	div.Set("className", class)
	return div
}

func elements(list js.Value) []navigator.Element {
	n := list.Length()
	out := make([]navigator.Element, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, Element{v: list.Index(i)})
	}
	return out
}

func pixels(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(s), "px"), 64)
	if err != nil {
		return 0
	}
	return f
}
