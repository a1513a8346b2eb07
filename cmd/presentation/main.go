//go:build js && wasm

// Command presentation is the browser runtime of a rendered deck, compiled
// to WebAssembly. It binds keyboard, click, touch, resize and hashchange
// events to the navigator and exposes window.Presentation.
package main

import (
	"errors"
	"log/slog"
	"os"
	"syscall/js"

	"github.com/dgallion1/asciislide/internal/jsdom"
	"github.com/dgallion1/asciislide/internal/navigator"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	dom := jsdom.New()
	ctrl, err := navigator.New(dom, log)
	if errors.Is(err, navigator.ErrNoSlides) {
		return
	}
	if err != nil {
		log.Error("presentation init failed", "error", err)
		return
	}

	bind(js.Global(), dom, ctrl)
	select {}
}

// bind attaches the event listeners and publishes window.Presentation.
// Clicks and swipes count only on the canvas; keys are taken page-wide.
func bind(window js.Value, dom *jsdom.Document, ctrl *navigator.Controller) {
	document := window.Get("document")
	canvas := dom.Canvas()

	on(document, "keydown", func(ev js.Value) {
		if ctrl.HandleKey(ev.Get("key").String()) {
			ev.Call("preventDefault")
		}
	})
	on(canvas, "click", func(ev js.Value) {
		target := ev.Get("target")
		interactive := target.Type() == js.TypeObject &&
			target.Get("closest").Type() == js.TypeFunction &&
			!target.Call("closest", navigator.InteractiveSelector).IsNull()
		ctrl.Click(interactive)
	})
	on(canvas, "touchstart", func(ev js.Value) {
		if x, ok := touchX(ev); ok {
			ctrl.TouchStart(x)
		}
	})
	on(canvas, "touchend", func(ev js.Value) {
		if x, ok := touchX(ev); ok {
			ctrl.TouchEnd(x)
		}
	})
	on(window, "resize", func(js.Value) { ctrl.Fit() })
	on(window, "hashchange", func(js.Value) { ctrl.HashChanged() })

	api := js.ValueOf(map[string]any{})
	api.Set("go", js.FuncOf(func(_ js.Value, args []js.Value) any {
		if len(args) > 0 {
			ctrl.GoTo(window.Call("String", args[0]).String())
		}
		return nil
	}))
	api.Set("next", js.FuncOf(func(js.Value, []js.Value) any { ctrl.Next(); return nil }))
	api.Set("prev", js.FuncOf(func(js.Value, []js.Value) any { ctrl.Prev(); return nil }))
	slides := make([]any, 0, len(ctrl.Slides()))
	for _, s := range ctrl.Slides() {
		slides = append(slides, s.(jsdom.Element).Value())
	}
	api.Set("slides", js.ValueOf(slides))
	api.Set("currentIndex", js.FuncOf(func(js.Value, []js.Value) any { return ctrl.CurrentIndex() }))
	window.Set("Presentation", api)
}

func on(target js.Value, event string, fn func(js.Value)) {
	target.Call("addEventListener", event, js.FuncOf(func(_ js.Value, args []js.Value) any {
		if len(args) > 0 {
			fn(args[0])
		}
		return nil
	}))
}

func touchX(ev js.Value) (float64, bool) {
	touches := ev.Get("changedTouches")
	if touches.IsUndefined() || touches.Length() == 0 {
		return 0, false
	}
	return touches.Index(0).Get("clientX").Float(), true
}
