//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/lysyi3m/folio/app/dom"
)

// element wraps a browser DOM node
type element struct {
	v js.Value
}

var _ dom.Element = element{}

func (e element) Attr(name string) (string, bool) {
	attr := e.v.Call("getAttribute", name)
	if attr.IsNull() || attr.IsUndefined() {
		return "", false
	}
	return attr.String(), true
}

func (e element) SetAttr(name, value string) {
	e.v.Call("setAttribute", name, value)
}

// SetHidden toggles the inline display style
func (e element) SetHidden(hidden bool) {
	if hidden {
		e.v.Get("style").Set("display", "none")
	} else {
		e.v.Get("style").Set("display", "")
	}
}

func (e element) AppendChild(child dom.Element) {
	if c, ok := child.(element); ok {
		e.v.Call("appendChild", c.v)
	}
}

func (e element) QuerySelectorAll(selector string) []dom.Element {
	nodes := e.v.Call("querySelectorAll", selector)
	out := make([]dom.Element, nodes.Length())
	for i := range out {
		out[i] = element{v: nodes.Index(i)}
	}
	return out
}

func (e element) value() string {
	return e.v.Get("value").String()
}

func (e element) setValue(v string) {
	e.v.Set("value", v)
}

func (e element) setText(text string) {
	e.v.Set("textContent", text)
}

func (e element) setProp(name string, value any) {
	e.v.Set(name, value)
}

// on registers fn for an event. Handlers live as long as the page.
func (e element) on(event string, fn func(ev js.Value)) {
	cb := js.FuncOf(func(this js.Value, args []js.Value) any {
		var ev js.Value
		if len(args) > 0 {
			ev = args[0]
		}
		fn(ev)
		return nil
	})
	e.v.Call("addEventListener", event, cb)
}

// document wraps window.document
type document struct {
	v js.Value
}

func (d document) QuerySelector(selector string) (dom.Element, bool) {
	node := d.v.Call("querySelector", selector)
	if node.IsNull() || node.IsUndefined() {
		return nil, false
	}
	return element{v: node}, true
}

func (d document) all(selector string) []element {
	nodes := d.v.Call("querySelectorAll", selector)
	out := make([]element, nodes.Length())
	for i := range out {
		out[i] = element{v: nodes.Index(i)}
	}
	return out
}

func (d document) byID(id string) (element, bool) {
	node := d.v.Call("getElementById", id)
	if node.IsNull() || node.IsUndefined() {
		return element{}, false
	}
	return element{v: node}, true
}

// animationFrames schedules work with requestAnimationFrame
func animationFrames() dom.FrameFunc {
	return func(fn func()) {
		var cb js.Func
		cb = js.FuncOf(func(this js.Value, args []js.Value) any {
			cb.Release()
			fn()
			return nil
		})
		js.Global().Call("requestAnimationFrame", cb)
	}
}
