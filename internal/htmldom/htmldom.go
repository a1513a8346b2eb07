// Package htmldom implements the navigator's DOM over a parsed HTML
// document, so decks can be driven server-side: static snapshots at a given
// slide and tests of rendered output.
package htmldom

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/dgallion1/asciislide/internal/navigator"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Viewport used when none is configured; large enough that a 1280x720 canvas
// is not scaled.
const (
	DefaultViewportWidth  = 1920
	DefaultViewportHeight = 1080
)

// Page is a parsed HTML document satisfying navigator.DOM.
type Page struct {
	root   *html.Node
	body   *html.Node
	canvas *html.Node

	hash          string
	width, height float64
}

// Parse reads an HTML document.
func Parse(r io.Reader) (*Page, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	p := &Page{
		root:   root,
		width:  DefaultViewportWidth,
		height: DefaultViewportHeight,
	}
	p.body = findFirst(root, func(n *html.Node) bool { return n.DataAtom == atom.Body })
	if p.body == nil {
		p.body = root
	}
	return p, nil
}

// SetHash sets the URL fragment the page was opened with.
func (p *Page) SetHash(h string) { p.hash = strings.TrimPrefix(h, "#") }

// SetViewport sets the window size used to fit the canvas.
func (p *Page) SetViewport(width, height float64) {
	p.width, p.height = width, height
}

// Render writes the document, including every class and style change made
// through the DOM interface.
func (p *Page) Render(w io.Writer) error {
	return html.Render(w, p.root)
}

// Slides resolves the canvas, creating the stage and canvas containers when
// the page has none and moving the body's slides into them.
func (p *Page) Slides() []navigator.Element {
	canvas := p.ensureCanvas()
	var out []navigator.Element
	for _, n := range findAll(canvas, isSlide) {
		out = append(out, &element{n: n})
	}
	return out
}

func (p *Page) Fragments(slide navigator.Element) []navigator.Element {
	e, ok := slide.(*element)
	if !ok {
		return nil
	}
	var out []navigator.Element
	for c := e.n.FirstChild; c != nil; c = c.NextSibling {
		for _, n := range findAll(c, func(n *html.Node) bool { return hasClass(n, navigator.FragmentClass) }) {
			out = append(out, &element{n: n})
		}
	}
	return out
}

func (p *Page) SetFooter(text string) {
	canvas := p.ensureCanvas()
	footer := findFirst(canvas, func(n *html.Node) bool { return hasClass(n, navigator.FooterClass) })
	if footer == nil {
		footer = newDiv(navigator.FooterClass)
		canvas.AppendChild(footer)
	}
	for c := footer.FirstChild; c != nil; c = footer.FirstChild {
		footer.RemoveChild(c)
	}
	footer.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

func (p *Page) Hash() string { return p.hash }

func (p *Page) ReplaceHash(h string) { p.hash = h }

func (p *Page) Viewport() (float64, float64) { return p.width, p.height }

// CanvasSize reads pixel width/height from the canvas' inline style. There
// is no layout engine, so anything else reports zero.
func (p *Page) CanvasSize() (float64, float64) {
	style := getAttr(p.ensureCanvas(), "style")
	return styleLength(style, "width"), styleLength(style, "height")
}

func (p *Page) SetScale(scale float64) {
	canvas := p.ensureCanvas()
	setAttr(canvas, "style", setDeclaration(getAttr(canvas, "style"), "transform",
		"scale("+strconv.FormatFloat(scale, 'g', -1, 64)+")"))
}

func (p *Page) ensureCanvas() *html.Node {
	if p.canvas != nil {
		return p.canvas
	}
	if c := findFirst(p.root, func(n *html.Node) bool { return hasClass(n, navigator.CanvasClass) }); c != nil {
		p.canvas = c
		return c
	}
	stage := findFirst(p.root, func(n *html.Node) bool { return hasClass(n, navigator.StageClass) })
	if stage == nil {
		stage = newDiv(navigator.StageClass)
		p.body.AppendChild(stage)
	}

	canvas := newDiv(navigator.CanvasClass)
	wrapper := newDiv(navigator.SlidesClass)
	for _, s := range findAll(p.body, isSlide) {
		s.Parent.RemoveChild(s)
		wrapper.AppendChild(s)
	}
	canvas.AppendChild(wrapper)
	stage.AppendChild(canvas)
	p.canvas = canvas
	return canvas
}

type element struct {
	n *html.Node
}

func (e *element) AddClass(name string) {
	classes := strings.Fields(getAttr(e.n, "class"))
	if slices.Contains(classes, name) {
		return
	}
	setAttr(e.n, "class", strings.Join(append(classes, name), " "))
}

func (e *element) RemoveClass(name string) {
	classes := strings.Fields(getAttr(e.n, "class"))
	if !slices.Contains(classes, name) {
		return
	}
	classes = slices.DeleteFunc(classes, func(c string) bool { return c == name })
	if len(classes) == 0 {
		removeAttr(e.n, "class")
		return
	}
	setAttr(e.n, "class", strings.Join(classes, " "))
}

func (e *element) HasClass(name string) bool { return hasClass(e.n, name) }

// Node exposes the underlying HTML node.
func (e *element) Node() *html.Node { return e.n }

func isSlide(n *html.Node) bool {
	return n.DataAtom == atom.Section && hasClass(n, "slide")
}

func newDiv(class string) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
		Attr:     []html.Attribute{{Key: "class", Val: class}},
	}
}

func hasClass(n *html.Node, class string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	return slices.Contains(strings.Fields(getAttr(n, "class")), class)
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	n.Attr = slices.DeleteFunc(n.Attr, func(a html.Attribute) bool { return a.Key == key })
}

// findFirst returns the first node in document order matching match.
func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	if match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}

// findAll returns every node under n (inclusive) matching match, in
// document order.
func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if match(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

// setDeclaration replaces (or appends) one property in an inline style.
func setDeclaration(style, prop, value string) string {
	var decls []string
	for _, d := range strings.Split(style, ";") {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		name, _, _ := strings.Cut(d, ":")
		if strings.EqualFold(strings.TrimSpace(name), prop) {
			continue
		}
		decls = append(decls, d)
	}
	decls = append(decls, prop+": "+value)
	return strings.Join(decls, "; ")
}

func styleLength(style, prop string) float64 {
	for _, d := range strings.Split(style, ";") {
		name, val, ok := strings.Cut(d, ":")
		if !ok || !strings.EqualFold(strings.TrimSpace(name), prop) {
			continue
		}
		val = strings.TrimSuffix(strings.TrimSpace(val), "px")
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return 0
}
