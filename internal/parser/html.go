package parser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/asciislide/internal/doctree"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTMLParser handles HTML files. Inline markup of paragraphs and headings is
// kept after sanitizing; divs carrying a class become open blocks so
// `<div class="fragment">` survives as a fragment.
type HTMLParser struct{}

var inlinePolicy = bluemonday.UGCPolicy()

func (p *HTMLParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	b := newTreeBuilder(escapeText(stem(filename)))
	if title := findTitle(doc); title != "" {
		b.tree.Title = escapeText(title)
	}

	w := &htmlWalker{b: b}
	if body := findBody(doc); body != nil {
		w.walk(body)
	} else {
		w.walk(doc)
	}
	return b.finish(), nil
}

type htmlWalker struct {
	b *treeBuilder
}

func (w *htmlWalker) walk(n *html.Node) {
	if n.Type == html.ElementNode {
		if level := headingLevel(n.Data); level > 0 {
			title := sanitizeInner(n)
			if sec := w.b.heading(level, title); sec != nil {
				applyElementAttrs(sec, n)
			}
			return
		}

		switch n.DataAtom {
		case atom.Script, atom.Style, atom.Nav, atom.Footer, atom.Noscript, atom.Template:
			return
		case atom.Img:
			w.b.add(imageBlock(n, ""))
			return
		case atom.Figure:
			if img := findElement(n, atom.Img); img != nil {
				caption := ""
				if fc := findElement(n, atom.Figcaption); fc != nil {
					caption = textContent(fc)
				}
				w.b.add(imageBlock(img, caption))
				return
			}
		case atom.P, atom.Li, atom.Td, atom.Blockquote:
			if img := soleImage(n); img != nil {
				w.b.add(imageBlock(img, ""))
				return
			}
			if content := sanitizeInner(n); content != "" {
				para := &doctree.DocNode{Kind: doctree.KindParagraph, HTML: content}
				applyElementAttrs(para, n)
				w.b.add(para)
			}
			return
		case atom.Pre, atom.Table:
			if out := sanitizeOuter(n); out != "" {
				w.b.add(&doctree.DocNode{Kind: doctree.KindPass, HTML: out})
			}
			return
		case atom.Div:
			if getAttr(n, "class") != "" {
				open := &doctree.DocNode{Kind: doctree.KindOpen}
				applyElementAttrs(open, n)
				w.b.open(open)
				w.children(n)
				w.b.close()
				return
			}
		}
	}
	w.children(n)
}

func (w *htmlWalker) children(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
}

func imageBlock(img *html.Node, caption string) *doctree.DocNode {
	n := &doctree.DocNode{Kind: doctree.KindImage}
	for _, a := range img.Attr {
		switch a.Key {
		case "src":
			n.SetAttr("target", a.Val)
		case "alt", "width", "height":
			n.SetAttr(a.Key, a.Val)
		}
	}
	if caption != "" {
		n.SetAttr("figcaption", caption)
	}
	applyElementAttrs(n, img)
	return n
}

// applyElementAttrs copies class as roles, id, and data-* attributes
// (without the prefix), so `data-transition` on a heading sets the slide
// transition.
func applyElementAttrs(d *doctree.DocNode, n *html.Node) {
	for _, a := range n.Attr {
		switch {
		case a.Key == "class":
			for _, role := range strings.Fields(a.Val) {
				d.AddRole(role)
			}
		case a.Key == "id":
			d.ID = a.Val
		case strings.HasPrefix(a.Key, "data-"):
			d.SetAttr(strings.TrimPrefix(a.Key, "data-"), a.Val)
		}
	}
}

// soleImage returns the only element child of n when it is an image and no
// text surrounds it.
func soleImage(n *html.Node) *html.Node {
	var img *html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case c.Type == html.TextNode && strings.TrimSpace(c.Data) == "":
		case c.Type == html.ElementNode && c.DataAtom == atom.Img && img == nil:
			img = c
		default:
			return nil
		}
	}
	return img
}

func sanitizeInner(n *html.Node) string {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return ""
		}
	}
	return strings.TrimSpace(inlinePolicy.Sanitize(buf.String()))
}

func sanitizeOuter(n *html.Node) string {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return ""
	}
	return strings.TrimSpace(inlinePolicy.Sanitize(buf.String()))
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

func findTitle(n *html.Node) string {
	if t := findElement(n, atom.Title); t != nil {
		return textContent(t)
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	return findElement(n, atom.Body)
}
