package parser

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dgallion1/asciislide/internal/doctree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	gmparser "github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark.
//
// Beyond CommonMark and GFM it understands heading attributes
// (`## Title {.canvas #id transition=fade}`), standalone `{...}` lines that
// attach attributes to the next block, image-only paragraphs, and
// `::: {.fragment}` ... `:::` fenced open blocks. Fence lines must be
// separated from surrounding paragraphs by blank lines.
type MarkdownParser struct{}

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(gmparser.WithAttribute()),
)

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	meta, body, err := splitFrontMatter(src)
	if err != nil {
		return nil, err
	}

	b := newTreeBuilder(escapeText(stem(filename)))
	applyFrontMatter(b, meta)

	w := &mdWalker{b: b, src: body}
	doc := markdown.Parser().Parse(text.NewReader(body))
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		w.block(n)
	}
	if w.err != nil {
		return nil, fmt.Errorf("render markdown: %w", w.err)
	}
	return b.finish(), nil
}

type mdWalker struct {
	b       *treeBuilder
	src     []byte
	pending []attrPair // from a standalone {...} line, applied to the next block
	err     error
}

type attrPair struct {
	name  string
	value string
}

func (w *mdWalker) block(n ast.Node) {
	switch node := n.(type) {
	case *ast.Heading:
		title := w.renderChildren(node)
		attrs := append(nodeAttrs(node), w.takePending()...)
		if sec := w.b.heading(node.Level, title); sec != nil {
			applyAttrs(sec, attrs)
		} else {
			for _, a := range attrs {
				w.b.tree.SetAttr(a.name, a.value)
			}
		}

	case *ast.Paragraph:
		raw := strings.TrimSpace(blockText(node, w.src))
		if attrs, ok := parseAttrLine(raw); ok {
			w.pending = append(w.pending, attrs...)
			return
		}
		if w.fence(raw) {
			return
		}
		if img := w.image(node); img != nil {
			applyAttrs(img, w.takePending())
			w.b.add(img)
			return
		}
		para := &doctree.DocNode{Kind: doctree.KindParagraph, HTML: w.renderChildren(node)}
		applyAttrs(para, w.takePending())
		w.b.add(para)

	default:
		pass := &doctree.DocNode{Kind: doctree.KindPass, HTML: w.render(n)}
		w.takePending()
		w.b.add(pass)
	}
}

// fence handles `::: {.role}` / `::: role` openers and bare `:::` closers.
func (w *mdWalker) fence(raw string) bool {
	if !strings.HasPrefix(raw, ":::") || strings.Contains(raw, "\n") {
		return false
	}
	rest := strings.TrimSpace(strings.TrimLeft(raw, ":"))
	if rest == "" {
		w.takePending()
		w.b.close()
		return true
	}
	open := &doctree.DocNode{Kind: doctree.KindOpen}
	if attrs, ok := parseAttrLine(rest); ok {
		applyAttrs(open, attrs)
	} else {
		for _, role := range strings.Fields(rest) {
			open.AddRole(role)
		}
	}
	applyAttrs(open, w.takePending())
	w.b.open(open)
	return true
}

// image returns an image block when the paragraph holds a single image,
// optionally followed by an attribute list.
func (w *mdWalker) image(p *ast.Paragraph) *doctree.DocNode {
	img, ok := p.FirstChild().(*ast.Image)
	if !ok {
		return nil
	}
	var trailing bytes.Buffer
	for c := img.NextSibling(); c != nil; c = c.NextSibling() {
		t, ok := c.(*ast.Text)
		if !ok {
			return nil
		}
		trailing.Write(t.Segment.Value(w.src))
	}
	var attrs []attrPair
	if rest := strings.TrimSpace(trailing.String()); rest != "" {
		if attrs, ok = parseAttrLine(rest); !ok {
			return nil
		}
	}

	n := &doctree.DocNode{Kind: doctree.KindImage}
	n.SetAttr("target", string(img.Destination))
	if alt := inlineText(img, w.src); alt != "" {
		n.SetAttr("alt", alt)
	}
	if len(img.Title) > 0 {
		n.SetAttr("figcaption", string(img.Title))
	}
	applyAttrs(n, attrs)
	return n
}

func (w *mdWalker) takePending() []attrPair {
	p := w.pending
	w.pending = nil
	return p
}

func (w *mdWalker) render(n ast.Node) string {
	var buf bytes.Buffer
	w.write(&buf, n)
	return strings.TrimSpace(buf.String())
}

// renderChildren renders the inline content of a block without its
// enclosing element.
func (w *mdWalker) renderChildren(n ast.Node) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		w.write(&buf, c)
	}
	return strings.TrimSpace(buf.String())
}

func (w *mdWalker) write(buf *bytes.Buffer, n ast.Node) {
	if err := markdown.Renderer().Render(buf, w.src, n); err != nil && w.err == nil {
		w.err = err
	}
}

// blockText joins the raw source lines of a block.
func blockText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(src))
	}
	return buf.String()
}

// inlineText gets the plain text of inline children.
func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte(' ')
			}
		} else {
			buf.WriteString(inlineText(c, src))
		}
	}
	return strings.TrimSpace(buf.String())
}

// parseAttrLine parses a whole `{.role #id key=value}` line.
func parseAttrLine(s string) ([]attrPair, bool) {
	if !strings.HasPrefix(s, "{") || !strings.HasSuffix(s, "}") {
		return nil, false
	}
	reader := text.NewReader([]byte(s))
	attrs, ok := gmparser.ParseAttributes(reader)
	if !ok {
		return nil, false
	}
	reader.SkipSpaces()
	if b := reader.Peek(); b != text.EOF {
		return nil, false
	}
	out := make([]attrPair, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, attrPair{name: string(a.Name), value: attrValue(a.Value)})
	}
	return out, true
}

func nodeAttrs(n ast.Node) []attrPair {
	var out []attrPair
	for _, a := range n.Attributes() {
		out = append(out, attrPair{name: string(a.Name), value: attrValue(a.Value)})
	}
	return out
}

func attrValue(v any) string {
	switch v := v.(type) {
	case []byte:
		return string(v)
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// applyAttrs maps class to roles and id to the node ID; everything else
// becomes a named attribute.
func applyAttrs(n *doctree.DocNode, attrs []attrPair) {
	for _, a := range attrs {
		switch a.name {
		case "class":
			for _, role := range strings.Fields(a.value) {
				n.AddRole(role)
			}
		case "id":
			n.ID = a.value
		default:
			n.SetAttr(a.name, a.value)
		}
	}
}
