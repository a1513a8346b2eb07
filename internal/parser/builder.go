package parser

import (
	"html"

	"github.com/dgallion1/asciislide/internal/doctree"
)

// treeBuilder assembles a DocTree from a flat stream of headings and blocks.
// Headings close every open section at the same or deeper level; blocks are
// appended to the innermost open container.
type treeBuilder struct {
	tree   *doctree.DocTree
	stack  []*doctree.DocNode // open sections and open blocks, innermost last
	titled bool               // document title already taken from the source
}

func newTreeBuilder(title string) *treeBuilder {
	return &treeBuilder{tree: &doctree.DocTree{Title: title}}
}

// heading handles a source heading of level h (1 = top). The first h1 seen
// before any slide becomes the document title; everything else opens a
// section one level shallower than the source heading.
func (b *treeBuilder) heading(h int, title string) *doctree.DocNode {
	if h <= 1 && !b.titled && len(b.tree.Sections()) == 0 && len(b.stack) == 0 {
		b.setTitle(title)
		return nil
	}
	return b.section(max(h-1, 1), title)
}

func (b *treeBuilder) setTitle(title string) {
	b.tree.Title = title
	b.titled = true
}

// section opens a section at level, closing every open section at the same
// or a deeper level and any open blocks.
func (b *treeBuilder) section(level int, title string) *doctree.DocNode {
	sec := &doctree.DocNode{Kind: doctree.KindSection, Title: title, Level: level}
	for len(b.stack) > 0 {
		top := b.stack[len(b.stack)-1]
		if top.Kind == doctree.KindSection && top.Level < level {
			break
		}
		b.stack = b.stack[:len(b.stack)-1]
	}
	b.append(sec)
	b.stack = append(b.stack, sec)
	return sec
}

// add appends a leaf block to the current container.
func (b *treeBuilder) add(n *doctree.DocNode) {
	b.append(n)
}

// open starts a container block; following blocks nest inside it until
// close is called.
func (b *treeBuilder) open(n *doctree.DocNode) {
	b.append(n)
	b.stack = append(b.stack, n)
}

// close ends the innermost open container block. Sections are not closed by
// it, so stray closing fences are ignored.
func (b *treeBuilder) close() {
	if len(b.stack) == 0 {
		return
	}
	if top := b.stack[len(b.stack)-1]; top.Kind != doctree.KindSection {
		b.stack = b.stack[:len(b.stack)-1]
	}
}

func (b *treeBuilder) append(n *doctree.DocNode) {
	if len(b.stack) == 0 {
		b.tree.Children = append(b.tree.Children, n)
		return
	}
	top := b.stack[len(b.stack)-1]
	top.Children = append(top.Children, n)
}

func (b *treeBuilder) finish() *doctree.DocTree {
	b.stack = nil
	return b.tree
}

func escapeText(s string) string {
	return html.EscapeString(s)
}
