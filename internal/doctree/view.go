package doctree

import (
	"html"
	"path"
	"path/filepath"
	"slices"
	"strings"
)

// Node is the read-only view of a parsed document node the converter works
// against. Titles and content are inline HTML already rendered by the host.
type Node interface {
	Context() string
	ID() string
	Title() string
	Level() int
	Roles() []string
	HasRole(role string) bool
	Attr(name string) (string, bool)
	Content() string
	Blocks() []Node
	Parent() Node // nil for the document
	Index() int   // position among Parent().Blocks()
	Document() Document
}

// Document is the root node with document-wide metadata.
type Document interface {
	Node
	Author() string
	BaseDir() string
	ImageURI(target string) string
}

// View returns the read-only Document view of t. The view reads through to
// the tree, so t must not be modified while a render pass is using it.
func (t *DocTree) View() Document {
	return &docView{t: t}
}

type docView struct {
	t *DocTree
}

func (d *docView) Context() string          { return KindDocument }
func (d *docView) ID() string               { return "" }
func (d *docView) Title() string            { return d.t.Title }
func (d *docView) Level() int               { return 0 }
func (d *docView) Roles() []string          { return nil }
func (d *docView) HasRole(role string) bool { return false }
func (d *docView) Content() string          { return "" }
func (d *docView) Parent() Node             { return nil }
func (d *docView) Index() int               { return 0 }
func (d *docView) Document() Document       { return d }

func (d *docView) Attr(name string) (string, bool) {
	v, ok := d.t.Attributes[name]
	return v, ok
}

func (d *docView) Blocks() []Node {
	out := make([]Node, len(d.t.Children))
	for i, c := range d.t.Children {
		out[i] = &nodeView{n: c, parent: d, index: i, doc: d}
	}
	return out
}

func (d *docView) Author() string {
	if d.t.Author != "" {
		return d.t.Author
	}
	return d.t.Attributes["author"]
}

func (d *docView) BaseDir() string {
	if d.t.BaseDir == "" {
		return "."
	}
	return d.t.BaseDir
}

// ImageURI resolves an image target against the imagesdir attribute.
func (d *docView) ImageURI(target string) string {
	if target == "" || IsURL(target) || strings.HasPrefix(target, "data:") || filepath.IsAbs(target) {
		return target
	}
	dir := d.t.Attributes["imagesdir"]
	if dir == "" {
		return target
	}
	if IsURL(dir) {
		return strings.TrimSuffix(dir, "/") + "/" + target
	}
	return path.Join(filepath.ToSlash(dir), target)
}

type nodeView struct {
	n      *DocNode
	parent Node
	index  int
	doc    *docView
}

func (v *nodeView) Context() string          { return v.n.Kind }
func (v *nodeView) ID() string               { return v.n.ID }
func (v *nodeView) Title() string            { return v.n.Title }
func (v *nodeView) Level() int               { return v.n.Level }
func (v *nodeView) Roles() []string          { return slices.Clone(v.n.Roles) }
func (v *nodeView) HasRole(role string) bool { return slices.Contains(v.n.Roles, role) }
func (v *nodeView) Parent() Node             { return v.parent }
func (v *nodeView) Index() int               { return v.index }
func (v *nodeView) Document() Document       { return v.doc }

func (v *nodeView) Attr(name string) (string, bool) {
	s, ok := v.n.Attributes[name]
	return s, ok
}

// Content returns host-rendered HTML when present, otherwise the escaped
// plain text.
func (v *nodeView) Content() string {
	if v.n.HTML != "" {
		return v.n.HTML
	}
	return html.EscapeString(v.n.Text)
}

func (v *nodeView) Blocks() []Node {
	out := make([]Node, len(v.n.Children))
	for i, c := range v.n.Children {
		out[i] = &nodeView{n: c, parent: v, index: i, doc: v.doc}
	}
	return out
}

// IsURL reports whether s is an absolute URL, including protocol-relative
// ("//host/path") references.
func IsURL(s string) bool {
	if strings.HasPrefix(s, "//") {
		return true
	}
	scheme, rest, ok := strings.Cut(s, "://")
	if !ok || scheme == "" || rest == "" {
		return false
	}
	for _, r := range scheme {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.') {
			return false
		}
	}
	return true
}
