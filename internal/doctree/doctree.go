package doctree

// Block kinds understood by the converter.
const (
	KindDocument  = "document"
	KindSection   = "section"
	KindParagraph = "paragraph"
	KindOpen      = "open"
	KindImage     = "image"
	KindPass      = "pass" // host-rendered HTML, emitted verbatim
)

// DocTree is the root of a parsed document.
type DocTree struct {
	Title      string            // Document title, inline HTML
	Author     string            // Empty when unknown
	BaseDir    string            // Directory relative paths resolve against
	Attributes map[string]string // Document attributes
	Children   []*DocNode        // Preamble blocks and top-level sections
}

// DocNode is a section or block in the document tree.
type DocNode struct {
	Kind       string            // One of the Kind* constants
	ID         string            // Element id, may be empty
	Title      string            // Section heading or block title, inline HTML
	Level      int               // Section nesting level, 0 for blocks
	Roles      []string          // Free-form role tags
	Attributes map[string]string // Block attributes (target, width, transition...)
	Text       string            // Plain text content, escaped on output
	HTML       string            // Host-rendered content, used verbatim when set
	Page       int               // Source page/line (0 if N/A)
	Children   []*DocNode
}

// Sections returns the top-level sections (slides) in order.
func (t *DocTree) Sections() []*DocNode {
	var out []*DocNode
	for _, c := range t.Children {
		if c.Kind == KindSection {
			out = append(out, c)
		}
	}
	return out
}

// SetAttr sets a document attribute, allocating the map on first use.
func (t *DocTree) SetAttr(name, value string) {
	if t.Attributes == nil {
		t.Attributes = make(map[string]string)
	}
	t.Attributes[name] = value
}

// SetAttr sets a block attribute, allocating the map on first use.
func (n *DocNode) SetAttr(name, value string) {
	if n.Attributes == nil {
		n.Attributes = make(map[string]string)
	}
	n.Attributes[name] = value
}

// AddRole appends role unless already present.
func (n *DocNode) AddRole(role string) {
	for _, r := range n.Roles {
		if r == role {
			return
		}
	}
	n.Roles = append(n.Roles, role)
}
