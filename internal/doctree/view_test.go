package doctree

import "testing"

func sampleTree() *DocTree {
	return &DocTree{
		Title:      "Deck",
		Attributes: map[string]string{"imagesdir": "img", "author": "From Attr"},
		Children: []*DocNode{
			{Kind: KindParagraph, Text: "preamble"},
			{Kind: KindSection, Title: "One", Level: 1, Roles: []string{"canvas"}, Children: []*DocNode{
				{Kind: KindParagraph, Text: "a < b"},
				{Kind: KindPass, HTML: "<pre>x</pre>", Text: "ignored"},
			}},
		},
	}
}

func TestView_ParentAndIndex(t *testing.T) {
	doc := sampleTree().View()
	blocks := doc.Blocks()
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}

	sec := blocks[1]
	if sec.Index() != 1 {
		t.Errorf("expected index 1, got %d", sec.Index())
	}
	if sec.Parent() == nil || sec.Parent().Context() != KindDocument {
		t.Errorf("expected document parent")
	}
	if sec.Document() == nil || sec.Document().Title() != "Deck" {
		t.Errorf("expected document back-pointer")
	}

	kids := sec.Blocks()
	if kids[0].Parent().Title() != "One" {
		t.Errorf("expected child parent to be the section, got %q", kids[0].Parent().Title())
	}
	if kids[1].Index() != 1 {
		t.Errorf("expected child index 1, got %d", kids[1].Index())
	}
	if !sec.HasRole("canvas") || sec.HasRole("contain") {
		t.Errorf("unexpected roles %v", sec.Roles())
	}
	if doc.Parent() != nil {
		t.Errorf("document must have no parent")
	}
}

func TestView_Content(t *testing.T) {
	kids := sampleTree().View().Blocks()[1].Blocks()
	if got := kids[0].Content(); got != "a &lt; b" {
		t.Errorf("expected escaped text, got %q", got)
	}
	if got := kids[1].Content(); got != "<pre>x</pre>" {
		t.Errorf("expected verbatim HTML, got %q", got)
	}
}

func TestView_Author(t *testing.T) {
	tree := sampleTree()
	if got := tree.View().Author(); got != "From Attr" {
		t.Errorf("expected attribute fallback, got %q", got)
	}
	tree.Author = "Field"
	if got := tree.View().Author(); got != "Field" {
		t.Errorf("expected field author, got %q", got)
	}
}

func TestView_ImageURI(t *testing.T) {
	tests := []struct {
		imagesdir string
		target    string
		want      string
	}{
		{"img", "a.png", "img/a.png"},
		{"", "a.png", "a.png"},
		{"img", "https://x.org/a.png", "https://x.org/a.png"},
		{"img", "/abs/a.png", "/abs/a.png"},
		{"img", "data:image/png;base64,AA", "data:image/png;base64,AA"},
		{"https://cdn.org/img/", "a.png", "https://cdn.org/img/a.png"},
		{"img", "", ""},
	}
	for _, tt := range tests {
		tree := &DocTree{Attributes: map[string]string{"imagesdir": tt.imagesdir}}
		if got := tree.View().ImageURI(tt.target); got != tt.want {
			t.Errorf("imagesdir=%q target=%q: expected %q, got %q", tt.imagesdir, tt.target, tt.want, got)
		}
	}
}

func TestIsURL(t *testing.T) {
	tests := map[string]bool{
		"https://x.org/css": true,
		"http://x":          true,
		"//cdn.org/x":       true,
		"/abs/path":         false,
		"css/slides.css":    false,
		"c:/windows":        false,
		"://nope":           false,
	}
	for in, want := range tests {
		if got := IsURL(in); got != want {
			t.Errorf("IsURL(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestDocNode_AddRole(t *testing.T) {
	n := &DocNode{}
	n.AddRole("a")
	n.AddRole("b")
	n.AddRole("a")
	if len(n.Roles) != 2 {
		t.Errorf("expected 2 unique roles, got %v", n.Roles)
	}
}
