package parser

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// splitFrontMatter separates a leading YAML block delimited by `---` lines
// from the Markdown body. A missing closing delimiter means there is no
// front matter.
func splitFrontMatter(src []byte) (map[string]any, []byte, error) {
	s := bytes.TrimPrefix(src, []byte("\ufeff"))
	first, rest, ok := bytes.Cut(s, []byte("\n"))
	if !ok || strings.TrimSpace(string(first)) != "---" {
		return nil, src, nil
	}

	var block []byte
	for len(rest) > 0 {
		var line []byte
		line, rest, _ = bytes.Cut(rest, []byte("\n"))
		if d := strings.TrimSpace(string(line)); d == "---" || d == "..." {
			meta := map[string]any{}
			if err := yaml.Unmarshal(block, &meta); err != nil {
				return nil, nil, fmt.Errorf("parse front matter: %w", err)
			}
			return meta, rest, nil
		}
		block = append(block, line...)
		block = append(block, '\n')
	}
	return nil, src, nil
}

// applyFrontMatter copies front matter keys onto the document. title and
// author set the document fields; a nested attributes map is flattened.
func applyFrontMatter(b *treeBuilder, meta map[string]any) {
	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := meta[k]
		switch k {
		case "title":
			b.setTitle(escapeText(yamlString(v)))
		case "author":
			b.tree.Author = yamlString(v)
		case "attributes":
			if m, ok := v.(map[string]any); ok {
				for name, val := range m {
					b.tree.SetAttr(name, yamlString(val))
				}
				continue
			}
			b.tree.SetAttr(k, yamlString(v))
		default:
			b.tree.SetAttr(k, yamlString(v))
		}
	}
}

// yamlString flattens a decoded YAML value; lists join with ", ".
func yamlString(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, yamlString(item))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(v)
	}
}
