package roadmap

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is a serialization of a Tree.
type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
)

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unsupported format %q", s)
	}
}

// ContentType is the HTTP media type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatYAML:
		return "application/yaml"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	default:
		return "application/json"
	}
}

// Encode serializes the tree.
func (t *Tree) Encode(f Format) ([]byte, error) {
	switch f {
	case FormatJSON, "":
		return json.MarshalIndent(t, "", "  ")
	case FormatYAML:
		return yaml.Marshal(t)
	case FormatMarkdown:
		return []byte(t.Markdown()), nil
	default:
		return nil, fmt.Errorf("unsupported format %q", f)
	}
}

// Markdown renders the tree as a study outline.
func (t *Tree) Markdown() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n%s\n", t.Root.Topic, t.Root.Summary)
	if len(t.Children) == 0 {
		return sb.String()
	}
	sb.WriteString("\n## Prerequisites\n")
	for _, c := range t.Children {
		fmt.Fprintf(&sb, "\n### %s\n\n%s\n", c.Topic, c.Summary)
	}
	return sb.String()
}
