// Package roadmap turns a subject into a two-level study roadmap: a root
// topic with its summary, plus summaries of a few foundational topics the
// root depends on.
package roadmap

import "encoding/json"

// Node is a topic paired with its generated summary paragraph.
type Node struct {
	Topic   string `json:"topic" yaml:"topic"`
	Summary string `json:"summary" yaml:"summary"`
}

// Tree is a root node plus one flat layer of prerequisite nodes.
type Tree struct {
	ID       string
	Root     Node
	Children []Node
}

// treeDoc is the wire shape shared with the web client: the root's fields
// sit at the top level next to its children.
type treeDoc struct {
	ID       string `json:"id,omitempty" yaml:"id,omitempty"`
	Topic    string `json:"topic" yaml:"topic"`
	Summary  string `json:"summary" yaml:"summary"`
	Children []Node `json:"children" yaml:"children"`
}

func (t Tree) doc() treeDoc {
	children := t.Children
	if children == nil {
		children = []Node{}
	}
	return treeDoc{
		ID:       t.ID,
		Topic:    t.Root.Topic,
		Summary:  t.Root.Summary,
		Children: children,
	}
}

func (t Tree) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.doc())
}

func (t *Tree) UnmarshalJSON(data []byte) error {
	var d treeDoc
	if err := json.Unmarshal(data, &d); err != nil {
		return err
	}
	*t = Tree{
		ID:       d.ID,
		Root:     Node{Topic: d.Topic, Summary: d.Summary},
		Children: d.Children,
	}
	return nil
}

func (t Tree) MarshalYAML() (any, error) {
	return t.doc(), nil
}
