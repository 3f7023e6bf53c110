package roadmap

import (
	"fmt"
	"strings"
)

// SplitLines splits model text on line breaks, dropping a trailing \r from
// each line. Blank lines are kept.
func SplitLines(raw string) []string {
	lines := strings.Split(raw, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// ParseNode reads a summary completion: the first non-blank line is the
// topic, the second non-blank line is the summary.
func ParseNode(raw string) (Node, error) {
	var lines []string
	for _, l := range SplitLines(raw) {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
		if len(lines) == 2 {
			break
		}
	}
	if len(lines) < 2 {
		return Node{}, &MalformedOutputError{
			Raw:    raw,
			Reason: fmt.Sprintf("expected a topic line and a summary line, got %d non-blank lines", len(lines)),
		}
	}

	topic := Capitalize(strings.TrimSpace(ToASCII(PlainText(lines[0]))))
	if topic == "" {
		return Node{}, &MalformedOutputError{Raw: raw, Reason: "empty topic"}
	}
	summary := ToASCII(lines[1])
	if strings.TrimSpace(summary) == "" {
		return Node{}, &MalformedOutputError{Raw: raw, Reason: "summary has no ASCII text"}
	}
	return NewNode(topic, summary), nil
}

// NewNode builds a node from already-normalized fields.
func NewNode(topic, summary string) Node {
	return Node{Topic: topic, Summary: summary}
}
