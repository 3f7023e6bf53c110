package roadmap

import (
	"context"
	"fmt"
	"strings"

	"github.com/dgallion1/studymap/internal/llm"
)

// TopicExtractor asks the model for the foundational topics of a summary.
type TopicExtractor struct {
	llm Completer
}

func NewTopicExtractor(c Completer) *TopicExtractor {
	return &TopicExtractor{llm: c}
}

// FindImportant returns the completion split into lines, unvalidated.
func (e *TopicExtractor) FindImportant(ctx context.Context, summary string) ([]string, error) {
	text, err := e.llm.Complete(ctx, llm.Request{
		Kind: KindTopics,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: topicsInstruction},
			{Role: llm.RoleUser, Content: summary},
		},
	})
	if err != nil {
		return nil, &ExtractionError{Err: err}
	}
	return SplitTopics(text), nil
}

// SplitTopics splits an extractor completion into one entry per line.
func SplitTopics(raw string) []string {
	return SplitLines(raw)
}

// CleanTopics strips markdown list markers and emphasis from topic lines and
// drops the ones left empty. Order is kept.
func CleanTopics(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if t := PlainText(l); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// TopicPolicy chooses which extracted topics get expanded into children.
type TopicPolicy string

const (
	PolicyLast  TopicPolicy = "last"
	PolicyFirst TopicPolicy = "first"
)

func ParseTopicPolicy(s string) (TopicPolicy, error) {
	switch p := TopicPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PolicyLast, nil
	case PolicyLast, PolicyFirst:
		return p, nil
	default:
		return "", fmt.Errorf("unknown topic policy %q (want %q or %q)", s, PolicyLast, PolicyFirst)
	}
}

// SelectTopics returns at most fanOut topics according to policy, in
// extraction order.
func SelectTopics(topics []string, fanOut int, policy TopicPolicy) []string {
	if fanOut <= 0 {
		return nil
	}
	if len(topics) <= fanOut {
		return topics
	}
	if policy == PolicyFirst {
		return topics[:fanOut]
	}
	return topics[len(topics)-fanOut:]
}
