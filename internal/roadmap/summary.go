package roadmap

import (
	"context"
	"strings"

	"github.com/dgallion1/studymap/internal/llm"
)

// Completer is the part of the completion client the roadmap needs.
type Completer interface {
	Complete(ctx context.Context, req llm.Request) (string, error)
}

// SummaryGenerator asks the model for a topic line and a summary paragraph.
type SummaryGenerator struct {
	llm Completer
}

func NewSummaryGenerator(c Completer) *SummaryGenerator {
	return &SummaryGenerator{llm: c}
}

// GenerateSummary returns the raw completion for subject. A non-empty
// parentContext names the topic subject is a prerequisite of.
func (g *SummaryGenerator) GenerateSummary(ctx context.Context, subject, parentContext string) (string, error) {
	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: summaryInstruction},
		{Role: llm.RoleUser, Content: subject},
	}
	if parent := strings.TrimSpace(parentContext); parent != "" {
		messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: parentContextMessage(parent)})
	}

	text, err := g.llm.Complete(ctx, llm.Request{Kind: KindSummary, Messages: messages})
	if err != nil {
		return "", &GenerationError{Subject: subject, Err: err}
	}
	return text, nil
}
