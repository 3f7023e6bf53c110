package roadmap

import (
	"context"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
)

// DefaultFanOut is how many extracted topics become children by default.
const DefaultFanOut = 2

// Options controls how a root expands into children.
type Options struct {
	// FanOut bounds the number of children. Zero builds a root-only tree.
	FanOut int
	// Policy picks which extracted topics are expanded when there are more
	// than FanOut of them.
	Policy TopicPolicy
	// ParentContext passes the root topic along with each child subject.
	ParentContext bool
}

func DefaultOptions() Options {
	return Options{
		FanOut:        DefaultFanOut,
		Policy:        PolicyLast,
		ParentContext: true,
	}
}

// Builder assembles roadmaps. It keeps no state between builds.
type Builder struct {
	summaries *SummaryGenerator
	topics    *TopicExtractor
	opts      Options
	log       *slog.Logger
	newID     func() string
}

func NewBuilder(c Completer, opts Options, log *slog.Logger) *Builder {
	if opts.FanOut < 0 {
		opts.FanOut = 0
	}
	if opts.Policy == "" {
		opts.Policy = PolicyLast
	}
	if log == nil {
		log = slog.Default()
	}
	return &Builder{
		summaries: NewSummaryGenerator(c),
		topics:    NewTopicExtractor(c),
		opts:      opts,
		log:       log,
		newID:     func() string { return ulid.Make().String() },
	}
}

// Build runs the root summary, the topic extraction and one summary per
// selected topic, in that order. Any failure aborts the build.
func (b *Builder) Build(ctx context.Context, subject string) (*Tree, error) {
	start := time.Now()
	id := b.newID()
	log := b.log.With("build_id", id)

	raw, err := b.summaries.GenerateSummary(ctx, subject, "")
	if err != nil {
		return nil, b.fail(log, "root summary", err)
	}
	root, err := ParseNode(raw)
	if err != nil {
		return nil, b.fail(log, "root summary", err)
	}
	log.Debug("root summary generated", "topic", root.Topic)

	lines, err := b.topics.FindImportant(ctx, root.Summary)
	if err != nil {
		return nil, b.fail(log, "topic extraction", err)
	}
	selected := SelectTopics(CleanTopics(lines), b.opts.FanOut, b.opts.Policy)
	log.Debug("topics extracted", "lines", len(lines), "selected", selected)

	parent := ""
	if b.opts.ParentContext {
		parent = root.Topic
	}

	tree := &Tree{ID: id, Root: root, Children: make([]Node, 0, len(selected))}
	for _, topic := range selected {
		raw, err := b.summaries.GenerateSummary(ctx, topic, parent)
		if err != nil {
			return nil, b.fail(log, "child summary", err)
		}
		child, err := ParseNode(raw)
		if err != nil {
			return nil, b.fail(log, "child summary", err)
		}
		tree.Children = append(tree.Children, child)
	}

	log.Info("roadmap built",
		"topic", tree.Root.Topic,
		"children", len(tree.Children),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return tree, nil
}

// BuildRoadmap builds a tree for subject and encodes it in format f.
func (b *Builder) BuildRoadmap(ctx context.Context, subject string, f Format) ([]byte, error) {
	tree, err := b.Build(ctx, subject)
	if err != nil {
		return nil, err
	}
	return tree.Encode(f)
}

func (b *Builder) fail(log *slog.Logger, stage string, err error) error {
	log.Warn("roadmap build failed", "stage", stage, "kind", KindOf(err), "error", err)
	return err
}
