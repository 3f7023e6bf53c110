package roadmap

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/studymap/internal/llm"
)

const eightTopics = "light\nchlorophyll\ncarbon dioxide\nwater\nglucose\noxygen\nchloroplast\nsunlight"

func newTestBuilder(fake *scriptedLLM, opts Options) *Builder {
	b := NewBuilder(fake, opts, discardLogger())
	b.newID = func() string { return "01TESTBUILD" }
	return b
}

func photosynthesisLLM() *scriptedLLM {
	return &scriptedLLM{
		summaries: map[string]string{
			"what is photosynthesis": "Photosynthesis\nPhotosynthesis is the process...",
		},
		topics: eightTopics,
	}
}

func TestBuildExpandsLastTwoTopics(t *testing.T) {
	fake := photosynthesisLLM()
	tree, err := newTestBuilder(fake, DefaultOptions()).Build(context.Background(), "what is photosynthesis")
	require.NoError(t, err)

	assert.Equal(t, "01TESTBUILD", tree.ID)
	assert.Equal(t, Node{Topic: "Photosynthesis", Summary: "Photosynthesis is the process..."}, tree.Root)
	assert.Equal(t, []Node{
		{Topic: "Chloroplast", Summary: "Summary of chloroplast."},
		{Topic: "Sunlight", Summary: "Summary of sunlight."},
	}, tree.Children)

	assert.Equal(t, []string{"what is photosynthesis", "chloroplast", "sunlight"}, fake.summarySubjects())
	assert.Equal(t, 1, fake.count(KindTopics))
}

func TestBuildCallOrder(t *testing.T) {
	fake := photosynthesisLLM()
	_, err := newTestBuilder(fake, DefaultOptions()).Build(context.Background(), "what is photosynthesis")
	require.NoError(t, err)

	kinds := make([]string, 0, len(fake.calls))
	for _, c := range fake.calls {
		kinds = append(kinds, c.Kind)
	}
	assert.Equal(t, []string{KindSummary, KindTopics, KindSummary, KindSummary}, kinds)

	// The extractor sees the root summary, not the raw completion.
	assert.Equal(t, "Photosynthesis is the process...", fake.calls[1].Messages[1].Content)
}

func TestBuildPassesParentContextToChildren(t *testing.T) {
	fake := photosynthesisLLM()
	_, err := newTestBuilder(fake, DefaultOptions()).Build(context.Background(), "what is photosynthesis")
	require.NoError(t, err)

	root := fake.calls[0]
	require.Len(t, root.Messages, 2)
	assert.Equal(t, llm.RoleSystem, root.Messages[0].Role)
	assert.Equal(t, llm.RoleUser, root.Messages[1].Role)

	child := fake.calls[2]
	require.Len(t, child.Messages, 3)
	assert.Equal(t, llm.RoleSystem, child.Messages[2].Role)
	assert.Contains(t, child.Messages[2].Content, "foundational topic for understanding Photosynthesis")
}

func TestBuildWithoutParentContext(t *testing.T) {
	fake := photosynthesisLLM()
	opts := DefaultOptions()
	opts.ParentContext = false
	_, err := newTestBuilder(fake, opts).Build(context.Background(), "what is photosynthesis")
	require.NoError(t, err)

	for _, c := range fake.calls {
		assert.Len(t, c.Messages, 2)
	}
}

func TestBuildChildCountBoundedByFanOut(t *testing.T) {
	tests := []struct {
		name   string
		topics string
		opts   Options
		want   []string
	}{
		{"fewer topics than fan-out", "water", DefaultOptions(), []string{"Water"}},
		{"no topics", "", DefaultOptions(), []string{}},
		{"blank lines dropped", "water\n\n- oxygen\n\n", DefaultOptions(), []string{"Water", "Oxygen"}},
		{"fan-out zero", eightTopics, Options{FanOut: 0, Policy: PolicyLast}, []string{}},
		{"fan-out three", eightTopics, Options{FanOut: 3, Policy: PolicyLast}, []string{"Oxygen", "Chloroplast", "Sunlight"}},
		{"html-looking topics survive cleanup", "DOM\n<div> element\nVec<T> in Rust", DefaultOptions(), []string{"<div> element", "Vec<T> in Rust"}},
		{"tag mid-topic", "events\nHTML <div> element\n<canvas> element", DefaultOptions(), []string{"HTML <div> element", "<canvas> element"}},
		{"first policy", eightTopics, Options{FanOut: 2, Policy: PolicyFirst}, []string{"Light", "Chlorophyll"}},
		{"fan-out above topic count", eightTopics, Options{FanOut: 20}, []string{
			"Light", "Chlorophyll", "Carbon dioxide", "Water", "Glucose", "Oxygen", "Chloroplast", "Sunlight",
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fake := photosynthesisLLM()
			fake.topics = tc.topics
			tree, err := newTestBuilder(fake, tc.opts).Build(context.Background(), "what is photosynthesis")
			require.NoError(t, err)

			got := make([]string, 0, len(tree.Children))
			for _, c := range tree.Children {
				got = append(got, c.Topic)
			}
			assert.Equal(t, tc.want, got)
			assert.Equal(t, len(tc.want)+1, fake.count(KindSummary))
		})
	}
}

func TestBuildRootGenerationFailure(t *testing.T) {
	fake := photosynthesisLLM()
	fake.failOn = map[string]error{"what is photosynthesis": &llm.APIError{StatusCode: 401, Message: "invalid api key"}}

	tree, err := newTestBuilder(fake, DefaultOptions()).Build(context.Background(), "what is photosynthesis")
	assert.Nil(t, tree)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrGenerationFailure))

	var apiErr *llm.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.StatusCode)

	assert.Len(t, fake.calls, 1, "no extraction or child calls after a root failure")
}

func TestBuildRootMalformed(t *testing.T) {
	fake := photosynthesisLLM()
	fake.summaries["what is photosynthesis"] = "Photosynthesis"

	tree, err := newTestBuilder(fake, DefaultOptions()).Build(context.Background(), "what is photosynthesis")
	assert.Nil(t, tree)
	assert.True(t, errors.Is(err, ErrMalformedModelOutput))
	assert.False(t, errors.Is(err, ErrGenerationFailure))
	assert.Len(t, fake.calls, 1)
}

func TestBuildExtractionFailure(t *testing.T) {
	fake := photosynthesisLLM()
	fake.topicsErr = errors.New("connection reset")

	tree, err := newTestBuilder(fake, DefaultOptions()).Build(context.Background(), "what is photosynthesis")
	assert.Nil(t, tree)
	assert.True(t, errors.Is(err, ErrExtractionFailure))
	assert.Equal(t, "extraction_failure", KindOf(err))
	assert.Equal(t, 1, fake.count(KindSummary))
}

func TestBuildChildFailureAbortsWholeBuild(t *testing.T) {
	fake := photosynthesisLLM()
	fake.failOn = map[string]error{"sunlight": errors.New("timeout")}

	tree, err := newTestBuilder(fake, DefaultOptions()).Build(context.Background(), "what is photosynthesis")
	assert.Nil(t, tree, "no partial tree")
	assert.True(t, errors.Is(err, ErrGenerationFailure))

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, "sunlight", genErr.Subject)
	// chloroplast succeeded before sunlight failed
	assert.Equal(t, []string{"what is photosynthesis", "chloroplast", "sunlight"}, fake.summarySubjects())
}

func TestBuildChildMalformedAbortsWholeBuild(t *testing.T) {
	fake := photosynthesisLLM()
	fake.summaries["chloroplast"] = "Chloroplast"

	tree, err := newTestBuilder(fake, DefaultOptions()).Build(context.Background(), "what is photosynthesis")
	assert.Nil(t, tree)
	assert.True(t, errors.Is(err, ErrMalformedModelOutput))
	assert.Equal(t, []string{"what is photosynthesis", "chloroplast"}, fake.summarySubjects())
}

func TestBuildRepeatsCallsForSameSubject(t *testing.T) {
	fake := photosynthesisLLM()
	b := newTestBuilder(fake, DefaultOptions())
	for range 2 {
		_, err := b.Build(context.Background(), "what is photosynthesis")
		require.NoError(t, err)
	}
	assert.Equal(t, 6, fake.count(KindSummary))
	assert.Equal(t, 2, fake.count(KindTopics))
}

func TestBuildRoadmapEncodes(t *testing.T) {
	fake := photosynthesisLLM()
	out, err := newTestBuilder(fake, DefaultOptions()).BuildRoadmap(context.Background(), "what is photosynthesis", FormatMarkdown)
	require.NoError(t, err)
	assert.Contains(t, string(out), "# Photosynthesis")
	assert.Contains(t, string(out), "### Sunlight")
}

func TestNewBuilderClampsOptions(t *testing.T) {
	b := NewBuilder(&scriptedLLM{}, Options{FanOut: -3}, discardLogger())
	assert.Equal(t, 0, b.opts.FanOut)
	assert.Equal(t, PolicyLast, b.opts.Policy)
	assert.NotEmpty(t, b.newID())
}

func TestSelectTopics(t *testing.T) {
	topics := []string{"a", "b", "c", "d"}
	assert.Equal(t, []string{"c", "d"}, SelectTopics(topics, 2, PolicyLast))
	assert.Equal(t, []string{"a", "b"}, SelectTopics(topics, 2, PolicyFirst))
	assert.Equal(t, topics, SelectTopics(topics, 4, PolicyLast))
	assert.Empty(t, SelectTopics(topics, 0, PolicyLast))
	assert.Empty(t, SelectTopics(nil, 2, PolicyLast))
}

func TestParseTopicPolicy(t *testing.T) {
	for in, want := range map[string]TopicPolicy{"": PolicyLast, "last": PolicyLast, " FIRST ": PolicyFirst} {
		got, err := ParseTopicPolicy(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseTopicPolicy("relevant")
	assert.Error(t, err)
}

func TestSplitTopicsKeepsLinesUnchanged(t *testing.T) {
	assert.Equal(t, []string{"light", "", "1. water", ""}, SplitTopics("light\n\n1. water\n"))
	assert.Equal(t, []string{"water", "oxygen"}, CleanTopics([]string{"", " water ", "- oxygen", "  "}))
}
