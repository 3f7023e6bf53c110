package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/studymap/internal/roadmap"
)

func TestReadSubject(t *testing.T) {
	got, err := readSubject([]string{"  photosynthesis "}, strings.NewReader("ignored"), false)
	require.NoError(t, err)
	assert.Equal(t, "photosynthesis", got)

	got, err = readSubject(nil, strings.NewReader("black holes\n"), false)
	require.NoError(t, err)
	assert.Equal(t, "black holes", got)

	_, err = readSubject(nil, strings.NewReader("ignored"), true)
	assert.Error(t, err)

	_, err = readSubject(nil, strings.NewReader("   \n"), false)
	assert.Error(t, err)
}

func TestRenderTreePlain(t *testing.T) {
	tree := &roadmap.Tree{
		Root:     roadmap.Node{Topic: "Photosynthesis", Summary: "Plants make sugar."},
		Children: []roadmap.Node{{Topic: "Sunlight", Summary: "Light from the sun."}},
	}

	out, err := renderTree(tree, roadmap.FormatMarkdown, false)
	require.NoError(t, err)
	assert.Equal(t, tree.Markdown(), out)

	out, err = renderTree(tree, roadmap.FormatJSON, true)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(out, "}\n"))
	assert.Contains(t, out, `"topic": "Photosynthesis"`)
}

func TestRenderTreeTerminal(t *testing.T) {
	tree := &roadmap.Tree{Root: roadmap.Node{Topic: "Photosynthesis", Summary: "Plants make sugar."}}

	out, err := renderTree(tree, roadmap.FormatMarkdown, true)
	require.NoError(t, err)
	assert.Contains(t, out, "Photosynthesis")
}

func TestRoadmapCommandRequiresKey(t *testing.T) {
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("GROQ_API_KEY", "")
	t.Chdir(t.TempDir())

	cmd := newRootCmd()
	var stderr bytes.Buffer
	cmd.SetErr(&stderr)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"roadmap", "photosynthesis"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LLM_API_KEY")
}

func TestRoadmapCommandRejectsBadFlags(t *testing.T) {
	t.Setenv("LLM_API_KEY", "test")
	t.Chdir(t.TempDir())

	for _, args := range [][]string{
		{"roadmap", "x", "--fan-out", "9"},
		{"roadmap", "x", "--policy", "random"},
		{"roadmap", "x", "--format", "xml"},
	} {
		cmd := newRootCmd()
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetArgs(args)
		assert.Error(t, cmd.Execute(), "%v", args)
	}
}
