package viewstate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aatuh/treesync/internal/tree"
)

func sample() []*tree.TreeNode {
	entries := []tree.Entry{
		{Path: "/p/src", Name: "src", Kind: tree.KindDirectory},
		{Path: "/p/src/app", Name: "app", Kind: tree.KindDirectory},
		{Path: "/p/src/app/main.go", Name: "main.go"},
		{Path: "/p/src/util.go", Name: "util.go"},
		{Path: "/p/docs", Name: "docs", Kind: tree.KindDirectory},
		{Path: "/p/docs/guide.md", Name: "guide.md"},
		{Path: "/p/README.md", Name: "README.md"},
	}
	return tree.Build(entries, "/p").Nodes
}

func rels(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Node.RelativePath
	}
	return out
}

func TestVisibleDefaultDepth(t *testing.T) {
	nodes := sample()

	assert.Equal(t, []string{"docs", "src", "README.md"}, rels(New(0).Visible(nodes)))
	assert.Equal(t,
		[]string{"docs", "docs/guide.md", "src", "src/app", "src/util.go", "README.md"},
		rels(New(1).Visible(nodes)))
}

func TestToggle(t *testing.T) {
	nodes := sample()
	s := New(1)

	assert.False(t, s.Toggle("docs"))
	assert.True(t, s.Toggle("src/app"))

	rows := s.Visible(nodes)
	assert.Equal(t, []string{"docs", "src", "src/app", "src/app/main.go", "src/util.go", "README.md"}, rels(rows))
	assert.False(t, rows[0].Expanded)
	assert.True(t, rows[2].Expanded)
	assert.False(t, rows[5].Expanded)

	assert.True(t, s.Toggle("docs"))
	assert.True(t, s.Expanded("docs"))
}

func TestStateSurvivesRebuild(t *testing.T) {
	s := New(1)
	s.SetExpanded("src", false)

	first := s.Visible(sample())
	second := s.Visible(sample())
	assert.Equal(t, rels(first), rels(second))
	assert.NotContains(t, rels(second), "src/app")
}

func TestPrune(t *testing.T) {
	s := New(1)
	s.SetExpanded("src", false)
	s.SetExpanded("gone", true)
	s.SetExpanded("README.md", true)

	removed := s.Prune(sample())

	assert.Equal(t, 2, removed)
	assert.Equal(t, map[string]bool{"src": true}, s.Collapsed)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.yaml")
	s := New(1)
	s.SetExpanded("src", false)
	require.NoError(t, s.Save(path))

	loaded, err := Load(path, 2)
	require.NoError(t, err)
	assert.Equal(t, CurrentVersion, loaded.Version)
	assert.Equal(t, s.Collapsed, loaded.Collapsed)
	assert.Equal(t, 2, loaded.ExpandDepth)
}

func TestLoadMissingAndInvalid(t *testing.T) {
	dir := t.TempDir()

	s, err := Load(filepath.Join(dir, "none.yaml"), 1)
	require.NoError(t, err)
	assert.Empty(t, s.Collapsed)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("collapsed: [unclosed"), 0o644))
	_, err = Load(bad, 1)
	assert.Error(t, err)

	future := filepath.Join(dir, "future.yaml")
	require.NoError(t, os.WriteFile(future, []byte("version: 99\n"), 0o644))
	_, err = Load(future, 1)
	assert.ErrorContains(t, err, "unsupported version")
}
