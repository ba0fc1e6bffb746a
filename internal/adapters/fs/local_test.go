package fs

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aatuh/treesync/internal/filter"
	"github.com/aatuh/treesync/internal/scan"
	"github.com/aatuh/treesync/internal/tree"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func relPaths(t *testing.T, root string, entries []tree.Entry) []string {
	t.Helper()
	prefix := filepath.ToSlash(root)
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = strings.TrimPrefix(strings.TrimPrefix(e.Path, prefix), "/")
	}
	return out
}

func TestLocalScannerListsRootAndDescendants(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/main.go", "package main\n")
	writeFile(t, root, "README.md", "hello")

	entries, err := LocalScanner{}.Scan(context.Background(), scan.Request{ProjectRoot: filepath.ToSlash(root)})
	require.NoError(t, err)

	assert.Equal(t, []string{"", "README.md", "src", "src/main.go"}, relPaths(t, root, entries))
	assert.Equal(t, tree.KindDirectory, entries[0].Kind)
	assert.Equal(t, tree.KindDirectory, entries[2].Kind)
	assert.Equal(t, "main.go", entries[3].Name)
	assert.Equal(t, int64(5), entries[1].Meta["size"])
	assert.NotEmpty(t, entries[1].Meta["mtime"])
}

func TestLocalScannerAppliesFilter(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "build/out.bin", "x")
	writeFile(t, root, "src/main.go", "package main\n")
	writeFile(t, root, "debug.log", "x")

	rules, err := filter.ParseRules(filter.ModeBlacklist, strings.NewReader("build/\n*.log\n"))
	require.NoError(t, err)
	scanner := LocalScanner{Filter: filter.NewRuleSetFilter([]filter.RuleSet{rules}, filter.ModeBlacklist)}

	entries, err := scanner.Scan(context.Background(), scan.Request{ProjectRoot: filepath.ToSlash(root)})
	require.NoError(t, err)
	assert.Equal(t, []string{"", "src", "src/main.go"}, relPaths(t, root, entries))
}

func TestLocalScannerScanPaths(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a/one.txt", "1")
	writeFile(t, root, "b/two.txt", "2")
	writeFile(t, root, "c/three.txt", "3")

	req := scan.Request{ProjectRoot: filepath.ToSlash(root), ScanPaths: []string{"a", "b", "a/one.txt"}}
	entries, err := LocalScanner{}.Scan(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "a/one.txt", "b", "b/two.txt"}, relPaths(t, root, entries))

	result := tree.Build(entries, filepath.ToSlash(root))
	assert.True(t, result.Diagnostics.Empty())
	require.Len(t, result.Nodes, 2)
	assert.Equal(t, "a", result.Nodes[0].RelativePath)
}

func TestLocalScannerMissingPath(t *testing.T) {
	root := t.TempDir()
	req := scan.Request{ProjectRoot: filepath.ToSlash(root), ScanPaths: []string{"missing"}}

	_, err := LocalScanner{}.Scan(context.Background(), req)
	assert.Error(t, err)
}

func TestLocalScannerCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := LocalScanner{}.Scan(ctx, scan.Request{ProjectRoot: filepath.ToSlash(t.TempDir())})
	assert.ErrorIs(t, err, context.Canceled)
}
