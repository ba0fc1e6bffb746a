package scan

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aatuh/treesync/internal/tree"
)

func TestRequestPaths(t *testing.T) {
	req := Request{ProjectRoot: "/proj/", ScanPaths: []string{"src", "./docs", "/opt/shared", ".", "src/", ""}}
	assert.Equal(t, []string{"/proj/src", "/proj/docs", "/opt/shared", "/proj"}, req.Paths())

	assert.Equal(t, []string{"/proj"}, Request{ProjectRoot: "/proj"}.Paths())
	assert.Equal(t, []string{"src"}, Request{ScanPaths: []string{"src"}}.Paths())
	assert.Equal(t, []string{"."}, Request{}.Paths())
	assert.Equal(t, []string{"C:/work"}, Request{ProjectRoot: "/proj", ScanPaths: []string{`C:\work`}}.Paths())
}

func TestRequestKeyIgnoresOrder(t *testing.T) {
	a := Request{ProjectRoot: "/p", ScanPaths: []string{"a", "b"}}
	b := Request{ProjectRoot: "/p/", ScanPaths: []string{"b", "/p/a"}}
	c := Request{ProjectRoot: "/q", ScanPaths: []string{"a", "b"}}

	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), c.Key())
	assert.Equal(t, Request{ProjectRoot: "."}.Key(), Request{}.Key())
}

func TestDecodeFlatArray(t *testing.T) {
	entries, err := Decode(strings.NewReader(`[
		{"path": "/p/src", "name": "src", "kind": "directory"},
		{"path": "/p/src/a.go", "name": "a.go", "kind": "file", "meta": {"size": 12}}
	]`))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, tree.KindDirectory, entries[0].Kind)
	assert.Equal(t, float64(12), entries[1].Meta["size"])
}

func TestDecodeNestedDocument(t *testing.T) {
	entries, err := Decode(strings.NewReader(`{
		"entries": [{"path": "/p/readme.md", "name": "readme.md", "kind": "file"}],
		"tree": [{"path": "/p/src", "name": "src", "kind": "dir", "children": [
			{"name": "main.go", "kind": "file"}
		]}]
	}`))
	require.NoError(t, err)

	got := make([]string, len(entries))
	for i, e := range entries {
		got[i] = e.Path
	}
	assert.Equal(t, []string{"/p/readme.md", "/p/src", "/p/src/main.go"}, got)
}

func TestDecodeErrors(t *testing.T) {
	entries, err := Decode(strings.NewReader("  \n"))
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = Decode(strings.NewReader(`[{"path": "/p", "kind": "socket"}]`))
	assert.ErrorContains(t, err, "invalid kind")

	_, err = Decode(strings.NewReader(`{"entries": 3}`))
	assert.Error(t, err)
}

func TestScannerFunc(t *testing.T) {
	var s Scanner = ScannerFunc(func(_ context.Context, req Request) ([]tree.Entry, error) {
		return []tree.Entry{{Path: req.ProjectRoot + "/x", Name: "x"}}, nil
	})
	entries, err := s.Scan(context.Background(), Request{ProjectRoot: "/p"})
	require.NoError(t, err)
	assert.Equal(t, "/p/x", entries[0].Path)
}
