package fs

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aatuh/treesync/internal/scan"
)

func TestFileScannerReadsDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.json")
	doc := `{"tree": [{"path": "/p/src", "name": "src", "kind": "directory", "children": [{"name": "a.go"}]}]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	entries, err := FileScanner{Path: path}.Scan(context.Background(), scan.Request{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "/p/src/a.go", entries[1].Path)
}

func TestFileScannerReadsStdin(t *testing.T) {
	in := strings.NewReader(`[{"path": "/p/a", "name": "a", "kind": "file"}]`)

	entries, err := FileScanner{Path: "-", Stdin: in}.Scan(context.Background(), scan.Request{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a", entries[0].Name)
}

func TestFileScannerErrors(t *testing.T) {
	_, err := FileScanner{Path: filepath.Join(t.TempDir(), "none.json")}.Scan(context.Background(), scan.Request{})
	assert.ErrorContains(t, err, "open scan result")

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err = FileScanner{Path: path}.Scan(context.Background(), scan.Request{})
	assert.ErrorContains(t, err, "bad.json")
}
