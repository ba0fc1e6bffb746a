// Package scan defines the boundary to whatever lists files for a project root.
package scan

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/aatuh/treesync/internal/pathutil"
	"github.com/aatuh/treesync/internal/tree"
)

// Request asks for the entries under one or more scan paths of a project.
type Request struct {
	ProjectRoot string   `json:"root"`
	ScanPaths   []string `json:"paths,omitempty"`
}

// Paths resolves the scan paths against the project root. Relative scan paths
// are joined to the root; with no scan paths the root itself is scanned.
func (r Request) Paths() []string {
	root := pathutil.Root(r.ProjectRoot)
	if len(r.ScanPaths) == 0 {
		return []string{root}
	}
	out := make([]string, 0, len(r.ScanPaths))
	for _, p := range r.ScanPaths {
		p = pathutil.Normalize(p)
		switch {
		case p == "":
			continue
		case isAbs(p):
		case p == pathutil.CurrentDir:
			p = root
		default:
			p = pathutil.Join(root, strings.TrimPrefix(p, "./"))
		}
		if !slices.Contains(out, p) {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{root}
	}
	return out
}

// Key identifies requests that cover the same paths.
func (r Request) Key() string {
	paths := r.Paths()
	slices.Sort(paths)
	return pathutil.Root(r.ProjectRoot) + "\x00" + strings.Join(paths, "\x00")
}

func isAbs(p string) bool {
	if strings.HasPrefix(p, "/") {
		return true
	}
	// Windows drive letter, e.g. "C:/".
	return len(p) >= 2 && p[1] == ':' && (len(p) == 2 || p[2] == '/')
}

// Scanner lists entries for a request.
type Scanner interface {
	Scan(ctx context.Context, req Request) ([]tree.Entry, error)
}

// ScannerFunc adapts a function to Scanner.
type ScannerFunc func(ctx context.Context, req Request) ([]tree.Entry, error)

func (f ScannerFunc) Scan(ctx context.Context, req Request) ([]tree.Entry, error) {
	return f(ctx, req)
}

// Document is the wire shape of a scan result: a flat list, a nested tree, or both.
type Document struct {
	Entries []tree.Entry       `json:"entries,omitempty"`
	Tree    []*tree.NestedNode `json:"tree,omitempty"`
}

// Flat returns the document's entries with any nested tree flattened after them.
func (d Document) Flat() []tree.Entry {
	if len(d.Tree) == 0 {
		return d.Entries
	}
	return append(slices.Clone(d.Entries), tree.Flatten(d.Tree)...)
}

// Decode reads a Document, or a bare JSON array of entries, and returns flat entries.
func Decode(r io.Reader) ([]tree.Entry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read scan result: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	if data[0] == '[' {
		var entries []tree.Entry
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("decode scan entries: %w", err)
		}
		return entries, nil
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode scan document: %w", err)
	}
	return doc.Flat(), nil
}
