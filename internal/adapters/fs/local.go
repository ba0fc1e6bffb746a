// Package fs provides scanners backed by the local filesystem.
package fs

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charlievieth/fastwalk"

	"github.com/aatuh/treesync/internal/filter"
	"github.com/aatuh/treesync/internal/pathutil"
	"github.com/aatuh/treesync/internal/scan"
	"github.com/aatuh/treesync/internal/tree"
)

// LocalScanner lists scan paths on the local disk, standing in for a remote
// listing service. It reads directory entries only, never file contents.
type LocalScanner struct {
	Filter filter.PathFilter
	// Follow resolves symbolic links while walking.
	Follow bool
}

func (s LocalScanner) Scan(ctx context.Context, req scan.Request) ([]tree.Entry, error) {
	root := pathutil.Root(req.ProjectRoot)
	pathFilter := s.Filter
	if pathFilter == nil {
		pathFilter = filter.AllowAll{}
	}

	var mu sync.Mutex
	seen := make(map[string]bool)
	entries := make([]tree.Entry, 0)
	add := func(p string, info fs.FileInfo) {
		mu.Lock()
		defer mu.Unlock()
		if !seen[p] {
			seen[p] = true
			entries = append(entries, entryFor(p, info))
		}
	}

	for _, scanPath := range req.Paths() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		walkRoot := filepath.FromSlash(scanPath)
		info, err := os.Stat(walkRoot)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", scanPath, err)
		}
		if !info.IsDir() {
			if s.include(root, scanPath, false, pathFilter).Include {
				add(scanPath, info)
			}
			continue
		}

		conf := &fastwalk.Config{Follow: s.Follow}
		err = fastwalk.Walk(conf, walkRoot, func(fullPath string, d fs.DirEntry, err error) error {
			if err != nil {
				if fullPath == walkRoot {
					return err
				}
				return nil
			}
			if err := ctx.Err(); err != nil {
				return err
			}

			info, err := fastwalk.StatDirEntry(fullPath, d)
			if err != nil {
				return nil
			}
			p := pathutil.Normalize(filepath.ToSlash(fullPath))
			decision := s.include(root, p, info.IsDir(), pathFilter)
			if !decision.Descend && d.IsDir() {
				return fastwalk.SkipDir
			}
			if decision.Include {
				add(p, info)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", scanPath, err)
		}
	}

	slices.SortFunc(entries, func(a, b tree.Entry) int {
		return strings.Compare(a.Path, b.Path)
	})
	return entries, nil
}

// include evaluates p against the filter. Paths outside root and root itself always pass.
func (LocalScanner) include(root, p string, isDir bool, pathFilter filter.PathFilter) filter.Decision {
	if !pathutil.Within(p, root) {
		return filter.AllowAll{}.Evaluate(p, isDir)
	}
	rel := pathutil.Relativize(p, root)
	if rel == pathutil.CurrentDir {
		return filter.AllowAll{}.Evaluate(rel, isDir)
	}
	decision := pathFilter.Evaluate(rel, isDir)
	if !isDir {
		decision.Descend = true
	}
	return decision
}

func entryFor(p string, info fs.FileInfo) tree.Entry {
	kind := tree.KindFile
	if info.IsDir() {
		kind = tree.KindDirectory
	}
	return tree.Entry{
		Path: p,
		Name: pathutil.Base(p),
		Kind: kind,
		Meta: map[string]any{
			"size":  info.Size(),
			"mtime": info.ModTime().UTC().Format(time.RFC3339),
		},
	}
}
