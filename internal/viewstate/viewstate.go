// Package viewstate tracks which directories of a tree are collapsed. It is
// kept apart from the tree so rebuilding the tree never loses it.
package viewstate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/aatuh/treesync/internal/pathutil"
	"github.com/aatuh/treesync/internal/tree"
)

// CurrentVersion is the file format version written by Save.
const CurrentVersion = 1

// State maps root-relative directory paths to their collapsed flag. Paths
// without an entry use the default for their depth.
type State struct {
	Version   int             `yaml:"version"`
	Collapsed map[string]bool `yaml:"collapsed,omitempty"`
	// ExpandDepth expands directories shallower than this by default.
	ExpandDepth int `yaml:"-"`
}

// New returns an empty state.
func New(expandDepth int) *State {
	return &State{Version: CurrentVersion, Collapsed: make(map[string]bool), ExpandDepth: expandDepth}
}

// Load reads a state file. A missing file yields New(expandDepth).
func Load(path string, expandDepth int) (*State, error) {
	// #nosec G304 -- state path is user-configured.
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return New(expandDepth), nil
		}
		return nil, fmt.Errorf("read view state: %w", err)
	}

	s := New(expandDepth)
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parse view state %s: %w", path, err)
	}
	if s.Version > CurrentVersion {
		return nil, fmt.Errorf("view state %s has unsupported version %d", path, s.Version)
	}
	if s.Collapsed == nil {
		s.Collapsed = make(map[string]bool)
	}
	return s, nil
}

// Save writes the state atomically, creating parent directories.
func (s *State) Save(path string) error {
	s.Version = CurrentVersion
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode view state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".viewstate-*")
	if err != nil {
		return fmt.Errorf("write view state: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write view state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write view state: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write view state: %w", err)
	}
	return nil
}

// Expanded reports whether the directory at rel is expanded.
func (s *State) Expanded(rel string) bool {
	if collapsed, ok := s.Collapsed[rel]; ok {
		return !collapsed
	}
	return pathutil.Depth(rel) < s.ExpandDepth
}

// Toggle flips rel between expanded and collapsed and returns the new expanded state.
func (s *State) Toggle(rel string) bool {
	rel = pathutil.Normalize(rel)
	expanded := !s.Expanded(rel)
	s.SetExpanded(rel, expanded)
	return expanded
}

// SetExpanded records an explicit state for rel.
func (s *State) SetExpanded(rel string, expanded bool) {
	if s.Collapsed == nil {
		s.Collapsed = make(map[string]bool)
	}
	s.Collapsed[pathutil.Normalize(rel)] = !expanded
}

// Row is one visible line of a rendered tree.
type Row struct {
	Node     *tree.TreeNode
	Expanded bool
}

// Visible lists the nodes a tree view would show: every top-level node and
// the children of expanded directories, in pre-order.
func (s *State) Visible(nodes []*tree.TreeNode) []Row {
	rows := make([]Row, 0, len(nodes))
	stack := make([]*tree.TreeNode, 0, len(nodes))
	for i := len(nodes) - 1; i >= 0; i-- {
		stack = append(stack, nodes[i])
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		row := Row{Node: n}
		if n.IsDir() {
			row.Expanded = s.Expanded(n.RelativePath)
		}
		rows = append(rows, row)
		if !row.Expanded {
			continue
		}
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
	return rows
}

// Prune drops entries for directories no longer in nodes and returns how
// many were removed.
func (s *State) Prune(nodes []*tree.TreeNode) int {
	dirs := make(map[string]bool)
	tree.Walk(nodes, func(n *tree.TreeNode) bool {
		if n.IsDir() {
			dirs[n.RelativePath] = true
		}
		return true
	})

	removed := 0
	for rel := range s.Collapsed {
		if !dirs[rel] {
			delete(s.Collapsed, rel)
			removed++
		}
	}
	return removed
}
