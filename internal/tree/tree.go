// Package tree converts flat scan results into a sorted hierarchy and back.
package tree

import (
	"cmp"
	"fmt"
	"io"
	"slices"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"

	"github.com/aatuh/treesync/internal/pathutil"
)

// Reasons an entry can be skipped.
const (
	ReasonEmptyPath = "empty path"
	ReasonEmptyName = "empty name"
)

// Skip records an entry that could not be placed in the tree.
type Skip struct {
	Path   string `json:"path"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Diagnostics describes what a build had to work around.
type Diagnostics struct {
	Skipped []Skip `json:"skipped,omitempty"`
	// Orphans were promoted to the top level because their parent was not scanned.
	Orphans []string `json:"orphans,omitempty"`
	// Outside lists top-level entries that are not under the project root.
	Outside    []string `json:"outside,omitempty"`
	Duplicates []string `json:"duplicates,omitempty"`
}

// Empty reports whether the build needed no workarounds.
func (d Diagnostics) Empty() bool {
	return len(d.Skipped) == 0 && len(d.Orphans) == 0 && len(d.Outside) == 0 && len(d.Duplicates) == 0
}

// Count returns the number of recorded workarounds.
func (d Diagnostics) Count() int {
	return len(d.Skipped) + len(d.Orphans) + len(d.Outside) + len(d.Duplicates)
}

// Hidden returns how many input entries have no node of their own.
func (d Diagnostics) Hidden() int {
	return len(d.Skipped) + len(d.Duplicates)
}

// Result is the output of Build.
type Result struct {
	Nodes []*TreeNode `json:"nodes"`
	// Root holds the scanned project-root entry, if any. It anchors Nodes but is not one of them.
	Root        *TreeNode   `json:"root,omitempty"`
	Diagnostics Diagnostics `json:"diagnostics"`
}

// Option configures Build.
type Option func(*buildConfig)

type buildConfig struct {
	logger *logrus.Entry
	locale language.Tag
}

var discardLogger = func() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}()

// WithLogger routes skip warnings to logger.
func WithLogger(logger *logrus.Entry) Option {
	if logger == nil {
		panic("tree: WithLogger called with nil logger")
	}
	return func(c *buildConfig) {
		c.logger = logger
	}
}

// WithLocale selects the collation used for sibling names.
func WithLocale(tag language.Tag) Option {
	return func(c *buildConfig) {
		c.locale = tag
	}
}

type builder struct {
	root     string
	log      *logrus.Entry
	nodes    []TreeNode
	children [][]int
	index    map[string]int
	top      []int
	anchor   *TreeNode
	diag     Diagnostics
}

// Build arranges entries into a forest under root. Malformed entries are skipped
// and entries whose parent is missing are promoted to the top level; both are
// reported in the result's diagnostics. An empty root is treated as ".".
func Build(entries []Entry, root string, opts ...Option) Result {
	cfg := buildConfig{logger: discardLogger, locale: language.Und}
	for _, opt := range opts {
		opt(&cfg)
	}

	root = pathutil.Root(root)

	b := &builder{
		root:  root,
		log:   cfg.logger.WithField("root", root),
		nodes: make([]TreeNode, 0, len(entries)),
		index: make(map[string]int, len(entries)),
	}
	for i := range entries {
		b.add(entries[i])
	}
	b.placeRootFile()
	b.children = make([][]int, len(b.nodes))
	b.link()
	b.order(NewComparator(cfg.locale))

	return Result{Nodes: b.materialize(), Root: b.anchor, Diagnostics: b.finish()}
}

func (b *builder) add(e Entry) {
	p := pathutil.Normalize(e.Path)
	switch {
	case p == "":
		b.skip(e, ReasonEmptyPath)
		return
	case e.Name == "":
		b.skip(e, ReasonEmptyName)
		return
	}

	node := TreeNode{
		Path:         p,
		Name:         e.Name,
		Kind:         e.Kind,
		Meta:         e.Meta,
		RelativePath: pathutil.Relativize(p, b.root),
		Outside:      !pathutil.Within(p, b.root),
	}

	if p == b.root {
		if b.anchor != nil {
			b.diag.Duplicates = append(b.diag.Duplicates, p)
			if preferred(&node, b.anchor) {
				b.anchor = &node
			}
			return
		}
		b.anchor = &node
		return
	}

	if i, ok := b.index[p]; ok {
		b.diag.Duplicates = append(b.diag.Duplicates, p)
		if preferred(&node, &b.nodes[i]) {
			b.nodes[i] = node
		}
		return
	}
	b.index[p] = len(b.nodes)
	b.nodes = append(b.nodes, node)
}

// placeRootFile turns a root-path file into an ordinary top-level node. Only a
// directory can anchor the tree.
func (b *builder) placeRootFile() {
	if b.anchor == nil || b.anchor.IsDir() {
		return
	}
	b.index[b.anchor.Path] = len(b.nodes)
	b.nodes = append(b.nodes, *b.anchor)
	b.anchor = nil
}

// preferred reports whether a should replace b when both share a path. The
// choice depends only on the entries, never on their input position:
// directories win, then the smaller name, then the smaller metadata encoding.
func preferred(a, b *TreeNode) bool {
	if a.Kind != b.Kind {
		return a.Kind == KindDirectory
	}
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	return fmt.Sprint(a.Meta) < fmt.Sprint(b.Meta)
}

func (b *builder) skip(e Entry, reason string) {
	b.log.WithFields(logrus.Fields{"path": e.Path, "name": e.Name}).Warnf("skipping entry: %s", reason)
	b.diag.Skipped = append(b.diag.Skipped, Skip{Path: e.Path, Name: e.Name, Reason: reason})
}

// link attaches every node to its parent. Shorter paths are visited first so a
// parent is always indexed before its descendants.
func (b *builder) link() {
	order := make([]int, len(b.nodes))
	for i := range order {
		order[i] = i
	}
	slices.SortFunc(order, func(x, y int) int {
		px, py := b.nodes[x].Path, b.nodes[y].Path
		if c := cmp.Compare(len(px), len(py)); c != 0 {
			return c
		}
		return cmp.Compare(px, py)
	})

	for _, i := range order {
		n := &b.nodes[i]
		parent := pathutil.Dir(n.Path)
		if parent == b.root || parent == n.Path || n.Path == b.root {
			b.top = append(b.top, i)
			continue
		}
		if pi, ok := b.index[parent]; ok && b.nodes[pi].Kind == KindDirectory {
			b.children[pi] = append(b.children[pi], i)
			continue
		}
		b.top = append(b.top, i)
		if n.Outside {
			b.diag.Outside = append(b.diag.Outside, n.Path)
		} else {
			b.diag.Orphans = append(b.diag.Orphans, n.Path)
		}
	}
}

// order assigns depths top-down and sorts every sibling list.
func (b *builder) order(c *Comparator) {
	byName := func(x, y int) int {
		return c.Compare(&b.nodes[x], &b.nodes[y])
	}

	slices.SortFunc(b.top, byName)
	queue := slices.Clone(b.top)
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		kids := b.children[i]
		if len(kids) == 0 {
			continue
		}
		slices.SortFunc(kids, byName)
		for _, k := range kids {
			b.nodes[k].Depth = b.nodes[i].Depth + 1
		}
		queue = append(queue, kids...)
	}
}

func (b *builder) materialize() []*TreeNode {
	for i, kids := range b.children {
		if len(kids) == 0 {
			continue
		}
		out := make([]*TreeNode, len(kids))
		for j, k := range kids {
			out[j] = &b.nodes[k]
		}
		b.nodes[i].Children = out
	}

	top := make([]*TreeNode, len(b.top))
	for j, i := range b.top {
		top[j] = &b.nodes[i]
	}
	return top
}

func (b *builder) finish() Diagnostics {
	d := b.diag
	slices.Sort(d.Duplicates)
	slices.SortFunc(d.Skipped, func(x, y Skip) int {
		if c := cmp.Compare(x.Path, y.Path); c != 0 {
			return c
		}
		if c := cmp.Compare(x.Name, y.Name); c != 0 {
			return c
		}
		return cmp.Compare(x.Reason, y.Reason)
	})
	return d
}
