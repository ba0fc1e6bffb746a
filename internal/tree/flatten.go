package tree

import "github.com/aatuh/treesync/internal/pathutil"

// Flatten lists every node of a nested scan result in pre-order, parents before
// children and siblings as received. A node without a path gets one from its
// parent's path and its name; a node with children is treated as a directory.
func Flatten(nodes []*NestedNode) []Entry {
	type item struct {
		node   *NestedNode
		parent string
	}

	stack := make([]item, 0, len(nodes))
	for i := len(nodes) - 1; i >= 0; i-- {
		stack = append(stack, item{node: nodes[i]})
	}

	out := make([]Entry, 0, len(nodes))
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := it.node
		if n == nil {
			continue
		}

		p := n.Path
		if p == "" && n.Name != "" {
			p = pathutil.Join(it.parent, n.Name)
		}
		name := n.Name
		if name == "" {
			name = pathutil.Base(pathutil.Normalize(p))
		}
		kind := n.Kind
		if len(n.Children) > 0 {
			kind = KindDirectory
		}
		out = append(out, Entry{Path: p, Name: name, Kind: kind, Meta: n.Meta})

		parent := pathutil.Normalize(p)
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, item{node: n.Children[i], parent: parent})
		}
	}
	return out
}

// Nest converts built nodes back into the nested scan shape, dropping derived fields.
func Nest(nodes []*TreeNode) []*NestedNode {
	type item struct {
		src *TreeNode
		dst *NestedNode
	}

	out := make([]*NestedNode, len(nodes))
	stack := make([]item, 0, len(nodes))
	for i, n := range nodes {
		out[i] = &NestedNode{Path: n.Path, Name: n.Name, Kind: n.Kind, Meta: n.Meta}
		stack = append(stack, item{src: n, dst: out[i]})
	}

	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if len(it.src.Children) == 0 {
			continue
		}
		it.dst.Children = make([]*NestedNode, len(it.src.Children))
		for i, c := range it.src.Children {
			it.dst.Children[i] = &NestedNode{Path: c.Path, Name: c.Name, Kind: c.Kind, Meta: c.Meta}
			stack = append(stack, item{src: c, dst: it.dst.Children[i]})
		}
	}
	return out
}
