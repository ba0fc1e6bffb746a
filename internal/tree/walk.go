package tree

// Walk visits nodes in pre-order. Returning false from fn stops the walk.
func Walk(nodes []*TreeNode, fn func(n *TreeNode) bool) {
	stack := make([]*TreeNode, 0, len(nodes))
	for i := len(nodes) - 1; i >= 0; i-- {
		stack = append(stack, nodes[i])
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(n) {
			return
		}
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
}

// Find returns the node with the given relative path, or nil.
func Find(nodes []*TreeNode, relPath string) *TreeNode {
	var found *TreeNode
	Walk(nodes, func(n *TreeNode) bool {
		if n.RelativePath == relPath {
			found = n
			return false
		}
		return true
	})
	return found
}

// Count returns the number of nodes in the forest.
func Count(nodes []*TreeNode) int {
	count := 0
	Walk(nodes, func(*TreeNode) bool {
		count++
		return true
	})
	return count
}

// Paths lists every node's path in pre-order.
func Paths(nodes []*TreeNode) []string {
	paths := make([]string, 0, len(nodes))
	Walk(nodes, func(n *TreeNode) bool {
		paths = append(paths, n.Path)
		return true
	})
	return paths
}
