package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalkFindPaths(t *testing.T) {
	res := Build([]Entry{
		dir("/r/b"),
		file("/r/b/x.txt"),
		dir("/r/a"),
		file("/r/a/y.txt"),
		file("/r/z.txt"),
	}, "/r")

	assert.Equal(t, []string{"/r/a", "/r/a/y.txt", "/r/b", "/r/b/x.txt", "/r/z.txt"}, Paths(res.Nodes))
	assert.Equal(t, 5, Count(res.Nodes))

	n := Find(res.Nodes, "b/x.txt")
	require.NotNil(t, n)
	assert.Equal(t, 1, n.Depth)
	assert.Nil(t, Find(res.Nodes, "missing"))

	visited := 0
	Walk(res.Nodes, func(*TreeNode) bool {
		visited++
		return visited < 2
	})
	assert.Equal(t, 2, visited)
}
