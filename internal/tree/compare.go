package tree

import (
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Comparator orders siblings: directories first, then names in locale-aware,
// case-insensitive order. Byte order of the name and then the path break ties.
//
// A Comparator is not safe for concurrent use.
type Comparator struct {
	coll *collate.Collator
}

// NewComparator returns a comparator for the given locale.
func NewComparator(tag language.Tag) *Comparator {
	return &Comparator{coll: collate.New(tag, collate.IgnoreCase)}
}

// Compare returns a negative number when a sorts before b, zero when they are
// the same node, and a positive number otherwise.
func (c *Comparator) Compare(a, b *TreeNode) int {
	if a.Kind != b.Kind {
		if a.Kind == KindDirectory {
			return -1
		}
		return 1
	}
	if r := c.coll.CompareString(a.Name, b.Name); r != 0 {
		return r
	}
	if r := strings.Compare(a.Name, b.Name); r != 0 {
		return r
	}
	return strings.Compare(a.Path, b.Path)
}
