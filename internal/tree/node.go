package tree

import "fmt"

// Kind distinguishes files from directories.
type Kind int

const (
	KindFile Kind = iota
	KindDirectory
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDirectory:
		return "directory"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind as "file" or "directory".
func (k Kind) MarshalText() ([]byte, error) {
	switch k {
	case KindFile, KindDirectory:
		return []byte(k.String()), nil
	}
	return nil, fmt.Errorf("invalid kind %d", int(k))
}

// UnmarshalText accepts "file", "directory" and "dir".
func (k *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "file":
		*k = KindFile
	case "directory", "dir":
		*k = KindDirectory
	default:
		return fmt.Errorf("invalid kind %q", string(text))
	}
	return nil
}

// Entry is a single file or directory record from a scan.
type Entry struct {
	Path string         `json:"path"`
	Name string         `json:"name"`
	Kind Kind           `json:"kind"`
	Meta map[string]any `json:"meta,omitempty"`
}

// NestedNode is a scan result delivered as a tree.
type NestedNode struct {
	Path     string         `json:"path,omitempty"`
	Name     string         `json:"name,omitempty"`
	Kind     Kind           `json:"kind"`
	Meta     map[string]any `json:"meta,omitempty"`
	Children []*NestedNode  `json:"children,omitempty"`
}

// TreeNode is an Entry placed in the built hierarchy.
type TreeNode struct {
	Path         string         `json:"path"`
	Name         string         `json:"name"`
	Kind         Kind           `json:"kind"`
	Meta         map[string]any `json:"meta,omitempty"`
	RelativePath string         `json:"relative_path"`
	Depth        int            `json:"depth"`
	// Outside marks entries that are not under the project root.
	Outside  bool        `json:"outside,omitempty"`
	Children []*TreeNode `json:"children,omitempty"`
}

// IsDir reports whether the node is a directory.
func (n *TreeNode) IsDir() bool {
	return n.Kind == KindDirectory
}

// Entry strips the derived fields.
func (n *TreeNode) Entry() Entry {
	return Entry{Path: n.Path, Name: n.Name, Kind: n.Kind, Meta: n.Meta}
}
