package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/aatuh/treesync/internal/tree"
	"github.com/aatuh/treesync/internal/viewstate"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatFlat = "flat"
)

func validFormat(format string) error {
	switch format {
	case formatText, formatJSON, formatFlat:
		return nil
	default:
		return fmt.Errorf("unknown format %q (want text, json or flat)", format)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// flatEntries lists nodes in display order as plain entries.
func flatEntries(nodes []*tree.TreeNode) []tree.Entry {
	entries := make([]tree.Entry, 0, len(nodes))
	tree.Walk(nodes, func(n *tree.TreeNode) bool {
		entries = append(entries, n.Entry())
		return true
	})
	return entries
}

// renderText draws the visible rows, one per line, indented by depth.
func renderText(w io.Writer, rows []viewstate.Row) error {
	var b strings.Builder
	for _, row := range rows {
		n := row.Node
		b.Reset()
		b.WriteString(strings.Repeat("  ", n.Depth))
		switch {
		case !n.IsDir():
			b.WriteString("  ")
		case row.Expanded:
			b.WriteString("v ")
		default:
			b.WriteString("> ")
		}
		b.WriteString(n.Name)
		if n.IsDir() {
			b.WriteString("/")
		} else if size, ok := metaSize(n.Meta); ok {
			b.WriteString("  ")
			b.WriteString(humanize.Bytes(size))
		}
		if n.Outside {
			b.WriteString("  (outside project)")
		}
		b.WriteByte('\n')
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
	}
	return nil
}

func metaSize(meta map[string]any) (uint64, bool) {
	switch v := meta["size"].(type) {
	case int64:
		if v >= 0 {
			return uint64(v), true
		}
	case int:
		if v >= 0 {
			return uint64(v), true
		}
	case float64:
		if v >= 0 {
			return uint64(v), true
		}
	case json.Number:
		if n, err := v.Int64(); err == nil && n >= 0 {
			return uint64(n), true
		}
	}
	return 0, false
}

// writeDiagnostics summarizes what the build worked around.
func writeDiagnostics(w io.Writer, d tree.Diagnostics) error {
	lines := make([]string, 0, 3)
	if n := d.Hidden(); n > 0 {
		lines = append(lines, fmt.Sprintf("%d %s could not be displayed", n, plural(n, "entry", "entries")))
	}
	if n := len(d.Orphans); n > 0 {
		lines = append(lines, fmt.Sprintf("%d %s shown at the top level because the parent folder was not scanned", n, plural(n, "entry", "entries")))
	}
	if n := len(d.Outside); n > 0 {
		lines = append(lines, fmt.Sprintf("%d %s outside the project root", n, plural(n, "entry lies", "entries lie")))
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
