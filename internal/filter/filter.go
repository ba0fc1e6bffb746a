// Package filter narrows scan results with gitignore-style rules.
package filter

import (
	"github.com/aatuh/treesync/internal/pathutil"
	"github.com/aatuh/treesync/internal/tree"
)

// Decision describes whether a path should be included and whether to descend into it.
type Decision struct {
	Include bool
	Descend bool
}

// PathFilter decides whether a root-relative path should be included and
// whether to descend into directories.
type PathFilter interface {
	Evaluate(path string, isDir bool) Decision
}

// Mode defines how rules are applied.
type Mode int

const (
	ModeBlacklist Mode = iota
	ModeWhitelist
)

func (m Mode) String() string {
	switch m {
	case ModeBlacklist:
		return "blacklist"
	case ModeWhitelist:
		return "whitelist"
	default:
		return "unknown"
	}
}

// AllowAll includes every path.
type AllowAll struct{}

func (AllowAll) Evaluate(string, bool) Decision {
	return Decision{Include: true, Descend: true}
}

// Entries keeps the entries f includes and reports how many were dropped.
// Paths are evaluated relative to root. An entry beneath a directory that f
// refuses to descend into is dropped as well. The root itself and entries
// outside it are always kept.
func Entries(entries []tree.Entry, root string, f PathFilter) ([]tree.Entry, int) {
	if f == nil {
		return entries, 0
	}

	pruned := make(map[string]bool)
	prunedDir := func(rel string) bool {
		if v, ok := pruned[rel]; ok {
			return v
		}
		v := !f.Evaluate(rel, true).Descend
		pruned[rel] = v
		return v
	}

	kept := make([]tree.Entry, 0, len(entries))
	dropped := 0
	for _, e := range entries {
		p := pathutil.Normalize(e.Path)
		if !pathutil.Within(p, root) {
			kept = append(kept, e)
			continue
		}
		rel := pathutil.Relativize(p, root)
		if rel == pathutil.CurrentDir {
			kept = append(kept, e)
			continue
		}
		if underPrunedDir(rel, prunedDir) || !f.Evaluate(rel, e.Kind == tree.KindDirectory).Include {
			dropped++
			continue
		}
		kept = append(kept, e)
	}
	return kept, dropped
}

func underPrunedDir(rel string, pruned func(string) bool) bool {
	for dir := pathutil.Dir(rel); dir != pathutil.CurrentDir && dir != "/"; dir = pathutil.Dir(dir) {
		if pruned(dir) {
			return true
		}
	}
	return false
}
