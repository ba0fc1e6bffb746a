package filter

import "github.com/aatuh/treesync/internal/pathutil"

// ExcludePathFilter drops specific relative paths and everything beneath them.
type ExcludePathFilter struct {
	Inner    PathFilter
	Excluded map[string]struct{}
}

// NewExcludePathFilter wraps a filter with an exclusion list.
func NewExcludePathFilter(inner PathFilter, paths []string) PathFilter {
	if inner == nil {
		inner = AllowAll{}
	}
	excluded := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		p = pathutil.Normalize(p)
		if p == "" || p == pathutil.CurrentDir {
			continue
		}
		excluded[p] = struct{}{}
	}
	if len(excluded) == 0 {
		return inner
	}
	return ExcludePathFilter{Inner: inner, Excluded: excluded}
}

func (f ExcludePathFilter) Evaluate(path string, isDir bool) Decision {
	for p := pathutil.Normalize(path); p != pathutil.CurrentDir && p != "/" && p != ""; p = pathutil.Dir(p) {
		if _, ok := f.Excluded[p]; ok {
			return Decision{Include: false, Descend: false}
		}
	}
	return f.Inner.Evaluate(path, isDir)
}
