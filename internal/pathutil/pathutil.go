// Package pathutil canonicalizes forward-slash paths and resolves them against a project root.
package pathutil

import "strings"

// CurrentDir is the sentinel returned for the project root itself.
const CurrentDir = "."

// Normalize replaces backslashes, collapses repeated separators, and strips a trailing
// separator. The filesystem root normalizes to "/". It does not validate the path.
func Normalize(p string) string {
	if p == "" {
		return ""
	}
	if !strings.Contains(p, `\`) && !strings.Contains(p, "//") {
		return trimTrailing(p)
	}
	p = strings.ReplaceAll(p, `\`, "/")

	var b strings.Builder
	b.Grow(len(p))
	prevSlash := false
	for i := 0; i < len(p); i++ {
		c := p[i]
		if c == '/' {
			if prevSlash {
				continue
			}
			prevSlash = true
		} else {
			prevSlash = false
		}
		b.WriteByte(c)
	}

	return trimTrailing(b.String())
}

func trimTrailing(p string) string {
	if len(p) > 1 && p[len(p)-1] == '/' {
		return p[:len(p)-1]
	}
	return p
}

// Relativize returns absPath relative to root. The root itself yields ".", and a path
// outside the root is returned normalized but otherwise unchanged.
func Relativize(absPath, root string) string {
	absPath = Normalize(absPath)
	root = Normalize(root)

	if absPath == root {
		return CurrentDir
	}
	if rel, ok := trimRoot(absPath, root); ok {
		return rel
	}
	return absPath
}

// Within reports whether p is the root or lies beneath it.
func Within(p, root string) bool {
	p = Normalize(p)
	root = Normalize(root)
	if p == root {
		return true
	}
	_, ok := trimRoot(p, root)
	return ok
}

func trimRoot(p, root string) (string, bool) {
	switch root {
	case "":
		return "", false
	case "/":
		if len(p) > 1 && p[0] == '/' {
			return p[1:], true
		}
		return "", false
	case CurrentDir:
		if strings.HasPrefix(p, "./") {
			p = p[2:]
		}
		if p == "" || p[0] == '/' || p == ".." || strings.HasPrefix(p, "../") {
			return "", false
		}
		return p, true
	}

	prefix := root + "/"
	if strings.HasPrefix(p, prefix) && len(p) > len(prefix) {
		return p[len(prefix):], true
	}
	return "", false
}

// Dir returns the parent of a normalized path. Bare names have parent "." and
// top-level absolute names have parent "/".
func Dir(p string) string {
	i := strings.LastIndexByte(p, '/')
	switch {
	case i < 0:
		return CurrentDir
	case i == 0:
		return "/"
	default:
		return p[:i]
	}
}

// Base returns the last segment of a normalized path.
func Base(p string) string {
	if p == "/" {
		return p
	}
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[i+1:]
	}
	return p
}

// Join appends name to a normalized parent path.
func Join(parent, name string) string {
	switch parent {
	case "", CurrentDir:
		return name
	case "/":
		return "/" + name
	}
	return parent + "/" + name
}

// Depth counts the separators in a relative path. The root sentinel has depth 0.
func Depth(rel string) int {
	if rel == CurrentDir {
		return 0
	}
	return strings.Count(rel, "/")
}

// Root normalizes a project root. An empty root means the current directory.
func Root(root string) string {
	if root = Normalize(root); root == "" {
		return CurrentDir
	}
	return root
}
