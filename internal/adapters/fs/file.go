package fs

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aatuh/treesync/internal/scan"
	"github.com/aatuh/treesync/internal/tree"
)

// FileScanner reads a previously captured scan document. Path "-" or "" reads Stdin.
type FileScanner struct {
	Path  string
	Stdin io.Reader
}

func (s FileScanner) Scan(ctx context.Context, _ scan.Request) ([]tree.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Path == "" || s.Path == "-" {
		in := s.Stdin
		if in == nil {
			in = os.Stdin
		}
		return scan.Decode(in)
	}

	// #nosec G304 -- input path is user-provided by design.
	file, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open scan result: %w", err)
	}
	defer file.Close()

	entries, err := scan.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Path, err)
	}
	return entries, nil
}
