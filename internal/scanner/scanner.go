// Package scanner lists the image files of a source tree. Traversal is
// read-only; routing and transformation of the listed files belong to the
// pipeline.
package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"imagemod/pkg/domain"
	"imagemod/pkg/serrors"
)

// FileScanner walks a directory tree and returns the image files in a
// deterministic order, excluding everything under the quarantine folder.
type FileScanner struct {
	// quarantineDir is the name of the quarantine subdirectory under the scan
	// root. The directory and everything below it are never listed.
	quarantineDir string
}

// New constructs a FileScanner that excludes the named quarantine
// subdirectory of the scan root.
func New(quarantineDir string) *FileScanner {
	return &FileScanner{quarantineDir: quarantineDir}
}

// Scan lists all image files under root depth-first. Directories are visited
// in lexical order (os.ReadDir sorts entries by name), so a single run always
// processes files in the same order on the same tree. Any directory read
// error aborts the scan: a partial listing that silently skips files would
// let unmoderated content through.
func (s *FileScanner) Scan(ctx context.Context, root string) ([]string, error) {
	quarantinePath := filepath.Join(root, s.quarantineDir)

	// Explicit worklist instead of recursion; pending directories are pushed
	// in reverse so they pop in lexical order.
	stack := []string{root}
	var files []string

	for len(stack) > 0 {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("scan canceled: %w", ctx.Err())
		default:
		}

		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, serrors.Wrap(serrors.ErrScan, err, "could not read directory %q", dir)
		}

		var subdirs []string
		for _, entry := range entries {
			path := filepath.Join(dir, entry.Name())
			if entry.IsDir() {
				if path == quarantinePath {
					continue
				}
				subdirs = append(subdirs, path)

				continue
			}
			if domain.IsImageFile(entry.Name()) {
				files = append(files, path)
			}
		}

		for i := len(subdirs) - 1; i >= 0; i-- {
			stack = append(stack, subdirs[i])
		}
	}

	return files, nil
}
