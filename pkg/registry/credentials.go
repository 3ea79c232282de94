package registry

import (
	"fmt"
	"os"
	"path/filepath"
)

// WithStagedFile writes content to a fresh file named name inside a private
// temporary directory, calls fn with the file's path and removes the
// directory when fn returns, whatever the outcome.
//
// Registry-native clients read credentials from config files (.npmrc,
// .pypirc, pip.conf). Each staged file is scoped to exactly one operation:
// the directory is created with os.MkdirTemp (mode 0700) so concurrent or
// interrupted runs never share a path, and the file is written 0600.
// baseDir selects where the directory is created; empty means os.TempDir.
func WithStagedFile(baseDir, name string, content []byte, fn func(path string) error) (err error) {
	dir, err := os.MkdirTemp(baseDir, "pkgporter-cred-*")
	if err != nil {
		return fmt.Errorf("stage credentials: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(dir); rmErr != nil && err == nil {
			err = fmt.Errorf("remove staged credentials: %w", rmErr)
		}
	}()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		return fmt.Errorf("stage credentials: %w", err)
	}
	return fn(path)
}
