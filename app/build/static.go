package build

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// copyStatic mirrors the static directory into the output root
func (b *Builder) copyStatic() error {
	if b.opts.StaticDir == "" {
		return nil
	}

	root := os.DirFS(b.opts.StaticDir)
	err := fs.WalkDir(root, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		data, err := fs.ReadFile(root, path)
		if err != nil {
			return err
		}
		return b.write(filepath.FromSlash(path), data)
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to copy static files: %w", err)
	}
	return nil
}
