// Package fs provides the OS adapters the command layer uses to read
// annotation tables, write project files and open content trees.
package fs

import (
	"context"
	"errors"
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNotInProject is returned when no project marker is found above the
// starting directory.
var ErrNotInProject = errors.New("not in a notecheck project")

// OSReader reads documents under Root using os.ReadFile.
type OSReader struct {
	Root string
}

func (r *OSReader) path(name string) string {
	if filepath.IsAbs(name) || r.Root == "" {
		return name
	}
	return filepath.Join(r.Root, name)
}

// ReadFileImpl reads the full content of a document.
func (r *OSReader) ReadFileImpl(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(r.path(name))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", name, err)
	}
	return string(data), nil
}

// ReadFile delegates to ReadFileImpl.
func (r *OSReader) ReadFile(ctx context.Context, name string) (string, error) {
	return r.ReadFileImpl(ctx, name)
}

// ListImpl returns the names of the files in dir with the given extension,
// sorted.
func (r *OSReader) ListImpl(ctx context.Context, dir, ext string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(r.path(dir))
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ext) {
			names = append(names, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(names)
	return names, nil
}

// List delegates to ListImpl.
func (r *OSReader) List(ctx context.Context, dir, ext string) ([]string, error) {
	return r.ListImpl(ctx, dir, ext)
}

// OSWriter writes files under Root using os.WriteFile.
type OSWriter struct {
	Root string
}

// WriteFileImpl writes content to a file under Root, creating directories as
// needed.
func (w *OSWriter) WriteFileImpl(_ context.Context, filename, content string) error {
	path := filepath.Join(w.Root, filename)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

// WriteFile delegates to WriteFileImpl.
func (w *OSWriter) WriteFile(ctx context.Context, filename, content string) error {
	return w.WriteFileImpl(ctx, filename, content)
}

// Exists reports whether filename exists under Root.
func (w *OSWriter) Exists(filename string) bool {
	_, err := os.Stat(filepath.Join(w.Root, filename))
	return err == nil
}

// FindProjectRoot walks up from start looking for a directory containing
// marker. It returns ErrNotInProject when the filesystem root is reached.
func FindProjectRoot(start, marker string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", start, err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotInProject
		}
		dir = parent
	}
}

// OpenTree returns the directory root as an fs.FS. Relative roots are
// resolved against base. An empty root yields nil.
func OpenTree(base, root string) (iofs.FS, error) {
	if root == "" {
		return nil, nil
	}
	if !filepath.IsAbs(root) {
		root = filepath.Join(base, root)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("opening content tree: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("opening content tree: %s is not a directory", root)
	}
	return os.DirFS(root), nil
}
