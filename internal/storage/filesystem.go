package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/fleveque/logolist/internal/model"
)

// FileSystem stores exported logo PNGs on disk, one directory per brand slug:
// {baseDir}/{slug}/{size}.png
type FileSystem struct {
	baseDir string
}

// NewFileSystem creates a new FileSystem storage, ensuring the base directory exists.
func NewFileSystem(baseDir string) (*FileSystem, error) {
	// MkdirAll creates the directory and all parents (like mkdir -p).
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("creating asset directory: %w", err)
	}
	return &FileSystem{baseDir: baseDir}, nil
}

// Path returns the filesystem path for a brand's logo at a given size.
func (fs *FileSystem) Path(slug string, size model.LogoSize) string {
	return filepath.Join(fs.baseDir, slug, string(size)+".png")
}

// Read returns the stored PNG bytes, or ErrNotFound when the file is missing.
func (fs *FileSystem) Read(slug string, size model.LogoSize) ([]byte, error) {
	data, err := os.ReadFile(fs.Path(slug, size))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s/%s: %w", slug, size, err)
	}
	return data, nil
}

// WriteAll saves every rendered size of one brand. Sizes are written one by
// one; a failure leaves the earlier files in place.
func (fs *FileSystem) WriteAll(slug string, images map[model.LogoSize][]byte) error {
	if err := os.MkdirAll(filepath.Join(fs.baseDir, slug), 0755); err != nil {
		return fmt.Errorf("creating %s directory: %w", slug, err)
	}
	for size, data := range images {
		// 0644: owner rw, group r, others r — standard for non-executable files.
		if err := os.WriteFile(fs.Path(slug, size), data, 0644); err != nil {
			return fmt.Errorf("writing %s/%s: %w", slug, size, err)
		}
	}
	return nil
}

// Exists reports whether a brand has a file for the given size.
func (fs *FileSystem) Exists(slug string, size model.LogoSize) bool {
	_, err := os.Stat(fs.Path(slug, size))
	return err == nil
}

// Slugs lists the brands that have at least one exported file, sorted.
func (fs *FileSystem) Slugs() ([]string, error) {
	entries, err := os.ReadDir(fs.baseDir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", fs.baseDir, err)
	}
	var slugs []string
	for _, e := range entries {
		if e.IsDir() {
			slugs = append(slugs, e.Name())
		}
	}
	sort.Strings(slugs)
	return slugs, nil
}

// Remove deletes every file stored for a brand.
func (fs *FileSystem) Remove(slug string) error {
	return os.RemoveAll(filepath.Join(fs.baseDir, slug))
}
