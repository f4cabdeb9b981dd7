// Package storage wires the filesystem layout of rosbag2 bags to the
// concrete backend families. A bag is a directory holding one
// metadata.yaml descriptor and one or more data segments of a single
// family: sqlite3 (*.db3) or mcap (*.mcap).
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	mcapbag "github.com/JoLichtenfeld/ros2bag-tools/internal/adapters/driven/storage/mcap"
	"github.com/JoLichtenfeld/ros2bag-tools/internal/adapters/driven/storage/metayaml"
	sqlitebag "github.com/JoLichtenfeld/ros2bag-tools/internal/adapters/driven/storage/sqlite"
	"github.com/JoLichtenfeld/ros2bag-tools/internal/core/domain"
	"github.com/JoLichtenfeld/ros2bag-tools/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.Storage = (*Store)(nil)

// Store implements driven.Storage over the local filesystem.
type Store struct{}

// New creates a filesystem-backed store.
func New() *Store {
	return &Store{}
}

// Exists reports whether the path exists.
func (s *Store) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// SubDirs lists the immediate subdirectories of path, in name order.
func (s *Store) SubDirs(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", path, err)
	}
	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, filepath.Join(path, e.Name()))
		}
	}
	return dirs, nil
}

// IsBag reports whether path is a well-formed bag directory: a
// metadata.yaml descriptor plus at least one recognized data segment.
func (s *Store) IsBag(path string) bool {
	fi, err := os.Stat(path)
	if err != nil || !fi.IsDir() {
		return false
	}
	if _, err := os.Stat(filepath.Join(path, metayaml.FileName)); err != nil {
		return false
	}
	_, ok := s.DetectBackend(path)
	return ok
}

// DetectBackend reports the storage family of the bag at path, which
// may be a bag directory or a single segment file. When a directory
// holds both families, sqlite3 wins.
func (s *Store) DetectBackend(path string) (domain.Backend, bool) {
	fi, err := os.Stat(path)
	if err != nil {
		return "", false
	}
	if !fi.IsDir() {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".db3":
			return domain.BackendSQLite3, true
		case ".mcap":
			return domain.BackendMCAP, true
		}
		return "", false
	}

	for _, backend := range []domain.Backend{domain.BackendSQLite3, domain.BackendMCAP} {
		files, err := segmentsOf(path, backend)
		if err == nil && len(files) > 0 {
			return backend, true
		}
	}
	return "", false
}

func segmentsOf(dir string, backend domain.Backend) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*"+backend.Extension()))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// SegmentFiles lists the bag's data segment files, in name order.
func (s *Store) SegmentFiles(path string) ([]string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !fi.IsDir() {
		return []string{path}, nil
	}
	backend, ok := s.DetectBackend(path)
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, domain.ErrNotABag)
	}
	return segmentsOf(path, backend)
}

// ReadDescriptor parses the bag's metadata.yaml.
func (s *Store) ReadDescriptor(path string) (*domain.BagMetadata, error) {
	return metayaml.Read(path)
}

// OpenReader opens a sequential reader over the whole bag.
func (s *Store) OpenReader(path string) (driven.BagReader, error) {
	backend, ok := s.DetectBackend(path)
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, domain.ErrNotABag)
	}
	files, err := s.SegmentFiles(path)
	if err != nil {
		return nil, err
	}
	return openFiles(files, backend)
}

// OpenSegment opens a reader over a single segment file.
func (s *Store) OpenSegment(file string, backend domain.Backend) (driven.BagReader, error) {
	return openFiles([]string{file}, backend)
}

func openFiles(files []string, backend domain.Backend) (driven.BagReader, error) {
	switch backend {
	case domain.BackendSQLite3:
		return sqlitebag.NewReader(files)
	case domain.BackendMCAP:
		return mcapbag.NewReader(files)
	}
	return nil, fmt.Errorf("unknown backend %q", backend)
}

// NewWriter creates a new bag at path with the given backend family
// and segment size cap.
func (s *Store) NewWriter(path string, backend domain.Backend, maxSegmentBytes int64) (driven.BagWriter, error) {
	switch backend {
	case domain.BackendSQLite3:
		return sqlitebag.NewWriter(path, maxSegmentBytes)
	case domain.BackendMCAP:
		return mcapbag.NewWriter(path, maxSegmentBytes)
	}
	return nil, fmt.Errorf("unknown backend %q", backend)
}

// CopyBag clones a bag directory verbatim.
func (s *Store) CopyBag(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// Remove deletes a bag directory and everything under it.
func (s *Store) Remove(path string) error {
	return os.RemoveAll(path)
}

// Rename moves a bag directory.
func (s *Store) Rename(oldPath, newPath string) error {
	return os.Rename(oldPath, newPath)
}
