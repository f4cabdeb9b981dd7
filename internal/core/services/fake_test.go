package services

import (
	"fmt"
	"io"

	"github.com/JoLichtenfeld/ros2bag-tools/internal/core/domain"
	"github.com/JoLichtenfeld/ros2bag-tools/internal/core/ports/driven"
)

// fakeStorage implements driven.Storage in memory for service tests.
type fakeStorage struct {
	bags     map[string]*fakeBag
	dirs     map[string][]string
	existing map[string]bool

	written map[string]*memWriter
	copied  map[string]string
	removed []string
	renamed map[string]string
}

type fakeBag struct {
	backend  domain.Backend
	meta     *domain.BagMetadata
	msgs     []domain.Message
	segments []string
	segMeta  map[string]*domain.BagMetadata
	descErr  error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		bags:     make(map[string]*fakeBag),
		dirs:     make(map[string][]string),
		existing: make(map[string]bool),
		written:  make(map[string]*memWriter),
		copied:   make(map[string]string),
		renamed:  make(map[string]string),
	}
}

func (f *fakeStorage) addBag(path string, bag *fakeBag) {
	if bag.backend == "" {
		bag.backend = domain.BackendSQLite3
	}
	if bag.meta == nil {
		bag.meta = &domain.BagMetadata{Backend: bag.backend}
	}
	if len(bag.segments) == 0 {
		bag.segments = []string{path + "/seg_0" + bag.backend.Extension()}
	}
	f.bags[path] = bag
}

func (f *fakeStorage) Exists(path string) bool {
	if _, ok := f.bags[path]; ok {
		return true
	}
	if _, ok := f.dirs[path]; ok {
		return true
	}
	return f.existing[path]
}

func (f *fakeStorage) SubDirs(path string) ([]string, error) {
	subs, ok := f.dirs[path]
	if !ok {
		return nil, fmt.Errorf("not a directory: %s", path)
	}
	return subs, nil
}

func (f *fakeStorage) IsBag(path string) bool {
	_, ok := f.bags[path]
	return ok
}

func (f *fakeStorage) DetectBackend(path string) (domain.Backend, bool) {
	bag, ok := f.bags[path]
	if !ok {
		return "", false
	}
	return bag.backend, true
}

func (f *fakeStorage) ReadDescriptor(path string) (*domain.BagMetadata, error) {
	bag, ok := f.bags[path]
	if !ok {
		return nil, fmt.Errorf("no descriptor at %s", path)
	}
	if bag.descErr != nil {
		return nil, bag.descErr
	}
	return bag.meta, nil
}

func (f *fakeStorage) SegmentFiles(path string) ([]string, error) {
	bag, ok := f.bags[path]
	if !ok {
		return nil, fmt.Errorf("no bag at %s", path)
	}
	return bag.segments, nil
}

func (f *fakeStorage) OpenReader(path string) (driven.BagReader, error) {
	bag, ok := f.bags[path]
	if !ok {
		return nil, fmt.Errorf("no bag at %s", path)
	}
	return &memReader{meta: bag.meta, msgs: bag.msgs}, nil
}

func (f *fakeStorage) OpenSegment(file string, _ domain.Backend) (driven.BagReader, error) {
	for _, bag := range f.bags {
		if meta, ok := bag.segMeta[file]; ok {
			return &memReader{meta: meta}, nil
		}
	}
	return nil, fmt.Errorf("no segment %s", file)
}

func (f *fakeStorage) NewWriter(path string, backend domain.Backend, maxSegmentBytes int64) (driven.BagWriter, error) {
	w := &memWriter{backend: backend, maxBytes: maxSegmentBytes}
	f.written[path] = w
	f.existing[path] = true
	return w, nil
}

func (f *fakeStorage) CopyBag(src, dst string) error {
	f.copied[dst] = src
	f.existing[dst] = true
	return nil
}

func (f *fakeStorage) Remove(path string) error {
	f.removed = append(f.removed, path)
	delete(f.existing, path)
	return nil
}

func (f *fakeStorage) Rename(oldPath, newPath string) error {
	f.renamed[oldPath] = newPath
	delete(f.existing, oldPath)
	f.existing[newPath] = true
	return nil
}

// memReader yields a fixed message slice.
type memReader struct {
	meta   *domain.BagMetadata
	msgs   []domain.Message
	idx    int
	closed bool
}

func (r *memReader) Metadata() (*domain.BagMetadata, error) {
	return r.meta, nil
}

func (r *memReader) Next() (*domain.Message, error) {
	if r.idx >= len(r.msgs) {
		return nil, io.EOF
	}
	msg := r.msgs[r.idx]
	r.idx++
	return &msg, nil
}

func (r *memReader) Close() error {
	r.closed = true
	return nil
}

// memWriter records everything written to it.
type memWriter struct {
	backend  domain.Backend
	maxBytes int64
	topics   []domain.TopicInfo
	msgs     []domain.Message
	closed   bool
}

func (w *memWriter) CreateTopic(topic domain.TopicInfo) error {
	w.topics = append(w.topics, topic)
	return nil
}

func (w *memWriter) Write(msg *domain.Message) error {
	w.msgs = append(w.msgs, *msg)
	return nil
}

func (w *memWriter) Close() error {
	w.closed = true
	return nil
}

// yesConfirmer and noConfirmer answer overwrite prompts in tests.
type yesConfirmer struct{ asked int }

func (c *yesConfirmer) Confirm(string) bool {
	c.asked++
	return true
}

type noConfirmer struct{ asked int }

func (c *noConfirmer) Confirm(string) bool {
	c.asked++
	return false
}
