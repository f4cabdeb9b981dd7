package driven

import (
	"io"

	"github.com/JoLichtenfeld/ros2bag-tools/internal/core/domain"
)

// Storage provides the filesystem and bag I/O primitives the core
// services run on. Backed by the rosbag2 on-disk layout: a bag is a
// directory with one metadata.yaml descriptor and one or more data
// segments of a single backend family.
type Storage interface {
	// Exists reports whether the path exists at all.
	Exists(path string) bool

	// SubDirs lists the immediate subdirectories of path, in name order.
	SubDirs(path string) ([]string, error)

	// IsBag reports whether path is a well-formed bag directory:
	// a metadata.yaml plus at least one recognized segment file.
	IsBag(path string) bool

	// DetectBackend reports the storage family of the bag at path.
	DetectBackend(path string) (domain.Backend, bool)

	// ReadDescriptor parses the bag's metadata.yaml into metadata.
	// Fails if the descriptor is absent, empty, unparsable or
	// structurally incomplete.
	ReadDescriptor(path string) (*domain.BagMetadata, error)

	// SegmentFiles lists the bag's data segment files, in name order.
	SegmentFiles(path string) ([]string, error)

	// OpenReader opens a sequential reader over the whole bag.
	OpenReader(path string) (BagReader, error)

	// OpenSegment opens a reader over a single segment file. Used by
	// the time range fallback to aggregate across segments without
	// scanning messages.
	OpenSegment(file string, backend domain.Backend) (BagReader, error)

	// NewWriter creates a new bag at path. Segments are rotated when
	// they would exceed maxSegmentBytes. Close finalizes the
	// descriptor.
	NewWriter(path string, backend domain.Backend, maxSegmentBytes int64) (BagWriter, error)

	// CopyBag clones a bag directory verbatim. Used when a bag is
	// fully contained in the target window.
	CopyBag(src, dst string) error

	// Remove deletes a bag directory and everything under it.
	Remove(path string) error

	// Rename moves a bag directory. Used by in-place splitting.
	Rename(oldPath, newPath string) error
}

// BagReader reads one bag (or one segment) sequentially. Messages are
// yielded in the order the storage produces them, which is
// non-decreasing timestamp order for recorded bags.
type BagReader interface {
	// Metadata returns the bag's self-reported metadata without
	// scanning messages.
	Metadata() (*domain.BagMetadata, error)

	// Next returns the next message, or io.EOF when the bag is
	// exhausted.
	Next() (*domain.Message, error)

	io.Closer
}

// BagWriter writes a new bag incrementally. All topics must be created
// before the first Write so the schema exists even for topics that end
// up with zero messages. Close flushes segments and writes the
// descriptor; it must be called on every exit path.
type BagWriter interface {
	// CreateTopic registers a topic's schema metadata.
	CreateTopic(topic domain.TopicInfo) error

	// Write appends one message.
	Write(msg *domain.Message) error

	io.Closer
}
