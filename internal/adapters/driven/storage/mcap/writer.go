package mcap

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/foxglove/mcap/go/mcap"

	"github.com/JoLichtenfeld/ros2bag-tools/internal/adapters/driven/storage/metayaml"
	"github.com/JoLichtenfeld/ros2bag-tools/internal/core/domain"
)

// messageOverheadBytes approximates the per-message record cost beyond
// the payload when accounting segment size against the cap.
const messageOverheadBytes = 32

const chunkSize = 4 * 1024 * 1024

// Writer creates a new mcap bag. Files are named <bag>_<n>.mcap and
// rotated when the size cap would be exceeded. Close writes the bag's
// metadata.yaml.
type Writer struct {
	dir      string
	base     string
	maxBytes int64

	f            *os.File
	w            *mcap.Writer
	fileIndex    int
	bytesWritten int64

	topics     []domain.TopicInfo
	channelIDs map[string]uint16
	tracker    *metayaml.Tracker
	closed     bool
}

// NewWriter creates the bag directory and its first file.
func NewWriter(dir string, maxSegmentBytes int64) (*Writer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating bag directory: %w", err)
	}
	w := &Writer{
		dir:        dir,
		base:       filepath.Base(dir),
		maxBytes:   maxSegmentBytes,
		channelIDs: make(map[string]uint16),
		tracker:    metayaml.NewTracker(domain.BackendMCAP),
	}
	if err := w.openFile(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Writer) fileName() string {
	return fmt.Sprintf("%s_%d.mcap", w.base, w.fileIndex)
}

func (w *Writer) openFile() error {
	name := w.fileName()
	f, err := os.Create(filepath.Join(w.dir, name))
	if err != nil {
		return fmt.Errorf("creating file %s: %w", name, err)
	}
	mw, err := mcap.NewWriter(f, &mcap.WriterOptions{
		Chunked:     true,
		ChunkSize:   chunkSize,
		Compression: mcap.CompressionZSTD,
	})
	if err != nil {
		f.Close()
		return fmt.Errorf("creating writer for %s: %w", name, err)
	}
	if err := mw.WriteHeader(&mcap.Header{Profile: "ros2", Library: "ros2bag-tools"}); err != nil {
		f.Close()
		return fmt.Errorf("writing header to %s: %w", name, err)
	}
	w.f = f
	w.w = mw
	w.bytesWritten = 0
	w.tracker.BeginFile(name)

	// every file repeats the full schema and channel set, keeping ids
	// stable across rotations
	for _, topic := range w.topics {
		if err := w.writeTopic(topic); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeTopic(topic domain.TopicInfo) error {
	id := w.channelIDs[topic.Name]

	encoding := topic.SchemaEncoding
	if encoding == "" {
		encoding = "ros2msg"
	}
	schemaID := id + 1
	if err := w.w.WriteSchema(&mcap.Schema{
		ID:       schemaID,
		Name:     topic.Type,
		Encoding: encoding,
		Data:     topic.SchemaData,
	}); err != nil {
		return fmt.Errorf("writing schema for %s: %w", topic.Name, err)
	}

	messageEncoding := topic.SerializationFormat
	if messageEncoding == "" {
		messageEncoding = "cdr"
	}
	if err := w.w.WriteChannel(&mcap.Channel{
		ID:              id,
		SchemaID:        schemaID,
		Topic:           topic.Name,
		MessageEncoding: messageEncoding,
		Metadata: map[string]string{
			"offered_qos_profiles": topic.OfferedQoSProfiles,
		},
	}); err != nil {
		return fmt.Errorf("writing channel for %s: %w", topic.Name, err)
	}
	return nil
}

// CreateTopic registers a topic. All topics must be created before the
// first Write so every file carries the complete schema.
func (w *Writer) CreateTopic(topic domain.TopicInfo) error {
	if _, ok := w.channelIDs[topic.Name]; ok {
		return nil
	}
	w.channelIDs[topic.Name] = uint16(len(w.topics))
	w.topics = append(w.topics, topic)
	w.tracker.AddTopic(topic)
	return w.writeTopic(topic)
}

// Write appends one message, rotating to a new file first when the
// current one would exceed the size cap.
func (w *Writer) Write(msg *domain.Message) error {
	id, ok := w.channelIDs[msg.Topic]
	if !ok {
		return fmt.Errorf("write to undeclared topic %s", msg.Topic)
	}

	cost := int64(len(msg.Data)) + messageOverheadBytes
	if w.maxBytes > 0 && w.bytesWritten > 0 && w.bytesWritten+cost > w.maxBytes {
		if err := w.rotate(); err != nil {
			return err
		}
	}

	if err := w.w.WriteMessage(&mcap.Message{
		ChannelID:   id,
		LogTime:     uint64(msg.Timestamp),
		PublishTime: uint64(msg.Timestamp),
		Data:        msg.Data,
	}); err != nil {
		return fmt.Errorf("writing message: %w", err)
	}
	w.bytesWritten += cost
	w.tracker.Record(msg.Topic, msg.Timestamp)
	return nil
}

func (w *Writer) rotate() error {
	if err := w.closeFile(); err != nil {
		return err
	}
	w.fileIndex++
	return w.openFile()
}

func (w *Writer) closeFile() error {
	var err error
	if w.w != nil {
		err = w.w.Close()
		w.w = nil
	}
	if w.f != nil {
		if cerr := w.f.Close(); err == nil {
			err = cerr
		}
		w.f = nil
	}
	return err
}

// Close flushes the last file and writes the descriptor. Safe to call
// more than once.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if err := w.closeFile(); err != nil {
		return err
	}
	return w.tracker.WriteDescriptor(w.dir)
}
