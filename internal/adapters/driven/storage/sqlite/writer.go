package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/JoLichtenfeld/ros2bag-tools/internal/adapters/driven/storage/metayaml"
	"github.com/JoLichtenfeld/ros2bag-tools/internal/core/domain"
)

// rowOverheadBytes approximates the per-row cost beyond the payload
// when accounting segment size against the cap.
const rowOverheadBytes = 32

const schemaSQL = `
CREATE TABLE topics(
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	type TEXT NOT NULL,
	serialization_format TEXT NOT NULL,
	offered_qos_profiles TEXT NOT NULL
);
CREATE TABLE messages(
	id INTEGER PRIMARY KEY,
	topic_id INTEGER NOT NULL,
	timestamp INTEGER NOT NULL,
	data BLOB NOT NULL
);
CREATE INDEX timestamp_idx ON messages (timestamp ASC);`

// Writer creates a new sqlite3 bag. Segments are named
// <bag>_<n>.db3 and rotated when the size cap would be exceeded.
// Close writes the bag's metadata.yaml.
type Writer struct {
	dir      string
	base     string
	maxBytes int64

	db           *sql.DB
	insert       *sql.Stmt
	fileIndex    int
	bytesWritten int64

	topics   []domain.TopicInfo
	topicIDs map[string]int64
	tracker  *metayaml.Tracker
	closed   bool
}

// NewWriter creates the bag directory and its first segment. The
// directory must not already exist.
func NewWriter(dir string, maxSegmentBytes int64) (*Writer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating bag directory: %w", err)
	}
	w := &Writer{
		dir:      dir,
		base:     filepath.Base(dir),
		maxBytes: maxSegmentBytes,
		topicIDs: make(map[string]int64),
		tracker:  metayaml.NewTracker(domain.BackendSQLite3),
	}
	if err := w.openSegment(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Writer) segmentName() string {
	return fmt.Sprintf("%s_%d.db3", w.base, w.fileIndex)
}

func (w *Writer) openSegment() error {
	name := w.segmentName()
	db, err := sql.Open("sqlite", filepath.Join(w.dir, name)+"?_pragma=journal_mode(MEMORY)&_pragma=synchronous(OFF)")
	if err != nil {
		return fmt.Errorf("creating segment %s: %w", name, err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return fmt.Errorf("creating schema in %s: %w", name, err)
	}
	w.db = db
	w.bytesWritten = 0
	w.tracker.BeginFile(name)

	// every segment repeats the full topic table
	for _, topic := range w.topics {
		if err := w.insertTopic(topic); err != nil {
			return err
		}
	}

	stmt, err := db.Prepare(`INSERT INTO messages(topic_id, timestamp, data) VALUES(?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	w.insert = stmt
	return nil
}

func (w *Writer) insertTopic(topic domain.TopicInfo) error {
	res, err := w.db.Exec(
		`INSERT INTO topics(name, type, serialization_format, offered_qos_profiles) VALUES(?, ?, ?, ?)`,
		topic.Name, topic.Type, topic.SerializationFormat, topic.OfferedQoSProfiles)
	if err != nil {
		return fmt.Errorf("inserting topic %s: %w", topic.Name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("topic id for %s: %w", topic.Name, err)
	}
	w.topicIDs[topic.Name] = id
	return nil
}

// CreateTopic registers a topic. All topics must be created before the
// first Write so every segment carries the complete schema.
func (w *Writer) CreateTopic(topic domain.TopicInfo) error {
	if _, ok := w.topicIDs[topic.Name]; ok {
		return nil
	}
	w.topics = append(w.topics, topic)
	w.tracker.AddTopic(topic)
	return w.insertTopic(topic)
}

// Write appends one message, rotating to a new segment first when the
// current one would exceed the size cap.
func (w *Writer) Write(msg *domain.Message) error {
	id, ok := w.topicIDs[msg.Topic]
	if !ok {
		return fmt.Errorf("write to undeclared topic %s", msg.Topic)
	}

	cost := int64(len(msg.Data)) + rowOverheadBytes
	if w.maxBytes > 0 && w.bytesWritten > 0 && w.bytesWritten+cost > w.maxBytes {
		if err := w.rotate(); err != nil {
			return err
		}
		id = w.topicIDs[msg.Topic]
	}

	if _, err := w.insert.Exec(id, msg.Timestamp, msg.Data); err != nil {
		return fmt.Errorf("inserting message: %w", err)
	}
	w.bytesWritten += cost
	w.tracker.Record(msg.Topic, msg.Timestamp)
	return nil
}

func (w *Writer) rotate() error {
	if err := w.closeSegment(); err != nil {
		return err
	}
	w.fileIndex++
	return w.openSegment()
}

func (w *Writer) closeSegment() error {
	var err error
	if w.insert != nil {
		err = w.insert.Close()
		w.insert = nil
	}
	if w.db != nil {
		if cerr := w.db.Close(); err == nil {
			err = cerr
		}
		w.db = nil
	}
	return err
}

// Close flushes the last segment and writes the descriptor. Safe to
// call more than once.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if err := w.closeSegment(); err != nil {
		return err
	}
	return w.tracker.WriteDescriptor(w.dir)
}
