package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"io"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/JoLichtenfeld/ros2bag-tools/internal/core/domain"
)

// Reader streams messages out of one or more .db3 segments in order.
// Segments are opened lazily, one at a time.
type Reader struct {
	files []string
	idx   int
	db    *sql.DB
	rows  *sql.Rows
}

// NewReader opens a reader over the given segment files, which must be
// in recording order.
func NewReader(files []string) (*Reader, error) {
	if len(files) == 0 {
		return nil, errors.New("no segment files")
	}
	return &Reader{files: files}, nil
}

func openDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&mode=ro")
	if err != nil {
		return nil, fmt.Errorf("opening segment %s: %w", path, err)
	}
	return db, nil
}

// Metadata aggregates the self-reported metadata of all segments:
// start and end across files, summed message counts, and the union of
// topics in declaration order. No message payloads are read.
func (r *Reader) Metadata() (*domain.BagMetadata, error) {
	meta := &domain.BagMetadata{Backend: domain.BackendSQLite3}
	seen := make(map[string]int)

	first := true
	var endNs int64
	for _, file := range r.files {
		db, err := openDB(file)
		if err != nil {
			return nil, err
		}
		fileMeta, err := segmentMetadata(db)
		db.Close()
		if err != nil {
			return nil, fmt.Errorf("segment %s: %w", file, err)
		}

		if fileMeta.MessageCount > 0 {
			fileEnd := fileMeta.StartNs + fileMeta.DurationNs
			if first || fileMeta.StartNs < meta.StartNs {
				meta.StartNs = fileMeta.StartNs
			}
			if first || fileEnd > endNs {
				endNs = fileEnd
			}
			first = false
		}
		meta.MessageCount += fileMeta.MessageCount
		for _, tc := range fileMeta.Topics {
			if i, ok := seen[tc.Topic.Name]; ok {
				meta.Topics[i].Count += tc.Count
				continue
			}
			seen[tc.Topic.Name] = len(meta.Topics)
			meta.Topics = append(meta.Topics, tc)
		}
	}
	if !first {
		meta.DurationNs = endNs - meta.StartNs
	}
	return meta, nil
}

// segmentMetadata reads one database's topics and message statistics.
func segmentMetadata(db *sql.DB) (*domain.BagMetadata, error) {
	meta := &domain.BagMetadata{Backend: domain.BackendSQLite3}

	rows, err := db.Query(
		`SELECT t.id, t.name, t.type, t.serialization_format, t.offered_qos_profiles,
		        (SELECT COUNT(*) FROM messages m WHERE m.topic_id = t.id)
		 FROM topics t ORDER BY t.id`)
	if err != nil {
		return nil, fmt.Errorf("querying topics: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id    int64
			tc    domain.TopicCount
			topic domain.TopicInfo
		)
		if err := rows.Scan(&id, &topic.Name, &topic.Type,
			&topic.SerializationFormat, &topic.OfferedQoSProfiles, &tc.Count); err != nil {
			return nil, fmt.Errorf("scanning topic: %w", err)
		}
		tc.Topic = topic
		meta.Topics = append(meta.Topics, tc)
		meta.MessageCount += tc.Count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating topics: %w", err)
	}

	var start, end sql.NullInt64
	if err := db.QueryRow(
		`SELECT MIN(timestamp), MAX(timestamp) FROM messages`).Scan(&start, &end); err != nil {
		return nil, fmt.Errorf("querying time range: %w", err)
	}
	if start.Valid {
		meta.StartNs = start.Int64
		meta.DurationNs = end.Int64 - start.Int64
	}
	return meta, nil
}

// Next returns the next message across all segments, or io.EOF.
func (r *Reader) Next() (*domain.Message, error) {
	for {
		if r.rows == nil {
			if r.idx >= len(r.files) {
				return nil, io.EOF
			}
			db, err := openDB(r.files[r.idx])
			if err != nil {
				return nil, err
			}
			rows, err := db.Query(
				`SELECT t.name, m.data, m.timestamp
				 FROM messages m JOIN topics t ON m.topic_id = t.id
				 ORDER BY m.timestamp`)
			if err != nil {
				db.Close()
				return nil, fmt.Errorf("querying messages in %s: %w", r.files[r.idx], err)
			}
			r.db = db
			r.rows = rows
		}

		if r.rows.Next() {
			var msg domain.Message
			if err := r.rows.Scan(&msg.Topic, &msg.Data, &msg.Timestamp); err != nil {
				return nil, fmt.Errorf("scanning message: %w", err)
			}
			return &msg, nil
		}
		if err := r.rows.Err(); err != nil {
			return nil, fmt.Errorf("iterating messages: %w", err)
		}

		// segment exhausted, advance
		if err := r.closeCurrent(); err != nil {
			return nil, err
		}
		r.idx++
	}
}

func (r *Reader) closeCurrent() error {
	var err error
	if r.rows != nil {
		err = r.rows.Close()
		r.rows = nil
	}
	if r.db != nil {
		if cerr := r.db.Close(); err == nil {
			err = cerr
		}
		r.db = nil
	}
	return err
}

// Close releases the current segment, if any.
func (r *Reader) Close() error {
	return r.closeCurrent()
}
