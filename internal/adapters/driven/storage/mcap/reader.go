package mcap

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/foxglove/mcap/go/mcap"

	"github.com/JoLichtenfeld/ros2bag-tools/internal/core/domain"
)

// Reader streams messages out of one or more .mcap files in order.
// Files are opened lazily, one at a time.
type Reader struct {
	files []string
	idx   int
	f     *os.File
	it    mcap.MessageIterator
}

// NewReader opens a reader over the given mcap files, which must be in
// recording order.
func NewReader(files []string) (*Reader, error) {
	if len(files) == 0 {
		return nil, errors.New("no segment files")
	}
	return &Reader{files: files}, nil
}

// Metadata aggregates the summary sections of all files: start and end
// across files, summed message counts, and the union of channels in
// id order. No message payloads are read.
func (r *Reader) Metadata() (*domain.BagMetadata, error) {
	meta := &domain.BagMetadata{Backend: domain.BackendMCAP}
	seen := make(map[string]int)

	first := true
	var endNs int64
	for _, file := range r.files {
		info, err := fileInfo(file)
		if err != nil {
			return nil, fmt.Errorf("segment %s: %w", file, err)
		}

		stats := info.Statistics
		if stats != nil && stats.MessageCount > 0 {
			start := int64(stats.MessageStartTime)
			end := int64(stats.MessageEndTime)
			if first || start < meta.StartNs {
				meta.StartNs = start
			}
			if first || end > endNs {
				endNs = end
			}
			first = false
			meta.MessageCount += int64(stats.MessageCount)
		}

		ids := make([]uint16, 0, len(info.Channels))
		for id := range info.Channels {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			ch := info.Channels[id]
			var count int64
			if stats != nil {
				count = int64(stats.ChannelMessageCounts[id])
			}
			if i, ok := seen[ch.Topic]; ok {
				meta.Topics[i].Count += count
				continue
			}
			seen[ch.Topic] = len(meta.Topics)
			meta.Topics = append(meta.Topics, domain.TopicCount{
				Topic: topicInfo(ch, info.Schemas[ch.SchemaID]),
				Count: count,
			})
		}
	}
	if !first {
		meta.DurationNs = endNs - meta.StartNs
	}
	return meta, nil
}

func fileInfo(path string) (*mcap.Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	reader, err := mcap.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("reading mcap: %w", err)
	}
	info, err := reader.Info()
	if err != nil {
		return nil, fmt.Errorf("reading summary: %w", err)
	}
	return info, nil
}

func topicInfo(ch *mcap.Channel, schema *mcap.Schema) domain.TopicInfo {
	topic := domain.TopicInfo{
		Name:                ch.Topic,
		SerializationFormat: ch.MessageEncoding,
		OfferedQoSProfiles:  ch.Metadata["offered_qos_profiles"],
	}
	if schema != nil {
		topic.Type = schema.Name
		topic.SchemaEncoding = schema.Encoding
		topic.SchemaData = schema.Data
	}
	return topic
}

// Next returns the next message across all files, or io.EOF.
func (r *Reader) Next() (*domain.Message, error) {
	for {
		if r.it == nil {
			if r.idx >= len(r.files) {
				return nil, io.EOF
			}
			f, err := os.Open(r.files[r.idx])
			if err != nil {
				return nil, err
			}
			reader, err := mcap.NewReader(f)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("reading %s: %w", r.files[r.idx], err)
			}
			it, err := reader.Messages(mcap.UsingIndex(false))
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("iterating %s: %w", r.files[r.idx], err)
			}
			r.f = f
			r.it = it
		}

		_, ch, msg, err := r.it.Next(nil)
		if err == nil {
			return &domain.Message{
				Topic:     ch.Topic,
				Data:      msg.Data,
				Timestamp: int64(msg.LogTime),
			}, nil
		}
		if !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("reading %s: %w", r.files[r.idx], err)
		}

		// file exhausted, advance
		if cerr := r.closeCurrent(); cerr != nil {
			return nil, cerr
		}
		r.idx++
	}
}

func (r *Reader) closeCurrent() error {
	r.it = nil
	if r.f != nil {
		err := r.f.Close()
		r.f = nil
		return err
	}
	return nil
}

// Close releases the current file, if any.
func (r *Reader) Close() error {
	return r.closeCurrent()
}
