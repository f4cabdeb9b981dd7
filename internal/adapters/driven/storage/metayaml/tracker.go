package metayaml

import "github.com/JoLichtenfeld/ros2bag-tools/internal/core/domain"

// Tracker accumulates the per-topic and per-segment statistics a bag
// writer needs to finalize its descriptor. Both storage backends feed
// one while writing.
type Tracker struct {
	backend domain.Backend
	topics  []domain.TopicInfo
	counts  map[string]int64
	files   []*fileStats
}

type fileStats struct {
	relPath string
	startNs int64
	endNs   int64
	count   int64
}

// NewTracker starts tracking a bag of the given backend family.
func NewTracker(backend domain.Backend) *Tracker {
	return &Tracker{
		backend: backend,
		counts:  make(map[string]int64),
	}
}

// AddTopic registers a topic in declaration order. Duplicates are
// ignored.
func (t *Tracker) AddTopic(topic domain.TopicInfo) {
	if _, ok := t.counts[topic.Name]; ok {
		return
	}
	t.counts[topic.Name] = 0
	t.topics = append(t.topics, topic)
}

// BeginFile starts stats for a new segment, identified by its path
// relative to the bag directory.
func (t *Tracker) BeginFile(relPath string) {
	t.files = append(t.files, &fileStats{relPath: relPath})
}

// Record accounts one written message against the current segment.
func (t *Tracker) Record(topic string, timestampNs int64) {
	t.counts[topic]++
	f := t.files[len(t.files)-1]
	if f.count == 0 || timestampNs < f.startNs {
		f.startNs = timestampNs
	}
	if f.count == 0 || timestampNs > f.endNs {
		f.endNs = timestampNs
	}
	f.count++
}

// MessageCount returns the total number of recorded messages.
func (t *Tracker) MessageCount() int64 {
	var n int64
	for _, f := range t.files {
		n += f.count
	}
	return n
}

// WriteDescriptor composes and writes the bag's metadata.yaml.
// Empty segments are listed so the file inventory stays truthful even
// when every message was filtered out.
func (t *Tracker) WriteDescriptor(dir string) error {
	var (
		startNs int64
		endNs   int64
		total   int64
	)
	for _, f := range t.files {
		if f.count == 0 {
			continue
		}
		if total == 0 || f.startNs < startNs {
			startNs = f.startNs
		}
		if f.endNs > endNs {
			endNs = f.endNs
		}
		total += f.count
	}

	info := Info{
		StorageIdentifier: string(t.backend),
		StartingTime:      StartingTime{NanosecondsSinceEpoch: startNs},
		Duration:          Nanoseconds{Nanoseconds: endNs - startNs},
		MessageCount:      total,
	}
	for _, topic := range t.topics {
		info.Topics = append(info.Topics, TopicWithCount{
			TopicMetadata: TopicMetadata{
				Name:                topic.Name,
				Type:                topic.Type,
				SerializationFormat: topic.SerializationFormat,
				OfferedQoSProfiles:  topic.OfferedQoSProfiles,
			},
			MessageCount: t.counts[topic.Name],
		})
	}
	for _, f := range t.files {
		info.RelativeFilePaths = append(info.RelativeFilePaths, f.relPath)
		info.Files = append(info.Files, FileInfo{
			Path:         f.relPath,
			StartingTime: StartingTime{NanosecondsSinceEpoch: f.startNs},
			Duration:     Nanoseconds{Nanoseconds: f.endNs - f.startNs},
			MessageCount: f.count,
		})
	}
	return Write(dir, &Descriptor{Info: info})
}
