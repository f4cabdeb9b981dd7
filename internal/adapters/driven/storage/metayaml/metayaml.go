package metayaml

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"github.com/JoLichtenfeld/ros2bag-tools/internal/core/domain"
)

// FileName is the descriptor file every bag directory carries.
const FileName = "metadata.yaml"

// descriptorVersion is the rosbag2_bagfile_information version we emit.
const descriptorVersion = 5

// ErrIncomplete indicates the descriptor parsed but lacks the fields
// needed to derive a time range. Callers fall back to the storage.
var ErrIncomplete = errors.New("descriptor incomplete")

// Descriptor is the on-disk shape of metadata.yaml.
type Descriptor struct {
	Info Info `yaml:"rosbag2_bagfile_information"`
}

// Info mirrors rosbag2_bagfile_information.
type Info struct {
	Version           int              `yaml:"version"`
	StorageIdentifier string           `yaml:"storage_identifier"`
	Duration          Nanoseconds      `yaml:"duration"`
	StartingTime      StartingTime     `yaml:"starting_time"`
	MessageCount      int64            `yaml:"message_count"`
	Topics            []TopicWithCount `yaml:"topics_with_message_count"`
	CompressionFormat string           `yaml:"compression_format"`
	CompressionMode   string           `yaml:"compression_mode"`
	RelativeFilePaths []string         `yaml:"relative_file_paths"`
	Files             []FileInfo       `yaml:"files"`
}

// Nanoseconds wraps a nanosecond count, matching the descriptor's
// nested mapping form.
type Nanoseconds struct {
	Nanoseconds int64 `yaml:"nanoseconds"`
}

// StartingTime wraps the epoch-relative start stamp.
type StartingTime struct {
	NanosecondsSinceEpoch int64 `yaml:"nanoseconds_since_epoch"`
}

// TopicWithCount pairs a topic's schema metadata with its message count.
type TopicWithCount struct {
	TopicMetadata TopicMetadata `yaml:"topic_metadata"`
	MessageCount  int64         `yaml:"message_count"`
}

// TopicMetadata is one topic's schema entry.
type TopicMetadata struct {
	Name                string `yaml:"name"`
	Type                string `yaml:"type"`
	SerializationFormat string `yaml:"serialization_format"`
	OfferedQoSProfiles  string `yaml:"offered_qos_profiles"`
}

// FileInfo is the per-segment entry of the files list.
type FileInfo struct {
	Path         string       `yaml:"path"`
	StartingTime StartingTime `yaml:"starting_time"`
	Duration     Nanoseconds  `yaml:"duration"`
	MessageCount int64        `yaml:"message_count"`
}

// Read parses dir's metadata.yaml into bag metadata. It fails when the
// descriptor is absent, empty, unparsable, or structurally incomplete;
// callers treat any failure as a signal to fall back to the storage.
func Read(dir string) (*domain.BagMetadata, error) {
	raw, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		return nil, fmt.Errorf("reading descriptor: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%s: %w", FileName, ErrIncomplete)
	}

	var d Descriptor
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", FileName, err)
	}

	info := d.Info
	// An empty rosbag2_bagfile_information mapping decodes without
	// error; require at least a start stamp, a duration or a topic
	// list before trusting it.
	if info.StartingTime.NanosecondsSinceEpoch == 0 &&
		info.Duration.Nanoseconds == 0 &&
		len(info.Topics) == 0 {
		return nil, fmt.Errorf("%s: %w", FileName, ErrIncomplete)
	}

	meta := &domain.BagMetadata{
		Backend:      domain.Backend(info.StorageIdentifier),
		StartNs:      info.StartingTime.NanosecondsSinceEpoch,
		DurationNs:   info.Duration.Nanoseconds,
		MessageCount: info.MessageCount,
	}
	for _, t := range info.Topics {
		meta.Topics = append(meta.Topics, domain.TopicCount{
			Topic: domain.TopicInfo{
				Name:                t.TopicMetadata.Name,
				Type:                t.TopicMetadata.Type,
				SerializationFormat: t.TopicMetadata.SerializationFormat,
				OfferedQoSProfiles:  t.TopicMetadata.OfferedQoSProfiles,
			},
			Count: t.MessageCount,
		})
	}
	return meta, nil
}

// Write emits the descriptor into dir.
func Write(dir string, d *Descriptor) error {
	d.Info.Version = descriptorVersion
	raw, err := yaml.Marshal(d)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", FileName, err)
	}
	if err := os.WriteFile(filepath.Join(dir, FileName), raw, 0644); err != nil {
		return fmt.Errorf("writing descriptor: %w", err)
	}
	return nil
}
