package driving

import (
	"context"

	"github.com/JoLichtenfeld/ros2bag-tools/internal/core/domain"
)

// InspectService reads a single bag's metadata and per-topic
// timestamp statistics.
type InspectService interface {
	// Info resolves a bag's metadata, preferring the descriptor and
	// falling back to the storage.
	Info(ctx context.Context, path string) (*domain.BagMetadata, error)

	// Stats scans a bag once and aggregates record-timestamp
	// statistics per topic. An empty topic filter means all topics.
	Stats(ctx context.Context, path string, topics []string) (*StatsReport, error)
}

// StatsReport holds per-topic timestamp statistics, in first-seen
// topic order.
type StatsReport struct {
	Topics []TopicStats
}

// TopicStats aggregates the record timestamps of one topic. Deltas are
// inter-arrival gaps between consecutive records of the topic.
type TopicStats struct {
	Topic        string
	Count        int64
	FirstStampNs int64
	LastStampNs  int64
	MeanPeriodNs int64
	MinDeltaNs   int64
	MaxDeltaNs   int64
}
