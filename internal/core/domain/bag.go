package domain

import "time"

// Backend identifies the storage family of a bag's data segments.
// A bag uses exactly one family, chosen when it was recorded.
type Backend string

const (
	// BackendSQLite3 is the one-file-per-segment sqlite3 family (*.db3).
	BackendSQLite3 Backend = "sqlite3"

	// BackendMCAP is the mcap container family (*.mcap).
	BackendMCAP Backend = "mcap"
)

// Extension returns the segment file extension for the backend,
// including the leading dot.
func (b Backend) Extension() string {
	switch b {
	case BackendSQLite3:
		return ".db3"
	case BackendMCAP:
		return ".mcap"
	}
	return ""
}

// TimeRange is the [Start, End] span of a single bag, in nanoseconds
// since the Unix epoch. A well-formed bag has End >= Start; a
// zero-duration bag (Start == End) is valid.
type TimeRange struct {
	Start int64
	End   int64
}

// Duration returns the span length.
func (r TimeRange) Duration() time.Duration {
	return time.Duration(r.End - r.Start)
}

// Contains reports whether the timestamp lies within the range,
// boundaries included.
func (r TimeRange) Contains(t int64) bool {
	return r.Start <= t && t <= r.End
}

// OverlapWindow is the intersection of several bag time ranges:
// Start is the maximum of all starts, End the minimum of all ends.
// Start > End means the bags share no common interval; that is a
// reportable state, not an error.
type OverlapWindow struct {
	Start int64
	End   int64
}

// Empty reports whether the window contains no instant.
func (w OverlapWindow) Empty() bool {
	return w.Start > w.End
}

// Contains reports whether the timestamp lies within the window,
// boundaries included.
func (w OverlapWindow) Contains(t int64) bool {
	return w.Start <= t && t <= w.End
}

// Duration returns the window length, or zero for an empty window.
func (w OverlapWindow) Duration() time.Duration {
	if w.Empty() {
		return 0
	}
	return time.Duration(w.End - w.Start)
}

// containmentToleranceNs absorbs quantization from timestamps that
// round-tripped through floating-point epoch seconds in older tooling.
// Kept so full-copy decisions match prior outputs bit for bit.
const containmentToleranceNs = 10

// ContainsRange reports whether the bag range lies entirely within the
// window, to within the containment tolerance.
func (w OverlapWindow) ContainsRange(r TimeRange) bool {
	return w.Start <= r.Start+containmentToleranceNs &&
		r.End-containmentToleranceNs <= w.End
}

// TopicInfo describes one topic's schema metadata. It is copied
// verbatim from a source bag into any bag derived from it, even when
// no messages for the topic survive.
type TopicInfo struct {
	// Name is the topic name, e.g. "/camera/image_raw".
	Name string

	// Type is the message type identifier, e.g. "sensor_msgs/msg/Image".
	Type string

	// SerializationFormat is the payload encoding, typically "cdr".
	SerializationFormat string

	// OfferedQoSProfiles carries the recorded QoS settings, opaque here.
	OfferedQoSProfiles string

	// SchemaEncoding and SchemaData carry the full message definition
	// when the source backend stores one (mcap does, sqlite3 may not).
	SchemaEncoding string
	SchemaData     []byte
}

// Message is one timestamped record. Payloads are opaque; the tooling
// never inspects message content.
type Message struct {
	Topic     string
	Data      []byte
	Timestamp int64
}

// TopicCount pairs a topic with its message count, preserving the
// order topics were declared in.
type TopicCount struct {
	Topic TopicInfo
	Count int64
}

// BagMetadata is a bag's self-description: where its messages start,
// how long they span, and what topics they belong to.
type BagMetadata struct {
	Backend      Backend
	StartNs      int64
	DurationNs   int64
	MessageCount int64
	Topics       []TopicCount
}

// Range returns the bag's time range as implied by the metadata.
func (m *BagMetadata) Range() TimeRange {
	return TimeRange{Start: m.StartNs, End: m.StartNs + m.DurationNs}
}

// BagRange associates a discovered bag path with its resolved range.
type BagRange struct {
	Path  string
	Range TimeRange
}
