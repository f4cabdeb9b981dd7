package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/JoLichtenfeld/ros2bag-tools/internal/core/domain"
	"github.com/JoLichtenfeld/ros2bag-tools/internal/core/ports/driven"
	"github.com/JoLichtenfeld/ros2bag-tools/internal/core/ports/driving"
	"github.com/JoLichtenfeld/ros2bag-tools/internal/logger"
)

// Ensure Inspector implements the interface.
var _ driving.InspectService = (*Inspector)(nil)

// Inspector reads bag metadata and record-timestamp statistics.
type Inspector struct {
	storage driven.Storage
}

// NewInspector creates an inspector.
func NewInspector(storage driven.Storage) *Inspector {
	return &Inspector{storage: storage}
}

// Info resolves a bag's metadata, preferring the descriptor and
// falling back to the storage's self-reported metadata.
func (i *Inspector) Info(_ context.Context, path string) (meta *domain.BagMetadata, err error) {
	if !i.storage.IsBag(path) {
		return nil, fmt.Errorf("%s: %w", path, domain.ErrNotABag)
	}
	meta, derr := i.storage.ReadDescriptor(path)
	if derr == nil {
		return meta, nil
	}
	logger.Warn("%s: descriptor unusable (%v), falling back to storage", path, derr)

	reader, err := i.storage.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening bag: %w", err)
	}
	defer func() {
		if cerr := reader.Close(); err == nil {
			err = cerr
		}
	}()
	return reader.Metadata()
}

// Stats scans the bag once and aggregates timestamp statistics per
// topic. Only record timestamps are considered; payloads stay opaque.
func (i *Inspector) Stats(ctx context.Context, path string, topics []string) (report *driving.StatsReport, err error) {
	if !i.storage.IsBag(path) {
		return nil, fmt.Errorf("%s: %w", path, domain.ErrNotABag)
	}
	wanted := make(map[string]bool, len(topics))
	for _, t := range topics {
		wanted[t] = true
	}

	reader, err := i.storage.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening bag: %w", err)
	}
	defer func() {
		if cerr := reader.Close(); err == nil {
			err = cerr
		}
	}()

	var (
		order []string
		stats = make(map[string]*topicAccum)
	)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		msg, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading message: %w", err)
		}
		if len(wanted) > 0 && !wanted[msg.Topic] {
			continue
		}
		acc, ok := stats[msg.Topic]
		if !ok {
			acc = &topicAccum{first: msg.Timestamp, minDelta: -1}
			stats[msg.Topic] = acc
			order = append(order, msg.Topic)
		}
		acc.observe(msg.Timestamp)
	}

	report = &driving.StatsReport{}
	for _, topic := range order {
		report.Topics = append(report.Topics, stats[topic].finish(topic))
	}
	return report, nil
}

// topicAccum aggregates one topic's timestamps in a single pass.
type topicAccum struct {
	count    int64
	first    int64
	last     int64
	minDelta int64 // -1 until two stamps seen
	maxDelta int64
}

func (a *topicAccum) observe(ts int64) {
	if a.count > 0 {
		delta := ts - a.last
		if a.minDelta < 0 || delta < a.minDelta {
			a.minDelta = delta
		}
		if delta > a.maxDelta {
			a.maxDelta = delta
		}
	}
	a.last = ts
	a.count++
}

func (a *topicAccum) finish(topic string) driving.TopicStats {
	s := driving.TopicStats{
		Topic:        topic,
		Count:        a.count,
		FirstStampNs: a.first,
		LastStampNs:  a.last,
	}
	if a.count > 1 {
		s.MeanPeriodNs = (a.last - a.first) / (a.count - 1)
		s.MinDeltaNs = a.minDelta
		s.MaxDeltaNs = a.maxDelta
	}
	return s
}
