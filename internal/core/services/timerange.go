package services

import (
	"fmt"

	"github.com/JoLichtenfeld/ros2bag-tools/internal/core/domain"
	"github.com/JoLichtenfeld/ros2bag-tools/internal/core/ports/driven"
	"github.com/JoLichtenfeld/ros2bag-tools/internal/logger"
)

// TimeRangeResolver determines a bag's [start, end] range. The
// descriptor is preferred; a bag with a broken descriptor falls back
// to the storage's self-reported metadata. Each fallback step emits a
// diagnostic; resolution fails only when both are exhausted.
type TimeRangeResolver struct {
	storage driven.Storage
}

// NewTimeRangeResolver creates a resolver.
func NewTimeRangeResolver(storage driven.Storage) *TimeRangeResolver {
	return &TimeRangeResolver{storage: storage}
}

// Resolve returns the bag's time range, or ErrTimeRangeUnavailable
// when neither the descriptor nor the storage can provide one.
func (r *TimeRangeResolver) Resolve(path string) (domain.TimeRange, error) {
	meta, err := r.storage.ReadDescriptor(path)
	if err == nil {
		return meta.Range(), nil
	}
	logger.Warn("%s: descriptor unusable (%v), falling back to storage", path, err)

	rng, err := r.resolveFromStorage(path)
	if err != nil {
		logger.Warn("%s: storage fallback failed: %v", path, err)
		return domain.TimeRange{}, fmt.Errorf("%s: %w", path, domain.ErrTimeRangeUnavailable)
	}
	return rng, nil
}

// resolveFromStorage opens segment-level metadata without scanning
// messages. The mcap family may spread a bag across files, so every
// file contributes; sqlite3 keeps the full index in its first file.
func (r *TimeRangeResolver) resolveFromStorage(path string) (domain.TimeRange, error) {
	backend, ok := r.storage.DetectBackend(path)
	if !ok {
		return domain.TimeRange{}, domain.ErrNotABag
	}
	files, err := r.storage.SegmentFiles(path)
	if err != nil {
		return domain.TimeRange{}, err
	}
	if backend == domain.BackendSQLite3 && len(files) > 1 {
		files = files[:1]
	}

	var (
		rng     domain.TimeRange
		haveAny bool
	)
	for _, file := range files {
		fileRange, err := r.segmentRange(file, backend)
		if err != nil {
			return domain.TimeRange{}, err
		}
		if !haveAny {
			rng = fileRange
			haveAny = true
			continue
		}
		if fileRange.Start < rng.Start {
			rng.Start = fileRange.Start
		}
		if fileRange.End > rng.End {
			rng.End = fileRange.End
		}
	}
	if !haveAny {
		return domain.TimeRange{}, fmt.Errorf("no segment files in %s", path)
	}
	return rng, nil
}

func (r *TimeRangeResolver) segmentRange(file string, backend domain.Backend) (domain.TimeRange, error) {
	reader, err := r.storage.OpenSegment(file, backend)
	if err != nil {
		return domain.TimeRange{}, err
	}
	defer reader.Close()

	meta, err := reader.Metadata()
	if err != nil {
		return domain.TimeRange{}, err
	}
	return meta.Range(), nil
}
