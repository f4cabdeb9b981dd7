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

const splitSuffix = "_split"

// Ensure Splitter implements the interface.
var _ driving.SplitService = (*Splitter)(nil)

// Splitter rewrites bags into segments under a size cap.
type Splitter struct {
	discovery *Discovery
	storage   driven.Storage
	progress  io.Writer
}

// NewSplitter creates a splitter.
func NewSplitter(discovery *Discovery, storage driven.Storage, progress io.Writer) *Splitter {
	if progress == nil {
		progress = io.Discard
	}
	return &Splitter{discovery: discovery, storage: storage, progress: progress}
}

// Split rewrites every bag under the given paths. Per-bag failures are
// isolated; the batch result reports succeeded/total.
func (s *Splitter) Split(ctx context.Context, paths []string, opts driving.SplitOptions) (*driving.SplitResult, error) {
	bags, err := s.discovery.Discover(paths)
	if err != nil {
		return nil, err
	}
	if len(bags) == 0 {
		return nil, domain.ErrNoValidBags
	}
	if opts.Output != "" && len(bags) > 1 {
		return nil, fmt.Errorf("%w: %d bags, one --output", domain.ErrAmbiguousOutput, len(bags))
	}
	if opts.Output != "" && opts.InPlace {
		return nil, errors.New("--output and --inplace are mutually exclusive")
	}
	if opts.MaxSegmentBytes <= 0 {
		opts.MaxSegmentBytes = DefaultMaxSegmentBytes
	}

	res := &driving.SplitResult{Total: len(bags)}
	for _, bag := range bags {
		out, err := s.splitOne(ctx, bag, opts)
		if err != nil {
			logger.Warn("splitting %s failed: %v", bag, err)
			res.Failed = append(res.Failed, driving.BagFailure{Path: bag, Err: err})
			continue
		}
		res.Succeeded++
		res.Outputs = append(res.Outputs, out)
	}
	return res, nil
}

func (s *Splitter) splitOne(ctx context.Context, bag string, opts driving.SplitOptions) (string, error) {
	out := opts.Output
	if out == "" {
		out = bag + splitSuffix
	}
	if opts.InPlace {
		out = bag + "_temp_split"
	}
	if s.storage.Exists(out) {
		return "", fmt.Errorf("output %s already exists", out)
	}

	fmt.Fprintf(s.progress, "Splitting: %s -> %s\n", bag, out)
	written, total, err := s.copyAll(ctx, bag, out, opts.MaxSegmentBytes)
	if err != nil {
		return "", err
	}

	if opts.Validate && written != total {
		return "", fmt.Errorf("message count mismatch: source %d, split %d", total, written)
	}

	if opts.InPlace {
		if err := s.storage.Remove(bag); err != nil {
			return "", fmt.Errorf("removing original: %w", err)
		}
		if err := s.storage.Rename(out, bag); err != nil {
			return "", fmt.Errorf("replacing original (split kept at %s): %w", out, err)
		}
		out = bag
	}
	fmt.Fprintf(s.progress, "Split complete: %d messages preserved\n", written)
	return out, nil
}

// copyAll streams the whole bag into a new one under the segment cap.
// Returns messages written and the source's declared total.
func (s *Splitter) copyAll(ctx context.Context, src, out string, maxSegmentBytes int64) (written, total int64, err error) {
	reader, err := s.storage.OpenReader(src)
	if err != nil {
		return 0, 0, fmt.Errorf("opening source: %w", err)
	}
	defer func() {
		if cerr := reader.Close(); err == nil {
			err = cerr
		}
	}()

	meta, err := reader.Metadata()
	if err != nil {
		return 0, 0, fmt.Errorf("reading source metadata: %w", err)
	}
	total = meta.MessageCount

	backend, ok := s.storage.DetectBackend(src)
	if !ok {
		return 0, 0, fmt.Errorf("%s: %w", src, domain.ErrNotABag)
	}
	writer, err := s.storage.NewWriter(out, backend, maxSegmentBytes)
	if err != nil {
		return 0, 0, fmt.Errorf("creating output: %w", err)
	}
	defer func() {
		if cerr := writer.Close(); err == nil {
			err = cerr
		}
	}()

	for _, tc := range meta.Topics {
		if err := writer.CreateTopic(tc.Topic); err != nil {
			return written, total, fmt.Errorf("creating topic: %w", err)
		}
	}
	for {
		if err := ctx.Err(); err != nil {
			return written, total, err
		}
		msg, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return written, total, nil
		}
		if err != nil {
			return written, total, fmt.Errorf("reading message: %w", err)
		}
		if err := writer.Write(msg); err != nil {
			return written, total, fmt.Errorf("writing message: %w", err)
		}
		written++
	}
}
