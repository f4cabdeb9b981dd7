package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/JoLichtenfeld/ros2bag-tools/internal/core/domain"
	"github.com/JoLichtenfeld/ros2bag-tools/internal/core/ports/driven"
	"github.com/JoLichtenfeld/ros2bag-tools/internal/core/ports/driving"
	"github.com/JoLichtenfeld/ros2bag-tools/internal/logger"
)

// croppedSuffix is appended to a bag's name for its derived output.
const croppedSuffix = "_cropped"

// DefaultMaxSegmentBytes caps written segments when no override is
// given.
const DefaultMaxSegmentBytes = 1024 * 1024 * 1024 // 1 GiB

// Cropper rewrites bags restricted to a time window. Bags fully
// contained in the window are copied verbatim instead.
type Cropper struct {
	storage  driven.Storage
	confirm  driven.Confirmer
	progress io.Writer
}

// NewCropper creates a cropper. confirm may be nil, in which case
// output collisions without --overwrite are skipped.
func NewCropper(storage driven.Storage, confirm driven.Confirmer, progress io.Writer) *Cropper {
	if progress == nil {
		progress = io.Discard
	}
	return &Cropper{storage: storage, confirm: confirm, progress: progress}
}

// CropAll crops every bag to the window, one at a time. A failure or
// skip of one bag never aborts its siblings.
func (c *Cropper) CropAll(ctx context.Context, bags []domain.BagRange, window domain.OverlapWindow, opts driving.CropOptions) *driving.CropResult {
	res := &driving.CropResult{Total: len(bags)}
	for _, bag := range bags {
		out := outputPath(bag.Path, opts)
		created, err := c.cropOne(ctx, bag, window, out, opts)
		switch {
		case err != nil:
			logger.Warn("cropping %s failed: %v", bag.Path, err)
			res.Failed = append(res.Failed, driving.BagFailure{Path: bag.Path, Err: err})
		case !created:
			fmt.Fprintf(c.progress, "Skipping %s\n", bagBaseName(bag.Path))
			res.Skipped = append(res.Skipped, bag.Path)
		default:
			res.Succeeded++
			res.Outputs = append(res.Outputs, out)
		}
	}
	return res
}

func outputPath(bagPath string, opts driving.CropOptions) string {
	if opts.Output != "" {
		return opts.Output
	}
	return filepath.Join(opts.OutputDir, bagBaseName(bagPath)+croppedSuffix)
}

func bagBaseName(path string) string {
	return filepath.Base(strings.TrimRight(path, "/"))
}

// cropOne produces one cropped bag. Returns created=false when the
// operator declined to overwrite an existing output.
func (c *Cropper) cropOne(ctx context.Context, bag domain.BagRange, window domain.OverlapWindow, out string, opts driving.CropOptions) (created bool, err error) {
	if c.storage.Exists(out) {
		if !opts.Overwrite && !c.confirmOverwrite(out) {
			return false, nil
		}
		if err := c.storage.Remove(out); err != nil {
			return false, fmt.Errorf("removing existing output: %w", err)
		}
	}

	// A bag already inside the window needs no filter pass; a verbatim
	// copy guarantees no record is lost to a redundant rewrite.
	if window.ContainsRange(bag.Range) {
		logger.Info("%s is fully contained in the overlap window, copying", bag.Path)
		fmt.Fprintf(c.progress, "Copying %s to %s\n", bag.Path, out)
		if err := c.storage.CopyBag(bag.Path, out); err != nil {
			return false, fmt.Errorf("copying bag: %w", err)
		}
		return true, nil
	}

	if err := c.rewrite(ctx, bag.Path, window, out, opts.MaxSegmentBytes); err != nil {
		return false, err
	}
	fmt.Fprintf(c.progress, "Cropped bag saved to: %s\n", out)
	return true, nil
}

func (c *Cropper) confirmOverwrite(out string) bool {
	if c.confirm == nil {
		return false
	}
	return c.confirm.Confirm(fmt.Sprintf("Bag directory %s already exists. Overwrite?", out))
}

// rewrite streams the source through a window filter into a fresh bag.
// The full topic set is created before any message so the schema
// survives even for topics that lose every message. The stream is
// never buffered.
func (c *Cropper) rewrite(ctx context.Context, src string, window domain.OverlapWindow, out string, maxSegmentBytes int64) (err error) {
	reader, err := c.storage.OpenReader(src)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer func() {
		if cerr := reader.Close(); err == nil {
			err = cerr
		}
	}()

	meta, err := reader.Metadata()
	if err != nil {
		return fmt.Errorf("reading source metadata: %w", err)
	}

	backend, ok := c.storage.DetectBackend(src)
	if !ok {
		return fmt.Errorf("%s: %w", src, domain.ErrNotABag)
	}
	if maxSegmentBytes <= 0 {
		maxSegmentBytes = DefaultMaxSegmentBytes
	}
	writer, err := c.storage.NewWriter(out, backend, maxSegmentBytes)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	defer func() {
		if cerr := writer.Close(); err == nil {
			err = cerr
		}
	}()

	for _, tc := range meta.Topics {
		if err := writer.CreateTopic(tc.Topic); err != nil {
			return fmt.Errorf("creating topic: %w", err)
		}
	}

	var (
		copied   int64
		skipped  int64
		progress = rate.Sometimes{Interval: 500 * time.Millisecond}
	)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		msg, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("reading message: %w", err)
		}
		if !window.Contains(msg.Timestamp) {
			skipped++
			continue
		}
		if err := writer.Write(msg); err != nil {
			return fmt.Errorf("writing message: %w", err)
		}
		copied++
		progress.Do(func() {
			c.printProgress(copied, meta.MessageCount)
		})
	}

	c.printProgress(copied, meta.MessageCount)
	fmt.Fprintln(c.progress)
	logger.Debug("%s: copied %d, skipped %d of %d messages", src, copied, skipped, meta.MessageCount)
	return nil
}

func (c *Cropper) printProgress(copied, total int64) {
	if total <= 0 {
		fmt.Fprintf(c.progress, "\rProgress: %d messages", copied)
		return
	}
	fmt.Fprintf(c.progress, "\rProgress: %d/%d messages (%.1f%%)",
		copied, total, float64(copied)/float64(total)*100)
}
