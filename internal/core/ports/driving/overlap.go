package driving

import (
	"context"

	"github.com/JoLichtenfeld/ros2bag-tools/internal/core/domain"
)

// OverlapService locates the temporal overlap among bags and crops
// them to it.
type OverlapService interface {
	// FindOverlap discovers bags under the given paths, resolves each
	// bag's time range and computes the shared window.
	FindOverlap(ctx context.Context, paths []string) (*OverlapResult, error)

	// CropToOverlap runs FindOverlap and then rewrites every resolved
	// bag restricted to the window. Refused up front when the window
	// is empty.
	CropToOverlap(ctx context.Context, paths []string, opts CropOptions) (*OverlapResult, *CropResult, error)
}

// CropOptions controls where and how cropped bags are written.
type CropOptions struct {
	// OutputDir is the directory cropped bags are created under.
	OutputDir string

	// Output names one explicit output bag. Only legal with a single
	// input bag.
	Output string

	// Overwrite replaces existing output bags without asking.
	Overwrite bool

	// MaxSegmentBytes caps each written segment. Zero selects the
	// 1 GiB default.
	MaxSegmentBytes int64
}

// OverlapResult carries the per-bag ranges (in input order), the bags
// that failed to resolve, and the computed window.
type OverlapResult struct {
	Ranges []domain.BagRange
	Failed []BagFailure
	Window domain.OverlapWindow
}

// CropResult summarises a crop batch. Succeeded counts fully written
// bags; Skipped names bags declined at an output collision.
type CropResult struct {
	Total     int
	Succeeded int
	Outputs   []string
	Skipped   []string
	Failed    []BagFailure
}

// OK reports whether every bag in the batch was cropped.
func (r *CropResult) OK() bool {
	return r.Succeeded == r.Total
}

// BagFailure names one bag that failed, and why.
type BagFailure struct {
	Path string
	Err  error
}
