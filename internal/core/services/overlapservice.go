package services

import (
	"context"
	"fmt"

	"github.com/JoLichtenfeld/ros2bag-tools/internal/core/domain"
	"github.com/JoLichtenfeld/ros2bag-tools/internal/core/ports/driving"
	"github.com/JoLichtenfeld/ros2bag-tools/internal/logger"
)

// Ensure OverlapService implements the interface.
var _ driving.OverlapService = (*OverlapService)(nil)

// OverlapService ties discovery, range resolution, overlap computation
// and cropping together.
type OverlapService struct {
	discovery *Discovery
	resolver  *TimeRangeResolver
	cropper   *Cropper
}

// NewOverlapService creates the service.
func NewOverlapService(discovery *Discovery, resolver *TimeRangeResolver, cropper *Cropper) *OverlapService {
	return &OverlapService{
		discovery: discovery,
		resolver:  resolver,
		cropper:   cropper,
	}
}

// FindOverlap discovers bags, resolves each bag's time range and
// computes the shared window. Bags whose range cannot be resolved are
// excluded and reported; the run fails only when nothing resolves.
func (s *OverlapService) FindOverlap(_ context.Context, paths []string) (*driving.OverlapResult, error) {
	bags, err := s.discovery.Discover(paths)
	if err != nil {
		return nil, err
	}
	if len(bags) == 0 {
		return nil, domain.ErrNoValidBags
	}
	return s.resolve(bags)
}

func (s *OverlapService) resolve(bags []string) (*driving.OverlapResult, error) {
	res := &driving.OverlapResult{}
	var ranges []domain.TimeRange
	for _, bag := range bags {
		rng, err := s.resolver.Resolve(bag)
		if err != nil {
			res.Failed = append(res.Failed, driving.BagFailure{Path: bag, Err: err})
			continue
		}
		res.Ranges = append(res.Ranges, domain.BagRange{Path: bag, Range: rng})
		ranges = append(ranges, rng)
	}
	if len(ranges) == 0 {
		return nil, fmt.Errorf("no bag could be processed: %w", domain.ErrNoValidBags)
	}
	res.Window = ComputeOverlap(ranges)
	return res, nil
}

// CropToOverlap finds the overlap and rewrites every resolved bag
// restricted to it. Refused before any I/O when multiple bags meet a
// single explicit output path, and before any writing when the window
// is empty.
func (s *OverlapService) CropToOverlap(ctx context.Context, paths []string, opts driving.CropOptions) (*driving.OverlapResult, *driving.CropResult, error) {
	bags, err := s.discovery.Discover(paths)
	if err != nil {
		return nil, nil, err
	}
	if len(bags) == 0 {
		return nil, nil, domain.ErrNoValidBags
	}
	if opts.Output != "" && len(bags) > 1 {
		return nil, nil, fmt.Errorf("%w: %d bags, one --output", domain.ErrAmbiguousOutput, len(bags))
	}

	overlap, err := s.resolve(bags)
	if err != nil {
		return nil, nil, err
	}
	if overlap.Window.Empty() {
		return overlap, nil, domain.ErrEmptyOverlap
	}

	logger.Info("cropping %d bag(s) to [%d, %d]", len(overlap.Ranges), overlap.Window.Start, overlap.Window.End)
	crop := s.cropper.CropAll(ctx, overlap.Ranges, overlap.Window, opts)
	return overlap, crop, nil
}
