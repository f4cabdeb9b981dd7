package services

import "github.com/JoLichtenfeld/ros2bag-tools/internal/core/domain"

// ComputeOverlap intersects the given time ranges: the window starts
// at the latest start and ends at the earliest end. A single range
// yields itself. Start > End in the result means the ranges share no
// common interval; callers check, it is not an error.
func ComputeOverlap(ranges []domain.TimeRange) domain.OverlapWindow {
	window := domain.OverlapWindow{
		Start: ranges[0].Start,
		End:   ranges[0].End,
	}
	for _, r := range ranges[1:] {
		if r.Start > window.Start {
			window.Start = r.Start
		}
		if r.End < window.End {
			window.End = r.End
		}
	}
	return window
}
