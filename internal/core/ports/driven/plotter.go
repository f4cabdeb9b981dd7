package driven

import "github.com/JoLichtenfeld/ros2bag-tools/internal/core/domain"

// Plotter visualises bag time ranges against the overlap window.
// Optional; a failed or missing plotter is reported as a warning and
// never fails the run.
type Plotter interface {
	Plot(ranges []domain.BagRange, window domain.OverlapWindow) error
}
