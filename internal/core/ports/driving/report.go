package driving

import (
	"io"

	"github.com/JoLichtenfeld/ros2bag-tools/internal/core/domain"
)

// ReportRenderer formats results for human consumption.
type ReportRenderer interface {
	// RenderOverlap prints per-bag summaries and the aggregate overlap
	// summary. With plot set, the time ranges are additionally handed
	// to the visualisation collaborator; its failure only warns.
	RenderOverlap(w io.Writer, res *OverlapResult, plot bool)

	// RenderCrop prints the succeeded/total crop summary.
	RenderCrop(w io.Writer, res *CropResult)

	// RenderSplit prints the succeeded/total split summary.
	RenderSplit(w io.Writer, res *SplitResult)

	// RenderInfo prints one bag's metadata.
	RenderInfo(w io.Writer, path string, meta *domain.BagMetadata)

	// RenderStats prints per-topic timestamp statistics.
	RenderStats(w io.Writer, res *StatsReport)
}
