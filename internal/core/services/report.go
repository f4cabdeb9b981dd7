package services

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/JoLichtenfeld/ros2bag-tools/internal/core/domain"
	"github.com/JoLichtenfeld/ros2bag-tools/internal/core/ports/driven"
	"github.com/JoLichtenfeld/ros2bag-tools/internal/core/ports/driving"
	"github.com/JoLichtenfeld/ros2bag-tools/internal/logger"
)

// Ensure Report implements the interface.
var _ driving.ReportRenderer = (*Report)(nil)

var (
	headingColor = color.New(color.Bold, color.FgCyan)
	warnColor    = color.New(color.FgYellow)
	failColor    = color.New(color.FgRed)
	okColor      = color.New(color.FgGreen)
)

const rule = "================================================================================"

// Report formats overlap, crop and inspection results. The plotter is
// optional; its failures degrade to a warning.
type Report struct {
	plotter driven.Plotter
}

// NewReport creates a renderer.
func NewReport(plotter driven.Plotter) *Report {
	return &Report{plotter: plotter}
}

// RenderOverlap prints per-bag summaries, the aggregate overlap
// summary, and any bags that failed to resolve.
func (r *Report) RenderOverlap(w io.Writer, res *driving.OverlapResult, plot bool) {
	headingColor.Fprintln(w, "\nBag File Summary:")
	fmt.Fprintln(w, rule)
	for _, bag := range res.Ranges {
		fmt.Fprintf(w, "\nBag: %s\n", bag.Path)
		printTimespan(w, bag.Range.Start, bag.Range.End)
	}
	for _, fail := range res.Failed {
		failColor.Fprintf(w, "\nBag: %s: %v\n", fail.Path, fail.Err)
	}

	headingColor.Fprintln(w, "\nTemporal Overlap Summary:")
	fmt.Fprintln(w, rule)
	if res.Window.Empty() {
		warnColor.Fprintln(w, "No temporal overlap found between the bag files.")
	} else {
		printTimespan(w, res.Window.Start, res.Window.End)
	}

	if plot {
		r.renderPlot(res)
	}
}

func (r *Report) renderPlot(res *driving.OverlapResult) {
	if r.plotter == nil {
		logger.Warn("plotting requested but no plotter is available")
		return
	}
	if err := r.plotter.Plot(res.Ranges, res.Window); err != nil {
		logger.Warn("plotting failed: %v", err)
	}
}

// RenderCrop prints the batch outcome, naming every skipped and
// failed bag.
func (r *Report) RenderCrop(w io.Writer, res *driving.CropResult) {
	fmt.Fprintln(w)
	for _, skipped := range res.Skipped {
		warnColor.Fprintf(w, "Skipped: %s\n", skipped)
	}
	for _, fail := range res.Failed {
		failColor.Fprintf(w, "Failed: %s: %v\n", fail.Path, fail.Err)
	}
	line := fmt.Sprintf("Successfully cropped %d/%d bags", res.Succeeded, res.Total)
	if res.OK() {
		okColor.Fprintln(w, line)
	} else {
		warnColor.Fprintln(w, line)
	}
}

// RenderInfo prints one bag's metadata.
func (r *Report) RenderInfo(w io.Writer, path string, meta *domain.BagMetadata) {
	headingColor.Fprintf(w, "\nBag: %s\n", path)
	fmt.Fprintf(w, " Storage:  %s\n", meta.Backend)
	printTimespan(w, meta.StartNs, meta.StartNs+meta.DurationNs)
	fmt.Fprintf(w, " Messages: %d\n", meta.MessageCount)
	fmt.Fprintf(w, " Topics:   %d\n", len(meta.Topics))
	for _, tc := range meta.Topics {
		fmt.Fprintf(w, "   %-40s %-30s %6d msgs\n", tc.Topic.Name, tc.Topic.Type, tc.Count)
	}
}

// RenderStats prints per-topic timestamp statistics.
func (r *Report) RenderStats(w io.Writer, res *driving.StatsReport) {
	if len(res.Topics) == 0 {
		fmt.Fprintln(w, "No messages found.")
		return
	}
	var total int64
	for _, ts := range res.Topics {
		headingColor.Fprintf(w, "\nTopic: %s\n", ts.Topic)
		fmt.Fprintln(w, strings.Repeat("-", 40))
		fmt.Fprintf(w, "Messages:    %d\n", ts.Count)
		fmt.Fprintf(w, "First stamp: %s\n", formatStamp(ts.FirstStampNs))
		fmt.Fprintf(w, "Last stamp:  %s\n", formatStamp(ts.LastStampNs))
		if ts.Count > 1 {
			fmt.Fprintf(w, "Mean period: %s (%.2f Hz)\n",
				time.Duration(ts.MeanPeriodNs), hertz(ts.MeanPeriodNs))
			fmt.Fprintf(w, "Delta range: %s to %s\n",
				time.Duration(ts.MinDeltaNs), time.Duration(ts.MaxDeltaNs))
		}
		total += ts.Count
	}
	if len(res.Topics) > 1 {
		headingColor.Fprintln(w, "\nSummary:")
		fmt.Fprintln(w, rule)
		fmt.Fprintf(w, "Topics analyzed:  %d\n", len(res.Topics))
		fmt.Fprintf(w, "Total messages:   %s\n", humanize.Comma(total))
	}
}

// RenderSplit prints the batch outcome of a split run.
func (r *Report) RenderSplit(w io.Writer, res *driving.SplitResult) {
	fmt.Fprintln(w)
	for _, fail := range res.Failed {
		failColor.Fprintf(w, "Failed: %s: %v\n", fail.Path, fail.Err)
	}
	line := fmt.Sprintf("Split summary: %d/%d bags split successfully", res.Succeeded, res.Total)
	if res.OK() {
		okColor.Fprintln(w, line)
	} else {
		warnColor.Fprintln(w, line)
	}
}

func printTimespan(w io.Writer, startNs, endNs int64) {
	fmt.Fprintf(w, " Start:    %s\n", formatStamp(startNs))
	fmt.Fprintf(w, " End:      %s\n", formatStamp(endNs))
	fmt.Fprintf(w, " Duration: %s\n", time.Duration(endNs-startNs))
}

func formatStamp(ns int64) string {
	return time.Unix(0, ns).Format("2006-01-02 15:04:05.000000")
}

func hertz(periodNs int64) float64 {
	if periodNs <= 0 {
		return 0
	}
	return float64(time.Second) / float64(periodNs)
}
