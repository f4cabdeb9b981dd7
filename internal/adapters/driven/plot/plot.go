// Package plot renders bag time ranges as a horizontal timeline in
// the terminal. It stands in for the matplotlib-style plotting of the
// original tooling: one bar per bag, with the overlap window marked
// underneath.
package plot

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/JoLichtenfeld/ros2bag-tools/internal/core/domain"
	"github.com/JoLichtenfeld/ros2bag-tools/internal/core/ports/driven"
)

// Ensure Plotter implements the interface.
var _ driven.Plotter = (*Plotter)(nil)

const barWidth = 60

var barPalette = []lipgloss.Style{
	lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
}

var overlapStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)

// Plotter draws timelines onto a writer.
type Plotter struct {
	out io.Writer
}

// New creates a plotter writing to out.
func New(out io.Writer) *Plotter {
	return &Plotter{out: out}
}

// Plot renders one bar per bag, first input at the top, plus an
// overlap marker row when the window is non-empty.
func (p *Plotter) Plot(ranges []domain.BagRange, window domain.OverlapWindow) error {
	if len(ranges) == 0 {
		return errors.New("nothing to plot")
	}

	minNs := ranges[0].Range.Start
	maxNs := ranges[0].Range.End
	for _, r := range ranges[1:] {
		if r.Range.Start < minNs {
			minNs = r.Range.Start
		}
		if r.Range.End > maxNs {
			maxNs = r.Range.End
		}
	}
	span := maxNs - minNs
	if span <= 0 {
		span = 1
	}

	nameWidth := 0
	for _, r := range ranges {
		if n := len(bagName(r.Path)); n > nameWidth {
			nameWidth = n
		}
	}

	fmt.Fprintf(p.out, "\nTime ranges (%s .. %s):\n",
		formatStamp(minNs), formatStamp(maxNs))
	for i, r := range ranges {
		style := barPalette[i%len(barPalette)]
		fmt.Fprintf(p.out, "  %-*s %s\n", nameWidth, bagName(r.Path),
			style.Render(bar(r.Range.Start, r.Range.End, minNs, span)))
	}
	if !window.Empty() {
		fmt.Fprintf(p.out, "  %-*s %s\n", nameWidth, "overlap",
			overlapStyle.Render(bar(window.Start, window.End, minNs, span)))
	}
	return nil
}

// bar maps [start, end] onto barWidth columns of [origin, origin+span].
func bar(start, end, origin, span int64) string {
	from := int((start - origin) * barWidth / span)
	to := int((end - origin) * barWidth / span)
	if to >= barWidth {
		to = barWidth - 1
	}
	if to < from {
		to = from
	}
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", from))
	b.WriteString(strings.Repeat("█", to-from+1))
	return b.String()
}

func bagName(path string) string {
	return filepath.Base(strings.TrimRight(path, "/"))
}

func formatStamp(ns int64) string {
	return time.Unix(0, ns).Format("2006-01-02 15:04:05.000")
}
