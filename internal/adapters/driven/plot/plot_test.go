package plot

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoLichtenfeld/ros2bag-tools/internal/core/domain"
)

func TestPlot_OneBarPerBagPlusOverlap(t *testing.T) {
	out := &bytes.Buffer{}
	err := New(out).Plot([]domain.BagRange{
		{Path: "/data/front_camera", Range: domain.TimeRange{Start: 0, End: 100}},
		{Path: "/data/rear_camera", Range: domain.TimeRange{Start: 50, End: 150}},
	}, domain.OverlapWindow{Start: 50, End: 100})
	require.NoError(t, err)

	rendered := out.String()
	frontIdx := strings.Index(rendered, "front_camera")
	rearIdx := strings.Index(rendered, "rear_camera")
	overlapIdx := strings.Index(rendered, "overlap")

	// first input on top, overlap row last
	require.GreaterOrEqual(t, frontIdx, 0)
	assert.Greater(t, rearIdx, frontIdx)
	assert.Greater(t, overlapIdx, rearIdx)
}

func TestPlot_EmptyWindowOmitsOverlapRow(t *testing.T) {
	out := &bytes.Buffer{}
	err := New(out).Plot([]domain.BagRange{
		{Path: "/data/a", Range: domain.TimeRange{Start: 0, End: 10}},
		{Path: "/data/b", Range: domain.TimeRange{Start: 20, End: 30}},
	}, domain.OverlapWindow{Start: 20, End: 10})
	require.NoError(t, err)
	assert.NotContains(t, out.String(), "overlap")
}

func TestPlot_NothingToPlot(t *testing.T) {
	err := New(&bytes.Buffer{}).Plot(nil, domain.OverlapWindow{})
	assert.Error(t, err)
}

func TestPlot_ZeroSpan(t *testing.T) {
	out := &bytes.Buffer{}
	err := New(out).Plot([]domain.BagRange{
		{Path: "/data/a", Range: domain.TimeRange{Start: 100, End: 100}},
	}, domain.OverlapWindow{Start: 100, End: 100})
	assert.NoError(t, err)
}

func TestBar_Mapping(t *testing.T) {
	full := bar(0, 100, 0, 100)
	assert.Equal(t, barWidth, len([]rune(full)))
	assert.False(t, strings.HasPrefix(full, " "))

	secondHalf := bar(50, 100, 0, 100)
	assert.True(t, strings.HasPrefix(secondHalf, strings.Repeat(" ", barWidth/2)))
}
