package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoLichtenfeld/ros2bag-tools/internal/core/domain"
	"github.com/JoLichtenfeld/ros2bag-tools/internal/core/ports/driving"
)

// mockOverlap records calls and returns canned results.
type mockOverlap struct {
	findCalls [][]string
	cropCalls []driving.CropOptions
	result    *driving.OverlapResult
	cropRes   *driving.CropResult
	err       error
}

func (m *mockOverlap) FindOverlap(_ context.Context, paths []string) (*driving.OverlapResult, error) {
	m.findCalls = append(m.findCalls, paths)
	return m.result, m.err
}

func (m *mockOverlap) CropToOverlap(_ context.Context, paths []string, opts driving.CropOptions) (*driving.OverlapResult, *driving.CropResult, error) {
	m.cropCalls = append(m.cropCalls, opts)
	return m.result, m.cropRes, m.err
}

type mockSplit struct {
	opts driving.SplitOptions
	res  *driving.SplitResult
	err  error
}

func (m *mockSplit) Split(_ context.Context, _ []string, opts driving.SplitOptions) (*driving.SplitResult, error) {
	m.opts = opts
	return m.res, m.err
}

type mockInspect struct {
	meta   *domain.BagMetadata
	report *driving.StatsReport
	err    error
}

func (m *mockInspect) Info(context.Context, string) (*domain.BagMetadata, error) {
	return m.meta, m.err
}

func (m *mockInspect) Stats(context.Context, string, []string) (*driving.StatsReport, error) {
	return m.report, m.err
}

// nullReport satisfies the renderer without producing output.
type nullReport struct {
	overlaps int
	crops    int
}

func (r *nullReport) RenderOverlap(io.Writer, *driving.OverlapResult, bool) { r.overlaps++ }
func (r *nullReport) RenderCrop(io.Writer, *driving.CropResult)            { r.crops++ }
func (r *nullReport) RenderSplit(io.Writer, *driving.SplitResult)          {}
func (r *nullReport) RenderInfo(io.Writer, string, *domain.BagMetadata)    {}
func (r *nullReport) RenderStats(io.Writer, *driving.StatsReport)          {}

// runCommand executes the root command against mocks, restoring all
// package state afterwards.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() {
		overlapService = nil
		splitService = nil
		inspectService = nil
		report = nil
		overlapCrop = false
		overlapOutputDir = ""
		overlapOutput = ""
		overlapOverwrite = false
		overlapPlot = false
		overlapMaxSize = 0
		splitOutput = ""
		splitMaxSize = 1000000000
		splitInPlace = false
		splitValidate = true
		statsTopics = nil
	})

	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestOverlapCommand_Find(t *testing.T) {
	mock := &mockOverlap{result: &driving.OverlapResult{
		Window: domain.OverlapWindow{Start: 0, End: 10},
	}}
	rep := &nullReport{}
	overlapService = mock
	report = rep

	_, err := runCommand(t, "overlap", "/data/a", "/data/b")
	require.NoError(t, err)
	require.Len(t, mock.findCalls, 1)
	assert.Equal(t, []string{"/data/a", "/data/b"}, mock.findCalls[0])
	assert.Equal(t, 1, rep.overlaps)
	assert.Empty(t, mock.cropCalls)
}

func TestOverlapCommand_EmptyOverlapWithoutCropSucceeds(t *testing.T) {
	overlapService = &mockOverlap{result: &driving.OverlapResult{
		Window: domain.OverlapWindow{Start: 20, End: 10},
	}}
	report = &nullReport{}

	_, err := runCommand(t, "overlap", "/data/a")
	assert.NoError(t, err)
}

func TestOverlapCommand_Crop(t *testing.T) {
	mock := &mockOverlap{
		result:  &driving.OverlapResult{Window: domain.OverlapWindow{Start: 0, End: 10}},
		cropRes: &driving.CropResult{Total: 1, Succeeded: 1},
	}
	rep := &nullReport{}
	overlapService = mock
	report = rep

	_, err := runCommand(t, "overlap", "--crop", "--output-dir", "/out", "--overwrite", "/data/a")
	require.NoError(t, err)
	require.Len(t, mock.cropCalls, 1)
	assert.Equal(t, "/out", mock.cropCalls[0].OutputDir)
	assert.True(t, mock.cropCalls[0].Overwrite)
	assert.Equal(t, 1, rep.crops)
}

func TestOverlapCommand_CropDefaults(t *testing.T) {
	mock := &mockOverlap{
		result:  &driving.OverlapResult{Window: domain.OverlapWindow{Start: 0, End: 10}},
		cropRes: &driving.CropResult{Total: 1, Succeeded: 1},
	}
	overlapService = mock
	report = &nullReport{}

	_, err := runCommand(t, "overlap", "--crop", "/data/a")
	require.NoError(t, err)
	require.Len(t, mock.cropCalls, 1)
	assert.Equal(t, defaultOutputDir, mock.cropCalls[0].OutputDir)
	assert.Equal(t, defaultMaxSegment, mock.cropCalls[0].MaxSegmentBytes)
}

func TestOverlapCommand_PartialCropFails(t *testing.T) {
	overlapService = &mockOverlap{
		result:  &driving.OverlapResult{Window: domain.OverlapWindow{Start: 0, End: 10}},
		cropRes: &driving.CropResult{Total: 2, Succeeded: 1},
	}
	report = &nullReport{}

	_, err := runCommand(t, "overlap", "--crop", "/data/a", "/data/b")
	assert.ErrorContains(t, err, "cropped 1/2 bags")
}

func TestOverlapCommand_CropErrorStillRendersOverlap(t *testing.T) {
	rep := &nullReport{}
	overlapService = &mockOverlap{
		result: &driving.OverlapResult{Window: domain.OverlapWindow{Start: 20, End: 10}},
		err:    domain.ErrEmptyOverlap,
	}
	report = rep

	_, err := runCommand(t, "overlap", "--crop", "/data/a", "/data/b")
	assert.ErrorIs(t, err, domain.ErrEmptyOverlap)
	assert.Equal(t, 1, rep.overlaps)
	assert.Zero(t, rep.crops)
}

func TestOverlapCommand_RequiresArgs(t *testing.T) {
	overlapService = &mockOverlap{}
	report = &nullReport{}

	_, err := runCommand(t, "overlap")
	assert.Error(t, err)
}

func TestSplitCommand(t *testing.T) {
	mock := &mockSplit{res: &driving.SplitResult{Total: 1, Succeeded: 1}}
	splitService = mock
	report = &nullReport{}

	_, err := runCommand(t, "split", "--max-size", "500", "/data/a")
	require.NoError(t, err)
	assert.Equal(t, int64(500), mock.opts.MaxSegmentBytes)
	assert.True(t, mock.opts.Validate)
}

func TestSplitCommand_PartialFails(t *testing.T) {
	splitService = &mockSplit{res: &driving.SplitResult{Total: 2, Succeeded: 1}}
	report = &nullReport{}

	_, err := runCommand(t, "split", "/data/a", "/data/b")
	assert.ErrorContains(t, err, "split 1/2 bags")
}

func TestInfoCommand(t *testing.T) {
	inspectService = &mockInspect{meta: &domain.BagMetadata{Backend: domain.BackendSQLite3}}
	report = &nullReport{}

	_, err := runCommand(t, "info", "/data/a")
	assert.NoError(t, err)
}

func TestInfoCommand_Error(t *testing.T) {
	inspectService = &mockInspect{err: errors.New("not a bag")}
	report = &nullReport{}

	_, err := runCommand(t, "info", "/data/a")
	assert.ErrorContains(t, err, "not a bag")
}

func TestStatsCommand(t *testing.T) {
	inspectService = &mockInspect{report: &driving.StatsReport{}}
	report = &nullReport{}

	_, err := runCommand(t, "stats", "--topics", "/scan,/imu", "/data/a")
	assert.NoError(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := runCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "ros2bag-tools version")
}
