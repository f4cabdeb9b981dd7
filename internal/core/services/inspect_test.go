package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoLichtenfeld/ros2bag-tools/internal/core/domain"
)

func TestInfo_FromDescriptor(t *testing.T) {
	storage := newFakeStorage()
	storage.addBag("/data/bag", &fakeBag{
		meta: &domain.BagMetadata{StartNs: 10, DurationNs: 90, MessageCount: 42},
	})

	meta, err := NewInspector(storage).Info(context.Background(), "/data/bag")
	require.NoError(t, err)
	assert.Equal(t, int64(42), meta.MessageCount)
	assert.Equal(t, domain.TimeRange{Start: 10, End: 100}, meta.Range())
}

func TestInfo_NotABag(t *testing.T) {
	storage := newFakeStorage()
	storage.existing["/data/other"] = true

	_, err := NewInspector(storage).Info(context.Background(), "/data/other")
	assert.ErrorIs(t, err, domain.ErrNotABag)
}

func TestInfo_FallsBackToStorage(t *testing.T) {
	storage := newFakeStorage()
	// the descriptor read fails but the fake reader still serves the
	// bag's metadata
	storage.addBag("/data/bag", &fakeBag{
		descErr: errors.New("yaml: corrupt"),
		meta:    &domain.BagMetadata{StartNs: 5, DurationNs: 10},
	})

	meta, err := NewInspector(storage).Info(context.Background(), "/data/bag")
	require.NoError(t, err)
	assert.Equal(t, domain.TimeRange{Start: 5, End: 15}, meta.Range())
}

func TestStats_SinglePassAggregation(t *testing.T) {
	storage := newFakeStorage()
	storage.addBag("/data/bag", &fakeBag{
		msgs: []domain.Message{
			{Topic: "/scan", Timestamp: 0},
			{Topic: "/imu", Timestamp: 5},
			{Topic: "/scan", Timestamp: 100},
			{Topic: "/scan", Timestamp: 150},
			{Topic: "/imu", Timestamp: 15},
		},
	})

	report, err := NewInspector(storage).Stats(context.Background(), "/data/bag", nil)
	require.NoError(t, err)
	require.Len(t, report.Topics, 2)

	scan := report.Topics[0]
	assert.Equal(t, "/scan", scan.Topic)
	assert.Equal(t, int64(3), scan.Count)
	assert.Equal(t, int64(0), scan.FirstStampNs)
	assert.Equal(t, int64(150), scan.LastStampNs)
	assert.Equal(t, int64(75), scan.MeanPeriodNs)
	assert.Equal(t, int64(50), scan.MinDeltaNs)
	assert.Equal(t, int64(100), scan.MaxDeltaNs)

	imu := report.Topics[1]
	assert.Equal(t, "/imu", imu.Topic)
	assert.Equal(t, int64(2), imu.Count)
	assert.Equal(t, int64(10), imu.MeanPeriodNs)
}

func TestStats_TopicFilter(t *testing.T) {
	storage := newFakeStorage()
	storage.addBag("/data/bag", &fakeBag{
		msgs: []domain.Message{
			{Topic: "/scan", Timestamp: 0},
			{Topic: "/imu", Timestamp: 5},
		},
	})

	report, err := NewInspector(storage).Stats(context.Background(), "/data/bag", []string{"/imu"})
	require.NoError(t, err)
	require.Len(t, report.Topics, 1)
	assert.Equal(t, "/imu", report.Topics[0].Topic)
}

func TestStats_SingleMessageTopic(t *testing.T) {
	storage := newFakeStorage()
	storage.addBag("/data/bag", &fakeBag{
		msgs: []domain.Message{{Topic: "/scan", Timestamp: 7}},
	})

	report, err := NewInspector(storage).Stats(context.Background(), "/data/bag", nil)
	require.NoError(t, err)
	require.Len(t, report.Topics, 1)
	stats := report.Topics[0]
	assert.Equal(t, int64(1), stats.Count)
	assert.Equal(t, int64(7), stats.FirstStampNs)
	assert.Equal(t, int64(7), stats.LastStampNs)
	assert.Zero(t, stats.MeanPeriodNs)
	assert.Zero(t, stats.MinDeltaNs)
}
