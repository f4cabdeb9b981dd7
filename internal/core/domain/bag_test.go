package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackendExtension(t *testing.T) {
	assert.Equal(t, ".db3", BackendSQLite3.Extension())
	assert.Equal(t, ".mcap", BackendMCAP.Extension())
	assert.Empty(t, Backend("rosbag_v2").Extension())
}

func TestTimeRangeContains(t *testing.T) {
	r := TimeRange{Start: 10, End: 20}
	assert.True(t, r.Contains(10))
	assert.True(t, r.Contains(20))
	assert.True(t, r.Contains(15))
	assert.False(t, r.Contains(9))
	assert.False(t, r.Contains(21))
}

func TestOverlapWindowEmpty(t *testing.T) {
	assert.False(t, OverlapWindow{Start: 0, End: 0}.Empty())
	assert.False(t, OverlapWindow{Start: 5, End: 10}.Empty())
	assert.True(t, OverlapWindow{Start: 20, End: 10}.Empty())
	assert.Zero(t, OverlapWindow{Start: 20, End: 10}.Duration())
	assert.Equal(t, 5*time.Nanosecond, OverlapWindow{Start: 5, End: 10}.Duration())
}

func TestContainsRange_Tolerance(t *testing.T) {
	w := OverlapWindow{Start: 50, End: 150}

	tests := []struct {
		name string
		r    TimeRange
		want bool
	}{
		{"strictly inside", TimeRange{Start: 60, End: 140}, true},
		{"exact boundaries", TimeRange{Start: 50, End: 150}, true},
		{"sticks out within tolerance", TimeRange{Start: 40, End: 160}, true},
		{"start just outside tolerance", TimeRange{Start: 39, End: 150}, false},
		{"end just outside tolerance", TimeRange{Start: 50, End: 161}, false},
		{"fully outside", TimeRange{Start: 0, End: 300}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.ContainsRange(tt.r))
		})
	}
}

func TestBagMetadataRange(t *testing.T) {
	m := &BagMetadata{StartNs: 1000, DurationNs: 500}
	assert.Equal(t, TimeRange{Start: 1000, End: 1500}, m.Range())
}
