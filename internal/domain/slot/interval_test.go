//go:build unit

package slot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustInterval(t *testing.T, start, end time.Time) Interval {
	t.Helper()
	iv, err := NewInterval(start, end)
	require.NoError(t, err)
	return iv
}

func TestNewInterval(t *testing.T) {
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		start   time.Time
		end     time.Time
		wantErr error
	}{
		{
			name:  "valid interval",
			start: base,
			end:   base.Add(time.Hour),
		},
		{
			name:    "zero-length interval rejected",
			start:   base,
			end:     base,
			wantErr: ErrInvalidInterval,
		},
		{
			name:    "reversed interval rejected",
			start:   base.Add(time.Hour),
			end:     base,
			wantErr: ErrInvalidInterval,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iv, err := NewInterval(tt.start, tt.end)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, iv.Start().Equal(tt.start))
			assert.True(t, iv.End().Equal(tt.end))
		})
	}
}

func TestNewIntervalNormalizesToUTC(t *testing.T) {
	jst := time.FixedZone("JST", 9*60*60)
	start := time.Date(2026, 3, 10, 18, 0, 0, 0, jst)
	end := start.Add(time.Hour)

	iv := mustInterval(t, start, end)

	assert.Equal(t, time.UTC, iv.Start().Location())
	assert.Equal(t, time.UTC, iv.End().Location())
	assert.True(t, iv.Start().Equal(start))
}

func TestIntervalOverlaps(t *testing.T) {
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	h := func(hours int) time.Time { return base.Add(time.Duration(hours) * time.Hour) }

	tests := []struct {
		name string
		a    Interval
		b    Interval
		want bool
	}{
		{
			name: "identical intervals overlap",
			a:    mustInterval(t, h(0), h(1)),
			b:    mustInterval(t, h(0), h(1)),
			want: true,
		},
		{
			name: "partial overlap",
			a:    mustInterval(t, h(0), h(2)),
			b:    mustInterval(t, h(1), h(3)),
			want: true,
		},
		{
			name: "containment overlaps",
			a:    mustInterval(t, h(0), h(4)),
			b:    mustInterval(t, h(1), h(2)),
			want: true,
		},
		{
			name: "abutting intervals do not overlap",
			a:    mustInterval(t, h(0), h(1)),
			b:    mustInterval(t, h(1), h(2)),
			want: false,
		},
		{
			name: "disjoint intervals do not overlap",
			a:    mustInterval(t, h(0), h(1)),
			b:    mustInterval(t, h(2), h(3)),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a))
		})
	}
}

func TestIntervalContains(t *testing.T) {
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	iv := mustInterval(t, base, base.Add(time.Hour))

	assert.True(t, iv.Contains(base), "start boundary is inside")
	assert.True(t, iv.Contains(base.Add(30*time.Minute)))
	assert.False(t, iv.Contains(base.Add(time.Hour)), "end boundary is outside")
	assert.False(t, iv.Contains(base.Add(-time.Minute)))
}

func TestIntervalDuration(t *testing.T) {
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	iv := mustInterval(t, base, base.Add(90*time.Minute))
	assert.Equal(t, 90*time.Minute, iv.Duration())
}
