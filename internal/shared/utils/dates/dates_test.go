package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	seoul := time.FixedZone("KST", 9*3600)
	in := time.Date(2024, 7, 5, 23, 30, 0, 0, seoul)

	got := Normalize(in)
	assert.Equal(t, time.Date(2024, 7, 5, 0, 0, 0, 0, time.UTC), got)
}

func TestParse(t *testing.T) {
	got, err := Parse("2024-07-11")
	require.NoError(t, err)
	assert.Equal(t, "2024-07-11", Format(got))

	_, err = Parse("11/07/2024")
	assert.Error(t, err)
}

func TestSpanDays(t *testing.T) {
	assert.Equal(t, 1, SpanDays(MustParse("2024-07-01"), MustParse("2024-07-01")))
	assert.Equal(t, 10, SpanDays(MustParse("2024-07-01"), MustParse("2024-07-10")))
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                   string
		aFrom, aTo, bFrom, bTo string
		want                   bool
	}{
		{"disjoint", "2024-07-01", "2024-07-10", "2024-07-11", "2024-07-15", false},
		{"touching end day", "2024-07-01", "2024-07-10", "2024-07-10", "2024-07-15", true},
		{"contained", "2024-07-01", "2024-07-31", "2024-07-10", "2024-07-12", true},
		{"before", "2024-07-05", "2024-07-08", "2024-07-01", "2024-07-04", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overlaps(MustParse(tt.aFrom), MustParse(tt.aTo), MustParse(tt.bFrom), MustParse(tt.bTo))
			assert.Equal(t, tt.want, got)
			// symmetric
			assert.Equal(t, tt.want, Overlaps(MustParse(tt.bFrom), MustParse(tt.bTo), MustParse(tt.aFrom), MustParse(tt.aTo)))
		})
	}
}
