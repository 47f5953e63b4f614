package ledger

import (
	"math/rand"
	"testing"
	"time"

	"popupzone/internal/shared/utils/dates"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(start, end string) Entry {
	return Entry{
		OccupancyID: uuid.New(),
		StartDate:   dates.MustParse(start),
		EndDate:     dates.MustParse(end),
		State:       StateHeld,
	}
}

func TestTimeline_FirstOverlap(t *testing.T) {
	a := entry("2024-07-01", "2024-07-05")
	b := entry("2024-07-10", "2024-07-12")
	c := entry("2024-07-20", "2024-07-31")
	tl := NewTimeline([]Entry{c, a, b}, uuid.Nil)

	tests := []struct {
		name     string
		from, to string
		want     *Entry
	}{
		{"before everything", "2024-06-01", "2024-06-30", nil},
		{"gap between a and b", "2024-07-06", "2024-07-09", nil},
		{"touches a end", "2024-07-05", "2024-07-06", &a},
		{"touches b start", "2024-07-08", "2024-07-10", &b},
		{"spans b and c", "2024-07-11", "2024-07-25", &b},
		{"inside c", "2024-07-21", "2024-07-22", &c},
		{"after everything", "2024-08-01", "2024-08-02", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tl.FirstOverlap(dates.MustParse(tt.from), dates.MustParse(tt.to))
			if tt.want == nil {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.want.OccupancyID, got.OccupancyID)
		})
	}
}

func TestTimeline_LongIntervalShadowsLaterOnes(t *testing.T) {
	// a long early interval still wins when a short later one ends first
	long := entry("2024-01-01", "2024-12-31")
	short := entry("2024-03-01", "2024-03-02")
	tl := NewTimeline([]Entry{short, long}, uuid.Nil)

	got, ok := tl.FirstOverlap(dates.MustParse("2024-06-01"), dates.MustParse("2024-06-02"))
	require.True(t, ok)
	assert.Equal(t, long.OccupancyID, got.OccupancyID)
}

func TestTimeline_Exclude(t *testing.T) {
	a := entry("2024-07-01", "2024-07-05")
	tl := NewTimeline([]Entry{a}, a.OccupancyID)

	assert.Equal(t, 0, tl.Len())
	_, ok := tl.FirstOverlap(dates.MustParse("2024-07-01"), dates.MustParse("2024-07-05"))
	assert.False(t, ok)
}

func TestTimeline_MatchesLinearScan(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	base := dates.MustParse("2024-01-01")
	day := func(n int) time.Time { return base.AddDate(0, 0, n) }

	for round := 0; round < 200; round++ {
		var entries []Entry
		for i := 0; i < rng.Intn(12); i++ {
			s := rng.Intn(60)
			entries = append(entries, Entry{
				OccupancyID: uuid.New(),
				StartDate:   day(s),
				EndDate:     day(s + rng.Intn(10)),
			})
		}
		tl := NewTimeline(entries, uuid.Nil)

		qs := rng.Intn(70)
		from, to := day(qs), day(qs+rng.Intn(5))

		linear := false
		for _, e := range entries {
			if dates.Overlaps(e.StartDate, e.EndDate, from, to) {
				linear = true
				break
			}
		}

		got, ok := tl.FirstOverlap(from, to)
		require.Equal(t, linear, ok, "round %d", round)
		if ok {
			assert.True(t, dates.Overlaps(got.StartDate, got.EndDate, from, to))
		}
	}
}
