package ledger

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Timeline is the set of a cell's active intervals ordered by start date.
// maxEnd[i] is the latest end date among entries[0..i], which makes it
// non-decreasing and lets FirstOverlap binary search even when stored
// intervals overlap each other.
type Timeline struct {
	entries []Entry
	maxEnd  []time.Time
}

// NewTimeline builds a timeline from entries in any order, leaving out the
// entry owned by exclude (uuid.Nil excludes nothing).
func NewTimeline(entries []Entry, exclude uuid.UUID) *Timeline {
	kept := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if exclude != uuid.Nil && e.OccupancyID == exclude {
			continue
		}
		kept = append(kept, e)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if !kept[i].StartDate.Equal(kept[j].StartDate) {
			return kept[i].StartDate.Before(kept[j].StartDate)
		}
		return kept[i].EndDate.Before(kept[j].EndDate)
	})

	maxEnd := make([]time.Time, len(kept))
	for i, e := range kept {
		maxEnd[i] = e.EndDate
		if i > 0 && maxEnd[i-1].After(e.EndDate) {
			maxEnd[i] = maxEnd[i-1]
		}
	}

	return &Timeline{entries: kept, maxEnd: maxEnd}
}

// Len returns the number of intervals on the timeline.
func (t *Timeline) Len() int {
	return len(t.entries)
}

// FirstOverlap returns the earliest-starting entry sharing a day with the
// inclusive range [from, to].
func (t *Timeline) FirstOverlap(from, to time.Time) (Entry, bool) {
	// candidates start on or before to
	n := sort.Search(len(t.entries), func(i int) bool {
		return t.entries[i].StartDate.After(to)
	})

	// first candidate whose running max end reaches from; since maxEnd[i-1]
	// is still before from, entries[i] itself ends on or after from
	i := sort.Search(n, func(i int) bool {
		return !t.maxEnd[i].Before(from)
	})
	if i < n {
		return t.entries[i], true
	}
	return Entry{}, false
}
