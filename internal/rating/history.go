package rating

import (
	"fmt"
	"sort"
	"time"
)

// Len returns the number of snapshots.
func (h History) Len() int {
	return len(h)
}

// First returns the earliest snapshot. It panics on an empty history.
func (h History) First() Snapshot {
	return h[0]
}

// Last returns the most recently inserted snapshot of the latest day.
// It panics on an empty history.
func (h History) Last() Snapshot {
	return h[len(h)-1]
}

// Current returns the rating currently in force, or NoRating if the history is empty.
func (h History) Current() int {
	if len(h) == 0 {
		return NoRating
	}
	return h[len(h)-1].Rating
}

// At returns the rating that was in force strictly before date.
//
// Dates on or before the first snapshot clamp to the first rating and dates
// after the last snapshot return the current rating. When several snapshots
// share a timestamp the last one inserted represents that day.
func (h History) At(date time.Time) int {
	switch len(h) {
	case 0:
		return NoRating
	case 1:
		return h[0].Rating
	}

	date = Day(date)
	// First index whose timestamp is not before date.
	i := sort.Search(len(h), func(i int) bool {
		return !h[i].Timestamp.Before(date)
	})
	if i == 0 {
		return h[0].Rating
	}
	return h[i-1].Rating
}

// Append adds a snapshot to the end of the history. Timestamps must not go backwards.
func (h History) Append(s Snapshot) (History, error) {
	s.Timestamp = Day(s.Timestamp)
	if len(h) > 0 && s.Timestamp.Before(h[len(h)-1].Timestamp) {
		return h, fmt.Errorf("%w: dated %s before last snapshot dated %s",
			ErrSnapshotOutOfOrder, s.Timestamp.Format(time.DateOnly), h[len(h)-1].Timestamp.Format(time.DateOnly))
	}
	return append(h, s), nil
}
