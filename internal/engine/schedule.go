package engine

import (
	"fmt"
	"time"

	"github.com/release-eng/advisory-sync/model"
)

// ReleaseDateFormat is the calendar-date layout accepted for explicit
// release dates.
const ReleaseDateFormat = "2006-01-02"

// releaseCadenceDays is the spacing between scheduled releases.
const releaseCadenceDays = 21

// releaseWeekday is the weekday every computed release date lands on.
const releaseWeekday = time.Tuesday

// NextReleaseDate computes the release date for the next advisory of a
// product line.
//
// An explicit date wins: it is validated and returned unchanged. Otherwise
// the date is the latest release plus the cadence, moved back to the
// closest earlier (or same-day) release weekday. With no history and no
// explicit date the computation fails with ErrNoReleaseHistory.
func NextReleaseDate(latest *model.ReleaseHistoryEntry, explicit string) (time.Time, error) {
	if explicit != "" {
		date, err := time.Parse(ReleaseDateFormat, explicit)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid release date %q: %w", explicit, err)
		}
		return date, nil
	}

	if latest == nil {
		return time.Time{}, ErrNoReleaseHistory
	}

	candidate := latest.ReleaseDate.AddDate(0, 0, releaseCadenceDays)

	// Snap back to the release weekday. The +7 keeps the delta in [0,6] so
	// the adjustment only ever moves earlier, never wraps forward.
	delta := (int(candidate.Weekday()) - int(releaseWeekday) + 7) % 7
	if delta != 0 {
		candidate = candidate.AddDate(0, 0, -delta)
	}
	return candidate, nil
}
