package timeutil

import (
	"fmt"
	"time"
)

// RelativeAge renders the age of a timestamp the way the document list
// shows it: days once the age reaches 24 hours, hours once it reaches one
// hour (boundary inclusive), minutes below that. Floor division throughout.
func RelativeAge(now, at time.Time) string {
	diff := now.Sub(at)
	hours := int(diff / time.Hour)
	minutes := int(diff / time.Minute)

	if hours >= 1 {
		if hours >= 24 {
			days := hours / 24
			return fmt.Sprintf("%d %s", days, plural("day", days))
		}
		return fmt.Sprintf("%d %s", hours, plural("hour", hours))
	}
	return fmt.Sprintf("%d %s", minutes, plural("minute", minutes))
}

func plural(unit string, n int) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}

// MonthYear is the history group label, e.g. "Jun 2024".
func MonthYear(at time.Time) string {
	return at.Format("Jan 2006")
}

// SameDate reports whether two instants fall on the same calendar day in
// the given location.
func SameDate(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}
