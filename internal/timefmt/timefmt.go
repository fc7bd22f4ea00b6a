// Package timefmt renders timestamps the way the chat surfaces expect them:
// coarse relative phrases for fresh activity, absolute dates for old activity.
// The same 7-day threshold drives the recent/older partition of the chat list.
package timefmt

import (
	"fmt"
	"time"
)

// RecentWindow is the cutoff separating "recent" chats from "older" ones.
// The boundary itself counts as recent.
const RecentWindow = 7 * 24 * time.Hour

// FormatRelative renders ts relative to now:
// under 1 hour "just now", under 24 hours "N hours ago",
// under 7 days "N days ago", otherwise the absolute date.
func FormatRelative(ts, now time.Time) string {
	d := now.Sub(ts)
	switch {
	case d < time.Hour:
		return "just now"
	case d < 24*time.Hour:
		return plural(int(d.Hours()), "hour")
	case d < RecentWindow:
		return plural(int(d.Hours()/24), "day")
	default:
		return ts.Format("Jan 2, 2006")
	}
}

// IsRecent reports whether ts falls inside the recent window, inclusive.
func IsRecent(ts, now time.Time) bool {
	return now.Sub(ts) <= RecentWindow
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
