package utils

import "time"

// DayFormat is the upstream statistics bucket key layout (YYYYMMDD).
const DayFormat = "20060102"

func FormatDay(t time.Time) string {
	return t.Format(DayFormat)
}

// StartOfDay returns midnight of t's day in t's own location.
func StartOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// DayWindow returns the [start of t's local day, t] range in milliseconds
// since epoch, the shape the upstream log endpoint expects.
func DayWindow(t time.Time) (startMs, endMs int64) {
	return StartOfDay(t).UnixMilli(), t.UnixMilli()
}
