package shared

import "time"

// Day truncates t to 00:00 UTC. All per-day keys use UTC day boundaries.
func Day(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// WeekStart returns the Monday (00:00 UTC) of the ISO week containing t.
func WeekStart(t time.Time) time.Time {
	d := Day(t)
	weekday := int(d.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return d.AddDate(0, 0, 1-weekday)
}
