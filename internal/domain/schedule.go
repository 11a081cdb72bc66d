package domain

import "time"

// NextDailyRun returns the next instant strictly after now at which the local clock in loc
// reads atM minutes past midnight. DST gaps are resolved by time.Date normalisation.
func NextDailyRun(now time.Time, loc *time.Location, atM int) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	h, m := atM/60, atM%60
	next := time.Date(local.Year(), local.Month(), local.Day(), h, m, 0, 0, loc)
	if !next.After(local) {
		next = time.Date(local.Year(), local.Month(), local.Day()+1, h, m, 0, 0, loc)
	}
	return next
}

// LocalDate returns midnight of now's calendar day in loc.
func LocalDate(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, mo, d := now.In(loc).Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, loc)
}
