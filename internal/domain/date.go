package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the stored and accepted birthday format.
const DateLayout = "02-01-2006"

var datePattern = regexp.MustCompile(`^(\d{2})-(\d{2})-(\d{4})$`)

// Tier selects the reminder template for a match offset.
type Tier int

const (
	TierToday Tier = iota
	TierOneDayBefore
	TierTwoDaysBefore
)

// Offsets scanned every day, in dispatch order.
var Offsets = []int{0, 1, 2}

func (t Tier) String() string {
	switch t {
	case TierToday:
		return "today"
	case TierOneDayBefore:
		return "one_day_before"
	case TierTwoDaysBefore:
		return "two_days_before"
	default:
		return "unknown"
	}
}

// DaysLeft is the number of days until the birthday for this tier.
func (t Tier) DaysLeft() int { return int(t) }

// TierForOffset maps a day offset (0..2) to its tier.
func TierForOffset(k int) (Tier, bool) {
	if k < 0 || k > int(TierTwoDaysBefore) {
		return 0, false
	}
	return Tier(k), true
}

// ParseDate validates s as DD-MM-YYYY and returns the calendar date in UTC.
// Two-digit day and month are required; impossible dates such as 31-02 are rejected.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	m := datePattern.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	if day < 1 || day > 31 || month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// FormatDate renders t as DD-MM-YYYY.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// AddDays returns the calendar date k days after today, keeping today's location.
// Month and year rollover follow the Gregorian calendar.
func AddDays(today time.Time, k int) time.Time {
	y, m, d := today.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, today.Location()).AddDate(0, 0, k)
}

// DayMonthKey returns the year-independent key DD-MM for t.
func DayMonthKey(t time.Time) string {
	return t.Format("02-01")
}

// MatchesDayMonth reports whether a stored DD-MM-YYYY date falls on key.
// Feb 29 only matches a real Feb 29.
func MatchesDayMonth(date, key string) bool {
	return strings.HasPrefix(date, key+"-")
}
