package domain

import (
	"testing"
	"time"
)

// helper: build a time in given tz and return its UTC
func mustLocalUTC(t *testing.T, tz string, y int, m time.Month, d, hh, mm int) time.Time {
	t.Helper()
	loc, err := time.LoadLocation(tz)
	if err != nil {
		t.Fatalf("load tz: %v", err)
	}
	lt := time.Date(y, m, d, hh, mm, 0, 0, loc)
	return lt.UTC()
}

func TestNextDailyRun_LaterToday(t *testing.T) {
	loc, _ := time.LoadLocation("Europe/Moscow")
	nowUTC := mustLocalUTC(t, "Europe/Moscow", 2025, time.May, 5, 7, 0)

	next := NextDailyRun(nowUTC, loc, 9*60)
	want := time.Date(2025, time.May, 5, 9, 0, 0, 0, loc)
	if !next.Equal(want) {
		t.Fatalf("want %s, got %s", want, next)
	}
}

func TestNextDailyRun_MidnightRollsToTomorrow(t *testing.T) {
	loc, _ := time.LoadLocation("Europe/Moscow")
	nowUTC := mustLocalUTC(t, "Europe/Moscow", 2025, time.May, 5, 19, 46)

	next := NextDailyRun(nowUTC, loc, 0)
	want := time.Date(2025, time.May, 6, 0, 0, 0, 0, loc)
	if !next.Equal(want) {
		t.Fatalf("want %s, got %s", want, next)
	}
}

func TestNextDailyRun_ExactlyAtRunTimeSchedulesNextDay(t *testing.T) {
	loc, _ := time.LoadLocation("Europe/Moscow")
	nowUTC := mustLocalUTC(t, "Europe/Moscow", 2024, time.December, 31, 0, 0)

	next := NextDailyRun(nowUTC, loc, 0)
	want := time.Date(2025, time.January, 1, 0, 0, 0, 0, loc)
	if !next.Equal(want) {
		t.Fatalf("want %s, got %s", want, next)
	}
}

func TestLocalDate_UsesSchedulerZone(t *testing.T) {
	loc, _ := time.LoadLocation("Asia/Kolkata")
	// 20:00 UTC on the 12th is already the 13th in Kolkata (+05:30).
	now := time.Date(2024, time.August, 12, 20, 0, 0, 0, time.UTC)

	got := LocalDate(now, loc)
	if got.Day() != 13 || got.Month() != time.August || got.Hour() != 0 {
		t.Fatalf("want 13 Aug midnight, got %s", got)
	}
}

func TestParseClock(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"00:00", 0, true},
		{"09:30", 570, true},
		{"23:59", 1439, true},
		{"24:00", 0, false},
		{"9", 0, false},
		{"ab:cd", 0, false},
	}
	for _, c := range cases {
		got, err := ParseClock(c.in)
		if c.ok && (err != nil || got != c.want) {
			t.Fatalf("%q: want %d, got %d (%v)", c.in, c.want, got, err)
		}
		if !c.ok && err == nil {
			t.Fatalf("%q: expected error", c.in)
		}
	}
	if FormatMinutes(570) != "09:30" {
		t.Fatalf("FormatMinutes(570) = %s", FormatMinutes(570))
	}
}
