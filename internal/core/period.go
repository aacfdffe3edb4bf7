package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// AllTime selects every dated transaction with no bounds at all.
	// This is distinct from "bounded by the observed dates": no filtering
	// happens, and balance queries may use cached wallet totals.
	AllTime PeriodKind = iota
	ByMonth
	ByYear
)

type (
	PeriodKind int

	// Period selects a reporting window. The zero value is AllTime.
	Period struct {
		Kind  PeriodKind
		Year  int
		Month time.Month
	}
)

var ErrInvalidPeriod = errors.New("invalid period")

func AllTimePeriod() Period {
	return Period{Kind: AllTime}
}

func MonthPeriod(year int, month time.Month) Period {
	return Period{Kind: ByMonth, Year: year, Month: month}
}

func YearPeriod(year int) Period {
	return Period{Kind: ByYear, Year: year}
}

func (p Period) Validate() error {
	switch p.Kind {
	case AllTime:
		return nil
	case ByMonth:
		if p.Month < time.January || p.Month > time.December {
			return ErrInvalidPeriod
		}
		fallthrough
	case ByYear:
		if p.Year < 1 || p.Year > 9999 {
			return ErrInvalidPeriod
		}
		return nil
	default:
		return ErrInvalidPeriod
	}
}

// Bounds resolves the period to an inclusive [start, end] range in loc.
// The end instant is the period's last millisecond (23:59:59.999), so a
// transaction dated exactly there belongs to this period and not the next.
// Month lengths and leap years come from the time package's calendar.
// ok is false for AllTime, which has no bounds.
func (p Period) Bounds(loc *time.Location) (start, end time.Time, ok bool) {
	if loc == nil {
		loc = time.Local
	}
	switch p.Kind {
	case ByMonth:
		start = time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, loc)
		end = start.AddDate(0, 1, 0).Add(-time.Millisecond)
		return start, end, true
	case ByYear:
		start = time.Date(p.Year, time.January, 1, 0, 0, 0, 0, loc)
		end = start.AddDate(1, 0, 0).Add(-time.Millisecond)
		return start, end, true
	default:
		return time.Time{}, time.Time{}, false
	}
}

// Contains reports whether the instant falls inside the period.
// AllTime contains every instant.
func (p Period) Contains(t time.Time, loc *time.Location) bool {
	start, end, bounded := p.Bounds(loc)
	if !bounded {
		return true
	}
	return !t.Before(start) && !t.After(end)
}

// String renders the period the way ParsePeriod reads it:
// "all", "2025" or "2025-03".
func (p Period) String() string {
	switch p.Kind {
	case ByMonth:
		return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
	case ByYear:
		return fmt.Sprintf("%04d", p.Year)
	default:
		return "all"
	}
}

// ParsePeriod reads "all" (or the empty string), "YYYY" or "YYYY-MM".
func ParsePeriod(s string) (Period, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "all" {
		return AllTimePeriod(), nil
	}
	if year, month, found := strings.Cut(s, "-"); found {
		y, err := strconv.Atoi(year)
		if err != nil {
			return Period{}, ErrInvalidPeriod
		}
		m, err := strconv.Atoi(month)
		if err != nil {
			return Period{}, ErrInvalidPeriod
		}
		p := MonthPeriod(y, time.Month(m))
		if err := p.Validate(); err != nil {
			return Period{}, err
		}
		return p, nil
	}
	y, err := strconv.Atoi(s)
	if err != nil {
		return Period{}, ErrInvalidPeriod
	}
	p := YearPeriod(y)
	if err := p.Validate(); err != nil {
		return Period{}, err
	}
	return p, nil
}
