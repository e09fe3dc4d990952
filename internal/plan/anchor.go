package plan

import (
	"fmt"
	"time"
)

// WeekStart returns the Monday of the Monday-to-Sunday week containing d.
// A Sunday is the last day of its week, not the first day of the next.
func WeekStart(d time.Time) time.Time {
	d = calendarDay(d)
	offset := int(d.Weekday()) - 1
	if d.Weekday() == time.Sunday {
		offset = 6
	}
	return d.AddDate(0, 0, -offset)
}

// ComputeStartDate returns the calendar date of week 1, day 1 of a plan that lasts the given
// number of weeks and whose final week is race week. The result is always a Monday.
func ComputeStartDate(raceDate time.Time, weeks int) (time.Time, error) {
	if weeks <= 0 {
		return time.Time{}, fmt.Errorf("%w: weeks must be positive, got %d", ErrInvalidArgument, weeks)
	}
	if raceDate.IsZero() {
		return time.Time{}, fmt.Errorf("%w: race date is required", ErrInvalidArgument)
	}
	return WeekStart(raceDate).AddDate(0, 0, -7*(weeks-1)), nil
}

// AnchorDates is ComputeStartDate over YYYY-MM-DD strings.
func AnchorDates(raceDate string, weeks int) (string, error) {
	race, err := ParseDate(raceDate)
	if err != nil {
		return "", err
	}
	start, err := ComputeStartDate(race, weeks)
	if err != nil {
		return "", err
	}
	return FormatDate(start), nil
}
