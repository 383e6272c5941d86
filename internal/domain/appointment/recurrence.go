package appointment

import (
	"time"

	"github.com/quiroferreira/clinic-scheduler/internal/httperr"
)

// ===============================
// Recurrence Expansion
// ===============================

type RecurrenceType string

const (
	RecurrenceDaily   RecurrenceType = "daily"
	RecurrenceWeekly  RecurrenceType = "weekly"
	RecurrenceMonthly RecurrenceType = "monthly"
)

// RecurrenceRule describes one expansion request. Weekdays follow the
// convention Sunday = 0 … Saturday = 6 (same as time.Weekday).
type RecurrenceRule struct {
	Type             RecurrenceType
	Occurrences      int
	WeeklyCount      int   // weekly: overrides Occurrences when > 0
	SelectedWeekdays []int // daily: required, non-empty
	IntervalMonths   int   // monthly: one of 1, 2, 3, 6, 12
}

var validMonthIntervals = map[int]bool{1: true, 2: true, 3: true, 6: true, 12: true}

const dateLayout = "2006-01-02"

// ExpandRecurrence turns a start date plus rule into the ordered list of
// local dates of the batch. It is a pure calendar function: no clock, no
// storage, no zone (all occurrences share the request's local time of day).
func ExpandRecurrence(startDate string, rule RecurrenceRule, maxOccurrences int) ([]string, error) {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidRequest)
	}

	switch rule.Type {
	case RecurrenceDaily:
		return expandDaily(start, rule, maxOccurrences)
	case RecurrenceWeekly:
		return expandWeekly(start, rule, maxOccurrences)
	case RecurrenceMonthly:
		return expandMonthly(start, rule, maxOccurrences)
	default:
		return nil, httperr.ErrBusiness(httperr.CodeInvalidRequest)
	}
}

// expandDaily walks forward day by day from the start date and emits the
// days whose weekday is selected. Skipped days do not count toward the
// occurrence total.
func expandDaily(start time.Time, rule RecurrenceRule, max int) ([]string, error) {
	if err := checkOccurrences(rule.Occurrences, max); err != nil {
		return nil, err
	}
	if len(rule.SelectedWeekdays) == 0 {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidRequest)
	}

	selected := make(map[int]bool, len(rule.SelectedWeekdays))
	for _, wd := range rule.SelectedWeekdays {
		if wd < 0 || wd > 6 {
			return nil, httperr.ErrBusiness(httperr.CodeInvalidRequest)
		}
		selected[wd] = true
	}

	dates := make([]string, 0, rule.Occurrences)
	for day := start; len(dates) < rule.Occurrences; day = day.AddDate(0, 0, 1) {
		if selected[int(day.Weekday())] {
			dates = append(dates, day.Format(dateLayout))
		}
	}

	return dates, nil
}

// expandWeekly emits the start date's weekday once per week. WeeklyCount
// wins over Occurrences when present.
func expandWeekly(start time.Time, rule RecurrenceRule, max int) ([]string, error) {
	count := rule.WeeklyCount
	if count <= 0 {
		count = rule.Occurrences
	}
	if err := checkOccurrences(count, max); err != nil {
		return nil, err
	}

	dates := make([]string, 0, count)
	for week := 0; week < count; week++ {
		dates = append(dates, start.AddDate(0, 0, week*7).Format(dateLayout))
	}

	return dates, nil
}

// expandMonthly emits start + k·interval months. When the target month is
// shorter than the start's day of month, the day clamps to the month's last
// day (Jan 31 + 1 month = Feb 28/29).
func expandMonthly(start time.Time, rule RecurrenceRule, max int) ([]string, error) {
	if err := checkOccurrences(rule.Occurrences, max); err != nil {
		return nil, err
	}
	if !validMonthIntervals[rule.IntervalMonths] {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidRequest)
	}

	dates := make([]string, 0, rule.Occurrences)
	for k := 0; k < rule.Occurrences; k++ {
		months := k * rule.IntervalMonths

		first := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
		target := first.AddDate(0, months, 0)

		day := start.Day()
		if last := daysInMonth(target.Year(), target.Month()); day > last {
			day = last
		}

		dates = append(dates, time.Date(
			target.Year(), target.Month(), day,
			0, 0, 0, 0, time.UTC,
		).Format(dateLayout))
	}

	return dates, nil
}

func checkOccurrences(n, max int) error {
	if n < 1 || n > max {
		return httperr.ErrBusiness(httperr.CodeInvalidRequest)
	}
	return nil
}

func daysInMonth(year int, month time.Month) int {
	// day 0 of the next month normalizes to the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
