package recurrence

import (
	"errors"
	"fmt"
	"time"

	"main/model"
)

// ErrInvalidRule is returned for an unknown repeat type or a frequency
// below 1.
var ErrInvalidRule = errors.New("invalid repeat rule")

// ValidateRule checks a repeat rule before any period math runs on it.
func ValidateRule(rule model.RepeatRule) error {
	switch rule.Type {
	case model.RepeatDaily, model.RepeatWeekly, model.RepeatMonthly, model.RepeatYearly:
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidRule, rule.Type)
	}
	if rule.Frequency < 1 {
		return fmt.Errorf("%w: frequency %d", ErrInvalidRule, rule.Frequency)
	}
	return nil
}

// PeriodEnd computes the deadline of a period opened at startDate.
//
// Ends snap to calendar-unit ends (end of day, last day of month, Dec 31)
// rather than rolling N-day windows, so a window always reads as "this
// week" or "this month" to the user.
func PeriodEnd(rule model.RepeatRule, startDate time.Time) (time.Time, error) {
	if err := ValidateRule(rule); err != nil {
		return time.Time{}, err
	}

	switch rule.Type {
	case model.RepeatDaily:
		return endOfDay(startDate), nil
	case model.RepeatWeekly:
		end := startDate.AddDate(0, 0, 7*rule.Frequency-1)
		return endOfDay(end), nil
	case model.RepeatMonthly:
		// Day 0 of month N+1 is the last day of month N, which absorbs
		// month-end rollover: Jan 31 + 1 month lands on Feb 29, not Mar 2.
		y, m, _ := startDate.Date()
		end := time.Date(y, m+time.Month(rule.Frequency)+1, 0, 0, 0, 0, 0, startDate.Location())
		return endOfDay(end), nil
	default: // yearly
		end := time.Date(startDate.Year()+rule.Frequency, time.December, 31, 0, 0, 0, 0, startDate.Location())
		return endOfDay(end), nil
	}
}

// NextStart computes when the next period begins after a completion at
// completedAt.
//
// Starts snap to calendar-unit starts (midnight, Monday, first of month,
// Jan 1), deliberately asymmetric with PeriodEnd. The result is always
// strictly after completedAt.
func NextStart(rule model.RepeatRule, completedAt time.Time) (time.Time, error) {
	if err := ValidateRule(rule); err != nil {
		return time.Time{}, err
	}

	switch rule.Type {
	case model.RepeatDaily:
		return midnight(completedAt.AddDate(0, 0, rule.Frequency)), nil
	case model.RepeatWeekly:
		// Align to the Monday after completion, then stretch for
		// multi-week cadences.
		offset := (int(time.Monday) - int(completedAt.Weekday()) + 7) % 7
		if offset == 0 {
			offset = 7
		}
		next := completedAt.AddDate(0, 0, offset+7*(rule.Frequency-1))
		return midnight(next), nil
	case model.RepeatMonthly:
		y, m, _ := completedAt.Date()
		return time.Date(y, m+time.Month(rule.Frequency), 1, 0, 0, 0, 0, completedAt.Location()), nil
	default: // yearly
		return time.Date(completedAt.Year()+rule.Frequency, time.January, 1, 0, 0, 0, 0, completedAt.Location()), nil
	}
}

// Available reports whether an entity last completed at lastCompleted is due
// again at now. A nil lastCompleted means the entity was never completed
// and is always due. The boundary is inclusive: the entity becomes
// available at the exact NextStart instant.
func Available(rule model.RepeatRule, lastCompleted *time.Time, now time.Time) (bool, error) {
	if err := ValidateRule(rule); err != nil {
		return false, err
	}
	if lastCompleted == nil {
		return true, nil
	}
	next, err := NextStart(rule, *lastCompleted)
	if err != nil {
		return false, err
	}
	return !now.Before(next), nil
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}
