package recurrence

import (
	"errors"
	"testing"
	"time"

	"main/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func at(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestValidateRule(t *testing.T) {
	tests := []struct {
		name    string
		rule    model.RepeatRule
		wantErr bool
	}{
		{"valid daily", model.RepeatRule{Type: model.RepeatDaily, Frequency: 1}, false},
		{"valid multi-week", model.RepeatRule{Type: model.RepeatWeekly, Frequency: 3}, false},
		{"zero frequency", model.RepeatRule{Type: model.RepeatDaily, Frequency: 0}, true},
		{"negative frequency", model.RepeatRule{Type: model.RepeatMonthly, Frequency: -2}, true},
		{"unknown type", model.RepeatRule{Type: "FORTNIGHTLY", Frequency: 1}, true},
		{"empty type", model.RepeatRule{Frequency: 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRule(tt.rule)
			if tt.wantErr && !errors.Is(err, ErrInvalidRule) {
				t.Errorf("expected ErrInvalidRule, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestPeriodEnd(t *testing.T) {
	tests := []struct {
		name  string
		rule  model.RepeatRule
		start time.Time
		want  time.Time
	}{
		{
			name:  "daily ends same day",
			rule:  model.RepeatRule{Type: model.RepeatDaily, Frequency: 1},
			start: at(2024, time.March, 15, 9, 30),
			want:  time.Date(2024, time.March, 15, 23, 59, 59, int(999*time.Millisecond), time.UTC),
		},
		{
			name:  "daily frequency does not stretch the window",
			rule:  model.RepeatRule{Type: model.RepeatDaily, Frequency: 3},
			start: date(2024, time.March, 15),
			want:  time.Date(2024, time.March, 15, 23, 59, 59, int(999*time.Millisecond), time.UTC),
		},
		{
			name:  "weekly spans seven days",
			rule:  model.RepeatRule{Type: model.RepeatWeekly, Frequency: 1},
			start: date(2024, time.January, 8), // Monday
			want:  time.Date(2024, time.January, 14, 23, 59, 59, int(999*time.Millisecond), time.UTC),
		},
		{
			name:  "biweekly spans fourteen days",
			rule:  model.RepeatRule{Type: model.RepeatWeekly, Frequency: 2},
			start: date(2024, time.January, 8),
			want:  time.Date(2024, time.January, 21, 23, 59, 59, int(999*time.Millisecond), time.UTC),
		},
		{
			name:  "monthly snaps to leap-year February end",
			rule:  model.RepeatRule{Type: model.RepeatMonthly, Frequency: 1},
			start: date(2024, time.January, 31),
			want:  time.Date(2024, time.February, 29, 23, 59, 59, int(999*time.Millisecond), time.UTC),
		},
		{
			name:  "monthly snaps to short month end",
			rule:  model.RepeatRule{Type: model.RepeatMonthly, Frequency: 1},
			start: date(2023, time.January, 31),
			want:  time.Date(2023, time.February, 28, 23, 59, 59, int(999*time.Millisecond), time.UTC),
		},
		{
			name:  "monthly across year boundary",
			rule:  model.RepeatRule{Type: model.RepeatMonthly, Frequency: 2},
			start: date(2024, time.November, 15),
			want:  time.Date(2025, time.January, 31, 23, 59, 59, int(999*time.Millisecond), time.UTC),
		},
		{
			name:  "yearly snaps to December 31",
			rule:  model.RepeatRule{Type: model.RepeatYearly, Frequency: 1},
			start: date(2024, time.June, 10),
			want:  time.Date(2025, time.December, 31, 23, 59, 59, int(999*time.Millisecond), time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PeriodEnd(tt.rule, tt.start)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("PeriodEnd = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("invalid rule", func(t *testing.T) {
		_, err := PeriodEnd(model.RepeatRule{Type: model.RepeatDaily}, date(2024, time.January, 1))
		if !errors.Is(err, ErrInvalidRule) {
			t.Errorf("expected ErrInvalidRule, got %v", err)
		}
	})
}

func TestNextStart(t *testing.T) {
	tests := []struct {
		name        string
		rule        model.RepeatRule
		completedAt time.Time
		want        time.Time
	}{
		{
			name:        "daily next midnight",
			rule:        model.RepeatRule{Type: model.RepeatDaily, Frequency: 1},
			completedAt: at(2024, time.March, 15, 18, 45),
			want:        date(2024, time.March, 16),
		},
		{
			name:        "every third day",
			rule:        model.RepeatRule{Type: model.RepeatDaily, Frequency: 3},
			completedAt: at(2024, time.March, 15, 18, 45),
			want:        date(2024, time.March, 18),
		},
		{
			name:        "weekly completed Wednesday opens next Monday",
			rule:        model.RepeatRule{Type: model.RepeatWeekly, Frequency: 1},
			completedAt: at(2024, time.January, 3, 14, 0), // Wednesday
			want:        date(2024, time.January, 8),      // Monday
		},
		{
			name:        "weekly completed Sunday opens next Monday",
			rule:        model.RepeatRule{Type: model.RepeatWeekly, Frequency: 1},
			completedAt: at(2024, time.January, 7, 23, 0),
			want:        date(2024, time.January, 8),
		},
		{
			name:        "weekly completed Monday skips to the following Monday",
			rule:        model.RepeatRule{Type: model.RepeatWeekly, Frequency: 1},
			completedAt: date(2024, time.January, 8),
			want:        date(2024, time.January, 15),
		},
		{
			name:        "biweekly adds an extra week past the Monday",
			rule:        model.RepeatRule{Type: model.RepeatWeekly, Frequency: 2},
			completedAt: at(2024, time.January, 3, 14, 0),
			want:        date(2024, time.January, 15),
		},
		{
			name:        "monthly opens first of next month",
			rule:        model.RepeatRule{Type: model.RepeatMonthly, Frequency: 1},
			completedAt: at(2024, time.January, 31, 12, 0),
			want:        date(2024, time.February, 1),
		},
		{
			name:        "quarterly opens first of month three ahead",
			rule:        model.RepeatRule{Type: model.RepeatMonthly, Frequency: 3},
			completedAt: at(2024, time.November, 20, 8, 0),
			want:        date(2025, time.February, 1),
		},
		{
			name:        "yearly opens January 1",
			rule:        model.RepeatRule{Type: model.RepeatYearly, Frequency: 1},
			completedAt: at(2024, time.June, 10, 10, 0),
			want:        date(2025, time.January, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextStart(tt.rule, tt.completedAt)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("NextStart = %v, want %v", got, tt.want)
			}
		})
	}
}

// Every rule type and a spread of frequencies must open the next period
// strictly after the completion instant, and do so deterministically.
func TestNextStartStrictlyAfterCompletion(t *testing.T) {
	completions := []time.Time{
		date(2024, time.January, 1),
		at(2024, time.February, 29, 23, 59),
		at(2024, time.December, 31, 12, 0),
		at(2023, time.July, 17, 6, 30),
	}
	types := []model.RepeatType{model.RepeatDaily, model.RepeatWeekly, model.RepeatMonthly, model.RepeatYearly}

	for _, typ := range types {
		for freq := 1; freq <= 5; freq++ {
			rule := model.RepeatRule{Type: typ, Frequency: freq}
			for _, completedAt := range completions {
				first, err := NextStart(rule, completedAt)
				if err != nil {
					t.Fatalf("%s/%d: %v", typ, freq, err)
				}
				if !first.After(completedAt) {
					t.Errorf("%s/%d: NextStart(%v) = %v is not strictly after", typ, freq, completedAt, first)
				}
				second, _ := NextStart(rule, completedAt)
				if !first.Equal(second) {
					t.Errorf("%s/%d: NextStart not deterministic: %v vs %v", typ, freq, first, second)
				}
			}
		}
	}
}

func TestAvailable(t *testing.T) {
	rule := model.RepeatRule{Type: model.RepeatWeekly, Frequency: 1}
	completed := at(2024, time.January, 3, 14, 0) // Wednesday

	t.Run("never completed is always available", func(t *testing.T) {
		ok, err := Available(rule, nil, date(2024, time.January, 1))
		if err != nil || !ok {
			t.Errorf("Available = %v, %v; want true, nil", ok, err)
		}
	})

	t.Run("unavailable just before the boundary", func(t *testing.T) {
		justBefore := date(2024, time.January, 8).Add(-time.Millisecond)
		ok, err := Available(rule, &completed, justBefore)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ok {
			t.Error("expected unavailable before next start")
		}
	})

	t.Run("available at the exact boundary", func(t *testing.T) {
		ok, err := Available(rule, &completed, date(2024, time.January, 8))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ok {
			t.Error("expected available at next start instant")
		}
	})

	t.Run("available after the boundary", func(t *testing.T) {
		ok, _ := Available(rule, &completed, at(2024, time.January, 9, 8, 0))
		if !ok {
			t.Error("expected available after next start")
		}
	})

	t.Run("invalid rule surfaces", func(t *testing.T) {
		_, err := Available(model.RepeatRule{Type: model.RepeatDaily, Frequency: 0}, nil, time.Now())
		if !errors.Is(err, ErrInvalidRule) {
			t.Errorf("expected ErrInvalidRule, got %v", err)
		}
	})
}
