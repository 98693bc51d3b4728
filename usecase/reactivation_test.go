package usecase

import (
	"context"
	"testing"
	"time"

	"main/model"
	"main/repository"
)

type reactivationFixture struct {
	dailies      *fakeDailyStore
	dailyPeriods *fakePeriodStore
	habits       *fakeHabitStore
	habitPeriods *fakePeriodStore
	history      *fakeLogStore
	svc          *ReactivationService
}

func newReactivationFixture(now time.Time) *reactivationFixture {
	f := &reactivationFixture{
		dailies:      newFakeDailyStore(),
		dailyPeriods: newFakePeriodStore(),
		habits:       newFakeHabitStore(),
		habitPeriods: newFakePeriodStore(),
		history:      newFakeLogStore(),
	}
	f.svc = NewReactivationService(f.dailies, f.dailyPeriods, f.habits, f.habitPeriods, f.history, repository.NoopTxnRunner{})
	f.svc.Now = func() time.Time { return now }
	return f
}

func (f *reactivationFixture) seed(t *testing.T, daily *model.Daily, periods ...*model.Period) {
	t.Helper()
	if err := f.dailies.CreateDaily(context.Background(), daily); err != nil {
		t.Fatalf("seed daily: %v", err)
	}
	for _, p := range periods {
		if err := f.dailyPeriods.Create(context.Background(), p); err != nil {
			t.Fatalf("seed period: %v", err)
		}
	}
}

func (f *reactivationFixture) seedHabit(t *testing.T, habit *model.Habit, periods ...*model.Period) {
	t.Helper()
	if err := f.habits.CreateHabit(context.Background(), habit); err != nil {
		t.Fatalf("seed habit: %v", err)
	}
	for _, p := range periods {
		if err := f.habitPeriods.Create(context.Background(), p); err != nil {
			t.Fatalf("seed habit period: %v", err)
		}
	}
}

func TestReactivateExpiresMissedPeriod(t *testing.T) {
	// Week of Jan 1 was missed; the sweep runs the following Wednesday.
	now := time.Date(2024, 1, 10, 3, 0, 0, 0, time.UTC)
	deadline := time.Date(2024, 1, 7, 23, 59, 59, int(999*time.Millisecond), time.UTC)

	f := newReactivationFixture(now)
	f.seed(t, weeklyDaily("d1", "u1"), &model.Period{
		PeriodID:   "p1",
		EntityID:   "d1",
		UserID:     "u1",
		PeriodType: model.RepeatWeekly,
		StartDate:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    deadline,
		IsActive:   true,
	})

	result, err := f.svc.Reactivate(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Reactivate: %v", err)
	}
	if result.FailedPeriods != 1 || result.ReactivatedCount != 1 {
		t.Errorf("result = %+v, want 1 failed, 1 reactivated", result)
	}

	// Exactly one fail log, dated at the missed deadline.
	logs, _ := f.history.FindByEntityID(context.Background(), "d1")
	if len(logs) != 1 {
		t.Fatalf("log count = %d, want 1", len(logs))
	}
	if logs[0].Status != model.LogFail {
		t.Errorf("log status = %q, want %q", logs[0].Status, model.LogFail)
	}
	if !logs[0].CompletedAt.Equal(deadline) {
		t.Errorf("fail log dated %v, want the deadline %v", logs[0].CompletedAt, deadline)
	}

	// The new window starts at the cadence point after the deadline, not
	// at the sweep instant.
	active, err := f.dailyPeriods.FindActiveByEntityID(context.Background(), "d1")
	if err != nil {
		t.Fatalf("FindActiveByEntityID: %v", err)
	}
	wantStart := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	if !active.StartDate.Equal(wantStart) {
		t.Errorf("reopened start = %v, want %v", active.StartDate, wantStart)
	}
	if f.dailyPeriods.activeCount("d1") != 1 {
		t.Errorf("active period count = %d, want 1", f.dailyPeriods.activeCount("d1"))
	}
}

func TestReactivateExpiresMissedHabitWindow(t *testing.T) {
	now := time.Date(2024, 1, 10, 3, 0, 0, 0, time.UTC)
	deadline := time.Date(2024, 1, 7, 23, 59, 59, int(999*time.Millisecond), time.UTC)

	f := newReactivationFixture(now)
	habit := &model.Habit{
		HabitID:   "h1",
		UserID:    "u1",
		Title:     "workouts",
		Rule:      model.RepeatRule{Type: model.RepeatWeekly, Frequency: 1},
		Target:    3,
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	f.seedHabit(t, habit, &model.Period{
		PeriodID:   "hp1",
		EntityID:   "h1",
		UserID:     "u1",
		PeriodType: model.RepeatWeekly,
		StartDate:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    deadline,
		IsActive:   true,
		Count:      1,
		Target:     3,
	})

	result, err := f.svc.Reactivate(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Reactivate: %v", err)
	}
	if result.FailedPeriods != 1 || result.ReactivatedCount != 1 {
		t.Errorf("result = %+v, want 1 failed, 1 reactivated", result)
	}

	logs, _ := f.history.FindByEntityID(context.Background(), "h1")
	if len(logs) != 1 {
		t.Fatalf("log count = %d, want 1", len(logs))
	}
	if logs[0].Status != model.LogFail {
		t.Errorf("log status = %q, want %q", logs[0].Status, model.LogFail)
	}
	if !logs[0].CompletedAt.Equal(deadline) {
		t.Errorf("fail log dated %v, want the deadline %v", logs[0].CompletedAt, deadline)
	}

	active, err := f.habitPeriods.FindActiveByEntityID(context.Background(), "h1")
	if err != nil {
		t.Fatalf("FindActiveByEntityID: %v", err)
	}
	wantStart := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	if !active.StartDate.Equal(wantStart) {
		t.Errorf("reopened start = %v, want %v", active.StartDate, wantStart)
	}
	if active.Count != 0 {
		t.Errorf("reopened count = %d, want 0", active.Count)
	}
	if active.Target != 3 {
		t.Errorf("reopened target = %d, want 3", active.Target)
	}
}

func TestReactivateSecondPassIsNoop(t *testing.T) {
	now := time.Date(2024, 1, 10, 3, 0, 0, 0, time.UTC)
	f := newReactivationFixture(now)
	f.seed(t, weeklyDaily("d1", "u1"), &model.Period{
		PeriodID:   "p1",
		EntityID:   "d1",
		UserID:     "u1",
		PeriodType: model.RepeatWeekly,
		StartDate:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2024, 1, 7, 23, 59, 59, int(999*time.Millisecond), time.UTC),
		IsActive:   true,
	})

	if _, err := f.svc.Reactivate(context.Background(), "u1"); err != nil {
		t.Fatalf("first Reactivate: %v", err)
	}

	result, err := f.svc.Reactivate(context.Background(), "u1")
	if err != nil {
		t.Fatalf("second Reactivate: %v", err)
	}
	if result.FailedPeriods != 0 || result.ReactivatedCount != 0 {
		t.Errorf("second pass result = %+v, want all zero", result)
	}

	logs, _ := f.history.FindByEntityID(context.Background(), "d1")
	if len(logs) != 1 {
		t.Errorf("log count after second pass = %d, want 1", len(logs))
	}
}

func TestReactivateRevivesEntityWithoutPeriod(t *testing.T) {
	now := time.Date(2024, 1, 10, 3, 0, 0, 0, time.UTC)
	f := newReactivationFixture(now)

	lastDone := time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC)
	revive := weeklyDaily("d1", "u1")
	revive.LastCompletedDate = &lastDone
	f.seed(t, revive)

	result, err := f.svc.Reactivate(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Reactivate: %v", err)
	}
	if result.ReactivatedCount != 1 || result.FailedPeriods != 0 {
		t.Errorf("result = %+v, want 1 reactivated, 0 failed", result)
	}

	active, err := f.dailyPeriods.FindActiveByEntityID(context.Background(), "d1")
	if err != nil {
		t.Fatalf("FindActiveByEntityID: %v", err)
	}
	wantStart := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	if !active.StartDate.Equal(wantStart) {
		t.Errorf("revived start = %v, want %v", active.StartDate, wantStart)
	}

	// No fail log for a revive; the entity wasn't holding a missed window.
	logs, _ := f.history.FindByEntityID(context.Background(), "d1")
	if len(logs) != 0 {
		t.Errorf("log count = %d, want 0", len(logs))
	}
}

func TestReactivateRevivesHabitWithoutPeriod(t *testing.T) {
	now := time.Date(2024, 1, 10, 3, 0, 0, 0, time.UTC)
	f := newReactivationFixture(now)

	lastDone := time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC)
	habit := &model.Habit{
		HabitID:           "h1",
		UserID:            "u1",
		Title:             "workouts",
		Rule:              model.RepeatRule{Type: model.RepeatWeekly, Frequency: 1},
		Target:            3,
		StartDate:         time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		LastCompletedDate: &lastDone,
	}
	f.seedHabit(t, habit)

	result, err := f.svc.Reactivate(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Reactivate: %v", err)
	}
	if result.ReactivatedCount != 1 || result.FailedPeriods != 0 {
		t.Errorf("result = %+v, want 1 reactivated, 0 failed", result)
	}

	active, err := f.habitPeriods.FindActiveByEntityID(context.Background(), "h1")
	if err != nil {
		t.Fatalf("FindActiveByEntityID: %v", err)
	}
	wantStart := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	if !active.StartDate.Equal(wantStart) {
		t.Errorf("revived start = %v, want %v", active.StartDate, wantStart)
	}
	if active.Target != 3 {
		t.Errorf("revived target = %d, want 3", active.Target)
	}
}

func TestReactivateSkipsEntitiesNotDue(t *testing.T) {
	now := time.Date(2024, 1, 10, 3, 0, 0, 0, time.UTC)
	f := newReactivationFixture(now)

	// Completed yesterday; next window starts the following Monday.
	lastDone := time.Date(2024, 1, 9, 18, 0, 0, 0, time.UTC)
	notDue := weeklyDaily("not-due", "u1")
	notDue.LastCompletedDate = &lastDone
	f.seed(t, notDue)

	archived := weeklyDaily("archived", "u1")
	archived.IsArchived = true
	f.seed(t, archived)

	future := weeklyDaily("future", "u1")
	future.StartDate = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	f.seed(t, future)

	// Still inside its open window.
	f.seed(t, weeklyDaily("open", "u1"), &model.Period{
		PeriodID:   "p-open",
		EntityID:   "open",
		UserID:     "u1",
		PeriodType: model.RepeatWeekly,
		StartDate:  time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2024, 1, 14, 23, 59, 59, int(999*time.Millisecond), time.UTC),
		IsActive:   true,
	})

	result, err := f.svc.Reactivate(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Reactivate: %v", err)
	}
	if result.ReactivatedCount != 0 || result.FailedPeriods != 0 {
		t.Errorf("result = %+v, want all zero", result)
	}

	for _, id := range []string{"not-due", "archived", "future"} {
		if f.dailyPeriods.activeCount(id) != 0 {
			t.Errorf("entity %q gained a period it should not have", id)
		}
	}
}
