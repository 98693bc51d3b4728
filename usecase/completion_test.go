package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"main/model"
	"main/recurrence"
	"main/repository"
)

type completionFixture struct {
	dailies *fakeDailyStore
	periods *fakePeriodStore
	history *fakeLogStore
	svc     *CompletionService
}

func newCompletionFixture(now time.Time) *completionFixture {
	f := &completionFixture{
		dailies: newFakeDailyStore(),
		periods: newFakePeriodStore(),
		history: newFakeLogStore(),
	}
	f.svc = NewCompletionService(f.dailies, f.periods, f.history, repository.NoopTxnRunner{})
	f.svc.Now = func() time.Time { return now }
	return f
}

func (f *completionFixture) addDaily(t *testing.T, daily *model.Daily) {
	t.Helper()
	if err := f.dailies.CreateDaily(context.Background(), daily); err != nil {
		t.Fatalf("seed daily: %v", err)
	}
}

func weeklyDaily(id, userID string) *model.Daily {
	return &model.Daily{
		DailyID:   id,
		UserID:    userID,
		Title:     "weekly review",
		Rule:      model.RepeatRule{Type: model.RepeatWeekly, Frequency: 1},
		Priority:  model.PriorityMedium,
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestCompleteDailyOpensNextPeriod(t *testing.T) {
	// Wednesday inside the week of Jan 1.
	now := time.Date(2024, 1, 3, 15, 30, 0, 0, time.UTC)
	f := newCompletionFixture(now)
	f.addDaily(t, weeklyDaily("d1", "u1"))

	result, err := f.svc.CompleteDaily(context.Background(), "u1", "d1")
	if err != nil {
		t.Fatalf("CompleteDaily: %v", err)
	}

	wantNext := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	if !result.NextAvailableAt.Equal(wantNext) {
		t.Errorf("NextAvailableAt = %v, want %v", result.NextAvailableAt, wantNext)
	}
	if result.Daily.LastCompletedDate == nil || !result.Daily.LastCompletedDate.Equal(now) {
		t.Errorf("LastCompletedDate = %v, want %v", result.Daily.LastCompletedDate, now)
	}

	if got := f.periods.activeCount("d1"); got != 1 {
		t.Fatalf("active period count = %d, want 1", got)
	}
	active, err := f.periods.FindActiveByEntityID(context.Background(), "d1")
	if err != nil {
		t.Fatalf("FindActiveByEntityID: %v", err)
	}
	if !active.StartDate.Equal(wantNext) {
		t.Errorf("next period start = %v, want %v", active.StartDate, wantNext)
	}
	if active.IsCompleted {
		t.Error("next period should not be completed")
	}

	logs, err := f.history.FindByEntityID(context.Background(), "d1")
	if err != nil {
		t.Fatalf("FindByEntityID: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("log count = %d, want 1", len(logs))
	}
	if logs[0].Status != model.LogSuccess {
		t.Errorf("log status = %q, want %q", logs[0].Status, model.LogSuccess)
	}
	if !logs[0].CompletedAt.Equal(now) {
		t.Errorf("log CompletedAt = %v, want %v", logs[0].CompletedAt, now)
	}
	if logs[0].Title != "weekly review" {
		t.Errorf("log title = %q, want snapshot of the daily's title", logs[0].Title)
	}
}

func TestCompleteDailySecondAttemptFails(t *testing.T) {
	now := time.Date(2024, 1, 3, 15, 30, 0, 0, time.UTC)
	f := newCompletionFixture(now)
	f.addDaily(t, weeklyDaily("d1", "u1"))

	if _, err := f.svc.CompleteDaily(context.Background(), "u1", "d1"); err != nil {
		t.Fatalf("first CompleteDaily: %v", err)
	}

	logsBefore, _ := f.history.FindByEntityID(context.Background(), "d1")
	periodsBefore, _ := f.periods.FindByEntityID(context.Background(), "d1")

	_, err := f.svc.CompleteDaily(context.Background(), "u1", "d1")
	if !errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("second CompleteDaily error = %v, want ErrAlreadyCompleted", err)
	}

	logsAfter, _ := f.history.FindByEntityID(context.Background(), "d1")
	periodsAfter, _ := f.periods.FindByEntityID(context.Background(), "d1")
	if len(logsAfter) != len(logsBefore) {
		t.Errorf("rejected completion wrote a log: %d -> %d", len(logsBefore), len(logsAfter))
	}
	if len(periodsAfter) != len(periodsBefore) {
		t.Errorf("rejected completion changed periods: %d -> %d", len(periodsBefore), len(periodsAfter))
	}
}

func TestCompleteDailyAvailableAgainNextWindow(t *testing.T) {
	now := time.Date(2024, 1, 3, 15, 30, 0, 0, time.UTC)
	f := newCompletionFixture(now)
	f.addDaily(t, weeklyDaily("d1", "u1"))

	if _, err := f.svc.CompleteDaily(context.Background(), "u1", "d1"); err != nil {
		t.Fatalf("first CompleteDaily: %v", err)
	}

	// Advance the clock past the next window's start.
	f.svc.Now = func() time.Time { return time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC) }

	result, err := f.svc.CompleteDaily(context.Background(), "u1", "d1")
	if err != nil {
		t.Fatalf("CompleteDaily in next window: %v", err)
	}
	wantNext := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	if !result.NextAvailableAt.Equal(wantNext) {
		t.Errorf("NextAvailableAt = %v, want %v", result.NextAvailableAt, wantNext)
	}
}

func TestCompleteDailyErrors(t *testing.T) {
	now := time.Date(2024, 1, 3, 15, 30, 0, 0, time.UTC)
	f := newCompletionFixture(now)
	f.addDaily(t, weeklyDaily("d1", "u1"))

	future := weeklyDaily("d2", "u1")
	future.StartDate = time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	f.addDaily(t, future)

	broken := weeklyDaily("d3", "u1")
	broken.Rule = model.RepeatRule{Type: "SOMETIMES", Frequency: 1}
	f.addDaily(t, broken)

	tests := []struct {
		name    string
		userID  string
		dailyID string
		wantErr error
	}{
		{"unknown daily", "u1", "nope", repository.ErrNotFound},
		{"wrong owner", "u2", "d1", repository.ErrNotFound},
		{"start date in the future", "u1", "d2", ErrNotYetAvailable},
		{"invalid rule", "u1", "d3", recurrence.ErrInvalidRule},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.CompleteDaily(context.Background(), tc.userID, tc.dailyID)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestListAvailabilityPartition(t *testing.T) {
	now := time.Date(2024, 1, 3, 15, 30, 0, 0, time.UTC)
	f := newCompletionFixture(now)

	f.addDaily(t, weeklyDaily("available", "u1"))
	f.addDaily(t, weeklyDaily("completed", "u1"))
	archived := weeklyDaily("archived", "u1")
	archived.IsArchived = true
	f.addDaily(t, archived)

	if _, err := f.svc.CompleteDaily(context.Background(), "u1", "completed"); err != nil {
		t.Fatalf("CompleteDaily: %v", err)
	}

	report, err := f.svc.ListAvailability(context.Background(), "u1")
	if err != nil {
		t.Fatalf("ListAvailability: %v", err)
	}

	if len(report.Available) != 1 || report.Available[0].DailyID != "available" {
		t.Errorf("Available = %+v, want exactly the uncompleted daily", report.Available)
	}
	if len(report.CompletedInWindow) != 1 {
		t.Fatalf("CompletedInWindow count = %d, want 1", len(report.CompletedInWindow))
	}
	done := report.CompletedInWindow[0]
	if done.Daily.DailyID != "completed" {
		t.Errorf("CompletedInWindow daily = %q, want %q", done.Daily.DailyID, "completed")
	}
	wantNext := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	if !done.NextAvailableAt.Equal(wantNext) {
		t.Errorf("NextAvailableAt = %v, want %v", done.NextAvailableAt, wantNext)
	}

	// Archived entities land in neither bucket.
	for _, d := range report.Available {
		if d.DailyID == "archived" {
			t.Error("archived daily reported as available")
		}
	}
	for _, d := range report.CompletedInWindow {
		if d.Daily.DailyID == "archived" {
			t.Error("archived daily reported as completed")
		}
	}
}

func TestListAvailabilityFutureStartNotPromised(t *testing.T) {
	now := time.Date(2024, 1, 3, 15, 30, 0, 0, time.UTC)
	f := newCompletionFixture(now)

	future := weeklyDaily("d1", "u1")
	future.StartDate = time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	f.addDaily(t, future)

	report, err := f.svc.ListAvailability(context.Background(), "u1")
	if err != nil {
		t.Fatalf("ListAvailability: %v", err)
	}

	// Completion refuses a daily before its start date, so the report must
	// not offer it; it surfaces with the start date as its opening instant.
	if len(report.Available) != 0 {
		t.Errorf("Available = %+v, want empty", report.Available)
	}
	if len(report.CompletedInWindow) != 1 {
		t.Fatalf("CompletedInWindow count = %d, want 1", len(report.CompletedInWindow))
	}
	entry := report.CompletedInWindow[0]
	if entry.Daily.DailyID != "d1" {
		t.Errorf("entry daily = %q, want %q", entry.Daily.DailyID, "d1")
	}
	if !entry.NextAvailableAt.Equal(future.StartDate) {
		t.Errorf("NextAvailableAt = %v, want the start date %v", entry.NextAvailableAt, future.StartDate)
	}

	if _, err := f.svc.CompleteDaily(context.Background(), "u1", "d1"); !errors.Is(err, ErrNotYetAvailable) {
		t.Errorf("CompleteDaily error = %v, want ErrNotYetAvailable", err)
	}
}

func TestGetHistoryNewestFirst(t *testing.T) {
	now := time.Date(2024, 1, 3, 15, 30, 0, 0, time.UTC)
	f := newCompletionFixture(now)
	f.addDaily(t, weeklyDaily("d1", "u1"))

	if _, err := f.svc.CompleteDaily(context.Background(), "u1", "d1"); err != nil {
		t.Fatalf("CompleteDaily: %v", err)
	}
	later := time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)
	f.svc.Now = func() time.Time { return later }
	if _, err := f.svc.CompleteDaily(context.Background(), "u1", "d1"); err != nil {
		t.Fatalf("second CompleteDaily: %v", err)
	}

	logs, err := f.svc.GetHistory(context.Background(), "u1", "d1")
	if err != nil {
		t.Fatalf("GetHistory: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("log count = %d, want 2", len(logs))
	}
	if !logs[0].CompletedAt.Equal(later) {
		t.Errorf("logs not newest first: first entry at %v", logs[0].CompletedAt)
	}

	if _, err := f.svc.GetHistory(context.Background(), "u2", "d1"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("history for wrong owner: error = %v, want ErrNotFound", err)
	}
}
