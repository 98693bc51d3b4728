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

func TestCreateDailyValidation(t *testing.T) {
	store := newFakeDailyStore()
	svc := NewDailiesService(store)

	tests := []struct {
		name    string
		daily   *model.Daily
		wantErr bool
	}{
		{
			name: "valid weekly",
			daily: &model.Daily{
				UserID: "u1",
				Title:  "laundry",
				Rule:   model.RepeatRule{Type: model.RepeatWeekly, Frequency: 1},
			},
		},
		{
			name: "missing user",
			daily: &model.Daily{
				Title: "laundry",
				Rule:  model.RepeatRule{Type: model.RepeatWeekly, Frequency: 1},
			},
			wantErr: true,
		},
		{
			name: "missing title",
			daily: &model.Daily{
				UserID: "u1",
				Rule:   model.RepeatRule{Type: model.RepeatWeekly, Frequency: 1},
			},
			wantErr: true,
		},
		{
			name: "unknown repeat type",
			daily: &model.Daily{
				UserID: "u1",
				Title:  "laundry",
				Rule:   model.RepeatRule{Type: "FORTNIGHTLY", Frequency: 1},
			},
			wantErr: true,
		},
		{
			name: "zero frequency",
			daily: &model.Daily{
				UserID: "u1",
				Title:  "laundry",
				Rule:   model.RepeatRule{Type: model.RepeatMonthly, Frequency: 0},
			},
			wantErr: true,
		},
		{
			name: "bad priority",
			daily: &model.Daily{
				UserID:   "u1",
				Title:    "laundry",
				Rule:     model.RepeatRule{Type: model.RepeatWeekly, Frequency: 1},
				Priority: "URGENT",
			},
			wantErr: true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.CreateDaily(context.Background(), tc.daily)
			if tc.wantErr && err == nil {
				t.Error("expected an error")
			}
			if !tc.wantErr {
				if err != nil {
					t.Fatalf("CreateDaily: %v", err)
				}
				if tc.daily.DailyID == "" {
					t.Error("daily ID not assigned")
				}
				if tc.daily.StartDate.IsZero() {
					t.Error("start date not defaulted")
				}
			}
		})
	}
}

func TestUpdateDailyRevalidatesRule(t *testing.T) {
	store := newFakeDailyStore()
	svc := NewDailiesService(store)

	daily := &model.Daily{
		UserID: "u1",
		Title:  "laundry",
		Rule:   model.RepeatRule{Type: model.RepeatWeekly, Frequency: 1},
	}
	if err := svc.CreateDaily(context.Background(), daily); err != nil {
		t.Fatalf("CreateDaily: %v", err)
	}

	_, err := svc.UpdateDaily(context.Background(), "u1", daily.DailyID, &model.Daily{
		Rule: model.RepeatRule{Type: "NEVER", Frequency: 1},
	})
	if !errors.Is(err, recurrence.ErrInvalidRule) {
		t.Fatalf("error = %v, want ErrInvalidRule", err)
	}

	updated, err := svc.UpdateDaily(context.Background(), "u1", daily.DailyID, &model.Daily{
		Title: "big laundry",
		Rule:  model.RepeatRule{Type: model.RepeatMonthly, Frequency: 2},
	})
	if err != nil {
		t.Fatalf("UpdateDaily: %v", err)
	}
	if updated.Title != "big laundry" {
		t.Errorf("title = %q, want %q", updated.Title, "big laundry")
	}
	if updated.Rule.Type != model.RepeatMonthly || updated.Rule.Frequency != 2 {
		t.Errorf("rule = %+v, want every second month", updated.Rule)
	}

	if _, err := svc.UpdateDaily(context.Background(), "u2", daily.DailyID, &model.Daily{Title: "x"}); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("wrong owner: error = %v, want ErrNotFound", err)
	}
}

func TestArchiveDailyHidesFromSweepAndAvailability(t *testing.T) {
	now := time.Date(2024, 1, 10, 3, 0, 0, 0, time.UTC)

	dailies := newFakeDailyStore()
	periods := newFakePeriodStore()
	history := newFakeLogStore()

	svc := NewDailiesService(dailies)
	completion := NewCompletionService(dailies, periods, history, repository.NoopTxnRunner{})
	completion.Now = func() time.Time { return now }

	daily := &model.Daily{
		UserID: "u1",
		Title:  "laundry",
		Rule:   model.RepeatRule{Type: model.RepeatWeekly, Frequency: 1},
	}
	if err := svc.CreateDaily(context.Background(), daily); err != nil {
		t.Fatalf("CreateDaily: %v", err)
	}
	if err := svc.ArchiveDaily(context.Background(), "u1", daily.DailyID); err != nil {
		t.Fatalf("ArchiveDaily: %v", err)
	}

	report, err := completion.ListAvailability(context.Background(), "u1")
	if err != nil {
		t.Fatalf("ListAvailability: %v", err)
	}
	if len(report.Available) != 0 || len(report.CompletedInWindow) != 0 {
		t.Errorf("archived daily still reported: %+v", report)
	}

	// History stays readable after archiving.
	if _, err := completion.GetHistory(context.Background(), "u1", daily.DailyID); err != nil {
		t.Errorf("GetHistory after archive: %v", err)
	}
}
