package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"main/model"
	"main/recurrence"
	"main/repository"
	"main/utils"

	"github.com/google/uuid"
)

// CompletionService is the completion orchestrator for dailies: it executes
// the finalize → log → open-next → update-entity transition and computes
// availability for a user's full task list.
type CompletionService struct {
	dailies repository.DailyStore
	periods repository.PeriodStore
	history repository.CompletionLogStore
	txn     repository.TxnRunner

	// Now is swappable for tests; defaults to time.Now.
	Now func() time.Time
}

func NewCompletionService(
	dailies repository.DailyStore,
	periods repository.PeriodStore,
	history repository.CompletionLogStore,
	txn repository.TxnRunner,
) *CompletionService {
	return &CompletionService{
		dailies: dailies,
		periods: periods,
		history: history,
		txn:     txn,
		Now:     time.Now,
	}
}

// CompletionResult is returned from a successful completion.
type CompletionResult struct {
	Daily           *model.Daily `json:"daily"`
	NextAvailableAt time.Time    `json:"next_available_at"`
}

// CompletedDaily is a daily whose current window is fulfilled, with the
// instant it reopens.
type CompletedDaily struct {
	Daily           *model.Daily `json:"daily"`
	NextAvailableAt time.Time    `json:"next_available_at"`
}

// AvailabilityReport buckets every non-archived daily a user owns into
// exactly one of the two lists.
type AvailabilityReport struct {
	Available         []*model.Daily   `json:"available"`
	CompletedInWindow []CompletedDaily `json:"completed_in_window"`
}

// CompleteDaily marks the daily's current window as fulfilled and opens the
// next one. A second attempt inside the same window fails with
// ErrAlreadyCompleted and writes nothing.
func (svc *CompletionService) CompleteDaily(ctx context.Context, userID, dailyID string) (*CompletionResult, error) {
	daily, err := svc.dailies.FindDailyByID(ctx, userID, dailyID)
	if err != nil {
		return nil, err
	}
	if err := recurrence.ValidateRule(daily.Rule); err != nil {
		return nil, err
	}

	now := svc.Now()
	if daily.StartDate.After(now) {
		return nil, ErrNotYetAvailable
	}

	active, err := svc.periods.FindActiveByEntityID(ctx, daily.DailyID)
	synthesized := false
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		// First completion ever: open the window being completed.
		active, err = svc.newPeriod(daily, now, now)
		if err != nil {
			return nil, err
		}
		synthesized = true
	}

	// Idempotence guard. An active period that is completed, or whose
	// window hasn't opened yet, both mean the current cycle is already
	// fulfilled.
	if active.IsCompleted || active.StartDate.After(now) {
		return nil, ErrAlreadyCompleted
	}

	nextStart, err := recurrence.NextStart(daily.Rule, now)
	if err != nil {
		return nil, err
	}

	// The completion timestamp becomes the effective period end when the
	// deadline already passed, so next-period math stays monotonic.
	endDate := active.EndDate
	if endDate.Before(now) {
		endDate = now
	}

	err = svc.txn.WithTransaction(ctx, func(ctx context.Context) error {
		if synthesized {
			if err := svc.periods.Create(ctx, active); err != nil {
				return err
			}
		}

		if _, err := svc.periods.Finalize(ctx, active.PeriodID, endDate); err != nil {
			return err
		}

		entry := &model.CompletionLog{
			LogID:       uuid.New().String(),
			EntityID:    daily.DailyID,
			PeriodID:    active.PeriodID,
			UserID:      daily.UserID,
			Title:       daily.Title,
			Difficulty:  daily.Priority,
			Tags:        daily.Tags,
			Status:      model.LogSuccess,
			CompletedAt: now,
		}
		if err := svc.history.Create(ctx, entry); err != nil {
			return err
		}

		next, err := svc.newPeriod(daily, nextStart, nextStart)
		if err != nil {
			return err
		}
		if err := svc.periods.Create(ctx, next); err != nil {
			return err
		}

		completed := now
		daily.LastCompletedDate = &completed
		return svc.dailies.UpdateDaily(ctx, daily)
	})
	if err != nil {
		return nil, fmt.Errorf("completion transition failed: %w", err)
	}

	utils.TrackCompletion("daily", string(model.LogSuccess))
	return &CompletionResult{Daily: daily, NextAvailableAt: nextStart}, nil
}

// ListAvailability buckets every non-archived daily the user owns:
// no active period or an open, unfulfilled one means available; a fulfilled
// window, or a start date still ahead, reports when the daily opens. Every
// entity lands in exactly one bucket.
func (svc *CompletionService) ListAvailability(ctx context.Context, userID string) (*AvailabilityReport, error) {
	dailies, err := svc.dailies.FindDailiesByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := svc.Now()
	report := &AvailabilityReport{
		Available:         []*model.Daily{},
		CompletedInWindow: []CompletedDaily{},
	}

	for _, daily := range dailies {
		if daily.IsArchived {
			continue
		}

		// Not open yet; completion would be refused until the start date,
		// so the report cannot promise it as available.
		if daily.StartDate.After(now) {
			report.CompletedInWindow = append(report.CompletedInWindow, CompletedDaily{
				Daily:           daily,
				NextAvailableAt: daily.StartDate,
			})
			continue
		}

		active, err := svc.periods.FindActiveByEntityID(ctx, daily.DailyID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				report.Available = append(report.Available, daily)
				continue
			}
			return nil, err
		}

		switch {
		case active.StartDate.After(now):
			// Window fulfilled; the eagerly opened next period hasn't
			// started yet.
			report.CompletedInWindow = append(report.CompletedInWindow, CompletedDaily{
				Daily:           daily,
				NextAvailableAt: active.StartDate,
			})
		case active.IsCompleted:
			nextStart, err := recurrence.NextStart(daily.Rule, active.EndDate)
			if err != nil {
				return nil, err
			}
			report.CompletedInWindow = append(report.CompletedInWindow, CompletedDaily{
				Daily:           daily,
				NextAvailableAt: nextStart,
			})
		default:
			report.Available = append(report.Available, daily)
		}
	}

	return report, nil
}

// GetHistory returns the daily's completion log, newest first.
func (svc *CompletionService) GetHistory(ctx context.Context, userID, dailyID string) ([]*model.CompletionLog, error) {
	if _, err := svc.dailies.FindDailyByID(ctx, userID, dailyID); err != nil {
		return nil, err
	}
	return svc.history.FindByEntityID(ctx, dailyID)
}

func (svc *CompletionService) newPeriod(daily *model.Daily, startDate, endBasis time.Time) (*model.Period, error) {
	endDate, err := recurrence.PeriodEnd(daily.Rule, endBasis)
	if err != nil {
		return nil, err
	}
	return &model.Period{
		PeriodID:    uuid.New().String(),
		EntityID:    daily.DailyID,
		UserID:      daily.UserID,
		PeriodType:  daily.Rule.Type,
		StartDate:   startDate,
		EndDate:     endDate,
		IsCompleted: false,
		IsActive:    true,
	}, nil
}
