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

// ReactivationService is the sweep that keeps recurring entities moving:
// it expires periods whose deadline passed unfulfilled (recording a fail)
// and opens the next window, and it revives entities left without any
// active period. Dailies and habits run through the same pass, each with
// its own period store. Safe to run repeatedly; a pass over up-to-date
// entities changes nothing.
type ReactivationService struct {
	dailies      repository.DailyStore
	dailyPeriods repository.PeriodStore
	habits       repository.HabitStore
	habitPeriods repository.PeriodStore
	history      repository.CompletionLogStore
	txn          repository.TxnRunner

	Now func() time.Time
}

func NewReactivationService(
	dailies repository.DailyStore,
	dailyPeriods repository.PeriodStore,
	habits repository.HabitStore,
	habitPeriods repository.PeriodStore,
	history repository.CompletionLogStore,
	txn repository.TxnRunner,
) *ReactivationService {
	return &ReactivationService{
		dailies:      dailies,
		dailyPeriods: dailyPeriods,
		habits:       habits,
		habitPeriods: habitPeriods,
		history:      history,
		txn:          txn,
		Now:          time.Now,
	}
}

type ReactivationResult struct {
	ReactivatedCount int `json:"reactivated_count"`
	FailedPeriods    int `json:"failed_periods"`
}

// sweepTarget is the entity-type-neutral view the sweep operates on.
// Dailies and habits map onto it together with their period store.
type sweepTarget struct {
	EntityID      string
	UserID        string
	EntityType    string
	Title         string
	Difficulty    model.Priority
	Tags          []string
	Rule          model.RepeatRule
	StartDate     time.Time
	LastCompleted *time.Time
	Archived      bool
	Target        int
}

func dailyTarget(d *model.Daily) sweepTarget {
	return sweepTarget{
		EntityID:      d.DailyID,
		UserID:        d.UserID,
		EntityType:    "daily",
		Title:         d.Title,
		Difficulty:    d.Priority,
		Tags:          d.Tags,
		Rule:          d.Rule,
		StartDate:     d.StartDate,
		LastCompleted: d.LastCompletedDate,
		Archived:      d.IsArchived,
	}
}

func habitTarget(h *model.Habit) sweepTarget {
	return sweepTarget{
		EntityID:      h.HabitID,
		UserID:        h.UserID,
		EntityType:    "habit",
		Title:         h.Title,
		Difficulty:    h.Priority,
		Tags:          h.Tags,
		Rule:          h.Rule,
		StartDate:     h.StartDate,
		LastCompleted: h.LastCompletedDate,
		Archived:      h.IsArchived,
		Target:        h.Target,
	}
}

// Reactivate walks all of the user's recurring entities and repairs their
// period state. Concurrent passes over the same entity are serialized by
// the period store's conflict checks, so at-least-once scheduling is safe.
func (svc *ReactivationService) Reactivate(ctx context.Context, userID string) (*ReactivationResult, error) {
	now := svc.Now()
	result := &ReactivationResult{}

	dailies, err := svc.dailies.FindDailiesByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, daily := range dailies {
		if err := svc.sweepOne(ctx, dailyTarget(daily), svc.dailyPeriods, now, result); err != nil {
			return result, err
		}
	}

	habits, err := svc.habits.FindHabitsByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, habit := range habits {
		if err := svc.sweepOne(ctx, habitTarget(habit), svc.habitPeriods, now, result); err != nil {
			return result, err
		}
	}

	return result, nil
}

func (svc *ReactivationService) sweepOne(
	ctx context.Context,
	target sweepTarget,
	periods repository.PeriodStore,
	now time.Time,
	result *ReactivationResult,
) error {
	if target.Archived || target.StartDate.After(now) {
		return nil
	}
	if err := recurrence.ValidateRule(target.Rule); err != nil {
		return fmt.Errorf("%s %s: %w", target.EntityType, target.EntityID, err)
	}

	active, err := periods.FindActiveByEntityID(ctx, target.EntityID)
	switch {
	case err == nil:
		if active.IsCompleted || !active.Expired(now) {
			// Fulfilled or still open; nothing to repair.
			return nil
		}
		if err := svc.expireAndReopen(ctx, target, periods, active); err != nil {
			return err
		}
		result.FailedPeriods++
		result.ReactivatedCount++
		utils.TrackReactivation()

	case errors.Is(err, repository.ErrNotFound):
		opened, err := svc.reviveIfDue(ctx, target, periods, now)
		if err != nil {
			return err
		}
		if opened {
			result.ReactivatedCount++
			utils.TrackReactivation()
		}

	default:
		return err
	}
	return nil
}

// expireAndReopen records the miss and opens the next window, dating both
// from the missed deadline rather than from the sweep instant.
func (svc *ReactivationService) expireAndReopen(
	ctx context.Context,
	target sweepTarget,
	periods repository.PeriodStore,
	active *model.Period,
) error {
	deadline := active.EndDate

	nextStart, err := recurrence.NextStart(target.Rule, deadline)
	if err != nil {
		return err
	}
	nextEnd, err := recurrence.PeriodEnd(target.Rule, nextStart)
	if err != nil {
		return err
	}

	err = svc.txn.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := periods.Finalize(ctx, active.PeriodID, deadline); err != nil {
			return err
		}

		entry := &model.CompletionLog{
			LogID:       uuid.New().String(),
			EntityID:    target.EntityID,
			PeriodID:    active.PeriodID,
			UserID:      target.UserID,
			Title:       target.Title,
			Difficulty:  target.Difficulty,
			Tags:        target.Tags,
			Status:      model.LogFail,
			CompletedAt: deadline,
		}
		if err := svc.history.Create(ctx, entry); err != nil {
			return err
		}

		return periods.Create(ctx, &model.Period{
			PeriodID:   uuid.New().String(),
			EntityID:   target.EntityID,
			UserID:     target.UserID,
			PeriodType: target.Rule.Type,
			StartDate:  nextStart,
			EndDate:    nextEnd,
			IsActive:   true,
			Target:     target.Target,
		})
	})
	if err != nil {
		return fmt.Errorf("expiry transition failed: %w", err)
	}

	utils.TrackCompletion(target.EntityType, string(model.LogFail))
	return nil
}

// reviveIfDue opens a fresh period for an entity with no active one, at the
// entity's own start date or at the cadence point after its last
// completion. Returns false when the entity isn't due yet.
func (svc *ReactivationService) reviveIfDue(
	ctx context.Context,
	target sweepTarget,
	periods repository.PeriodStore,
	now time.Time,
) (bool, error) {
	due, err := recurrence.Available(target.Rule, target.LastCompleted, now)
	if err != nil {
		return false, err
	}
	if !due {
		return false, nil
	}

	startDate := target.StartDate
	if target.LastCompleted != nil {
		startDate, err = recurrence.NextStart(target.Rule, *target.LastCompleted)
		if err != nil {
			return false, err
		}
	}

	endDate, err := recurrence.PeriodEnd(target.Rule, startDate)
	if err != nil {
		return false, err
	}

	err = periods.Create(ctx, &model.Period{
		PeriodID:   uuid.New().String(),
		EntityID:   target.EntityID,
		UserID:     target.UserID,
		PeriodType: target.Rule.Type,
		StartDate:  startDate,
		EndDate:    endDate,
		IsActive:   true,
		Target:     target.Target,
	})
	if err != nil {
		// A competing sweep or completion opened one first; the entity is
		// no longer stuck, which is all this pass needs.
		if errors.Is(err, repository.ErrConflict) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
