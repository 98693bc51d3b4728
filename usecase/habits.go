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

// HabitsService runs habits through the same period engine as dailies,
// with a count/target on each window: the window completes when the count
// reaches the target or on an explicit complete.
type HabitsService struct {
	repo    repository.HabitStore
	periods repository.PeriodStore
	history repository.CompletionLogStore
	txn     repository.TxnRunner

	Now func() time.Time
}

func NewHabitsService(
	repo repository.HabitStore,
	periods repository.PeriodStore,
	history repository.CompletionLogStore,
	txn repository.TxnRunner,
) *HabitsService {
	return &HabitsService{
		repo:    repo,
		periods: periods,
		history: history,
		txn:     txn,
		Now:     time.Now,
	}
}

// Create Habit
func (svc *HabitsService) CreateHabit(ctx context.Context, habit *model.Habit) error {
	if habit.UserID == "" {
		return errors.New("user ID is required")
	}
	if habit.Title == "" {
		return errors.New("title is required")
	}
	if err := recurrence.ValidateRule(habit.Rule); err != nil {
		return err
	}
	if habit.Target < 1 {
		habit.Target = 1
	}

	now := svc.Now()
	if habit.HabitID == "" {
		habit.HabitID = uuid.New().String()
	}
	if habit.StartDate.IsZero() {
		habit.StartDate = now
	}
	if habit.CreatedAt.IsZero() {
		habit.CreatedAt = now
	}
	habit.UpdatedAt = now
	habit.LastCompletedDate = nil
	habit.IsArchived = false

	return svc.repo.CreateHabit(ctx, habit)
}

// Get the user's habits
func (svc *HabitsService) GetUserHabits(ctx context.Context, userID string) ([]*model.Habit, error) {
	return svc.repo.FindHabitsByUserID(ctx, userID)
}

// Update habit fields
func (svc *HabitsService) UpdateHabit(ctx context.Context, userID, habitID string, updates *model.Habit) (*model.Habit, error) {
	existing, err := svc.repo.FindHabitByID(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}

	if updates.Title != "" {
		existing.Title = updates.Title
	}
	if updates.Description != "" {
		existing.Description = updates.Description
	}
	if updates.Rule.Type != "" || updates.Rule.Frequency != 0 {
		if err := recurrence.ValidateRule(updates.Rule); err != nil {
			return nil, err
		}
		existing.Rule = updates.Rule
	}
	if updates.Target > 0 {
		existing.Target = updates.Target
	}
	if updates.Tags != nil {
		existing.Tags = updates.Tags
	}
	existing.UpdatedAt = svc.Now()

	if err := svc.repo.UpdateHabit(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Archive habit
func (svc *HabitsService) ArchiveHabit(ctx context.Context, userID, habitID string) error {
	return svc.repo.ArchiveHabit(ctx, userID, habitID)
}

// Delete habit permanently
func (svc *HabitsService) DeleteHabit(ctx context.Context, userID, habitID string) error {
	return svc.repo.DeleteHabit(ctx, userID, habitID)
}

// AddCount records progress against the habit's current window and rolls
// the period over once the target is reached.
func (svc *HabitsService) AddCount(ctx context.Context, userID, habitID string, by int) (*model.Period, error) {
	if by < 1 {
		return nil, errors.New("count increment must be positive")
	}

	habit, err := svc.repo.FindHabitByID(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}
	if err := recurrence.ValidateRule(habit.Rule); err != nil {
		return nil, err
	}

	now := svc.Now()
	if habit.StartDate.After(now) {
		return nil, ErrNotYetAvailable
	}
	active, err := svc.ensureActivePeriod(ctx, habit, now)
	if err != nil {
		return nil, err
	}
	if active.IsCompleted || active.StartDate.After(now) {
		return nil, ErrAlreadyCompleted
	}

	updated, err := svc.periods.IncrementCount(ctx, active.PeriodID, by)
	if err != nil {
		return nil, err
	}
	if updated.Target > 0 && updated.Count >= updated.Target {
		if err := svc.rollOver(ctx, habit, updated, now); err != nil {
			return nil, err
		}
	}
	return updated, nil
}

// CompleteHabit fulfils the current window regardless of the running count.
func (svc *HabitsService) CompleteHabit(ctx context.Context, userID, habitID string) (*model.Habit, time.Time, error) {
	habit, err := svc.repo.FindHabitByID(ctx, userID, habitID)
	if err != nil {
		return nil, time.Time{}, err
	}
	if err := recurrence.ValidateRule(habit.Rule); err != nil {
		return nil, time.Time{}, err
	}

	now := svc.Now()
	if habit.StartDate.After(now) {
		return nil, time.Time{}, ErrNotYetAvailable
	}
	active, err := svc.ensureActivePeriod(ctx, habit, now)
	if err != nil {
		return nil, time.Time{}, err
	}
	if active.IsCompleted || active.StartDate.After(now) {
		return nil, time.Time{}, ErrAlreadyCompleted
	}

	if err := svc.rollOver(ctx, habit, active, now); err != nil {
		return nil, time.Time{}, err
	}

	nextStart, err := recurrence.NextStart(habit.Rule, now)
	if err != nil {
		return nil, time.Time{}, err
	}
	return habit, nextStart, nil
}

// HabitStatus is one habit in the availability report with its window
// progress. LastLogAt is the most recent recorded outcome, success or
// fail, which LastCompletedDate alone cannot show.
type HabitStatus struct {
	Habit           *model.Habit `json:"habit"`
	Count           int          `json:"count"`
	Target          int          `json:"target"`
	LastLogAt       *time.Time   `json:"last_log_at,omitempty"`
	NextAvailableAt *time.Time   `json:"next_available_at,omitempty"`
}

// HabitAvailabilityReport buckets every non-archived habit the user owns
// into exactly one of the two lists.
type HabitAvailabilityReport struct {
	Available         []HabitStatus `json:"available"`
	CompletedInWindow []HabitStatus `json:"completed_in_window"`
}

// ListAvailability reports each habit's current window. A habit whose
// active period expired unfulfilled is still available; acting on it
// retires the missed window and counts restart in the current one.
func (svc *HabitsService) ListAvailability(ctx context.Context, userID string) (*HabitAvailabilityReport, error) {
	habits, err := svc.repo.FindHabitsByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := svc.Now()
	report := &HabitAvailabilityReport{
		Available:         []HabitStatus{},
		CompletedInWindow: []HabitStatus{},
	}

	for _, habit := range habits {
		if habit.IsArchived {
			continue
		}

		status := HabitStatus{Habit: habit, Target: habit.Target}
		if last, err := svc.history.LastLogDate(ctx, habit.HabitID); err == nil {
			status.LastLogAt = &last
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}

		// Not open yet; counting would be refused until the start date.
		if habit.StartDate.After(now) {
			at := habit.StartDate
			status.NextAvailableAt = &at
			report.CompletedInWindow = append(report.CompletedInWindow, status)
			continue
		}

		active, err := svc.periods.FindActiveByEntityID(ctx, habit.HabitID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				report.Available = append(report.Available, status)
				continue
			}
			return nil, err
		}

		switch {
		case active.StartDate.After(now):
			at := active.StartDate
			status.NextAvailableAt = &at
			report.CompletedInWindow = append(report.CompletedInWindow, status)
		case active.IsCompleted:
			nextStart, err := recurrence.NextStart(habit.Rule, active.EndDate)
			if err != nil {
				return nil, err
			}
			status.NextAvailableAt = &nextStart
			report.CompletedInWindow = append(report.CompletedInWindow, status)
		case active.Expired(now):
			// Missed window; its running count does not carry over.
			report.Available = append(report.Available, status)
		default:
			status.Count = active.Count
			report.Available = append(report.Available, status)
		}
	}

	return report, nil
}

// GetHistory returns the habit's completion log, newest first.
func (svc *HabitsService) GetHistory(ctx context.Context, userID, habitID string) ([]*model.CompletionLog, error) {
	if _, err := svc.repo.FindHabitByID(ctx, userID, habitID); err != nil {
		return nil, err
	}
	return svc.history.FindByEntityID(ctx, habitID)
}

func (svc *HabitsService) ensureActivePeriod(ctx context.Context, habit *model.Habit, now time.Time) (*model.Period, error) {
	active, err := svc.periods.FindActiveByEntityID(ctx, habit.HabitID)
	if err == nil {
		if !active.IsCompleted && active.Expired(now) {
			return svc.expireMissedWindow(ctx, habit, active, now)
		}
		return active, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	endDate, err := recurrence.PeriodEnd(habit.Rule, now)
	if err != nil {
		return nil, err
	}
	period := &model.Period{
		PeriodID:   uuid.New().String(),
		EntityID:   habit.HabitID,
		UserID:     habit.UserID,
		PeriodType: habit.Rule.Type,
		StartDate:  now,
		EndDate:    endDate,
		IsActive:   true,
		Target:     habit.Target,
	}
	if err := svc.periods.Create(ctx, period); err != nil {
		return nil, err
	}
	return period, nil
}

// expireMissedWindow records the miss at its deadline and opens the window
// containing now, so a late count lands in the current window instead of a
// long-dead one. Any intervening windows never held an active period and
// are not logged, matching the sweep's treatment of period-less entities.
func (svc *HabitsService) expireMissedWindow(ctx context.Context, habit *model.Habit, active *model.Period, now time.Time) (*model.Period, error) {
	endDate, err := recurrence.PeriodEnd(habit.Rule, now)
	if err != nil {
		return nil, err
	}
	fresh := &model.Period{
		PeriodID:   uuid.New().String(),
		EntityID:   habit.HabitID,
		UserID:     habit.UserID,
		PeriodType: habit.Rule.Type,
		StartDate:  now,
		EndDate:    endDate,
		IsActive:   true,
		Target:     habit.Target,
	}

	err = svc.txn.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := svc.periods.Finalize(ctx, active.PeriodID, active.EndDate); err != nil {
			return err
		}

		entry := &model.CompletionLog{
			LogID:       uuid.New().String(),
			EntityID:    habit.HabitID,
			PeriodID:    active.PeriodID,
			UserID:      habit.UserID,
			Title:       habit.Title,
			Difficulty:  habit.Priority,
			Tags:        habit.Tags,
			Status:      model.LogFail,
			CompletedAt: active.EndDate,
		}
		if err := svc.history.Create(ctx, entry); err != nil {
			return err
		}

		return svc.periods.Create(ctx, fresh)
	})
	if err != nil {
		return nil, fmt.Errorf("expiry transition failed: %w", err)
	}

	utils.TrackCompletion("habit", string(model.LogFail))
	return fresh, nil
}

// rollOver finalizes the fulfilled window, records the success, and opens
// the next window, inside one transaction boundary.
func (svc *HabitsService) rollOver(ctx context.Context, habit *model.Habit, active *model.Period, now time.Time) error {
	nextStart, err := recurrence.NextStart(habit.Rule, now)
	if err != nil {
		return err
	}
	nextEnd, err := recurrence.PeriodEnd(habit.Rule, nextStart)
	if err != nil {
		return err
	}

	endDate := active.EndDate
	if endDate.Before(now) {
		endDate = now
	}

	err = svc.txn.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := svc.periods.Finalize(ctx, active.PeriodID, endDate); err != nil {
			return err
		}

		entry := &model.CompletionLog{
			LogID:       uuid.New().String(),
			EntityID:    habit.HabitID,
			PeriodID:    active.PeriodID,
			UserID:      habit.UserID,
			Title:       habit.Title,
			Difficulty:  habit.Priority,
			Tags:        habit.Tags,
			Status:      model.LogSuccess,
			CompletedAt: now,
		}
		if err := svc.history.Create(ctx, entry); err != nil {
			return err
		}

		if err := svc.periods.Create(ctx, &model.Period{
			PeriodID:   uuid.New().String(),
			EntityID:   habit.HabitID,
			UserID:     habit.UserID,
			PeriodType: habit.Rule.Type,
			StartDate:  nextStart,
			EndDate:    nextEnd,
			IsActive:   true,
			Target:     habit.Target,
		}); err != nil {
			return err
		}

		completed := now
		habit.LastCompletedDate = &completed
		return svc.repo.UpdateHabit(ctx, habit)
	})
	if err != nil {
		return fmt.Errorf("completion transition failed: %w", err)
	}

	utils.TrackCompletion("habit", string(model.LogSuccess))
	return nil
}
