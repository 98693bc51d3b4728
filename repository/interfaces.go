package repository

import (
	"context"
	"time"

	"main/model"
)

// DailyStore manages recurring daily tasks.
type DailyStore interface {
	CreateDaily(ctx context.Context, daily *model.Daily) error
	FindDailyByID(ctx context.Context, userID, dailyID string) (*model.Daily, error)
	FindDailiesByUserID(ctx context.Context, userID string) ([]*model.Daily, error)
	UpdateDaily(ctx context.Context, daily *model.Daily) error
	ArchiveDaily(ctx context.Context, userID, dailyID string) error
	DeleteDaily(ctx context.Context, userID, dailyID string) error
}

// HabitStore manages counting-style recurring habits.
type HabitStore interface {
	CreateHabit(ctx context.Context, habit *model.Habit) error
	FindHabitByID(ctx context.Context, userID, habitID string) (*model.Habit, error)
	FindHabitsByUserID(ctx context.Context, userID string) ([]*model.Habit, error)
	UpdateHabit(ctx context.Context, habit *model.Habit) error
	ArchiveHabit(ctx context.Context, userID, habitID string) error
	DeleteHabit(ctx context.Context, userID, habitID string) error
}

// PeriodStore manages the mutable period state for one recurring-entity
// type. The orchestrator and sweep are its only writers.
type PeriodStore interface {
	// FindActiveByEntityID returns the single active period for the
	// entity, or ErrNotFound when none is open.
	FindActiveByEntityID(ctx context.Context, entityID string) (*model.Period, error)

	// FindByEntityID returns the entity's full period history, newest
	// first.
	FindByEntityID(ctx context.Context, entityID string) ([]*model.Period, error)

	// Create inserts a new period. Inserting a second active period for
	// the same entity fails with ErrConflict (unique partial index).
	Create(ctx context.Context, period *model.Period) error

	// Finalize closes the active period: is_completed true, is_active
	// false, end_date set. It filters on is_active so a concurrent
	// finalize of the same period fails with ErrConflict.
	Finalize(ctx context.Context, periodID string, endDate time.Time) (*model.Period, error)

	// IncrementCount bumps the running count on an active habit period.
	IncrementCount(ctx context.Context, periodID string, by int) (*model.Period, error)
}

// CompletionLogStore is append-only history of period outcomes.
type CompletionLogStore interface {
	Create(ctx context.Context, entry *model.CompletionLog) error
	FindByEntityID(ctx context.Context, entityID string) ([]*model.CompletionLog, error)
	FindByUserID(ctx context.Context, userID string) ([]*model.CompletionLog, error)
	LastLogDate(ctx context.Context, entityID string) (time.Time, error)
}

// TxnRunner scopes a multi-write sequence to one transaction boundary so a
// failure partway rolls back instead of leaving half-applied state.
type TxnRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
