package usecase

import (
	"context"
	"sort"
	"time"

	"main/model"
	"main/repository"
)

// In-memory stores honoring the repository contracts, including the
// one-active-period-per-entity constraint the mongo index enforces.

type fakeDailyStore struct {
	dailies map[string]*model.Daily
}

func newFakeDailyStore() *fakeDailyStore {
	return &fakeDailyStore{dailies: make(map[string]*model.Daily)}
}

func (s *fakeDailyStore) CreateDaily(ctx context.Context, daily *model.Daily) error {
	if _, ok := s.dailies[daily.DailyID]; ok {
		return repository.ErrConflict
	}
	cp := *daily
	s.dailies[daily.DailyID] = &cp
	return nil
}

func (s *fakeDailyStore) FindDailyByID(ctx context.Context, userID, dailyID string) (*model.Daily, error) {
	daily, ok := s.dailies[dailyID]
	if !ok || daily.UserID != userID {
		return nil, repository.ErrNotFound
	}
	cp := *daily
	return &cp, nil
}

func (s *fakeDailyStore) FindDailiesByUserID(ctx context.Context, userID string) ([]*model.Daily, error) {
	var out []*model.Daily
	for _, daily := range s.dailies {
		if daily.UserID == userID {
			cp := *daily
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DailyID < out[j].DailyID })
	return out, nil
}

func (s *fakeDailyStore) UpdateDaily(ctx context.Context, daily *model.Daily) error {
	if _, ok := s.dailies[daily.DailyID]; !ok {
		return repository.ErrNotFound
	}
	cp := *daily
	s.dailies[daily.DailyID] = &cp
	return nil
}

func (s *fakeDailyStore) ArchiveDaily(ctx context.Context, userID, dailyID string) error {
	daily, ok := s.dailies[dailyID]
	if !ok || daily.UserID != userID {
		return repository.ErrNotFound
	}
	daily.IsArchived = true
	return nil
}

func (s *fakeDailyStore) DeleteDaily(ctx context.Context, userID, dailyID string) error {
	daily, ok := s.dailies[dailyID]
	if !ok || daily.UserID != userID {
		return repository.ErrNotFound
	}
	delete(s.dailies, dailyID)
	return nil
}

type fakeHabitStore struct {
	habits map[string]*model.Habit
}

func newFakeHabitStore() *fakeHabitStore {
	return &fakeHabitStore{habits: make(map[string]*model.Habit)}
}

func (s *fakeHabitStore) CreateHabit(ctx context.Context, habit *model.Habit) error {
	if _, ok := s.habits[habit.HabitID]; ok {
		return repository.ErrConflict
	}
	cp := *habit
	s.habits[habit.HabitID] = &cp
	return nil
}

func (s *fakeHabitStore) FindHabitByID(ctx context.Context, userID, habitID string) (*model.Habit, error) {
	habit, ok := s.habits[habitID]
	if !ok || habit.UserID != userID {
		return nil, repository.ErrNotFound
	}
	cp := *habit
	return &cp, nil
}

func (s *fakeHabitStore) FindHabitsByUserID(ctx context.Context, userID string) ([]*model.Habit, error) {
	var out []*model.Habit
	for _, habit := range s.habits {
		if habit.UserID == userID {
			cp := *habit
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].HabitID < out[j].HabitID })
	return out, nil
}

func (s *fakeHabitStore) UpdateHabit(ctx context.Context, habit *model.Habit) error {
	if _, ok := s.habits[habit.HabitID]; !ok {
		return repository.ErrNotFound
	}
	cp := *habit
	s.habits[habit.HabitID] = &cp
	return nil
}

func (s *fakeHabitStore) ArchiveHabit(ctx context.Context, userID, habitID string) error {
	habit, ok := s.habits[habitID]
	if !ok || habit.UserID != userID {
		return repository.ErrNotFound
	}
	habit.IsArchived = true
	return nil
}

func (s *fakeHabitStore) DeleteHabit(ctx context.Context, userID, habitID string) error {
	habit, ok := s.habits[habitID]
	if !ok || habit.UserID != userID {
		return repository.ErrNotFound
	}
	delete(s.habits, habitID)
	return nil
}

type fakePeriodStore struct {
	periods []*model.Period
}

func newFakePeriodStore() *fakePeriodStore {
	return &fakePeriodStore{}
}

func (s *fakePeriodStore) FindActiveByEntityID(ctx context.Context, entityID string) (*model.Period, error) {
	for _, p := range s.periods {
		if p.EntityID == entityID && p.IsActive {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *fakePeriodStore) FindByEntityID(ctx context.Context, entityID string) ([]*model.Period, error) {
	var out []*model.Period
	for _, p := range s.periods {
		if p.EntityID == entityID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.After(out[j].StartDate) })
	return out, nil
}

func (s *fakePeriodStore) Create(ctx context.Context, period *model.Period) error {
	if period.IsActive {
		for _, p := range s.periods {
			if p.EntityID == period.EntityID && p.IsActive {
				return repository.ErrConflict
			}
		}
	}
	cp := *period
	s.periods = append(s.periods, &cp)
	return nil
}

func (s *fakePeriodStore) Finalize(ctx context.Context, periodID string, endDate time.Time) (*model.Period, error) {
	for _, p := range s.periods {
		if p.PeriodID == periodID && p.IsActive {
			p.IsActive = false
			p.IsCompleted = true
			p.EndDate = endDate
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrConflict
}

func (s *fakePeriodStore) IncrementCount(ctx context.Context, periodID string, by int) (*model.Period, error) {
	for _, p := range s.periods {
		if p.PeriodID == periodID && p.IsActive {
			p.Count += by
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *fakePeriodStore) activeCount(entityID string) int {
	n := 0
	for _, p := range s.periods {
		if p.EntityID == entityID && p.IsActive {
			n++
		}
	}
	return n
}

type fakeLogStore struct {
	logs []*model.CompletionLog
}

func newFakeLogStore() *fakeLogStore {
	return &fakeLogStore{}
}

func (s *fakeLogStore) Create(ctx context.Context, entry *model.CompletionLog) error {
	cp := *entry
	s.logs = append(s.logs, &cp)
	return nil
}

func (s *fakeLogStore) FindByEntityID(ctx context.Context, entityID string) ([]*model.CompletionLog, error) {
	var out []*model.CompletionLog
	for _, l := range s.logs {
		if l.EntityID == entityID {
			cp := *l
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CompletedAt.After(out[j].CompletedAt) })
	return out, nil
}

func (s *fakeLogStore) FindByUserID(ctx context.Context, userID string) ([]*model.CompletionLog, error) {
	var out []*model.CompletionLog
	for _, l := range s.logs {
		if l.UserID == userID {
			cp := *l
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CompletedAt.After(out[j].CompletedAt) })
	return out, nil
}

func (s *fakeLogStore) LastLogDate(ctx context.Context, entityID string) (time.Time, error) {
	logs, _ := s.FindByEntityID(ctx, entityID)
	if len(logs) == 0 {
		return time.Time{}, repository.ErrNotFound
	}
	return logs[0].CompletedAt, nil
}
