package usecase

import (
	"context"
	"errors"
	"time"

	"main/model"
	"main/recurrence"
	"main/repository"

	"github.com/google/uuid"
)

type DailiesService struct {
	repo repository.DailyStore
}

func NewDailiesService(repo repository.DailyStore) *DailiesService {
	return &DailiesService{repo: repo}
}

// Create Daily
func (svc *DailiesService) CreateDaily(ctx context.Context, daily *model.Daily) error {
	if daily.UserID == "" {
		return errors.New("user ID is required")
	}
	if daily.Title == "" {
		return errors.New("title is required")
	}
	if err := recurrence.ValidateRule(daily.Rule); err != nil {
		return err
	}
	if err := validatePriority(daily.Priority); err != nil {
		return err
	}

	now := time.Now()
	if daily.DailyID == "" {
		daily.DailyID = uuid.New().String()
	}
	if daily.StartDate.IsZero() {
		daily.StartDate = now
	}
	if daily.CreatedAt.IsZero() {
		daily.CreatedAt = now
	}
	daily.UpdatedAt = now
	daily.LastCompletedDate = nil
	daily.IsArchived = false

	return svc.repo.CreateDaily(ctx, daily)
}

// Get one daily
func (svc *DailiesService) GetDaily(ctx context.Context, userID, dailyID string) (*model.Daily, error) {
	return svc.repo.FindDailyByID(ctx, userID, dailyID)
}

// Get the user's dailies
func (svc *DailiesService) GetUserDailies(ctx context.Context, userID string) ([]*model.Daily, error) {
	return svc.repo.FindDailiesByUserID(ctx, userID)
}

// Update daily fields; the repetition rule is re-validated on change
func (svc *DailiesService) UpdateDaily(ctx context.Context, userID, dailyID string, updates *model.Daily) (*model.Daily, error) {
	existing, err := svc.repo.FindDailyByID(ctx, userID, dailyID)
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
	if updates.Priority != "" {
		if err := validatePriority(updates.Priority); err != nil {
			return nil, err
		}
		existing.Priority = updates.Priority
	}
	if updates.Tags != nil {
		existing.Tags = updates.Tags
	}
	if !updates.StartDate.IsZero() {
		existing.StartDate = updates.StartDate
	}
	existing.UpdatedAt = time.Now()

	if err := svc.repo.UpdateDaily(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Archive daily (soft delete; history stays queryable)
func (svc *DailiesService) ArchiveDaily(ctx context.Context, userID, dailyID string) error {
	return svc.repo.ArchiveDaily(ctx, userID, dailyID)
}

// Delete daily permanently
func (svc *DailiesService) DeleteDaily(ctx context.Context, userID, dailyID string) error {
	return svc.repo.DeleteDaily(ctx, userID, dailyID)
}
