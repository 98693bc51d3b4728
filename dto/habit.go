package dto

import (
	"time"

	"main/model"
)

type HabitResponse struct {
	ID                string           `json:"id"`
	Title             string           `json:"title"`
	Description       string           `json:"description,omitempty"`
	Rule              model.RepeatRule `json:"rule"`
	Priority          model.Priority   `json:"priority,omitempty"`
	Tags              []string         `json:"tags,omitempty"`
	Target            int              `json:"target"`
	StartDate         time.Time        `json:"start_date"`
	LastCompletedDate *time.Time       `json:"last_completed_date,omitempty"`
	IsArchived        bool             `json:"is_archived"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

func ToHabitResponse(habit *model.Habit) HabitResponse {
	return HabitResponse{
		ID:                habit.HabitID,
		Title:             habit.Title,
		Description:       habit.Description,
		Rule:              habit.Rule,
		Priority:          habit.Priority,
		Tags:              habit.Tags,
		Target:            habit.Target,
		StartDate:         habit.StartDate,
		LastCompletedDate: habit.LastCompletedDate,
		IsArchived:        habit.IsArchived,
		CreatedAt:         habit.CreatedAt,
		UpdatedAt:         habit.UpdatedAt,
	}
}

func ToHabitResponses(habits []*model.Habit) []HabitResponse {
	responses := make([]HabitResponse, len(habits))
	for i, habit := range habits {
		responses[i] = ToHabitResponse(habit)
	}
	return responses
}

// HabitAvailabilityEntry is one habit in the availability report.
// NextAvailableAt is set only for the completed bucket.
type HabitAvailabilityEntry struct {
	Habit           HabitResponse `json:"habit"`
	Count           int           `json:"count"`
	Target          int           `json:"target"`
	LastLogAt       *time.Time    `json:"last_log_at,omitempty"`
	NextAvailableAt *time.Time    `json:"next_available_at,omitempty"`
}

type HabitAvailabilityResponse struct {
	Available         []HabitAvailabilityEntry `json:"available"`
	CompletedInWindow []HabitAvailabilityEntry `json:"completed_in_window"`
}

// HabitCountResponse reports progress after a count increment.
type HabitCountResponse struct {
	PeriodID  string     `json:"period_id"`
	Count     int        `json:"count"`
	Target    int        `json:"target"`
	Completed bool       `json:"completed"`
	PeriodEnd *time.Time `json:"period_end,omitempty"`
}

func ToHabitCountResponse(period *model.Period) HabitCountResponse {
	response := HabitCountResponse{
		PeriodID:  period.PeriodID,
		Count:     period.Count,
		Target:    period.Target,
		Completed: period.Target > 0 && period.Count >= period.Target,
	}
	if !period.EndDate.IsZero() {
		response.PeriodEnd = &period.EndDate
	}
	return response
}
