package dto

import (
	"time"

	"main/model"
)

type DailyResponse struct {
	ID                string           `json:"id"`
	Title             string           `json:"title"`
	Description       string           `json:"description,omitempty"`
	Rule              model.RepeatRule `json:"rule"`
	Priority          model.Priority   `json:"priority,omitempty"`
	Tags              []string         `json:"tags,omitempty"`
	StartDate         time.Time        `json:"start_date"`
	LastCompletedDate *time.Time       `json:"last_completed_date,omitempty"`
	IsArchived        bool             `json:"is_archived"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

func ToDailyResponse(daily *model.Daily) DailyResponse {
	return DailyResponse{
		ID:                daily.DailyID,
		Title:             daily.Title,
		Description:       daily.Description,
		Rule:              daily.Rule,
		Priority:          daily.Priority,
		Tags:              daily.Tags,
		StartDate:         daily.StartDate,
		LastCompletedDate: daily.LastCompletedDate,
		IsArchived:        daily.IsArchived,
		CreatedAt:         daily.CreatedAt,
		UpdatedAt:         daily.UpdatedAt,
	}
}

func ToDailyResponses(dailies []*model.Daily) []DailyResponse {
	responses := make([]DailyResponse, len(dailies))
	for i, daily := range dailies {
		responses[i] = ToDailyResponse(daily)
	}
	return responses
}

// CompletionResponse reports a successful completion with the instant the
// daily reopens.
type CompletionResponse struct {
	Daily           DailyResponse `json:"daily"`
	NextAvailableAt time.Time     `json:"next_available_at"`
}

// AvailabilityEntry is one daily in the availability report. NextAvailableAt
// is set only for the completed bucket.
type AvailabilityEntry struct {
	Daily           DailyResponse `json:"daily"`
	NextAvailableAt *time.Time    `json:"next_available_at,omitempty"`
}

type AvailabilityResponse struct {
	Available         []AvailabilityEntry `json:"available"`
	CompletedInWindow []AvailabilityEntry `json:"completed_in_window"`
}
