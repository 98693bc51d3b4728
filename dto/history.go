package dto

import (
	"time"

	"main/model"
)

type CompletionLogResponse struct {
	ID          string          `json:"id"`
	EntityID    string          `json:"entity_id"`
	PeriodID    string          `json:"period_id"`
	Title       string          `json:"title"`
	Difficulty  model.Priority  `json:"difficulty,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
	Status      model.LogStatus `json:"status"`
	CompletedAt time.Time       `json:"completed_at"`
}

func ToCompletionLogResponse(entry *model.CompletionLog) CompletionLogResponse {
	return CompletionLogResponse{
		ID:          entry.LogID,
		EntityID:    entry.EntityID,
		PeriodID:    entry.PeriodID,
		Title:       entry.Title,
		Difficulty:  entry.Difficulty,
		Tags:        entry.Tags,
		Status:      entry.Status,
		CompletedAt: entry.CompletedAt,
	}
}

func ToCompletionLogResponses(entries []*model.CompletionLog) []CompletionLogResponse {
	responses := make([]CompletionLogResponse, len(entries))
	for i, entry := range entries {
		responses[i] = ToCompletionLogResponse(entry)
	}
	return responses
}
