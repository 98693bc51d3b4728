package model

import "time"

type UserStats struct {
	DailyStats struct {
		Total     int `json:"total"`
		Archived  int `json:"archived"`
		Successes int `json:"successes"`
		Failures  int `json:"failures"`
	} `json:"daily_stats"`
	HabitStats struct {
		Total     int `json:"total"`
		Archived  int `json:"archived"`
		Successes int `json:"successes"`
		Failures  int `json:"failures"`
	} `json:"habit_stats"`
	TodoStats struct {
		Total     int `json:"total"`
		Completed int `json:"completed"`
		Pending   int `json:"pending"`
	} `json:"todo_stats"`
	ActivityStats struct {
		LastActive     time.Time `json:"last_active"`
		AccountCreated time.Time `json:"account_created"`
		TotalSessions  int       `json:"total_sessions"`
	} `json:"activity_stats"`
}
