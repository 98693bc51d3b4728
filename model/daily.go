package model

import "time"

type RepeatType string

const (
	RepeatDaily   RepeatType = "DAILY"
	RepeatWeekly  RepeatType = "WEEKLY"
	RepeatMonthly RepeatType = "MONTHLY"
	RepeatYearly  RepeatType = "YEARLY"
)

// RepeatRule describes how often a recurring entity comes due. Frequency is
// a multiplier on the base unit: {WEEKLY, 2} means every other week.
type RepeatRule struct {
	Type      RepeatType `bson:"type" json:"type" validate:"required"`
	Frequency int        `bson:"frequency" json:"frequency" validate:"required,min=1"`
}

// Daily is a recurring task. LastCompletedDate is a display cache only;
// availability is always derived from the active period.
type Daily struct {
	DailyID           string     `bson:"_id,omitempty" json:"id"`
	UserID            string     `bson:"user_id" json:"user_id"`
	Title             string     `bson:"title" json:"title" binding:"required"`
	Description       string     `bson:"description,omitempty" json:"description,omitempty"`
	Rule              RepeatRule `bson:"rule" json:"rule"`
	Priority          Priority   `bson:"priority,omitempty" json:"priority,omitempty"`
	Tags              []string   `bson:"tags,omitempty" json:"tags,omitempty"`
	StartDate         time.Time  `bson:"start_date" json:"start_date"`
	LastCompletedDate *time.Time `bson:"last_completed_date,omitempty" json:"last_completed_date,omitempty"`
	IsArchived        bool       `bson:"is_archived" json:"is_archived"`
	CreatedAt         time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `bson:"updated_at" json:"updated_at"`
}
