package model

import "time"

// Habit is a counting-style recurring entity: each period carries a target
// count and the habit's period completes once the count reaches it.
type Habit struct {
	HabitID           string     `bson:"_id,omitempty" json:"id"`
	UserID            string     `bson:"user_id" json:"user_id"`
	Title             string     `bson:"title" json:"title" binding:"required"`
	Description       string     `bson:"description,omitempty" json:"description,omitempty"`
	Rule              RepeatRule `bson:"rule" json:"rule"`
	Priority          Priority   `bson:"priority,omitempty" json:"priority,omitempty"`
	Tags              []string   `bson:"tags,omitempty" json:"tags,omitempty"`
	Target            int        `bson:"target" json:"target"`
	StartDate         time.Time  `bson:"start_date" json:"start_date"`
	LastCompletedDate *time.Time `bson:"last_completed_date,omitempty" json:"last_completed_date,omitempty"`
	IsArchived        bool       `bson:"is_archived" json:"is_archived"`
	CreatedAt         time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `bson:"updated_at" json:"updated_at"`
}
