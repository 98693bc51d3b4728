package model

import "time"

type LogStatus string

const (
	LogSuccess LogStatus = "success"
	LogFail    LogStatus = "fail"
)

// Period is one open completion window for a recurring entity. At most one
// period per entity may have IsActive set; the periods collection carries a
// unique partial index enforcing that.
type Period struct {
	PeriodID    string     `bson:"_id,omitempty" json:"id"`
	EntityID    string     `bson:"entity_id" json:"entity_id"`
	UserID      string     `bson:"user_id" json:"user_id"`
	PeriodType  RepeatType `bson:"period_type" json:"period_type"`
	StartDate   time.Time  `bson:"start_date" json:"start_date"`
	EndDate     time.Time  `bson:"end_date,omitempty" json:"end_date,omitempty"`
	IsCompleted bool       `bson:"is_completed" json:"is_completed"`
	IsActive    bool       `bson:"is_active" json:"is_active"`
	Count       int        `bson:"count,omitempty" json:"count,omitempty"`
	Target      int        `bson:"target,omitempty" json:"target,omitempty"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
}

// Expired reports whether the period's deadline has passed without the
// window being fulfilled. A zero EndDate means the deadline was never
// computed and the period cannot expire.
func (p *Period) Expired(now time.Time) bool {
	return !p.EndDate.IsZero() && p.EndDate.Before(now)
}

// CompletionLog is the immutable record of one period's outcome. Title,
// difficulty and tags are snapshotted so history stays accurate when the
// entity is later edited.
type CompletionLog struct {
	LogID       string    `bson:"_id,omitempty" json:"id"`
	EntityID    string    `bson:"entity_id" json:"entity_id"`
	PeriodID    string    `bson:"period_id" json:"period_id"`
	UserID      string    `bson:"user_id" json:"user_id"`
	Title       string    `bson:"title" json:"title"`
	Difficulty  Priority  `bson:"difficulty,omitempty" json:"difficulty,omitempty"`
	Tags        []string  `bson:"tags,omitempty" json:"tags,omitempty"`
	Status      LogStatus `bson:"status" json:"status"`
	CompletedAt time.Time `bson:"completed_at" json:"completed_at"`
}
