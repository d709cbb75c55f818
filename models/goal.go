package models

import "time"

// Goal types a user can create. Count goals accumulate essays written inside
// the period; a score target is reached by the most recent in-period score.
const (
	GoalDailyEssays   = "daily_essays"
	GoalWeeklyEssays  = "weekly_essays"
	GoalMonthlyEssays = "monthly_essays"
	GoalScoreTarget   = "score_target"
)

// ValidGoalType reports whether t is one of the recognized goal types.
func ValidGoalType(t string) bool {
	switch t {
	case GoalDailyEssays, GoalWeeklyEssays, GoalMonthlyEssays, GoalScoreTarget:
		return true
	}
	return false
}

// WritingGoal is a time-boxed target a user sets for themselves. Period bounds
// are inclusive UTC calendar dates derived from the goal type at creation.
// Expired goals are never flipped inactive; staleness is a query-time filter.
type WritingGoal struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"index;not null" json:"user_id"`
	GoalType        string    `gorm:"size:32;not null" json:"goal_type"`
	TargetValue     int       `gorm:"not null" json:"target_value"`
	PeriodStart     time.Time `gorm:"not null" json:"period_start"`
	PeriodEnd       time.Time `gorm:"not null" json:"period_end"`
	CurrentProgress float64   `gorm:"not null;default:0" json:"current_progress"`
	IsActive        bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Completed reports whether the goal's target has been reached. Completion is
// derived at read time, never stored.
func (g *WritingGoal) Completed() bool {
	return g.CurrentProgress >= float64(g.TargetValue)
}
