package models

import "time"

// WritingStreak holds the consecutive-day writing state for one user.
// Exactly one row per user, created lazily on the first saved essay.
// Invariant: LongestStreak >= CurrentStreak after every update.
type WritingStreak struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	UserID          uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	CurrentStreak   int        `gorm:"not null;default:0" json:"current_streak"`
	LongestStreak   int        `gorm:"not null;default:0" json:"longest_streak"`
	LastEssayDate   *time.Time `json:"last_essay_date"`
	StreakStartDate *time.Time `json:"streak_start_date"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
