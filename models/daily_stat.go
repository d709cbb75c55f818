package models

import "time"

// DailyStat stores aggregated writing activity per user and UTC calendar day.
// The (user_id, date) pair is unique; a day's row is created on the first save
// and incremented on every later save that day.
type DailyStat struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"index:idx_daily_user_date,unique;not null" json:"user_id"`
	Date          time.Time `gorm:"index:idx_daily_user_date,unique;not null" json:"date"`
	EssaysWritten int       `gorm:"not null;default:0" json:"essays_written"`
	TotalWords    int       `gorm:"not null;default:0" json:"total_words"`
	// ScoreSum keeps the exact running sum so the mean never drifts across updates.
	ScoreSum     float64   `gorm:"not null;default:0" json:"-"`
	AverageScore float64   `gorm:"not null;default:0" json:"average_score"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
