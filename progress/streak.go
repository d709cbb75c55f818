package progress

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/writeflowhq/writeflow/models"
)

// StreakActive reports whether a streak is still alive as of today: the last
// essay was written today or yesterday. Derived at read time, never stored.
func StreakActive(streak *models.WritingStreak, today time.Time) bool {
	if streak == nil || streak.LastEssayDate == nil {
		return false
	}
	gap := utcDate(today).Sub(utcDate(*streak.LastEssayDate))
	return gap >= 0 && gap <= 24*time.Hour
}

// advanceStreak applies the streak state machine for a save on `day`. The row
// is locked for the rest of the transaction, which serializes concurrent saves
// by the same user. Must run inside a transaction.
func advanceStreak(tx *gorm.DB, userID uint, day time.Time) (*models.WritingStreak, error) {
	var streak models.WritingStreak
	q := tx.Where("user_id = ?", userID)
	if tx.Dialector.Name() == "mysql" {
		// sqlite has no row locks; its writes are serialized anyway
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := q.First(&streak).Error
	if err == gorm.ErrRecordNotFound {
		streak = models.WritingStreak{
			UserID:          userID,
			CurrentStreak:   1,
			LongestStreak:   1,
			LastEssayDate:   &day,
			StreakStartDate: &day,
		}
		if err := tx.Create(&streak).Error; err != nil {
			return nil, err
		}
		return &streak, nil
	}
	if err != nil {
		return nil, err
	}

	var last time.Time
	if streak.LastEssayDate != nil {
		last = utcDate(*streak.LastEssayDate)
	}

	if last.Equal(day) {
		// second save today, streak already counted
		return &streak, nil
	}

	if last.Equal(day.AddDate(0, 0, -1)) {
		streak.CurrentStreak++
	} else {
		streak.CurrentStreak = 1
		streak.StreakStartDate = &day
	}
	streak.LastEssayDate = &day
	if streak.CurrentStreak > streak.LongestStreak {
		streak.LongestStreak = streak.CurrentStreak
	}

	if err := tx.Save(&streak).Error; err != nil {
		return nil, err
	}
	return &streak, nil
}
