package progress

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/writeflowhq/writeflow/models"
)

// upsertDailyStat creates or increments the user's stat row for `day`. The
// atomic upsert keeps the unique (user_id, date) invariant even when the row
// does not exist yet; the average is recomputed from the exact running sum.
// Must run inside a transaction.
func upsertDailyStat(tx *gorm.DB, userID uint, day time.Time, wordCount int, score float64) (*models.DailyStat, error) {
	now := time.Now()
	stat := models.DailyStat{
		UserID:        userID,
		Date:          day,
		EssaysWritten: 1,
		TotalWords:    wordCount,
		ScoreSum:      score,
		AverageScore:  score,
	}
	err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			// assignments are emitted alphabetically, so average_score still
			// reads the pre-update essays_written and score_sum on MySQL
			"average_score":  gorm.Expr("(score_sum + ?) / (essays_written + 1)", score),
			"essays_written": gorm.Expr("essays_written + 1"),
			"score_sum":      gorm.Expr("score_sum + ?", score),
			"total_words":    gorm.Expr("total_words + ?", wordCount),
			"updated_at":     now,
		}),
	}).Create(&stat).Error
	if err != nil {
		return nil, err
	}

	// Read back so the caller sees the row including this submission.
	var fresh models.DailyStat
	if err := tx.Where("user_id = ? AND date = ?", userID, day).First(&fresh).Error; err != nil {
		return nil, err
	}
	return &fresh, nil
}
