package progress

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/writeflowhq/writeflow/models"
)

// Service is the writing progress tracking engine. Every per-user mutation goes
// through RecordSubmission so the streak and daily-stat invariants stay
// checkable in one place.
type Service struct {
	db *gorm.DB
}

// NewService creates a Service backed by the given database handle.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Submission is the slice of a saved essay the engine cares about.
type Submission struct {
	CreatedAt    time.Time
	WordCount    int
	OverallScore float64
}

// SaveResult reports everything a save touched. GoalErrors lists goals whose
// recompute failed; the save itself still succeeded when it is non-empty.
type SaveResult struct {
	Streak       *models.WritingStreak `json:"streak"`
	DailyStat    *models.DailyStat     `json:"daily_stat"`
	UpdatedGoals []models.WritingGoal  `json:"updated_goals"`
	GoalErrors   []GoalError           `json:"goal_errors,omitempty"`
}

// RecordSubmission folds one saved essay into the user's daily stats and
// streak, then recomputes every active goal whose period contains the UTC
// submission date. The stat and streak updates run in a single transaction
// serialized per user through a row lock on the streak row; goal recomputes run
// after it and fail independently per goal.
func (s *Service) RecordSubmission(ctx context.Context, userID uint, sub Submission) (*SaveResult, error) {
	if userID == 0 {
		return nil, &ValidationError{Field: "user_id", Reason: "must be set"}
	}
	if sub.WordCount < 0 {
		return nil, &ValidationError{Field: "word_count", Reason: "must be >= 0"}
	}
	if sub.OverallScore < 0 || sub.OverallScore > 100 {
		return nil, &ValidationError{Field: "overall_score", Reason: "must be within [0,100]"}
	}

	createdAt := sub.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	day := utcDate(createdAt)

	res := &SaveResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		streak, err := advanceStreak(tx, userID, day)
		if err != nil {
			return err
		}
		stat, err := upsertDailyStat(tx, userID, day, sub.WordCount, sub.OverallScore)
		if err != nil {
			return err
		}
		res.Streak = streak
		res.DailyStat = stat
		return nil
	})
	if err != nil {
		return nil, &StorageError{Op: "record submission", Err: err}
	}

	res.UpdatedGoals, res.GoalErrors = s.recomputeGoals(ctx, userID, day)
	return res, nil
}

// Streak returns the user's streak state, or a zero-valued state when the user
// has never saved an essay.
func (s *Service) Streak(ctx context.Context, userID uint) (*models.WritingStreak, error) {
	var streak models.WritingStreak
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&streak).Error
	if err == gorm.ErrRecordNotFound {
		return &models.WritingStreak{UserID: userID}, nil
	}
	if err != nil {
		return nil, &StorageError{Op: "load streak", Err: err}
	}
	return &streak, nil
}

// RecentStats returns the user's daily stats for the last `days` calendar
// days including today, newest first. Days without activity simply have no row.
func (s *Service) RecentStats(ctx context.Context, userID uint, days int) ([]models.DailyStat, error) {
	if days <= 0 {
		days = 7
	}
	since := utcDate(time.Now()).AddDate(0, 0, -(days - 1))
	var stats []models.DailyStat
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date >= ?", userID, since).
		Order("date DESC").
		Find(&stats).Error
	if err != nil {
		return nil, &StorageError{Op: "load daily stats", Err: err}
	}
	return stats, nil
}
