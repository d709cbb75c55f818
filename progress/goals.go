package progress

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/writeflowhq/writeflow/models"
	"github.com/writeflowhq/writeflow/utils"
)

// CreateGoal validates and persists a new goal with its period derived from
// the goal type and creation instant. Progress starts at zero and is filled in
// by the next save inside the period.
func (s *Service) CreateGoal(ctx context.Context, userID uint, goalType string, targetValue int, now time.Time) (*models.WritingGoal, error) {
	if userID == 0 {
		return nil, &ValidationError{Field: "user_id", Reason: "must be set"}
	}
	if !models.ValidGoalType(goalType) {
		return nil, &ValidationError{Field: "goal_type", Reason: "unrecognized goal type " + goalType}
	}
	if targetValue <= 0 {
		return nil, &ValidationError{Field: "target_value", Reason: "must be a positive integer"}
	}
	if now.IsZero() {
		now = time.Now()
	}

	start, end, err := DerivePeriod(goalType, now)
	if err != nil {
		return nil, err
	}

	goal := models.WritingGoal{
		UserID:      userID,
		GoalType:    goalType,
		TargetValue: targetValue,
		PeriodStart: start,
		PeriodEnd:   end,
		IsActive:    true,
	}
	if err := s.db.WithContext(ctx).Create(&goal).Error; err != nil {
		return nil, &StorageError{Op: "create goal", Err: err}
	}
	return &goal, nil
}

// ActiveGoals lists the user's active goals whose period has not ended yet,
// newest first. Expired goals stay in storage; this filter is the only
// lifecycle they have.
func (s *Service) ActiveGoals(ctx context.Context, userID uint) ([]models.WritingGoal, error) {
	today := utcDate(time.Now())
	var goals []models.WritingGoal
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ? AND period_end >= ?", userID, true, today).
		Order("created_at DESC").
		Find(&goals).Error
	if err != nil {
		return nil, &StorageError{Op: "load goals", Err: err}
	}
	return goals, nil
}

// recomputeGoals refreshes CurrentProgress for every active goal whose period
// contains `day`. A failing goal is reported and skipped; it never rolls back
// the save or the other goals.
func (s *Service) recomputeGoals(ctx context.Context, userID uint, day time.Time) ([]models.WritingGoal, []GoalError) {
	db := s.db.WithContext(ctx)

	var goals []models.WritingGoal
	err := db.
		Where("user_id = ? AND is_active = ? AND period_start <= ? AND period_end >= ?", userID, true, day, day).
		Find(&goals).Error
	if err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Warnf("goal recompute skipped for user %d: %v", userID, err)
		}
		return nil, []GoalError{{Reason: "failed to load goals: " + err.Error()}}
	}

	updated := make([]models.WritingGoal, 0, len(goals))
	var failures []GoalError
	for i := range goals {
		goal := &goals[i]
		progress, err := s.goalProgress(db, userID, goal)
		if err != nil {
			if utils.Sugar != nil {
				utils.Sugar.Warnf("goal %d recompute failed for user %d: %v", goal.ID, userID, err)
			}
			failures = append(failures, GoalError{GoalID: goal.ID, Reason: err.Error()})
			continue
		}
		goal.CurrentProgress = progress
		if err := db.Model(goal).Update("current_progress", progress).Error; err != nil {
			if utils.Sugar != nil {
				utils.Sugar.Warnf("goal %d update failed for user %d: %v", goal.ID, userID, err)
			}
			failures = append(failures, GoalError{GoalID: goal.ID, Reason: err.Error()})
			continue
		}
		updated = append(updated, *goal)
	}
	return updated, failures
}

// goalProgress computes a goal's progress from storage: count goals sum the
// in-period daily stats, a score target takes the most recent in-period score.
func (s *Service) goalProgress(db *gorm.DB, userID uint, goal *models.WritingGoal) (float64, error) {
	start := utcDate(goal.PeriodStart)
	// period end is inclusive, essays carry full timestamps
	endExclusive := utcDate(goal.PeriodEnd).AddDate(0, 0, 1)

	if goal.GoalType == models.GoalScoreTarget {
		var essay models.Essay
		err := db.
			Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, start, endExclusive).
			Order("created_at DESC").
			First(&essay).Error
		if err == gorm.ErrRecordNotFound {
			return goal.CurrentProgress, nil
		}
		if err != nil {
			return 0, err
		}
		return essay.OverallScore, nil
	}

	var count int64
	err := db.Model(&models.DailyStat{}).
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, endExclusive).
		Select("COALESCE(SUM(essays_written),0)").
		Scan(&count).Error
	if err != nil {
		return 0, err
	}
	return float64(count), nil
}
