package progress

import (
	"time"

	"github.com/writeflowhq/writeflow/models"
)

// utcDate truncates t to its UTC calendar date at midnight. All date bucketing
// in this package uses UTC so a day boundary never depends on server locale.
func utcDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// DerivePeriod returns the inclusive [start, end] calendar dates for a goal of
// the given type created at the given instant. Weeks start on Sunday.
func DerivePeriod(goalType string, createdAt time.Time) (start, end time.Time, err error) {
	day := utcDate(createdAt)
	switch goalType {
	case models.GoalDailyEssays:
		return day, day.AddDate(0, 0, 1), nil
	case models.GoalWeeklyEssays:
		start = day.AddDate(0, 0, -int(day.Weekday()))
		return start, start.AddDate(0, 0, 6), nil
	case models.GoalMonthlyEssays:
		start = time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 1, -1), nil
	case models.GoalScoreTarget:
		return day, day.AddDate(0, 3, 0), nil
	}
	return time.Time{}, time.Time{}, &ValidationError{Field: "goal_type", Reason: "unrecognized goal type " + goalType}
}
