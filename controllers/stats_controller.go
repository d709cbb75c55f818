package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/writeflowhq/writeflow/models"
	"github.com/writeflowhq/writeflow/utils"
)

// StatsController provides service-wide statistics such as counts and today's activity.
type StatsController struct {
	db *gorm.DB
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{db: db}
}

// GetStats returns aggregate statistics for the whole service.
func (s *StatsController) GetStats(ctx *gin.Context) {
	var userCount int64
	var essayCount int64
	var essaysToday int64

	if err := s.db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		// Fallback to 0 instead of failing the whole endpoint
		userCount = 0
	}

	if err := s.db.Model(&models.Essay{}).Count(&essayCount).Error; err != nil {
		essayCount = 0
	}

	// Today's activity from the per-day aggregates, UTC bucketed like the engine
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if err := s.db.Model(&models.DailyStat{}).
		Where("date = ?", today).
		Select("COALESCE(SUM(essays_written),0)").
		Scan(&essaysToday).Error; err != nil {
		essaysToday = 0
	}

	utils.Success(ctx, gin.H{
		"user_count":   userCount,
		"essay_count":  essayCount,
		"essays_today": essaysToday,
	})
}
