package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/writeflowhq/writeflow/models"
	"github.com/writeflowhq/writeflow/progress"
	"github.com/writeflowhq/writeflow/utils"
)

// ProgressController exposes streaks, goals and daily stats.
type ProgressController struct {
	engine *progress.Service
}

// NewProgressController creates a new controller instance.
func NewProgressController(engine *progress.Service) *ProgressController {
	return &ProgressController{engine: engine}
}

const progressCacheTTL = 5 * time.Minute

// GetStreak returns the user's streak state plus the derived liveness flag.
func (p *ProgressController) GetStreak(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	// only the stored state is cacheable; liveness depends on the current
	// date and is derived on every request
	cacheKey := utils.ProgressCacheKey(userID, "streak")
	var streak *models.WritingStreak
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		var cached models.WritingStreak
		if json.Unmarshal(b, &cached) == nil {
			streak = &cached
		}
	}
	if streak == nil {
		loaded, err := p.engine.Streak(ctx.Request.Context(), userID)
		if err != nil {
			respondEngineError(ctx, err)
			return
		}
		streak = loaded
		utils.CacheSetJSON(cacheKey, streak, progressCacheTTL)
	}

	utils.Success(ctx, gin.H{
		"streak":    streak,
		"is_active": progress.StreakActive(streak, time.Now()),
	})
}

// ListGoals returns the user's active, unexpired goals with derived completion.
func (p *ProgressController) ListGoals(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	goals, err := p.engine.ActiveGoals(ctx.Request.Context(), userID)
	if err != nil {
		respondEngineError(ctx, err)
		return
	}

	type goalView struct {
		models.WritingGoal
		Completed bool `json:"completed"`
	}
	views := make([]goalView, 0, len(goals))
	for _, g := range goals {
		views = append(views, goalView{WritingGoal: g, Completed: g.Completed()})
	}

	utils.Success(ctx, gin.H{"goals": views})
}

// CreateGoal validates and persists a new writing goal.
func (p *ProgressController) CreateGoal(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req struct {
		GoalType    string `json:"goal_type" binding:"required"`
		TargetValue int    `json:"target_value"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid request payload")
		return
	}

	goal, err := p.engine.CreateGoal(ctx.Request.Context(), userID, req.GoalType, req.TargetValue, time.Now())
	if err != nil {
		var verr *progress.ValidationError
		if errors.As(err, &verr) {
			utils.Error(ctx, http.StatusBadRequest, 40041, verr.Error())
			return
		}
		respondEngineError(ctx, err)
		return
	}

	utils.InvalidateProgress(userID)
	utils.Success(ctx, goal)
}

// RecentStats returns the user's daily activity for the last N days (default 7).
func (p *ProgressController) RecentStats(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	days := 7
	if v := strings.TrimSpace(ctx.Query("days")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 90 {
			days = n
		}
	}

	stats, err := p.engine.RecentStats(ctx.Request.Context(), userID, days)
	if err != nil {
		respondEngineError(ctx, err)
		return
	}

	utils.Success(ctx, gin.H{"stats": stats, "days": days})
}
