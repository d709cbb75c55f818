package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/writeflowhq/writeflow/models"
	"github.com/writeflowhq/writeflow/progress"
	"github.com/writeflowhq/writeflow/scoring"
	"github.com/writeflowhq/writeflow/utils"
)

// EssayController manages essay analysis, persistence and comparison.
type EssayController struct {
	db     *gorm.DB
	engine *progress.Service
	scorer *scoring.Client
}

// NewEssayController creates a new controller instance.
func NewEssayController(db *gorm.DB, engine *progress.Service, scorer *scoring.Client) *EssayController {
	return &EssayController{db: db, engine: engine, scorer: scorer}
}

// Analyze scores a draft without persisting anything. The user decides
// afterwards whether to save the essay together with its report.
func (e *EssayController) Analyze(ctx *gin.Context) {
	var req struct {
		Title   string `json:"title"`
		Content string `json:"content" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	report, err := e.scorer.Analyze(ctx.Request.Context(), req.Title, req.Content)
	if err != nil {
		if errors.Is(err, scoring.ErrEssayTooShort) {
			utils.Error(ctx, http.StatusBadRequest, 40021, err.Error())
			return
		}
		if utils.Sugar != nil {
			utils.Sugar.Warnf("essay analysis failed: %v", err)
		}
		utils.Error(ctx, http.StatusBadGateway, 50220, "failed to analyze essay, please try again")
		return
	}

	utils.Success(ctx, gin.H{"analysis": report})
}

// CreateEssay persists an analyzed essay and folds it into the user's
// progress: daily stats, streak, then goal recomputes. Goal recompute
// failures degrade to warnings; the save still reports success.
func (e *EssayController) CreateEssay(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req struct {
		Title    string          `json:"title"`
		Content  string          `json:"content" binding:"required"`
		Analysis *scoring.Report `json:"analysis" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40022, "invalid request payload")
		return
	}

	title := utils.SanitizeStrict(strings.TrimSpace(req.Title))
	if title == "" {
		title = "Untitled Essay"
	}
	content := utils.Sanitize(req.Content)

	report := req.Analysis
	if report.OverallScore < 0 || report.OverallScore > 100 {
		utils.Error(ctx, http.StatusBadRequest, 40023, "overall score must be within [0,100]")
		return
	}
	if report.WordCount < 0 {
		utils.Error(ctx, http.StatusBadRequest, 40024, "word count must be >= 0")
		return
	}

	essay := models.Essay{
		UserID:           userID,
		Title:            title,
		Content:          content,
		OverallScore:     report.OverallScore,
		GrammarScore:     report.Criteria.Grammar,
		StructureScore:   report.Criteria.Structure,
		ContentScore:     report.Criteria.Content,
		VocabularyScore:  report.Criteria.Vocabulary,
		CoherenceScore:   report.Criteria.Coherence,
		PlagiarismRisk:   report.PlagiarismRisk,
		WordCount:        report.WordCount,
		ReadabilityLevel: report.ReadabilityLevel,
		Strengths:        marshalStringList(report.Strengths),
		Weaknesses:       marshalStringList(report.Weaknesses),
		Suggestions:      marshalStringList(report.Suggestions),
		CreatedAt:        time.Now().UTC(),
	}
	if err := e.db.Create(&essay).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to save essay")
		return
	}

	result, err := e.engine.RecordSubmission(ctx.Request.Context(), userID, progress.Submission{
		CreatedAt:    essay.CreatedAt,
		WordCount:    essay.WordCount,
		OverallScore: essay.OverallScore,
	})
	if err != nil {
		respondEngineError(ctx, err)
		return
	}

	utils.InvalidateProgress(userID)

	payload := gin.H{
		"essay":         essay,
		"streak":        result.Streak,
		"daily_stat":    result.DailyStat,
		"updated_goals": result.UpdatedGoals,
	}
	if len(result.GoalErrors) > 0 {
		utils.SuccessWithWarnings(ctx, payload, result.GoalErrors)
		return
	}
	utils.Success(ctx, payload)
}

// ListEssays returns the authenticated user's essays, newest first.
func (e *EssayController) ListEssays(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	page, pageSize := 1, 10
	if v := strings.TrimSpace(ctx.Query("page")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if v := strings.TrimSpace(ctx.Query("page_size")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			pageSize = n
		}
	}

	var total int64
	if err := e.db.Model(&models.Essay{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to count essays")
		return
	}

	var essays []models.Essay
	if err := e.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&essays).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to retrieve essays")
		return
	}

	utils.Success(ctx, gin.H{
		"items": essays,
		"pagination": gin.H{
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": int((total + int64(pageSize) - 1) / int64(pageSize)),
		},
	})
}

// GetEssay returns one of the user's essays by id.
func (e *EssayController) GetEssay(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	essay, ok := e.loadOwnedEssay(ctx, userID, ctx.Param("id"))
	if !ok {
		return
	}
	utils.Success(ctx, essay)
}

// DeleteEssay removes one of the user's essays. Progress rows derived from it
// are historical facts and stay untouched.
func (e *EssayController) DeleteEssay(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	essay, ok := e.loadOwnedEssay(ctx, userID, ctx.Param("id"))
	if !ok {
		return
	}

	if err := e.db.Delete(essay).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to delete essay")
		return
	}
	utils.Success(ctx, gin.H{"message": "essay deleted"})
}

// CompareEssays computes score deltas between two of the user's essays.
// Query params: first, second (essay ids); first is compared relative to second.
func (e *EssayController) CompareEssays(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	first, ok := e.loadOwnedEssay(ctx, userID, ctx.Query("first"))
	if !ok {
		return
	}
	second, ok := e.loadOwnedEssay(ctx, userID, ctx.Query("second"))
	if !ok {
		return
	}

	utils.Success(ctx, gin.H{
		"first":      first,
		"second":     second,
		"comparison": progress.Compare(first, second),
	})
}

func (e *EssayController) loadOwnedEssay(ctx *gin.Context, userID uint, idStr string) (*models.Essay, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(idStr), 10, 64)
	if err != nil || id == 0 {
		utils.Error(ctx, http.StatusBadRequest, 40025, "invalid essay id")
		return nil, false
	}

	var essay models.Essay
	if err := e.db.First(&essay, uint(id)).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40420, "essay not found")
			return nil, false
		}
		utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to load essay")
		return nil, false
	}
	if essay.UserID != userID {
		utils.Error(ctx, http.StatusForbidden, 40320, "essay belongs to another user")
		return nil, false
	}
	return &essay, true
}

func marshalStringList(items []string) string {
	if len(items) == 0 {
		return "[]"
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// respondEngineError maps engine error types onto the response envelope.
func respondEngineError(ctx *gin.Context, err error) {
	var verr *progress.ValidationError
	if errors.As(err, &verr) {
		utils.Error(ctx, http.StatusBadRequest, 40030, verr.Error())
		return
	}
	var serr *progress.StorageError
	if errors.As(err, &serr) {
		if utils.Sugar != nil {
			utils.Sugar.Errorf("progress update failed: %v", serr)
		}
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to update writing progress")
		return
	}
	utils.Error(ctx, http.StatusInternalServerError, 50031, "unexpected error")
}
