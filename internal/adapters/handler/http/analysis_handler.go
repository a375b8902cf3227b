package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ritmohq/ritmo/internal/adapters/handler/http/middleware"
	"github.com/ritmohq/ritmo/internal/core/analysis"
	"github.com/ritmohq/ritmo/internal/core/domain"
	"github.com/ritmohq/ritmo/internal/core/services"
)

type AnalysisHandler struct {
	svc *services.AnalysisService
}

func NewAnalysisHandler(svc *services.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{
		svc: svc,
	}
}

func (h *AnalysisHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/habits/:id/analysis", h.AnalyzeHabit)

	analysisGroup := router.Group("/analysis")
	{
		analysisGroup.GET("", h.AnalyzeAll)
		analysisGroup.GET("/max-streak", h.StreakLeaders)
		analysisGroup.GET("/active-streaks", h.ActiveStreakHolders)
		analysisGroup.GET("/strugglers", h.RateStrugglers)
	}
}

// startQuery reads the optional start=YYYY-MM-DD parameter. A missing value
// yields the zero time, which the analyzer resolves to the habit's creation.
func startQuery(c *gin.Context) (time.Time, error) {
	raw := c.Query("start")
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", raw)
}

func (h *AnalysisHandler) AnalyzeHabit(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	start, err := startQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start format, use YYYY-MM-DD"})
		return
	}

	report, err := h.svc.AnalyzeHabit(c.Request.Context(), c.Param("id"), userID, start)
	if err != nil {
		if errors.Is(err, domain.ErrHabitNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *AnalysisHandler) AnalyzeAll(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	start, err := startQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start format, use YYYY-MM-DD"})
		return
	}

	reports, err := h.svc.AnalyzeAll(c.Request.Context(), userID, start)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, reports)
}

func (h *AnalysisHandler) StreakLeaders(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	start, err := startQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start format, use YYYY-MM-DD"})
		return
	}

	leaders, err := h.svc.StreakLeaders(c.Request.Context(), userID, start)
	if err != nil {
		if errors.Is(err, analysis.ErrEmptyBatch) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no habits to analyze"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, leaders)
}

func (h *AnalysisHandler) ActiveStreakHolders(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	start, err := startQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start format, use YYYY-MM-DD"})
		return
	}

	holders, err := h.svc.ActiveStreakHolders(c.Request.Context(), userID, start)
	if err != nil {
		if errors.Is(err, analysis.ErrEmptyBatch) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no habits to analyze"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, holders)
}

func (h *AnalysisHandler) RateStrugglers(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	start, err := startQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start format, use YYYY-MM-DD"})
		return
	}

	strugglers, err := h.svc.RateStrugglers(c.Request.Context(), userID, start)
	if err != nil {
		if errors.Is(err, analysis.ErrEmptyBatch) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no habits to analyze"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, strugglers)
}
