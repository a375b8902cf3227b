package http

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ritmohq/ritmo/internal/adapters/handler/http/middleware"
	"github.com/ritmohq/ritmo/internal/core/domain"
	"github.com/ritmohq/ritmo/internal/core/services"
)

type CheckoffHandler struct {
	svc *services.CheckoffService
}

func NewCheckoffHandler(svc *services.CheckoffService) *CheckoffHandler {
	return &CheckoffHandler{
		svc: svc,
	}
}

type recordCheckoffRequest struct {
	CheckedAt *time.Time `json:"checked_at"`
}

func (h *CheckoffHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/habits/:id/checkoffs", h.Record)
	router.GET("/habits/:id/checkoffs", h.List)
	router.DELETE("/checkoffs/:id", h.Delete)
}

func (h *CheckoffHandler) Record(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	// The body is optional; an absent or empty one means "checked off now".
	var req recordCheckoffRequest
	if c.Request.Body != nil {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	input := services.RecordCheckoffInput{
		HabitID: c.Param("id"),
		UserID:  userID,
	}
	if req.CheckedAt != nil {
		input.CheckedAt = *req.CheckedAt
	}

	checkoff, err := h.svc.Record(c.Request.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrHabitNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
		case errors.Is(err, domain.ErrUnauthorized):
			c.JSON(http.StatusForbidden, gin.H{"error": "not your habit"})
		case errors.Is(err, domain.ErrDuplicateCheckoff):
			c.JSON(http.StatusConflict, gin.H{"error": "checkoff already recorded for this timestamp"})
		case errors.Is(err, domain.ErrCheckoffInFuture),
			errors.Is(err, domain.ErrCheckoffBeforeCreation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, checkoff)
}

func (h *CheckoffHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	from, err := timeQuery(c, "from")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from format, use RFC3339"})
		return
	}
	to, err := timeQuery(c, "to")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to format, use RFC3339"})
		return
	}

	list, err := h.svc.ListByHabitID(c.Request.Context(), c.Param("id"), userID, from, to)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrHabitNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
		case errors.Is(err, domain.ErrUnauthorized):
			c.JSON(http.StatusForbidden, gin.H{"error": "not your habit"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *CheckoffHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	err := h.svc.Delete(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCheckoffNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "checkoff not found"})
		case errors.Is(err, domain.ErrUnauthorized):
			c.JSON(http.StatusForbidden, gin.H{"error": "not your checkoff"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

func timeQuery(c *gin.Context, key string) (time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, raw)
}
