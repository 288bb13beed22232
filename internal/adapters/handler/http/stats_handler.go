package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ritmoapp/ritmo-stats-engine/internal/adapters/handler/http/middleware"
	"github.com/ritmoapp/ritmo-stats-engine/internal/core/domain"
	"github.com/ritmoapp/ritmo-stats-engine/internal/core/services"
)

type StatsHandler struct {
	svc *services.StatsService
}

func NewStatsHandler(svc *services.StatsService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

func (h *StatsHandler) RegisterRoutes(r *gin.RouterGroup) {
	stats := r.Group("/stats")
	{
		stats.GET("/period", h.GetPeriodStats)
		stats.GET("/streaks", h.GetStreaks)
		stats.GET("/consistency", h.GetConsistency)
		stats.GET("/predictions", h.GetPredictions)
	}
}

// statsInput builds the query input from the request. The optional date
// parameter pins "today" so clients in other timezones get numbers for their
// own calendar day instead of the server's.
func statsInput(c *gin.Context) (domain.StatsInput, bool) {
	userID := c.GetString(middleware.ContextUserIDKey)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return domain.StatsInput{}, false
	}

	reference := time.Now()
	if dateStr := c.Query("date"); dateStr != "" {
		parsed, err := time.Parse(domain.DayKeyLayout, dateStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format, expected YYYY-MM-DD"})
			return domain.StatsInput{}, false
		}
		reference = parsed
	}

	return domain.StatsInput{
		UserID:    userID,
		Period:    c.Query("period"),
		Reference: reference,
	}, true
}

func (h *StatsHandler) GetPeriodStats(c *gin.Context) {
	input, ok := statsInput(c)
	if !ok {
		return
	}

	stats, err := h.svc.GetPeriodStats(c.Request.Context(), input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve statistics"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *StatsHandler) GetStreaks(c *gin.Context) {
	input, ok := statsInput(c)
	if !ok {
		return
	}

	overview, err := h.svc.GetStreaks(c.Request.Context(), input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve streaks"})
		return
	}

	c.JSON(http.StatusOK, overview)
}

func (h *StatsHandler) GetConsistency(c *gin.Context) {
	input, ok := statsInput(c)
	if !ok {
		return
	}

	report, err := h.svc.GetConsistency(c.Request.Context(), input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve consistency"})
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *StatsHandler) GetPredictions(c *gin.Context) {
	input, ok := statsInput(c)
	if !ok {
		return
	}

	predictions, err := h.svc.GetPredictions(c.Request.Context(), input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve predictions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"predictions": predictions})
}
