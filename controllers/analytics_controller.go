// controllers/analytics_controller.go
package controllers

import (
	"context"
	"net/http"

	"github.com/brianvfarias/daily-diet-api/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AnalyticsSummarizer interface {
	Summary(ctx context.Context, sessionID string) (*services.AnalyticsSummary, error)
}

type AnalyticsController struct {
	Svc AnalyticsSummarizer
	Log *zap.Logger
}

func NewAnalyticsController(svc AnalyticsSummarizer, log *zap.Logger) *AnalyticsController {
	return &AnalyticsController{Svc: svc, Log: log}
}

func (h *AnalyticsController) GetAnalytics(c *gin.Context) {
	sid, ok := sessionIDFromCtx(c)
	if !ok {
		unauthorized(c)
		return
	}

	out, err := h.Svc.Summary(c.Request.Context(), sid)
	if err != nil {
		h.Log.Error("analytics summary", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, out)
}
