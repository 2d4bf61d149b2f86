package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/craftfolio/studio_backend/models"
	"github.com/craftfolio/studio_backend/utils"
	"github.com/craftfolio/studio_backend/workflow"
	"github.com/gin-gonic/gin"
)

// trackRequest is the public ingestion envelope: the page identifies itself
// by domain and event type, with an optional free-form data payload.
type trackRequest struct {
	Domain    string      `json:"domain"`
	EventType string      `json:"eventType"`
	Data      trackLookup `json:"data"`
}

type trackLookup map[string]any

func (d trackLookup) str(key string) string {
	if v, ok := d[key].(string); ok {
		return v
	}
	return ""
}

// buildTrackEvent validates the envelope and maps its data payload onto the
// internal event record.
func buildTrackEvent(req trackRequest) (models.NewAnalyticsEvent, error) {
	if req.Domain == "" || req.EventType == "" {
		return models.NewAnalyticsEvent{}, errors.New("Domain and eventType are required")
	}
	return models.NewAnalyticsEvent{
		EventType: req.EventType,
		PagePath:  req.Data.str("pagePath"),
		Referer:   req.Data.str("referer"),
	}, nil
}

// analyticsTrackHandler ingests a page view or interaction from a public
// schedule page. The account is resolved from the slug, never from auth.
func analyticsTrackHandler(c *gin.Context) {
	ctx := c.Request.Context()

	settings, err := models.GetScheduleSettingsBySlug(ctx, c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "schedule page not found"})
		return
	}

	var req trackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	input, err := buildTrackEvent(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	if _, err := models.RecordAnalyticsEvent(
		ctx,
		settings.AccountId,
		&input,
		c.GetHeader("User-Agent"),
		c.ClientIP(),
		req.Domain,
	); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func analyticsSummaryHandler(c *gin.Context) {
	to := time.Now()
	from := to.AddDate(0, -1, 0)
	if raw := c.Query("from"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			from = t
		}
	}
	if raw := c.Query("to"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			to = t.AddDate(0, 0, 1)
		}
	}

	summary, err := models.GetAnalyticsSummary(c.Request.Context(), from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// outboxReplayHandler re-queues dead outbox events by id. Admin only.
func outboxReplayHandler(c *gin.Context) {
	isAdmin, ok := utils.GetIsAdminFromContext(c.Request.Context())
	if !ok || !isAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "admin role required"})
		return
	}

	var body struct {
		Ids []int `json:"ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reverted, err := workflow.ReplayDeadEvents(c.Request.Context(), body.Ids)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reverted": reverted})
}
