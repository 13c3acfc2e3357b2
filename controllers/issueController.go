package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"civiclens-be/models"
	"civiclens-be/services"
	"civiclens-be/store"
)

// IssueController handles issue creation, listing and read endpoints.
type IssueController struct {
	issues *services.IssueService
	stats  *services.StatsService
	geo    *store.Issues
	logger *zap.SugaredLogger
}

// NewIssueController builds the controller.
func NewIssueController(issues *services.IssueService, stats *services.StatsService, geo *store.Issues, logger *zap.SugaredLogger) *IssueController {
	return &IssueController{issues: issues, stats: stats, geo: geo, logger: logger}
}

// Create handles POST /api/issues.
func (ic *IssueController) Create(c *gin.Context) {
	reporterID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input struct {
		Title       string   `json:"title" binding:"required,max=200"`
		Description string   `json:"description" binding:"required,max=2000"`
		Category    string   `json:"category" binding:"required"`
		Priority    string   `json:"priority" binding:"required"`
		Latitude    *float64 `json:"latitude,omitempty"`
		Longitude   *float64 `json:"longitude,omitempty"`
		Address     *string  `json:"address,omitempty"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	issue, err := ic.issues.Create(c.Request.Context(), services.NewIssueInput{
		ReporterID:  reporterID,
		Title:       input.Title,
		Description: input.Description,
		Category:    models.IssueCategory(input.Category),
		Priority:    models.IssuePriority(input.Priority),
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		Address:     input.Address,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, issue)
}

// List handles GET /api/issues with the filter query surface:
// status, category, priority, reporter_id, assigned_to, limit.
func (ic *IssueController) List(c *gin.Context) {
	filter, ok := parseIssueFilter(c)
	if !ok {
		return
	}

	issues, err := ic.issues.List(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"issues": issues, "count": len(issues)})
}

// Mine handles GET /api/issues/mine: the caller's own reports.
func (ic *IssueController) Mine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	filter, ok := parseIssueFilter(c)
	if !ok {
		return
	}
	filter.ReporterID = &userID

	issues, err := ic.issues.List(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"issues": issues, "count": len(issues)})
}

// Get handles GET /api/issues/:id.
func (ic *IssueController) Get(c *gin.Context) {
	issueID, ok := issueIDParam(c)
	if !ok {
		return
	}

	issue, err := ic.issues.Get(c.Request.Context(), issueID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, issue)
}

// Recent handles GET /api/issues/recent: newest geolocated issues for the map.
func (ic *IssueController) Recent(c *gin.Context) {
	issues, err := ic.geo.FindGeolocated(c.Request.Context(), 19)
	if err != nil {
		ic.logger.Errorw("geolocated query failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve recent issues"})
		return
	}

	type pin struct {
		ID        string               `json:"id"`
		Title     string               `json:"title"`
		Latitude  float64              `json:"latitude"`
		Longitude float64              `json:"longitude"`
		Category  models.IssueCategory `json:"category"`
		Status    models.IssueStatus   `json:"status"`
		Address   *string              `json:"address,omitempty"`
	}

	pins := make([]pin, 0, len(issues))
	for _, issue := range issues {
		if issue.Latitude == nil || issue.Longitude == nil {
			continue
		}
		pins = append(pins, pin{
			ID:        issue.ID.Hex(),
			Title:     issue.Title,
			Latitude:  *issue.Latitude,
			Longitude: *issue.Longitude,
			Category:  issue.Category,
			Status:    issue.Status,
			Address:   issue.Address,
		})
	}

	c.JSON(http.StatusOK, pins)
}

// Stats handles GET /api/issues/stats.
func (ic *IssueController) Stats(c *gin.Context) {
	stats, err := ic.stats.Dashboard(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func parseIssueFilter(c *gin.Context) (models.IssueFilter, bool) {
	var filter models.IssueFilter

	if v := c.Query("status"); v != "" {
		status := models.IssueStatus(v)
		filter.Status = &status
	}
	if v := c.Query("category"); v != "" {
		category := models.IssueCategory(v)
		filter.Category = &category
	}
	if v := c.Query("priority"); v != "" {
		priority := models.IssuePriority(v)
		filter.Priority = &priority
	}
	if v := c.Query("reporter_id"); v != "" {
		id, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reporter_id"})
			return filter, false
		}
		filter.ReporterID = &id
	}
	if v := c.Query("assigned_to"); v != "" {
		id, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assigned_to"})
			return filter, false
		}
		filter.AssignedTo = &id
	}
	if v := c.Query("limit"); v != "" {
		limit, err := strconv.ParseInt(v, 10, 64)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return filter, false
		}
		filter.Limit = limit
	}

	return filter, true
}
