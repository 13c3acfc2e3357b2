package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"civiclens-be/models"
	"civiclens-be/services"
	"civiclens-be/store"
)

// LifecycleController handles status transitions, assignment and the audit
// trail. The services behind it enforce the staff capability check.
type LifecycleController struct {
	issues  *services.IssueService
	history *store.History
	logger  *zap.SugaredLogger
}

// NewLifecycleController builds the controller.
func NewLifecycleController(issues *services.IssueService, history *store.History, logger *zap.SugaredLogger) *LifecycleController {
	return &LifecycleController{issues: issues, history: history, logger: logger}
}

// SetStatus handles PATCH /api/issues/:id/status.
func (lc *LifecycleController) SetStatus(c *gin.Context) {
	issueID, ok := issueIDParam(c)
	if !ok {
		return
	}
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input struct {
		Status string  `json:"status" binding:"required"`
		Notes  *string `json:"notes,omitempty"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := lc.issues.SetStatus(c.Request.Context(), issueID, actorID, models.IssueStatus(input.Status), input.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Status updated", "status": input.Status})
}

// Assign handles PATCH /api/issues/:id/assign.
func (lc *LifecycleController) Assign(c *gin.Context) {
	issueID, ok := issueIDParam(c)
	if !ok {
		return
	}
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input struct {
		AssigneeID string  `json:"assignee_id" binding:"required"`
		Department *string `json:"department,omitempty"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	assigneeID, err := primitive.ObjectIDFromHex(input.AssigneeID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assignee_id"})
		return
	}

	if err := lc.issues.Assign(c.Request.Context(), issueID, actorID, assigneeID, input.Department); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Issue assigned", "status": models.InProgress})
}

// History handles GET /api/issues/:id/history.
func (lc *LifecycleController) History(c *gin.Context) {
	issueID, ok := issueIDParam(c)
	if !ok {
		return
	}

	// Existence check keeps a bogus id a 404 instead of an empty trail.
	if _, err := lc.issues.Get(c.Request.Context(), issueID); err != nil {
		respondServiceError(c, err)
		return
	}

	entries, err := lc.history.ListByIssue(c.Request.Context(), issueID)
	if err != nil {
		lc.logger.Errorw("history query failed", "issue_id", issueID.Hex(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": entries})
}
