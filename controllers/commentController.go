package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"civiclens-be/services"
)

// CommentController handles issue discussion threads.
type CommentController struct {
	comments *services.CommentService
	logger   *zap.SugaredLogger
}

// NewCommentController builds the controller.
func NewCommentController(comments *services.CommentService, logger *zap.SugaredLogger) *CommentController {
	return &CommentController{comments: comments, logger: logger}
}

// Add handles POST /api/issues/:id/comments.
func (cc *CommentController) Add(c *gin.Context) {
	issueID, ok := issueIDParam(c)
	if !ok {
		return
	}
	commenterID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input struct {
		Comment string `json:"comment" binding:"required,max=2000"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := cc.comments.Add(c.Request.Context(), issueID, commenterID, input.Comment)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// List handles GET /api/issues/:id/comments.
func (cc *CommentController) List(c *gin.Context) {
	issueID, ok := issueIDParam(c)
	if !ok {
		return
	}

	comments, err := cc.comments.ListByIssue(c.Request.Context(), issueID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments})
}
