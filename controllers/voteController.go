package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"civiclens-be/models"
	"civiclens-be/services"
	"civiclens-be/store"
)

// VoteController handles ballot casting and lookup.
type VoteController struct {
	votes  *services.VoteService
	issues *services.IssueService
	lookup *store.Votes
	logger *zap.SugaredLogger
}

// NewVoteController builds the controller.
func NewVoteController(votes *services.VoteService, issues *services.IssueService, lookup *store.Votes, logger *zap.SugaredLogger) *VoteController {
	return &VoteController{votes: votes, issues: issues, lookup: lookup, logger: logger}
}

// Cast handles POST /api/issues/:id/vote. The aggregator returns the
// recomputed net score and the handler persists it onto the issue row,
// keeping the cached count derived from the ballot set.
func (vc *VoteController) Cast(c *gin.Context) {
	issueID, ok := issueIDParam(c)
	if !ok {
		return
	}
	voterID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input struct {
		VoteType string `json:"vote_type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	net, err := vc.votes.CastVote(ctx, issueID, voterID, models.VoteType(input.VoteType))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if err := vc.issues.UpdateVotesCount(ctx, issueID, net); err != nil {
		// The ballot landed; only the cache write failed. Report it as a
		// partial failure so the client refetches instead of trusting net.
		vc.logger.Errorw("vote cached count update failed", "issue_id", issueID.Hex(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "vote recorded but count update failed",
			"partial": true,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Vote recorded",
		"vote_type":   input.VoteType,
		"votes_count": net,
	})
}

// Mine handles GET /api/issues/:id/vote: the caller's current ballot, if any.
func (vc *VoteController) Mine(c *gin.Context) {
	issueID, ok := issueIDParam(c)
	if !ok {
		return
	}
	voterID, ok := currentUserID(c)
	if !ok {
		return
	}

	vote, err := vc.lookup.FindByIssueAndVoter(c.Request.Context(), issueID, voterID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusOK, gin.H{"voted": false})
		return
	}
	if err != nil {
		vc.logger.Errorw("vote lookup failed", "issue_id", issueID.Hex(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"voted": true, "vote_type": vote.VoteType})
}
