package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"civiclens-be/models"
)

// VoteStore is the persistence surface VoteService needs.
type VoteStore interface {
	Upsert(ctx context.Context, issueID, voterID primitive.ObjectID, voteType models.VoteType) error
	CountByType(ctx context.Context, issueID primitive.ObjectID, voteType models.VoteType) (int64, error)
}

// IssueLookup resolves an issue id to a record.
type IssueLookup interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Issue, error)
}

// VoteService enforces one ballot per (issue, voter) and computes the net
// vote score. It holds no per-issue cache: the net is recomputed from the
// full ballot set on every cast, so the cached votes_count on the issue row
// can never drift from the ballots. The caller persists the returned net via
// IssueService.UpdateVotesCount.
type VoteService struct {
	votes  VoteStore
	issues IssueLookup
	logger *zap.SugaredLogger
}

// NewVoteService builds the service with its dependencies.
func NewVoteService(votes VoteStore, issues IssueLookup, logger *zap.SugaredLogger) *VoteService {
	return &VoteService{votes: votes, issues: issues, logger: logger}
}

// CastVote records voterID's ballot on issueID and returns the recomputed net
// score (upvotes - downvotes). A repeat cast replaces the prior ballot's type
// rather than adding a row, so casting the same type twice is idempotent.
func (s *VoteService) CastVote(ctx context.Context, issueID, voterID primitive.ObjectID, voteType models.VoteType) (int, error) {
	if !models.ValidVoteType(voteType) {
		return 0, &ValidationError{Field: "vote_type", Reason: "must be upvote or downvote"}
	}

	if _, err := s.issues.FindByID(ctx, issueID); err != nil {
		return 0, mapStoreErr("find issue", err)
	}

	if err := s.votes.Upsert(ctx, issueID, voterID, voteType); err != nil {
		return 0, &PersistenceError{Op: "upsert vote", Err: err}
	}

	upvotes, err := s.votes.CountByType(ctx, issueID, models.Upvote)
	if err != nil {
		return 0, &PersistenceError{Op: "count upvotes", Err: err}
	}
	downvotes, err := s.votes.CountByType(ctx, issueID, models.Downvote)
	if err != nil {
		return 0, &PersistenceError{Op: "count downvotes", Err: err}
	}

	net := int(upvotes - downvotes)
	s.logger.Infow("vote cast",
		"issue_id", issueID.Hex(), "voter_id", voterID.Hex(), "vote_type", voteType, "net", net)
	return net, nil
}
