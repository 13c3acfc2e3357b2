package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"civiclens-be/models"
)

// Votes persists ballots in the "votes" collection. The collection carries a
// unique (issue_id, voter_id) index (models.EnsureVoteIndex) so Upsert is
// atomic under concurrent casts.
type Votes struct {
	c *mongo.Collection
}

// NewVotes builds the vote store and ensures the compound index exists.
func NewVotes(db *mongo.Database) (*Votes, error) {
	c := db.Collection("votes")
	if err := models.EnsureVoteIndex(c); err != nil {
		return nil, errors.WithStack(err)
	}
	return &Votes{c: c}, nil
}

// Upsert records a ballot: a first vote inserts, a repeat vote replaces the
// vote_type in place. Never produces a second row for the same pair.
func (s *Votes) Upsert(ctx context.Context, issueID, voterID primitive.ObjectID, voteType models.VoteType) error {
	filter := bson.M{"issue_id": issueID, "voter_id": voterID}
	update := bson.M{
		"$set":         bson.M{"vote_type": voteType},
		"$setOnInsert": bson.M{"created_at": time.Now()},
	}

	_, err := s.c.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return errors.WithStack(err)
}

// FindByIssueAndVoter returns the caller's ballot on an issue, or ErrNotFound.
func (s *Votes) FindByIssueAndVoter(ctx context.Context, issueID, voterID primitive.ObjectID) (*models.Vote, error) {
	var vote models.Vote
	err := s.c.FindOne(ctx, bson.M{"issue_id": issueID, "voter_id": voterID}).Decode(&vote)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &vote, nil
}

// CountByType counts ballots of one type on an issue.
func (s *Votes) CountByType(ctx context.Context, issueID primitive.ObjectID, voteType models.VoteType) (int64, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"issue_id": issueID, "vote_type": voteType})
	return n, errors.WithStack(err)
}

// CountAll returns the total ballot count across all issues.
func (s *Votes) CountAll(ctx context.Context) (int64, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{})
	return n, errors.WithStack(err)
}
