package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// VoteType enum
type VoteType string

const (
	Upvote   VoteType = "upvote"
	Downvote VoteType = "downvote"
)

// ValidVoteType reports whether t is one of the two allowed ballot types.
func ValidVoteType(t VoteType) bool {
	return t == Upvote || t == Downvote
}

// Vote is a single ballot on an issue. At most one exists per
// (issue_id, voter_id) pair; casting again replaces VoteType in place.
type Vote struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	IssueID   primitive.ObjectID `bson:"issue_id" json:"issue_id"`
	VoterID   primitive.ObjectID `bson:"voter_id" json:"voter_id"`
	VoteType  VoteType           `bson:"vote_type" json:"vote_type"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// EnsureVoteIndex creates the unique compound index for (issue_id, voter_id).
// The index makes the cast-vote upsert atomic under concurrent voters.
func EnsureVoteIndex(collection *mongo.Collection) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "issue_id", Value: 1}, {Key: "voter_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	_, err := collection.Indexes().CreateOne(ctx, indexModel)
	return err
}
