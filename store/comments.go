package store

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"civiclens-be/models"
)

// Comments persists issue discussion entries.
type Comments struct {
	c *mongo.Collection
}

// NewComments builds the comment store over the given database.
func NewComments(db *mongo.Database) *Comments {
	return &Comments{c: db.Collection("comments")}
}

// Insert stores a new comment.
func (s *Comments) Insert(ctx context.Context, comment *models.Comment) error {
	_, err := s.c.InsertOne(ctx, comment)
	return errors.WithStack(err)
}

// ListByIssue returns an issue's comments, oldest first.
func (s *Comments) ListByIssue(ctx context.Context, issueID primitive.ObjectID) ([]models.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := s.c.Find(ctx, bson.M{"issue_id": issueID}, opts)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer cursor.Close(ctx)

	comments := []models.Comment{}
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, errors.WithStack(err)
	}
	return comments, nil
}
