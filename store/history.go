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

// History persists the append-only status audit trail.
type History struct {
	c *mongo.Collection
}

// NewHistory builds the history store over the given database.
func NewHistory(db *mongo.Database) *History {
	return &History{c: db.Collection("status_history")}
}

// Append writes one audit entry. Entries are immutable once written.
func (s *History) Append(ctx context.Context, entry *models.StatusHistoryEntry) error {
	_, err := s.c.InsertOne(ctx, entry)
	return errors.WithStack(err)
}

// ListByIssue returns an issue's audit trail, oldest first.
func (s *History) ListByIssue(ctx context.Context, issueID primitive.ObjectID) ([]models.StatusHistoryEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := s.c.Find(ctx, bson.M{"issue_id": issueID}, opts)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer cursor.Close(ctx)

	entries := []models.StatusHistoryEntry{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, errors.WithStack(err)
	}
	return entries, nil
}
