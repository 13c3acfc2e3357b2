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

// Issues persists civic issues in the "issues" collection.
type Issues struct {
	c *mongo.Collection
}

// NewIssues builds the issue store over the given database.
func NewIssues(db *mongo.Database) *Issues {
	return &Issues{c: db.Collection("issues")}
}

// Insert stores a new issue. The caller fills every field including ID.
func (s *Issues) Insert(ctx context.Context, issue *models.Issue) error {
	_, err := s.c.InsertOne(ctx, issue)
	return errors.WithStack(err)
}

// FindByID returns the issue or ErrNotFound.
func (s *Issues) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Issue, error) {
	var issue models.Issue
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&issue)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &issue, nil
}

// Find returns issues matching the filter, newest-first. A zero Limit means
// unbounded. No match yields an empty slice, not an error.
func (s *Issues) Find(ctx context.Context, f models.IssueFilter) ([]models.Issue, error) {
	query := bson.M{}
	if f.Status != nil {
		query["status"] = *f.Status
	}
	if f.Category != nil {
		query["category"] = *f.Category
	}
	if f.Priority != nil {
		query["priority"] = *f.Priority
	}
	if f.ReporterID != nil {
		query["reporter_id"] = *f.ReporterID
	}
	if f.AssignedTo != nil {
		query["assigned_to"] = *f.AssignedTo
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if f.Limit > 0 {
		opts.SetLimit(f.Limit)
	}

	cursor, err := s.c.Find(ctx, query, opts)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer cursor.Close(ctx)

	issues := []models.Issue{}
	if err := cursor.All(ctx, &issues); err != nil {
		return nil, errors.WithStack(err)
	}
	return issues, nil
}

// SetImages overwrites the image URL list.
func (s *Issues) SetImages(ctx context.Context, id primitive.ObjectID, urls []string) error {
	return s.update(ctx, id, bson.M{"image_urls": urls})
}

// SetStatus writes the new status. resolvedAt is set only when non-nil;
// a prior resolved_at is left untouched otherwise.
func (s *Issues) SetStatus(ctx context.Context, id primitive.ObjectID, status models.IssueStatus, resolvedAt *time.Time) error {
	set := bson.M{"status": status}
	if resolvedAt != nil {
		set["resolved_at"] = *resolvedAt
	}
	return s.update(ctx, id, set)
}

// SetAssignment writes assignee, department and the forced status in one update.
func (s *Issues) SetAssignment(ctx context.Context, id, assignee primitive.ObjectID, department *string, status models.IssueStatus) error {
	set := bson.M{"assigned_to": assignee, "status": status}
	if department != nil {
		set["department"] = *department
	}
	return s.update(ctx, id, set)
}

// SetVotesCount overwrites the cached net vote count.
func (s *Issues) SetVotesCount(ctx context.Context, id primitive.ObjectID, net int) error {
	return s.update(ctx, id, bson.M{"votes_count": net})
}

func (s *Issues) update(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	set["updated_at"] = time.Now()
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return errors.WithStack(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of issues matching the filter.
func (s *Issues) Count(ctx context.Context, f models.IssueFilter) (int64, error) {
	query := bson.M{}
	if f.Status != nil {
		query["status"] = *f.Status
	}
	if f.Category != nil {
		query["category"] = *f.Category
	}
	n, err := s.c.CountDocuments(ctx, query)
	return n, errors.WithStack(err)
}

// CountCreatedBetween counts issues created in [from, to).
func (s *Issues) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{
		"created_at": bson.M{"$gte": from, "$lt": to},
	})
	return n, errors.WithStack(err)
}

// CountByCategory groups issues by category.
func (s *Issues) CountByCategory(ctx context.Context) ([]models.CategoryCount, error) {
	pipeline := []bson.M{
		{"$group": bson.M{"_id": "$category", "count": bson.M{"$sum": 1}}},
		{"$sort": bson.M{"count": -1}},
	}

	cursor, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer cursor.Close(ctx)

	var counts []models.CategoryCount
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, errors.WithStack(err)
	}
	return counts, nil
}

// TopVoted returns the highest-scoring issues by cached net vote count.
func (s *Issues) TopVoted(ctx context.Context, limit int64) ([]models.Issue, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "votes_count", Value: -1}}).
		SetLimit(limit)

	cursor, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer cursor.Close(ctx)

	issues := []models.Issue{}
	if err := cursor.All(ctx, &issues); err != nil {
		return nil, errors.WithStack(err)
	}
	return issues, nil
}

// FindGeolocated returns the newest issues that carry coordinates, for the map view.
func (s *Issues) FindGeolocated(ctx context.Context, limit int64) ([]models.Issue, error) {
	query := bson.M{
		"latitude":  bson.M{"$exists": true, "$ne": nil},
		"longitude": bson.M{"$exists": true, "$ne": nil},
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := s.c.Find(ctx, query, opts)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer cursor.Close(ctx)

	issues := []models.Issue{}
	if err := cursor.All(ctx, &issues); err != nil {
		return nil, errors.WithStack(err)
	}
	return issues, nil
}
