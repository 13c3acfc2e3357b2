package services

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"civiclens-be/models"
)

// CommentStore is the persistence surface CommentService needs.
type CommentStore interface {
	Insert(ctx context.Context, comment *models.Comment) error
	ListByIssue(ctx context.Context, issueID primitive.ObjectID) ([]models.Comment, error)
}

// CommentService handles issue discussion threads.
type CommentService struct {
	comments CommentStore
	issues   IssueLookup
	profiles ProfileStore
	logger   *zap.SugaredLogger
}

// NewCommentService builds the service with its dependencies.
func NewCommentService(comments CommentStore, issues IssueLookup, profiles ProfileStore, logger *zap.SugaredLogger) *CommentService {
	return &CommentService{comments: comments, issues: issues, profiles: profiles, logger: logger}
}

// Add appends a comment to an issue. Comments from staff are marked official.
func (s *CommentService) Add(ctx context.Context, issueID, commenterID primitive.ObjectID, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &ValidationError{Field: "comment", Reason: "must not be empty"}
	}

	if _, err := s.issues.FindByID(ctx, issueID); err != nil {
		return nil, mapStoreErr("find issue", err)
	}

	commenter, err := s.profiles.FindByID(ctx, commenterID)
	if err != nil {
		return nil, mapStoreErr("find commenter", err)
	}

	comment := &models.Comment{
		ID:          primitive.NewObjectID(),
		IssueID:     issueID,
		CommenterID: commenterID,
		Comment:     text,
		IsOfficial:  commenter.Role.Staff(),
		CreatedAt:   time.Now(),
	}

	if err := s.comments.Insert(ctx, comment); err != nil {
		return nil, &PersistenceError{Op: "insert comment", Err: err}
	}

	s.logger.Infow("comment added", "issue_id", issueID.Hex(), "official", comment.IsOfficial)
	return comment, nil
}

// ListByIssue returns an issue's comments, oldest first.
func (s *CommentService) ListByIssue(ctx context.Context, issueID primitive.ObjectID) ([]models.Comment, error) {
	if _, err := s.issues.FindByID(ctx, issueID); err != nil {
		return nil, mapStoreErr("find issue", err)
	}

	comments, err := s.comments.ListByIssue(ctx, issueID)
	if err != nil {
		return nil, &PersistenceError{Op: "list comments", Err: err}
	}
	return comments, nil
}
