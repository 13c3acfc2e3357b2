// Package services contains the business logic between the HTTP handlers and
// the Mongo stores: issue lifecycle, vote aggregation, comments and stats.
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"civiclens-be/models"
)

// IssueStore is the persistence surface IssueService needs.
type IssueStore interface {
	Insert(ctx context.Context, issue *models.Issue) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Issue, error)
	Find(ctx context.Context, f models.IssueFilter) ([]models.Issue, error)
	SetImages(ctx context.Context, id primitive.ObjectID, urls []string) error
	SetStatus(ctx context.Context, id primitive.ObjectID, status models.IssueStatus, resolvedAt *time.Time) error
	SetAssignment(ctx context.Context, id, assignee primitive.ObjectID, department *string, status models.IssueStatus) error
	SetVotesCount(ctx context.Context, id primitive.ObjectID, net int) error
}

// HistoryStore appends to the status audit trail.
type HistoryStore interface {
	Append(ctx context.Context, entry *models.StatusHistoryEntry) error
}

// ProfileStore resolves an actor to a profile for capability checks.
type ProfileStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// NewIssueInput carries the citizen-submitted report form.
type NewIssueInput struct {
	ReporterID  primitive.ObjectID
	Title       string
	Description string
	Category    models.IssueCategory
	Priority    models.IssuePriority
	Latitude    *float64
	Longitude   *float64
	Address     *string
}

// IssueService owns issue CRUD, the status lifecycle and the denormalized
// vote-count cache.
type IssueService struct {
	issues   IssueStore
	history  HistoryStore
	profiles ProfileStore
	logger   *zap.SugaredLogger
}

// NewIssueService builds the service with its dependencies.
func NewIssueService(issues IssueStore, history HistoryStore, profiles ProfileStore, logger *zap.SugaredLogger) *IssueService {
	return &IssueService{issues: issues, history: history, profiles: profiles, logger: logger}
}

// Create validates the report form and stores a new issue. New issues always
// start pending with a zero vote count and no resolution timestamp.
func (s *IssueService) Create(ctx context.Context, input NewIssueInput) (*models.Issue, error) {
	if len(strings.TrimSpace(input.Title)) < 5 {
		return nil, &ValidationError{Field: "title", Reason: "must be at least 5 characters"}
	}
	if len(strings.TrimSpace(input.Description)) < 10 {
		return nil, &ValidationError{Field: "description", Reason: "must be at least 10 characters"}
	}
	if !models.ValidCategory(input.Category) {
		return nil, &ValidationError{Field: "category", Reason: "unknown category"}
	}
	if !models.ValidPriority(input.Priority) {
		return nil, &ValidationError{Field: "priority", Reason: "unknown priority"}
	}

	now := time.Now()
	issue := &models.Issue{
		ID:          primitive.NewObjectID(),
		ReporterID:  input.ReporterID,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Category:    input.Category,
		Priority:    input.Priority,
		Status:      models.Pending,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		Address:     input.Address,
		VotesCount:  0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.issues.Insert(ctx, issue); err != nil {
		return nil, &PersistenceError{Op: "insert issue", Err: err}
	}

	s.logger.Infow("issue created", "issue_id", issue.ID.Hex(), "category", issue.Category, "priority", issue.Priority)
	return issue, nil
}

// Get returns a single issue by id.
func (s *IssueService) Get(ctx context.Context, issueID primitive.ObjectID) (*models.Issue, error) {
	issue, err := s.issues.FindByID(ctx, issueID)
	if err != nil {
		return nil, mapStoreErr("find issue", err)
	}
	return issue, nil
}

// AttachImages overwrites the issue's image URL list.
func (s *IssueService) AttachImages(ctx context.Context, issueID primitive.ObjectID, urls []string) error {
	if len(urls) > models.MaxIssueImages {
		return &ValidationError{
			Field:  "image_urls",
			Reason: fmt.Sprintf("at most %d images allowed", models.MaxIssueImages),
		}
	}
	return mapStoreErr("set images", s.issues.SetImages(ctx, issueID, urls))
}

// List returns issues matching the filter, newest-first. Each call is pure
// given its filter argument; there is no session-wide filter state.
func (s *IssueService) List(ctx context.Context, f models.IssueFilter) ([]models.Issue, error) {
	if f.Status != nil && !models.ValidStatus(*f.Status) {
		return nil, &ValidationError{Field: "status", Reason: "unknown status"}
	}
	if f.Category != nil && !models.ValidCategory(*f.Category) {
		return nil, &ValidationError{Field: "category", Reason: "unknown category"}
	}
	if f.Priority != nil && !models.ValidPriority(*f.Priority) {
		return nil, &ValidationError{Field: "priority", Reason: "unknown priority"}
	}
	if f.Limit < 0 {
		return nil, &ValidationError{Field: "limit", Reason: "must not be negative"}
	}

	issues, err := s.issues.Find(ctx, f)
	if err != nil {
		return nil, &PersistenceError{Op: "find issues", Err: err}
	}
	return issues, nil
}

// SetStatus moves an issue to newStatus and appends an audit entry.
//
// Any enum member is a legal target, including moving out of resolved or
// rejected: re-opening a closed issue through an explicit status set is
// intended behavior, while Assign refuses closed issues. resolved_at is
// stamped only when the new status is resolved; other transitions leave a
// prior resolved_at untouched.
//
// The status write and the history append are one logical transaction with no
// rollback: when the append fails after the status write, the caller gets a
// PartialFailureError to reconcile.
func (s *IssueService) SetStatus(ctx context.Context, issueID, actorID primitive.ObjectID, newStatus models.IssueStatus, notes *string) error {
	if !models.ValidStatus(newStatus) {
		return &ValidationError{Field: "status", Reason: "unknown status"}
	}

	issue, err := s.issues.FindByID(ctx, issueID)
	if err != nil {
		return mapStoreErr("find issue", err)
	}

	if err := s.requireStaff(ctx, actorID, "set status"); err != nil {
		return err
	}

	var resolvedAt *time.Time
	if newStatus == models.Resolved {
		now := time.Now()
		resolvedAt = &now
	}

	if err := s.issues.SetStatus(ctx, issueID, newStatus, resolvedAt); err != nil {
		return mapStoreErr("set status", err)
	}

	oldStatus := issue.Status
	entry := &models.StatusHistoryEntry{
		ID:        primitive.NewObjectID(),
		IssueID:   issueID,
		ChangedBy: actorID,
		OldStatus: &oldStatus,
		NewStatus: newStatus,
		Notes:     notes,
		CreatedAt: time.Now(),
	}
	if err := s.history.Append(ctx, entry); err != nil {
		s.logger.Errorw("status updated but history append failed",
			"issue_id", issueID.Hex(), "new_status", newStatus, "error", err)
		return &PartialFailureError{Completed: "status update", Failed: "history append", Err: err}
	}

	s.logger.Infow("issue status changed",
		"issue_id", issueID.Hex(), "old_status", oldStatus, "new_status", newStatus, "actor_id", actorID.Hex())
	return nil
}

// Assign routes an issue to a staff member and department and forces it to
// in_progress. Resolved and rejected issues cannot be assigned; re-opening
// them requires an explicit SetStatus first.
func (s *IssueService) Assign(ctx context.Context, issueID, actorID, assigneeID primitive.ObjectID, department *string) error {
	issue, err := s.issues.FindByID(ctx, issueID)
	if err != nil {
		return mapStoreErr("find issue", err)
	}

	if err := s.requireStaff(ctx, actorID, "assign"); err != nil {
		return err
	}

	if models.Terminal(issue.Status) {
		return &InvalidTransitionError{From: issue.Status, Op: "assign"}
	}

	if err := s.issues.SetAssignment(ctx, issueID, assigneeID, department, models.InProgress); err != nil {
		return mapStoreErr("set assignment", err)
	}

	dept := "department"
	if department != nil && *department != "" {
		dept = *department
	}
	notes := "Assigned to " + dept

	oldStatus := issue.Status
	entry := &models.StatusHistoryEntry{
		ID:        primitive.NewObjectID(),
		IssueID:   issueID,
		ChangedBy: actorID,
		OldStatus: &oldStatus,
		NewStatus: models.InProgress,
		Notes:     &notes,
		CreatedAt: time.Now(),
	}
	if err := s.history.Append(ctx, entry); err != nil {
		s.logger.Errorw("assignment written but history append failed",
			"issue_id", issueID.Hex(), "error", err)
		return &PartialFailureError{Completed: "assignment", Failed: "history append", Err: err}
	}

	s.logger.Infow("issue assigned",
		"issue_id", issueID.Hex(), "assignee_id", assigneeID.Hex(), "department", dept)
	return nil
}

// UpdateVotesCount overwrites the cached net vote count. The value comes from
// VoteService.CastVote; this method never derives it.
func (s *IssueService) UpdateVotesCount(ctx context.Context, issueID primitive.ObjectID, net int) error {
	return mapStoreErr("set votes count", s.issues.SetVotesCount(ctx, issueID, net))
}

// requireStaff checks that the actor exists and holds a staff role. The role
// is read from the profile store, not trusted from the token.
func (s *IssueService) requireStaff(ctx context.Context, actorID primitive.ObjectID, op string) error {
	actor, err := s.profiles.FindByID(ctx, actorID)
	if err != nil {
		return mapStoreErr("find actor", err)
	}
	if !actor.Role.Staff() {
		return &AuthorizationError{Role: actor.Role, Op: op}
	}
	return nil
}
