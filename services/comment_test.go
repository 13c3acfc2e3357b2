package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"civiclens-be/models"
)

func TestCommentServiceAdd(t *testing.T) {
	issues := newFakeIssueStore()
	comments := &fakeCommentStore{}
	profiles := newFakeProfileStore()
	citizen := profiles.addUser(models.Citizen)
	employee := profiles.addUser(models.Employee)
	svc := NewCommentService(comments, issues, profiles, zap.NewNop().Sugar())

	ctx := context.Background()
	issue := &models.Issue{ID: primitive.NewObjectID(), Status: models.Pending}
	require.NoError(t, issues.Insert(ctx, issue))

	citizenComment, err := svc.Add(ctx, issue.ID, citizen, "  Any update on this?  ")
	require.NoError(t, err)
	assert.False(t, citizenComment.IsOfficial)
	assert.Equal(t, "Any update on this?", citizenComment.Comment)

	staffComment, err := svc.Add(ctx, issue.ID, employee, "Crew scheduled for Monday")
	require.NoError(t, err)
	assert.True(t, staffComment.IsOfficial)

	listed, err := svc.ListByIssue(ctx, issue.ID)
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}

func TestCommentServiceAddValidation(t *testing.T) {
	issues := newFakeIssueStore()
	profiles := newFakeProfileStore()
	citizen := profiles.addUser(models.Citizen)
	svc := NewCommentService(&fakeCommentStore{}, issues, profiles, zap.NewNop().Sugar())

	ctx := context.Background()
	issue := &models.Issue{ID: primitive.NewObjectID(), Status: models.Pending}
	require.NoError(t, issues.Insert(ctx, issue))

	var verr *ValidationError
	_, err := svc.Add(ctx, issue.ID, citizen, "   ")
	require.ErrorAs(t, err, &verr)

	_, err = svc.Add(ctx, primitive.NewObjectID(), citizen, "hello")
	assert.ErrorIs(t, err, ErrNotFound)
}
