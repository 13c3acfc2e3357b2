package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"civiclens-be/models"
)

type issueFixture struct {
	svc      *IssueService
	issues   *fakeIssueStore
	history  *fakeHistoryStore
	profiles *fakeProfileStore
	staff    primitive.ObjectID
	citizen  primitive.ObjectID
}

func newIssueFixture(t *testing.T) *issueFixture {
	t.Helper()
	issues := newFakeIssueStore()
	history := &fakeHistoryStore{}
	profiles := newFakeProfileStore()
	return &issueFixture{
		svc:      NewIssueService(issues, history, profiles, zap.NewNop().Sugar()),
		issues:   issues,
		history:  history,
		profiles: profiles,
		staff:    profiles.addUser(models.Employee),
		citizen:  profiles.addUser(models.Citizen),
	}
}

func validInput(reporter primitive.ObjectID) NewIssueInput {
	return NewIssueInput{
		ReporterID:  reporter,
		Title:       "Broken streetlight on Elm St",
		Description: "Light has been out for two weeks",
		Category:    models.Infrastructure,
		Priority:    models.Medium,
	}
}

func TestIssueServiceCreate(t *testing.T) {
	fx := newIssueFixture(t)
	ctx := context.Background()

	issue, err := fx.svc.Create(ctx, validInput(fx.citizen))
	require.NoError(t, err)

	assert.False(t, issue.ID.IsZero())
	assert.Equal(t, models.Pending, issue.Status)
	assert.Equal(t, 0, issue.VotesCount)
	assert.Nil(t, issue.ResolvedAt)
	assert.Equal(t, fx.citizen, issue.ReporterID)
	assert.WithinDuration(t, time.Now(), issue.CreatedAt, time.Second)

	stored, err := fx.issues.FindByID(ctx, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, issue.Title, stored.Title)
}

func TestIssueServiceCreateValidation(t *testing.T) {
	fx := newIssueFixture(t)

	tests := []struct {
		name   string
		mutate func(*NewIssueInput)
		field  string
	}{
		{"short title", func(in *NewIssueInput) { in.Title = "Pot" }, "title"},
		{"blank title", func(in *NewIssueInput) { in.Title = "        " }, "title"},
		{"short description", func(in *NewIssueInput) { in.Description = "too short" }, "description"},
		{"unknown category", func(in *NewIssueInput) { in.Category = "roads" }, "category"},
		{"unknown priority", func(in *NewIssueInput) { in.Priority = "urgent" }, "priority"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput(fx.citizen)
			tt.mutate(&input)

			_, err := fx.svc.Create(context.Background(), input)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestIssueServiceSetStatusResolved(t *testing.T) {
	fx := newIssueFixture(t)
	ctx := context.Background()

	issue, err := fx.svc.Create(ctx, validInput(fx.citizen))
	require.NoError(t, err)

	notes := "fixed by crew 7"
	require.NoError(t, fx.svc.SetStatus(ctx, issue.ID, fx.staff, models.Resolved, &notes))

	stored, err := fx.issues.FindByID(ctx, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Resolved, stored.Status)
	require.NotNil(t, stored.ResolvedAt)

	require.Len(t, fx.history.entries, 1)
	entry := fx.history.entries[0]
	require.NotNil(t, entry.OldStatus)
	assert.Equal(t, models.Pending, *entry.OldStatus)
	assert.Equal(t, models.Resolved, entry.NewStatus)
	assert.Equal(t, fx.staff, entry.ChangedBy)
	require.NotNil(t, entry.Notes)
	assert.Equal(t, notes, *entry.Notes)
}

func TestIssueServiceSetStatusKeepsResolvedAt(t *testing.T) {
	fx := newIssueFixture(t)
	ctx := context.Background()

	issue, err := fx.svc.Create(ctx, validInput(fx.citizen))
	require.NoError(t, err)

	require.NoError(t, fx.svc.SetStatus(ctx, issue.ID, fx.staff, models.Resolved, nil))
	resolved, err := fx.issues.FindByID(ctx, issue.ID)
	require.NoError(t, err)
	require.NotNil(t, resolved.ResolvedAt)
	firstResolvedAt := *resolved.ResolvedAt

	// Re-opening via explicit set is allowed and must not clear resolved_at.
	require.NoError(t, fx.svc.SetStatus(ctx, issue.ID, fx.staff, models.InProgress, nil))

	reopened, err := fx.issues.FindByID(ctx, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InProgress, reopened.Status)
	require.NotNil(t, reopened.ResolvedAt)
	assert.Equal(t, firstResolvedAt, *reopened.ResolvedAt)
}

func TestIssueServiceSetStatusUnknownStatus(t *testing.T) {
	fx := newIssueFixture(t)
	ctx := context.Background()

	issue, err := fx.svc.Create(ctx, validInput(fx.citizen))
	require.NoError(t, err)

	var verr *ValidationError
	err = fx.svc.SetStatus(ctx, issue.ID, fx.staff, "done", nil)
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, fx.history.entries)
}

func TestIssueServiceSetStatusNotFound(t *testing.T) {
	fx := newIssueFixture(t)

	err := fx.svc.SetStatus(context.Background(), primitive.NewObjectID(), fx.staff, models.Escalated, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIssueServiceSetStatusRequiresStaff(t *testing.T) {
	fx := newIssueFixture(t)
	ctx := context.Background()

	issue, err := fx.svc.Create(ctx, validInput(fx.citizen))
	require.NoError(t, err)

	var aerr *AuthorizationError
	err = fx.svc.SetStatus(ctx, issue.ID, fx.citizen, models.Resolved, nil)
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, models.Citizen, aerr.Role)

	stored, err := fx.issues.FindByID(ctx, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Pending, stored.Status)
	assert.Empty(t, fx.history.entries)
}

func TestIssueServiceSetStatusPartialFailure(t *testing.T) {
	fx := newIssueFixture(t)
	ctx := context.Background()

	issue, err := fx.svc.Create(ctx, validInput(fx.citizen))
	require.NoError(t, err)

	fx.history.appendErr = errors.New("history collection unavailable")

	var perr *PartialFailureError
	err = fx.svc.SetStatus(ctx, issue.ID, fx.staff, models.Rejected, nil)
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "status update", perr.Completed)

	// The status write landed even though the audit append did not.
	stored, err := fx.issues.FindByID(ctx, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Rejected, stored.Status)
}

func TestIssueServiceAssign(t *testing.T) {
	fx := newIssueFixture(t)
	ctx := context.Background()

	issue, err := fx.svc.Create(ctx, validInput(fx.citizen))
	require.NoError(t, err)

	dept := "Public Works"
	require.NoError(t, fx.svc.Assign(ctx, issue.ID, fx.staff, fx.staff, &dept))

	stored, err := fx.issues.FindByID(ctx, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InProgress, stored.Status)
	require.NotNil(t, stored.AssignedTo)
	assert.Equal(t, fx.staff, *stored.AssignedTo)
	require.NotNil(t, stored.Department)
	assert.Equal(t, dept, *stored.Department)

	require.Len(t, fx.history.entries, 1)
	entry := fx.history.entries[0]
	require.NotNil(t, entry.OldStatus)
	assert.Equal(t, models.Pending, *entry.OldStatus)
	assert.Equal(t, models.InProgress, entry.NewStatus)
	require.NotNil(t, entry.Notes)
	assert.Equal(t, "Assigned to Public Works", *entry.Notes)
}

func TestIssueServiceAssignDefaultNotes(t *testing.T) {
	fx := newIssueFixture(t)
	ctx := context.Background()

	issue, err := fx.svc.Create(ctx, validInput(fx.citizen))
	require.NoError(t, err)

	require.NoError(t, fx.svc.Assign(ctx, issue.ID, fx.staff, fx.staff, nil))

	require.Len(t, fx.history.entries, 1)
	require.NotNil(t, fx.history.entries[0].Notes)
	assert.Equal(t, "Assigned to department", *fx.history.entries[0].Notes)
}

func TestIssueServiceAssignRefusesClosedIssues(t *testing.T) {
	for _, status := range []models.IssueStatus{models.Resolved, models.Rejected} {
		t.Run(string(status), func(t *testing.T) {
			fx := newIssueFixture(t)
			ctx := context.Background()

			issue, err := fx.svc.Create(ctx, validInput(fx.citizen))
			require.NoError(t, err)
			require.NoError(t, fx.svc.SetStatus(ctx, issue.ID, fx.staff, status, nil))
			before, err := fx.issues.FindByID(ctx, issue.ID)
			require.NoError(t, err)

			var terr *InvalidTransitionError
			err = fx.svc.Assign(ctx, issue.ID, fx.staff, fx.staff, nil)
			require.ErrorAs(t, err, &terr)
			assert.Equal(t, status, terr.From)

			after, err := fx.issues.FindByID(ctx, issue.ID)
			require.NoError(t, err)
			assert.Equal(t, before.Status, after.Status)
			assert.Nil(t, after.AssignedTo)
			// Only the SetStatus above is on the trail.
			assert.Len(t, fx.history.entries, 1)
		})
	}
}

func TestIssueServiceAttachImages(t *testing.T) {
	fx := newIssueFixture(t)
	ctx := context.Background()

	issue, err := fx.svc.Create(ctx, validInput(fx.citizen))
	require.NoError(t, err)

	urls := []string{"https://cdn/a.jpg", "https://cdn/b.jpg", "https://cdn/c.jpg"}
	require.NoError(t, fx.svc.AttachImages(ctx, issue.ID, urls))

	stored, err := fx.issues.FindByID(ctx, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, urls, stored.ImageURLs)

	var verr *ValidationError
	err = fx.svc.AttachImages(ctx, issue.ID, append(urls, "https://cdn/d.jpg"))
	require.ErrorAs(t, err, &verr)

	err = fx.svc.AttachImages(ctx, primitive.NewObjectID(), urls[:1])
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIssueServiceList(t *testing.T) {
	fx := newIssueFixture(t)
	ctx := context.Background()

	// Three resolved, one pending, spread over time.
	var resolvedIDs []primitive.ObjectID
	for i := 0; i < 3; i++ {
		issue, err := fx.svc.Create(ctx, validInput(fx.citizen))
		require.NoError(t, err)
		fx.issues.issues[issue.ID].CreatedAt = time.Now().Add(time.Duration(-i) * time.Hour)
		fx.issues.issues[issue.ID].Status = models.Resolved
		resolvedIDs = append(resolvedIDs, issue.ID)
	}
	_, err := fx.svc.Create(ctx, validInput(fx.citizen))
	require.NoError(t, err)

	resolved := models.Resolved
	got, err := fx.svc.List(ctx, models.IssueFilter{Status: &resolved, Limit: 2})
	require.NoError(t, err)

	require.Len(t, got, 2)
	for _, issue := range got {
		assert.Equal(t, models.Resolved, issue.Status)
	}
	// Newest first.
	assert.Equal(t, resolvedIDs[0], got[0].ID)
	assert.Equal(t, resolvedIDs[1], got[1].ID)
	assert.True(t, got[0].CreatedAt.After(got[1].CreatedAt))
}

func TestIssueServiceListNoMatch(t *testing.T) {
	fx := newIssueFixture(t)

	escalated := models.Escalated
	got, err := fx.svc.List(context.Background(), models.IssueFilter{Status: &escalated})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestIssueServiceListValidation(t *testing.T) {
	fx := newIssueFixture(t)

	bad := models.IssueStatus("closed")
	_, err := fx.svc.List(context.Background(), models.IssueFilter{Status: &bad})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = fx.svc.List(context.Background(), models.IssueFilter{Limit: -1})
	require.ErrorAs(t, err, &verr)
}

func TestIssueServiceUpdateVotesCount(t *testing.T) {
	fx := newIssueFixture(t)
	ctx := context.Background()

	issue, err := fx.svc.Create(ctx, validInput(fx.citizen))
	require.NoError(t, err)

	require.NoError(t, fx.svc.UpdateVotesCount(ctx, issue.ID, -4))
	stored, err := fx.issues.FindByID(ctx, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, -4, stored.VotesCount)

	err = fx.svc.UpdateVotesCount(ctx, primitive.NewObjectID(), 1)
	assert.ErrorIs(t, err, ErrNotFound)
}
