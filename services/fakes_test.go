package services

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"civiclens-be/models"
	"civiclens-be/store"
)

// In-memory stand-ins for the Mongo stores. They implement the same filter,
// ordering and not-found semantics so service behavior can be exercised
// without a database.

type fakeIssueStore struct {
	issues    map[primitive.ObjectID]*models.Issue
	insertErr error
	statusErr error
}

func newFakeIssueStore() *fakeIssueStore {
	return &fakeIssueStore{issues: map[primitive.ObjectID]*models.Issue{}}
}

func (f *fakeIssueStore) Insert(_ context.Context, issue *models.Issue) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	cp := *issue
	f.issues[issue.ID] = &cp
	return nil
}

func (f *fakeIssueStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Issue, error) {
	issue, ok := f.issues[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *issue
	return &cp, nil
}

func (f *fakeIssueStore) Find(_ context.Context, filter models.IssueFilter) ([]models.Issue, error) {
	matched := []models.Issue{}
	for _, issue := range f.issues {
		if filter.Status != nil && issue.Status != *filter.Status {
			continue
		}
		if filter.Category != nil && issue.Category != *filter.Category {
			continue
		}
		if filter.Priority != nil && issue.Priority != *filter.Priority {
			continue
		}
		if filter.ReporterID != nil && issue.ReporterID != *filter.ReporterID {
			continue
		}
		if filter.AssignedTo != nil && (issue.AssignedTo == nil || *issue.AssignedTo != *filter.AssignedTo) {
			continue
		}
		matched = append(matched, *issue)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	if filter.Limit > 0 && int64(len(matched)) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func (f *fakeIssueStore) SetImages(_ context.Context, id primitive.ObjectID, urls []string) error {
	issue, ok := f.issues[id]
	if !ok {
		return store.ErrNotFound
	}
	issue.ImageURLs = urls
	issue.UpdatedAt = time.Now()
	return nil
}

func (f *fakeIssueStore) SetStatus(_ context.Context, id primitive.ObjectID, status models.IssueStatus, resolvedAt *time.Time) error {
	if f.statusErr != nil {
		return f.statusErr
	}
	issue, ok := f.issues[id]
	if !ok {
		return store.ErrNotFound
	}
	issue.Status = status
	if resolvedAt != nil {
		issue.ResolvedAt = resolvedAt
	}
	issue.UpdatedAt = time.Now()
	return nil
}

func (f *fakeIssueStore) SetAssignment(_ context.Context, id, assignee primitive.ObjectID, department *string, status models.IssueStatus) error {
	issue, ok := f.issues[id]
	if !ok {
		return store.ErrNotFound
	}
	issue.AssignedTo = &assignee
	if department != nil {
		issue.Department = department
	}
	issue.Status = status
	issue.UpdatedAt = time.Now()
	return nil
}

func (f *fakeIssueStore) SetVotesCount(_ context.Context, id primitive.ObjectID, net int) error {
	issue, ok := f.issues[id]
	if !ok {
		return store.ErrNotFound
	}
	issue.VotesCount = net
	issue.UpdatedAt = time.Now()
	return nil
}

func (f *fakeIssueStore) Count(_ context.Context, filter models.IssueFilter) (int64, error) {
	var n int64
	for _, issue := range f.issues {
		if filter.Status != nil && issue.Status != *filter.Status {
			continue
		}
		if filter.Category != nil && issue.Category != *filter.Category {
			continue
		}
		n++
	}
	return n, nil
}

func (f *fakeIssueStore) CountCreatedBetween(_ context.Context, from, to time.Time) (int64, error) {
	var n int64
	for _, issue := range f.issues {
		if !issue.CreatedAt.Before(from) && issue.CreatedAt.Before(to) {
			n++
		}
	}
	return n, nil
}

func (f *fakeIssueStore) CountByCategory(_ context.Context) ([]models.CategoryCount, error) {
	byCat := map[models.IssueCategory]int64{}
	for _, issue := range f.issues {
		byCat[issue.Category]++
	}
	counts := make([]models.CategoryCount, 0, len(byCat))
	for cat, n := range byCat {
		counts = append(counts, models.CategoryCount{Category: cat, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].Count > counts[j].Count })
	return counts, nil
}

func (f *fakeIssueStore) TopVoted(_ context.Context, limit int64) ([]models.Issue, error) {
	issues := make([]models.Issue, 0, len(f.issues))
	for _, issue := range f.issues {
		issues = append(issues, *issue)
	}
	sort.Slice(issues, func(i, j int) bool { return issues[i].VotesCount > issues[j].VotesCount })
	if int64(len(issues)) > limit {
		issues = issues[:limit]
	}
	return issues, nil
}

type fakeHistoryStore struct {
	entries   []models.StatusHistoryEntry
	appendErr error
}

func (f *fakeHistoryStore) Append(_ context.Context, entry *models.StatusHistoryEntry) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.entries = append(f.entries, *entry)
	return nil
}

type fakeProfileStore struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{users: map[primitive.ObjectID]*models.User{}}
}

func (f *fakeProfileStore) addUser(role models.UserRole) primitive.ObjectID {
	id := primitive.NewObjectID()
	f.users[id] = &models.User{ID: id, Name: "user-" + id.Hex()[:6], Role: role}
	return id
}

func (f *fakeProfileStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return user, nil
}

type voteKey struct {
	issue primitive.ObjectID
	voter primitive.ObjectID
}

type fakeVoteStore struct {
	votes map[voteKey]*models.Vote
}

func newFakeVoteStore() *fakeVoteStore {
	return &fakeVoteStore{votes: map[voteKey]*models.Vote{}}
}

func (f *fakeVoteStore) Upsert(_ context.Context, issueID, voterID primitive.ObjectID, voteType models.VoteType) error {
	key := voteKey{issue: issueID, voter: voterID}
	if vote, ok := f.votes[key]; ok {
		vote.VoteType = voteType
		return nil
	}
	f.votes[key] = &models.Vote{
		ID:        primitive.NewObjectID(),
		IssueID:   issueID,
		VoterID:   voterID,
		VoteType:  voteType,
		CreatedAt: time.Now(),
	}
	return nil
}

func (f *fakeVoteStore) CountByType(_ context.Context, issueID primitive.ObjectID, voteType models.VoteType) (int64, error) {
	var n int64
	for _, vote := range f.votes {
		if vote.IssueID == issueID && vote.VoteType == voteType {
			n++
		}
	}
	return n, nil
}

func (f *fakeVoteStore) CountAll(_ context.Context) (int64, error) {
	return int64(len(f.votes)), nil
}

type fakeCommentStore struct {
	comments  []models.Comment
	insertErr error
}

func (f *fakeCommentStore) Insert(_ context.Context, comment *models.Comment) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.comments = append(f.comments, *comment)
	return nil
}

func (f *fakeCommentStore) ListByIssue(_ context.Context, issueID primitive.ObjectID) ([]models.Comment, error) {
	matched := []models.Comment{}
	for _, comment := range f.comments {
		if comment.IssueID == issueID {
			matched = append(matched, comment)
		}
	}
	return matched, nil
}
