package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"civiclens-be/models"
)

// IssueStatsStore is the aggregation surface StatsService needs.
type IssueStatsStore interface {
	Count(ctx context.Context, f models.IssueFilter) (int64, error)
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
	CountByCategory(ctx context.Context) ([]models.CategoryCount, error)
	TopVoted(ctx context.Context, limit int64) ([]models.Issue, error)
}

// VoteCounter counts ballots across all issues.
type VoteCounter interface {
	CountAll(ctx context.Context) (int64, error)
}

// StatsService assembles the dashboard aggregates.
type StatsService struct {
	issues IssueStatsStore
	votes  VoteCounter
	logger *zap.SugaredLogger
}

// NewStatsService builds the service with its dependencies.
func NewStatsService(issues IssueStatsStore, votes VoteCounter, logger *zap.SugaredLogger) *StatsService {
	return &StatsService{issues: issues, votes: votes, logger: logger}
}

// Dashboard computes the dashboard payload: totals, open/resolved counts,
// category distribution, a last-7-days series and the top voted issues.
func (s *StatsService) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	total, err := s.issues.Count(ctx, models.IssueFilter{})
	if err != nil {
		return nil, &PersistenceError{Op: "count issues", Err: err}
	}

	// Open = anything a citizen is still waiting on.
	var open int64
	for _, st := range []models.IssueStatus{models.Pending, models.InProgress, models.Escalated} {
		status := st
		n, err := s.issues.Count(ctx, models.IssueFilter{Status: &status})
		if err != nil {
			return nil, &PersistenceError{Op: "count open issues", Err: err}
		}
		open += n
	}

	resolved := models.Resolved
	resolvedCount, err := s.issues.Count(ctx, models.IssueFilter{Status: &resolved})
	if err != nil {
		return nil, &PersistenceError{Op: "count resolved issues", Err: err}
	}

	totalVotes, err := s.votes.CountAll(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "count votes", Err: err}
	}

	byCategory, err := s.issues.CountByCategory(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "count by category", Err: err}
	}

	last7Days := make([]models.DayCount, 0, 7)
	for i := 6; i >= 0; i-- {
		day := time.Now().AddDate(0, 0, -i)
		day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())

		n, err := s.issues.CountCreatedBetween(ctx, day, day.AddDate(0, 0, 1))
		if err != nil {
			return nil, &PersistenceError{Op: "count daily issues", Err: err}
		}
		last7Days = append(last7Days, models.DayCount{Date: day.Format("2006-01-02"), Count: n})
	}

	topVoted, err := s.issues.TopVoted(ctx, 5)
	if err != nil {
		return nil, &PersistenceError{Op: "top voted issues", Err: err}
	}

	return &models.DashboardStats{
		TotalIssues:      total,
		OpenIssues:       open,
		ResolvedIssues:   resolvedCount,
		TotalVotes:       totalVotes,
		IssuesByCategory: byCategory,
		Last7Days:        last7Days,
		TopVotedIssues:   topVoted,
	}, nil
}
