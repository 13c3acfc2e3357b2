package models

// CategoryCount is one bucket of the issues-by-category aggregation.
type CategoryCount struct {
	Category IssueCategory `bson:"_id" json:"name"`
	Count    int64         `bson:"count" json:"value"`
}

// DayCount is one day of the submissions-per-day series.
type DayCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// DashboardStats is the aggregate payload behind the dashboard endpoint.
type DashboardStats struct {
	TotalIssues      int64           `json:"totalIssues"`
	OpenIssues       int64           `json:"openIssues"`
	ResolvedIssues   int64           `json:"resolvedIssues"`
	TotalVotes       int64           `json:"totalVotes"`
	IssuesByCategory []CategoryCount `json:"issuesByCategory"`
	Last7Days        []DayCount      `json:"last7Days"`
	TopVotedIssues   []Issue         `json:"topVotedIssues"`
}
