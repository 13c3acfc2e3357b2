package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IssueCategory enum
type IssueCategory string

const (
	Infrastructure IssueCategory = "infrastructure"
	Sanitation     IssueCategory = "sanitation"
	Traffic        IssueCategory = "traffic"
	Environment    IssueCategory = "environment"
	Utilities      IssueCategory = "utilities"
	Safety         IssueCategory = "safety"
	OtherCategory  IssueCategory = "other"
)

// IssuePriority enum
type IssuePriority string

const (
	Low      IssuePriority = "low"
	Medium   IssuePriority = "medium"
	High     IssuePriority = "high"
	Critical IssuePriority = "critical"
)

// IssueStatus enum. The underscore spelling of in_progress is part of the
// wire contract; the frontend replaces it with a space for display.
type IssueStatus string

const (
	Pending    IssueStatus = "pending"
	InProgress IssueStatus = "in_progress"
	Resolved   IssueStatus = "resolved"
	Rejected   IssueStatus = "rejected"
	Escalated  IssueStatus = "escalated"
)

// MaxIssueImages caps the image_urls list on an issue.
const MaxIssueImages = 3

// Issue represents a civic issue reported by a citizen.
//
// VotesCount is a denormalized cache over the vote collection. It is always
// recomputed from the ballot set and overwritten whole, never incremented.
type Issue struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ReporterID  primitive.ObjectID  `bson:"reporter_id" json:"reporter_id"`
	Title       string              `bson:"title" json:"title"`
	Description string              `bson:"description" json:"description"`
	Category    IssueCategory       `bson:"category" json:"category"`
	Priority    IssuePriority       `bson:"priority" json:"priority"`
	Status      IssueStatus         `bson:"status" json:"status"`
	Latitude    *float64            `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude   *float64            `bson:"longitude,omitempty" json:"longitude,omitempty"`
	Address     *string             `bson:"address,omitempty" json:"address,omitempty"`
	ImageURLs   []string            `bson:"image_urls,omitempty" json:"image_urls,omitempty"`
	AssignedTo  *primitive.ObjectID `bson:"assigned_to,omitempty" json:"assigned_to,omitempty"`
	Department  *string             `bson:"department,omitempty" json:"department,omitempty"`
	VotesCount  int                 `bson:"votes_count" json:"votes_count"`
	CreatedAt   time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time           `bson:"updated_at" json:"updated_at"`
	ResolvedAt  *time.Time          `bson:"resolved_at,omitempty" json:"resolved_at,omitempty"`
}

// IssueFilter narrows a List query. Each set field is an exact-match
// predicate; predicates compose with AND. Limit 0 means unbounded.
type IssueFilter struct {
	Status     *IssueStatus
	Category   *IssueCategory
	Priority   *IssuePriority
	ReporterID *primitive.ObjectID
	AssignedTo *primitive.ObjectID
	Limit      int64
}

// ValidCategory reports whether c is a member of the category enum.
func ValidCategory(c IssueCategory) bool {
	switch c {
	case Infrastructure, Sanitation, Traffic, Environment, Utilities, Safety, OtherCategory:
		return true
	}
	return false
}

// ValidPriority reports whether p is a member of the priority enum.
func ValidPriority(p IssuePriority) bool {
	switch p {
	case Low, Medium, High, Critical:
		return true
	}
	return false
}

// ValidStatus reports whether s is a member of the status enum.
func ValidStatus(s IssueStatus) bool {
	switch s {
	case Pending, InProgress, Resolved, Rejected, Escalated:
		return true
	}
	return false
}

// Terminal reports whether s closes an issue for assignment. Terminal issues
// stay mutable through an explicit status set; only Assign refuses them.
func Terminal(s IssueStatus) bool {
	return s == Resolved || s == Rejected
}
