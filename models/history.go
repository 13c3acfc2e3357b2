package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StatusHistoryEntry is one row of the append-only audit trail. An entry is
// written for every status transition and every assignment; entries are never
// updated or deleted.
type StatusHistoryEntry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	IssueID   primitive.ObjectID `bson:"issue_id" json:"issue_id"`
	ChangedBy primitive.ObjectID `bson:"changed_by" json:"changed_by"`
	OldStatus *IssueStatus       `bson:"old_status,omitempty" json:"old_status,omitempty"`
	NewStatus IssueStatus        `bson:"new_status" json:"new_status"`
	Notes     *string            `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
