package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment is a discussion entry on an issue. IsOfficial marks comments left
// by staff so the frontend can badge them.
type Comment struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	IssueID     primitive.ObjectID `bson:"issue_id" json:"issue_id"`
	CommenterID primitive.ObjectID `bson:"commenter_id" json:"commenter_id"`
	Comment     string             `bson:"comment" json:"comment"`
	IsOfficial  bool               `bson:"is_official" json:"is_official"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}
