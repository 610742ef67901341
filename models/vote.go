package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VoteRecord is one citizen's upvote on one issue. The (issue, userEmail)
// pair is unique; records are never updated, only removed when their issue
// is deleted.
type VoteRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	IssueID   primitive.ObjectID `bson:"issue" json:"issue"`
	UserEmail string             `bson:"userEmail" json:"userEmail"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
