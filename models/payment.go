package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentKind enum
type PaymentKind string

const (
	PaymentBoost        PaymentKind = "boost"
	PaymentSubscription PaymentKind = "subscription"
)

// PaymentRecord is an immutable log entry for a confirmed payment.
// Amounts are stored in minor units (cents).
type PaymentRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email     string             `bson:"email" json:"email"`
	Amount    int64              `bson:"amount" json:"amount"`
	Kind      PaymentKind        `bson:"type" json:"type"`
	IssueID   string             `bson:"issueId,omitempty" json:"issueId,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
