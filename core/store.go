package core

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"cityfix-be/models"
)

// The engine owns no persistence of its own; it works against these
// per-collection contracts. Implementations must back the mutators with
// per-document atomic updates (field set, conditional increment, array
// prepend) and return ErrNotFound / ErrAlreadyVoted where noted.

// IssueStore is the issues collection as seen by the engine.
type IssueStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Issue, error)
	CountByReporter(ctx context.Context, email string) (int64, error)
	Insert(ctx context.Context, issue models.Issue) (primitive.ObjectID, error)
	// SetFields applies a partial update to non-status fields.
	SetFields(ctx context.Context, id primitive.ObjectID, fields map[string]any) error
	SetStatus(ctx context.Context, id primitive.ObjectID, status models.IssueStatus) error
	SetAssignee(ctx context.Context, id primitive.ObjectID, staffEmail string) error
	SetPriority(ctx context.Context, id primitive.ObjectID, priority models.IssuePriority) error
	// IncrementUpvotes atomically adjusts the counter and returns the
	// updated value.
	IncrementUpvotes(ctx context.Context, id primitive.ObjectID, delta int) (int64, error)
	// PrependTimeline inserts entry at position 0 of the issue's timeline.
	PrependTimeline(ctx context.Context, id primitive.ObjectID, entry models.TimelineEntry) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// VoteStore is the upvote ledger. Insert must enforce uniqueness of the
// (issue, voter) pair and return ErrAlreadyVoted on a duplicate.
type VoteStore interface {
	Exists(ctx context.Context, issueID primitive.ObjectID, voterEmail string) (bool, error)
	Insert(ctx context.Context, vote models.VoteRecord) error
	DeleteByIssue(ctx context.Context, issueID primitive.ObjectID) error
}

// UserStore exposes the user fields the engine reads and the single flag
// it is allowed to raise.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (models.User, error)
	SetPremium(ctx context.Context, email string) error
}

// PaymentStore is the append-only payment log.
type PaymentStore interface {
	Insert(ctx context.Context, record models.PaymentRecord) error
}
