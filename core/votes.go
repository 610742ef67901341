package core

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"cityfix-be/models"
)

// VoteLedger enforces one upvote per (issue, voter) and keeps the issue's
// upvote counter in step with the ledger.
type VoteLedger struct {
	issues IssueStore
	votes  VoteStore
	now    func() time.Time
}

func NewVoteLedger(issues IssueStore, votes VoteStore) *VoteLedger {
	return &VoteLedger{issues: issues, votes: votes, now: time.Now}
}

// Upvote records one vote by voterEmail on issueID and increments the
// issue's counter by exactly one. The record goes in first so the counter
// can never exceed the ledger; the store's unique index arbitrates races.
// There is no downvote or retraction.
func (v *VoteLedger) Upvote(ctx context.Context, issueID primitive.ObjectID, voterEmail string) (int64, error) {
	issue, err := v.issues.FindByID(ctx, issueID)
	if err != nil {
		return 0, err
	}
	if issue.UserEmail == voterEmail {
		return 0, ErrSelfVote
	}

	voted, err := v.votes.Exists(ctx, issueID, voterEmail)
	if err != nil {
		return 0, fmt.Errorf("check existing vote: %w", err)
	}
	if voted {
		return 0, ErrAlreadyVoted
	}

	record := models.VoteRecord{
		IssueID:   issueID,
		UserEmail: voterEmail,
		CreatedAt: v.now().UTC(),
	}
	if err := v.votes.Insert(ctx, record); err != nil {
		return 0, err
	}

	upvotes, err := v.issues.IncrementUpvotes(ctx, issueID, 1)
	if err != nil {
		return 0, fmt.Errorf("increment upvotes: %w", err)
	}
	return upvotes, nil
}
