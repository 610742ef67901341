package core

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"cityfix-be/models"
)

// Escalation reacts to confirmed payments. It never talks to the payment
// provider itself: callers invoke it only after verifying completion, and
// confirmation may race with deletion, in which case ErrNotFound is
// returned and the caller decides whether to retry, ignore or alert.
type Escalation struct {
	issues   IssueStore
	users    UserStore
	payments PaymentStore
	timeline *TimelineRecorder
	now      func() time.Time
}

func NewEscalation(issues IssueStore, users UserStore, payments PaymentStore, timeline *TimelineRecorder) *Escalation {
	return &Escalation{
		issues:   issues,
		users:    users,
		payments: payments,
		timeline: timeline,
		now:      time.Now,
	}
}

// ApplyBoost raises the issue's priority to High. Raising an already-High
// issue is a no-op on the priority, but every confirmed payment still gets
// its own timeline entry and payment record. Order: state, then audit,
// then payment log.
func (e *Escalation) ApplyBoost(ctx context.Context, issueID primitive.ObjectID, payerEmail string, amountCents int64) error {
	issue, err := e.issues.FindByID(ctx, issueID)
	if err != nil {
		return err
	}

	if issue.Priority != models.PriorityHigh {
		if err := e.issues.SetPriority(ctx, issueID, models.PriorityHigh); err != nil {
			return fmt.Errorf("set priority: %w", err)
		}
	}
	if err := e.timeline.Record(ctx, issueID, "Issue boosted to High priority", payerEmail); err != nil {
		return err
	}

	record := models.PaymentRecord{
		Email:     payerEmail,
		Amount:    amountCents,
		Kind:      models.PaymentBoost,
		IssueID:   issueID.Hex(),
		CreatedAt: e.now().UTC(),
	}
	if err := e.payments.Insert(ctx, record); err != nil {
		return fmt.Errorf("insert payment record: %w", err)
	}
	return nil
}

// ApplySubscription marks the payer premium and logs the payment. The flag
// is monotonic; re-confirming is a no-op on the user. No issue is touched.
func (e *Escalation) ApplySubscription(ctx context.Context, payerEmail string, amountCents int64) error {
	if _, err := e.users.FindByEmail(ctx, payerEmail); err != nil {
		return err
	}
	if err := e.users.SetPremium(ctx, payerEmail); err != nil {
		return fmt.Errorf("set premium: %w", err)
	}

	record := models.PaymentRecord{
		Email:     payerEmail,
		Amount:    amountCents,
		Kind:      models.PaymentSubscription,
		CreatedAt: e.now().UTC(),
	}
	if err := e.payments.Insert(ctx, record); err != nil {
		return fmt.Errorf("insert payment record: %w", err)
	}
	return nil
}
