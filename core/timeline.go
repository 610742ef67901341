package core

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"cityfix-be/models"
)

// SystemActor is attributed when no human actor is attributable.
const SystemActor = "System"

// TimelineRecorder appends audit entries to an issue's timeline. Entries go
// in at the front, so timeline[0] is always the most recent action.
type TimelineRecorder struct {
	issues IssueStore
	now    func() time.Time
}

func NewTimelineRecorder(issues IssueStore) *TimelineRecorder {
	return &TimelineRecorder{issues: issues, now: time.Now}
}

// Record durably appends one entry. A persistence failure propagates to the
// caller; nothing is swallowed.
func (r *TimelineRecorder) Record(ctx context.Context, issueID primitive.ObjectID, action, actor string) error {
	if actor == "" {
		actor = SystemActor
	}
	entry := models.TimelineEntry{
		Action:    action,
		UpdatedBy: actor,
		Date:      r.now().UTC(),
	}
	if err := r.issues.PrependTimeline(ctx, issueID, entry); err != nil {
		return fmt.Errorf("record timeline entry: %w", err)
	}
	return nil
}
