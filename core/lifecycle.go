package core

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"cityfix-be/models"
)

// Lifecycle owns the issue status field and everything that moves it:
// filing, staff transitions, owner edits and deletes, admin assignment and
// rejection. Every successful mutation leaves a timeline entry behind.
type Lifecycle struct {
	issues   IssueStore
	votes    VoteStore
	quota    *QuotaPolicy
	timeline *TimelineRecorder
	now      func() time.Time
}

func NewLifecycle(issues IssueStore, votes VoteStore, quota *QuotaPolicy, timeline *TimelineRecorder) *Lifecycle {
	return &Lifecycle{
		issues:   issues,
		votes:    votes,
		quota:    quota,
		timeline: timeline,
		now:      time.Now,
	}
}

// FileInput carries the citizen-supplied attributes of a new issue.
type FileInput struct {
	Title       string
	Description string
	Category    models.IssueCategory
	ImageURL    string
	Location    string
}

// File checks the reporter's quota and inserts a fresh Pending issue with
// its first timeline entry already in place.
func (l *Lifecycle) File(ctx context.Context, reporterEmail string, in FileInput) (models.Issue, error) {
	if err := l.quota.CanFile(ctx, reporterEmail); err != nil {
		return models.Issue{}, err
	}

	now := l.now().UTC()
	issue := models.Issue{
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		ImageURL:    in.ImageURL,
		Location:    in.Location,
		UserEmail:   reporterEmail,
		Status:      models.StatusPending,
		Priority:    models.PriorityNormal,
		Upvotes:     0,
		Timeline: []models.TimelineEntry{
			{Action: "Issue reported by citizen", UpdatedBy: reporterEmail, Date: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	id, err := l.issues.Insert(ctx, issue)
	if err != nil {
		return models.Issue{}, fmt.Errorf("insert issue: %w", err)
	}
	issue.ID = id
	return issue, nil
}

// Transition moves an issue to the requested next status. Only the issue's
// assignee (or an admin) may move it, and Rejected is never reachable here;
// rejection goes through Reject. The read-validate-write is optimistic; the
// store's atomic field set is the only serialization point.
func (l *Lifecycle) Transition(ctx context.Context, issueID primitive.ObjectID, next models.IssueStatus, actor models.User) (models.Issue, error) {
	issue, err := l.issues.FindByID(ctx, issueID)
	if err != nil {
		return models.Issue{}, err
	}

	if actor.Role != models.RoleAdmin && issue.AssignedTo != actor.Email {
		return models.Issue{}, ErrNotAssignee
	}
	if next == models.StatusRejected {
		return models.Issue{}, ErrInvalidTransition
	}
	if !issue.Status.CanTransitionTo(next) {
		return models.Issue{}, ErrInvalidTransition
	}

	if err := l.issues.SetStatus(ctx, issueID, next); err != nil {
		return models.Issue{}, fmt.Errorf("set status: %w", err)
	}
	if err := l.timeline.Record(ctx, issueID, fmt.Sprintf("Status changed to %s", next), actor.Email); err != nil {
		return models.Issue{}, err
	}

	issue.Status = next
	issue.UpdatedAt = l.now().UTC()
	return issue, nil
}

// EditInput carries the owner-editable attributes. Nil means leave as is.
type EditInput struct {
	Title       *string
	Description *string
	Category    *models.IssueCategory
	ImageURL    *string
	Location    *string
}

// Edit applies a partial update to a Pending issue on behalf of its owner.
// Any other combination of actor and status fails ErrNotEditable.
func (l *Lifecycle) Edit(ctx context.Context, issueID primitive.ObjectID, actorEmail string, in EditInput) error {
	issue, err := l.issues.FindByID(ctx, issueID)
	if err != nil {
		return err
	}
	if issue.UserEmail != actorEmail || issue.Status != models.StatusPending {
		return ErrNotEditable
	}

	fields := map[string]any{"updatedAt": l.now().UTC()}
	if in.Title != nil {
		fields["title"] = *in.Title
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Category != nil {
		fields["category"] = *in.Category
	}
	if in.ImageURL != nil {
		fields["imageUrl"] = *in.ImageURL
	}
	if in.Location != nil {
		fields["location"] = *in.Location
	}

	if err := l.issues.SetFields(ctx, issueID, fields); err != nil {
		return fmt.Errorf("update issue: %w", err)
	}
	return l.timeline.Record(ctx, issueID, "Issue edited by user", actorEmail)
}

// Delete removes an issue and its vote records. Owner only, any status.
func (l *Lifecycle) Delete(ctx context.Context, issueID primitive.ObjectID, actorEmail string) error {
	issue, err := l.issues.FindByID(ctx, issueID)
	if err != nil {
		return err
	}
	if issue.UserEmail != actorEmail {
		return ErrNotOwner
	}

	if err := l.issues.Delete(ctx, issueID); err != nil {
		return fmt.Errorf("delete issue: %w", err)
	}
	if err := l.votes.DeleteByIssue(ctx, issueID); err != nil {
		return fmt.Errorf("delete votes for issue: %w", err)
	}
	return nil
}

// Assign sets the issue's staff assignee exactly once.
func (l *Lifecycle) Assign(ctx context.Context, issueID primitive.ObjectID, staffEmail string) error {
	issue, err := l.issues.FindByID(ctx, issueID)
	if err != nil {
		return err
	}
	if issue.AssignedTo != "" {
		return ErrAlreadyAssigned
	}

	if err := l.issues.SetAssignee(ctx, issueID, staffEmail); err != nil {
		return fmt.Errorf("assign issue: %w", err)
	}
	return l.timeline.Record(ctx, issueID, fmt.Sprintf("Assigned to staff: %s", staffEmail), "Admin")
}

// Reject moves a Pending issue to the terminal Rejected status.
func (l *Lifecycle) Reject(ctx context.Context, issueID primitive.ObjectID) error {
	issue, err := l.issues.FindByID(ctx, issueID)
	if err != nil {
		return err
	}
	if issue.Status != models.StatusPending {
		return ErrInvalidTransition
	}

	if err := l.issues.SetStatus(ctx, issueID, models.StatusRejected); err != nil {
		return fmt.Errorf("reject issue: %w", err)
	}
	return l.timeline.Record(ctx, issueID, "Issue rejected by admin", "Admin")
}
