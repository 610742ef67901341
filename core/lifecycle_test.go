package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"cityfix-be/models"
)

func newTestLifecycle(store *memStore) *Lifecycle {
	quota := NewQuotaPolicy(store, store)
	timeline := NewTimelineRecorder(store)
	return NewLifecycle(store, voteStoreAdapter{store}, quota, timeline)
}

func TestFileSeedsPendingIssue(t *testing.T) {
	store := newMemStore()
	store.addUser(models.User{Email: "citizen@example.com", Role: models.RoleCitizen})
	lifecycle := newTestLifecycle(store)

	now := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	lifecycle.now = func() time.Time { return now }

	issue, err := lifecycle.File(context.Background(), "citizen@example.com", FileInput{
		Title:       "Broken streetlight",
		Description: "Dark corner on Elm St",
		Category:    models.Electricity,
		Location:    "Elm St & 4th Ave",
	})
	if err != nil {
		t.Fatalf("file: %v", err)
	}

	if issue.ID.IsZero() {
		t.Fatal("expected an assigned issue id")
	}
	if issue.Status != models.StatusPending {
		t.Fatalf("expected status Pending, got %s", issue.Status)
	}
	if issue.Priority != models.PriorityNormal {
		t.Fatalf("expected priority Normal, got %s", issue.Priority)
	}
	if issue.Upvotes != 0 {
		t.Fatalf("expected 0 upvotes, got %d", issue.Upvotes)
	}
	if len(issue.Timeline) != 1 {
		t.Fatalf("expected 1 timeline entry, got %d", len(issue.Timeline))
	}
	entry := issue.Timeline[0]
	if entry.Action != "Issue reported by citizen" {
		t.Fatalf("unexpected timeline action %q", entry.Action)
	}
	if entry.UpdatedBy != "citizen@example.com" {
		t.Fatalf("unexpected timeline actor %q", entry.UpdatedBy)
	}
	if !entry.Date.Equal(now) {
		t.Fatalf("unexpected timeline date %v", entry.Date)
	}
}

func TestFileQuotaDenied(t *testing.T) {
	store := newMemStore()
	store.addUser(models.User{Email: "citizen@example.com", Role: models.RoleCitizen})
	lifecycle := newTestLifecycle(store)
	ctx := context.Background()

	for i := 0; i < FreeIssueLimit; i++ {
		if _, err := lifecycle.File(ctx, "citizen@example.com", FileInput{Title: "Pothole"}); err != nil {
			t.Fatalf("file %d: %v", i+1, err)
		}
	}

	if _, err := lifecycle.File(ctx, "citizen@example.com", FileInput{Title: "One too many"}); !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
	if got := len(store.issues); got != FreeIssueLimit {
		t.Fatalf("expected %d stored issues, got %d", FreeIssueLimit, got)
	}
}

func TestTransitionFullChain(t *testing.T) {
	store := newMemStore()
	issueID := store.addIssue(models.Issue{
		Title:      "Water main leak",
		UserEmail:  "citizen@example.com",
		Status:     models.StatusPending,
		AssignedTo: "staff@example.com",
	})
	lifecycle := newTestLifecycle(store)
	staff := models.User{Email: "staff@example.com", Role: models.RoleStaff}
	ctx := context.Background()

	chain := []models.IssueStatus{
		models.StatusInProgress,
		models.StatusWorking,
		models.StatusResolved,
		models.StatusClosed,
	}
	for _, next := range chain {
		issue, err := lifecycle.Transition(ctx, issueID, next, staff)
		if err != nil {
			t.Fatalf("transition to %s: %v", next, err)
		}
		if issue.Status != next {
			t.Fatalf("expected returned status %s, got %s", next, issue.Status)
		}
		if store.issues[issueID].Status != next {
			t.Fatalf("expected stored status %s, got %s", next, store.issues[issueID].Status)
		}
	}

	timeline := store.issues[issueID].Timeline
	if len(timeline) != len(chain) {
		t.Fatalf("expected %d timeline entries, got %d", len(chain), len(timeline))
	}
	// Newest first: the Closed entry sits on top.
	if timeline[0].Action != "Status changed to Closed" {
		t.Fatalf("unexpected newest entry %q", timeline[0].Action)
	}
	if timeline[len(timeline)-1].Action != "Status changed to In Progress" {
		t.Fatalf("unexpected oldest entry %q", timeline[len(timeline)-1].Action)
	}
}

func TestTransitionSkipStateRejected(t *testing.T) {
	store := newMemStore()
	issueID := store.addIssue(models.Issue{
		Title:      "Water main leak",
		UserEmail:  "citizen@example.com",
		Status:     models.StatusInProgress,
		AssignedTo: "staff@example.com",
	})
	lifecycle := newTestLifecycle(store)
	staff := models.User{Email: "staff@example.com", Role: models.RoleStaff}

	_, err := lifecycle.Transition(context.Background(), issueID, models.StatusClosed, staff)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if store.issues[issueID].Status != models.StatusInProgress {
		t.Fatalf("status moved on a rejected transition: %s", store.issues[issueID].Status)
	}
	if len(store.issues[issueID].Timeline) != 0 {
		t.Fatal("timeline written on a rejected transition")
	}
}

func TestTransitionUnrelatedCitizen(t *testing.T) {
	store := newMemStore()
	issueID := store.addIssue(models.Issue{
		Title:      "Water main leak",
		UserEmail:  "owner@example.com",
		Status:     models.StatusPending,
		AssignedTo: "staff@example.com",
	})
	lifecycle := newTestLifecycle(store)
	citizen := models.User{Email: "random@example.com", Role: models.RoleCitizen}
	ctx := context.Background()

	// A citizen who is neither owner nor assignee can neither reject nor
	// advance someone else's issue.
	for _, next := range []models.IssueStatus{models.StatusRejected, models.StatusInProgress} {
		if _, err := lifecycle.Transition(ctx, issueID, next, citizen); !errors.Is(err, ErrNotAssignee) {
			t.Fatalf("transition to %s: expected ErrNotAssignee, got %v", next, err)
		}
	}
	if store.issues[issueID].Status != models.StatusPending {
		t.Fatalf("status moved: %s", store.issues[issueID].Status)
	}
	if len(store.issues[issueID].Timeline) != 0 {
		t.Fatal("timeline written by an unrelated citizen")
	}
}

func TestTransitionOwnerNotAssignee(t *testing.T) {
	store := newMemStore()
	issueID := store.addIssue(models.Issue{
		Title:      "Water main leak",
		UserEmail:  "owner@example.com",
		Status:     models.StatusPending,
		AssignedTo: "staff@example.com",
	})
	lifecycle := newTestLifecycle(store)
	owner := models.User{Email: "owner@example.com", Role: models.RoleCitizen}

	if _, err := lifecycle.Transition(context.Background(), issueID, models.StatusInProgress, owner); !errors.Is(err, ErrNotAssignee) {
		t.Fatalf("expected ErrNotAssignee for the reporter, got %v", err)
	}
}

func TestTransitionRejectedNotReachable(t *testing.T) {
	store := newMemStore()
	issueID := store.addIssue(models.Issue{
		Title:      "Water main leak",
		UserEmail:  "owner@example.com",
		Status:     models.StatusPending,
		AssignedTo: "staff@example.com",
	})
	lifecycle := newTestLifecycle(store)
	ctx := context.Background()

	// Neither the assignee nor an admin may reach Rejected through a status
	// transition; rejection is its own operation.
	staff := models.User{Email: "staff@example.com", Role: models.RoleStaff}
	if _, err := lifecycle.Transition(ctx, issueID, models.StatusRejected, staff); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("staff: expected ErrInvalidTransition, got %v", err)
	}
	admin := models.User{Email: "admin@example.com", Role: models.RoleAdmin}
	if _, err := lifecycle.Transition(ctx, issueID, models.StatusRejected, admin); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("admin: expected ErrInvalidTransition, got %v", err)
	}
	if store.issues[issueID].Status != models.StatusPending {
		t.Fatalf("status moved: %s", store.issues[issueID].Status)
	}
}

func TestTransitionAdminNotAssignee(t *testing.T) {
	store := newMemStore()
	issueID := store.addIssue(models.Issue{
		Title:      "Water main leak",
		UserEmail:  "owner@example.com",
		Status:     models.StatusPending,
		AssignedTo: "staff@example.com",
	})
	lifecycle := newTestLifecycle(store)
	admin := models.User{Email: "admin@example.com", Role: models.RoleAdmin}

	issue, err := lifecycle.Transition(context.Background(), issueID, models.StatusInProgress, admin)
	if err != nil {
		t.Fatalf("admin transition: %v", err)
	}
	if issue.Status != models.StatusInProgress {
		t.Fatalf("expected In Progress, got %s", issue.Status)
	}
}

func TestTransitionUnassignedStaff(t *testing.T) {
	store := newMemStore()
	issueID := store.addIssue(models.Issue{
		Title:      "Water main leak",
		UserEmail:  "citizen@example.com",
		Status:     models.StatusPending,
		AssignedTo: "other@example.com",
	})
	lifecycle := newTestLifecycle(store)
	staff := models.User{Email: "staff@example.com", Role: models.RoleStaff}

	_, err := lifecycle.Transition(context.Background(), issueID, models.StatusInProgress, staff)
	if !errors.Is(err, ErrNotAssignee) {
		t.Fatalf("expected ErrNotAssignee, got %v", err)
	}
}

func TestTransitionFromTerminalStatus(t *testing.T) {
	store := newMemStore()
	lifecycle := newTestLifecycle(store)
	admin := models.User{Email: "admin@example.com", Role: models.RoleAdmin}
	ctx := context.Background()

	for _, terminal := range []models.IssueStatus{models.StatusClosed, models.StatusRejected} {
		issueID := store.addIssue(models.Issue{Title: "Done", Status: terminal})
		if _, err := lifecycle.Transition(ctx, issueID, models.StatusInProgress, admin); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition out of %s, got %v", terminal, err)
		}
	}
}

func TestTransitionMissingIssue(t *testing.T) {
	store := newMemStore()
	lifecycle := newTestLifecycle(store)

	_, err := lifecycle.Transition(context.Background(), primitive.NewObjectID(), models.StatusInProgress, models.User{Role: models.RoleAdmin})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEditPendingByOwner(t *testing.T) {
	store := newMemStore()
	issueID := store.addIssue(models.Issue{
		Title:     "Pothole",
		UserEmail: "citizen@example.com",
		Status:    models.StatusPending,
	})
	lifecycle := newTestLifecycle(store)

	title := "Deep pothole"
	category := models.Road
	err := lifecycle.Edit(context.Background(), issueID, "citizen@example.com", EditInput{
		Title:    &title,
		Category: &category,
	})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}

	issue := store.issues[issueID]
	if issue.Title != "Deep pothole" {
		t.Fatalf("title not updated: %q", issue.Title)
	}
	if issue.Category != models.Road {
		t.Fatalf("category not updated: %q", issue.Category)
	}
	if len(issue.Timeline) != 1 || issue.Timeline[0].Action != "Issue edited by user" {
		t.Fatalf("expected edit timeline entry, got %+v", issue.Timeline)
	}
}

func TestEditGuards(t *testing.T) {
	store := newMemStore()
	lifecycle := newTestLifecycle(store)
	ctx := context.Background()
	title := "New title"

	// Wrong actor on a Pending issue.
	pendingID := store.addIssue(models.Issue{UserEmail: "owner@example.com", Status: models.StatusPending})
	if err := lifecycle.Edit(ctx, pendingID, "stranger@example.com", EditInput{Title: &title}); !errors.Is(err, ErrNotEditable) {
		t.Fatalf("expected ErrNotEditable for non-owner, got %v", err)
	}

	// Right actor on a non-Pending issue.
	movedID := store.addIssue(models.Issue{UserEmail: "owner@example.com", Status: models.StatusInProgress})
	if err := lifecycle.Edit(ctx, movedID, "owner@example.com", EditInput{Title: &title}); !errors.Is(err, ErrNotEditable) {
		t.Fatalf("expected ErrNotEditable past Pending, got %v", err)
	}
}

func TestDeleteCascadesVotes(t *testing.T) {
	store := newMemStore()
	issueID := store.addIssue(models.Issue{UserEmail: "owner@example.com", Status: models.StatusPending})
	otherID := store.addIssue(models.Issue{UserEmail: "owner@example.com", Status: models.StatusPending})
	ctx := context.Background()

	for _, voter := range []string{"a@example.com", "b@example.com"} {
		if err := store.InsertVote(ctx, models.VoteRecord{IssueID: issueID, UserEmail: voter}); err != nil {
			t.Fatalf("seed vote: %v", err)
		}
	}
	if err := store.InsertVote(ctx, models.VoteRecord{IssueID: otherID, UserEmail: "a@example.com"}); err != nil {
		t.Fatalf("seed vote: %v", err)
	}

	lifecycle := newTestLifecycle(store)
	if err := lifecycle.Delete(ctx, issueID, "owner@example.com"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, ok := store.issues[issueID]; ok {
		t.Fatal("issue still present after delete")
	}
	if store.voteCount(issueID) != 0 {
		t.Fatal("votes not cascaded")
	}
	if store.voteCount(otherID) != 1 {
		t.Fatal("votes on another issue were touched")
	}
}

func TestDeleteNotOwner(t *testing.T) {
	store := newMemStore()
	issueID := store.addIssue(models.Issue{UserEmail: "owner@example.com", Status: models.StatusClosed})
	lifecycle := newTestLifecycle(store)

	if err := lifecycle.Delete(context.Background(), issueID, "stranger@example.com"); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if _, ok := store.issues[issueID]; !ok {
		t.Fatal("issue deleted by non-owner")
	}
}

func TestAssignOnce(t *testing.T) {
	store := newMemStore()
	issueID := store.addIssue(models.Issue{UserEmail: "owner@example.com", Status: models.StatusPending})
	lifecycle := newTestLifecycle(store)
	ctx := context.Background()

	if err := lifecycle.Assign(ctx, issueID, "staff@example.com"); err != nil {
		t.Fatalf("assign: %v", err)
	}
	issue := store.issues[issueID]
	if issue.AssignedTo != "staff@example.com" {
		t.Fatalf("assignee not set: %q", issue.AssignedTo)
	}
	if len(issue.Timeline) != 1 || issue.Timeline[0].Action != "Assigned to staff: staff@example.com" {
		t.Fatalf("expected assignment timeline entry, got %+v", issue.Timeline)
	}
	if issue.Timeline[0].UpdatedBy != "Admin" {
		t.Fatalf("expected Admin actor, got %q", issue.Timeline[0].UpdatedBy)
	}

	if err := lifecycle.Assign(ctx, issueID, "other@example.com"); !errors.Is(err, ErrAlreadyAssigned) {
		t.Fatalf("expected ErrAlreadyAssigned, got %v", err)
	}
	if store.issues[issueID].AssignedTo != "staff@example.com" {
		t.Fatal("assignee overwritten")
	}
}

func TestRejectPendingOnly(t *testing.T) {
	store := newMemStore()
	lifecycle := newTestLifecycle(store)
	ctx := context.Background()

	pendingID := store.addIssue(models.Issue{UserEmail: "owner@example.com", Status: models.StatusPending})
	if err := lifecycle.Reject(ctx, pendingID); err != nil {
		t.Fatalf("reject: %v", err)
	}
	issue := store.issues[pendingID]
	if issue.Status != models.StatusRejected {
		t.Fatalf("expected Rejected, got %s", issue.Status)
	}
	if len(issue.Timeline) != 1 || issue.Timeline[0].Action != "Issue rejected by admin" {
		t.Fatalf("expected rejection timeline entry, got %+v", issue.Timeline)
	}

	movedID := store.addIssue(models.Issue{UserEmail: "owner@example.com", Status: models.StatusInProgress})
	if err := lifecycle.Reject(ctx, movedID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}
