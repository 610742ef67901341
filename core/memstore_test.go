package core

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"cityfix-be/models"
)

// memStore is an in-memory stand-in for all four store contracts so the
// engine can be exercised without a database.
type memStore struct {
	issues   map[primitive.ObjectID]*models.Issue
	votes    map[string]models.VoteRecord
	users    map[string]models.User
	payments []models.PaymentRecord
}

func newMemStore() *memStore {
	return &memStore{
		issues: make(map[primitive.ObjectID]*models.Issue),
		votes:  make(map[string]models.VoteRecord),
		users:  make(map[string]models.User),
	}
}

func (m *memStore) addIssue(issue models.Issue) primitive.ObjectID {
	if issue.ID.IsZero() {
		issue.ID = primitive.NewObjectID()
	}
	copied := issue
	m.issues[issue.ID] = &copied
	return issue.ID
}

func (m *memStore) addUser(user models.User) {
	m.users[user.Email] = user
}

func voteKey(issueID primitive.ObjectID, email string) string {
	return issueID.Hex() + "|" + email
}

// IssueStore

func (m *memStore) FindByID(_ context.Context, id primitive.ObjectID) (models.Issue, error) {
	issue, ok := m.issues[id]
	if !ok {
		return models.Issue{}, ErrNotFound
	}
	return *issue, nil
}

func (m *memStore) CountByReporter(_ context.Context, email string) (int64, error) {
	var count int64
	for _, issue := range m.issues {
		if issue.UserEmail == email {
			count++
		}
	}
	return count, nil
}

func (m *memStore) Insert(_ context.Context, issue models.Issue) (primitive.ObjectID, error) {
	return m.addIssue(issue), nil
}

func (m *memStore) SetFields(_ context.Context, id primitive.ObjectID, fields map[string]any) error {
	issue, ok := m.issues[id]
	if !ok {
		return ErrNotFound
	}
	for key, value := range fields {
		switch key {
		case "title":
			issue.Title = value.(string)
		case "description":
			issue.Description = value.(string)
		case "category":
			issue.Category = value.(models.IssueCategory)
		case "imageUrl":
			issue.ImageURL = value.(string)
		case "location":
			issue.Location = value.(string)
		}
	}
	return nil
}

func (m *memStore) SetStatus(_ context.Context, id primitive.ObjectID, status models.IssueStatus) error {
	issue, ok := m.issues[id]
	if !ok {
		return ErrNotFound
	}
	issue.Status = status
	return nil
}

func (m *memStore) SetAssignee(_ context.Context, id primitive.ObjectID, staffEmail string) error {
	issue, ok := m.issues[id]
	if !ok {
		return ErrNotFound
	}
	issue.AssignedTo = staffEmail
	return nil
}

func (m *memStore) SetPriority(_ context.Context, id primitive.ObjectID, priority models.IssuePriority) error {
	issue, ok := m.issues[id]
	if !ok {
		return ErrNotFound
	}
	issue.Priority = priority
	return nil
}

func (m *memStore) IncrementUpvotes(_ context.Context, id primitive.ObjectID, delta int) (int64, error) {
	issue, ok := m.issues[id]
	if !ok {
		return 0, ErrNotFound
	}
	issue.Upvotes += int64(delta)
	return issue.Upvotes, nil
}

func (m *memStore) PrependTimeline(_ context.Context, id primitive.ObjectID, entry models.TimelineEntry) error {
	issue, ok := m.issues[id]
	if !ok {
		return ErrNotFound
	}
	issue.Timeline = append([]models.TimelineEntry{entry}, issue.Timeline...)
	return nil
}

func (m *memStore) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := m.issues[id]; !ok {
		return ErrNotFound
	}
	delete(m.issues, id)
	return nil
}

// VoteStore

func (m *memStore) Exists(_ context.Context, issueID primitive.ObjectID, voterEmail string) (bool, error) {
	_, ok := m.votes[voteKey(issueID, voterEmail)]
	return ok, nil
}

func (m *memStore) InsertVote(ctx context.Context, vote models.VoteRecord) error {
	key := voteKey(vote.IssueID, vote.UserEmail)
	if _, ok := m.votes[key]; ok {
		return ErrAlreadyVoted
	}
	m.votes[key] = vote
	return nil
}

func (m *memStore) DeleteByIssue(_ context.Context, issueID primitive.ObjectID) error {
	for key, vote := range m.votes {
		if vote.IssueID == issueID {
			delete(m.votes, key)
		}
	}
	return nil
}

func (m *memStore) voteCount(issueID primitive.ObjectID) int64 {
	var count int64
	for _, vote := range m.votes {
		if vote.IssueID == issueID {
			count++
		}
	}
	return count
}

// UserStore

func (m *memStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	user, ok := m.users[email]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return user, nil
}

func (m *memStore) SetPremium(_ context.Context, email string) error {
	user, ok := m.users[email]
	if !ok {
		return ErrNotFound
	}
	user.IsPremium = true
	m.users[email] = user
	return nil
}

// PaymentStore

func (m *memStore) InsertPayment(_ context.Context, record models.PaymentRecord) error {
	m.payments = append(m.payments, record)
	return nil
}

// voteStoreAdapter and paymentStoreAdapter pick the right Insert for each
// interface, since memStore backs them all.
type voteStoreAdapter struct{ *memStore }

func (a voteStoreAdapter) Insert(ctx context.Context, vote models.VoteRecord) error {
	return a.InsertVote(ctx, vote)
}

type paymentStoreAdapter struct{ *memStore }

func (a paymentStoreAdapter) Insert(ctx context.Context, record models.PaymentRecord) error {
	return a.InsertPayment(ctx, record)
}
