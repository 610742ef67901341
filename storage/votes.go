package storage

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"cityfix-be/core"
	"cityfix-be/models"
)

// VoteStore implements core.VoteStore on the issueVotes collection.
type VoteStore struct {
	col *mongo.Collection
}

func NewVoteStore(db *mongo.Database) *VoteStore {
	return &VoteStore{col: db.Collection("issueVotes")}
}

// EnsureIndexes creates the unique (issue, userEmail) index that makes
// duplicate upvotes impossible even under concurrent inserts.
func (s *VoteStore) EnsureIndexes(ctx context.Context) error {
	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "issue", Value: 1}, {Key: "userEmail", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := s.col.Indexes().CreateOne(ctx, indexModel); err != nil {
		return fmt.Errorf("create vote index: %w", err)
	}
	return nil
}

func (s *VoteStore) Exists(ctx context.Context, issueID primitive.ObjectID, voterEmail string) (bool, error) {
	count, err := s.col.CountDocuments(ctx, bson.M{"issue": issueID, "userEmail": voterEmail})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *VoteStore) Insert(ctx context.Context, vote models.VoteRecord) error {
	if vote.ID.IsZero() {
		vote.ID = primitive.NewObjectID()
	}
	_, err := s.col.InsertOne(ctx, vote)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return core.ErrAlreadyVoted
		}
		return err
	}
	return nil
}

func (s *VoteStore) DeleteByIssue(ctx context.Context, issueID primitive.ObjectID) error {
	_, err := s.col.DeleteMany(ctx, bson.M{"issue": issueID})
	return err
}
