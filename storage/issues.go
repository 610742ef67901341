package storage

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"cityfix-be/core"
	"cityfix-be/models"
)

// IssueStore implements core.IssueStore on the issues collection.
type IssueStore struct {
	col *mongo.Collection
}

func NewIssueStore(db *mongo.Database) *IssueStore {
	return &IssueStore{col: db.Collection("issues")}
}

func (s *IssueStore) FindByID(ctx context.Context, id primitive.ObjectID) (models.Issue, error) {
	var issue models.Issue
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&issue)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Issue{}, core.ErrNotFound
		}
		return models.Issue{}, fmt.Errorf("find issue: %w", err)
	}
	return issue, nil
}

func (s *IssueStore) CountByReporter(ctx context.Context, email string) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{"userEmail": email})
}

func (s *IssueStore) Insert(ctx context.Context, issue models.Issue) (primitive.ObjectID, error) {
	if issue.ID.IsZero() {
		issue.ID = primitive.NewObjectID()
	}
	if _, err := s.col.InsertOne(ctx, issue); err != nil {
		return primitive.NilObjectID, err
	}
	return issue.ID, nil
}

func (s *IssueStore) SetFields(ctx context.Context, id primitive.ObjectID, fields map[string]any) error {
	return s.set(ctx, id, bson.M(fields))
}

func (s *IssueStore) SetStatus(ctx context.Context, id primitive.ObjectID, status models.IssueStatus) error {
	return s.set(ctx, id, bson.M{"status": status})
}

func (s *IssueStore) SetAssignee(ctx context.Context, id primitive.ObjectID, staffEmail string) error {
	return s.set(ctx, id, bson.M{"assignedTo": staffEmail})
}

func (s *IssueStore) SetPriority(ctx context.Context, id primitive.ObjectID, priority models.IssuePriority) error {
	return s.set(ctx, id, bson.M{"priority": priority})
}

func (s *IssueStore) IncrementUpvotes(ctx context.Context, id primitive.ObjectID, delta int) (int64, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var issue models.Issue
	err := s.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"upvotes": delta}}, opts).Decode(&issue)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, core.ErrNotFound
		}
		return 0, err
	}
	return issue.Upvotes, nil
}

func (s *IssueStore) PrependTimeline(ctx context.Context, id primitive.ObjectID, entry models.TimelineEntry) error {
	update := bson.M{
		"$push": bson.M{
			"timeline": bson.M{
				"$each":     bson.A{entry},
				"$position": 0,
			},
		},
	}
	result, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *IssueStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *IssueStore) set(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	result, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return core.ErrNotFound
	}
	return nil
}
