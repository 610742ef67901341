package storage

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"cityfix-be/models"
)

// PaymentStore implements core.PaymentStore on the payments collection.
// Records are append-only; there is no update or delete path.
type PaymentStore struct {
	col *mongo.Collection
}

func NewPaymentStore(db *mongo.Database) *PaymentStore {
	return &PaymentStore{col: db.Collection("payments")}
}

func (s *PaymentStore) Insert(ctx context.Context, record models.PaymentRecord) error {
	if record.ID.IsZero() {
		record.ID = primitive.NewObjectID()
	}
	_, err := s.col.InsertOne(ctx, record)
	return err
}

func (s *PaymentStore) ListNewestFirst(ctx context.Context) ([]models.PaymentRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []models.PaymentRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *PaymentStore) CountByEmail(ctx context.Context, email string) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{"email": email})
}

func (s *PaymentStore) TotalAmount(ctx context.Context) (int64, error) {
	pipeline := []bson.M{
		{"$group": bson.M{"_id": nil, "total": bson.M{"$sum": "$amount"}}},
	}
	cursor, err := s.col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		Total int64 `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}
