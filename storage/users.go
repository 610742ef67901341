package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"cityfix-be/core"
	"cityfix-be/models"
)

// UserStore implements core.UserStore on the users collection, plus the
// wider user management the route layer needs (auto-provisioning, profile
// updates, blocking, staff accounts).
type UserStore struct {
	col *mongo.Collection
}

func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{col: db.Collection("users")}
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := s.col.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, core.ErrNotFound
		}
		return models.User{}, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *UserStore) SetPremium(ctx context.Context, email string) error {
	return s.set(ctx, email, bson.M{"isPremium": true})
}

func (s *UserStore) SetBlocked(ctx context.Context, email string, blocked bool) error {
	return s.set(ctx, email, bson.M{"isBlocked": blocked})
}

// EnsureCitizen upserts a default citizen record for a first-contact email
// and returns the current record either way.
func (s *UserStore) EnsureCitizen(ctx context.Context, email, name, photoURL string) (models.User, error) {
	filter := bson.M{"email": email}
	update := bson.M{
		"$setOnInsert": bson.M{
			"email":     email,
			"role":      models.RoleCitizen,
			"isPremium": false,
			"isBlocked": false,
			"createdAt": time.Now().UTC(),
		},
	}
	set := bson.M{}
	if name != "" {
		set["name"] = name
	}
	if photoURL != "" {
		set["photoURL"] = photoURL
	}
	if len(set) > 0 {
		update["$set"] = set
	}

	opts := options.Update().SetUpsert(true)
	if _, err := s.col.UpdateOne(ctx, filter, update, opts); err != nil {
		return models.User{}, fmt.Errorf("upsert user: %w", err)
	}
	return s.FindByEmail(ctx, email)
}

func (s *UserStore) Insert(ctx context.Context, user models.User) error {
	_, err := s.col.InsertOne(ctx, user)
	return err
}

func (s *UserStore) UpdateProfile(ctx context.Context, email string, fields map[string]any) (models.User, error) {
	if err := s.set(ctx, email, bson.M(fields)); err != nil {
		return models.User{}, err
	}
	return s.FindByEmail(ctx, email)
}

func (s *UserStore) ListByRole(ctx context.Context, role models.UserRole) ([]models.User, error) {
	cursor, err := s.col.Find(ctx, bson.M{"role": role})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *UserStore) DeleteByEmail(ctx context.Context, email string) error {
	result, err := s.col.DeleteOne(ctx, bson.M{"email": email})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *UserStore) CountByEmail(ctx context.Context, email string) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{"email": email})
}

func (s *UserStore) set(ctx context.Context, email string, fields bson.M) error {
	result, err := s.col.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return core.ErrNotFound
	}
	return nil
}
