package mongo

import (
	"context"
	"errors"

	"github.com/rahulkpr2510/droply/internal/domain"
	"github.com/rahulkpr2510/droply/internal/store"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

const userCollection = "users"

// UserStore is the MongoDB implementation of the store.UserStore interface.
type UserStore struct {
	db *mongo.Database
}

// NewUserStore creates a new UserStore.
func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{db: db}
}

// Create inserts a new user document. A duplicate email (enforced by a unique
// index on the collection) is translated into store.ErrConflict.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	res, err := s.db.Collection(userCollection).InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return store.ErrConflict
		}
		return err
	}
	user.ID = res.InsertedID.(bson.ObjectID)
	return nil
}

// Update replaces the stored document for the given user.
func (s *UserStore) Update(ctx context.Context, user *domain.User) error {
	filter := bson.M{"_id": user.ID}
	res, err := s.db.Collection(userCollection).ReplaceOne(ctx, filter, user)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// FindByEmail retrieves a user by email address.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := s.db.Collection(userCollection).FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByID retrieves a user by their unique ID.
func (s *UserStore) FindByID(ctx context.Context, id bson.ObjectID) (*domain.User, error) {
	var user domain.User
	err := s.db.Collection(userCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}
