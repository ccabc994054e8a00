package mongo

import (
	"context"
	"errors"

	"github.com/rahulkpr2510/droply/internal/domain"
	"github.com/rahulkpr2510/droply/internal/store"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

const fileCollection = "files"

// FileStore is the MongoDB implementation of the store.FileStore interface.
type FileStore struct {
	db *mongo.Database
}

// NewFileStore creates a new FileStore.
func NewFileStore(db *mongo.Database) *FileStore {
	return &FileStore{db: db}
}

// Create inserts a new file record into the files collection.
func (s *FileStore) Create(ctx context.Context, file *domain.File) error {
	res, err := s.db.Collection(fileCollection).InsertOne(ctx, file)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return store.ErrConflict
		}
		return err
	}
	file.ID = res.InsertedID.(bson.ObjectID)
	return nil
}

// FindByID finds a file record by its ID, ensuring it belongs to the specified owner.
func (s *FileStore) FindByID(ctx context.Context, ownerID, fileID bson.ObjectID) (*domain.File, error) {
	var file domain.File
	filter := bson.M{
		"_id":   fileID,
		"owner": ownerID,
	}

	err := s.db.Collection(fileCollection).FindOne(ctx, filter).Decode(&file)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &file, nil
}

// List retrieves all file records owned by ownerID directly under parentID.
// A nil parentID matches root-level records, whose parent field is null.
func (s *FileStore) List(ctx context.Context, ownerID bson.ObjectID, parentID *string) ([]*domain.File, error) {
	filter := bson.M{
		"owner":   ownerID,
		"trashed": bson.M{"$ne": true}, // Exclude trashed records
	}
	if parentID != nil {
		filter["parent"] = *parentID
	} else {
		filter["parent"] = nil
	}

	cursor, err := s.db.Collection(fileCollection).Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var files []*domain.File
	if err := cursor.All(ctx, &files); err != nil {
		return nil, err
	}

	return files, nil
}
