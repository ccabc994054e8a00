package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rahulkpr2510/droply/internal/domain"
	"github.com/rahulkpr2510/droply/internal/store"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// FileService defines the interface for file-record business logic.
// We define an interface to allow for mock implementations in tests.
type FileService interface {
	// ListFiles returns every record owned by ownerID whose parent equals
	// parentID. A nil parentID selects root-level records. The result is
	// all-or-nothing: any store fault yields an error and no records.
	ListFiles(ctx context.Context, ownerID bson.ObjectID, parentID *string) ([]*domain.File, error)

	// CreateFile records the metadata of a file whose bytes were already
	// pushed to the media CDN by the client.
	CreateFile(ctx context.Context, ownerID bson.ObjectID, in NewFile) (*domain.File, error)
}

// NewFile carries the attributes of a record to create.
type NewFile struct {
	Name         string
	ParentID     *string
	Size         int64
	Type         string
	FileURL      string
	ThumbnailURL string
	IsFolder     bool
}

// fileService is the concrete implementation of the FileService interface.
type fileService struct {
	fileStore store.FileStore
}

// NewFileService creates a new instance of the file service.
func NewFileService(fileStore store.FileStore) FileService {
	return &fileService{fileStore: fileStore}
}

// ListFiles retrieves the records directly under the given parent.
func (s *fileService) ListFiles(ctx context.Context, ownerID bson.ObjectID, parentID *string) ([]*domain.File, error) {
	files, err := s.fileStore.List(ctx, ownerID, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list files from store: %w", err)
	}
	return files, nil
}

// CreateFile handles the business logic for recording an uploaded file.
func (s *fileService) CreateFile(ctx context.Context, ownerID bson.ObjectID, in NewFile) (*domain.File, error) {
	if in.Name == "" {
		return nil, errors.New("file name cannot be empty")
	}

	path := "/" + in.Name
	if in.ParentID != nil {
		pID, err := bson.ObjectIDFromHex(*in.ParentID)
		if err != nil {
			return nil, fmt.Errorf("invalid parent ID format: %w", err)
		}

		parent, err := s.fileStore.FindByID(ctx, ownerID, pID)
		if err != nil {
			return nil, fmt.Errorf("could not find parent folder: %w", err)
		}
		if !parent.IsFolder {
			return nil, errors.New("parent record is not a folder")
		}
		path = parent.Path + "/" + in.Name
	}

	now := time.Now()
	file := &domain.File{
		Name:         in.Name,
		Path:         path,
		Size:         in.Size,
		Type:         in.Type,
		FileURL:      in.FileURL,
		ThumbnailURL: in.ThumbnailURL,
		OwnerID:      ownerID,
		ParentID:     in.ParentID,
		IsFolder:     in.IsFolder,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.fileStore.Create(ctx, file); err != nil {
		return nil, fmt.Errorf("failed to create file record in store: %w", err)
	}

	return file, nil
}
