package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rahulkpr2510/droply/internal/domain"
	"github.com/rahulkpr2510/droply/internal/service"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// FileHandler holds the dependencies for file-related HTTP handlers.
type FileHandler struct {
	service service.FileService
}

// NewFileHandler creates a new FileHandler with its dependencies.
func NewFileHandler(svc service.FileService) *FileHandler {
	return &FileHandler{service: svc}
}

// --- Request/Response Structs with Validation ---

type createFileRequest struct {
	Name         string  `json:"name"`
	ParentID     *string `json:"parentId"` // null or absent for a root-level record
	Size         int64   `json:"size"`
	Type         string  `json:"type"`
	FileURL      string  `json:"fileUrl"`
	ThumbnailURL string  `json:"thumbnailUrl"`
	IsFolder     bool    `json:"isFolder"`
}

// Validate checks the fields of the createFileRequest struct.
func (r *createFileRequest) Validate() error {
	if len(r.Name) < 1 || len(r.Name) > 256 {
		return errors.New("name must be between 1 and 256 characters")
	}
	if r.ParentID != nil {
		if _, err := bson.ObjectIDFromHex(*r.ParentID); err != nil {
			return errors.New("parentId must be a valid object ID string")
		}
	}
	if r.Size < 0 {
		return errors.New("size must not be negative")
	}
	if !r.IsFolder && r.FileURL == "" {
		return errors.New("fileUrl is required for non-folder records")
	}
	return nil
}

// --- Handlers ---

// GetList handles the GET /api/files endpoint.
//
// The userId query parameter must equal the caller's verified identity
// exactly; a missing or mismatched value is rejected before any store query.
// This is a capability check on top of the identity-scoped query itself, so a
// caller can never request another user's listing.
func (h *FileHandler) GetList(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, NewUnauthorizedError("Unauthorized"))
		return
	}

	query := r.URL.Query()
	if queryUserID := query.Get("userId"); queryUserID == "" || queryUserID != userID {
		writeJSON(w, http.StatusUnauthorized, NewUnauthorizedError("Unauthorized"))
		return
	}

	// An absent parentId selects root-level records (parent is null).
	var parentID *string
	if p := query.Get("parentId"); p != "" {
		parentID = &p
	}

	ownerID, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, NewUnauthorizedError("Unauthorized"))
		return
	}

	files, err := h.service.ListFiles(r.Context(), ownerID, parentID)
	if err != nil {
		// All-or-nothing: a store fault yields the fixed generic message
		// and no partial results.
		writeJSON(w, http.StatusInternalServerError, &APIError{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch files",
		})
		return
	}

	// Ensure we return an empty array `[]` instead of `null` if no files are found.
	if files == nil {
		files = []*domain.File{}
	}

	writeJSON(w, http.StatusOK, files)
}

// Create handles the POST /api/files endpoint. The client uploads bytes to
// the media CDN first and then records the resulting metadata here.
func (h *FileHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, NewUnauthorizedError("Unauthorized"))
		return
	}

	ownerID, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, NewUnauthorizedError("Unauthorized"))
		return
	}

	var req createFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, NewBadRequestError("Invalid request body"))
		return
	}

	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, NewBadRequestError(err.Error()))
		return
	}

	file, err := h.service.CreateFile(r.Context(), ownerID, service.NewFile{
		Name:         req.Name,
		ParentID:     req.ParentID,
		Size:         req.Size,
		Type:         req.Type,
		FileURL:      req.FileURL,
		ThumbnailURL: req.ThumbnailURL,
		IsFolder:     req.IsFolder,
	})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, FromServiceError(err))
		return
	}

	writeJSON(w, http.StatusCreated, file)
}
