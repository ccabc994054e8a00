package api

import (
	"net/http"

	"github.com/rahulkpr2510/droply/internal/platform/media"
)

// MediaHandler holds the dependencies for media-CDN-related HTTP handlers.
type MediaHandler struct {
	authorizer media.UploadAuthorizer
}

// NewMediaHandler creates a new MediaHandler with its dependencies.
func NewMediaHandler(authorizer media.UploadAuthorizer) *MediaHandler {
	return &MediaHandler{authorizer: authorizer}
}

// UploadAuth handles the GET /api/imagekit-auth endpoint. It returns the
// signed upload-authentication parameters an authenticated client presents to
// the media CDN to push file bytes directly. The parameter structure is
// opaque and passed through unchanged.
func (h *MediaHandler) UploadAuth(w http.ResponseWriter, r *http.Request) {
	if _, ok := GetUserIDFromContext(r.Context()); !ok {
		writeJSON(w, http.StatusUnauthorized, NewUnauthorizedError("Unauthorized"))
		return
	}

	params, err := h.authorizer.AuthParams()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, &APIError{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate ImageKit authentication parameters",
		})
		return
	}

	writeJSON(w, http.StatusOK, params)
}
