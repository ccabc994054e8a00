package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// File represents a single entry in a user's drive. Entries form a forest:
// each has at most one parent (another File acting as a folder) and root
// entries have a nil ParentID. The file bytes themselves live on the media
// CDN; this document only records metadata and the CDN URLs.
type File struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string        `bson:"name" json:"name"`
	Path         string        `bson:"path" json:"path"`
	Size         int64         `bson:"size" json:"size"`
	Type         string        `bson:"type" json:"type"` // MIME type, or "folder"
	FileURL      string        `bson:"fileUrl" json:"fileUrl"`
	ThumbnailURL string        `bson:"thumbnailUrl,omitempty" json:"thumbnailUrl,omitempty"`
	OwnerID      bson.ObjectID `bson:"owner" json:"userId"`
	ParentID     *string       `bson:"parent" json:"parentId"` // nil for root-level entries
	IsFolder     bool          `bson:"isFolder" json:"isFolder"`
	Starred      bool          `bson:"starred,omitempty" json:"starred,omitempty"`
	Trashed      bool          `bson:"trashed,omitempty" json:"trashed,omitempty"`
	CreatedAt    time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time     `bson:"updatedAt" json:"updatedAt"`
}
