package photo

import (
	"io"
	"time"
)

// Photo is an image in a guesthouse gallery. URL points at a live blob.
type Photo struct {
	ID           string    `json:"id"`
	GuesthouseID string    `json:"guesthouse_id"`
	URL          string    `json:"url"`
	Caption      *string   `json:"caption"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`

	// ManagerID is the manager of the owning guesthouse; set by single-photo lookups.
	ManagerID *string `json:"-"`
}

// Upload is one file submitted for a guesthouse gallery.
type Upload struct {
	FileName string
	Body     io.Reader
	Caption  *string
}

const (
	FieldFile     = "file"
	FieldCaption  = "caption"
	FieldPhotoIDs = "photo_ids"
)

const maxCaptionLength = 500

// Accepted image types. SVG is left out: it can carry script.
var allowedTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
	"image/avif",
	"image/heic",
}
