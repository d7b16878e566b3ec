package photo

import (
	"net/http"
	"time"

	"github.com/unispace-app/unispace-backend/internal/pkg/apperror"
)

var (
	ErrNotFound    = apperror.New(http.StatusNotFound, "Photo not found")
	ErrNotAnImage  = apperror.New(http.StatusBadRequest, "Uploaded file must be an image")
	ErrNoThumbnail = apperror.New(http.StatusNotFound, "Photo has no thumbnail")
)

// Photo is an uploaded facility image.
type Photo struct {
	ID            string // UUID
	UploadedBy    string
	Filename      string
	StoragePath   string  // internal, never exposed
	ThumbnailPath *string // internal, never exposed
	ContentType   string
	Size          int64
	CreatedAt     time.Time
}

// URL returns the public URL for downloading the photo.
func URL(id string) string {
	return "/files/" + id
}

// ThumbnailURL returns the public URL for the photo's thumbnail.
func ThumbnailURL(id string) string {
	return "/files/" + id + "/thumbnail"
}
