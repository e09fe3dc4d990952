package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

var ErrStorageDisabled = errors.New("object storage is disabled")

// FileStorage stores uploaded training plan photos.
type FileStorage interface {
	// Upload writes body under objectKey.
	Upload(ctx context.Context, objectKey, contentType string, body []byte) error

	// GeneratePresignedDownloadURL creates a temporary URL that allows GET requests
	// for viewing an object directly from the storage provider.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	DeleteObject(ctx context.Context, objectKey string) error
}

var extensions = map[string]string{
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
	"image/heic": "heic",
}

// PlanPhotoKey builds the object key of a plan photo: <userId>/<uuid>.<ext>.
func PlanPhotoKey(userID, contentType string) string {
	ext, ok := extensions[contentType]
	if !ok {
		ext = "bin"
	}
	return fmt.Sprintf("%s/%s.%s", userID, uuid.NewString(), ext)
}

// noopStorage is used when no bucket is configured. Uploads are dropped.
type noopStorage struct{}

func NewNoopStorage() FileStorage {
	return noopStorage{}
}

func (noopStorage) Upload(context.Context, string, string, []byte) error {
	return nil
}

func (noopStorage) GeneratePresignedDownloadURL(context.Context, string, time.Duration) (string, error) {
	return "", ErrStorageDisabled
}

func (noopStorage) DeleteObject(context.Context, string) error {
	return nil
}
