// AngelaMos | 2026
// storage.go

package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/carterperez-dev/templates/marketplace-api/internal/config"
)

// Store writes objects at caller-chosen keys. Putting an existing key
// replaces the object.
type Store interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	URL(key string) string
	Ping(ctx context.Context) error
}

// File is an upload taken off a multipart form.
type File struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

var imageExtensions = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
}

// Extension returns the lower-case extension of the upload without the dot.
func (f File) Extension() string {
	return strings.TrimPrefix(strings.ToLower(path.Ext(f.Filename)), ".")
}

func (f File) IsImage() bool {
	_, ok := imageExtensions[f.Extension()]
	return ok
}

// MediaType prefers the extension's type over what the client claimed.
func (f File) MediaType() string {
	if ct, ok := imageExtensions[f.Extension()]; ok {
		return ct
	}
	if f.ContentType != "" {
		return f.ContentType
	}
	return "application/octet-stream"
}

func ProfilePictureKey(userID int64, ext string) string {
	return fmt.Sprintf("profile_pictures/user_%d/profile.%s", userID, ext)
}

func OfferImageKey(ownerID int64, ext string) string {
	return fmt.Sprintf("offers/offer_%d/logo.%s", ownerID, ext)
}

// New builds the Store selected by cfg.Driver.
func New(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case config.StorageDriverS3:
		return NewS3Store(ctx, cfg)
	case config.StorageDriverMinio:
		return NewMinioStore(ctx, cfg)
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}

func objectURL(publicURL, bucket, key string) string {
	if publicURL == "" {
		return "/" + bucket + "/" + key
	}
	return strings.TrimRight(publicURL, "/") + "/" + key
}
