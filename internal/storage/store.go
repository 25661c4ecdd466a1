// Package storage persists uploaded campground images and derives their
// display thumbnails.
package storage

import "context"

// Upload is a raw file received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Content     []byte
}

// StoredImage describes a persisted image.
type StoredImage struct {
	// URL is the public path the image is served from.
	URL string
	// Filename is the stable identifier used to delete the image later.
	Filename string
}

// ImageStore persists and removes campground images.
type ImageStore interface {
	Store(ctx context.Context, upload Upload) (*StoredImage, error)
	Delete(ctx context.Context, filename string) error
}
