// Package models contains data structures for the application's domain models.
package models

import (
	"path"
	"strings"
	"time"

	"gorm.io/gorm"
)

// MaxCampgroundImages caps how many images a single campground may carry.
const MaxCampgroundImages = 10

// Campground represents a campground listing in the Campwild application.
type Campground struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Title       string  `gorm:"not null" json:"title"`
	Price       float64 `gorm:"not null" json:"price"`
	Location    string  `gorm:"not null" json:"location"`
	Description string  `gorm:"type:text;not null" json:"description"`
	AuthorID    uint    `gorm:"not null;index" json:"author_id"`
	Author      User    `gorm:"foreignKey:AuthorID" json:"author"`
	Images      []Image `gorm:"foreignKey:CampgroundID" json:"images"`
	Reviews     []Review `gorm:"foreignKey:CampgroundID" json:"reviews,omitempty"`
	// ReviewsCount is not persisted; computed at query time
	ReviewsCount int `gorm:"->" json:"reviews_count"`
	// AvgRating is not persisted; computed at query time
	AvgRating float64        `gorm:"->" json:"avg_rating"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// OwnerID implements Owned; only the author may mutate a campground.
func (c *Campground) OwnerID() uint {
	return c.AuthorID
}

// Image is a single stored photo attached to a campground.
type Image struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	CampgroundID uint   `gorm:"not null;index" json:"campground_id"`
	URL          string `gorm:"not null" json:"url"`
	Filename     string `gorm:"not null;index" json:"filename"`
	// Thumbnail is derived from URL; never persisted.
	Thumbnail string    `gorm:"-" json:"thumbnail"`
	CreatedAt time.Time `json:"created_at"`
}

// ThumbnailURL derives the 200px-wide variant URL by rewriting the upload
// path. Thumbnails are stored as WebP, so the extension changes with the path.
func (i *Image) ThumbnailURL() string {
	thumb := strings.Replace(i.URL, "/upload", "/upload/w_200", 1)
	return strings.TrimSuffix(thumb, path.Ext(thumb)) + ".webp"
}

// AfterFind populates the derived thumbnail URL on loaded records.
func (i *Image) AfterFind(_ *gorm.DB) error {
	i.Thumbnail = i.ThumbnailURL()
	return nil
}
