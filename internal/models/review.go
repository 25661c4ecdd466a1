// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Review represents a user's review of a campground.
type Review struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Rating       int            `gorm:"not null" json:"rating"`
	Body         string         `gorm:"type:text;not null" json:"body"`
	AuthorID     uint           `gorm:"not null;index" json:"author_id"`
	Author       User           `gorm:"foreignKey:AuthorID" json:"author"`
	CampgroundID uint           `gorm:"not null;index" json:"campground_id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// OwnerID implements Owned; only the review's author may delete it.
func (r *Review) OwnerID() uint {
	return r.AuthorID
}
