// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// DefaultBio is assigned to users who have not written a biography yet.
const DefaultBio = "Tell us about yourself!"

// User represents a registered user of the Campwild application.
type User struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Username    string         `gorm:"unique;not null" json:"username"`
	Email       string         `gorm:"unique;not null" json:"email"`
	Password    string         `gorm:"not null" json:"-"`
	Name        string         `gorm:"not null" json:"name"`
	Bio         string         `json:"bio"`
	TOSAccepted bool           `gorm:"not null;default:false" json:"tos_accepted"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Campgrounds []Campground   `gorm:"foreignKey:AuthorID" json:"campgrounds,omitempty"`
}

// OwnerID implements Owned; a profile is owned by the user it belongs to.
func (u *User) OwnerID() uint {
	return u.ID
}

// BeforeCreate fills in the placeholder biography for users who left it blank.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.Bio == "" {
		u.Bio = DefaultBio
	}
	return nil
}
