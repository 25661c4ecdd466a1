package database

import "campwild/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Campground{},
		&models.Image{},
		&models.Review{},
	}
}
