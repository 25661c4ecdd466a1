package repository

import (
	"campwild/internal/database"

	"gorm.io/gorm"
)

// readDB returns the read replica when one is configured, otherwise the
// primary. Write paths always go through the primary.
func readDB(primary *gorm.DB) *gorm.DB {
	if db := database.GetReadDB(); db != nil {
		return db
	}
	return primary
}
