package seeders

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/roastery/app/models"
	"github.com/shashiranjanraj/roastery/pkg/auth"
)

func init() {
	Register("admin", SeedAdmin)
}

// SeedAdmin creates the default admin account if it does not exist yet.
func SeedAdmin(db *gorm.DB) error {
	var n int64
	if err := db.Model(&models.User{}).Where("email = ?", "admin@roastery.local").Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	hash, err := auth.HashPassword("changeme123")
	if err != nil {
		return err
	}

	admin := models.User{
		FirstName: "Admin",
		LastName:  "Roastery",
		Email:     "admin@roastery.local",
		Password:  hash,
		Role:      "admin",
	}
	return db.Create(&admin).Error
}
