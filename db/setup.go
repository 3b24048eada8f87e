package db

import (
	"github.com/ecoconnect-dev/ecoconnect/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}

// Migrate creates any missing tables. The reviews table is only
// created when the deployment enables review storage.
func Migrate(gdb *gorm.DB, withReviews bool) error {
	entities := []interface{}{
		&models.User{},
		&models.ContactSubmission{},
		&models.FoodListing{},
		&models.FoodClaim{},
	}

	if withReviews {
		entities = append(entities, &models.Review{})
	}

	migrator := gdb.Migrator()

	for _, entity := range entities {
		if !migrator.HasTable(entity) {
			if err := gdb.AutoMigrate(entity); err != nil {
				return err
			}
		}
	}

	return nil
}
