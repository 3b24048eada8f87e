package store

import (
	"github.com/ecoconnect-dev/ecoconnect/internal/models"
	"github.com/ecoconnect-dev/ecoconnect/internal/types"
)

func (s *Store) CreateFoodListing(listing *models.FoodListing) error {
	return s.db.Create(listing).Error
}

// GetFoodListings returns listings newest-first, optionally filtered
// by status.
func (s *Store) GetFoodListings(status *types.ListingStatus) ([]models.FoodListing, error) {
	var listings []models.FoodListing

	query := s.db.Order("created_at DESC")

	if status != nil {
		query = query.Where("status = ?", *status)
	}

	err := query.Find(&listings).Error
	return listings, err
}

func (s *Store) GetFoodListingsByRestaurant(restaurantID uint) ([]models.FoodListing, error) {
	var listings []models.FoodListing
	err := s.db.Where("restaurant_id = ?", restaurantID).Order("created_at DESC").Find(&listings).Error
	return listings, err
}

func (s *Store) GetFoodListing(id uint) (models.FoodListing, error) {
	var listing models.FoodListing
	err := s.db.First(&listing, id).Error
	return listing, err
}

func (s *Store) UpdateFoodListingStatus(id uint, status types.ListingStatus) error {
	return s.db.Model(&models.FoodListing{}).Where("id = ?", id).Update("status", status).Error
}
