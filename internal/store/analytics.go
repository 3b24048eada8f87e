package store

import (
	"github.com/ecoconnect-dev/ecoconnect/internal/models"
	"github.com/ecoconnect-dev/ecoconnect/internal/types"
)

type Analytics struct {
	TotalMealsSaved   int   `json:"totalMealsSaved"`
	ActiveRestaurants int64 `json:"activeRestaurants"`
	ActiveVolunteers  int64 `json:"activeVolunteers"`
	TotalListings     int64 `json:"totalListings"`
}

// Analytics derives the summary counters from current entity state on
// every call. The left join lets a completed claim whose listing has
// been deleted contribute zero meals instead of failing.
func (s *Store) Analytics() (Analytics, error) {
	var result Analytics

	var meals int
	err := s.db.Model(&models.FoodClaim{}).
		Joins("LEFT JOIN food_listings ON food_listings.id = food_claims.food_listing_id AND food_listings.deleted_at IS NULL").
		Where("food_claims.pickup_status = ?", types.PickupCompleted).
		Select("COALESCE(SUM(food_listings.quantity), 0)").
		Scan(&meals).Error

	if err != nil {
		return Analytics{}, err
	}

	result.TotalMealsSaved = meals

	restaurants, err := s.CountUsersByRole(types.RoleRestaurant)
	if err != nil {
		return Analytics{}, err
	}
	result.ActiveRestaurants = restaurants

	volunteers, err := s.CountUsersByRole(types.RoleVolunteer)
	if err != nil {
		return Analytics{}, err
	}

	ngos, err := s.CountUsersByRole(types.RoleNGO)
	if err != nil {
		return Analytics{}, err
	}
	result.ActiveVolunteers = volunteers + ngos

	err = s.db.Model(&models.FoodListing{}).Count(&result.TotalListings).Error
	if err != nil {
		return Analytics{}, err
	}

	return result, nil
}
