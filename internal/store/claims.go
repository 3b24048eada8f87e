package store

import (
	"errors"
	"time"

	"github.com/ecoconnect-dev/ecoconnect/internal/models"
	"github.com/ecoconnect-dev/ecoconnect/internal/types"
	"gorm.io/gorm"
)

// ClaimListing creates a claim and moves the listing out of
// availability in one transaction. The conditional update closes the
// window where two concurrent claims both observe an available
// listing: at most one of them affects a row, the other gets
// ErrListingUnavailable and no claim is written.
func (s *Store) ClaimListing(listingID, userID uint, now time.Time) (models.FoodClaim, error) {
	var claim models.FoodClaim

	err := s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.FoodListing{}).
			Where("id = ? AND status = ?", listingID, types.ListingAvailable).
			Update("status", types.ListingClaimed)

		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			var listing models.FoodListing

			if err := tx.First(&listing, listingID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return gorm.ErrRecordNotFound
				}
				return err
			}

			return ErrListingUnavailable
		}

		claim = models.FoodClaim{
			FoodListingID: listingID,
			ClaimedByID:   userID,
			PickupStatus:  types.PickupPending,
			ClaimedAt:     now,
		}

		return tx.Create(&claim).Error
	})

	if err != nil {
		return models.FoodClaim{}, err
	}

	return claim, nil
}

func (s *Store) GetFoodClaim(id uint) (models.FoodClaim, error) {
	var claim models.FoodClaim
	err := s.db.First(&claim, id).Error
	return claim, err
}

func (s *Store) GetFoodClaimsByUser(userID uint) ([]models.FoodClaim, error) {
	var claims []models.FoodClaim
	err := s.db.Where("claimed_by_id = ?", userID).Order("claimed_at DESC").Find(&claims).Error
	return claims, err
}

func (s *Store) GetFoodClaimsByListing(listingID uint) ([]models.FoodClaim, error) {
	var claims []models.FoodClaim
	err := s.db.Where("food_listing_id = ?", listingID).Order("claimed_at DESC").Find(&claims).Error
	return claims, err
}

// UpdateClaimStatus moves a claim's pickup status. Completion stamps
// CompletedAt and advances the listing from claimed to completed;
// moving back to pending clears the stamp.
func (s *Store) UpdateClaimStatus(claim *models.FoodClaim, status types.PickupStatus, now time.Time) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"pickup_status": status,
		}

		if status == types.PickupCompleted {
			updates["completed_at"] = now
		} else {
			updates["completed_at"] = nil
		}

		if err := tx.Model(claim).Updates(updates).Error; err != nil {
			return err
		}

		if status == types.PickupCompleted {
			return tx.Model(&models.FoodListing{}).
				Where("id = ? AND status = ?", claim.FoodListingID, types.ListingClaimed).
				Update("status", types.ListingCompleted).Error
		}

		return nil
	})
}
