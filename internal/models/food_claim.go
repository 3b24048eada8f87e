package models

import (
	"time"

	"github.com/ecoconnect-dev/ecoconnect/internal/types"
	"gorm.io/gorm"
)

type FoodClaim struct {
	gorm.Model

	FoodListingID uint               `gorm:"not null;index"`
	ClaimedByID   uint               `gorm:"not null;index"`
	PickupStatus  types.PickupStatus `gorm:"not null;default:pending"`
	ClaimedAt     time.Time          `gorm:"not null"`
	CompletedAt   *time.Time

	// Relationships
	FoodListing FoodListing `gorm:"foreignKey:FoodListingID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	ClaimedBy   User        `gorm:"foreignKey:ClaimedByID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
