package models

import (
	"time"

	"github.com/ecoconnect-dev/ecoconnect/internal/types"
	"gorm.io/gorm"
)

type FoodListing struct {
	gorm.Model

	RestaurantID      uint   `gorm:"not null;index"` // Foreign key to the owning restaurant User
	FoodName          string `gorm:"not null"`
	Quantity          int    `gorm:"not null"`
	PickupWindowStart *time.Time
	PickupWindowEnd   *time.Time
	Location          string
	Status            types.ListingStatus `gorm:"not null;default:available;index"`

	// Relationships
	Restaurant User        `gorm:"foreignKey:RestaurantID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Claims     []FoodClaim `gorm:"foreignKey:FoodListingID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
