package models

import (
	"github.com/ecoconnect-dev/ecoconnect/internal/types"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model

	Username     string     `gorm:"uniqueIndex;not null"`
	Email        string     `gorm:"uniqueIndex;not null"`
	PasswordHash string     `gorm:"not null"`
	Role         types.Role `gorm:"not null"`

	// SupabaseID is the provider-issued identity reference. Nil until
	// the account is linked; at most one local user per reference.
	SupabaseID       *string        `gorm:"uniqueIndex"`
	ProviderMetadata datatypes.JSON `gorm:"type:jsonb"`

	OrganizationName string
	Phone            string
	Address          string

	// Relationships
	FoodListings []FoodListing `gorm:"foreignKey:RestaurantID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	FoodClaims   []FoodClaim   `gorm:"foreignKey:ClaimedByID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
