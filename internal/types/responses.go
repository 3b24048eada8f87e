package types

import "time"

type UserResponse struct {
	ID               uint   `json:"id"`
	Username         string `json:"username"`
	Email            string `json:"email"`
	Role             Role   `json:"role"`
	OrganizationName string `json:"organization_name,omitempty"`
	Phone            string `json:"phone,omitempty"`
	Address          string `json:"address,omitempty"`
}

type FoodListingResponse struct {
	ID                uint          `json:"id"`
	RestaurantID      uint          `json:"restaurant_id"`
	FoodName          string        `json:"food_name"`
	Quantity          int           `json:"quantity"`
	PickupWindowStart *time.Time    `json:"pickup_window_start"`
	PickupWindowEnd   *time.Time    `json:"pickup_window_end"`
	Location          string        `json:"location"`
	Status            ListingStatus `json:"status"`
	CreatedAt         time.Time     `json:"created_at"`
}

type FoodClaimResponse struct {
	ID            uint         `json:"id"`
	FoodListingID uint         `json:"food_listing_id"`
	ClaimedByID   uint         `json:"claimed_by_id"`
	PickupStatus  PickupStatus `json:"pickup_status"`
	ClaimedAt     time.Time    `json:"claimed_at"`
	CompletedAt   *time.Time   `json:"completed_at"`
}

type ReviewResponse struct {
	ID           uint      `json:"id"`
	ReviewerName string    `json:"reviewer_name"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	CreatedAt    time.Time `json:"created_at"`
}
