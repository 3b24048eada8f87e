package types

import "fmt"

// Role identifies what kind of account a user holds. Free-form role
// strings are rejected at the boundary.
type Role string

const (
	RoleRestaurant Role = "restaurant"
	RoleNGO        Role = "ngo"
	RoleVolunteer  Role = "volunteer"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleRestaurant, RoleNGO, RoleVolunteer:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// ListingStatus is the lifecycle state of a food listing.
// Transitions only move forward: available -> claimed -> completed.
type ListingStatus string

const (
	ListingAvailable ListingStatus = "available"
	ListingClaimed   ListingStatus = "claimed"
	ListingCompleted ListingStatus = "completed"
)

func ParseListingStatus(s string) (ListingStatus, error) {
	switch ListingStatus(s) {
	case ListingAvailable, ListingClaimed, ListingCompleted:
		return ListingStatus(s), nil
	}
	return "", fmt.Errorf("unknown listing status %q", s)
}

// PickupStatus tracks a claim's own progress, independent of the
// listing status.
type PickupStatus string

const (
	PickupPending   PickupStatus = "pending"
	PickupCompleted PickupStatus = "completed"
)

func ParsePickupStatus(s string) (PickupStatus, error) {
	switch PickupStatus(s) {
	case PickupPending, PickupCompleted:
		return PickupStatus(s), nil
	}
	return "", fmt.Errorf("unknown pickup status %q", s)
}
