package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/ecoconnect-dev/ecoconnect/internal/models"
	"github.com/ecoconnect-dev/ecoconnect/internal/store"
	"github.com/ecoconnect-dev/ecoconnect/internal/types"
	"github.com/ecoconnect-dev/ecoconnect/internal/utils"
	"github.com/ecoconnect-dev/ecoconnect/internal/ws"
	"github.com/gin-gonic/gin"
)

type ListingHandler struct {
	Store  *store.Store
	Events *ws.Hub
}

// CreateListingRequest deliberately has no restaurant field: the owner
// is always the authenticated user.
type CreateListingRequest struct {
	FoodName          string `json:"food_name" binding:"required"`
	Quantity          int    `json:"quantity" binding:"min=0"`
	PickupWindowStart string `json:"pickup_window_start"`
	PickupWindowEnd   string `json:"pickup_window_end"`
	Location          string `json:"location"`
}

func listingResponse(listing models.FoodListing) types.FoodListingResponse {
	return types.FoodListingResponse{
		ID:                listing.ID,
		RestaurantID:      listing.RestaurantID,
		FoodName:          listing.FoodName,
		Quantity:          listing.Quantity,
		PickupWindowStart: listing.PickupWindowStart,
		PickupWindowEnd:   listing.PickupWindowEnd,
		Location:          listing.Location,
		Status:            listing.Status,
		CreatedAt:         listing.CreatedAt,
	}
}

func listingResponses(listings []models.FoodListing) []types.FoodListingResponse {
	responses := make([]types.FoodListingResponse, 0, len(listings))

	for _, listing := range listings {
		responses = append(responses, listingResponse(listing))
	}

	return responses
}

func parseTimestamp(ctx *gin.Context, value, field string) (*time.Time, bool) {
	if value == "" {
		return nil, true
	}

	parsed, err := time.Parse(time.RFC3339, value)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": field + " must be an RFC3339 timestamp"})
		return nil, false
	}

	return &parsed, true
}

func (h *ListingHandler) Create(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateListingRequest

	if err := ctx.BindJSON(&req); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	start, ok := parseTimestamp(ctx, req.PickupWindowStart, "pickup_window_start")
	if !ok {
		return
	}

	end, ok := parseTimestamp(ctx, req.PickupWindowEnd, "pickup_window_end")
	if !ok {
		return
	}

	if start != nil && end != nil && end.Before(*start) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Pickup window must not end before it starts"})
		return
	}

	listing := models.FoodListing{
		RestaurantID:      currentUser.ID,
		FoodName:          req.FoodName,
		Quantity:          req.Quantity,
		PickupWindowStart: start,
		PickupWindowEnd:   end,
		Location:          req.Location,
		Status:            types.ListingAvailable,
	}

	if err := h.Store.CreateFoodListing(&listing); err != nil {
		log.Printf("Failed to create food listing: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create listing"})
		return
	}

	h.Events.Broadcast(ws.ListingEvent{
		Type:      "listing_created",
		ListingID: listing.ID,
		Status:    listing.Status,
	})

	ctx.JSON(http.StatusCreated, listingResponse(listing))
}

func (h *ListingHandler) List(ctx *gin.Context) {
	var status *types.ListingStatus

	if raw := ctx.Query("status"); raw != "" {
		parsed, err := types.ParseListingStatus(raw)

		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Status must be one of available, claimed, completed"})
			return
		}

		status = &parsed
	}

	listings, err := h.Store.GetFoodListings(status)

	if err != nil {
		log.Printf("Failed to retrieve food listings: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve listings"})
		return
	}

	ctx.JSON(http.StatusOK, listingResponses(listings))
}

func (h *ListingHandler) My(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	listings, err := h.Store.GetFoodListingsByRestaurant(userID)

	if err != nil {
		log.Printf("Failed to retrieve own listings: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve listings"})
		return
	}

	ctx.JSON(http.StatusOK, listingResponses(listings))
}
