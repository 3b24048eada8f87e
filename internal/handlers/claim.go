package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/ecoconnect-dev/ecoconnect/internal/models"
	"github.com/ecoconnect-dev/ecoconnect/internal/store"
	"github.com/ecoconnect-dev/ecoconnect/internal/types"
	"github.com/ecoconnect-dev/ecoconnect/internal/utils"
	"github.com/ecoconnect-dev/ecoconnect/internal/ws"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ClaimHandler struct {
	Store  *store.Store
	Events *ws.Hub
}

type CreateClaimRequest struct {
	FoodListingID uint `json:"food_listing_id" binding:"required"`
}

type UpdateClaimStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func claimResponse(claim models.FoodClaim) types.FoodClaimResponse {
	return types.FoodClaimResponse{
		ID:            claim.ID,
		FoodListingID: claim.FoodListingID,
		ClaimedByID:   claim.ClaimedByID,
		PickupStatus:  claim.PickupStatus,
		ClaimedAt:     claim.ClaimedAt,
		CompletedAt:   claim.CompletedAt,
	}
}

func (h *ClaimHandler) Create(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateClaimRequest

	if err := ctx.BindJSON(&req); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	claim, err := h.Store.ClaimListing(req.FoodListingID, currentUser.ID, time.Now())

	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Listing not found"})
		case errors.Is(err, store.ErrListingUnavailable):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Listing is not available"})
		default:
			log.Printf("Failed to claim listing: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to claim listing"})
		}
		return
	}

	h.Events.Broadcast(ws.ListingEvent{
		Type:      "listing_claimed",
		ListingID: claim.FoodListingID,
		Status:    types.ListingClaimed,
	})

	ctx.JSON(http.StatusCreated, claimResponse(claim))
}

// UpdateStatus moves a claim's pickup status. Only the claim's owner
// or the listing's owning restaurant may do so.
func (h *ClaimHandler) UpdateStatus(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	claimID, err := utils.GetIDParam(ctx, "id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req UpdateClaimStatusRequest

	if err := ctx.BindJSON(&req); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	status, err := types.ParsePickupStatus(req.Status)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Status must be one of pending, completed"})
		return
	}

	claim, err := h.Store.GetFoodClaim(claimID)

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Claim not found"})
		} else {
			log.Printf("Failed to retrieve claim: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve claim"})
		}
		return
	}

	if claim.ClaimedByID != currentUser.ID {
		listing, err := h.Store.GetFoodListing(claim.FoodListingID)

		if err != nil || listing.RestaurantID != currentUser.ID {
			ctx.JSON(http.StatusForbidden, gin.H{"error": "Only the claimer or the listing owner may update this claim"})
			return
		}
	}

	if err := h.Store.UpdateClaimStatus(&claim, status, time.Now()); err != nil {
		log.Printf("Failed to update claim status: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update claim"})
		return
	}

	refreshed, err := h.Store.GetFoodClaim(claim.ID)

	if err != nil {
		log.Printf("Failed to refresh claim: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update claim"})
		return
	}

	if status == types.PickupCompleted {
		h.Events.Broadcast(ws.ListingEvent{
			Type:      "listing_completed",
			ListingID: claim.FoodListingID,
			Status:    types.ListingCompleted,
		})
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Claim status updated",
		"claim":   claimResponse(refreshed),
	})
}

func (h *ClaimHandler) My(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	claims, err := h.Store.GetFoodClaimsByUser(userID)

	if err != nil {
		log.Printf("Failed to retrieve claims: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve claims"})
		return
	}

	responses := make([]types.FoodClaimResponse, 0, len(claims))

	for _, claim := range claims {
		responses = append(responses, claimResponse(claim))
	}

	ctx.JSON(http.StatusOK, responses)
}
