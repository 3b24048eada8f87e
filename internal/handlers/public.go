package handlers

import (
	"log"
	"net/http"

	"github.com/ecoconnect-dev/ecoconnect/internal/models"
	"github.com/ecoconnect-dev/ecoconnect/internal/store"
	"github.com/ecoconnect-dev/ecoconnect/internal/types"
	"github.com/gin-gonic/gin"
)

type PublicHandler struct {
	Store   *store.Store
	Reviews store.ReviewStore
}

type PublicProfile struct {
	ID               uint   `json:"id"`
	Username         string `json:"username"`
	OrganizationName string `json:"organization_name,omitempty"`
	Address          string `json:"address,omitempty"`
}

type CreateReviewRequest struct {
	ReviewerName string `json:"reviewer_name" binding:"required"`
	Rating       int    `json:"rating" binding:"required,min=1,max=5"`
	Comment      string `json:"comment"`
}

func publicProfiles(users []models.User) []PublicProfile {
	profiles := make([]PublicProfile, 0, len(users))

	for _, user := range users {
		profiles = append(profiles, PublicProfile{
			ID:               user.ID,
			Username:         user.Username,
			OrganizationName: user.OrganizationName,
			Address:          user.Address,
		})
	}

	return profiles
}

func (h *PublicHandler) Profiles(ctx *gin.Context) {
	restaurants, err := h.Store.GetUsersByRole(types.RoleRestaurant)

	if err != nil {
		log.Printf("Failed to retrieve restaurant profiles: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve profiles"})
		return
	}

	ngos, err := h.Store.GetUsersByRole(types.RoleNGO)

	if err != nil {
		log.Printf("Failed to retrieve NGO profiles: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve profiles"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"restaurants": publicProfiles(restaurants),
		"ngos":        publicProfiles(ngos),
	})
}

func reviewResponse(review models.Review) types.ReviewResponse {
	return types.ReviewResponse{
		ID:           review.ID,
		ReviewerName: review.ReviewerName,
		Rating:       review.Rating,
		Comment:      review.Comment,
		CreatedAt:    review.CreatedAt,
	}
}

func (h *PublicHandler) ListReviews(ctx *gin.Context) {
	if h.Reviews == nil {
		ctx.JSON(http.StatusNotImplemented, gin.H{"error": "Review storage is not supported"})
		return
	}

	reviews, err := h.Reviews.ListReviews()

	if err != nil {
		log.Printf("Failed to retrieve reviews: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve reviews"})
		return
	}

	responses := make([]types.ReviewResponse, 0, len(reviews))

	for _, review := range reviews {
		responses = append(responses, reviewResponse(review))
	}

	ctx.JSON(http.StatusOK, responses)
}

func (h *PublicHandler) CreateReview(ctx *gin.Context) {
	if h.Reviews == nil {
		ctx.JSON(http.StatusNotImplemented, gin.H{"error": "Review storage is not supported"})
		return
	}

	var req CreateReviewRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	review := models.Review{
		ReviewerName: req.ReviewerName,
		Rating:       req.Rating,
		Comment:      req.Comment,
	}

	if err := h.Reviews.CreateReview(&review); err != nil {
		log.Printf("Failed to create review: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create review"})
		return
	}

	ctx.JSON(http.StatusCreated, reviewResponse(review))
}
