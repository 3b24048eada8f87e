package handlers

import (
	"log"
	"net/http"

	"github.com/ecoconnect-dev/ecoconnect/internal/models"
	"github.com/ecoconnect-dev/ecoconnect/internal/store"
	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	Store *store.Store
}

type ContactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Message string `json:"message" binding:"required"`
}

func (h *ContactHandler) Create(ctx *gin.Context) {
	var req ContactRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid form data",
			"error":   err.Error(),
		})
		return
	}

	submission := models.ContactSubmission{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	}

	if err := h.Store.CreateContactSubmission(&submission); err != nil {
		log.Printf("Failed to create contact submission: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Internal server error",
		})
		return
	}

	log.Printf("Contact form submission received: id=%d name=%s email=%s", submission.ID, submission.Name, submission.Email)

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Contact form submitted successfully",
		"id":      submission.ID,
	})
}
