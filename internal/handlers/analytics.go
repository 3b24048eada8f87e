package handlers

import (
	"log"
	"net/http"

	"github.com/ecoconnect-dev/ecoconnect/internal/store"
	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	Store *store.Store
}

func (h *AnalyticsHandler) Get(ctx *gin.Context) {
	analytics, err := h.Store.Analytics()

	if err != nil {
		log.Printf("Failed to compute analytics: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute analytics"})
		return
	}

	ctx.JSON(http.StatusOK, analytics)
}
