package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/ecoconnect-dev/ecoconnect/internal/auth"
	"github.com/ecoconnect-dev/ecoconnect/internal/identity"
	"github.com/ecoconnect-dev/ecoconnect/internal/models"
	"github.com/ecoconnect-dev/ecoconnect/internal/store"
	"github.com/ecoconnect-dev/ecoconnect/internal/supabase"
	"github.com/ecoconnect-dev/ecoconnect/internal/types"
	"github.com/ecoconnect-dev/ecoconnect/internal/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AuthHandler struct {
	Store      *store.Store
	Provider   supabase.AuthAPI
	Reconciler *identity.Reconciler
	Tokens     *auth.JWT
	Domain     string
}

type RegisterRequest struct {
	Email            string `json:"email" binding:"required,email"`
	Password         string `json:"password" binding:"required,min=8"`
	Role             string `json:"role" binding:"required"`
	Username         string `json:"username"`
	OrganizationName string `json:"organization_name"`
	Phone            string `json:"phone"`
	Address          string `json:"address"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type SSORequest struct {
	AccessToken string `json:"access_token"`
	Email       string `json:"email"`
	Role        string `json:"role"`
}

type UpdateProfileRequest struct {
	Username         string `json:"username"`
	OrganizationName string `json:"organization_name"`
	Phone            string `json:"phone"`
	Address          string `json:"address"`
}

func userResponse(user models.User) types.UserResponse {
	return types.UserResponse{
		ID:               user.ID,
		Username:         user.Username,
		Email:            user.Email,
		Role:             user.Role,
		OrganizationName: user.OrganizationName,
		Phone:            user.Phone,
		Address:          user.Address,
	}
}

func (h *AuthHandler) setSessionCookie(ctx *gin.Context, token string, maxAge int) {
	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		Domain:   h.Domain,
		MaxAge:   maxAge,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})
}

func (h *AuthHandler) startSession(ctx *gin.Context, user models.User) (string, bool) {
	token, err := h.Tokens.Generate(user.ID, user.Email)

	if err != nil {
		log.Printf("Failed to generate JWT: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return "", false
	}

	h.setSessionCookie(ctx, token, 60*60*24*7)
	return token, true
}

// providerStatus maps a provider error onto the HTTP taxonomy,
// surfacing the provider's own message when it sent one.
func providerStatus(err error, authFailure int) (int, string) {
	var apiErr *supabase.APIError

	if errors.As(err, &apiErr) {
		if apiErr.Status >= 500 {
			return http.StatusInternalServerError, "Identity provider is unavailable"
		}
		if apiErr.Message != "" {
			return authFailure, apiErr.Message
		}
	}

	return authFailure, "Unauthorized"
}

// Register forwards registration to the identity provider, then
// reconciles the created provider user into a local account.
func (h *AuthHandler) Register(ctx *gin.Context) {
	var req RegisterRequest

	if err := ctx.BindJSON(&req); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	role, err := types.ParseRole(req.Role)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Role must be one of restaurant, ngo, volunteer"})
		return
	}

	if h.Provider == nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Identity provider is not configured"})
		return
	}

	// Check the requested username before touching the provider, so a
	// collision does not leave a provider account behind a 400.
	if req.Username != "" {
		if ok := h.usernameAvailable(ctx, strings.TrimSpace(req.Username)); !ok {
			return
		}
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	providerUser, err := h.Provider.SignUp(ctx.Request.Context(), email, req.Password)

	if err != nil {
		log.Printf("Provider sign-up failed: %v", err)
		status, message := providerStatus(err, http.StatusBadRequest)
		ctx.JSON(status, gin.H{"error": message})
		return
	}

	user, err := h.Reconciler.Reconcile(ctx.Request.Context(), identity.Input{
		ProviderUser: providerUser,
		Role:         role,
	})

	if err != nil {
		log.Printf("Failed to reconcile registered user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if ok := h.applyProfile(ctx, &user, UpdateProfileRequest{
		Username:         req.Username,
		OrganizationName: req.OrganizationName,
		Phone:            req.Phone,
		Address:          req.Address,
	}); !ok {
		return
	}

	if _, ok := h.startSession(ctx, user); !ok {
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"user": userResponse(user)})
}

// Login verifies credentials with the identity provider and
// establishes a local session for the reconciled user.
func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if err := ctx.BindJSON(&req); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if h.Provider == nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Identity provider is not configured"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	session, err := h.Provider.SignInWithPassword(ctx.Request.Context(), email, req.Password)

	if err != nil {
		status, message := providerStatus(err, http.StatusUnauthorized)
		ctx.JSON(status, gin.H{"error": message})
		return
	}

	user, err := h.Reconciler.Reconcile(ctx.Request.Context(), identity.Input{
		ProviderUser: &session.User,
	})

	if err != nil {
		log.Printf("Failed to reconcile logged-in user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	token, ok := h.startSession(ctx, user)

	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"user": userResponse(user),
		"session": gin.H{
			"access_token":          token,
			"token_type":            "bearer",
			"provider_access_token": session.AccessToken,
		},
	})
}

// SSOSupabase reconciles a provider access token (or, in relaxed
// development mode, a bare claimed email) to a local user and starts a
// session.
func (h *AuthHandler) SSOSupabase(ctx *gin.Context) {
	var req SSORequest

	if err := ctx.BindJSON(&req); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var role types.Role

	if req.Role != "" {
		parsed, err := types.ParseRole(req.Role)

		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Role must be one of restaurant, ngo, volunteer"})
			return
		}

		role = parsed
	}

	user, err := h.Reconciler.Reconcile(ctx.Request.Context(), identity.Input{
		AccessToken: req.AccessToken,
		Email:       req.Email,
		Role:        role,
	})

	if err != nil {
		switch {
		case errors.Is(err, identity.ErrMissingCredential):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Access credential is required"})
		case errors.Is(err, identity.ErrMissingEmail):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Identity provider returned no email"})
		case errors.Is(err, identity.ErrProviderRejected):
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		default:
			log.Printf("Failed to reconcile provider identity: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	if _, ok := h.startSession(ctx, user); !ok {
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": userResponse(user)})
}

func (h *AuthHandler) Me(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	user, err := h.Store.GetUser(currentUser.ID)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": userResponse(user)})
}

func (h *AuthHandler) Logout(ctx *gin.Context) {
	h.setSessionCookie(ctx, "", -1)
	ctx.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// UpdateProfile updates the mutable profile fields of the current
// user. Email, role and credentials are not mutable here.
func (h *AuthHandler) UpdateProfile(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	user, err := h.Store.GetUser(currentUser.ID)

	if err != nil {
		log.Printf("Failed to fetch user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req UpdateProfileRequest

	if err := ctx.BindJSON(&req); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if ok := h.applyProfile(ctx, &user, req); !ok {
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user":    userResponse(user),
	})
}

// usernameAvailable answers the request itself when the username is
// taken or the lookup fails. Returns false when a response was
// already written.
func (h *AuthHandler) usernameAvailable(ctx *gin.Context, username string) bool {
	_, err := h.Store.GetUserByUsername(username)

	if err == nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Username already exists"})
		return false
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Database error when checking existing username: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return false
	}

	return true
}

// applyProfile persists the non-empty profile fields, answering the
// request itself on failure. Returns false when a response was
// already written.
func (h *AuthHandler) applyProfile(ctx *gin.Context, user *models.User, req UpdateProfileRequest) bool {
	updates := make(map[string]interface{})

	if req.Username != "" {
		username := strings.TrimSpace(req.Username)

		if username != user.Username {
			existing, err := h.Store.GetUserByUsername(username)

			if err == nil && existing.ID != user.ID {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "Username already exists"})
				return false
			}

			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("Database error when checking existing username: %v", err)
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
				return false
			}

			updates["username"] = username
		}
	}

	if req.OrganizationName != "" {
		updates["organization_name"] = strings.TrimSpace(req.OrganizationName)
	}

	if req.Phone != "" {
		updates["phone"] = strings.TrimSpace(req.Phone)
	}

	if req.Address != "" {
		updates["address"] = strings.TrimSpace(req.Address)
	}

	if len(updates) == 0 {
		return true
	}

	if err := h.Store.UpdateUser(user, updates); err != nil {
		log.Printf("Failed to update user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return false
	}

	refreshed, err := h.Store.GetUser(user.ID)

	if err != nil {
		log.Printf("Failed to refresh user data: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return false
	}

	*user = refreshed
	return true
}
