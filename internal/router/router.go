package router

import (
	"time"

	"github.com/ecoconnect-dev/ecoconnect/internal/auth"
	"github.com/ecoconnect-dev/ecoconnect/internal/handlers"
	"github.com/ecoconnect-dev/ecoconnect/internal/identity"
	"github.com/ecoconnect-dev/ecoconnect/internal/middleware"
	"github.com/ecoconnect-dev/ecoconnect/internal/store"
	"github.com/ecoconnect-dev/ecoconnect/internal/supabase"
	"github.com/ecoconnect-dev/ecoconnect/internal/types"
	"github.com/ecoconnect-dev/ecoconnect/internal/ws"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Deps carries the explicitly constructed collaborators; nothing in
// the route tree reaches for ambient state.
type Deps struct {
	Store          *store.Store
	Provider       supabase.AuthAPI
	Reconciler     *identity.Reconciler
	Tokens         *auth.JWT
	Hub            *ws.Hub
	CookieDomain   string
	AllowedOrigins []string
}

func New(deps Deps) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	authHandler := &handlers.AuthHandler{
		Store:      deps.Store,
		Provider:   deps.Provider,
		Reconciler: deps.Reconciler,
		Tokens:     deps.Tokens,
		Domain:     deps.CookieDomain,
	}
	contactHandler := &handlers.ContactHandler{Store: deps.Store}
	listingHandler := &handlers.ListingHandler{Store: deps.Store, Events: deps.Hub}
	claimHandler := &handlers.ClaimHandler{Store: deps.Store, Events: deps.Hub}
	analyticsHandler := &handlers.AnalyticsHandler{Store: deps.Store}
	publicHandler := &handlers.PublicHandler{Store: deps.Store, Reviews: deps.Store.Reviews()}

	authed := middleware.Auth(deps.Tokens, deps.Store)

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws/listings", deps.Hub.Serve)

		api.POST("/contact", contactHandler.Create)

		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)
		api.POST("/logout", authHandler.Logout)
		api.POST("/sso/supabase", authHandler.SSOSupabase)
		api.GET("/me", authed, authHandler.Me)
		api.POST("/profile/update", authed, authHandler.UpdateProfile)

		api.GET("/food-listings", listingHandler.List)
		api.POST("/food-listings", authed, middleware.RequireRole(types.RoleRestaurant), listingHandler.Create)
		api.GET("/food-listings/my", authed, listingHandler.My)

		api.POST("/food-claims", authed, middleware.RequireRole(types.RoleVolunteer, types.RoleNGO), claimHandler.Create)
		api.PATCH("/food-claims/:id/status", authed, claimHandler.UpdateStatus)
		api.GET("/food-claims/my", authed, claimHandler.My)

		api.GET("/analytics", analyticsHandler.Get)

		api.GET("/public/profiles", publicHandler.Profiles)
		api.GET("/public/reviews", publicHandler.ListReviews)
		api.POST("/public/reviews", publicHandler.CreateReview)
	}

	return r
}
