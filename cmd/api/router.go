package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	adsDelivery "b2y-backend/internal/ads/delivery"
	adsUsecase "b2y-backend/internal/ads/usecase"
	"b2y-backend/internal/platform/delivery"
	platformUsecase "b2y-backend/internal/platform/usecase"
	"b2y-backend/pkg/config"
	"b2y-backend/pkg/identity"
)

func SetupRoutes(r *gin.Engine, connectionUc platformUsecase.ConnectionUsecase, adsUc adsUsecase.AdsUsecase, verifier identity.TokenVerifier, cfg *config.Config) {
	connectionHandler := delivery.NewConnectionHandler(connectionUc, cfg.DashboardURL)
	adsHandler := adsDelivery.NewAdsHandler(adsUc)
	serviceVerifier := identity.NewServiceTokenVerifier(cfg.ServiceTokenSecret)

	r.Use(delivery.RequestID())

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// OAuth routes. The callback is hit by the platform redirect and
		// carries no bearer token; the login URL builder is user-scoped.
		auth := api.Group("/auth")
		{
			auth.GET("/:platform/login", delivery.AuthMiddleware(verifier), connectionHandler.Login)
			auth.GET("/:platform/callback", connectionHandler.Callback)
		}

		// Connection management (protected)
		connections := api.Group("/connections")
		connections.Use(delivery.AuthMiddleware(verifier))
		{
			connections.GET("/status", connectionHandler.Status)
			connections.POST("/:platform/disconnect", connectionHandler.Disconnect)
		}

		// Server-side only: raw connection detail, token material included.
		internal := api.Group("/internal")
		internal.Use(delivery.ServiceAuthMiddleware(serviceVerifier))
		{
			internal.GET("/connections/:userId", connectionHandler.InternalRecord)
		}

		// Ads proxy routes (protected)
		ads := api.Group("/ads")
		ads.Use(delivery.AuthMiddleware(verifier))
		{
			ads.GET("/accounts", adsHandler.ListAdAccounts)
			ads.GET("/pages", adsHandler.ListPages)
			ads.GET("/campaigns", adsHandler.ListCampaigns)
			ads.GET("/campaigns/:id", adsHandler.CampaignDetail)
			ads.POST("/campaigns", adsHandler.CreateCampaign)
			ads.POST("/adsets", adsHandler.CreateAdSet)
			ads.POST("/ads", adsHandler.CreateAd)
			ads.POST("/status", adsHandler.UpdateStatus)
		}
	}
}
