package api

import (
	"github.com/gin-gonic/gin"

	adsUsecase "b2y-backend/internal/ads/usecase"
	platformUsecase "b2y-backend/internal/platform/usecase"
	"b2y-backend/pkg/config"
	"b2y-backend/pkg/identity"
)

type Handler struct {
	router *gin.Engine
}

func NewHandler(connectionUc platformUsecase.ConnectionUsecase, adsUc adsUsecase.AdsUsecase, verifier identity.TokenVerifier, cfg *config.Config) *Handler {
	router := gin.Default()

	SetupRoutes(router, connectionUc, adsUc, verifier, cfg)

	return &Handler{
		router: router,
	}
}

func (h *Handler) Start(addr string) error {
	return h.router.Run(addr)
}
