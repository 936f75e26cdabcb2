package delivery

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"b2y-backend/internal/ads/dto"
	"b2y-backend/internal/ads/usecase"
	"b2y-backend/internal/platform/domain"
)

type AdsHandler struct {
	adsUsecase usecase.AdsUsecase
}

func NewAdsHandler(adsUsecase usecase.AdsUsecase) *AdsHandler {
	return &AdsHandler{
		adsUsecase: adsUsecase,
	}
}

// writeError maps the domain error taxonomy onto HTTP responses. Upstream
// platform errors are forwarded verbatim; storage failures are not.
func writeError(c *gin.Context, err error) {
	var badRequest *domain.BadRequestError
	var notConnected *domain.NotConnectedError
	var upstream *domain.UpstreamError
	var storage *domain.StorageError

	switch {
	case errors.As(err, &badRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": badRequest.Message})
	case errors.As(err, &notConnected):
		c.JSON(http.StatusBadRequest, gin.H{"error": notConnected.Error()})
	case errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": domain.ErrUserNotFound.Error()})
	case errors.As(err, &upstream):
		c.JSON(http.StatusInternalServerError, gin.H{"error": upstream.Error()})
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		c.JSON(http.StatusInternalServerError, gin.H{"error": domain.ErrUpstreamUnavailable.Error()})
	case errors.As(err, &storage):
		log.Printf("[ERROR] credential store failure: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao buscar dados do usuário."})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (h *AdsHandler) ListAdAccounts(c *gin.Context) {
	accounts, err := h.adsUsecase.ListAdAccounts(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, accounts)
}

func (h *AdsHandler) ListPages(c *gin.Context) {
	pages, err := h.adsUsecase.ListPages(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, pages)
}

func (h *AdsHandler) ListCampaigns(c *gin.Context) {
	campaigns, err := h.adsUsecase.ListCampaigns(c.Request.Context(), c.GetString("userID"), c.Query("adAccountId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, campaigns)
}

func (h *AdsHandler) CampaignDetail(c *gin.Context) {
	detail, err := h.adsUsecase.CampaignDetail(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *AdsHandler) CreateCampaign(c *gin.Context) {
	var req dto.CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dados da campanha incompletos."})
		return
	}

	campaignID, err := h.adsUsecase.CreateCampaign(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "campaignId": campaignID})
}

func (h *AdsHandler) CreateAdSet(c *gin.Context) {
	var req dto.CreateAdSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dados do conjunto de anúncios incompletos."})
		return
	}

	adSetID, err := h.adsUsecase.CreateAdSet(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "adSetId": adSetID})
}

// CreateAd exposes the saga result either way: on failure the body still
// carries completedSteps and any ids created before the failing step.
func (h *AdsHandler) CreateAd(c *gin.Context) {
	var req dto.CreateAdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dados do anúncio incompletos."})
		return
	}

	result, err := h.adsUsecase.CreateAd(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		if result == nil {
			writeError(c, err)
			return
		}
		status, message := statusAndMessage(err)
		c.JSON(status, gin.H{
			"error":          message,
			"completedSteps": result.CompletedSteps,
			"imageHash":      result.ImageHash,
			"creativeId":     result.CreativeID,
		})
		return
	}
	c.JSON(http.StatusOK, result)
}

func statusAndMessage(err error) (int, string) {
	var badRequest *domain.BadRequestError
	var upstream *domain.UpstreamError
	switch {
	case errors.As(err, &badRequest):
		return http.StatusBadRequest, badRequest.Message
	case errors.As(err, &upstream):
		return http.StatusInternalServerError, upstream.Error()
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		return http.StatusInternalServerError, domain.ErrUpstreamUnavailable.Error()
	default:
		return http.StatusInternalServerError, err.Error()
	}
}

func (h *AdsHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID do objeto e novo status são obrigatórios."})
		return
	}

	if err := h.adsUsecase.UpdateStatus(c.Request.Context(), c.GetString("userID"), req.ObjectID, req.NewStatus); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
