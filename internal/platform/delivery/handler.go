package delivery

import (
	"errors"
	"log"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"b2y-backend/internal/platform/domain"
	"b2y-backend/internal/platform/usecase"
)

type ConnectionHandler struct {
	connectionUsecase usecase.ConnectionUsecase
	dashboardURL      string
}

func NewConnectionHandler(connectionUsecase usecase.ConnectionUsecase, dashboardURL string) *ConnectionHandler {
	return &ConnectionHandler{
		connectionUsecase: connectionUsecase,
		dashboardURL:      dashboardURL,
	}
}

// Login returns the platform authorization URL the frontend should send the
// user to. The user id travels in the OAuth state parameter.
func (h *ConnectionHandler) Login(c *gin.Context) {
	platform, err := domain.ParsePlatform(c.Param("platform"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	authURL, err := h.connectionUsecase.AuthorizationURL(platform, c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"authorizationUrl": authURL})
}

// Callback is the OAuth redirect target. It always answers with a redirect
// back to the dashboard settings page, carrying success or error in the
// query string.
func (h *ConnectionHandler) Callback(c *gin.Context) {
	platform, err := domain.ParsePlatform(c.Param("platform"))
	if err != nil {
		h.redirectError(c, "UnknownPlatform")
		return
	}

	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		log.Printf("[WARN] %s callback called without code or state", platform)
		if platform == domain.PlatformMeta {
			h.redirectError(c, "FacebookAuthFailed")
		} else {
			h.redirectError(c, "Google-Auth-Failed")
		}
		return
	}

	if err := h.connectionUsecase.CompleteConnect(c.Request.Context(), platform, code, state); err != nil {
		log.Printf("[ERROR] %s connect failed: %v", platform, err)
		h.redirectError(c, err.Error())
		return
	}

	if platform == domain.PlatformMeta {
		c.Redirect(http.StatusFound, h.dashboardURL+"/settings?meta_connected=true")
	} else {
		c.Redirect(http.StatusFound, h.dashboardURL+"/settings?success=google-connected")
	}
}

func (h *ConnectionHandler) redirectError(c *gin.Context, message string) {
	c.Redirect(http.StatusFound, h.dashboardURL+"/settings?error="+url.QueryEscape(message))
}

func (h *ConnectionHandler) Disconnect(c *gin.Context) {
	platform, err := domain.ParsePlatform(c.Param("platform"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.connectionUsecase.Disconnect(c.Request.Context(), platform, c.GetString("userID")); err != nil {
		log.Printf("[ERROR] %s disconnect failed: %v", platform, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao desconectar a conta."})
		return
	}

	message := "Conta do Facebook desconectada com sucesso."
	if platform == domain.PlatformGoogle {
		message = "Conta do Google desconectada com sucesso."
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message})
}

// Status reports the connected/disconnected boolean per platform. Token
// material never appears here. verify=true swaps the Meta presence check for
// a live ad-accounts probe.
func (h *ConnectionHandler) Status(c *gin.Context) {
	verify := c.Query("verify") == "true"

	statusMap, err := h.connectionUsecase.Status(c.Request.Context(), c.GetString("userID"), verify)
	if err != nil {
		log.Printf("[ERROR] status lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao buscar dados do usuário."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"connections": statusMap})
}

// InternalRecord returns the raw connection record, tokens included. Guarded
// by the service-token middleware; never mounted behind end-user auth.
func (h *ConnectionHandler) InternalRecord(c *gin.Context) {
	record, err := h.connectionUsecase.Record(c.Request.Context(), c.Param("userId"))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": domain.ErrUserNotFound.Error()})
			return
		}
		log.Printf("[ERROR] record lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao buscar dados do usuário."})
		return
	}

	c.JSON(http.StatusOK, record)
}
