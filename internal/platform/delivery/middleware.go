package delivery

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"b2y-backend/internal/platform/domain"
	"b2y-backend/pkg/identity"
)

// AuthMiddleware extracts the bearer identity token, verifies it and stores
// the user id on the context for downstream handlers.
func AuthMiddleware(verifier identity.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token de autorização ausente."})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token de autorização ausente ou mal formatado."})
			c.Abort()
			return
		}

		userID, err := verifier.Verify(c.Request.Context(), parts[1])
		if err != nil {
			if errors.Is(err, domain.ErrTokenExpired) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": domain.ErrTokenExpired.Error()})
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{"error": domain.ErrUnauthenticated.Error()})
			}
			c.Abort()
			return
		}

		c.Set("userID", userID)
		c.Next()
	}
}

// ServiceAuthMiddleware guards internal endpoints with an HS256 service
// token. End-user identity tokens are rejected here.
func ServiceAuthMiddleware(verifier *identity.ServiceTokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token de serviço ausente."})
			c.Abort()
			return
		}

		caller, err := verifier.Verify(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token de serviço inválido."})
			c.Abort()
			return
		}

		c.Set("serviceCaller", caller)
		c.Next()
	}
}

// RequestID tags every request with a uuid for log correlation.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("requestID", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}
