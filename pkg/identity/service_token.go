package identity

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ServiceTokenVerifier validates HS256 service tokens used by server-side
// callers of the internal connection-detail endpoint. End-user Firebase
// tokens are never accepted there; this keeps raw token material off any
// path a browser can reach with a user credential.
type ServiceTokenVerifier struct {
	secret []byte
}

func NewServiceTokenVerifier(secret string) *ServiceTokenVerifier {
	return &ServiceTokenVerifier{
		secret: []byte(secret),
	}
}

// Verify parses and validates the token and returns its subject (the calling
// service's name).
func (v *ServiceTokenVerifier) Verify(tokenString string) (string, error) {
	if len(v.secret) == 0 {
		return "", errors.New("service token secret not configured")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("invalid service token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid service token claims")
	}
	subject, _ := claims["sub"].(string)
	if subject == "" {
		return "", errors.New("service token missing subject")
	}
	return subject, nil
}

// MintServiceToken issues a short-lived service token. Exposed for tooling
// and tests; the normal issuer is the operator's deploy tooling.
func MintServiceToken(secret, subject string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub": subject,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
