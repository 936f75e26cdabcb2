package domain

import (
	"fmt"
	"time"
)

// Platform identifies an advertising platform a user can connect.
type Platform string

const (
	PlatformMeta   Platform = "meta"
	PlatformGoogle Platform = "google"
)

// Platforms lists every platform the dashboard knows about. Status responses
// always carry one boolean per entry, connected or not.
var Platforms = []Platform{PlatformMeta, PlatformGoogle}

func ParsePlatform(s string) (Platform, error) {
	switch Platform(s) {
	case PlatformMeta, PlatformGoogle:
		return Platform(s), nil
	}
	return "", &BadRequestError{Message: fmt.Sprintf("Plataforma desconhecida: %s", s)}
}

// PlatformConnection is the stored credential state for one platform.
// AccessToken is required whenever the record exists; every other field is
// platform specific. Meta fills ExternalUserID/ExternalUserName (needed for
// permission revocation), Google fills RefreshToken/ExpiryDate.
type PlatformConnection struct {
	AccessToken      string    `json:"accessToken" firestore:"accessToken"`
	RefreshToken     string    `json:"refreshToken,omitempty" firestore:"refreshToken,omitempty"`
	ExpiryDate       int64     `json:"expiryDate,omitempty" firestore:"expiryDate,omitempty"`
	ExternalUserID   string    `json:"externalUserId,omitempty" firestore:"userId,omitempty"`
	ExternalUserName string    `json:"externalUserName,omitempty" firestore:"name,omitempty"`
	ConnectedAt      time.Time `json:"connectedAt" firestore:"connectedAt"`
}

// ConnectionRecord is the per-user credential record. A platform key is
// present in Connections iff that platform is connected; absence is the
// sentinel for "not connected".
type ConnectionRecord struct {
	UserID      string                          `json:"userId"`
	Connections map[Platform]PlatformConnection `json:"connections"`
}

// Connection returns the stored connection for a platform, if any.
func (r *ConnectionRecord) Connection(p Platform) (PlatformConnection, bool) {
	if r == nil || r.Connections == nil {
		return PlatformConnection{}, false
	}
	conn, ok := r.Connections[p]
	return conn, ok
}

// StatusMap maps each platform to its connected/disconnected boolean. It is
// what the status endpoint returns to the UI; it never carries token material.
type StatusMap map[Platform]bool
