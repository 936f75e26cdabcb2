package usecase

import (
	"context"

	"golang.org/x/oauth2"

	"b2y-backend/internal/platform/domain"
	"b2y-backend/pkg/metaads"
)

// ConnectionUsecase manages a user's ad-platform connections: building
// authorization URLs, completing OAuth callbacks, disconnecting and
// aggregating per-platform status.
type ConnectionUsecase interface {
	// AuthorizationURL builds the platform consent URL with state=userID.
	// Pure; no I/O.
	AuthorizationURL(platform domain.Platform, userID string) (string, error)

	// CompleteConnect exchanges the authorization code and stores the
	// resulting credentials. Authorization codes are single-use upstream, so
	// repeating a callback fails; that failure is reported, never retried.
	CompleteConnect(ctx context.Context, platform domain.Platform, code, state string) error

	// Disconnect removes the stored connection. For Meta it first attempts a
	// best-effort permission revocation upstream; revocation failure never
	// blocks the local delete.
	Disconnect(ctx context.Context, platform domain.Platform, userID string) error

	// Status reports connected/disconnected per platform from local record
	// presence. With verify set, the Meta boolean additionally requires a
	// live list-ad-accounts call to succeed with at least one account.
	Status(ctx context.Context, userID string, verify bool) (domain.StatusMap, error)

	// Record returns the full stored record including token material. Only
	// the service-token-guarded internal endpoint may expose it.
	Record(ctx context.Context, userID string) (*domain.ConnectionRecord, error)
}

// MetaOAuthClient is the slice of the Graph API client the connection
// manager needs.
type MetaOAuthClient interface {
	ExchangeCode(ctx context.Context, redirectURI, code string) (string, error)
	ExtendToken(ctx context.Context, shortLivedToken string) (string, error)
	Me(ctx context.Context, accessToken string) (*metaads.ExternalUser, error)
	RevokePermissions(ctx context.Context, externalUserID, accessToken string) error
	ListAdAccounts(ctx context.Context, accessToken string) ([]metaads.AdAccount, error)
}

// GoogleExchanger is satisfied by *oauth2.Config.
type GoogleExchanger interface {
	AuthCodeURL(state string, opts ...oauth2.AuthCodeOption) string
	Exchange(ctx context.Context, code string, opts ...oauth2.AuthCodeOption) (*oauth2.Token, error)
}
