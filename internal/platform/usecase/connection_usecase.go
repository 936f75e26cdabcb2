package usecase

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
	"golang.org/x/oauth2/google"

	"b2y-backend/internal/platform/domain"
	"b2y-backend/internal/platform/repository"
	"b2y-backend/pkg/config"
)

// connectionUsecase implements ConnectionUsecase
type connectionUsecase struct {
	store           repository.CredentialStore
	meta            MetaOAuthClient
	google          GoogleExchanger
	metaAuthConfig  *oauth2.Config
	metaRedirectURI string
	now             func() time.Time
}

// NewConnectionUsecase creates a new instance of connectionUsecase. The
// google exchanger is normally NewGoogleOAuthConfig(cfg).
func NewConnectionUsecase(store repository.CredentialStore, meta MetaOAuthClient, googleExchanger GoogleExchanger, cfg *config.Config) ConnectionUsecase {
	metaRedirectURI := cfg.BaseURL + "/api/auth/meta/callback"
	return &connectionUsecase{
		store:  store,
		meta:   meta,
		google: googleExchanger,
		metaAuthConfig: &oauth2.Config{
			ClientID:     cfg.FacebookAppID,
			ClientSecret: cfg.FacebookAppSecret,
			Endpoint:     facebook.Endpoint,
			RedirectURL:  metaRedirectURI,
			Scopes: []string{
				"ads_management",
				"ads_read",
				"business_management",
				"pages_show_list",
				"pages_read_engagement",
			},
		},
		metaRedirectURI: metaRedirectURI,
		now:             time.Now,
	}
}

// NewGoogleOAuthConfig builds the OAuth2 config for the Google Ads scope.
func NewGoogleOAuthConfig(cfg *config.Config) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  cfg.BaseURL + "/api/auth/google/callback",
		Scopes:       []string{"https://www.googleapis.com/auth/adwords"},
	}
}

func (u *connectionUsecase) AuthorizationURL(platform domain.Platform, userID string) (string, error) {
	if userID == "" {
		return "", &domain.BadRequestError{Message: "Identificador de usuário ausente.", Fields: []string{"userId"}}
	}

	switch platform {
	case domain.PlatformMeta:
		return u.metaAuthConfig.AuthCodeURL(userID), nil
	case domain.PlatformGoogle:
		// prompt=consent forces Google to reissue the refresh token even for
		// users who already granted consent once.
		return u.google.AuthCodeURL(userID, oauth2.AccessTypeOffline, oauth2.ApprovalForce), nil
	}
	_, err := domain.ParsePlatform(string(platform))
	return "", err
}

func (u *connectionUsecase) CompleteConnect(ctx context.Context, platform domain.Platform, code, state string) error {
	if code == "" || state == "" {
		return &domain.BadRequestError{Message: "Parâmetros de autorização ausentes.", Fields: []string{"code", "state"}}
	}
	// state carries the internal user id; it is not cryptographically bound.
	userID := state

	switch platform {
	case domain.PlatformMeta:
		return u.completeMetaConnect(ctx, userID, code)
	case domain.PlatformGoogle:
		return u.completeGoogleConnect(ctx, userID, code)
	}
	_, err := domain.ParsePlatform(string(platform))
	return err
}

// completeMetaConnect runs the Meta token dance: code to short-lived token,
// short-lived to long-lived (~60 days), then the external user profile used
// for revocation later. A later step failing leaves the earlier token
// discarded un-persisted; nothing is written until all three succeed.
func (u *connectionUsecase) completeMetaConnect(ctx context.Context, userID, code string) error {
	shortLived, err := u.meta.ExchangeCode(ctx, u.metaRedirectURI, code)
	if err != nil {
		return &domain.OAuthExchangeError{Step: "short-lived token", Message: err.Error()}
	}

	longLived, err := u.meta.ExtendToken(ctx, shortLived)
	if err != nil {
		return &domain.OAuthExchangeError{Step: "long-lived token", Message: err.Error()}
	}

	me, err := u.meta.Me(ctx, longLived)
	if err != nil {
		return &domain.OAuthExchangeError{Step: "user profile", Message: err.Error()}
	}

	conn := domain.PlatformConnection{
		AccessToken:      longLived,
		ExternalUserID:   me.ID,
		ExternalUserName: me.Name,
		ConnectedAt:      u.now(),
	}
	if err := u.store.UpsertPlatform(ctx, userID, domain.PlatformMeta, conn); err != nil {
		return err
	}

	log.Printf("[CONNECT] meta connected for user %s", userID)
	return nil
}

func (u *connectionUsecase) completeGoogleConnect(ctx context.Context, userID, code string) error {
	token, err := u.google.Exchange(ctx, code)
	if err != nil {
		return &domain.OAuthExchangeError{Step: "token exchange", Message: err.Error()}
	}

	conn := domain.PlatformConnection{
		AccessToken: token.AccessToken,
		// Google omits the refresh token when the user granted consent
		// before; store whatever came back.
		RefreshToken: token.RefreshToken,
		ConnectedAt:  u.now(),
	}
	if !token.Expiry.IsZero() {
		conn.ExpiryDate = token.Expiry.UnixMilli()
	}
	if err := u.store.UpsertPlatform(ctx, userID, domain.PlatformGoogle, conn); err != nil {
		return err
	}

	log.Printf("[CONNECT] google connected for user %s", userID)
	return nil
}

func (u *connectionUsecase) Disconnect(ctx context.Context, platform domain.Platform, userID string) error {
	if platform == domain.PlatformMeta {
		record, err := u.store.Get(ctx, userID)
		if err != nil {
			return err
		}
		if conn, ok := record.Connection(domain.PlatformMeta); ok && conn.AccessToken != "" && conn.ExternalUserID != "" {
			if err := u.meta.RevokePermissions(ctx, conn.ExternalUserID, conn.AccessToken); err != nil {
				// Best effort: the local record is removed regardless.
				log.Printf("[WARN] meta permission revocation failed for user %s: %v", userID, err)
			}
		}
	}
	// Google has no revocation call here; only the local record is removed.

	return u.store.DeletePlatform(ctx, userID, platform)
}

func (u *connectionUsecase) Status(ctx context.Context, userID string, verify bool) (domain.StatusMap, error) {
	record, err := u.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	// The two platform checks are independent; run them concurrently and
	// merge once both finish. No ordering between them matters.
	var (
		wg              sync.WaitGroup
		metaConnected   bool
		googleConnected bool
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		conn, ok := record.Connection(domain.PlatformMeta)
		metaConnected = ok
		if ok && verify {
			accounts, err := u.meta.ListAdAccounts(ctx, conn.AccessToken)
			metaConnected = err == nil && len(accounts) > 0
		}
	}()
	go func() {
		defer wg.Done()
		_, googleConnected = record.Connection(domain.PlatformGoogle)
	}()
	wg.Wait()

	return domain.StatusMap{
		domain.PlatformMeta:   metaConnected,
		domain.PlatformGoogle: googleConnected,
	}, nil
}

func (u *connectionUsecase) Record(ctx context.Context, userID string) (*domain.ConnectionRecord, error) {
	record, err := u.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, domain.ErrUserNotFound
	}
	return record, nil
}
