package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"b2y-backend/internal/platform/domain"
	"b2y-backend/pkg/config"
	"b2y-backend/pkg/metaads"
)

// memoryStore is an in-memory CredentialStore with the same merge semantics
// the real backends have.
type memoryStore struct {
	records map[string]map[domain.Platform]domain.PlatformConnection
	writes  int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{records: make(map[string]map[domain.Platform]domain.PlatformConnection)}
}

func (s *memoryStore) Get(_ context.Context, userID string) (*domain.ConnectionRecord, error) {
	conns, ok := s.records[userID]
	if !ok {
		return nil, nil
	}
	copied := make(map[domain.Platform]domain.PlatformConnection, len(conns))
	for k, v := range conns {
		copied[k] = v
	}
	return &domain.ConnectionRecord{UserID: userID, Connections: copied}, nil
}

func (s *memoryStore) UpsertPlatform(_ context.Context, userID string, platform domain.Platform, conn domain.PlatformConnection) error {
	if s.records[userID] == nil {
		s.records[userID] = make(map[domain.Platform]domain.PlatformConnection)
	}
	s.records[userID][platform] = conn
	s.writes++
	return nil
}

func (s *memoryStore) DeletePlatform(_ context.Context, userID string, platform domain.Platform) error {
	delete(s.records[userID], platform)
	return nil
}

func (s *memoryStore) ListConnections(_ context.Context, userID string) (domain.StatusMap, error) {
	statusMap := make(domain.StatusMap, len(domain.Platforms))
	for _, p := range domain.Platforms {
		_, ok := s.records[userID][p]
		statusMap[p] = ok
	}
	return statusMap, nil
}

type fakeMetaClient struct {
	exchangeErr   error
	extendErr     error
	meErr         error
	revokeErr     error
	revokeCalls   int
	accounts      []metaads.AdAccount
	accountsErr   error
	accountsCalls int
}

func (f *fakeMetaClient) ExchangeCode(context.Context, string, string) (string, error) {
	if f.exchangeErr != nil {
		return "", f.exchangeErr
	}
	return "short-lived-token", nil
}

func (f *fakeMetaClient) ExtendToken(context.Context, string) (string, error) {
	if f.extendErr != nil {
		return "", f.extendErr
	}
	return "long-lived-token", nil
}

func (f *fakeMetaClient) Me(context.Context, string) (*metaads.ExternalUser, error) {
	if f.meErr != nil {
		return nil, f.meErr
	}
	return &metaads.ExternalUser{ID: "fb-123", Name: "Fulano"}, nil
}

func (f *fakeMetaClient) RevokePermissions(context.Context, string, string) error {
	f.revokeCalls++
	return f.revokeErr
}

func (f *fakeMetaClient) ListAdAccounts(context.Context, string) ([]metaads.AdAccount, error) {
	f.accountsCalls++
	return f.accounts, f.accountsErr
}

type fakeGoogleExchanger struct {
	token *oauth2.Token
	err   error
}

func (f *fakeGoogleExchanger) AuthCodeURL(state string, opts ...oauth2.AuthCodeOption) string {
	cfg := &oauth2.Config{
		ClientID: "client-id",
		Endpoint: oauth2.Endpoint{AuthURL: "https://accounts.google.com/o/oauth2/auth"},
	}
	return cfg.AuthCodeURL(state, opts...)
}

func (f *fakeGoogleExchanger) Exchange(context.Context, string, ...oauth2.AuthCodeOption) (*oauth2.Token, error) {
	return f.token, f.err
}

func testConfig() *config.Config {
	return &config.Config{
		BaseURL:           "https://app.example.com",
		DashboardURL:      "https://app.example.com",
		FacebookAppID:     "fb-app",
		FacebookAppSecret: "fb-secret",
	}
}

func newTestUsecase(store *memoryStore, meta *fakeMetaClient, google *fakeGoogleExchanger) ConnectionUsecase {
	return NewConnectionUsecase(store, meta, google, testConfig())
}

func TestAuthorizationURL_Meta(t *testing.T) {
	uc := newTestUsecase(newMemoryStore(), &fakeMetaClient{}, &fakeGoogleExchanger{})

	authURL, err := uc.AuthorizationURL(domain.PlatformMeta, "user-1")
	require.NoError(t, err)
	assert.Contains(t, authURL, "facebook.com")
	assert.Contains(t, authURL, "state=user-1")
	assert.Contains(t, authURL, "ads_management")
}

func TestAuthorizationURL_GoogleForcesConsent(t *testing.T) {
	uc := newTestUsecase(newMemoryStore(), &fakeMetaClient{}, &fakeGoogleExchanger{})

	authURL, err := uc.AuthorizationURL(domain.PlatformGoogle, "user-1")
	require.NoError(t, err)
	assert.Contains(t, authURL, "state=user-1")
	assert.Contains(t, authURL, "access_type=offline")
	assert.Contains(t, authURL, "prompt=consent")
}

func TestAuthorizationURL_MissingUser(t *testing.T) {
	uc := newTestUsecase(newMemoryStore(), &fakeMetaClient{}, &fakeGoogleExchanger{})

	_, err := uc.AuthorizationURL(domain.PlatformMeta, "")
	var badRequest *domain.BadRequestError
	assert.ErrorAs(t, err, &badRequest)
}

func TestCompleteConnect_Meta_StoresLongLivedToken(t *testing.T) {
	store := newMemoryStore()
	uc := newTestUsecase(store, &fakeMetaClient{}, &fakeGoogleExchanger{})

	err := uc.CompleteConnect(context.Background(), domain.PlatformMeta, "auth-code", "user-1")
	require.NoError(t, err)

	record, err := store.Get(context.Background(), "user-1")
	require.NoError(t, err)
	conn, ok := record.Connection(domain.PlatformMeta)
	require.True(t, ok)
	assert.Equal(t, "long-lived-token", conn.AccessToken)
	assert.Equal(t, "fb-123", conn.ExternalUserID)
	assert.Equal(t, "Fulano", conn.ExternalUserName)
	assert.False(t, conn.ConnectedAt.IsZero())
}

func TestCompleteConnect_Meta_ExtendFails_NothingStored(t *testing.T) {
	store := newMemoryStore()
	meta := &fakeMetaClient{extendErr: errors.New("(190) token inválido")}
	uc := newTestUsecase(store, meta, &fakeGoogleExchanger{})

	err := uc.CompleteConnect(context.Background(), domain.PlatformMeta, "auth-code", "user-1")

	var exchangeErr *domain.OAuthExchangeError
	require.ErrorAs(t, err, &exchangeErr)
	assert.Equal(t, "long-lived token", exchangeErr.Step)
	assert.Zero(t, store.writes)
}

func TestCompleteConnect_Google_StoresTokens(t *testing.T) {
	store := newMemoryStore()
	expiry := time.Now().Add(time.Hour)
	google := &fakeGoogleExchanger{token: &oauth2.Token{
		AccessToken:  "g-access",
		RefreshToken: "g-refresh",
		Expiry:       expiry,
	}}
	uc := newTestUsecase(store, &fakeMetaClient{}, google)

	err := uc.CompleteConnect(context.Background(), domain.PlatformGoogle, "auth-code", "user-1")
	require.NoError(t, err)

	record, _ := store.Get(context.Background(), "user-1")
	conn, ok := record.Connection(domain.PlatformGoogle)
	require.True(t, ok)
	assert.Equal(t, "g-access", conn.AccessToken)
	assert.Equal(t, "g-refresh", conn.RefreshToken)
	assert.Equal(t, expiry.UnixMilli(), conn.ExpiryDate)
}

func TestCompleteConnect_Google_MissingRefreshTokenTolerated(t *testing.T) {
	store := newMemoryStore()
	google := &fakeGoogleExchanger{token: &oauth2.Token{AccessToken: "g-access"}}
	uc := newTestUsecase(store, &fakeMetaClient{}, google)

	err := uc.CompleteConnect(context.Background(), domain.PlatformGoogle, "auth-code", "user-1")
	require.NoError(t, err)

	record, _ := store.Get(context.Background(), "user-1")
	conn, _ := record.Connection(domain.PlatformGoogle)
	assert.Empty(t, conn.RefreshToken)
	assert.Equal(t, "g-access", conn.AccessToken)
}

func TestCompleteConnect_MissingState_NoWrite(t *testing.T) {
	store := newMemoryStore()
	uc := newTestUsecase(store, &fakeMetaClient{}, &fakeGoogleExchanger{})

	err := uc.CompleteConnect(context.Background(), domain.PlatformMeta, "auth-code", "")

	var badRequest *domain.BadRequestError
	assert.ErrorAs(t, err, &badRequest)
	assert.Zero(t, store.writes)
}

func TestCompleteConnect_Repeat_IdenticalRecord(t *testing.T) {
	store := newMemoryStore()
	uc := newTestUsecase(store, &fakeMetaClient{}, &fakeGoogleExchanger{})

	require.NoError(t, uc.CompleteConnect(context.Background(), domain.PlatformMeta, "code-1", "user-1"))
	first, _ := store.Get(context.Background(), "user-1")

	require.NoError(t, uc.CompleteConnect(context.Background(), domain.PlatformMeta, "code-2", "user-1"))
	second, _ := store.Get(context.Background(), "user-1")

	firstConn, _ := first.Connection(domain.PlatformMeta)
	secondConn, _ := second.Connection(domain.PlatformMeta)
	firstConn.ConnectedAt = secondConn.ConnectedAt
	assert.Equal(t, firstConn, secondConn)
	assert.Equal(t, 2, store.writes)
}

func TestDisconnect_Meta_RevokesThenDeletes(t *testing.T) {
	store := newMemoryStore()
	meta := &fakeMetaClient{}
	uc := newTestUsecase(store, meta, &fakeGoogleExchanger{})
	require.NoError(t, uc.CompleteConnect(context.Background(), domain.PlatformMeta, "code", "user-1"))

	require.NoError(t, uc.Disconnect(context.Background(), domain.PlatformMeta, "user-1"))

	assert.Equal(t, 1, meta.revokeCalls)
	statusMap, err := uc.Status(context.Background(), "user-1", false)
	require.NoError(t, err)
	assert.False(t, statusMap[domain.PlatformMeta])
}

func TestDisconnect_Meta_RevocationFailureStillDeletes(t *testing.T) {
	store := newMemoryStore()
	meta := &fakeMetaClient{revokeErr: errors.New("graph unavailable")}
	uc := newTestUsecase(store, meta, &fakeGoogleExchanger{})
	require.NoError(t, uc.CompleteConnect(context.Background(), domain.PlatformMeta, "code", "user-1"))

	require.NoError(t, uc.Disconnect(context.Background(), domain.PlatformMeta, "user-1"))

	statusMap, err := uc.Status(context.Background(), "user-1", false)
	require.NoError(t, err)
	assert.False(t, statusMap[domain.PlatformMeta])
}

func TestDisconnect_Google_LocalDeleteOnly(t *testing.T) {
	store := newMemoryStore()
	meta := &fakeMetaClient{}
	google := &fakeGoogleExchanger{token: &oauth2.Token{AccessToken: "g-access"}}
	uc := newTestUsecase(store, meta, google)
	require.NoError(t, uc.CompleteConnect(context.Background(), domain.PlatformGoogle, "code", "user-1"))

	require.NoError(t, uc.Disconnect(context.Background(), domain.PlatformGoogle, "user-1"))

	assert.Zero(t, meta.revokeCalls)
	statusMap, _ := uc.Status(context.Background(), "user-1", false)
	assert.False(t, statusMap[domain.PlatformGoogle])
}

func TestStatus_PresenceBased(t *testing.T) {
	store := newMemoryStore()
	meta := &fakeMetaClient{}
	google := &fakeGoogleExchanger{token: &oauth2.Token{AccessToken: "g-access"}}
	uc := newTestUsecase(store, meta, google)
	require.NoError(t, uc.CompleteConnect(context.Background(), domain.PlatformGoogle, "code", "user-1"))

	statusMap, err := uc.Status(context.Background(), "user-1", false)
	require.NoError(t, err)
	assert.False(t, statusMap[domain.PlatformMeta])
	assert.True(t, statusMap[domain.PlatformGoogle])
	assert.Zero(t, meta.accountsCalls, "presence check must not hit the Graph API")
}

func TestStatus_VerifyProbesMetaAccounts(t *testing.T) {
	store := newMemoryStore()
	meta := &fakeMetaClient{accounts: []metaads.AdAccount{{ID: "act_1"}}}
	uc := newTestUsecase(store, meta, &fakeGoogleExchanger{})
	require.NoError(t, uc.CompleteConnect(context.Background(), domain.PlatformMeta, "code", "user-1"))

	statusMap, err := uc.Status(context.Background(), "user-1", true)
	require.NoError(t, err)
	assert.True(t, statusMap[domain.PlatformMeta])
	assert.Equal(t, 1, meta.accountsCalls)
}

func TestStatus_VerifyFalseWhenProbeFailsOrEmpty(t *testing.T) {
	for name, meta := range map[string]*fakeMetaClient{
		"probe error": {accountsErr: errors.New("expired token")},
		"no accounts": {accounts: []metaads.AdAccount{}},
	} {
		t.Run(name, func(t *testing.T) {
			store := newMemoryStore()
			uc := newTestUsecase(store, meta, &fakeGoogleExchanger{})
			require.NoError(t, uc.CompleteConnect(context.Background(), domain.PlatformMeta, "code", "user-1"))

			statusMap, err := uc.Status(context.Background(), "user-1", true)
			require.NoError(t, err)
			assert.False(t, statusMap[domain.PlatformMeta])
		})
	}
}

func TestRecord_UnknownUser(t *testing.T) {
	uc := newTestUsecase(newMemoryStore(), &fakeMetaClient{}, &fakeGoogleExchanger{})

	_, err := uc.Record(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
