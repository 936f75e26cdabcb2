package metaads

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"b2y-backend/internal/platform/domain"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient("fb-app", "fb-secret", server.URL)
}

func TestExchangeCode_SendsAppCredentials(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/oauth/access_token", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "fb-app", q.Get("client_id"))
		assert.Equal(t, "fb-secret", q.Get("client_secret"))
		assert.Equal(t, "https://api.example.com/api/auth/meta/callback", q.Get("redirect_uri"))
		assert.Equal(t, "auth-code", q.Get("code"))
		json.NewEncoder(w).Encode(map[string]string{"access_token": "short-token"})
	}))

	token, err := client.ExchangeCode(context.Background(), "https://api.example.com/api/auth/meta/callback", "auth-code")
	require.NoError(t, err)
	assert.Equal(t, "short-token", token)
}

func TestExtendToken_UsesFbExchangeGrant(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "fb_exchange_token", q.Get("grant_type"))
		assert.Equal(t, "short-token", q.Get("fb_exchange_token"))
		json.NewEncoder(w).Encode(map[string]string{"access_token": "long-token"})
	}))

	token, err := client.ExtendToken(context.Background(), "short-token")
	require.NoError(t, err)
	assert.Equal(t, "long-token", token)
}

func TestDo_DecodesErrorEnvelope(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]interface{}{
				"message": "Invalid OAuth access token.",
				"type":    "OAuthException",
				"code":    190,
			},
		})
	}))

	_, err := client.Me(context.Background(), "bad-token")

	var upstream *domain.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, 190, upstream.Code)
	assert.Equal(t, "(190) Invalid OAuth access token.", upstream.Error())
}

func TestDo_PrefersUserFacingErrorText(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]interface{}{
				"message":          "Invalid parameter",
				"code":             100,
				"error_user_title": "Orçamento muito baixo",
				"error_user_msg":   "O orçamento diário mínimo é R$5,00.",
			},
		})
	}))

	_, err := client.ListCampaigns(context.Background(), "token", "123")

	var upstream *domain.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "(100) Orçamento muito baixo - O orçamento diário mínimo é R$5,00.", upstream.Error())
}

func TestDo_UnreachableHost(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()
	client := NewClient("fb-app", "fb-secret", server.URL)

	_, err := client.ListAdAccounts(context.Background(), "token")
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}

func TestListAdAccounts_EmptyDataIsEmptySlice(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me/adaccounts", r.URL.Path)
		w.Write([]byte(`{}`))
	}))

	accounts, err := client.ListAdAccounts(context.Background(), "token")
	require.NoError(t, err)
	assert.NotNil(t, accounts)
	assert.Empty(t, accounts)
}

func TestListPages_DecodesPictureAndPageToken(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me/accounts", r.URL.Path)
		w.Write([]byte(`{"data":[{"id":"p1","name":"Loja","category":"Retail","access_token":"page-token","picture":{"data":{"url":"https://cdn.example.com/p1.png"}}}]}`))
	}))

	pages, err := client.ListPages(context.Background(), "token")
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, "page-token", pages[0].AccessToken)
	assert.Equal(t, "https://cdn.example.com/p1.png", pages[0].Picture.Data.URL)
}

func TestRegisterImage_DownloadFailureSkipsGraphCall(t *testing.T) {
	graphCalled := false
	mux := http.NewServeMux()
	mux.HandleFunc("/image.png", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/act_123/adimages", func(w http.ResponseWriter, r *http.Request) {
		graphCalled = true
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	client := NewClient("fb-app", "fb-secret", server.URL)

	_, err := client.RegisterImage(context.Background(), "token", "123", server.URL+"/image.png")

	var badRequest *domain.BadRequestError
	require.ErrorAs(t, err, &badRequest)
	assert.Equal(t, "Não foi possível baixar a imagem do anúncio.", badRequest.Message)
	assert.False(t, graphCalled)
}

func TestRegisterImage_ReturnsFirstHash(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/image.png", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("png-bytes"))
	})
	mux.HandleFunc("/act_123/adimages", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.NotEmpty(t, body["bytes"])
		assert.Equal(t, "token", body["access_token"])
		w.Write([]byte(`{"images":{"bytes":{"hash":"hash-abc"}}}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	client := NewClient("fb-app", "fb-secret", server.URL)

	hash, err := client.RegisterImage(context.Background(), "token", "123", server.URL+"/image.png")
	require.NoError(t, err)
	assert.Equal(t, "hash-abc", hash)
}

func TestCreateAdSet_AppliesFixedDefaults(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/act_123/adsets", r.URL.Path)
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "IMPRESSIONS", body["billing_event"])
		assert.Equal(t, "LINK_CLICKS", body["optimization_goal"])
		assert.Equal(t, "LOWEST_COST_WITHOUT_CAP", body["bid_strategy"])
		assert.Equal(t, "PAUSED", body["status"])
		targeting := body["targeting"].(map[string]interface{})
		assert.Equal(t, float64(18), targeting["age_min"])
		assert.Equal(t, float64(65), targeting["age_max"])
		geo := targeting["geo_locations"].(map[string]interface{})
		assert.Equal(t, []interface{}{"BR"}, geo["countries"])
		json.NewEncoder(w).Encode(map[string]string{"id": "adset-1"})
	}))

	id, err := client.CreateAdSet(context.Background(), "token", CreateAdSetParams{
		AdAccountID:      "123",
		CampaignID:       "999",
		Name:             "Conjunto",
		DailyBudget:      500,
		TargetingCountry: "BR",
	})
	require.NoError(t, err)
	assert.Equal(t, "adset-1", id)
}

func TestRevokePermissions_DeletesPermissionsEdge(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/fb-user-1/permissions", r.URL.Path)
		assert.Equal(t, "token", r.URL.Query().Get("access_token"))
		json.NewEncoder(w).Encode(map[string]bool{"success": true})
	}))

	err := client.RevokePermissions(context.Background(), "fb-user-1", "token")
	assert.NoError(t, err)
}
