package metaads

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"b2y-backend/internal/platform/domain"
)

const defaultBaseURL = "https://graph.facebook.com/v20.0"

// Client is a thin typed client for the Meta Graph API. It holds the app
// credentials for the OAuth token exchanges; every other call takes the
// user's stored access token explicitly.
type Client struct {
	appID      string
	appSecret  string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Graph API client. baseURL overrides the Graph endpoint
// and is meant for tests; pass "" for the real API.
func NewClient(appID, appSecret, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		appID:     appID,
		appSecret: appSecret,
		baseURL:   baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// do performs one Graph call and decodes the response into out. Graph
// reports failures inside the body, so the body is decoded twice: once for
// the error envelope, once for the typed payload.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body interface{}, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode graph request: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("build graph request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}

	var envelope struct {
		Error *GraphError `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("decode graph response: %w", err)
	}
	if envelope.Error != nil {
		return upstreamError(envelope.Error)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode graph response: %w", err)
		}
	}
	return nil
}

func upstreamError(ge *GraphError) error {
	message := ge.Message
	if ge.ErrorUserTitle != "" {
		message = ge.ErrorUserTitle + " - " + ge.ErrorUserMsg
	}
	return &domain.UpstreamError{
		Platform: domain.PlatformMeta,
		Code:     ge.Code,
		Message:  message,
	}
}

// ExchangeCode trades an authorization code for a short-lived user token.
func (c *Client) ExchangeCode(ctx context.Context, redirectURI, code string) (string, error) {
	query := url.Values{
		"client_id":     {c.appID},
		"client_secret": {c.appSecret},
		"redirect_uri":  {redirectURI},
		"code":          {code},
	}
	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.do(ctx, http.MethodGet, "/oauth/access_token", query, nil, &out); err != nil {
		return "", err
	}
	return out.AccessToken, nil
}

// ExtendToken trades a short-lived token for a long-lived one (~60 days).
func (c *Client) ExtendToken(ctx context.Context, shortLivedToken string) (string, error) {
	query := url.Values{
		"grant_type":        {"fb_exchange_token"},
		"client_id":         {c.appID},
		"client_secret":     {c.appSecret},
		"fb_exchange_token": {shortLivedToken},
	}
	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.do(ctx, http.MethodGet, "/oauth/access_token", query, nil, &out); err != nil {
		return "", err
	}
	return out.AccessToken, nil
}

// Me fetches the id and name of the Facebook user behind the token.
func (c *Client) Me(ctx context.Context, accessToken string) (*ExternalUser, error) {
	query := url.Values{
		"fields":       {"id,name"},
		"access_token": {accessToken},
	}
	var out ExternalUser
	if err := c.do(ctx, http.MethodGet, "/me", query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RevokePermissions removes the app's permissions for the external user,
// which is Meta's documented way to disconnect an app.
func (c *Client) RevokePermissions(ctx context.Context, externalUserID, accessToken string) error {
	query := url.Values{"access_token": {accessToken}}
	return c.do(ctx, http.MethodDelete, "/"+externalUserID+"/permissions", query, nil, nil)
}

func (c *Client) ListAdAccounts(ctx context.Context, accessToken string) ([]AdAccount, error) {
	query := url.Values{
		"fields":       {"name,account_id,account_status,currency"},
		"access_token": {accessToken},
	}
	var out struct {
		Data []AdAccount `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/me/adaccounts", query, nil, &out); err != nil {
		return nil, err
	}
	if out.Data == nil {
		out.Data = []AdAccount{}
	}
	return out.Data, nil
}

// ListPages returns the user's pages via the accounts edge, including each
// page's own access token, which ad creatives need.
func (c *Client) ListPages(ctx context.Context, accessToken string) ([]Page, error) {
	query := url.Values{
		"fields":       {"name,category,picture{url},access_token"},
		"access_token": {accessToken},
	}
	var out struct {
		Data []Page `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/me/accounts", query, nil, &out); err != nil {
		return nil, err
	}
	if out.Data == nil {
		out.Data = []Page{}
	}
	return out.Data, nil
}

func (c *Client) ListCampaigns(ctx context.Context, accessToken, adAccountID string) ([]Campaign, error) {
	query := url.Values{
		"fields":       {"name,status,objective,effective_status,created_time"},
		"access_token": {accessToken},
	}
	var out struct {
		Data []Campaign `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/act_"+adAccountID+"/campaigns", query, nil, &out); err != nil {
		return nil, err
	}
	if out.Data == nil {
		out.Data = []Campaign{}
	}
	return out.Data, nil
}

// CampaignDetail fetches one campaign with its ad sets, ads and creatives
// expanded in a single nested-fields call.
func (c *Client) CampaignDetail(ctx context.Context, accessToken, campaignID string) (*CampaignDetail, error) {
	query := url.Values{
		"fields":       {"name,objective,status,effective_status,adsets{name,status,effective_status,ads{name,status,effective_status,creative{body,image_url,image_hash}}}"},
		"access_token": {accessToken},
	}
	var out CampaignDetail
	if err := c.do(ctx, http.MethodGet, "/"+campaignID, query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateCampaign creates a campaign in the PAUSED state.
func (c *Client) CreateCampaign(ctx context.Context, accessToken, adAccountID, name, objective string) (string, error) {
	body := map[string]interface{}{
		"name":                  name,
		"objective":             objective,
		"status":                "PAUSED",
		"special_ad_categories": []string{"NONE"},
		"access_token":          accessToken,
	}
	var out struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/act_"+adAccountID+"/campaigns", nil, body, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

// CreateAdSet creates a PAUSED ad set starting now, with the dashboard's
// fixed billing/optimization/targeting defaults.
func (c *Client) CreateAdSet(ctx context.Context, accessToken string, params CreateAdSetParams) (string, error) {
	body := map[string]interface{}{
		"name":              params.Name,
		"campaign_id":       params.CampaignID,
		"daily_budget":      params.DailyBudget,
		"billing_event":     "IMPRESSIONS",
		"optimization_goal": "LINK_CLICKS",
		"bid_strategy":      "LOWEST_COST_WITHOUT_CAP",
		"start_time":        time.Now().UTC().Format(time.RFC3339),
		"targeting": map[string]interface{}{
			"geo_locations": map[string]interface{}{
				"countries": []string{params.TargetingCountry},
			},
			"age_min":             18,
			"age_max":             65,
			"publisher_platforms": []string{"facebook", "instagram"},
		},
		"status":       "PAUSED",
		"access_token": accessToken,
	}
	var out struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/act_"+params.AdAccountID+"/adsets", nil, body, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

// RegisterImage downloads the image and registers it with the ad account,
// returning the content hash creatives reference. A URL that cannot be
// downloaded fails here, before anything is created upstream.
func (c *Client) RegisterImage(ctx context.Context, accessToken, adAccountID, imageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", &domain.BadRequestError{Message: "URL da imagem inválida."}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &domain.BadRequestError{Message: "Não foi possível baixar a imagem do anúncio."}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", &domain.BadRequestError{Message: "Não foi possível baixar a imagem do anúncio."}
	}
	imageBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &domain.BadRequestError{Message: "Não foi possível baixar a imagem do anúncio."}
	}

	body := map[string]interface{}{
		"bytes":        base64.StdEncoding.EncodeToString(imageBytes),
		"access_token": accessToken,
	}
	var out struct {
		Images map[string]struct {
			Hash string `json:"hash"`
		} `json:"images"`
	}
	if err := c.do(ctx, http.MethodPost, "/act_"+adAccountID+"/adimages", nil, body, &out); err != nil {
		return "", err
	}
	for _, img := range out.Images {
		if img.Hash != "" {
			return img.Hash, nil
		}
	}
	return "", &domain.UpstreamError{Platform: domain.PlatformMeta, Message: "registro da imagem não retornou hash"}
}

// CreateCreative creates the ad creative referencing a registered image hash.
func (c *Client) CreateCreative(ctx context.Context, accessToken string, params CreativeParams) (string, error) {
	body := map[string]interface{}{
		"name": params.Name,
		"object_story_spec": map[string]interface{}{
			"page_id": params.PageID,
			"link_data": map[string]interface{}{
				"message":    params.Message,
				"link":       params.Link,
				"name":       params.Headline,
				"image_hash": params.ImageHash,
				"call_to_action": map[string]interface{}{
					"type": "LEARN_MORE",
				},
			},
		},
		"access_token": accessToken,
	}
	var out struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/act_"+params.AdAccountID+"/adcreatives", nil, body, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

// CreateAd creates the PAUSED ad referencing an existing creative.
func (c *Client) CreateAd(ctx context.Context, accessToken, adAccountID, adName, adSetID, creativeID string) (string, error) {
	body := map[string]interface{}{
		"name":     adName,
		"adset_id": adSetID,
		"creative": map[string]interface{}{
			"creative_id": creativeID,
		},
		"status":       "PAUSED",
		"access_token": accessToken,
	}
	var out struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/act_"+adAccountID+"/ads", nil, body, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

// UpdateStatus flips a campaign, ad set or ad between ACTIVE and PAUSED.
// Meta updates any object through a POST on the object id itself.
func (c *Client) UpdateStatus(ctx context.Context, accessToken, objectID, status string) error {
	body := map[string]interface{}{
		"status":       status,
		"access_token": accessToken,
	}
	return c.do(ctx, http.MethodPost, "/"+objectID, nil, body, nil)
}
