package usecase

import (
	"context"

	"b2y-backend/internal/ads/dto"
	"b2y-backend/pkg/metaads"
)

// AdsUsecase proxies ad-object operations to the Meta Graph API using the
// caller's stored access token. Every operation resolves the token first and
// fails with NotConnected when the platform is not linked.
type AdsUsecase interface {
	ListAdAccounts(ctx context.Context, userID string) ([]metaads.AdAccount, error)
	ListPages(ctx context.Context, userID string) ([]metaads.Page, error)
	ListCampaigns(ctx context.Context, userID, adAccountID string) ([]metaads.Campaign, error)
	CampaignDetail(ctx context.Context, userID, campaignID string) (*metaads.CampaignDetail, error)

	CreateCampaign(ctx context.Context, userID string, req dto.CreateCampaignRequest) (string, error)
	CreateAdSet(ctx context.Context, userID string, req dto.CreateAdSetRequest) (string, error)

	// CreateAd runs the three-step sequence image -> creative -> ad. The
	// returned result is meaningful even on error: it says which steps
	// completed and which external ids already exist.
	CreateAd(ctx context.Context, userID string, req dto.CreateAdRequest) (*dto.CreateAdResult, error)

	UpdateStatus(ctx context.Context, userID, objectID, newStatus string) error
}

// MetaAdsClient is the slice of the Graph API client the proxy needs.
// *metaads.Client satisfies it.
type MetaAdsClient interface {
	ListAdAccounts(ctx context.Context, accessToken string) ([]metaads.AdAccount, error)
	ListPages(ctx context.Context, accessToken string) ([]metaads.Page, error)
	ListCampaigns(ctx context.Context, accessToken, adAccountID string) ([]metaads.Campaign, error)
	CampaignDetail(ctx context.Context, accessToken, campaignID string) (*metaads.CampaignDetail, error)
	CreateCampaign(ctx context.Context, accessToken, adAccountID, name, objective string) (string, error)
	CreateAdSet(ctx context.Context, accessToken string, params metaads.CreateAdSetParams) (string, error)
	RegisterImage(ctx context.Context, accessToken, adAccountID, imageURL string) (string, error)
	CreateCreative(ctx context.Context, accessToken string, params metaads.CreativeParams) (string, error)
	CreateAd(ctx context.Context, accessToken, adAccountID, adName, adSetID, creativeID string) (string, error)
	UpdateStatus(ctx context.Context, accessToken, objectID, status string) error
}
