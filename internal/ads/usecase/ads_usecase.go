package usecase

import (
	"context"

	"b2y-backend/internal/ads/dto"
	"b2y-backend/internal/platform/domain"
	"b2y-backend/internal/platform/repository"
	"b2y-backend/pkg/metaads"
)

// adsUsecase implements AdsUsecase
type adsUsecase struct {
	store repository.CredentialStore
	meta  MetaAdsClient
}

// NewAdsUsecase creates a new instance of adsUsecase
func NewAdsUsecase(store repository.CredentialStore, meta MetaAdsClient) AdsUsecase {
	return &adsUsecase{
		store: store,
		meta:  meta,
	}
}

// metaToken loads the stored Meta access token. requireRecord distinguishes
// the list endpoints, which report a missing user record as not-found, from
// the write endpoints, which fold it into not-connected.
func (u *adsUsecase) metaToken(ctx context.Context, userID string, requireRecord bool) (string, error) {
	record, err := u.store.Get(ctx, userID)
	if err != nil {
		return "", err
	}
	if record == nil && requireRecord {
		return "", domain.ErrUserNotFound
	}

	conn, ok := record.Connection(domain.PlatformMeta)
	if !ok || conn.AccessToken == "" {
		return "", &domain.NotConnectedError{Platform: domain.PlatformMeta}
	}
	return conn.AccessToken, nil
}

func (u *adsUsecase) ListAdAccounts(ctx context.Context, userID string) ([]metaads.AdAccount, error) {
	token, err := u.metaToken(ctx, userID, true)
	if err != nil {
		return nil, err
	}
	return u.meta.ListAdAccounts(ctx, token)
}

func (u *adsUsecase) ListPages(ctx context.Context, userID string) ([]metaads.Page, error) {
	token, err := u.metaToken(ctx, userID, true)
	if err != nil {
		return nil, err
	}
	return u.meta.ListPages(ctx, token)
}

func (u *adsUsecase) ListCampaigns(ctx context.Context, userID, adAccountID string) ([]metaads.Campaign, error) {
	if adAccountID == "" {
		return nil, &domain.BadRequestError{Message: "ID da Conta de Anúncios é obrigatório.", Fields: []string{"adAccountId"}}
	}
	token, err := u.metaToken(ctx, userID, false)
	if err != nil {
		return nil, err
	}
	return u.meta.ListCampaigns(ctx, token, adAccountID)
}

func (u *adsUsecase) CampaignDetail(ctx context.Context, userID, campaignID string) (*metaads.CampaignDetail, error) {
	if campaignID == "" {
		return nil, &domain.BadRequestError{Message: "ID da Campanha é obrigatório.", Fields: []string{"id"}}
	}
	token, err := u.metaToken(ctx, userID, false)
	if err != nil {
		return nil, err
	}
	return u.meta.CampaignDetail(ctx, token, campaignID)
}

func (u *adsUsecase) CreateCampaign(ctx context.Context, userID string, req dto.CreateCampaignRequest) (string, error) {
	token, err := u.metaToken(ctx, userID, false)
	if err != nil {
		return "", err
	}
	return u.meta.CreateCampaign(ctx, token, req.AdAccountID, req.CampaignName, req.Objective)
}

func (u *adsUsecase) CreateAdSet(ctx context.Context, userID string, req dto.CreateAdSetRequest) (string, error) {
	token, err := u.metaToken(ctx, userID, false)
	if err != nil {
		return "", err
	}
	return u.meta.CreateAdSet(ctx, token, metaads.CreateAdSetParams{
		AdAccountID:      req.AdAccountID,
		CampaignID:       req.CampaignID,
		Name:             req.AdSetName,
		DailyBudget:      req.DailyBudget,
		TargetingCountry: req.TargetingCountry,
	})
}

// CreateAd runs the three external calls in order. Each failure aborts the
// sequence; objects created by earlier steps stay behind as PAUSED orphans
// upstream, and the result records exactly how far the sequence got.
func (u *adsUsecase) CreateAd(ctx context.Context, userID string, req dto.CreateAdRequest) (*dto.CreateAdResult, error) {
	token, err := u.metaToken(ctx, userID, false)
	if err != nil {
		return nil, err
	}

	result := &dto.CreateAdResult{CompletedSteps: []string{}}

	hash, err := u.meta.RegisterImage(ctx, token, req.AdAccountID, req.ImageURL)
	if err != nil {
		return result, err
	}
	result.ImageHash = hash
	result.CompletedSteps = append(result.CompletedSteps, "image")

	creativeID, err := u.meta.CreateCreative(ctx, token, metaads.CreativeParams{
		AdAccountID: req.AdAccountID,
		PageID:      req.PageID,
		Name:        "Criativo para " + req.AdName,
		Message:     req.Message,
		Headline:    req.Headline,
		Link:        req.Link,
		ImageHash:   hash,
	})
	if err != nil {
		return result, err
	}
	result.CreativeID = creativeID
	result.CompletedSteps = append(result.CompletedSteps, "creative")

	adID, err := u.meta.CreateAd(ctx, token, req.AdAccountID, req.AdName, req.AdSetID, creativeID)
	if err != nil {
		return result, err
	}
	result.AdID = adID
	result.CompletedSteps = append(result.CompletedSteps, "ad")
	result.Success = true
	return result, nil
}

func (u *adsUsecase) UpdateStatus(ctx context.Context, userID, objectID, newStatus string) error {
	// Exactly the two literal delivery states; case variants are rejected.
	if newStatus != "ACTIVE" && newStatus != "PAUSED" {
		return &domain.BadRequestError{Message: "Status inválido. Apenas ACTIVE ou PAUSED são permitidos.", Fields: []string{"newStatus"}}
	}
	token, err := u.metaToken(ctx, userID, false)
	if err != nil {
		return err
	}
	return u.meta.UpdateStatus(ctx, token, objectID, newStatus)
}
