package dto

// Request bodies for the ad-platform proxy endpoints. Binding tags enforce
// the required-field checks before any network call happens.

type CreateCampaignRequest struct {
	AdAccountID  string `json:"adAccountId" binding:"required"`
	CampaignName string `json:"campaignName" binding:"required"`
	Objective    string `json:"objective" binding:"required"`
}

type CreateAdSetRequest struct {
	AdAccountID      string `json:"adAccountId" binding:"required"`
	CampaignID       string `json:"campaignId" binding:"required"`
	AdSetName        string `json:"adSetName" binding:"required"`
	DailyBudget      int    `json:"dailyBudget" binding:"required"`
	TargetingCountry string `json:"targetingCountry" binding:"required"`
}

type CreateAdRequest struct {
	AdAccountID string `json:"adAccountId" binding:"required"`
	AdSetID     string `json:"adSetId" binding:"required"`
	PageID      string `json:"pageId" binding:"required"`
	AdName      string `json:"adName" binding:"required"`
	Message     string `json:"message" binding:"required"`
	Headline    string `json:"headline" binding:"required"`
	ImageURL    string `json:"imageUrl" binding:"required"`
	Link        string `json:"link" binding:"required"`
}

type UpdateStatusRequest struct {
	ObjectID  string `json:"objectId" binding:"required"`
	NewStatus string `json:"newStatus" binding:"required"`
}

// CreateAdResult reports how far the image -> creative -> ad sequence got.
// On partial failure the completed steps and the ids already created remain
// visible to the caller; earlier objects are not rolled back.
type CreateAdResult struct {
	Success        bool     `json:"success"`
	AdID           string   `json:"adId,omitempty"`
	CreativeID     string   `json:"creativeId,omitempty"`
	ImageHash      string   `json:"imageHash,omitempty"`
	CompletedSteps []string `json:"completedSteps"`
}
