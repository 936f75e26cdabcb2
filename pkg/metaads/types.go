package metaads

// Typed response shapes for the Graph API endpoints this dashboard uses.
// Every response decodes into one of these; untyped maps never leave this
// package.

// GraphError is the error payload the Graph API returns inside the response
// body (HTTP status alone is not reliable for Graph failures).
type GraphError struct {
	Message        string `json:"message"`
	Type           string `json:"type"`
	Code           int    `json:"code"`
	ErrorUserTitle string `json:"error_user_title"`
	ErrorUserMsg   string `json:"error_user_msg"`
}

// ExternalUser is the Facebook identity behind the connected token, fetched
// once at connect time so disconnect can revoke permissions later.
type ExternalUser struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type AdAccount struct {
	ID            string `json:"id"`
	AccountID     string `json:"account_id"`
	Name          string `json:"name"`
	AccountStatus int    `json:"account_status"`
	Currency      string `json:"currency"`
}

type PagePicture struct {
	Data struct {
		URL string `json:"url"`
	} `json:"data"`
}

type Page struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Category    string       `json:"category"`
	Picture     *PagePicture `json:"picture,omitempty"`
	AccessToken string       `json:"access_token,omitempty"`
}

type Campaign struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Status          string `json:"status"`
	Objective       string `json:"objective"`
	EffectiveStatus string `json:"effective_status"`
	CreatedTime     string `json:"created_time"`
}

type Creative struct {
	ID        string `json:"id"`
	Body      string `json:"body,omitempty"`
	ImageURL  string `json:"image_url,omitempty"`
	ImageHash string `json:"image_hash,omitempty"`
}

type Ad struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Status          string    `json:"status"`
	EffectiveStatus string    `json:"effective_status"`
	Creative        *Creative `json:"creative,omitempty"`
}

type AdList struct {
	Data []Ad `json:"data"`
}

type AdSet struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Status          string  `json:"status"`
	EffectiveStatus string  `json:"effective_status"`
	Ads             *AdList `json:"ads,omitempty"`
}

type AdSetList struct {
	Data []AdSet `json:"data"`
}

// CampaignDetail is the nested campaign tree: campaign, its ad sets, their
// ads and each ad's creative, fetched in a single Graph call.
type CampaignDetail struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Objective       string     `json:"objective"`
	Status          string     `json:"status"`
	EffectiveStatus string     `json:"effective_status"`
	AdSets          *AdSetList `json:"adsets,omitempty"`
}

// CreateAdSetParams carries the caller-supplied ad set fields. The rest of
// the ad set payload (billing event, optimization goal, targeting defaults)
// is fixed by the dashboard.
type CreateAdSetParams struct {
	AdAccountID      string
	CampaignID       string
	Name             string
	DailyBudget      int
	TargetingCountry string
}

// CreativeParams describes the ad creative built in step two of ad creation,
// referencing the image hash registered in step one.
type CreativeParams struct {
	AdAccountID string
	PageID      string
	Name        string
	Message     string
	Headline    string
	Link        string
	ImageHash   string
}
