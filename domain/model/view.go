package model

// ViewKind selects one of the mutually exclusive portal views.
type ViewKind string

const (
	ViewPlatforms ViewKind = "platforms"
	ViewTiers     ViewKind = "tiers"
	ViewContent   ViewKind = "content"
)

// ViewState is derived purely from URL query parameters and never stored.
type ViewState struct {
	Kind       ViewKind
	PlatformID string
	TierID     string
}

// ViewQuery is the query-string form of a ViewState plus content filters.
type ViewQuery struct {
	View       string `url:"view,omitempty"`
	PlatformID string `url:"platform_id,omitempty"`
	TierID     string `url:"tier_id,omitempty"`
	Type       string `url:"type,omitempty"`
	Query      string `url:"q,omitempty"`
}
