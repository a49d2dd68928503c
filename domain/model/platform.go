package model

// Platform is a top-level content provider. Lock state is not stored here;
// it is derived from the user's entitled platform id.
type Platform struct {
	ID              ID                `json:"id"`
	Name            string            `json:"name"`
	ThumbnailURL    string            `json:"thumbnail_url"`
	Description     string            `json:"description"`
	TeaserVideoURLs []string          `json:"teaser_video_urls"`
	SocialLinks     map[string]string `json:"social_links"`
	ContactInfoHTML string            `json:"contact_info_html"`
}

// IsLockedFor reports whether the platform is locked for a user entitled to entitledID.
func (p Platform) IsLockedFor(entitledID string) bool {
	return p.ID.String() != entitledID
}

// Tier is a subdivision within a platform.
type Tier struct {
	ID           ID     `json:"id"`
	Name         string `json:"name"`
	ThumbnailURL string `json:"thumbnail_url"`
	Description  string `json:"description"`
	PlatformID   ID     `json:"platform_id"`
}
