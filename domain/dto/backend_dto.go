package dto

import "lustroom-portal/domain/model"

// StatusSuccess is the envelope status the backend uses for successful calls.
const StatusSuccess = "success"

// Envelope is embedded in every backend response.
type Envelope struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func (e Envelope) OK() bool { return e.Status == StatusSuccess }

// ReqLogin is the body of POST /login.
type ReqLogin struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ResLogin is the body returned by POST /login.
type ResLogin struct {
	Envelope
	AccessToken string          `json:"access_token"`
	ExpiresIn   model.Seconds   `json:"expires_in"`
	UserInfo    *model.UserInfo `json:"user_info,omitempty"`
}

// ResActivate is the body returned by POST /activate.
type ResActivate struct {
	Envelope
}

type ResPlatforms struct {
	Envelope
	Platforms []model.Platform `json:"platforms"`
}

type ResTiers struct {
	Envelope
	Tiers []model.Tier `json:"tiers"`
}

type ResContent struct {
	Envelope
	Content model.TierContent `json:"content"`
}

// ReqContent is encoded into the query string of GET /get_patron_links.
type ReqContent struct {
	TierID string `url:"tier_id"`
}
