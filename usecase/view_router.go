package usecase

import (
	"context"
	"math/rand"
	"net/url"
	"sort"
	"strings"
	"time"

	"lustroom-portal/domain/model"
	"lustroom-portal/domain/repository"
	"lustroom-portal/infrastructure/logger"

	"github.com/google/go-querystring/query"
)

// LinksPath is where the view router is mounted.
const LinksPath = "/links"

const defaultContactHTML = "<p>Contact the provider for access details.</p>"

type IPortalUsecase interface {
	Route(ctx context.Context, session *SessionState, q url.Values) (*ViewResult, error)
	PlatformDetails(ctx context.Context, session *SessionState, platformID string) (*PlatformDetails, error)
}

// ViewResult carries exactly one populated view, selected by State.Kind.
type ViewResult struct {
	State     model.ViewState
	Platforms *PlatformsView
	Tiers     *TiersView
	Content   *ContentView
}

type PlatformCard struct {
	model.Platform
	Locked bool
	Href   string
}

type PlatformsView struct {
	Cards []PlatformCard
}

type TierCard struct {
	model.Tier
	Href string
}

type TiersView struct {
	Platform model.Platform
	Tiers    []TierCard
	BackHref string
}

type ContentView struct {
	PlatformID string
	TierID     string
	Filter     ContentFilter
	Types      []string
	Groups     []ContentGroup
	BackHref   string
}

// HasVisible reports whether any card survived the filters.
func (v *ContentView) HasVisible() bool {
	for _, g := range v.Groups {
		if g.Visible {
			return true
		}
	}
	return false
}

type SocialLink struct {
	Name string
	URL  string
}

// PlatformDetails is what a locked platform shows instead of its tiers.
type PlatformDetails struct {
	Platform    model.Platform
	Locked      bool
	TeaserURL   string
	SocialLinks []SocialLink
	ContactHTML string
}

type portalUsecase struct {
	now func() time.Time
}

func NewPortalUsecase(now func() time.Time) IPortalUsecase {
	if now == nil {
		now = time.Now
	}
	return &portalUsecase{now: now}
}

// ResolveView derives the view state from query parameters alone. Anything that
// does not name a complete tiers or content view falls back to the platform list.
func ResolveView(q url.Values) model.ViewState {
	view := strings.TrimSpace(q.Get("view"))
	platformID := strings.TrimSpace(q.Get("platform_id"))
	tierID := strings.TrimSpace(q.Get("tier_id"))

	switch model.ViewKind(view) {
	case model.ViewTiers:
		if platformID != "" {
			return model.ViewState{Kind: model.ViewTiers, PlatformID: platformID}
		}
	case model.ViewContent:
		if platformID != "" && tierID != "" {
			return model.ViewState{Kind: model.ViewContent, PlatformID: platformID, TierID: tierID}
		}
	}
	return model.ViewState{Kind: model.ViewPlatforms}
}

// ViewHref builds the navigable URL of a view.
func ViewHref(vq model.ViewQuery) string {
	values, err := query.Values(vq)
	if err != nil || len(values) == 0 {
		return LinksPath
	}
	return LinksPath + "?" + values.Encode()
}

// StateHref is ViewHref for a bare view state.
func StateHref(state model.ViewState) string {
	if state.Kind == model.ViewPlatforms {
		return LinksPath
	}
	return ViewHref(model.ViewQuery{View: string(state.Kind), PlatformID: state.PlatformID, TierID: state.TierID})
}

func (u *portalUsecase) Route(ctx context.Context, session *SessionState, q url.Values) (*ViewResult, error) {
	state := ResolveView(q)
	result := &ViewResult{State: state}

	lg := logger.GetLogger().WithField("view", state.Kind).WithField("platform_id", state.PlatformID).WithField("tier_id", state.TierID)
	lg.Debug("Routing view")

	var err error
	switch state.Kind {
	case model.ViewTiers:
		result.Tiers, err = u.tiersView(ctx, session, state)
	case model.ViewContent:
		result.Content, err = u.contentView(ctx, session, state, ContentFilter{Type: q.Get("type"), Query: q.Get("q")})
	default:
		result.Platforms, err = u.platformsView(ctx, session)
	}
	if err != nil {
		lg.WithField("error", err).Warn("View data unavailable")
		return result, err
	}
	return result, nil
}

func (u *portalUsecase) platformsView(ctx context.Context, session *SessionState) (*PlatformsView, error) {
	platforms, err := session.Cache.EnsurePlatforms(ctx, session.Token())
	if err != nil {
		return nil, err
	}
	entitled := session.EntitledPlatformID()
	view := &PlatformsView{Cards: make([]PlatformCard, 0, len(platforms))}
	for _, p := range platforms {
		card := PlatformCard{Platform: p, Locked: p.IsLockedFor(entitled)}
		if card.Name == "" {
			card.Name = "Untitled Platform"
		}
		if card.Locked {
			card.Href = "/platforms/" + url.PathEscape(p.ID.String()) + "/details"
		} else {
			card.Href = StateHref(model.ViewState{Kind: model.ViewTiers, PlatformID: p.ID.String()})
		}
		view.Cards = append(view.Cards, card)
	}
	return view, nil
}

func (u *portalUsecase) tiersView(ctx context.Context, session *SessionState, state model.ViewState) (*TiersView, error) {
	if _, err := session.Cache.EnsurePlatforms(ctx, session.Token()); err != nil {
		return nil, err
	}
	tiers, err := session.Cache.EnsureTiers(ctx, session.Token(), state.PlatformID)
	if err != nil {
		return nil, err
	}
	platform, ok := session.Cache.FindPlatform(state.PlatformID)
	if !ok {
		platform = model.Platform{ID: model.ID(state.PlatformID)}
	}
	if platform.Name == "" {
		platform.Name = "Platform"
	}
	view := &TiersView{Platform: platform, Tiers: make([]TierCard, 0, len(tiers)), BackHref: LinksPath}
	for _, t := range tiers {
		card := TierCard{Tier: t}
		if card.Name == "" {
			card.Name = "Untitled Tier"
		}
		card.Href = StateHref(model.ViewState{Kind: model.ViewContent, PlatformID: state.PlatformID, TierID: t.ID.String()})
		view.Tiers = append(view.Tiers, card)
	}
	return view, nil
}

func (u *portalUsecase) contentView(ctx context.Context, session *SessionState, state model.ViewState, filter ContentFilter) (*ContentView, error) {
	view := &ContentView{
		PlatformID: state.PlatformID,
		TierID:     state.TierID,
		Filter:     filter,
		Types:      []string{FilterAll},
		BackHref:   StateHref(model.ViewState{Kind: model.ViewTiers, PlatformID: state.PlatformID}),
	}
	content, err := session.Cache.Content(ctx, session.Token(), state.TierID)
	if err != nil {
		return view, err
	}
	view.Types = ContentTypes(content)
	view.Groups = ApplyFilter(content, filter, u.now())
	return view, nil
}

func (u *portalUsecase) PlatformDetails(ctx context.Context, session *SessionState, platformID string) (*PlatformDetails, error) {
	if _, err := session.Cache.EnsurePlatforms(ctx, session.Token()); err != nil {
		return nil, err
	}
	platform, ok := session.Cache.FindPlatform(platformID)
	if !ok {
		return nil, &repository.APIError{Status: 404, Message: "Platform not found."}
	}
	details := &PlatformDetails{
		Platform:    platform,
		Locked:      platform.IsLockedFor(session.EntitledPlatformID()),
		ContactHTML: platform.ContactInfoHTML,
	}
	if details.ContactHTML == "" {
		details.ContactHTML = defaultContactHTML
	}
	if n := len(platform.TeaserVideoURLs); n > 0 {
		details.TeaserURL = platform.TeaserVideoURLs[rand.Intn(n)]
	}
	for name, link := range platform.SocialLinks {
		details.SocialLinks = append(details.SocialLinks, SocialLink{Name: capitalize(name), URL: link})
	}
	sort.Slice(details.SocialLinks, func(i, j int) bool { return details.SocialLinks[i].Name < details.SocialLinks[j].Name })
	return details, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
