package usecase_test

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"lustroom-portal/domain/model"
	"lustroom-portal/domain/repository"
	"lustroom-portal/usecase"
)

func newSession(backend *MockPortalBackend, entitled string) *usecase.SessionState {
	return &usecase.SessionState{
		ID: "sid",
		Values: map[string]string{
			model.KeyToken:          "tok",
			model.KeyUserPlatformID: entitled,
		},
		Cache: usecase.NewDataCache(backend),
	}
}

func TestResolveView(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  model.ViewState
	}{
		{"empty", "", model.ViewState{Kind: model.ViewPlatforms}},
		{"platforms", "view=platforms", model.ViewState{Kind: model.ViewPlatforms}},
		{"tiers", "view=tiers&platform_id=3", model.ViewState{Kind: model.ViewTiers, PlatformID: "3"}},
		{"tiers_missing_platform", "view=tiers", model.ViewState{Kind: model.ViewPlatforms}},
		{"content", "view=content&platform_id=3&tier_id=9", model.ViewState{Kind: model.ViewContent, PlatformID: "3", TierID: "9"}},
		{"content_missing_tier", "view=content&platform_id=3", model.ViewState{Kind: model.ViewPlatforms}},
		{"unknown_view", "view=admin&platform_id=3", model.ViewState{Kind: model.ViewPlatforms}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, usecase.ResolveView(q))
		})
	}
}

func TestViewHref(t *testing.T) {
	assert.Equal(t, "/links", usecase.ViewHref(model.ViewQuery{}))
	assert.Equal(t, "/links?platform_id=3&view=tiers", usecase.ViewHref(model.ViewQuery{View: "tiers", PlatformID: "3"}))
	assert.Equal(t, "/links?platform_id=3&q=a+b&tier_id=9&type=PDF&view=content",
		usecase.ViewHref(model.ViewQuery{View: "content", PlatformID: "3", TierID: "9", Type: "PDF", Query: "a b"}))

	// Round trip through the resolver.
	href := usecase.StateHref(model.ViewState{Kind: model.ViewContent, PlatformID: "3", TierID: "9"})
	u, err := url.Parse(href)
	require.NoError(t, err)
	assert.Equal(t, model.ViewState{Kind: model.ViewContent, PlatformID: "3", TierID: "9"}, usecase.ResolveView(u.Query()))
}

func TestRoute_PlatformsMarksLocked(t *testing.T) {
	backend := new(MockPortalBackend)
	backend.On("GetPlatforms", mock.Anything, "tok").Return([]model.Platform{{ID: "1", Name: "One"}, {ID: "2", Name: "Two"}}, nil).Once()

	uc := usecase.NewPortalUsecase(nil)
	res, err := uc.Route(context.Background(), newSession(backend, "2"), url.Values{})
	require.NoError(t, err)
	require.NotNil(t, res.Platforms)
	require.Len(t, res.Platforms.Cards, 2)

	assert.True(t, res.Platforms.Cards[0].Locked)
	assert.Equal(t, "/platforms/1/details", res.Platforms.Cards[0].Href)
	assert.False(t, res.Platforms.Cards[1].Locked)
	assert.Equal(t, "/links?platform_id=2&view=tiers", res.Platforms.Cards[1].Href)
}

func TestRoute_TiersUsesCacheAcrossVisits(t *testing.T) {
	backend := new(MockPortalBackend)
	backend.On("GetPlatforms", mock.Anything, "tok").Return([]model.Platform{{ID: "2", Name: "Two"}}, nil).Once()
	backend.On("GetTiers", mock.Anything, "tok", "2").Return([]model.Tier{{ID: "9", Name: "Gold", PlatformID: "2"}}, nil).Once()

	uc := usecase.NewPortalUsecase(nil)
	session := newSession(backend, "2")
	q := url.Values{"view": {"tiers"}, "platform_id": {"2"}}

	for i := 0; i < 2; i++ {
		res, err := uc.Route(context.Background(), session, q)
		require.NoError(t, err)
		require.NotNil(t, res.Tiers)
		assert.Equal(t, "Two", res.Tiers.Platform.Name)
		require.Len(t, res.Tiers.Tiers, 1)
		assert.Equal(t, "/links?platform_id=2&tier_id=9&view=content", res.Tiers.Tiers[0].Href)
		assert.Equal(t, "/links", res.Tiers.BackHref)
	}
	backend.AssertExpectations(t)
}

func TestRoute_TiersUnknownPlatformGetsDefaultLabel(t *testing.T) {
	backend := new(MockPortalBackend)
	backend.On("GetPlatforms", mock.Anything, "tok").Return([]model.Platform{}, nil)
	backend.On("GetTiers", mock.Anything, "tok", "8").Return([]model.Tier{}, nil)

	res, err := usecase.NewPortalUsecase(nil).Route(context.Background(), newSession(backend, "8"), url.Values{"view": {"tiers"}, "platform_id": {"8"}})
	require.NoError(t, err)
	assert.Equal(t, "Platform", res.Tiers.Platform.Name)
	assert.Empty(t, res.Tiers.Tiers)
}

func TestRoute_ContentAlwaysRefetchedAndFiltered(t *testing.T) {
	backend := new(MockPortalBackend)
	now := time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)
	content := model.TierContent{
		{Name: "Gold", Links: []model.ContentLink{
			{Title: "New video", ContentType: "Video", AddedAt: "2024-05-19T12:00:00Z"},
			{Title: "Old pdf", ContentType: "PDF", AddedAt: "2024-05-13T12:00:00Z"},
		}},
	}
	backend.On("GetContent", mock.Anything, "tok", "9").Return(content, nil).Twice()

	uc := usecase.NewPortalUsecase(func() time.Time { return now })
	session := newSession(backend, "2")
	q := url.Values{"view": {"content"}, "platform_id": {"2"}, "tier_id": {"9"}, "type": {"PDF"}}

	var res *usecase.ViewResult
	var err error
	for i := 0; i < 2; i++ {
		res, err = uc.Route(context.Background(), session, q)
		require.NoError(t, err)
	}
	backend.AssertNumberOfCalls(t, "GetContent", 2)

	view := res.Content
	require.NotNil(t, view)
	assert.Equal(t, []string{"All", "Video", "PDF"}, view.Types)
	assert.Equal(t, "/links?platform_id=2&view=tiers", view.BackHref)
	assert.True(t, view.HasVisible())
	require.Len(t, view.Groups, 1)
	cards := view.Groups[0].Cards
	assert.False(t, cards[0].Visible)
	assert.True(t, cards[0].Recent)
	assert.True(t, cards[1].Visible)
	assert.False(t, cards[1].Recent, "exactly seven days old is not recent")
}

func TestRoute_PropagatesUnauthorized(t *testing.T) {
	backend := new(MockPortalBackend)
	backend.On("GetContent", mock.Anything, "tok", "9").Return(nil, &repository.APIError{Status: 401, Message: "expired"})

	res, err := usecase.NewPortalUsecase(nil).Route(context.Background(), newSession(backend, "2"),
		url.Values{"view": {"content"}, "platform_id": {"2"}, "tier_id": {"9"}})
	require.Error(t, err)
	assert.True(t, repository.IsUnauthorized(err))
	require.NotNil(t, res)
	assert.Equal(t, model.ViewContent, res.State.Kind)
}

func TestPlatformDetails(t *testing.T) {
	backend := new(MockPortalBackend)
	backend.On("GetPlatforms", mock.Anything, "tok").Return([]model.Platform{
		{ID: "1", Name: "One", TeaserVideoURLs: []string{"https://v/1"}, SocialLinks: map[string]string{"twitter": "https://t", "instagram": "https://i"}},
		{ID: "2", Name: "Two", ContactInfoHTML: "<p>mail us</p>"},
	}, nil).Once()

	uc := usecase.NewPortalUsecase(nil)
	session := newSession(backend, "2")

	details, err := uc.PlatformDetails(context.Background(), session, "1")
	require.NoError(t, err)
	assert.True(t, details.Locked)
	assert.Equal(t, "https://v/1", details.TeaserURL)
	assert.Equal(t, []usecase.SocialLink{{Name: "Instagram", URL: "https://i"}, {Name: "Twitter", URL: "https://t"}}, details.SocialLinks)
	assert.Contains(t, details.ContactHTML, "Contact the provider")

	details, err = uc.PlatformDetails(context.Background(), session, "2")
	require.NoError(t, err)
	assert.False(t, details.Locked)
	assert.Equal(t, "<p>mail us</p>", details.ContactHTML)
	assert.Empty(t, details.TeaserURL)

	_, err = uc.PlatformDetails(context.Background(), session, "404")
	assert.Error(t, err)
	backend.AssertNumberOfCalls(t, "GetPlatforms", 1)
}
