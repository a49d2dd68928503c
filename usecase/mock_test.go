package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
	"lustroom-portal/domain/dto"
	"lustroom-portal/domain/model"
)

// Mock implementations
type MockPortalBackend struct {
	mock.Mock
}

func (m *MockPortalBackend) Login(ctx context.Context, req dto.ReqLogin) (*dto.ResLogin, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ResLogin), args.Error(1)
}

func (m *MockPortalBackend) Activate(ctx context.Context, form map[string]string) (*dto.ResActivate, error) {
	args := m.Called(ctx, form)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ResActivate), args.Error(1)
}

func (m *MockPortalBackend) GetPlatforms(ctx context.Context, token string) ([]model.Platform, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Platform), args.Error(1)
}

func (m *MockPortalBackend) GetTiers(ctx context.Context, token, platformID string) ([]model.Tier, error) {
	args := m.Called(ctx, token, platformID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Tier), args.Error(1)
}

func (m *MockPortalBackend) GetContent(ctx context.Context, token, tierID string) (model.TierContent, error) {
	args := m.Called(ctx, token, tierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.TierContent), args.Error(1)
}

type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Load(ctx context.Context, sessionID string) (map[string]string, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func (m *MockSessionStore) Save(ctx context.Context, sessionID string, values map[string]string, ttl time.Duration) error {
	args := m.Called(ctx, sessionID, values, ttl)
	return args.Error(0)
}

func (m *MockSessionStore) Clear(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

// fakeClock is a settable time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{now: t}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
