package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"lustroom-portal/domain/dto"
	"lustroom-portal/domain/model"
	"lustroom-portal/domain/repository"
	"lustroom-portal/usecase"
)

func newAuth(backend *MockPortalBackend, store *MockSessionStore, now time.Time) (usecase.IAuthUsecase, *usecase.CacheRegistry) {
	clock := func() time.Time { return now }
	registry := usecase.NewCacheRegistry(backend, clock)
	return usecase.NewAuthUsecase(backend, store, registry, 24*time.Hour, clock), registry
}

func TestLogin_MissingFieldsNeverReachBackend(t *testing.T) {
	backend := new(MockPortalBackend)
	store := new(MockSessionStore)
	auth, _ := newAuth(backend, store, time.Unix(1_700_000_000, 0))

	_, err := auth.Login(context.Background(), dto.ReqLogin{Email: "  ", Password: "x"})
	require.Error(t, err)
	assert.Equal(t, usecase.MsgMissingCredentials, err.Error())

	backend.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLogin_PersistsCredential(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	backend := new(MockPortalBackend)
	store := new(MockSessionStore)
	auth, _ := newAuth(backend, store, now)

	backend.On("Login", mock.Anything, dto.ReqLogin{Email: "a@b.c", Password: "pw"}).Return(&dto.ResLogin{
		AccessToken: "tok",
		ExpiresIn:   3600,
		UserInfo:    &model.UserInfo{Email: "a@b.c", PlatformID: "2"},
	}, nil)

	var saved map[string]string
	store.On("Save", mock.Anything, mock.AnythingOfType("string"), mock.Anything, 24*time.Hour).
		Run(func(args mock.Arguments) { saved = args.Get(2).(map[string]string) }).
		Return(nil)

	sid, err := auth.Login(context.Background(), dto.ReqLogin{Email: " a@b.c ", Password: "pw"})
	require.NoError(t, err)
	assert.NotEmpty(t, sid)

	require.NotNil(t, saved)
	assert.Equal(t, "tok", saved[model.KeyToken])
	assert.Equal(t, "1700000000", saved[model.KeyObtainedAt])
	assert.Equal(t, "3600", saved[model.KeyExpiresIn])
	assert.Equal(t, "2", saved[model.KeyUserPlatformID])
	assert.True(t, usecase.IsSessionValid(saved, now))
	backend.AssertExpectations(t)
}

func TestLogin_BackendRejection(t *testing.T) {
	backend := new(MockPortalBackend)
	store := new(MockSessionStore)
	auth, _ := newAuth(backend, store, time.Now())

	backend.On("Login", mock.Anything, mock.Anything).Return(nil, &repository.APIError{Status: 401, Message: "Invalid email or password"})

	_, err := auth.Login(context.Background(), dto.ReqLogin{Email: "a@b.c", Password: "bad"})
	require.Error(t, err)
	assert.Equal(t, "Invalid email or password", usecase.UserMessage(err, usecase.MsgLoginUnreachable))
	store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLogout_ClearsStoreAndCache(t *testing.T) {
	backend := new(MockPortalBackend)
	store := new(MockSessionStore)
	auth, registry := newAuth(backend, store, time.Now())

	registry.CacheFor("sid")
	store.On("Clear", mock.Anything, "sid").Return(nil).Once()

	require.NoError(t, auth.Logout(context.Background(), "sid"))
	assert.Equal(t, 0, registry.Len())
	require.NoError(t, auth.Logout(context.Background(), ""))
	store.AssertExpectations(t)
}

func TestLoadSession(t *testing.T) {
	backend := new(MockPortalBackend)
	store := new(MockSessionStore)
	auth, registry := newAuth(backend, store, time.Now())

	store.On("Load", mock.Anything, "sid").Return(map[string]string{model.KeyToken: "tok"}, nil)
	store.On("Load", mock.Anything, "empty").Return(nil, nil)
	store.On("Load", mock.Anything, "broken").Return(nil, errors.New("redis down"))

	state, err := auth.LoadSession(context.Background(), "sid")
	require.NoError(t, err)
	assert.Equal(t, "tok", state.Token())
	assert.Same(t, registry.CacheFor("sid"), state.Cache)

	state, err = auth.LoadSession(context.Background(), "empty")
	require.NoError(t, err)
	assert.NotNil(t, state.Values)
	assert.False(t, state.IsValid(time.Now()))

	_, err = auth.LoadSession(context.Background(), "broken")
	assert.Error(t, err)
}

func TestActivate(t *testing.T) {
	backend := new(MockPortalBackend)
	auth, _ := newAuth(backend, new(MockSessionStore), time.Now())

	form := map[string]string{"email": "a@b.c", "activation_key": "K"}
	backend.On("Activate", mock.Anything, form).Return(&dto.ResActivate{}, nil).Once()
	backend.On("Activate", mock.Anything, form).Return(&dto.ResActivate{Envelope: dto.Envelope{Message: "Account created"}}, nil).Once()
	backend.On("Activate", mock.Anything, form).Return(nil, errors.New("dial tcp: refused")).Once()

	msg, err := auth.Activate(context.Background(), form)
	require.NoError(t, err)
	assert.Equal(t, usecase.MsgActivated, msg)

	msg, err = auth.Activate(context.Background(), form)
	require.NoError(t, err)
	assert.Equal(t, "Account created", msg)

	_, err = auth.Activate(context.Background(), form)
	require.Error(t, err)
	assert.Equal(t, usecase.MsgServerUnreachable, usecase.UserMessage(err, usecase.MsgServerUnreachable))
}
