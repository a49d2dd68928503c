package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"lustroom-portal/domain/dto"
	"lustroom-portal/domain/model"
	"lustroom-portal/domain/repository"
	"lustroom-portal/infrastructure/logger"
	"lustroom-portal/infrastructure/utils"
)

const (
	MsgMissingCredentials = "Please enter both email and password."
	MsgLoginUnreachable   = "An error occurred while trying to log in. Please check your internet connection or try again later."
	MsgActivated          = "Activation successful! You can now log in."
	MsgServerUnreachable  = "Could not connect to the server. Please try again later."
)

type IAuthUsecase interface {
	// Login authenticates against the backend and persists the credential under a new session id.
	Login(ctx context.Context, req dto.ReqLogin) (string, error)
	// Logout clears everything stored for the session.
	Logout(ctx context.Context, sessionID string) error
	LoadSession(ctx context.Context, sessionID string) (*SessionState, error)
	Activate(ctx context.Context, form map[string]string) (string, error)
}

type authUsecase struct {
	backend  repository.IPortalBackend
	store    repository.ISessionStore
	registry *CacheRegistry
	ttl      time.Duration
	now      func() time.Time
}

func NewAuthUsecase(backend repository.IPortalBackend, store repository.ISessionStore, registry *CacheRegistry, ttl time.Duration, now func() time.Time) IAuthUsecase {
	if now == nil {
		now = time.Now
	}
	return &authUsecase{backend: backend, store: store, registry: registry, ttl: ttl, now: now}
}

func (u *authUsecase) Login(ctx context.Context, req dto.ReqLogin) (string, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.Password = strings.TrimSpace(req.Password)
	if req.Email == "" || req.Password == "" {
		return "", &repository.APIError{Status: http.StatusBadRequest, Message: MsgMissingCredentials}
	}

	lg := logger.GetLogger().WithField("email", req.Email)
	res, err := u.backend.Login(ctx, req)
	if err != nil {
		lg.WithField("error", err).Warn("Login rejected")
		return "", err
	}

	cred := model.Credential{Token: res.AccessToken, ObtainedAt: u.now().Unix(), ExpiresIn: int64(res.ExpiresIn)}
	sessionID := utils.NewSessionID()
	if err := u.store.Save(ctx, sessionID, CredentialValues(cred, res.UserInfo), u.ttl); err != nil {
		lg.WithField("error", err).Error("Failed to persist session")
		return "", err
	}

	lg.WithField("expires_in", res.ExpiresIn).Info("User logged in")
	return sessionID, nil
}

func (u *authUsecase) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	u.registry.Drop(sessionID)
	if err := u.store.Clear(ctx, sessionID); err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to clear session")
		return err
	}
	return nil
}

func (u *authUsecase) LoadSession(ctx context.Context, sessionID string) (*SessionState, error) {
	values, err := u.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if values == nil {
		values = map[string]string{}
	}
	return &SessionState{ID: sessionID, Values: values, Cache: u.registry.CacheFor(sessionID)}, nil
}

func (u *authUsecase) Activate(ctx context.Context, form map[string]string) (string, error) {
	res, err := u.backend.Activate(ctx, form)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Activation failed")
		return "", err
	}
	if msg := strings.TrimSpace(res.Message); msg != "" {
		return msg, nil
	}
	return MsgActivated, nil
}

// UserMessage is the text shown for err: the backend's own message when there is
// one, otherwise fallback.
func UserMessage(err error, fallback string) string {
	var apiErr *repository.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
