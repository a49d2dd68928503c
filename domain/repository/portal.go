package repository

import (
	"context"

	"lustroom-portal/domain/dto"
	"lustroom-portal/domain/model"
)

// IPortalBackend is the remote API that owns authentication, entitlement and content.
type IPortalBackend interface {
	Login(ctx context.Context, req dto.ReqLogin) (*dto.ResLogin, error)
	Activate(ctx context.Context, form map[string]string) (*dto.ResActivate, error)
	GetPlatforms(ctx context.Context, token string) ([]model.Platform, error)
	GetTiers(ctx context.Context, token, platformID string) ([]model.Tier, error)
	GetContent(ctx context.Context, token, tierID string) (model.TierContent, error)
}
