package rest

import (
	"context"

	"github.com/dmitrijs2005/pulsecheck/internal/server/models"
	"github.com/dmitrijs2005/pulsecheck/internal/server/services"
)

// UserManager is implemented by services.UserService.
type UserManager interface {
	Create(ctx context.Context, in services.NewUser) error
	Read(ctx context.Context, phone, token string) (*models.UserProfile, error)
	Update(ctx context.Context, phone string, patch services.UserPatch, token string) error
	Delete(ctx context.Context, phone, token string) error
}

// TokenAuthority is implemented by services.TokenService.
type TokenAuthority interface {
	Issue(ctx context.Context, phone, password string) (*models.Token, error)
	Read(ctx context.Context, id string) (*models.Token, error)
	Renew(ctx context.Context, id string, extend bool) (*models.Token, error)
	Revoke(ctx context.Context, id string) error
}

// CheckManager is implemented by services.CheckService.
type CheckManager interface {
	Create(ctx context.Context, in services.NewCheck, token string) (*models.Check, error)
	Read(ctx context.Context, id, token string) (*models.Check, error)
	Update(ctx context.Context, id string, patch services.CheckPatch, token string) (*models.Check, error)
	Delete(ctx context.Context, id, token string) error
}
