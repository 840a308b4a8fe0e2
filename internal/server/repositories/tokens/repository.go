package tokens

import (
	"context"

	"github.com/dmitrijs2005/pulsecheck/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, token *models.Token) error
	Get(ctx context.Context, id string) (*models.Token, error)
	Update(ctx context.Context, token *models.Token) error
	Delete(ctx context.Context, id string) error
}
