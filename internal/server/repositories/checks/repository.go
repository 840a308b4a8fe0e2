package checks

import (
	"context"

	"github.com/dmitrijs2005/pulsecheck/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, check *models.Check) error
	Get(ctx context.Context, id string) (*models.Check, error)
	Update(ctx context.Context, check *models.Check) error
	Delete(ctx context.Context, id string) error
}
