package checks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/pulsecheck/internal/server/models"
	"github.com/dmitrijs2005/pulsecheck/internal/server/records"
)

type RecordRepository struct {
	store records.Store
}

func NewRecordRepository(store records.Store) *RecordRepository {
	return &RecordRepository{store: store}
}

func (r *RecordRepository) Create(ctx context.Context, check *models.Check) error {
	data, err := json.Marshal(check)
	if err != nil {
		return fmt.Errorf("encode check: %w", err)
	}
	return r.store.Create(ctx, records.Checks, check.ID, data)
}

func (r *RecordRepository) Get(ctx context.Context, id string) (*models.Check, error) {
	data, err := r.store.Read(ctx, records.Checks, id)
	if err != nil {
		return nil, err
	}

	check := &models.Check{}
	if err := json.Unmarshal(data, check); err != nil {
		return nil, fmt.Errorf("decode check %s: %w", id, err)
	}
	return check, nil
}

func (r *RecordRepository) Update(ctx context.Context, check *models.Check) error {
	data, err := json.Marshal(check)
	if err != nil {
		return fmt.Errorf("encode check: %w", err)
	}
	return r.store.Update(ctx, records.Checks, check.ID, data)
}

func (r *RecordRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, records.Checks, id)
}
