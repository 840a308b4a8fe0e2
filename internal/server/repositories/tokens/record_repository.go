package tokens

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

func (r *RecordRepository) Create(ctx context.Context, token *models.Token) error {
	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	return r.store.Create(ctx, records.Tokens, token.ID, data)
}

func (r *RecordRepository) Get(ctx context.Context, id string) (*models.Token, error) {
	data, err := r.store.Read(ctx, records.Tokens, id)
	if err != nil {
		return nil, err
	}

	token := &models.Token{}
	if err := json.Unmarshal(data, token); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}
	return token, nil
}

func (r *RecordRepository) Update(ctx context.Context, token *models.Token) error {
	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	return r.store.Update(ctx, records.Tokens, token.ID, data)
}

func (r *RecordRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, records.Tokens, id)
}
