package users

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/pulsecheck/internal/server/models"
	"github.com/dmitrijs2005/pulsecheck/internal/server/records"
)

// RecordRepository stores users as JSON documents in the "users" collection.
type RecordRepository struct {
	store records.Store
}

func NewRecordRepository(store records.Store) *RecordRepository {
	return &RecordRepository{store: store}
}

func (r *RecordRepository) Create(ctx context.Context, user *models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	return r.store.Create(ctx, records.Users, user.Phone, data)
}

func (r *RecordRepository) Get(ctx context.Context, phone string) (*models.User, error) {
	data, err := r.store.Read(ctx, records.Users, phone)
	if err != nil {
		return nil, err
	}

	user := &models.User{}
	if err := json.Unmarshal(data, user); err != nil {
		return nil, fmt.Errorf("decode user %s: %w", phone, err)
	}
	if user.Checks == nil {
		user.Checks = []string{}
	}
	return user, nil
}

func (r *RecordRepository) Update(ctx context.Context, user *models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	return r.store.Update(ctx, records.Users, user.Phone, data)
}

func (r *RecordRepository) Delete(ctx context.Context, phone string) error {
	return r.store.Delete(ctx, records.Users, phone)
}
