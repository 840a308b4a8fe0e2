package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/pulsecheck/internal/common"
	"github.com/dmitrijs2005/pulsecheck/internal/cryptox"
	"github.com/dmitrijs2005/pulsecheck/internal/logging"
	"github.com/dmitrijs2005/pulsecheck/internal/server/config"
	"github.com/dmitrijs2005/pulsecheck/internal/server/models"
	"github.com/dmitrijs2005/pulsecheck/internal/server/repositories/repomanager"
)

// errInvalidToken is returned when a request's token does not authorize it.
var errInvalidToken = fmt.Errorf("%w: %w", common.ErrorUnauthorized, common.ErrInvalidToken)

// TokenService issues and validates bearer tokens.
type TokenService struct {
	repomanager repomanager.RepositoryManager
	hasher      *cryptox.PasswordHasher
	validity    time.Duration
	logger      logging.Logger
	now         func() time.Time
}

func NewTokenService(m repomanager.RepositoryManager, hasher *cryptox.PasswordHasher, cfg *config.Config, logger logging.Logger) *TokenService {
	return &TokenService{
		repomanager: m,
		hasher:      hasher,
		validity:    cfg.TokenValidityDuration,
		logger:      logger.With("module", "tokens"),
		now:         time.Now,
	}
}

// Issue logs a user in and returns a fresh token.
func (s *TokenService) Issue(ctx context.Context, phone, password string) (*models.Token, error) {
	phone = strings.TrimSpace(phone)
	password = strings.TrimSpace(password)

	if err := validatePhone(phone); err != nil {
		return nil, err
	}
	if password == "" {
		return nil, fmt.Errorf("%w: missing required field (password)", common.ErrorValidation)
	}

	user, err := s.repomanager.Users().Get(ctx, phone)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: could not find the specified user", common.ErrorNotFound)
		}
		s.logger.Error(ctx, "error reading user", "error", err)
		return nil, fmt.Errorf("%w: could not read the specified user", common.ErrorInternal)
	}

	if !s.hasher.Matches(password, user.HashedPassword) {
		return nil, fmt.Errorf("%w: password did not match the specified user's stored password", common.ErrInvalidCredentials)
	}

	id, err := common.MakeRandAlnumString(common.TokenIDLength)
	if err != nil {
		return nil, fmt.Errorf("%w: could not generate token id", common.ErrorInternal)
	}

	token := &models.Token{
		ID:      id,
		Phone:   phone,
		Expires: s.now().Add(s.validity).UnixMilli(),
	}

	if err := s.repomanager.Tokens().Create(ctx, token); err != nil {
		s.logger.Error(ctx, "error creating token", "error", err)
		return nil, fmt.Errorf("%w: could not create the new token", common.ErrorInternal)
	}

	s.logger.Info(ctx, "token issued", "phone", phone)
	return token, nil
}

// Read returns a token record, expired or not.
func (s *TokenService) Read(ctx context.Context, id string) (*models.Token, error) {
	id = strings.TrimSpace(id)
	if err := validateID(id); err != nil {
		return nil, err
	}

	token, err := s.repomanager.Tokens().Get(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: token not found", common.ErrorNotFound)
		}
		s.logger.Error(ctx, "error reading token", "error", err)
		return nil, fmt.Errorf("%w: could not read the token", common.ErrorInternal)
	}
	return token, nil
}

// Renew extends a still valid token by the configured validity. With extend
// false only the checks run.
func (s *TokenService) Renew(ctx context.Context, id string, extend bool) (*models.Token, error) {
	id = strings.TrimSpace(id)
	if err := validateID(id); err != nil {
		return nil, err
	}

	token, err := s.repomanager.Tokens().Get(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: specified token does not exist", common.ErrorNotFound)
		}
		s.logger.Error(ctx, "error reading token", "error", err)
		return nil, fmt.Errorf("%w: could not read the token", common.ErrorInternal)
	}

	now := s.now()
	if !token.ValidAt(now) {
		return nil, fmt.Errorf("%w: the token has already expired and cannot be extended", common.ErrTokenExpired)
	}

	if !extend {
		return token, nil
	}

	token.Expires = now.Add(s.validity).UnixMilli()
	if err := s.repomanager.Tokens().Update(ctx, token); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: specified token does not exist", common.ErrorNotFound)
		}
		s.logger.Error(ctx, "error updating token", "error", err)
		return nil, fmt.Errorf("%w: could not update the token's expiration", common.ErrorInternal)
	}

	return token, nil
}

// Revoke deletes a token.
func (s *TokenService) Revoke(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if err := validateID(id); err != nil {
		return err
	}

	if err := s.repomanager.Tokens().Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("%w: could not find the specified token", common.ErrorNotFound)
		}
		s.logger.Error(ctx, "error deleting token", "error", err)
		return fmt.Errorf("%w: could not delete the specified token", common.ErrorInternal)
	}
	return nil
}

// Verify reports whether id is an unexpired token belonging to phone. It
// never fails; storage errors are logged and count as false.
func (s *TokenService) Verify(ctx context.Context, id, phone string) bool {
	if id == "" {
		return false
	}

	token, err := s.repomanager.Tokens().Get(ctx, id)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.logger.Warn(ctx, "token verification failed", "error", err)
		}
		return false
	}

	return token.Phone == phone && token.ValidAt(s.now())
}

// Owner returns the phone of the user holding a valid token.
func (s *TokenService) Owner(ctx context.Context, id string) (string, error) {
	if id == "" {
		return "", common.ErrorUnauthorized
	}

	token, err := s.repomanager.Tokens().Get(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "token lookup failed", "error", err)
		return "", fmt.Errorf("%w: could not read the token", common.ErrorInternal)
	}

	if !token.ValidAt(s.now()) {
		return "", common.ErrorUnauthorized
	}
	return token.Phone, nil
}
