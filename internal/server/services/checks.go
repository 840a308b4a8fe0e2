package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/pulsecheck/internal/common"
	"github.com/dmitrijs2005/pulsecheck/internal/logging"
	"github.com/dmitrijs2005/pulsecheck/internal/server/config"
	"github.com/dmitrijs2005/pulsecheck/internal/server/models"
	"github.com/dmitrijs2005/pulsecheck/internal/server/repositories/repomanager"
)

// CheckService manages checks and keeps each owner's check list in step.
type CheckService struct {
	repomanager repomanager.RepositoryManager
	tokens      *TokenService
	maxChecks   int
	logger      logging.Logger
}

func NewCheckService(m repomanager.RepositoryManager, tokens *TokenService, cfg *config.Config, logger logging.Logger) *CheckService {
	return &CheckService{
		repomanager: m,
		tokens:      tokens,
		maxChecks:   cfg.MaxChecks,
		logger:      logger.With("module", "checks"),
	}
}

// Create stores a new check for the token's owner and links it to the user.
// If linking fails the check is deleted again. Writes after the check record
// exists ignore ctx cancellation.
func (s *CheckService) Create(ctx context.Context, in NewCheck, token string) (*models.Check, error) {
	in.normalize()
	if err := validateStruct(&in, "missing required inputs, or inputs are invalid"); err != nil {
		return nil, err
	}

	phone, err := s.tokens.Owner(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			return nil, errInvalidToken
		}
		return nil, err
	}

	users := s.repomanager.Users()
	user, err := users.Get(ctx, phone)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, errInvalidToken
		}
		s.logger.Error(ctx, "error reading user", "error", err)
		return nil, fmt.Errorf("%w: could not read the user", common.ErrorInternal)
	}

	if len(user.Checks) >= s.maxChecks {
		return nil, fmt.Errorf("%w: the user already has the maximum number of checks (%d)", common.ErrQuotaExceeded, s.maxChecks)
	}

	id, err := common.MakeRandAlnumString(common.CheckIDLength)
	if err != nil {
		return nil, fmt.Errorf("%w: could not generate check id", common.ErrorInternal)
	}

	check := &models.Check{
		ID:             id,
		UserPhone:      phone,
		Protocol:       in.Protocol,
		URL:            in.URL,
		Method:         in.Method,
		SuccessCodes:   dedupeCodes(in.SuccessCodes),
		TimeoutSeconds: in.TimeoutSeconds,
	}

	checks := s.repomanager.Checks()
	if err := checks.Create(ctx, check); err != nil {
		s.logger.Error(ctx, "error creating check", "error", err)
		return nil, fmt.Errorf("%w: could not create the new check", common.ErrorInternal)
	}

	ctx = context.WithoutCancel(ctx)
	user.Checks = append(user.Checks, id)
	if err := users.Update(ctx, user); err != nil {
		s.logger.Error(ctx, "error linking check to user", "check_id", id, "phone", phone, "error", err)

		if derr := checks.Delete(ctx, id); derr != nil {
			s.logger.Error(ctx, "orphan check left behind", "check_id", id, "error", derr)
			return nil, fmt.Errorf("%w: error updating user, check %s could not be removed", common.ErrConsistency, id)
		}
		return nil, fmt.Errorf("%w: error updating user", common.ErrorInternal)
	}

	s.logger.Info(ctx, "check created", "check_id", id, "phone", phone)
	return check, nil
}

func (s *CheckService) Read(ctx context.Context, id, token string) (*models.Check, error) {
	id = strings.TrimSpace(id)
	if err := validateID(id); err != nil {
		return nil, err
	}

	check, err := s.getCheck(ctx, id)
	if err != nil {
		return nil, err
	}

	if !s.tokens.Verify(ctx, token, check.UserPhone) {
		return nil, errInvalidToken
	}
	return check, nil
}

func (s *CheckService) Update(ctx context.Context, id string, patch CheckPatch, token string) (*models.Check, error) {
	id = strings.TrimSpace(id)
	if err := validateID(id); err != nil {
		return nil, err
	}

	patch.normalize()
	if patch.empty() {
		return nil, fmt.Errorf("%w: missing fields to update", common.ErrorValidation)
	}
	if err := validateStruct(&patch, "invalid fields to update"); err != nil {
		return nil, err
	}

	check, err := s.getCheck(ctx, id)
	if err != nil {
		return nil, err
	}

	if !s.tokens.Verify(ctx, token, check.UserPhone) {
		return nil, errInvalidToken
	}

	if patch.Protocol != "" {
		check.Protocol = patch.Protocol
	}
	if patch.URL != "" {
		check.URL = patch.URL
	}
	if patch.Method != "" {
		check.Method = patch.Method
	}
	if len(patch.SuccessCodes) > 0 {
		check.SuccessCodes = dedupeCodes(patch.SuccessCodes)
	}
	if patch.TimeoutSeconds != nil {
		check.TimeoutSeconds = *patch.TimeoutSeconds
	}

	if err := s.repomanager.Checks().Update(ctx, check); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: check id did not exist", common.ErrorNotFound)
		}
		s.logger.Error(ctx, "error updating check", "error", err)
		return nil, fmt.Errorf("%w: could not update the check", common.ErrorInternal)
	}
	return check, nil
}

// Delete removes the check and its id from the owner's list. A missing owner
// or a missing back-reference is a consistency error. The unlink runs even
// if ctx is canceled after the check record is gone.
func (s *CheckService) Delete(ctx context.Context, id, token string) error {
	id = strings.TrimSpace(id)
	if err := validateID(id); err != nil {
		return err
	}

	check, err := s.getCheck(ctx, id)
	if err != nil {
		return err
	}

	if !s.tokens.Verify(ctx, token, check.UserPhone) {
		return errInvalidToken
	}

	if err := s.repomanager.Checks().Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("%w: the specified check ID does not exist", common.ErrorNotFound)
		}
		s.logger.Error(ctx, "error deleting check", "error", err)
		return fmt.Errorf("%w: could not delete the check data", common.ErrorInternal)
	}

	ctx = context.WithoutCancel(ctx)
	users := s.repomanager.Users()
	user, err := users.Get(ctx, check.UserPhone)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("%w: could not find the user who created the check", common.ErrConsistency)
		}
		s.logger.Error(ctx, "error reading check owner", "error", err)
		return fmt.Errorf("%w: could not read the user who created the check", common.ErrorInternal)
	}

	if !user.RemoveCheck(id) {
		return fmt.Errorf("%w: could not find the check on the user's object", common.ErrConsistency)
	}

	if err := users.Update(ctx, user); err != nil {
		s.logger.Error(ctx, "error unlinking check from user", "check_id", id, "error", err)
		return fmt.Errorf("%w: could not update the user", common.ErrorInternal)
	}

	s.logger.Info(ctx, "check deleted", "check_id", id, "phone", check.UserPhone)
	return nil
}

func (s *CheckService) getCheck(ctx context.Context, id string) (*models.Check, error) {
	check, err := s.repomanager.Checks().Get(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: check id did not exist", common.ErrorNotFound)
		}
		s.logger.Error(ctx, "error reading check", "error", err)
		return nil, fmt.Errorf("%w: could not read the check", common.ErrorInternal)
	}
	return check, nil
}
