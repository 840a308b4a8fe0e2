package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/pulsecheck/internal/common"
	"github.com/dmitrijs2005/pulsecheck/internal/cryptox"
	"github.com/dmitrijs2005/pulsecheck/internal/logging"
	"github.com/dmitrijs2005/pulsecheck/internal/server/models"
	"github.com/dmitrijs2005/pulsecheck/internal/server/repositories/repomanager"
	"golang.org/x/sync/errgroup"
)

// CascadeError reports the checks that could not be removed while deleting
// a user. It matches common.ErrPartialFailure.
type CascadeError struct {
	Phone  string
	Total  int
	Failed []string
	Errs   []error
}

func (e *CascadeError) Error() string {
	return fmt.Sprintf(
		"errors encountered while attempting to delete all of the user's checks: %d of %d failed (%s); all checks may not have been deleted from the system successfully",
		len(e.Failed), e.Total, strings.Join(e.Failed, ", "))
}

func (e *CascadeError) Is(target error) bool {
	return target == common.ErrPartialFailure
}

// UserService manages user accounts and their dependent checks.
type UserService struct {
	repomanager repomanager.RepositoryManager
	tokens      *TokenService
	hasher      *cryptox.PasswordHasher
	logger      logging.Logger
}

func NewUserService(m repomanager.RepositoryManager, tokens *TokenService, hasher *cryptox.PasswordHasher, logger logging.Logger) *UserService {
	return &UserService{
		repomanager: m,
		tokens:      tokens,
		hasher:      hasher,
		logger:      logger.With("module", "users"),
	}
}

func (s *UserService) Create(ctx context.Context, in NewUser) error {
	in.normalize()
	if err := validateStruct(&in, "missing required fields"); err != nil {
		return err
	}

	user := &models.User{
		Phone:          in.Phone,
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		HashedPassword: s.hasher.Hash(in.Password),
		TOSAgreement:   true,
		Checks:         []string{},
	}

	if err := s.repomanager.Users().Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return fmt.Errorf("%w: a user with that phone number already exists", common.ErrorAlreadyExists)
		}
		s.logger.Error(ctx, "error creating user", "error", err)
		return fmt.Errorf("%w: could not create the new user", common.ErrorInternal)
	}

	s.logger.Info(ctx, "user created", "phone", user.Phone)
	return nil
}

func (s *UserService) Read(ctx context.Context, phone, token string) (*models.UserProfile, error) {
	phone = strings.TrimSpace(phone)
	if err := validatePhone(phone); err != nil {
		return nil, err
	}

	if !s.tokens.Verify(ctx, token, phone) {
		return nil, errInvalidToken
	}

	user, err := s.getUser(ctx, phone)
	if err != nil {
		return nil, err
	}
	return user.Profile(), nil
}

func (s *UserService) Update(ctx context.Context, phone string, patch UserPatch, token string) error {
	phone = strings.TrimSpace(phone)
	if err := validatePhone(phone); err != nil {
		return err
	}

	patch.normalize()
	if err := validateStruct(&patch, "missing fields to update"); err != nil {
		return err
	}

	if !s.tokens.Verify(ctx, token, phone) {
		return errInvalidToken
	}

	user, err := s.getUser(ctx, phone)
	if err != nil {
		return err
	}

	if patch.FirstName != "" {
		user.FirstName = patch.FirstName
	}
	if patch.LastName != "" {
		user.LastName = patch.LastName
	}
	if patch.Password != "" {
		user.HashedPassword = s.hasher.Hash(patch.Password)
	}

	if err := s.repomanager.Users().Update(ctx, user); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("%w: the specified user does not exist", common.ErrorNotFound)
		}
		s.logger.Error(ctx, "error updating user", "error", err)
		return fmt.Errorf("%w: could not update the user", common.ErrorInternal)
	}
	return nil
}

// Delete removes the user, then all of its checks concurrently. The result
// is reported only after every check deletion has finished. Once the user
// record is gone the cascade no longer follows ctx cancellation.
func (s *UserService) Delete(ctx context.Context, phone, token string) error {
	phone = strings.TrimSpace(phone)
	if err := validatePhone(phone); err != nil {
		return err
	}

	if !s.tokens.Verify(ctx, token, phone) {
		return errInvalidToken
	}

	user, err := s.getUser(ctx, phone)
	if err != nil {
		return err
	}

	if err := s.repomanager.Users().Delete(ctx, phone); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("%w: could not find the specified user", common.ErrorNotFound)
		}
		s.logger.Error(ctx, "error deleting user", "error", err)
		return fmt.Errorf("%w: could not delete the specified user", common.ErrorInternal)
	}

	ctx = context.WithoutCancel(ctx)
	if err := s.deleteChecks(ctx, user); err != nil {
		s.logger.Error(ctx, "cascade delete incomplete", "phone", phone, "error", err)
		return err
	}

	s.logger.Info(ctx, "user deleted", "phone", phone, "checks", len(user.Checks))
	return nil
}

func (s *UserService) deleteChecks(ctx context.Context, user *models.User) error {
	ids := user.Checks
	if len(ids) == 0 {
		return nil
	}

	repo := s.repomanager.Checks()
	results := make([]error, len(ids))

	var g errgroup.Group
	for i, id := range ids {
		g.Go(func() error {
			results[i] = repo.Delete(ctx, id)
			return nil
		})
	}
	_ = g.Wait()

	var cerr *CascadeError
	for i, err := range results {
		if err == nil {
			continue
		}
		if cerr == nil {
			cerr = &CascadeError{Phone: user.Phone, Total: len(ids)}
		}
		cerr.Failed = append(cerr.Failed, ids[i])
		cerr.Errs = append(cerr.Errs, err)
	}
	if cerr != nil {
		return cerr
	}
	return nil
}

func (s *UserService) getUser(ctx context.Context, phone string) (*models.User, error) {
	user, err := s.repomanager.Users().Get(ctx, phone)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: the specified user does not exist", common.ErrorNotFound)
		}
		s.logger.Error(ctx, "error reading user", "error", err)
		return nil, fmt.Errorf("%w: could not read the user", common.ErrorInternal)
	}
	return user, nil
}
