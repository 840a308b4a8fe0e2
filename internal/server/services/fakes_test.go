package services

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/pulsecheck/internal/common"
	"github.com/dmitrijs2005/pulsecheck/internal/cryptox"
	"github.com/dmitrijs2005/pulsecheck/internal/logging"
	"github.com/dmitrijs2005/pulsecheck/internal/server/config"
	"github.com/dmitrijs2005/pulsecheck/internal/server/models"
	"github.com/dmitrijs2005/pulsecheck/internal/server/repositories/checks"
	"github.com/dmitrijs2005/pulsecheck/internal/server/repositories/tokens"
	"github.com/dmitrijs2005/pulsecheck/internal/server/repositories/users"
)

// --- in-memory repositories with failure hooks ---

// Mutating fake methods fail with ctx.Err() on a done context, as the real
// stores do.

type fakeUsersRepo struct {
	mu        sync.Mutex
	data      map[string]models.User
	getErr    error
	updateErr error
	updates   int
	// afterDelete runs once a user record has been removed.
	afterDelete func()
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.data[u.Phone]; ok {
		return common.ErrorAlreadyExists
	}
	f.data[u.Phone] = cloneUser(u)
	return nil
}

func (f *fakeUsersRepo) Get(_ context.Context, phone string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.data[phone]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := cloneUser(&u)
	return &c, nil
}

func (f *fakeUsersRepo) Update(ctx context.Context, u *models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.data[u.Phone]; !ok {
		return common.ErrorNotFound
	}
	f.data[u.Phone] = cloneUser(u)
	return nil
}

func (f *fakeUsersRepo) Delete(ctx context.Context, phone string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	if _, ok := f.data[phone]; !ok {
		f.mu.Unlock()
		return common.ErrorNotFound
	}
	delete(f.data, phone)
	f.mu.Unlock()

	if f.afterDelete != nil {
		f.afterDelete()
	}
	return nil
}

func (f *fakeUsersRepo) stored(phone string) (models.User, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.data[phone]
	return u, ok
}

func cloneUser(u *models.User) models.User {
	c := *u
	c.Checks = append([]string{}, u.Checks...)
	return c
}

type fakeTokensRepo struct {
	mu     sync.Mutex
	data   map[string]models.Token
	getErr error
}

func (f *fakeTokensRepo) Create(_ context.Context, t *models.Token) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.data[t.ID]; ok {
		return common.ErrorAlreadyExists
	}
	f.data[t.ID] = *t
	return nil
}

func (f *fakeTokensRepo) Get(_ context.Context, id string) (*models.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	t, ok := f.data[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &t, nil
}

func (f *fakeTokensRepo) Update(_ context.Context, t *models.Token) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.data[t.ID]; !ok {
		return common.ErrorNotFound
	}
	f.data[t.ID] = *t
	return nil
}

func (f *fakeTokensRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.data[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.data, id)
	return nil
}

type fakeChecksRepo struct {
	mu        sync.Mutex
	data      map[string]models.Check
	createErr error
	deleteErr error
	// deleteHook, when set, runs before every Delete and may block or fail.
	deleteHook func(id string) error
	// afterCreate and afterDelete run once the record change is stored.
	afterCreate func()
	afterDelete func()
}

func (f *fakeChecksRepo) Create(ctx context.Context, c *models.Check) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	if f.createErr != nil {
		f.mu.Unlock()
		return f.createErr
	}
	if _, ok := f.data[c.ID]; ok {
		f.mu.Unlock()
		return common.ErrorAlreadyExists
	}
	f.data[c.ID] = *c
	f.mu.Unlock()

	if f.afterCreate != nil {
		f.afterCreate()
	}
	return nil
}

func (f *fakeChecksRepo) Get(_ context.Context, id string) (*models.Check, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.data[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c.SuccessCodes = append([]int{}, c.SuccessCodes...)
	return &c, nil
}

func (f *fakeChecksRepo) Update(ctx context.Context, c *models.Check) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.data[c.ID]; !ok {
		return common.ErrorNotFound
	}
	f.data[c.ID] = *c
	return nil
}

func (f *fakeChecksRepo) Delete(ctx context.Context, id string) error {
	if f.deleteHook != nil {
		if err := f.deleteHook(id); err != nil {
			return err
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	if f.deleteErr != nil {
		f.mu.Unlock()
		return f.deleteErr
	}
	if _, ok := f.data[id]; !ok {
		f.mu.Unlock()
		return common.ErrorNotFound
	}
	delete(f.data, id)
	f.mu.Unlock()

	if f.afterDelete != nil {
		f.afterDelete()
	}
	return nil
}

func (f *fakeChecksRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.data)
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	t *fakeTokensRepo
	c *fakeChecksRepo
}

func (m *fakeRepoManager) Users() users.Repository   { return m.u }
func (m *fakeRepoManager) Tokens() tokens.Repository { return m.t }
func (m *fakeRepoManager) Checks() checks.Repository { return m.c }

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		u: &fakeUsersRepo{data: map[string]models.User{}},
		t: &fakeTokensRepo{data: map[string]models.Token{}},
		c: &fakeChecksRepo{data: map[string]models.Check{}},
	}
}

// --- fixture ---

type fixture struct {
	rm     *fakeRepoManager
	clock  *fakeClock
	hasher *cryptox.PasswordHasher
	tokens *TokenService
	users  *UserService
	checks *CheckService
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newFixture() *fixture {
	cfg := &config.Config{}
	cfg.LoadDefaults("")

	rm := newFakeRepoManager()
	clock := &fakeClock{now: time.UnixMilli(1_700_000_000_000)}
	hasher := cryptox.NewPasswordHasher(cfg.HashingSecret, cryptox.Argon2Params{Time: 1, Memory: 1024, Threads: 1, KeyLen: 32})

	ts := NewTokenService(rm, hasher, cfg, logging.Nop())
	ts.now = clock.Now

	return &fixture{
		rm:     rm,
		clock:  clock,
		hasher: hasher,
		tokens: ts,
		users:  NewUserService(rm, ts, hasher, logging.Nop()),
		checks: NewCheckService(rm, ts, cfg, logging.Nop()),
	}
}

const (
	testPhone    = "5551234567"
	testPassword = "hunter2"
)

func (f *fixture) seedUser(phone string) {
	_ = f.rm.u.Create(context.Background(), &models.User{
		Phone:          phone,
		FirstName:      "Ada",
		LastName:       "Lovelace",
		HashedPassword: f.hasher.Hash(testPassword),
		TOSAgreement:   true,
		Checks:         []string{},
	})
}

func (f *fixture) login(phone string) string {
	tok, err := f.tokens.Issue(context.Background(), phone, testPassword)
	if err != nil {
		panic(err)
	}
	return tok.ID
}

func validCheck() NewCheck {
	return NewCheck{
		Protocol:       "https",
		URL:            "example.com/health",
		Method:         "get",
		SuccessCodes:   []int{200, 201},
		TimeoutSeconds: 3,
	}
}
