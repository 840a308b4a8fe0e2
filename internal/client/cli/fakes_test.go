package cli

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/dmitrijs2005/pulsecheck/internal/client/config"
	"github.com/dmitrijs2005/pulsecheck/internal/client/models"
)

type fakeAPI struct {
	calls []string
	err   error

	newUser    models.NewUser
	userPatch  models.UserPatch
	phone      string
	password   string
	id         string
	newCheck   models.NewCheck
	checkPatch models.CheckPatch
}

func (f *fakeAPI) record(name string) error {
	f.calls = append(f.calls, name)
	return f.err
}

func (f *fakeAPI) Ping(context.Context) error { return f.record("Ping") }

func (f *fakeAPI) CreateUser(_ context.Context, u models.NewUser) error {
	f.newUser = u
	return f.record("CreateUser")
}

func (f *fakeAPI) GetUser(_ context.Context, phone string) (*models.User, error) {
	f.phone = phone
	if err := f.record("GetUser"); err != nil {
		return nil, err
	}
	return &models.User{Phone: phone, FirstName: "Ada", Checks: []string{}}, nil
}

func (f *fakeAPI) UpdateUser(_ context.Context, p models.UserPatch) error {
	f.userPatch = p
	return f.record("UpdateUser")
}

func (f *fakeAPI) DeleteUser(_ context.Context, phone string) error {
	f.phone = phone
	return f.record("DeleteUser")
}

func (f *fakeAPI) Login(_ context.Context, phone, password string) (*models.Token, error) {
	f.phone, f.password = phone, password
	if err := f.record("Login"); err != nil {
		return nil, err
	}
	return &models.Token{ID: "tok123", Phone: phone, Expires: 42}, nil
}

func (f *fakeAPI) GetToken(_ context.Context, id string) (*models.Token, error) {
	f.id = id
	if err := f.record("GetToken"); err != nil {
		return nil, err
	}
	return &models.Token{ID: id}, nil
}

func (f *fakeAPI) RenewToken(_ context.Context, id string) error {
	f.id = id
	return f.record("RenewToken")
}

func (f *fakeAPI) RevokeToken(_ context.Context, id string) error {
	f.id = id
	return f.record("RevokeToken")
}

func (f *fakeAPI) CreateCheck(_ context.Context, in models.NewCheck) (*models.Check, error) {
	f.newCheck = in
	if err := f.record("CreateCheck"); err != nil {
		return nil, err
	}
	return &models.Check{ID: "chk1", URL: in.URL}, nil
}

func (f *fakeAPI) GetCheck(_ context.Context, id string) (*models.Check, error) {
	f.id = id
	if err := f.record("GetCheck"); err != nil {
		return nil, err
	}
	return &models.Check{ID: id}, nil
}

func (f *fakeAPI) UpdateCheck(_ context.Context, p models.CheckPatch) (*models.Check, error) {
	f.checkPatch = p
	if err := f.record("UpdateCheck"); err != nil {
		return nil, err
	}
	return &models.Check{ID: p.ID}, nil
}

func (f *fakeAPI) DeleteCheck(_ context.Context, id string) error {
	f.id = id
	return f.record("DeleteCheck")
}

type harness struct {
	app *App
	api *fakeAPI
	cfg *config.Config
	env map[string]string
}

func newHarness(t *testing.T, stdin string) *harness {
	t.Helper()

	origTerm := isTerminal
	isTerminal = func(int) bool { return false }
	t.Cleanup(func() { isTerminal = origTerm })

	h := &harness{api: &fakeAPI{}, env: map[string]string{}}
	h.app = &App{
		reader: bufio.NewReader(strings.NewReader(stdin)),
		getenv: func(k string) string { return h.env[k] },
		newAPI: func(cfg *config.Config) API {
			h.cfg = cfg
			return h.api
		},
	}
	return h
}

func (h *harness) run(args ...string) (string, error) {
	var out, errOut bytes.Buffer
	root := h.app.RootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}
