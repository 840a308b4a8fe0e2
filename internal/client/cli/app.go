// Package cli implements the pulsecheck command line client on top of cobra.
package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/pulsecheck/internal/client/client"
	"github.com/dmitrijs2005/pulsecheck/internal/client/config"
	"github.com/dmitrijs2005/pulsecheck/internal/client/models"
	"github.com/spf13/cobra"
)

// API is the subset of *client.Client the commands call.
type API interface {
	Ping(ctx context.Context) error
	CreateUser(ctx context.Context, u models.NewUser) error
	GetUser(ctx context.Context, phone string) (*models.User, error)
	UpdateUser(ctx context.Context, p models.UserPatch) error
	DeleteUser(ctx context.Context, phone string) error
	Login(ctx context.Context, phone, password string) (*models.Token, error)
	GetToken(ctx context.Context, id string) (*models.Token, error)
	RenewToken(ctx context.Context, id string) error
	RevokeToken(ctx context.Context, id string) error
	CreateCheck(ctx context.Context, in models.NewCheck) (*models.Check, error)
	GetCheck(ctx context.Context, id string) (*models.Check, error)
	UpdateCheck(ctx context.Context, p models.CheckPatch) (*models.Check, error)
	DeleteCheck(ctx context.Context, id string) error
}

type App struct {
	config *config.Config
	api    API
	reader *bufio.Reader

	getenv func(string) string
	newAPI func(cfg *config.Config) API

	// persistent flag values
	configPath string
	server     string
	token      string
	timeout    time.Duration
}

func NewApp() *App {
	return &App{
		reader: bufio.NewReader(os.Stdin),
		getenv: os.Getenv,
		newAPI: func(cfg *config.Config) API {
			return client.New(cfg.ServerURL, cfg.RequestTimeout, client.WithToken(cfg.Token))
		},
	}
}

// setup resolves configuration and builds the API client before any
// subcommand runs. Flags set on the command line win over file and env.
func (a *App) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(a.configPath, a.getenv)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("server") {
		cfg.ServerURL = a.server
	}
	if flags.Changed("token") {
		cfg.Token = a.token
	}
	if flags.Changed("timeout") {
		cfg.RequestTimeout = a.timeout
	}

	a.config = cfg
	a.api = a.newAPI(cfg)
	return nil
}

func (a *App) printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Run executes the command tree with os.Args.
func (a *App) Run(ctx context.Context) error {
	return a.RootCommand().ExecuteContext(ctx)
}
