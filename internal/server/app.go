// Package server wires configuration, storage, services and the HTTP layer
// together and runs them until the process is signaled to stop.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/pulsecheck/internal/cryptox"
	"github.com/dmitrijs2005/pulsecheck/internal/logging"
	"github.com/dmitrijs2005/pulsecheck/internal/server/config"
	"github.com/dmitrijs2005/pulsecheck/internal/server/observability"
	"github.com/dmitrijs2005/pulsecheck/internal/server/records"
	"github.com/dmitrijs2005/pulsecheck/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/pulsecheck/internal/server/rest"
	"github.com/dmitrijs2005/pulsecheck/internal/server/services"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	store          records.Store
	server         *rest.Server
	shutdownTracer func(context.Context) error
}

// openStore and initTracer are seams for tests.
var (
	openStore  = records.Open
	initTracer = observability.InitTracer
)

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	store, err := openStore(ctx, c, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	var shutdownTracer func(context.Context) error
	if c.OTLPEndpoint != "" {
		shutdownTracer, err = initTracer(ctx, c.OTLPEndpoint)
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("tracing init error: %w", err)
		}
	}

	rm := repomanager.NewRecordRepositoryManager(store)
	hasher := cryptox.NewPasswordHasher(c.HashingSecret, cryptox.DefaultArgon2Params())

	ts := services.NewTokenService(rm, hasher, c, logger)
	us := services.NewUserService(rm, ts, hasher, logger)
	cs := services.NewCheckService(rm, ts, c, logger)

	engine := rest.NewRouter(rest.NewHandlers(us, ts, cs, logger), logger, rest.RouterOptions{
		Metrics:        observability.NewMetrics(),
		Tracing:        shutdownTracer != nil,
		RateLimitRPS:   c.RateLimitRPS,
		RateLimitBurst: c.RateLimitBurst,
	})

	httpsAddr, cert, key := "", "", ""
	if c.TLSEnabled() {
		httpsAddr, cert, key = c.EndpointAddrHTTPS, c.TLSCertFile, c.TLSKeyFile
	}
	srv := rest.NewServer(c.EndpointAddrHTTP, httpsAddr, cert, key, rest.Handler(engine), logger)

	return &App{
		config:         c,
		logger:         logger,
		store:          store,
		server:         srv,
		shutdownTracer: shutdownTracer,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is canceled or a termination signal arrives, then
// releases the store and flushes traces. The store is closed only after the
// server reports that no handler is running.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "env", app.config.EnvName, "storage", app.config.StorageBackend)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.store.Close(); err != nil {
		app.logger.Error(ctx, "error closing store", "error", err)
	}
	if app.shutdownTracer != nil {
		if err := app.shutdownTracer(context.Background()); err != nil {
			app.logger.Error(ctx, "error shutting down tracer", "error", err)
		}
	}

	app.logger.Info(ctx, "App stopped")
}
