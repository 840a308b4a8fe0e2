package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/pulsecheck/internal/logging"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout = 5 * time.Second
	drainPoll       = 50 * time.Millisecond
)

// Server runs the plain HTTP listener and, when a certificate is configured,
// an HTTPS listener serving the same handler.
type Server struct {
	httpAddr  string
	httpsAddr string
	certFile  string
	keyFile   string
	handler   http.Handler
	logger    logging.Logger

	shutdownTimeout time.Duration
	inFlight        atomic.Int64
}

// NewServer creates a server. HTTPS is started only if both certFile and
// keyFile are set.
func NewServer(httpAddr, httpsAddr, certFile, keyFile string, handler http.Handler, l logging.Logger) *Server {
	return &Server{
		httpAddr:  httpAddr,
		httpsAddr: httpsAddr,
		certFile:  certFile,
		keyFile:   keyFile,
		handler:   handler,
		logger:    l.With("module", "http_server"),

		shutdownTimeout: shutdownTimeout,
	}
}

func (s *Server) tlsEnabled() bool {
	return s.certFile != "" && s.keyFile != ""
}

// track counts requests whose handlers are still running.
func (s *Server) track(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.inFlight.Add(1)
		defer s.inFlight.Add(-1)
		next.ServeHTTP(w, r)
	})
}

// waitIdle blocks until no handler is running.
func (s *Server) waitIdle() {
	t := time.NewTicker(drainPoll)
	defer t.Stop()
	for s.inFlight.Load() > 0 {
		<-t.C
	}
}

// Run serves until ctx is canceled, then shuts the listeners down
// gracefully. A listener failure stops the others and is returned.
// Run does not return while a handler is still running, even when the
// graceful shutdown times out; the timeout is then returned.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.httpAddr)
	if err != nil {
		return err
	}

	var tlsListen net.Listener
	if s.tlsEnabled() {
		tlsListen, err = net.Listen("tcp", s.httpsAddr)
		if err != nil {
			_ = listen.Close()
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	handler := s.track(s.handler)

	srv := &http.Server{Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	g.Go(func() error {
		s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())
		return ignoreClosed(srv.Serve(listen))
	})

	var tlsSrv *http.Server
	if tlsListen != nil {
		tlsSrv = &http.Server{Handler: handler, ReadHeaderTimeout: 10 * time.Second}
		g.Go(func() error {
			s.logger.Info(ctx, "Starting HTTPS server", "address", tlsListen.Addr().String())
			return ignoreClosed(tlsSrv.ServeTLS(tlsListen, s.certFile, s.keyFile))
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		err := srv.Shutdown(shutdownCtx)
		if tlsSrv != nil {
			err = errors.Join(err, tlsSrv.Shutdown(shutdownCtx))
		}
		if errors.Is(err, context.DeadlineExceeded) {
			s.logger.Warn(ctx, "Shutdown timed out, waiting for in-flight requests", "in_flight", s.inFlight.Load())
			s.waitIdle()
			s.logger.Info(ctx, "In-flight requests finished")
		}
		return err
	})

	return g.Wait()
}

func ignoreClosed(err error) error {
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
