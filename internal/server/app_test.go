package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/pulsecheck/internal/logging"
	"github.com/dmitrijs2005/pulsecheck/internal/server/config"
	"github.com/dmitrijs2005/pulsecheck/internal/server/records"
	"github.com/dmitrijs2005/pulsecheck/internal/server/records/badgerstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type closeTrackingStore struct {
	records.Store
	closed bool
}

func (s *closeTrackingStore) Close() error {
	s.closed = true
	return nil
}

func testConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults("")
	c.EndpointAddrHTTP = "127.0.0.1:0"
	c.LogLevel = "error"
	return c
}

func TestNewApp_StoreError(t *testing.T) {
	orig := openStore
	defer func() { openStore = orig }()
	openStore = func(context.Context, *config.Config, logging.Logger) (records.Store, error) {
		return nil, errors.New("boom")
	}

	_, err := NewApp(context.Background(), testConfig())
	require.Error(t, err)
}

func TestNewApp_TracerErrorClosesStore(t *testing.T) {
	origStore, origTracer := openStore, initTracer
	defer func() { openStore, initTracer = origStore, origTracer }()

	store := &closeTrackingStore{}
	openStore = func(context.Context, *config.Config, logging.Logger) (records.Store, error) {
		return store, nil
	}
	initTracer = func(context.Context, string) (func(context.Context) error, error) {
		return nil, errors.New("no collector")
	}

	c := testConfig()
	c.OTLPEndpoint = "collector:4317"

	_, err := NewApp(context.Background(), c)
	require.Error(t, err)
	assert.True(t, store.closed)
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	orig := openStore
	defer func() { openStore = orig }()
	openStore = func(context.Context, *config.Config, logging.Logger) (records.Store, error) {
		return badgerstore.Open(badgerstore.InMemoryConfig())
	}

	app, err := NewApp(context.Background(), testConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(done)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("app did not stop after cancel")
	}
}
