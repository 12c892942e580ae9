package main

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/zhouzirui/z-style/backend/internal/config"
)

func TestRunServerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}

	done := make(chan error, 1)
	go func() { done <- runServer(ctx, srv) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("runServer err: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestOpenCatalogDrivers(t *testing.T) {
	ctx := context.Background()

	for _, cfg := range []config.CatalogConfig{
		{Driver: config.DriverMemory},
		{Driver: config.DriverSQLite, DSN: ":memory:"},
	} {
		store, closeFn, err := openCatalog(ctx, cfg)
		if err != nil {
			t.Fatalf("%s: openCatalog err: %v", cfg.Driver, err)
		}
		items, err := store.List(ctx)
		closeFn()
		if err != nil {
			t.Fatalf("%s: List err: %v", cfg.Driver, err)
		}
		if len(items) == 0 {
			t.Fatalf("%s: expected seeded catalog", cfg.Driver)
		}
	}
}
