package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/zhouzirui/z-style/backend/internal/config"
	"github.com/zhouzirui/z-style/backend/internal/handler"
	"github.com/zhouzirui/z-style/backend/internal/model/catalog"
	"github.com/zhouzirui/z-style/backend/internal/model/persona"
	"github.com/zhouzirui/z-style/backend/internal/repos"
	"github.com/zhouzirui/z-style/backend/internal/service/ai"
	"github.com/zhouzirui/z-style/backend/internal/service/assistant"
	"github.com/zhouzirui/z-style/backend/internal/service/audit"
	"github.com/zhouzirui/z-style/backend/internal/service/inventory"
	"github.com/zhouzirui/z-style/backend/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("failed to load .env file, continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger.Init(cfg.Log)

	products, closeStore, err := openCatalog(ctx, cfg.Catalog)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open catalog")
	}
	defer closeStore()

	advisor := inventory.NewService(products)
	turns := audit.NewService(audit.DefaultCapacity)

	var provider assistant.Provider
	if cfg.AI.Enabled() {
		aiService, err := ai.NewService(ctx, cfg.AI)
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize AI service, continuing with fallback replies")
		} else {
			provider = aiService
			log.Info().Str("provider", cfg.AI.Provider).Str("model", cfg.AI.Model()).Msg("AI service initialized")
		}
	} else {
		log.Warn().Str("provider", cfg.AI.Provider).Msg("AI credentials not configured, assistant will use fallback replies")
	}

	assistantService := assistant.NewService(personaLoader(cfg.Persona), provider, turns)
	assistantService.Initialize(ctx)

	router := handler.NewRouter(handler.Dependencies{
		Products:  products,
		Inventory: advisor,
		Assistant: assistantService,
		Audit:     turns,
	})

	startServer(ctx, cfg.Server, router)
}

func openCatalog(ctx context.Context, cfg config.CatalogConfig) (catalog.Store, func(), error) {
	if strings.EqualFold(cfg.Driver, config.DriverSQLite) {
		db, err := repos.OpenDB(ctx, cfg.DSN, catalog.Seed())
		if err != nil {
			return nil, nil, fmt.Errorf("sqlite catalog: %w", err)
		}
		log.Info().Str("driver", config.DriverSQLite).Msg("catalog store ready")
		return repos.NewCatalogRepo(db), func() { _ = db.Close() }, nil
	}

	log.Info().Str("driver", config.DriverMemory).Msg("catalog store ready")
	return catalog.NewMemoryStore(catalog.Seed()), func() {}, nil
}

func personaLoader(cfg config.PersonaConfig) persona.Loader {
	if dir := strings.TrimSpace(cfg.Dir); dir != "" {
		log.Info().Str("dir", dir).Msg("loading personas from directory")
		return persona.NewDirLoader(dir)
	}
	return persona.DefaultLoader()
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Info().Str("addr", addr).Msg("Z Style backend listening")
	if err := runServer(ctx, srv); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
