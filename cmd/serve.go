package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"library/cache"
	"library/config"
	"library/db"
	"library/library"
	"library/models"
	"library/service"
)

// ServeCmd represents the serve command
type ServeCmd struct {
	Addr string `help:"Address to listen on (defaults to server.addr from config)"`
	Seed string `help:"YAML file with books and members to load at startup (defaults to seed.file from config)"`
}

func (s *ServeCmd) Run(cfg *config.Config) error {
	addr := s.Addr
	if addr == "" {
		addr = cfg.ServerAddr
	}

	if s.Seed != "" {
		cfg.SeedFile = s.Seed
	}

	lib, err := newLibrary(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	index, err := setupIndex(ctx, cfg, lib)
	if err != nil {
		return err
	}

	cacher, err := setupCache(cfg)
	if err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	routes := service.SetupRoutes(service.NewServer(lib, index, cacher, slog.Default()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           routes,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Serving library catalog", "addr", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return httpServer.Shutdown(shutdownCtx)
}

// newLibrary creates the catalog and applies the configured seed file, if any.
func newLibrary(cfg *config.Config) (*library.Library, error) {
	lib := library.New()
	if cfg.SeedFile == "" {
		return lib, nil
	}

	seed, err := library.LoadSeed(cfg.SeedFile)
	if err != nil {
		return nil, err
	}
	if err := seed.Apply(lib); err != nil {
		return nil, fmt.Errorf("failed to apply seed file %s: %w", cfg.SeedFile, err)
	}

	slog.Info("Catalog seeded", "file", cfg.SeedFile, "books", len(seed.Books), "members", len(seed.Members))
	return lib, nil
}

func setupIndex(ctx context.Context, cfg *config.Config, lib models.Library) (db.BookIndex, error) {
	if !cfg.Elastic.Enabled {
		return db.NopBookIndex{}, nil
	}

	client, err := config.SetupElasticSearch(cfg.Elastic)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Elastic Search client: %w", err)
	}

	index := db.CreateElasticBookIndex(cfg.Elastic.Index, client)
	for _, book := range lib.SearchBooks("", "") {
		if err := index.IndexBook(ctx, book); err != nil {
			return nil, err
		}
	}

	slog.Info("Elastic index ready", "url", cfg.Elastic.URL, "index", index.IndexName)
	return index, nil
}

func setupCache(cfg *config.Config) (cache.RequestCacher, error) {
	if !cfg.Redis.Enabled {
		return cache.CreateMemoryCache(cfg.ActivityMax), nil
	}

	client, err := config.SetupRedis(cfg.Redis)
	if err != nil {
		return nil, err
	}

	slog.Info("Redis activity cache ready", "addr", cfg.Redis.URL)
	return cache.CreateRedisCache(client, cfg.ActivityMax), nil
}
