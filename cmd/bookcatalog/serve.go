package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"

	"github.com/qolzam/bookcatalog/books"
	"github.com/qolzam/bookcatalog/books/handlers"
	"github.com/qolzam/bookcatalog/books/repository"
	"github.com/qolzam/bookcatalog/books/services"
	"github.com/qolzam/bookcatalog/internal/cache"
	"github.com/qolzam/bookcatalog/internal/database"
	"github.com/qolzam/bookcatalog/internal/middleware/requestid"
	"github.com/qolzam/bookcatalog/internal/pkg/log"
	platformconfig "github.com/qolzam/bookcatalog/internal/platform/config"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx)
		},
	}
}

func runServe(ctx context.Context) error {
	cfg, err := platformconfig.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("failed to load platform config: %w", err)
	}
	log.SetDebug(cfg.Server.Debug)

	client, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	cacheService := openCache(cfg)
	defer cacheService.Close()

	svc := services.NewBookService(repository.NewSQLRepository(client), cacheService)

	// the read buffer leaves room for a maximal dsql filter in the query string
	app := fiber.New(fiber.Config{
		AppName:        "bookcatalog",
		ReadBufferSize: 16 * 1024,
	})
	app.Use(requestid.New())
	app.Get("/health", func(c *fiber.Ctx) error {
		if err := client.HealthCheck(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable", "error": err.Error()})
		}
		return c.JSON(fiber.Map{"status": "ok", "cache": cacheService.GetStats()})
	})
	books.RegisterRoutes(app, &books.BooksHandlers{BookHandler: handlers.NewBookHandler(svc)}, cfg)

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting book catalog on %s", cfg.Address())
		errCh <- app.Listen(cfg.Address())
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info("Shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			return err
		}
		return <-errCh
	}
}

func openDatabase(ctx context.Context, cfg *platformconfig.Config) (*database.Client, error) {
	client, err := database.NewClient(ctx, cfg.DatabaseClientConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Database.Type, err)
	}
	if err := repository.Migrate(ctx, client); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return client, nil
}

// openCache falls back to running uncached when the backend is unreachable.
func openCache(cfg *platformconfig.Config) *cache.CacheService {
	cacheConfig := cfg.CacheServiceConfig()
	if !cacheConfig.Enabled {
		return cache.NewCacheService(nil, cacheConfig)
	}
	backend, err := cache.NewCache(cacheConfig)
	if err != nil {
		log.Warn("Cache backend %s unavailable, continuing without cache: %v", cacheConfig.Backend, err)
		return cache.NewCacheService(nil, cacheConfig)
	}
	return cache.NewCacheService(backend, cacheConfig)
}
