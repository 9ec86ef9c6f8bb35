package commands

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/simple_shop/internal/config"
	"github.com/Skotchmaster/simple_shop/internal/db"
	"github.com/Skotchmaster/simple_shop/internal/events"
	"github.com/Skotchmaster/simple_shop/internal/httpserver"
	authmw "github.com/Skotchmaster/simple_shop/internal/middleware/auth"
	"github.com/Skotchmaster/simple_shop/internal/repo"
	"github.com/Skotchmaster/simple_shop/internal/search"
	"github.com/Skotchmaster/simple_shop/internal/service"
)

var skipMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger := loadConfig()
		return serve(cmd.Context(), cfg, logger)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "Do not run AutoMigrate on startup")
}

func serve(parent context.Context, cfg config.Config, logger *slog.Logger) error {
	config.MustNonEmptyBytes(cfg.JWTAccessSecret, "JWT_SECRET")
	config.MustNonEmptyBytes(cfg.JWTRefreshSecret, "JWT_REFRESH_SECRET")

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gdb, err := db.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(gdb); err != nil {
			log.Printf("db close error: %v", err)
		}
	}()
	if !skipMigrate {
		if err := db.Migrate(ctx, gdb); err != nil {
			return err
		}
	}

	var publisher events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaProducer(cfg.KafkaBrokers)
		logger.Info("kafka_enabled", "brokers", cfg.KafkaBrokers)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Printf("kafka close error: %v", err)
		}
	}()

	store := &repo.GormRepo{DB: gdb}

	var (
		searcher search.Searcher = store
		indexer  search.Indexer  = search.NopIndexer{}
	)
	if cfg.ESURL != "" {
		es, err := search.NewElasticClient(ctx, search.Config{
			URL:      cfg.ESURL,
			User:     cfg.ESUser,
			Password: cfg.ESPassword,
			Index:    cfg.ESIndex,
		})
		if err != nil {
			logger.Error("elasticsearch_unavailable", "url", cfg.ESURL, "error", err)
		} else {
			searcher, indexer = es, es
			logger.Info("elasticsearch_enabled", "index", cfg.ESIndex)
		}
	}

	authSvc := &service.AuthService{
		Repo:          store,
		JWTSecret:     cfg.JWTAccessSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
		Events:        publisher,
	}

	e := httpserver.New(&httpserver.Deps{
		DB:     gdb,
		Logger: logger,
		AuthHandler: &httpserver.AuthHTTP{
			Svc:          authSvc,
			CookieSecure: cfg.CookieSecure,
		},
		CatalogHandler: &httpserver.CatalogHTTP{Svc: &service.CatalogService{
			Repo:     store,
			Searcher: searcher,
			Indexer:  indexer,
			Events:   publisher,
		}},
		CartHandler: &httpserver.CartHTTP{Svc: &service.CartService{
			Repo:   store,
			Events: publisher,
		}},
		AuthMiddleware: &authmw.Middleware{
			JWTSecret:    cfg.JWTAccessSecret,
			Refresher:    authSvc,
			Sessions:     authSvc,
			CookieSecure: cfg.CookieSecure,
		},
		CSRFEnabled:  cfg.CSRFEnabled,
		CookieSecure: cfg.CookieSecure,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http_server_started", "addr", srv.Addr, "db_driver", cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}
	log.Println("shutdown complete")
	return nil
}
