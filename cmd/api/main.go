package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gestaozabele/membros/internal/auth"
	"github.com/gestaozabele/membros/internal/config"
	"github.com/gestaozabele/membros/internal/convite"
	"github.com/gestaozabele/membros/internal/dashboard"
	"github.com/gestaozabele/membros/internal/db"
	"github.com/gestaozabele/membros/internal/db/migrations"
	internalhttp "github.com/gestaozabele/membros/internal/http"
	"github.com/gestaozabele/membros/internal/intencao"
	"github.com/gestaozabele/membros/internal/notify"
	"github.com/gestaozabele/membros/internal/usuario"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("api encerrada com erro")
	}
}

func run() error {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	setupLogger(cfg)

	ctx := context.Background()

	if cfg.MigrateOnStart {
		if err := migrations.Up(cfg.DBDSN); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		log.Info().Msg("migrações aplicadas")
	}

	pool, err := db.NewPool(ctx, cfg.DBDSN, db.PoolOptions{
		MaxConns:       cfg.DBMaxConns,
		ConnectTimeout: cfg.DBConnectTimeout,
	})
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}
	defer pool.Close()

	adminKey, err := auth.NewAdminKey(cfg.AdminKeyHash)
	if err != nil {
		return fmt.Errorf("admin key: %w", err)
	}

	checks := map[string]internalhttp.CheckFunc{
		"db": pool.Ping,
	}

	notifiers := notify.Multi{notify.NewLogNotifier(log.With().Str("component", "notify").Logger())}

	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("redis parse: %w", err)
		}
		redisClient := redis.NewClient(redisOpts)
		defer redisClient.Close()

		notifiers = append(notifiers, notify.NewRedisQueue(redisClient, notify.DefaultQueueKey))
		checks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}

	if cfg.NotifyWebhookURL != "" {
		notifiers = append(notifiers, notify.NewWebhookNotifier(cfg.NotifyWebhookURL))
	}

	intencaoService := intencao.NewService(pool, intencao.Options{
		InviteTTL:   cfg.InviteTTL,
		RegisterURL: cfg.RegisterURL,
		Notifier:    notifiers,
		Logger:      log.With().Str("component", "intencao").Logger(),
	})

	handler := internalhttp.NewRouter(cfg, internalhttp.Services{
		Intencoes: intencaoService,
		Convites:  convite.NewService(convite.NewRepository(pool)),
		Usuarios:  usuario.NewService(pool),
		Dashboard: dashboard.NewService(pool),
		AdminKey:  adminKey,
		Checks:    checks,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Msgf("API ouvindo em :%d", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("encerrando...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func setupLogger(cfg *config.Config) {
	if cfg.LogFormat == "json" {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}
