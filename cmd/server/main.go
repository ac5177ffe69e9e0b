package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/birozsombor4/rest-api-template/config"
	"github.com/birozsombor4/rest-api-template/internal/avatar"
	"github.com/birozsombor4/rest-api-template/internal/email"
	"github.com/birozsombor4/rest-api-template/internal/health"
	"github.com/birozsombor4/rest-api-template/internal/infrastructure/postgres"
	ctxlog "github.com/birozsombor4/rest-api-template/internal/log"
	"github.com/birozsombor4/rest-api-template/internal/maintenance"
	"github.com/birozsombor4/rest-api-template/internal/metrics"
	"github.com/birozsombor4/rest-api-template/internal/password"
	"github.com/birozsombor4/rest-api-template/internal/token"
	httptransport "github.com/birozsombor4/rest-api-template/internal/transport/http"
	"github.com/birozsombor4/rest-api-template/internal/transport/http/handler"
	"github.com/birozsombor4/rest-api-template/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	userStore := postgres.NewUserStore(pool)
	tokenStore := postgres.NewTokenStore(pool)

	avatarStore, err := avatar.NewStore(cfg.AvatarsRoot, logger)
	if err != nil {
		stop()
		log.Fatalf("avatar store: %v", err)
	}

	codec := token.New([]byte(cfg.SecretKey))
	mailer := email.NewVerificationMailer(
		email.NewSender(cfg.Env, cfg.ResendAPIKey, cfg.ResendFrom, logger),
		cfg.VerifyLinkBase,
	)

	registrationUC := usecase.NewRegistrationUsecase(userStore, password.NewBcryptHasher(), logger)
	verificationUC := usecase.NewVerificationUsecase(userStore, tokenStore, mailer, logger)
	userUC := usecase.NewUserUsecase(userStore, avatarStore)

	userHandler := handler.NewUserHandler(registrationUC, verificationUC, userUC, avatarStore, mailer, codec, logger)

	metrics.Register()
	checker := health.NewChecker(pool, logger, prometheus.DefaultRegisterer)

	purger := maintenance.NewPurger(tokenStore, cfg.TokenPurgeSchedule, logger)
	if err := purger.Start(); err != nil {
		stop()
		log.Fatalf("token purger: %v", err)
	}

	srv := http.Server{
		Addr:    ":" + cfg.Port,
		Handler: httptransport.NewRouter(logger, userHandler, codec, userUC),
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	purger.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
