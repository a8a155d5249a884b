// Command api starts the textboard callable backend.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/textboard/textboard-backend/config"
	"github.com/textboard/textboard-backend/internal/auth"
	"github.com/textboard/textboard-backend/internal/bootstrap"
	"github.com/textboard/textboard-backend/internal/comments"
	"github.com/textboard/textboard-backend/internal/maintenance"
	"github.com/textboard/textboard-backend/internal/migrate"
	"github.com/textboard/textboard-backend/internal/workspace"
)

const serviceName = "textboard-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := newLogger(cfg)
	defer func() { _ = logger.Sync() }()
	logger.Info("starting",
		zap.String("service", serviceName),
		zap.String("version", cfg.App.Version),
		zap.String("env", cfg.App.Environment),
	)

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := migrate.Up(ctx, cfg.Database.DSN); err != nil {
		logger.Fatal("migrate up", zap.Error(err))
	}

	pool, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: cfg.Database.DSN})
	if err != nil {
		logger.Fatal("open db", zap.Error(err))
	}
	defer pool.Close()

	rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal("open redis", zap.Error(err))
	}
	defer func() { _ = rdb.Close() }()

	authClient, err := auth.InitializeFirebase(ctx, &cfg.Firebase)
	if err != nil {
		logger.Fatal("init firebase", zap.Error(err))
	}
	verifier := auth.NewFirebaseVerifier(authClient)

	codec := workspace.NewCodec([]byte(cfg.Workspace.TokenSecret), cfg.Workspace.TokenTTL)
	gate := workspace.NewGate(codec, workspace.NewRedisGenerationStore(rdb), logger)

	scheduler := maintenance.NewScheduler(comments.NewRepo(pool), cfg.App.OrphanAuditCron, logger)
	if err := scheduler.Start(); err != nil {
		logger.Fatal("start maintenance scheduler", zap.Error(err))
	}
	defer scheduler.Stop()

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: serviceName,
		Version:     cfg.App.Version,
		Cfg:         cfg,
		DB:          pool,
		Redis:       rdb,
		Verifier:    verifier,
		Gate:        gate,
		Log:         logger,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Info("listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("serve", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) *zap.Logger {
	if cfg.App.Environment == "development" {
		logger, _ := zap.NewDevelopment()
		return logger
	}
	logger, _ := zap.NewProduction()
	return logger
}
