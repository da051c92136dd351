package main

import (
	"context"
	"log"
	"os"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/taskpulse/api/handler"
	"github.com/fastygo/taskpulse/internal/config"
	"github.com/fastygo/taskpulse/internal/infrastructure/monitor"
	redisInfra "github.com/fastygo/taskpulse/internal/infrastructure/redis"
	storeInfra "github.com/fastygo/taskpulse/internal/infrastructure/store"
	"github.com/fastygo/taskpulse/internal/middleware"
	"github.com/fastygo/taskpulse/internal/router"
	"github.com/fastygo/taskpulse/internal/services/lifecycle"
	"github.com/fastygo/taskpulse/pkg/httpcontext"
	"github.com/fastygo/taskpulse/pkg/logger"
	"github.com/fastygo/taskpulse/pkg/password"
	"github.com/fastygo/taskpulse/pkg/token"
	redisRepo "github.com/fastygo/taskpulse/repository/redis"
	authUC "github.com/fastygo/taskpulse/usecase/auth"
	taskUC "github.com/fastygo/taskpulse/usecase/task"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("config error: %v", err)
		os.Exit(1)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()
	zapLogger = zapLogger.With(zap.String("app", cfg.AppName), zap.String("env", cfg.Environment))

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	appCtx, cancel := manager.Listen(context.Background())
	defer cancel()

	store, err := storeInfra.Open(appCtx, cfg.Store, cfg.Migrations, zapLogger)
	if err != nil {
		zapLogger.Fatal("store connection failed", zap.Error(err))
	}
	manager.Register("store", store.Close)

	checks := []monitor.Check{{Name: store.Driver(), Required: true, Ping: store.Ping}}

	var authOpts []authUC.Option
	if cfg.Redis.Enabled() {
		redisClient, err := redisInfra.NewClient(appCtx, cfg.Redis, zapLogger)
		if err != nil {
			zapLogger.Fatal("redis connection failed", zap.Error(err))
		}
		manager.Register("redis", func(ctx context.Context) error {
			return redisClient.Close()
		})
		checks = append(checks, monitor.Check{Name: "redis", Ping: func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}})
		authOpts = append(authOpts, authUC.WithAttemptLimiter(
			redisRepo.NewAttemptCounter(redisClient, cfg.Throttle.MaxAttempts, cfg.Throttle.Window),
		))
	}

	mon := monitor.New(cfg.Monitor.Interval, cfg.Monitor.Timeout, zapLogger, checks...)
	mon.Start(appCtx)
	manager.Register("monitor", mon.Stop)

	tokens, err := token.NewIssuer(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL)
	if err != nil {
		zapLogger.Fatal("token issuer", zap.Error(err))
	}
	hasher, err := password.NewHasher(cfg.Password.Cost)
	if err != nil {
		zapLogger.Fatal("password hasher", zap.Error(err))
	}

	authUseCase := authUC.New(store.Users(), tokens, hasher, zapLogger, authOpts...)
	taskUseCase := taskUC.New(store.Tasks(), zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:    apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger),
		Profile: apiHandler.NewProfileHandler(authUseCase, ctxAdapter, zapLogger),
		Task:    apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		Health:  apiHandler.NewHealthHandler(mon, cfg.AppName, store, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.BearerAuth(authUseCase, ctxAdapter, zapLogger)
	r := router.New(handlers, authMiddleware, zapLogger)

	server := &fasthttp.Server{
		Handler:            router.Handler(r, zapLogger),
		ReadTimeout:        cfg.HTTP.ReadTimeout,
		WriteTimeout:       cfg.HTTP.WriteTimeout,
		IdleTimeout:        cfg.HTTP.IdleTimeout,
		MaxRequestBodySize: cfg.HTTP.MaxRequestBody,
		Concurrency:        cfg.HTTP.MaxConn,
		Name:               cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started",
			zap.String("address", cfg.Address()),
			zap.String("store", store.Driver()),
			zap.Bool("login_throttle", cfg.Redis.Enabled()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Error("server stopped", zap.Error(err))
			cancel()
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
