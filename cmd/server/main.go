package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"hale/internal/adapters"
	"hale/internal/bootstrap"
	historyDelivery "hale/internal/delivery/history"
	"hale/internal/domain/history"
	ownMiddleware "hale/internal/middleware"
	"hale/internal/repository"
	archiveUsecase "hale/internal/usecase/archive"
	"hale/internal/usecase/augment"
	"hale/internal/usecase/parse"
)

type dataBaseAdapters struct {
	redisAdapter *adapters.AdapterRedis
	mongoAdapter *adapters.AdapterMongo
}

func main() {
	logger := NewLogger()
	code := run(logger)
	_ = logger.Sync()
	os.Exit(code)
}

func run(logger *zap.SugaredLogger) int {
	cfg, err := bootstrap.Setup(".env")
	if err != nil {
		logger.Errorw("Failed to setup configuration", "error", err)
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go handleShutdown(cancel, logger)

	databaseAdapters, err := initDatabaseAdapters(ctx, logger, cfg)
	if err != nil {
		logger.Errorw("Failed to initialize database adapters", "error", err)
		return 1
	}
	defer databaseAdapters.mongoAdapter.Close(context.Background())
	defer databaseAdapters.redisAdapter.Close(context.Background())

	r := chi.NewRouter()
	if cfg.IsLocalCors {
		r.Use(ownMiddleware.CORS)
	}
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	initializeDeliveryHandlers(*cfg, logger, databaseAdapters).Register(r)

	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Infof("Server is running on port %s", cfg.ServerPort)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Errorw("Failed to start server", "error", err)
		return 1
	}
	return 0
}

func NewLogger() *zap.SugaredLogger {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return logger.Sugar()
}

func initDatabaseAdapters(ctx context.Context, log *zap.SugaredLogger, cfg *bootstrap.Config) (*dataBaseAdapters, error) {
	mongoAdapter := adapters.NewAdapterMongo(cfg, log)
	if err := mongoAdapter.Init(ctx); err != nil {
		return nil, err
	}

	redisAdapter := adapters.NewAdapterRedis(cfg, log)
	if err := redisAdapter.Init(ctx); err != nil {
		_ = mongoAdapter.Close(context.Background())
		return nil, err
	}

	log.Info("Database adapters initialized")
	return &dataBaseAdapters{
		redisAdapter: redisAdapter,
		mongoAdapter: mongoAdapter,
	}, nil
}

func initializeDeliveryHandlers(
	cfg bootstrap.Config,
	log *zap.SugaredLogger,
	databaseAdapters *dataBaseAdapters,
) *historyDelivery.HistoryHandler {
	archiveUC := archiveUsecase.NewArchiveUseCase(
		repository.NewHistoryRepository(log, databaseAdapters.mongoAdapter.Database),
		repository.NewImportCache(log, databaseAdapters.redisAdapter.GetClient()),
		parse.NewDefaultParser(cfg.ShareMarker),
		augment.NewAugmenter(history.StandardTables(), cfg.AugmentWorkers),
		log,
		cfg.LogExt,
	)
	return historyDelivery.NewHistoryHandler(log, archiveUC, cfg.LogDir)
}

func handleShutdown(cancelFunc context.CancelFunc, log *zap.SugaredLogger) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Info("Received shutdown signal")
	cancelFunc()
}
