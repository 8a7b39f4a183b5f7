package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"hale/internal/adapters"
	"hale/internal/bootstrap"
	"hale/internal/domain/history"
	"hale/internal/repository"
	archiveUsecase "hale/internal/usecase/archive"
	"hale/internal/usecase/augment"
	"hale/internal/usecase/parse"
)

const usage = `usage:
  augment import [dir]   parse, augment and archive every log under dir (default LOG_DIR)
  augment dump <file>    print the variants of one log as JSON`

func main() {
	logger := NewLogger()
	code := run(logger, os.Args, os.Stdout)
	_ = logger.Sync()
	os.Exit(code)
}

// run executes one subcommand and returns the process exit code.
func run(logger *zap.SugaredLogger, args []string, stdout io.Writer) int {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		return 2
	}

	cfg, err := bootstrap.Setup(".env")
	if err != nil {
		logger.Errorw("Failed to setup configuration", "error", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch args[1] {
	case "import":
		dir := cfg.LogDir
		if len(args) > 2 {
			dir = args[2]
		}
		err = runImport(ctx, logger, cfg, dir)
	case "dump":
		if len(args) < 3 {
			fmt.Fprintln(os.Stderr, usage)
			return 2
		}
		err = runDump(ctx, cfg, args[2], stdout)
	default:
		fmt.Fprintln(os.Stderr, usage)
		return 2
	}
	if err != nil {
		logger.Errorw("augment failed", "command", args[1], "error", err)
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

func runImport(ctx context.Context, log *zap.SugaredLogger, cfg *bootstrap.Config, dir string) error {
	mongoAdapter := adapters.NewAdapterMongo(cfg, log)
	if err := mongoAdapter.Init(ctx); err != nil {
		return err
	}
	defer mongoAdapter.Close(context.Background())

	redisAdapter := adapters.NewAdapterRedis(cfg, log)
	if err := redisAdapter.Init(ctx); err != nil {
		return err
	}
	defer redisAdapter.Close(context.Background())

	archiveUC := archiveUsecase.NewArchiveUseCase(
		repository.NewHistoryRepository(log, mongoAdapter.Database),
		repository.NewImportCache(log, redisAdapter.GetClient()),
		parse.NewDefaultParser(cfg.ShareMarker),
		augment.NewAugmenter(history.StandardTables(), cfg.AugmentWorkers),
		log,
		cfg.LogExt,
	)

	summary, err := archiveUC.ImportLogsByPath(ctx, dir)
	if err != nil {
		return err
	}
	log.Infow("import finished",
		"dir", dir,
		"imported", len(summary.Imported),
		"skipped", len(summary.Skipped),
		"failed", len(summary.Failed),
		"variants", summary.Variants,
	)
	return nil
}

func runDump(ctx context.Context, cfg *bootstrap.Config, path string, out io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	h, err := parse.NewDefaultParser(cfg.ShareMarker).Parse(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	variants, err := augment.NewAugmenter(history.StandardTables(), cfg.AugmentWorkers).Augment(ctx, h)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	return enc.Encode(variants)
}
