package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/campusbites/internal/adapters/repository"
	"github.com/okian/campusbites/internal/config"
	"github.com/okian/campusbites/internal/domain/catalog"
	"github.com/okian/campusbites/internal/ingest"
	"github.com/okian/campusbites/pkg/logger"
)

func main() {
	var (
		out        = flag.String("out", "", "Cache file to write (default: cache_path from configuration)")
		university = flag.String("university", "", "Restrict the run to one university")
		cuisine    = flag.String("cuisine", "", "Restrict the run to one cuisine")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Usage = func() { ingest.ShowHelp(os.Stderr) }
	flag.Parse()

	if *help {
		ingest.ShowHelp(os.Stdout)
		return
	}

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *out, *university, *cuisine); err != nil {
		logger.Get().Error(ctx, "ingest failed", logger.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, out, university, cuisine string) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if err := cfg.ValidateIngest(); err != nil {
		return err
	}
	_ = logger.SetFormat(cfg.LogFormat)
	_ = logger.SetLevelString(cfg.LogLevel)
	log := logger.Get().Named("ingest")

	var opts []ingest.Option
	if university != "" {
		if !catalog.IsUniversity(university) {
			return fmt.Errorf("%w: unknown university %q", config.ErrInvalidConfig, university)
		}
		opts = append(opts, ingest.WithUniversities(university))
	}
	if cuisine != "" {
		if !catalog.IsCuisine(cuisine) {
			return fmt.Errorf("%w: unknown cuisine %q", config.ErrInvalidConfig, cuisine)
		}
		opts = append(opts, ingest.WithCuisines(cuisine))
	}

	if out == "" {
		out = cfg.CachePath
	}
	store, err := repository.NewFileStore(out,
		repository.WithLogger(log.Named("cache")),
		repository.WithIndent("  "),
	)
	if err != nil {
		return err
	}

	in, closeMemo, err := ingest.FromConfig(ctx, cfg, log, opts...)
	if err != nil {
		return err
	}
	defer func() { _ = closeMemo() }()

	stats, err := ingest.Execute(ctx, in, store)
	if err != nil {
		return err
	}
	log.Info(ctx, "cache written",
		logger.String("path", store.Path()),
		logger.String("run_id", stats.RunID),
		logger.Int("pairs", stats.Pairs),
		logger.Int("venues", stats.Venues),
		logger.Int("parks", stats.Parks),
		logger.String("duration", stats.Duration.String()),
	)
	return nil
}
