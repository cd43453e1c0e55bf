package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/akmonengine/slide/config"
	"github.com/akmonengine/slide/scene"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type result struct {
	path     string
	ticks    int
	checksum uint64
	scene    *scene.Scene
}

func main() {
	level := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] scenario.yaml...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	logger, err := newLogger(*level)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error creating logger:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, err := run(ctx, logger, flag.Args())
	if err != nil {
		logger.Error("simulation failed", zap.Error(err))
		os.Exit(1)
	}

	for _, r := range results {
		fmt.Printf("%s: %d ticks, checksum %016x\n", r.path, r.ticks, r.checksum)
		positions := r.scene.Positions()
		for _, name := range r.scene.BodyNames() {
			p := positions[name]
			fmt.Printf("  %-16s (%.3f, %.3f)\n", name, p.X(), p.Y())
		}
	}
}

// run plays every scenario in its own goroutine. Each world stays single-threaded.
func run(ctx context.Context, logger *zap.Logger, paths []string) ([]result, error) {
	results := make([]result, len(paths))
	g, ctx := errgroup.WithContext(ctx)

	for i, path := range paths {
		g.Go(func() error {
			cfg, err := config.LoadFile(path)
			if err != nil {
				return err
			}

			log := logger.With(zap.String("scenario", path))
			s, err := scene.Build(cfg, log)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			if err := s.Play(ctx); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			results[i] = result{path: path, ticks: s.Ticks(), checksum: s.World.Checksum(), scene: s}
			log.Info("scenario finished",
				zap.Int("ticks", results[i].ticks),
				zap.Uint64("checksum", results[i].checksum),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func newLogger(level string) (*zap.Logger, error) {
	atomicLevel, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}

	cfg := zap.Config{
		Level:            atomicLevel,
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		DisableCaller:    true,
	}
	return cfg.Build()
}
