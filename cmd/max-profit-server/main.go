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

	"github.com/iwvelando/max-profit-solver/internal/logging"
	"github.com/iwvelando/max-profit-solver/internal/server"
	"github.com/iwvelando/max-profit-solver/pkg/constants"
	"github.com/iwvelando/max-profit-solver/pkg/metrics"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	configLocation := flag.String("config", constants.DefaultServerConfigFile, "path to server configuration file")
	address := flag.String("address", "", "listen address override")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	cfg, err := server.LoadConfig(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load server configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		return 1
	}
	if *address != "" {
		cfg.Address = *address
	}

	logger, err := logging.New(cfg.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		return 1
	}
	defer func() {
		_ = logger.Sync()
	}()

	var recorder *metrics.Recorder
	if !cfg.Metrics.Disabled {
		recorder, err = metrics.NewRecorder(nil)
		if err != nil {
			logger.Error("failed to register metrics",
				zap.String("op", "main"),
				zap.Error(err),
			)
			return 1
		}
	}

	handlerOpts := []server.HandlerOption{
		server.WithRateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst),
	}
	if cfg.Cache.TTL > 0 {
		cache, err := server.NewResultCache(cfg.Cache.TTL, cfg.Cache.MaxSizeMB)
		if err != nil {
			logger.Error("failed to create result cache",
				zap.String("op", "main"),
				zap.Error(err),
			)
			return 1
		}
		defer func() {
			_ = cache.Close()
		}()
		handlerOpts = append(handlerOpts, server.WithResultCache(cache))
	}

	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      server.NewHandler(logger, cfg.UploadSizeBytes(), version, nil, recorder, handlerOpts...),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening",
			zap.String("op", "main"),
			zap.String("address", cfg.Address),
			zap.Int64("maxUploadBytes", cfg.UploadSizeBytes()),
			zap.Bool("metrics", recorder != nil),
			zap.Float64("rateLimit", cfg.RateLimit.RequestsPerSecond),
			zap.Duration("cacheTTL", cfg.Cache.TTL),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down",
			zap.String("op", "main"),
		)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped",
			zap.String("op", "main"),
			zap.Error(err),
		)
		return 1
	}
	return 0
}
