package serverrun

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	cfgpkg "github.com/rzbill/listx/internal/config"
	"github.com/rzbill/listx/internal/runtime"
	grpcserver "github.com/rzbill/listx/internal/server/grpc"
	httpserver "github.com/rzbill/listx/internal/server/http"
	pebblestore "github.com/rzbill/listx/internal/storage/pebble"
	logpkg "github.com/rzbill/listx/pkg/log"
	"golang.org/x/sync/errgroup"
)

func getenvDefault(key, def string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return def
}

// small wrapper to allow testing
var getenv = os.Getenv

const defaultTrimInterval = 30 * time.Second

type Options struct {
	DataDir       string
	GRPCAddr      string
	HTTPAddr      string
	Fsync         pebblestore.FsyncMode
	FsyncInterval time.Duration
	Config        cfgpkg.Config
	// LogLevel and LogFormat override LISTX_LOG_LEVEL / LISTX_LOG_FORMAT.
	LogLevel  string
	LogFormat string
	// TrimInterval is how often the replication log is cut back to
	// Replication.MaxEntries. Defaults to 30s.
	TrimInterval time.Duration
}

// newLogger builds the process-wide logger; defaults: level=info, format=text.
func newLogger(opts Options) (logpkg.Logger, *logpkg.Config) {
	cfg := &logpkg.Config{
		Level:  getenvDefault("LISTX_LOG_LEVEL", "info"),
		Format: getenvDefault("LISTX_LOG_FORMAT", "text"),
	}
	if opts.LogLevel != "" {
		cfg.Level = opts.LogLevel
	}
	if opts.LogFormat != "" {
		cfg.Format = opts.LogFormat
	}
	logger, err := logpkg.ApplyConfig(cfg)
	if err != nil {
		lvl := logpkg.InfoLevel
		if l, e := logpkg.ParseLevel(cfg.Level); e == nil {
			lvl = l
		}
		logger = logpkg.NewLogger(logpkg.WithLevel(lvl), logpkg.WithFormatter(&logpkg.TextFormatter{}))
	}
	return logger, cfg
}

// Run starts gRPC and HTTP servers and blocks until ctx is cancelled or a
// server fails.
func Run(ctx context.Context, opts Options) error {
	sctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if opts.DataDir == "" {
		opts.DataDir = cfgpkg.DefaultDataDir()
	}
	if opts.TrimInterval <= 0 {
		opts.TrimInterval = defaultTrimInterval
	}

	logger, logCfg := newLogger(opts)
	// Pebble logs through the stdlib logger.
	logpkg.RedirectStdLog(logger)

	rt, err := runtime.Open(runtime.Options{
		DataDir:       filepath.Join(opts.DataDir, "store"),
		Fsync:         opts.Fsync,
		FsyncInterval: opts.FsyncInterval,
		Config:        opts.Config,
		Logger:        logger,
	})
	if err != nil {
		return err
	}
	defer rt.Close()

	logger.Info("Starting listx server",
		logpkg.Str("grpc", opts.GRPCAddr),
		logpkg.Str("http", opts.HTTPAddr),
		logpkg.Str("data_dir", opts.DataDir),
		logpkg.Str("level", logCfg.Level),
		logpkg.Str("format", logCfg.Format),
		logpkg.Bool("replication", rt.Config().Replication.Enabled),
	)

	gsrv, err := grpcserver.New(rt)
	if err != nil {
		return err
	}
	hsrv, err := httpserver.New(rt, logger)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(sctx)
	g.Go(func() error {
		if err := gsrv.ListenAndServe(gctx, opts.GRPCAddr); err != nil {
			logger.Error("grpc server failed", logpkg.Err(err))
			return err
		}
		return nil
	})
	g.Go(func() error {
		if err := hsrv.ListenAndServe(gctx, opts.HTTPAddr); err != nil {
			logger.Error("http server failed", logpkg.Err(err))
			return err
		}
		return nil
	})
	if rc := rt.Config().Replication; rc.Enabled && rc.MaxEntries > 0 {
		g.Go(func() error {
			trimLoop(gctx, rt, opts.TrimInterval, logger)
			return nil
		})
	}

	err = g.Wait()
	// Stop servers before the deferred runtime close.
	gsrv.Close()
	hsrv.Close()
	logger.Info("listx server stopped")
	return err
}

func trimLoop(ctx context.Context, rt *runtime.Runtime, every time.Duration, logger logpkg.Logger) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if _, err := rt.TrimReplication(ctx); err != nil && ctx.Err() == nil {
				logger.Warn("replication trim failed", logpkg.Err(err))
			}
		}
	}
}
