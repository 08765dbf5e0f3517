package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	clientcmd "github.com/rzbill/listx/internal/cmd/client"
	serverrun "github.com/rzbill/listx/internal/cmd/server"
	cfgpkg "github.com/rzbill/listx/internal/config"
	pebblestore "github.com/rzbill/listx/internal/storage/pebble"
	logpkg "github.com/rzbill/listx/pkg/log"
	"github.com/spf13/cobra"
)

func main() {
	// Respect LISTX_LOG_LEVEL for both CLI and server start output
	level := os.Getenv("LISTX_LOG_LEVEL")
	parsed, err := logpkg.ParseLevel(level)
	if err != nil || level == "" {
		parsed = logpkg.InfoLevel
	}
	logger := logpkg.NewLogger(
		logpkg.WithLevel(parsed),
		logpkg.WithFormatter(&logpkg.TextFormatter{}),
		logpkg.WithOutput(logpkg.NewConsoleOutput()),
	)
	logpkg.RedirectStdLog(logger)

	rootCmd := &cobra.Command{
		Use:   "listx",
		Short: "listx runtime CLI",
		Long:  "listx is a single-binary list store. This CLI manages the server and runs commands against it.",
	}

	serverCmd := &cobra.Command{Use: "server", Short: "Server commands"}
	serverStartCmd := &cobra.Command{
		Use:     "start",
		Short:   "Start listx server (gRPC and HTTP)",
		Aliases: []string{"run"},
		RunE: func(cmd *cobra.Command, args []string) error {
			dataDir, _ := cmd.Flags().GetString("data-dir")
			grpcAddr, _ := cmd.Flags().GetString("grpc")
			httpAddr, _ := cmd.Flags().GetString("http")
			fsyncMode, _ := cmd.Flags().GetString("fsync")
			fsyncIntervalMs, _ := cmd.Flags().GetInt("fsync-interval-ms")
			logLevel, _ := cmd.Flags().GetString("log-level")
			logFormat, _ := cmd.Flags().GetString("log-format")
			configPath, _ := cmd.Flags().GetString("config")
			trimSec, _ := cmd.Flags().GetInt("replication-trim-interval")

			mode, err := pebblestore.ParseFsyncMode(fsyncMode)
			if err != nil {
				return fmt.Errorf("invalid --fsync: %w", err)
			}
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			if err := serverrun.Run(ctx, serverrun.Options{
				DataDir:       dataDir,
				GRPCAddr:      grpcAddr,
				HTTPAddr:      httpAddr,
				Fsync:         mode,
				FsyncInterval: time.Duration(fsyncIntervalMs) * time.Millisecond,
				Config:        cfg,
				LogLevel:      logLevel,
				LogFormat:     logFormat,
				TrimInterval:  time.Duration(trimSec) * time.Second,
			}); err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			// brief delay to allow logs flush
			time.Sleep(100 * time.Millisecond)
			return nil
		},
	}
	serverStartCmd.Flags().String("data-dir", "", "Data directory (if not specified, uses OS-specific application data directory)")
	serverStartCmd.Flags().String("grpc", ":50051", "gRPC listen address")
	serverStartCmd.Flags().String("http", ":8080", "HTTP listen address")
	serverStartCmd.Flags().String("fsync", "always", "Fsync mode: always|interval|never")
	serverStartCmd.Flags().Int("fsync-interval-ms", 5, "When --fsync=interval, group-commit window in ms (default 5)")
	serverStartCmd.Flags().String("log-level", os.Getenv("LISTX_LOG_LEVEL"), "Log level: debug|info|warn|error")
	serverStartCmd.Flags().String("log-format", os.Getenv("LISTX_LOG_FORMAT"), "Log format: text|json (default text)")
	serverStartCmd.Flags().String("config", os.Getenv("LISTX_CONFIG"), "Path to a JSON or YAML config file")
	serverStartCmd.Flags().Int("replication-trim-interval", 30, "Seconds between replication log trims (when replication.maxEntries > 0)")
	serverCmd.AddCommand(serverStartCmd)
	rootCmd.AddCommand(serverCmd)

	clientcmd.AddCommands(rootCmd, apiURL)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads path (when set) and overlays LISTX_* environment variables.
func loadConfig(path string) (cfgpkg.Config, error) {
	cfg := cfgpkg.Default()
	if path != "" {
		loaded, err := cfgpkg.Load(path)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	cfgpkg.FromEnv(&cfg)
	return cfg, cfg.Validate()
}

func apiURL() string {
	if v := os.Getenv("LISTX_HTTP"); v != "" {
		return v
	}
	return "http://127.0.0.1:8080"
}
