package serverrun

import (
	"context"
	"net"
	"path/filepath"
	"strings"
	"testing"
	"time"

	cfgpkg "github.com/rzbill/listx/internal/config"
	"github.com/rzbill/listx/internal/replog"
	"github.com/rzbill/listx/internal/runtime"
	pebblestore "github.com/rzbill/listx/internal/storage/pebble"
	logpkg "github.com/rzbill/listx/pkg/log"
)

func TestGetenvDefault(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		def      string
		envValue string
		expected string
	}{
		{
			name:     "environment variable set",
			key:      "LISTX_TEST_VAR",
			def:      "default",
			envValue: "env_value",
			expected: "env_value",
		},
		{
			name:     "environment variable empty",
			key:      "LISTX_TEST_VAR_EMPTY",
			def:      "default",
			envValue: "",
			expected: "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.envValue)
			if got := getenvDefault(tt.key, tt.def); got != tt.expected {
				t.Errorf("getenvDefault(%s, %s) = %s, expected %s", tt.key, tt.def, got, tt.expected)
			}
		})
	}
}

func TestNewLoggerPrefersOptions(t *testing.T) {
	t.Setenv("LISTX_LOG_LEVEL", "debug")
	t.Setenv("LISTX_LOG_FORMAT", "json")

	_, cfg := newLogger(Options{})
	if cfg.Level != "debug" || cfg.Format != "json" {
		t.Fatalf("env not applied: %+v", cfg)
	}
	_, cfg = newLogger(Options{LogLevel: "warn", LogFormat: "text"})
	if cfg.Level != "warn" || cfg.Format != "text" {
		t.Fatalf("options not applied: %+v", cfg)
	}
	// Unknown levels fall back to a working logger.
	if l, _ := newLogger(Options{LogLevel: "loud"}); l == nil {
		t.Fatal("expected fallback logger")
	}
}

func TestDefaultDataDirIntegration(t *testing.T) {
	dir := cfgpkg.DefaultDataDir()
	if dir == "" {
		t.Fatal("DataDir should not be empty after fallback")
	}
	if !filepath.IsAbs(dir) && !strings.HasPrefix(dir, "./") {
		t.Errorf("DataDir should be absolute or start with ./, got %s", dir)
	}
	if dir != "./data" && !strings.HasSuffix(dir, "listx") {
		t.Errorf("DataDir should end in listx, got %s", dir)
	}
}

// TestRunIntegration verifies Run starts both servers and returns cleanly
// when its context ends.
func TestRunIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	opts := Options{
		DataDir:       t.TempDir(),
		GRPCAddr:      "127.0.0.1:0",
		HTTPAddr:      "127.0.0.1:0",
		Fsync:         pebblestore.FsyncModeNever,
		FsyncInterval: time.Millisecond,
		Config:        cfgpkg.Default(),
		LogLevel:      "error",
	}
	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	if err := Run(ctx, opts); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestRunFailsWhenAddressTaken(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer busy.Close()

	opts := Options{
		DataDir:  t.TempDir(),
		GRPCAddr: busy.Addr().String(),
		HTTPAddr: "127.0.0.1:0",
		Fsync:    pebblestore.FsyncModeNever,
		Config:   cfgpkg.Default(),
		LogLevel: "error",
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := Run(ctx, opts); err == nil {
		t.Fatal("expected bind error")
	}
	if ctx.Err() != nil {
		t.Fatal("Run should fail before the context deadline")
	}
}

func TestTrimLoopBoundsReplicationLog(t *testing.T) {
	cfg := cfgpkg.Default()
	cfg.Replication.Enabled = true
	cfg.Replication.MaxEntries = 2
	rt, err := runtime.Open(runtime.Options{DataDir: t.TempDir(), Fsync: pebblestore.FsyncModeNever, Config: cfg})
	if err != nil {
		t.Fatalf("open runtime: %v", err)
	}
	defer rt.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	for i := 0; i < 5; i++ {
		if _, err := rt.ReplicationLog().Append(ctx, "default", [][]byte{[]byte("DEL"), []byte("k")}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	done := make(chan struct{})
	go func() {
		trimLoop(ctx, rt, 5*time.Millisecond, logpkg.NewNopLogger())
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for {
		entries, _, err := rt.ReplicationLog().Read(replog.ReadOptions{Limit: 10})
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if len(entries) == 2 {
			if entries[0].Seq != 4 || entries[1].Seq != 5 {
				t.Fatalf("unexpected survivors: %d, %d", entries[0].Seq, entries[1].Seq)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("log not trimmed, %d entries", len(entries))
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-done
}
