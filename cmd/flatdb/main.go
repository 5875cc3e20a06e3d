// Package main is the entry point for the flatdb server.
//
// flatdb serves a delimited flat file (CSV/TSV) as a read-only,
// queryable REST API: search, column projection, sorting, pagination,
// unique values, and per-column statistics. When watching is enabled
// the dataset reloads automatically after the source file settles on
// disk. Configuration is read from CLI flags layered over an optional
// YAML config file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/flatdb/flatdb/internal/config"
	"github.com/flatdb/flatdb/internal/dataset"
	"github.com/flatdb/flatdb/internal/server"
	"github.com/flatdb/flatdb/internal/server/handlers"
	"github.com/flatdb/flatdb/internal/watch"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := mainImpl(); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "flatdb: %v\n", err)
		os.Exit(1)
	}
}

func mainImpl() error {
	version := flag.Bool("version", false, "Print version and exit")
	configPath := flag.String("config", "flatdb.yml", "Path to YAML config file (optional)")
	httpAddr := flag.String("http", "localhost:8080", "Address to listen on (e.g., localhost:8080, :8080)")
	source := flag.String("source", "", "Delimited file to serve (.csv or .tsv)")
	delimiter := flag.String("delimiter", "", "Field delimiter; overrides extension-based detection")
	watchFlag := flag.Bool("watch", true, "Reload when the source file changes")
	stability := flag.Duration("stability", 250*time.Millisecond, "Quiet period before a file change counts as settled")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()
	if len(flag.Args()) > 0 {
		return fmt.Errorf("unknown arguments: %v", flag.Args())
	}

	if *version {
		printVersion()
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()
	ll := &slog.LevelVar{}
	ll.Set(slog.LevelInfo)
	// Skip timestamps when running under systemd (it adds its own).
	underSystemd := os.Getenv("JOURNAL_STREAM") != ""
	logger := slog.New(tint.NewHandler(colorable.NewColorable(os.Stderr), &tint.Options{
		Level:      ll,
		TimeFormat: "15:04:05.000", // Like time.TimeOnly plus milliseconds.
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if underSystemd && a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			// Drop localhost IPs (not useful in logs).
			if a.Key == "ip" {
				if v := a.Value.String(); v == "127.0.0.1" || v == "::1" {
					return slog.Attr{}
				}
			}
			val := a.Value.Any()
			skip := false
			switch t := val.(type) {
			case string:
				skip = t == ""
			case bool:
				skip = !t
			case uint64:
				skip = t == 0
			case int64:
				skip = t == 0
			case float64:
				skip = t == 0
			case time.Time:
				skip = t.IsZero()
			case time.Duration:
				skip = t == 0
			case nil:
				skip = true
			}
			if skip {
				return slog.Attr{}
			}
			return a
		},
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	// Flags explicitly set on the command line win over the config file.
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	if set["http"] {
		cfg.Addr = *httpAddr
	}
	if set["source"] {
		cfg.Source = *source
	}
	if set["delimiter"] {
		cfg.Delimiter = *delimiter
	}
	if set["watch"] {
		cfg.Watch = *watchFlag
	}
	if set["stability"] {
		cfg.StabilityWindow = config.Duration(*stability)
	}
	if set["log-level"] {
		cfg.LogLevel = *logLevel
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	switch cfg.LogLevel {
	case "debug":
		ll.Set(slog.LevelDebug)
	case "info":
	case "warn":
		ll.Set(slog.LevelWarn)
	case "error":
		ll.Set(slog.LevelError)
	}

	// Normalize addr: ":8080" becomes "localhost:8080"
	addr := cfg.Addr
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}

	ds := dataset.New(cfg.Source, cfg.DelimiterRune())
	if err := ds.Reload(ctx); err != nil {
		if !cfg.Watch {
			return err
		}
		// With watching enabled the file may appear or become readable
		// later; serve a no-data signal until then.
		slog.WarnContext(ctx, "Initial load failed, serving empty dataset until the source settles", "err", err)
	}

	if cfg.Watch {
		w := watch.New(cfg.Source, time.Duration(cfg.StabilityWindow), ds.Reload)
		go func() {
			if err := w.Run(ctx); err != nil {
				slog.ErrorContext(ctx, "Watcher stopped", "err", err)
			}
		}()
	}

	// Log snapshot replacements for operators.
	snaps, unsubscribe := ds.Subscribe()
	defer unsubscribe()
	go func() {
		for snap := range snaps {
			slog.InfoContext(ctx, "Snapshot replaced", "rows", len(snap.Rows), "columns", len(snap.Columns))
		}
	}()

	buildVersion, _, _, _ := getBuildInfo()
	svc := &handlers.Services{Dataset: ds}
	srvCfg := &server.Config{
		DefaultLimit:       cfg.DefaultLimit,
		MaxLimit:           cfg.MaxLimit,
		RateRequestsPerMin: cfg.RateLimit.RequestsPerMin,
		RateBurst:          cfg.RateLimit.Burst,
		Version:            buildVersion,
	}

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server.NewRouter(svc, srvCfg),
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.InfoContext(ctx, "Starting server", "addr", addr, "source", cfg.Source, "version", buildVersion)
		serverErr <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		slog.InfoContext(ctx, "Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		slog.InfoContext(ctx, "Server stopped")
	}
	return nil
}

func printVersion() {
	version, goVersion, revision, dirty := getBuildInfo()
	fmt.Printf("flatdb %s\n", version)
	fmt.Printf("  Go version: %s\n", goVersion)
	fmt.Printf("  Revision:   %s\n", revision)
	if dirty {
		fmt.Printf("  Modified:   true\n")
	}
}

func getBuildInfo() (version, goVersion, revision string, dirty bool) {
	version = "unknown"
	goVersion = "unknown"
	revision = "unknown"
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	version = info.Main.Version
	if version == "" || version == "(devel)" {
		version = "dev"
	}
	goVersion = info.GoVersion
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	return
}
