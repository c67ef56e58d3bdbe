// Package internal provides the application initialization and the
// runtime logic behind each command.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/adrgraph/internal/adrservice"
	"github.com/starford/adrgraph/internal/api"
	"github.com/starford/adrgraph/internal/apperr"
	"github.com/starford/adrgraph/internal/index"
	"github.com/starford/adrgraph/internal/mcpserver"
	"github.com/starford/adrgraph/internal/parser"
	"github.com/starford/adrgraph/internal/report"
	"github.com/starford/adrgraph/internal/sse"
	"github.com/starford/adrgraph/internal/storage"
	"github.com/starford/adrgraph/internal/validator"
)

// runtime is the state shared by every command.
type runtime struct {
	app    *application
	cfg    *Config
	logger *slog.Logger
	store  storage.Provider
	v      *validator.Validator
}

func newRuntime(opts []Option) (*runtime, error) {
	app := &application{stdout: os.Stdout, stderr: os.Stderr, version: "dev"}
	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return nil, fmt.Errorf("config is required: %w", apperr.ErrInvalidConfig)
	}
	cfg := app.config

	// Structured JSON logs go to stderr; stdout carries only reports.
	logger := slog.New(slog.NewJSONHandler(app.stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Debug("Configuration loaded",
		slog.String("corpus_root", cfg.Corpus.Root),
		slog.String("corpus_pattern", cfg.Corpus.Pattern),
		slog.String("marker", cfg.Corpus.Marker),
		slog.String("log_level", cfg.App.LogLevel.String()))

	store, err := storage.NewFS(cfg.Corpus.Root)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	v := validator.New(store, parser.New(parser.NewMatcher(cfg.Corpus.Marker)), logger, validator.Options{
		Pattern:      cfg.Corpus.Pattern,
		Exclude:      cfg.Corpus.Exclude,
		DedupeCycles: cfg.Report.DedupeCycles,
	})

	return &runtime{app: app, cfg: cfg, logger: logger, store: store, v: v}, nil
}

func (rt *runtime) printReport(rep *report.Report) error {
	if rt.cfg.Report.Format == FormatJSON {
		return report.WriteJSON(rt.app.stdout, rep)
	}
	return report.WriteText(rt.app.stdout, rep, report.TextOptions{Color: rt.cfg.Report.Color})
}

// Validate runs one validation, prints the report and returns
// apperr.ErrVerdictFail when the verdict is fail.
func Validate(ctx context.Context, opts ...Option) error {
	rt, err := newRuntime(opts)
	if err != nil {
		return err
	}

	res, err := rt.v.Run(ctx)
	if err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	if err := rt.printReport(res.Report); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if !res.Report.Passed() {
		return apperr.ErrVerdictFail
	}
	return nil
}

// Map writes the Markdown relationship map to the configured output file.
func Map(ctx context.Context, opts ...Option) error {
	rt, err := newRuntime(opts)
	if err != nil {
		return err
	}

	res, err := rt.v.Run(ctx)
	if err != nil {
		return fmt.Errorf("map: %w", err)
	}
	out := report.RenderMap(res.Graph, rt.v.Label, rt.cfg.Map.Categories)
	if err := storage.WriteFile(rt.cfg.Map.Output, []byte(out)); err != nil {
		return fmt.Errorf("map: %w", err)
	}

	rt.logger.Info("relationship map written",
		slog.String("path", rt.cfg.Map.Output),
		slog.Int("documents", res.Graph.Len()))
	_, err = fmt.Fprintf(rt.app.stdout, "wrote %s (%d document(s))\n", rt.cfg.Map.Output, res.Graph.Len())
	return err
}

// Export stores the graph and findings in the configured SQLite database,
// replacing any previous snapshot.
func Export(ctx context.Context, opts ...Option) error {
	rt, err := newRuntime(opts)
	if err != nil {
		return err
	}

	db, err := index.Open(rt.cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init index: %w", err)
	}
	defer db.Close()

	res, err := index.Sync(ctx, db, rt.v, rt.logger)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	_, err = fmt.Fprintf(rt.app.stdout, "exported %d document(s), %d error(s), %d warning(s) to %s\n",
		res.Report.Stats.Documents, res.Report.ErrorCount, res.Report.WarningCount, rt.cfg.SQLite.Path)
	return err
}

// Watch prints a report, then re-validates and prints again every time
// the corpus changes, until ctx is cancelled or the process is signalled.
func Watch(ctx context.Context, opts ...Option) error {
	rt, err := newRuntime(opts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	run := func() {
		res, err := rt.v.Run(ctx)
		if err != nil {
			if ctx.Err() == nil {
				rt.logger.Error("watch: validation failed", slog.String("error", err.Error()))
			}
			return
		}
		if err := rt.printReport(res.Report); err != nil {
			rt.logger.Error("watch: write report failed", slog.String("error", err.Error()))
		}
	}

	run()
	return index.Watch(ctx, rt.store.Root(), rt.logger, func(paths []string) {
		rt.logger.Info("watch: corpus changed", slog.Any("paths", paths))
		_, _ = fmt.Fprintln(rt.app.stdout)
		run()
	})
}

// ServeMCP runs the MCP server on stdin/stdout.
func ServeMCP(ctx context.Context, opts ...Option) error {
	rt, err := newRuntime(opts)
	if err != nil {
		return err
	}
	svc := adrservice.NewService(rt.v, nil, rt.logger, rt.cfg.Map.Categories)
	if _, err := svc.Refresh(ctx); err != nil {
		return fmt.Errorf("initial validation: %w", err)
	}
	rt.logger.Info("MCP server starting", slog.String("root", rt.store.Root()))
	return mcpserver.New(svc, rt.app.version).ServeStdio()
}

// Serve starts the HTTP API with live report push and a corpus watcher.
func Serve(ctx context.Context, opts ...Option) error {
	rt, err := newRuntime(opts)
	if err != nil {
		return err
	}
	cfg, logger := rt.cfg, rt.logger

	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init index: %w", err)
	}
	defer db.Close()

	svc := adrservice.NewService(rt.v, db, logger, cfg.Map.Categories)

	broker := sse.NewBroker(15 * time.Second)
	defer broker.Close()
	publish := func(rep *report.Report) {
		broker.PublishReport(rep.Summary())
	}

	rep, err := svc.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("initial validation: %w", err)
	}
	publish(rep)

	apiRouter := api.NewRouter(svc, api.RouterOptions{
		AuthEnabled: cfg.Auth.AuthEnabled(),
		Token:       cfg.Auth.Token,
		Events:      broker,
		OnReport:    publish,
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !svc.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"starting"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gCtx := errgroup.WithContext(ctx)

	// Re-validate on corpus changes and push the new report.
	g.Go(func() error {
		return index.Watch(gCtx, rt.store.Root(), logger, func(paths []string) {
			broker.PublishCorpusChange(paths)
			rep, err := svc.Refresh(gCtx)
			if err != nil {
				logger.Warn("revalidation failed", slog.String("error", err.Error()))
				return
			}
			publish(rep)
		})
	})

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
