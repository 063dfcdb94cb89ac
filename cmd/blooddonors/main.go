package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/erazemk/blooddonors/internal/api"
	"github.com/erazemk/blooddonors/internal/app"
	"github.com/erazemk/blooddonors/internal/auth"
	"github.com/erazemk/blooddonors/internal/config"
	"github.com/erazemk/blooddonors/internal/db"
	"github.com/erazemk/blooddonors/internal/donor"
	"github.com/erazemk/blooddonors/internal/metrics"
	"github.com/erazemk/blooddonors/internal/photo"
	"github.com/erazemk/blooddonors/internal/store"
	"github.com/erazemk/blooddonors/internal/supabase"
	"github.com/erazemk/blooddonors/internal/web"
)

const purgeInterval = time.Hour

// levelRouter sends errors to stderr and everything else to stdout.
type levelRouter struct {
	out  slog.Handler
	errs slog.Handler
}

func (lr *levelRouter) Enabled(ctx context.Context, level slog.Level) bool {
	return lr.out.Enabled(ctx, level)
}

func (lr *levelRouter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return lr.errs.Handle(ctx, r)
	}
	return lr.out.Handle(ctx, r)
}

func (lr *levelRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelRouter{out: lr.out.WithAttrs(attrs), errs: lr.errs.WithAttrs(attrs)}
}

func (lr *levelRouter) WithGroup(name string) slog.Handler {
	return &levelRouter{out: lr.out.WithGroup(name), errs: lr.errs.WithGroup(name)}
}

// setupLogger installs the default logger in the configured format. When
// cfg.Log is set every record is also appended to that file. The returned
// cleanup closes the file and is nil when none was opened.
func setupLogger(cfg *config.Config) (func(), error) {
	var cleanup func()
	out, errs := io.Writer(os.Stdout), io.Writer(os.Stderr)

	if cfg.Log != "" {
		f, err := os.OpenFile(cfg.Log, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		cleanup = func() { f.Close() }
		out, errs = io.MultiWriter(out, f), io.MultiWriter(errs, f)
	}

	newHandler := func(w io.Writer) slog.Handler {
		opts := &slog.HandlerOptions{Level: slog.LevelInfo}
		if cfg.LogFormat == config.LogJSON {
			return slog.NewJSONHandler(w, opts)
		}
		return slog.NewTextHandler(w, opts)
	}

	slog.SetDefault(slog.New(&levelRouter{out: newHandler(out), errs: newHandler(errs)}))
	return cleanup, nil
}

func main() {
	cfg, err := config.Parse(os.Args[1:], os.Getenv, os.Stdout)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	closeLog, err := setupLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	err = run(cfg)
	if err != nil {
		slog.Error("server error", "error", err)
	}
	if closeLog != nil {
		closeLog()
	}
	if err != nil {
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(cfg.DB)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}
	slog.Info("database ready", "path", cfg.DB)

	// Load JWT secret from database (auto-generated on first run).
	secret, err := store.GetJWTSecret(ctx, database)
	if err != nil {
		return fmt.Errorf("loading JWT secret: %w", err)
	}

	accounts := &auth.Accounts{DB: database, Secret: secret}
	password, err := accounts.EnsureSuperAdmin(ctx, cfg.AdminEmail)
	if err != nil {
		return fmt.Errorf("creating super admin: %w", err)
	}
	if password != "" {
		printInitResult(cfg.AdminEmail, password)
	}

	donors, photos := backend(cfg, database)
	m := metrics.New(prometheus.DefaultRegisterer)

	services := &app.Services{
		Accounts:         accounts,
		Donors:           donors,
		Gateway:          donor.NewGateway(donors, donor.WithObserver(m)),
		Photos:           &photo.Uploader{Storage: photos},
		Metrics:          m,
		Policy:           donor.Policy{IntervalDays: cfg.IntervalDays},
		PageSize:         cfg.PageSize,
		FallbackPhotoURL: cfg.FallbackPhotoURL,
	}

	webRouter, err := web.NewRouter(services)
	if err != nil {
		return fmt.Errorf("setting up web router: %w", err)
	}

	// API routes take priority, web routes handle the rest.
	mux := http.NewServeMux()
	mux.Handle("/api/", api.NewRouter(services))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("/", webRouter)

	var handler http.Handler = mux
	handler = api.LoggingMiddleware(m)(handler)
	handler = middleware.Recoverer(handler)
	handler = middleware.RealIP(handler)
	handler = middleware.RequestID(handler)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("server started", "addr", cfg.Addr, "backend", cfg.Backend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
		return nil
	})

	g.Go(func() error {
		purgeTokens(gctx, database)
		return nil
	})

	err = g.Wait()
	slog.Info("server stopped, closing database")
	return err
}

// backend selects where donors and photos live.
func backend(cfg *config.Config, database *sql.DB) (donor.Repository, photo.Storage) {
	if cfg.Backend == config.BackendSupabase {
		client := supabase.New(cfg.Supabase.URL, cfg.Supabase.Key, supabase.WithBucket(cfg.Supabase.Bucket))
		return client, client
	}
	return &store.DonorStore{DB: database}, &store.PhotoStore{DB: database, BaseURL: "/photos"}
}

// purgeTokens drops expired revocations until ctx is done.
func purgeTokens(ctx context.Context, database *sql.DB) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := store.PurgeRevokedTokens(ctx, database, now)
			if err != nil {
				slog.Error("failed to purge revoked tokens", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("purged revoked tokens", "count", n)
			}
		}
	}
}

// printInitResult prints the generated super admin credentials to stdout.
func printInitResult(email, password string) {
	fmt.Println("Super admin account created:")
	fmt.Printf("  Email:    %s\n", email)
	fmt.Printf("  Password: %s\n", password)
	fmt.Println()
	fmt.Println("Save this password, it cannot be recovered.")
	fmt.Println("It can be changed after logging in.")
	fmt.Println()
}
