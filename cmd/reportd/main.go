package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"report-writer/internal/common/pagination"
	reportcfg "report-writer/internal/config"
	domain "report-writer/internal/domain/report"
	"report-writer/internal/infra/adapter/persistence/sqlite"
	"report-writer/internal/infra/db"
	"report-writer/internal/infra/worker"
	"report-writer/internal/observability/logging"
	"report-writer/internal/observability/tracing"
	envconfig "report-writer/internal/pkg/config"
	"report-writer/internal/resilience/circuitbreaker"
	pkgconfig "report-writer/pkg/config"
	"report-writer/pkg/security/csp"

	hhttp "report-writer/internal/handler/http"
	"report-writer/internal/handler/http/middleware"
	hreport "report-writer/internal/handler/http/report"
	"report-writer/internal/handler/http/requestid"

	repUC "report-writer/internal/usecase/report"
)

func main() {
	logger := initLogger()
	validateAuthSecret(logger)

	defs := loadCatalog(logger)
	database := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	breaker := circuitbreaker.NewDBCircuitBreaker(database)
	services, targets := buildServices(breaker, defs)
	reports := hreport.NewCatalog(services...)

	version := getVersion()
	components := setupServer(logger, database, reports, version)
	refresher := newRefresher(logger, targets)

	runServers(logger, components, refresher, version)
}

// initLogger initializes the structured JSON logger and installs it as the
// process default so package-level slog calls share the same handler.
func initLogger() *slog.Logger {
	logger := logging.NewLogger()
	slog.SetDefault(logger)
	return logger
}

// validateAuthSecret checks AUTH_JWT_SECRET when it is set. Authentication is
// optional, but a configured secret must be strong enough to sign tokens
// with: refusing to boot beats serving tokens an attacker can forge.
func validateAuthSecret(logger *slog.Logger) {
	secret := os.Getenv("AUTH_JWT_SECRET")
	if secret == "" {
		logger.Info("AUTH_JWT_SECRET not set, reports are served without authentication")
		return
	}

	// Minimum 256 bits for HS256
	if len(secret) < 32 {
		logger.Error("AUTH_JWT_SECRET must be at least 32 characters (256 bits)")
		os.Exit(1)
	}

	// A long secret of one repeated character is still trivially guessable
	allSame := true
	for i := 1; i < len(secret); i++ {
		if secret[i] != secret[0] {
			allSame = false
			break
		}
	}
	if allSame {
		logger.Error("AUTH_JWT_SECRET must not be a single repeated character")
		os.Exit(1)
	}

	logger.Info("bearer authentication enabled")
}

// loadCatalog loads and validates the report catalog. Definitions that omit
// page or window sizes inherit the environment defaults.
func loadCatalog(logger *slog.Logger) []domain.Definition {
	path := envconfig.LoadEnvString("REPORTS_CONFIG", "reports.yaml")
	pageCfg := pagination.LoadFromEnv()

	defs, err := reportcfg.LoadCatalog(path, reportcfg.CatalogDefaults{
		PageSize:   pageCfg.DefaultPageSize,
		WindowSize: pageCfg.DefaultWindowSize,
	})
	if err != nil {
		logger.Error("failed to load report catalog",
			slog.String("path", path),
			slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("report catalog loaded",
		slog.String("path", path),
		slog.Int("reports", len(defs)))
	return defs
}

// initDatabase opens the database connection and prepares the demo schema.
func initDatabase(logger *slog.Logger) *sql.DB {
	database := db.Open()
	if err := db.MigrateUp(database); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}
	return database
}

// buildServices constructs one repository and usecase service per configured
// report, all sharing the circuit-broken database handle, and collects the
// refresher targets alongside.
func buildServices(q sqlite.Querier, defs []domain.Definition) ([]*repUC.Service, []worker.Target) {
	services := make([]*repUC.Service, 0, len(defs))
	targets := make([]worker.Target, 0, len(defs))

	for _, def := range defs {
		repo := sqlite.NewReportRepo(q, def)
		services = append(services, &repUC.Service{Def: def, Repo: repo})
		targets = append(targets, worker.Target{Report: def.Name, Counter: repo})
	}
	return services, targets
}

// getVersion returns the application version from environment or default.
func getVersion() string {
	return pkgconfig.GetEnvString("VERSION", "dev")
}

// ServerComponents holds the wired handlers plus what runServers needs for
// background cleanup.
type ServerComponents struct {
	PublicHandler http.Handler
	OpsHandler    http.Handler
	Limiter       *middleware.RateLimiter
}

// setupServer wires the public report mux with its middleware chain and the
// operational mux with probes and metrics.
func setupServer(logger *slog.Logger, database *sql.DB, reports *hreport.Catalog, version string) *ServerComponents {
	rateLimitConfig, err := pkgconfig.LoadRateLimitConfig()
	if err != nil {
		logger.Error("failed to load rate limit configuration", slog.Any("error", err))
		os.Exit(1)
	}

	proxyConfig, err := middleware.LoadTrustedProxyConfig()
	if err != nil {
		logger.Error("failed to load trusted proxy configuration", slog.Any("error", err))
		os.Exit(1)
	}

	var ipExtractor middleware.IPExtractor
	if proxyConfig.Enabled {
		ipExtractor = middleware.NewTrustedProxyExtractor(*proxyConfig)
		logger.Info("rate limiting: trusted proxy mode enabled",
			slog.Int("trusted_proxies_count", len(proxyConfig.AllowedCIDRs)))
	} else {
		ipExtractor = &middleware.RemoteAddrExtractor{}
		logger.Info("rate limiting: using RemoteAddr (proxy headers ignored)")
	}

	var limiter *middleware.RateLimiter
	if rateLimitConfig.Enabled {
		limiter = middleware.NewRateLimiter(rateLimitConfig.Limit, rateLimitConfig.Window, ipExtractor)
		logger.Info("rate limiting initialized",
			slog.Int("limit", rateLimitConfig.Limit),
			slog.Duration("window", rateLimitConfig.Window))
	} else {
		logger.Warn("rate limiting is DISABLED - not recommended for production")
	}

	cspConfig, err := pkgconfig.LoadCSPConfig()
	if err != nil {
		logger.Error("failed to load CSP configuration", slog.Any("error", err))
		os.Exit(1)
	}

	publicMux := http.NewServeMux()
	hreport.Register(publicMux, reports, logger)

	opsMux := http.NewServeMux()
	opsMux.Handle("/healthz", &hhttp.HealthHandler{
		DB:            database,
		Version:       version,
		ReportCount:   reports.Len(),
		CSPEnabled:    cspConfig.Enabled,
		CSPReportOnly: cspConfig.ReportOnly,
	})
	opsMux.Handle("/readyz", &hhttp.ReadyHandler{DB: database})
	opsMux.Handle("/livez", &hhttp.LiveHandler{})
	opsMux.Handle("/metrics", hhttp.MetricsHandler())

	return &ServerComponents{
		PublicHandler: applyMiddleware(logger, publicMux, limiter, cspConfig),
		OpsHandler:    opsMux,
		Limiter:       limiter,
	}
}

// applyMiddleware wraps the public handler with the middleware chain.
// Order (outermost first): Request ID → Tracing → IP Rate Limit → Recovery →
// Logging → Body Limit → CSP → Metrics.
func applyMiddleware(logger *slog.Logger, handler http.Handler, limiter *middleware.RateLimiter, cspConfig *pkgconfig.CSPConfig) http.Handler {
	var cspMiddleware func(http.Handler) http.Handler
	if cspConfig.Enabled {
		cspMW := middleware.NewCSPMiddleware(middleware.CSPMiddlewareConfig{
			Enabled:       true,
			DefaultPolicy: csp.StrictPolicy(),
			PathPolicies: map[string]*csp.CSPBuilder{
				"/reports": csp.ReportPagePolicy(),
			},
			ReportOnly: cspConfig.ReportOnly,
		})
		cspMiddleware = cspMW.Middleware()
		logger.Info("CSP enabled", slog.Bool("report_only", cspConfig.ReportOnly))
	} else {
		cspMiddleware = func(next http.Handler) http.Handler {
			return next
		}
		logger.Warn("CSP is disabled")
	}

	// Apply in reverse order (innermost to outermost)
	chain := handler
	chain = hhttp.MetricsMiddleware(chain)
	chain = cspMiddleware(chain)
	chain = hhttp.LimitRequestBody(1 << 20)(chain) // 1MB limit
	chain = hhttp.Logging(logger)(chain)
	chain = hhttp.Recover(logger)(chain)
	if limiter != nil {
		chain = limiter.Middleware(chain)
	}
	chain = tracing.Middleware(chain)
	chain = requestid.Middleware(chain)

	return chain
}

// newRefresher builds the background row count refresher for the configured
// reports. Its configuration load is fail-open; a bad schedule degrades to
// the default rather than blocking startup.
func newRefresher(logger *slog.Logger, targets []worker.Target) *worker.Refresher {
	metrics := worker.NewRefresherMetrics()
	cfg, err := worker.LoadConfigFromEnv(logger, metrics)
	if err != nil {
		logger.Error("failed to load refresher configuration", slog.Any("error", err))
		os.Exit(1)
	}
	return worker.NewRefresher(cfg, targets, logger, metrics)
}

// runServers starts the public and operational HTTP servers plus the
// background refresher, and shuts everything down on SIGINT/SIGTERM.
func runServers(logger *slog.Logger, components *ServerComponents, refresher *worker.Refresher, version string) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Expired limiter entries are swept in the background for as long as the
	// process runs.
	if components.Limiter != nil {
		cleanupCfg := hhttp.LoadCleanupConfigFromEnv()
		go hhttp.StartRateLimitCleanup(ctx, components.Limiter, cleanupCfg.Interval)
	}

	if err := refresher.Start(ctx); err != nil {
		logger.Error("failed to start row count refresher", slog.Any("error", err))
		os.Exit(1)
	}
	defer refresher.Stop()

	publicAddr := ":" + envconfig.LoadEnvString("PORT", "8080")
	opsAddr := ":" + envconfig.LoadEnvString("METRICS_PORT", "9090")

	publicSrv := &http.Server{
		Addr:              publicAddr,
		Handler:           components.PublicHandler,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attacks
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}
	opsSrv := &http.Server{
		Addr:              opsAddr,
		Handler:           components.OpsHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("report server starting",
			slog.String("addr", publicAddr),
			slog.String("version", version))
		if err := publicSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("report server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		logger.Info("ops server starting", slog.String("addr", opsAddr))
		if err := opsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("ops server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down servers...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := publicSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error("report server shutdown failed", slog.Any("error", err))
		}
		if err := opsSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error("ops server shutdown failed", slog.Any("error", err))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("servers stopped")
}
