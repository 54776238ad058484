// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"visa-eligibility-workers/internal/common/camunda"
	"visa-eligibility-workers/internal/common/config"
	"visa-eligibility-workers/internal/common/database"
	"visa-eligibility-workers/internal/common/logger"
	"visa-eligibility-workers/internal/common/observability"
	"visa-eligibility-workers/internal/common/validation"
	"visa-eligibility-workers/internal/eligibility"
	"visa-eligibility-workers/internal/eligibility/policy"
	"visa-eligibility-workers/internal/refdata"

	eve "visa-eligibility-workers/internal/workers/eligibility/evaluate-visa-eligibility"
	fvp "visa-eligibility-workers/internal/workers/eligibility/find-visa-pathways"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"error":       err.Error(),
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootstrap := logger.New("info", "console", "stderr")
		bootstrap.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{
		"service": cfg.App.Name,
		"version": cfg.App.Version,
	})

	log.Info("starting worker manager", map[string]interface{}{"environment": cfg.App.Environment})

	ctx := context.Background()

	obs := observability.New(cfg.Tracing.ServiceName)
	defer obs.Shutdown()

	shutdownTracing, err := observability.SetupTracing(ctx, cfg.Tracing)
	if err != nil {
		zapLog.Fatal("tracing setup failed", zap.Error(err))
	}

	// --- Zeebe ---
	zeebe, err := camunda.NewClientWithConfig(ctx, camunda.ConfigFrom(cfg.Camunda), log)
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	log.Info("Zeebe client connected", nil)

	// --- PostgreSQL ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, log, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	if err := pg.EnsureSchema(ctx); err != nil {
		zapLog.Fatal("reference_constants schema setup failed", zap.Error(err))
	}
	log.Info("PostgreSQL connected", nil)

	// --- Redis ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, log, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	log.Info("Redis connected", nil)

	// --- Eligibility engine and reference constants ---
	rules, catalog, err := policy.Embedded()
	if err != nil {
		zapLog.Fatal("embedded policy data is invalid", zap.Error(err))
	}
	engine, err := eligibility.New(
		eligibility.WithRules(rules),
		eligibility.WithConstants(catalog),
		eligibility.WithPolicyYear(cfg.Eligibility.PolicyYear),
	)
	if err != nil {
		zapLog.Fatal("eligibility engine setup failed", zap.Error(err))
	}

	store := refdata.NewStore(pg.GetDB(), redis.GetClient(), catalog, refdata.Options{
		CacheTTL:      cfg.Eligibility.CacheTTL(),
		AllowFallback: cfg.Eligibility.ConstantsFallback,
	}, log)
	if len(cfg.Eligibility.PreloadYears) > 0 {
		if err := store.Preload(ctx, cfg.Eligibility.PreloadYears); err != nil {
			log.Warn("reference constants preload incomplete", map[string]interface{}{"error": err.Error()})
		}
	}

	validator, err := validation.Embedded()
	if err != nil {
		zapLog.Fatal("job schemas failed to compile", zap.Error(err))
	}

	log.Info("eligibility engine ready", map[string]interface{}{
		"policyYear": engine.PolicyYear(),
		"schemes":    len(engine.SupportedSchemes()),
	})

	// --- Workers ---
	var workers []*camunda.CamundaWorker

	evalCfg := eve.LoadConfig()
	if wcfg := config.GetWorkerConfig(cfg, eve.TaskType); wcfg.Timeout > 0 {
		evalCfg.Timeout = config.GetDuration(wcfg.Timeout)
	}
	evaluateHandler := eve.NewHandler(evalCfg, engine, store, validator, log)
	if w := camunda.StartWorker(zeebe.GetClient(), eve.TaskType, config.GetWorkerConfig(cfg, eve.TaskType), evaluateHandler, obs, log); w != nil {
		workers = append(workers, w)
	}

	pathCfg := fvp.LoadConfig()
	if wcfg := config.GetWorkerConfig(cfg, fvp.TaskType); wcfg.Timeout > 0 {
		pathCfg.Timeout = config.GetDuration(wcfg.Timeout)
	}
	pathwaysHandler := fvp.NewHandler(pathCfg, engine, validator, log)
	if w := camunda.StartWorker(zeebe.GetClient(), fvp.TaskType, config.GetWorkerConfig(cfg, fvp.TaskType), pathwaysHandler, obs, log); w != nil {
		workers = append(workers, w)
	}
	log.Info("workers registered", map[string]interface{}{"count": len(workers)})

	// --- Health & Metrics Server ---
	server := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           newMux(zeebe, pg, redis),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("health/metrics server listening", map[string]interface{}{"address": cfg.Server.Address})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("health/metrics server failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, stopping workers...", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Stop()
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("error stopping health server", map[string]interface{}{"error": err.Error()})
	}
	if err := zeebe.Close(); err != nil {
		log.Error("error closing Zeebe client", map[string]interface{}{"error": err.Error()})
	}
	if err := redis.Close(); err != nil {
		log.Error("error closing Redis client", map[string]interface{}{"error": err.Error()})
	}
	if err := pg.Close(); err != nil {
		log.Error("error closing PostgreSQL pool", map[string]interface{}{"error": err.Error()})
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("error flushing traces", map[string]interface{}{"error": err.Error()})
	}

	log.Info("worker manager stopped gracefully", nil)
}

type pinger interface {
	Ping(ctx context.Context) error
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func newMux(zeebe *camunda.Client, pg *database.PostgresClient, redis *database.RedisClient) *http.ServeMux {
	deps := map[string]pinger{
		"zeebe":    pingFunc(zeebe.HealthCheck),
		"postgres": pg,
		"redis":    redis,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, map[string]interface{}{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		status, code := "ready", http.StatusOK
		checks := make(map[string]string, len(deps))
		for name, dep := range deps {
			if err := dep.Ping(ctx); err != nil {
				checks[name] = err.Error()
				status, code = "not ready", http.StatusServiceUnavailable
				continue
			}
			checks[name] = "ok"
		}
		writeStatus(w, code, map[string]interface{}{
			"status": status,
			"checks": checks,
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func writeStatus(w http.ResponseWriter, code int, body map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}
