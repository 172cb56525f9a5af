// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"poi-workers/internal/common/camunda"
	"poi-workers/internal/common/config"
	"poi-workers/internal/common/database"
	"poi-workers/internal/common/logger"
	"poi-workers/internal/common/observability"

	cq "poi-workers/internal/workers/conversation/classify-query"
	fup "poi-workers/internal/workers/conversation/follow-up-policy"
	rc "poi-workers/internal/workers/conversation/resolve-context"
	fpd "poi-workers/internal/workers/data-access/fetch-poi-details"
	sp "poi-workers/internal/workers/data-access/search-pois"
	oh "poi-workers/internal/workers/poi/opening-hours"
	rt "poi-workers/internal/workers/poi/resolve-turn"
	sr "poi-workers/internal/workers/poi/score-relevance"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...", zap.String("version", cfg.App.Version))

	obs := observability.New(cfg.Observability.ServiceName)
	defer obs.Shutdown()

	tracing, err := observability.NewTracing(cfg.Observability.ServiceName, cfg.Observability.JaegerEndpoint)
	if err != nil {
		zapLog.Fatal("tracing init failed", zap.Error(err))
	}
	defer func() { _ = tracing.Shutdown(context.Background()) }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Zeebe ---
	zeebe, err := camunda.NewClient(ctx, &camunda.ClientConfig{
		GatewayAddress:         cfg.Camunda.BrokerAddress,
		UsePlaintextConnection: true,
	})
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	defer zeebe.Close()
	zapLog.Info("Zeebe client connected successfully")

	// --- PostgreSQL ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Elasticsearch ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Redis ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Shared resolver components ---
	scoringCfg := sr.LoadConfig()
	scoringCfg.Weights = sr.WeightsFromConfig(cfg.Resolver.Weights)
	scoringCfg.MaxDistanceKm = cfg.Resolver.MaxDistanceKm
	scoringCfg.Timeout = config.GetDuration(config.GetWorkerConfig(cfg, sr.TaskType).Timeout)

	classifierCfg := cq.ConfigFromApp(cfg)
	var analyzer cq.Analyzer
	if classifierCfg.SemanticEnabled {
		analyzer = cq.NewCachingAnalyzer(cq.NewHTTPAnalyzer(classifierCfg, log), redis.Client, classifierCfg.CacheTTL, log)
	}

	searchCfg := sp.LoadConfig()
	searchCfg.Index = cfg.Database.Elasticsearch.POIIndex
	searchCfg.Timeout = config.GetDuration(config.GetWorkerConfig(cfg, sp.TaskType).Timeout)

	hydrateCfg := fpd.LoadConfig()
	hydrateCfg.Timeout = config.GetDuration(config.GetWorkerConfig(cfg, fpd.TaskType).Timeout)

	hoursCfg := oh.LoadConfig()
	hoursCfg.Cap = cfg.Resolver.OpeningHoursCap

	resolveCfg := rc.LoadConfig()
	resolveCfg.Scoring = scoringCfg

	classifyHandler := cq.NewHandler(classifierCfg, analyzer, log)
	searchHandler := sp.NewHandler(searchCfg, esClient.Client, log)
	hydrateHandler := fpd.NewHandler(hydrateCfg, pg.DB, log)

	turnHandler := rt.NewHandler(rt.ConfigFromApp(cfg), rt.Dependencies{
		Classifier:    classifyHandler.Classifier(),
		Scorer:        sr.NewScorerFromConfig(scoringCfg),
		Searcher:      searchHandler,
		Hydrator:      hydrateHandler,
		Tracer:        tracing.Tracer(),
		Observability: obs,
	}, log)

	// --- Workers ---
	handlers := map[string]camunda.JobHandler{
		cq.TaskType:  classifyHandler,
		fup.TaskType: fup.NewHandler(fup.LoadConfig(), log),
		rc.TaskType:  rc.NewHandler(resolveCfg, log),
		sr.TaskType:  sr.NewHandler(scoringCfg, log),
		oh.TaskType:  oh.NewHandler(hoursCfg, log),
		sp.TaskType:  searchHandler,
		fpd.TaskType: hydrateHandler,
		rt.TaskType:  turnHandler,
	}

	var workers []worker.JobWorker
	for taskType, handler := range handlers {
		if w := camunda.StartWorker(zeebe.GetClient(), taskType, config.GetWorkerConfig(cfg, taskType), handler, log); w != nil {
			workers = append(workers, w)
		}
	}
	zapLog.Info("workers registered", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy", "")
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		checkCtx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		for name, check := range map[string]func(context.Context) error{
			"zeebe":         zeebe.HealthCheck,
			"postgres":      pg.Ping,
			"elasticsearch": esClient.Ping,
			"redis":         redis.Ping,
		} {
			if err := check(checkCtx); err != nil {
				writeStatus(w, http.StatusServiceUnavailable, "not ready", fmt.Sprintf("%s: %v", name, err))
				return
			}
		}
		writeStatus(w, http.StatusOK, "ready", "")
	})
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: cfg.App.HTTPAddress, Handler: mux}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.App.HTTPAddress))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	zapLog.Info("Shutdown signal received, stopping workers...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Close()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping HTTP server", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func writeStatus(w http.ResponseWriter, code int, status, reason string) {
	body := map[string]string{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	}
	if reason != "" {
		body["reason"] = reason
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
