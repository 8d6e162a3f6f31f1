// cmd/advisor-api/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"attrition-advisor/internal/advisor"
	"attrition-advisor/internal/api"
	"attrition-advisor/internal/common/config"
	"attrition-advisor/internal/common/database"
	"attrition-advisor/internal/common/logger"
	"attrition-advisor/internal/common/observability"
	"attrition-advisor/internal/engagement"
	"attrition-advisor/internal/notify"
	"attrition-advisor/internal/report"
	"attrition-advisor/internal/roster"
	"attrition-advisor/internal/schema"
	"attrition-advisor/internal/session"
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

	zapLog.Info("starting advisor API",
		zap.String("version", cfg.App.Version),
		zap.String("address", cfg.Server.Address),
	)

	obs := observability.New("advisor-api")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Model artifacts ---
	featureSchema, err := schema.Load(cfg.Model.ArtifactPath, cfg.Model.FeaturesPath)
	if err != nil {
		zapLog.Fatal("schema load failed", zap.Error(err))
	}
	zapLog.Info("model schema loaded",
		zap.String("modelVersion", featureSchema.Version),
		zap.Int("columns", featureSchema.ColumnCount()),
	)

	emp, err := roster.Load(cfg.Roster.Path, featureSchema)
	if err != nil {
		zapLog.Fatal("roster load failed", zap.Error(err))
	}
	zapLog.Info("roster loaded", zap.Int("employees", emp.Len()))

	// --- Redis (sessions) with retry ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	zapLog.Info("Redis connected")

	sessionTTL := time.Duration(cfg.Database.Redis.SessionTTL) * time.Minute
	sessions := session.NewStore(rdb.Client, sessionTTL, log)

	// --- PostgreSQL (reports), optional ---
	var reports api.Reports
	if cfg.Database.Postgres.Enabled {
		var pg *database.PostgresClient
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()

		store := report.NewStore(pg.DB, log)
		if err := store.Init(ctx); err != nil {
			zapLog.Fatal("report store init failed", zap.Error(err))
		}
		reports = store
		zapLog.Info("PostgreSQL connected, report store ready")
	} else {
		zapLog.Info("PostgreSQL disabled, reports will not be persisted")
	}

	// --- SES alerts, optional ---
	var alerts api.Alerts
	if cfg.Notifications.Email.Enabled {
		mailer, err := notify.NewMailer(ctx, &cfg.Notifications, log)
		if err != nil {
			zapLog.Fatal("mailer init failed", zap.Error(err))
		}
		alerts = mailer
		zapLog.Info("SES mailer ready", zap.String("to", cfg.Notifications.Email.ToEmail))
	}

	// --- Engagement + advisor ---
	engine := engagement.NewEngine(engagement.NewClient(&cfg.GenAI), log)
	adv := advisor.New(featureSchema, cfg.Model.Threshold, engine, log)

	server := api.NewServer(cfg, adv, emp, sessions, reports, alerts, obs, log)

	httpServer := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: server.Router(),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	// Metrics and pprof on the ops port.
	go func() {
		opsMux := http.NewServeMux()
		opsMux.Handle("/metrics", promhttp.Handler())
		opsMux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			fmt.Fprintln(w, "OK")
		})
		opsMux.Handle("/debug/pprof/", http.DefaultServeMux)

		zapLog.Info("ops server listening", zap.String("address", cfg.Server.MetricsAddress))
		if err := http.ListenAndServe(cfg.Server.MetricsAddress, opsMux); err != nil {
			zapLog.Error("ops server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("shutdown signal received, draining requests...")

	shutdownCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Server.ShutdownTimeout)*time.Millisecond)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("http shutdown failed", zap.Error(err))
	}

	zapLog.Info("advisor API stopped")
}
