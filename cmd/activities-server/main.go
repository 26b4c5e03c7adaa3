// cmd/activities-server/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"activities-api/internal/common/aws"
	"activities-api/internal/common/config"
	"activities-api/internal/common/database"
	"activities-api/internal/common/logger"
	"activities-api/internal/common/observability"
	"activities-api/internal/events"
	"activities-api/internal/handlers/activities/signup"
	"activities-api/internal/server"
	"activities-api/internal/store"
	"activities-api/pkg/registry"
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

// closer is anything connectSinks opened that must be released on shutdown.
type closer func() error

// connectSinks connects every enabled event sink, retrying each with backoff.
func connectSinks(ctx context.Context, cfg *config.Config, zapLog *zap.Logger) ([]events.Sink, []closer, error) {
	var (
		sinks   []events.Sink
		closers []closer
	)

	if cfg.Events.Redis.Enabled {
		var rc *database.RedisClient
		err := retryWithBackoff(func() error {
			var err error
			rc, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return rc.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			return sinks, closers, err
		}
		closers = append(closers, rc.Close)
		sinks = append(sinks, events.NewRedisSink(rc.Client, cfg.Events.Redis.Channel))
		zapLog.Info("Redis event sink enabled", zap.String("channel", cfg.Events.Redis.Channel))
	}

	if cfg.Events.Postgres.Enabled {
		var pg *database.PostgresClient
		err := retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			if err := pg.Ping(ctx); err != nil {
				return err
			}
			return pg.EnsureAuditLog(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			return sinks, closers, err
		}
		closers = append(closers, pg.Close)
		sinks = append(sinks, events.NewAuditSink(pg.DB))
		zapLog.Info("PostgreSQL audit sink enabled")
	}

	if cfg.Events.Elasticsearch.Enabled {
		var es *database.ElasticsearchClient
		err := retryWithBackoff(func() error {
			var err error
			es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return es.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			return sinks, closers, err
		}
		sinks = append(sinks, events.NewElasticsearchSink(es.Client, cfg.Events.Elasticsearch.Index))
		zapLog.Info("Elasticsearch event sink enabled", zap.String("index", cfg.Events.Elasticsearch.Index))
	}

	if cfg.Events.SNS.Enabled {
		var snsClient *aws.SNSClient
		err := retryWithBackoff(func() error {
			var err error
			snsClient, err = aws.NewSNSClient(ctx, cfg.AWS.Region)
			if err != nil {
				return err
			}
			return snsClient.Ping(ctx, cfg.Events.SNS.TopicARN)
		}, 5, 2*time.Second, zapLog, "SNS topic check")
		if err != nil {
			return sinks, closers, err
		}
		sinks = append(sinks, events.NewSNSSink(snsClient, cfg.Events.SNS.TopicARN))
		zapLog.Info("SNS event sink enabled", zap.String("topic", cfg.Events.SNS.TopicARN))
	}

	return sinks, closers, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "console")
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	var outputs []string
	if cfg.Logging.Output != "" {
		outputs = append(outputs, cfg.Logging.Output)
	}
	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, outputs...)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{
		"service": cfg.App.Name,
		"env":     cfg.App.Environment,
	})

	zapLog.Info("Starting activities server...", zap.String("version", cfg.App.Version))

	obsOpts := []observability.Option{}
	if cfg.Tracing.Enabled {
		obsOpts = append(obsOpts, observability.WithJaeger(cfg.Tracing.JaegerEndpoint))
	}
	obs := observability.New(cfg.App.Name, zapLog, obsOpts...)

	// --- Seed registry ---
	seed, err := registry.LoadOrDefault(cfg.Registry.SeedPath)
	if err != nil {
		zapLog.Fatal("seed catalogue load failed", zap.Error(err), zap.String("path", cfg.Registry.SeedPath))
	}
	activities := store.New(seed.ToMap())
	zapLog.Info("Activity registry loaded",
		zap.Int("activities", activities.Len()),
		zap.String("catalogueVersion", seed.Version),
	)

	// --- Event sinks ---
	ctx := context.Background()
	sinks, closers, err := connectSinks(ctx, cfg, zapLog)
	defer func() {
		for _, c := range closers {
			if err := c(); err != nil {
				zapLog.Warn("Error closing sink client", zap.Error(err))
			}
		}
	}()
	if err != nil {
		zapLog.Fatal("event sink connection failed after retries", zap.Error(err))
	}

	opts := server.Options{
		Config:        cfg.Server,
		PublishConfig: signup.FromAppConfig(cfg),
		Registry:      activities,
		Observability: obs,
		Logger:        log,
	}
	if len(sinks) > 0 {
		publisher := events.NewMultiPublisher(log, sinks...)
		opts.Publisher = publisher
		opts.Health = publisher
	}
	zapLog.Info("Event sinks configured", zap.Int("count", len(sinks)))

	srv := server.New(opts)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		zapLog.Info("Shutdown signal received, stopping server...", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			zapLog.Error("HTTP server failed", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Warn("Error shutting down observability", zap.Error(err))
	}

	zapLog.Info("Activities server stopped gracefully")
}
