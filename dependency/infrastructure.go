package dependency

import (
	"fmt"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"

	"github.com/cheerioo/api/infrastructure/cache"
	"github.com/cheerioo/api/infrastructure/jobs"
	"github.com/cheerioo/api/infrastructure/metrics"
	"github.com/cheerioo/api/infrastructure/metrics/exporters"
	"github.com/cheerioo/api/infrastructure/persistence/migration"
	"github.com/cheerioo/api/infrastructure/realtime"
	"github.com/cheerioo/api/infrastructure/storage"
)

func (c *Container) initInfrastructure() error {
	migration.Up1()

	if c.Config.Sentry.Dsn != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:            c.Config.Sentry.Dsn,
			Debug:          c.Config.Sentry.Debug,
			SendDefaultPII: c.Config.Sentry.SendDefaultPII,
		})
		if err != nil {
			c.Logger.Warn("failed to initialize Sentry, continuing without it", zap.Error(err))
		}
	}

	tracerProvider, err := exporters.InitJaegerExporter(c.Config)
	if err != nil {
		c.Logger.Error("failed to initialize Jaeger exporter", zap.Error(err))
		c.Logger.Warn("Using noop tracer provider as fallback")
	} else {
		c.TracerProvider = tracerProvider
		c.Logger.Info("Jaeger exporter initialized successfully",
			zap.String("endpoint", c.Config.Jaeger.Endpoint),
			zap.String("service", c.Config.Jaeger.ServiceName),
		)
	}

	meter := exporters.Prometheus(c.Config.Jaeger.ServiceName, c.Config.Jaeger.ServiceVersion)
	if meter == nil {
		return fmt.Errorf("failed to initialize Prometheus exporter")
	}

	c.MetricsManager = metrics.NewMetricsManager(meter, c.Logger)

	c.MetricsManager.NewGauge("app_go_routines", "Number of goroutines")
	c.MetricsManager.NewGauge("app_sys_memory_alloc", "Bytes allocated and in use")
	c.MetricsManager.NewGauge("app_sys_total_alloc", "Total bytes allocated")
	c.MetricsManager.NewGauge("app_go_numGC", "Number of completed GC cycles")
	c.MetricsManager.NewGauge("app_go_sys", "Total bytes of memory obtained from OS")

	c.MetricsManager.NewCounter(metrics.HTTPRequestsTotal, "Total number of HTTP requests")
	c.MetricsManager.NewHistogram(metrics.HTTPRequestDuration, "HTTP request duration in seconds",
		0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0)
	c.MetricsManager.NewUpDownCounter(metrics.ActiveWSConnections, "Number of active WebSocket connections")
	c.MetricsManager.NewCounter(metrics.PositionFixesTotal, "Total number of position fixes ingested")
	c.MetricsManager.NewCounter(metrics.RealtimeEventsForwarded, "Total number of change events forwarded to clients")

	c.Logger.Info("Metrics initialized successfully")

	driver, err := storage.NewDriver(c.Config.Storage)
	if err != nil {
		return fmt.Errorf("error initializing storage driver: %w", err)
	}
	c.Storage = driver

	c.RealtimePub = realtime.NewPublisher(cache.GetRedis(), c.Logger)
	c.RealtimeRegistry = realtime.NewRegistry(cache.GetRedis(), c.Logger)
	c.AnonymousIDCache = cache.NewDistributedCache(cache.GetRedis(), "anon_valid")

	return nil
}

func (c *Container) initBackgroundJobs() {
	c.PresenceSweepJob = jobs.NewPresenceSweepJob(
		c.PresenceRepo, c.Logger,
		c.Config.Presence.SweepInterval, c.Config.Presence.SweepAfter,
	)
	c.MessageRetentionJob = jobs.NewMessageRetentionJob(
		c.MessageUC, c.EventUC, c.Logger,
		c.Config.Retention.PruneInterval, c.Config.Retention.MessageAge,
	)

	go c.PresenceSweepJob.Start(c.ctx)
	go c.MessageRetentionJob.Start(c.ctx)

	c.Logger.Info("Background jobs initialized and started successfully")
}
