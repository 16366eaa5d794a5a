package dependency

import (
	"context"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	"github.com/cheerioo/api/infrastructure/cache"
	"github.com/cheerioo/api/infrastructure/metrics"
	"github.com/cheerioo/api/infrastructure/persistence/database"
	activityCtrl "github.com/cheerioo/api/presentation/controllers/activity"
	attachmentCtrl "github.com/cheerioo/api/presentation/controllers/attachment"
	eventCtrl "github.com/cheerioo/api/presentation/controllers/event"
	messageCtrl "github.com/cheerioo/api/presentation/controllers/message"
	presenceCtrl "github.com/cheerioo/api/presentation/controllers/presence"
	profileCtrl "github.com/cheerioo/api/presentation/controllers/profile"
	wsCtrl "github.com/cheerioo/api/presentation/controllers/websocket"
	"github.com/cheerioo/api/presentation/middlewares"
	"github.com/cheerioo/api/presentation/routes"
)

func (c *Container) initControllers() {
	c.EventController = eventCtrl.NewEventController(c.EventUC)
	c.ActivityController = activityCtrl.NewActivityController(c.ActivityUC)
	c.MessageController = messageCtrl.NewMessageController(c.MessageUC)
	c.PresenceController = presenceCtrl.NewPresenceController(c.PresenceUC)
	c.ProfileController = profileCtrl.NewProfileController(c.ProfileUC)
	c.AttachmentController = attachmentCtrl.NewAttachmentController(c.AttachmentUC)
	c.WebsocketController = wsCtrl.NewWebSocketController(c.EventUC, c.WSCore, c.Logger)

	c.Logger.Info("Controllers initialized successfully")
}

func (c *Container) SetupRouter() *gin.Engine {
	switch c.Config.Server.RunMode {
	case "release", "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	binding.Validator = new(middlewares.DefaultValidator)

	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(sentrygin.New(sentrygin.Options{
		Repanic:         true,
		WaitForDelivery: false,
		Timeout:         5 * time.Second,
	}))

	router.Use(middlewares.GinLogger(c.Logger))
	router.Use(middlewares.MetricsMiddleware(c.MetricsManager))
	router.Use(middlewares.CorsMiddleware(c.Config))

	router.GET("/health", c.healthCheckHandler)

	if c.Config.Storage.Driver == "local" {
		router.Static("/uploads", c.Config.Storage.LocalPath)
	}

	c.registerObservabilityRoutes(router)

	c.registerAPIRoutes(router)

	c.Logger.Info("Router configured successfully")

	return router
}

func (c *Container) registerAPIRoutes(router *gin.Engine) {
	redisClient := cache.GetRedis()
	strictLimiter := middlewares.RateLimiterMiddleware(redisClient, c.Logger, middlewares.StrictRateLimiterConfig())
	ingestLimiter := middlewares.RateLimiterMiddleware(redisClient, c.Logger, middlewares.IngestRateLimiterConfig())
	sendLimiter := middlewares.RateLimiterMiddleware(redisClient, c.Logger, middlewares.MessageSendingRateLimiterConfig())

	v1 := router.Group("/api/v1")
	{
		// Anonymous registration runs before identity resolution: it is how
		// an anonymous ID becomes known.
		routes.AnonymousRoutes(v1, c.ProfileController)

		// Identity first: the limiter keys on the resolved user.
		v1.Use(middlewares.IdentityMiddleware(c.ProfileUC, c.AnonymousIDCache, c.Logger))
		v1.Use(middlewares.RateLimiterMiddleware(redisClient, c.Logger, middlewares.DefaultRateLimiterConfig()))

		routes.EventRoutes(v1, c.EventController, strictLimiter)
		routes.ActivityRoutes(v1, c.ActivityController, ingestLimiter)
		routes.PresenceRoutes(v1, c.PresenceController, ingestLimiter)
		routes.MessageRoutes(v1, c.MessageController, sendLimiter)
		routes.AttachmentRoutes(v1, c.AttachmentController)
		routes.ProfileRoutes(v1, c.ProfileController)
		routes.WebsocketRoutes(v1, c.WebsocketController)
	}
}

func (c *Container) healthCheckHandler(ctx *gin.Context) {
	ctx.JSON(200, gin.H{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (c *Container) registerObservabilityRoutes(router *gin.Engine) {
	metricsGroup := router.Group("/observability")
	{
		metrics.GetHandler(metricsGroup, c.MetricsManager)
	}
}

func (c *Container) Shutdown() error {
	c.Logger.Info("Shutting down dependencies...")

	if c.PresenceSweepJob != nil {
		c.PresenceSweepJob.Stop()
	}
	if c.MessageRetentionJob != nil {
		c.MessageRetentionJob.Stop()
	}

	if c.WSCore != nil {
		c.WSCore.Shutdown()
	}

	if c.cancel != nil {
		c.cancel()
	}

	if c.TracerProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.TracerProvider.Shutdown(ctx); err != nil {
			c.Logger.Error("failed to shutdown tracer provider", zap.Error(err))
		}
	}

	if c.AnonymousIDCache != nil {
		c.AnonymousIDCache.Close()
	}

	cache.CloseRedis()

	if err := c.Logger.Log.Sync(); err != nil {
		c.Logger.Error("failed to sync logger", zap.Error(err))
	}

	c.Logger.Info("Dependencies shut down successfully")

	database.CloseDb()

	return nil
}
