package dependency

import (
	"context"
	"fmt"

	activityUseCase "github.com/cheerioo/api/application/usecases/activity"
	attachmentUseCase "github.com/cheerioo/api/application/usecases/attachment"
	eventUseCase "github.com/cheerioo/api/application/usecases/event"
	messageUseCase "github.com/cheerioo/api/application/usecases/message"
	presenceUseCase "github.com/cheerioo/api/application/usecases/presence"
	profileUseCase "github.com/cheerioo/api/application/usecases/profile"
	"github.com/cheerioo/api/domain/repository"
	"github.com/cheerioo/api/infrastructure/cache"
	"github.com/cheerioo/api/infrastructure/config"
	"github.com/cheerioo/api/infrastructure/jobs"
	"github.com/cheerioo/api/infrastructure/logger"
	"github.com/cheerioo/api/infrastructure/metrics"
	"github.com/cheerioo/api/infrastructure/persistence/database"
	"github.com/cheerioo/api/infrastructure/realtime"
	"github.com/cheerioo/api/infrastructure/storage"
	"github.com/cheerioo/api/infrastructure/websocket"
	activityCtrl "github.com/cheerioo/api/presentation/controllers/activity"
	attachmentCtrl "github.com/cheerioo/api/presentation/controllers/attachment"
	eventCtrl "github.com/cheerioo/api/presentation/controllers/event"
	messageCtrl "github.com/cheerioo/api/presentation/controllers/message"
	presenceCtrl "github.com/cheerioo/api/presentation/controllers/presence"
	profileCtrl "github.com/cheerioo/api/presentation/controllers/profile"
	wsCtrl "github.com/cheerioo/api/presentation/controllers/websocket"
	"go.opentelemetry.io/otel/sdk/trace"
)

type Container struct {
	Config *config.Config
	Logger *logger.Logger

	TracerProvider *trace.TracerProvider
	MetricsManager metrics.Manager

	Storage          storage.Driver
	RealtimePub      *realtime.Publisher
	RealtimeRegistry *realtime.Registry
	AnonymousIDCache *cache.DistributedCache

	EventRepo      repository.EventRepository
	ActivityRepo   repository.ActivityRepository
	MessageRepo    repository.MessageRepository
	PresenceRepo   repository.PresenceRepository
	ProfileRepo    repository.ProfileRepository
	AnonymousRepo  repository.AnonymousProfileRepository
	AttachmentRepo repository.AttachmentRepository

	WSCore *websocket.Core

	EventUC      *eventUseCase.EventUseCase
	ActivityUC   *activityUseCase.ActivityUseCase
	MessageUC    *messageUseCase.MessageUseCase
	PresenceUC   *presenceUseCase.PresenceUseCase
	ProfileUC    *profileUseCase.ProfileUseCase
	AttachmentUC *attachmentUseCase.AttachmentUseCase

	EventController      eventCtrl.EventController
	ActivityController   activityCtrl.ActivityController
	MessageController    messageCtrl.MessageController
	PresenceController   presenceCtrl.PresenceController
	ProfileController    profileCtrl.ProfileController
	AttachmentController attachmentCtrl.AttachmentController
	WebsocketController  wsCtrl.WebSocketController

	PresenceSweepJob    *jobs.PresenceSweepJob
	MessageRetentionJob *jobs.MessageRetentionJob

	ctx    context.Context
	cancel context.CancelFunc
}

func NewContainer() (*Container, error) {
	c := &Container{}

	c.Config = config.GetConfig()

	loggerInstance, err := newLogger(c.Config)
	if err != nil {
		return nil, fmt.Errorf("error initializing logger: %w", err)
	}
	c.Logger = loggerInstance

	c.Logger.Info("Initializing Cheerioo API dependencies")

	if err := cache.InitRedis(c.Config); err != nil {
		return nil, fmt.Errorf("error initializing cache: %w", err)
	}

	if err := database.InitDb(c.Config, c.Logger.Log); err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	if err := c.initInfrastructure(); err != nil {
		return nil, fmt.Errorf("error initializing infrastructure: %w", err)
	}

	c.initRepositories()

	c.initUseCases()

	c.initWebSocket()

	c.initControllers()

	c.initBackgroundJobs()

	c.Logger.Info("All dependencies initialized successfully")

	return c, nil
}

func newLogger(cfg *config.Config) (*logger.Logger, error) {
	if cfg.IsProduction() {
		return logger.NewProductionLogger(cfg.Logger.Level)
	}
	return logger.NewDevelopmentLogger()
}
