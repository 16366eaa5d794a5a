package dependency

import (
	"go.opentelemetry.io/otel"

	"github.com/cheerioo/api/infrastructure/cache"
	"github.com/cheerioo/api/infrastructure/persistence/database"
	"github.com/cheerioo/api/infrastructure/persistence/repository"
)

func (c *Container) initRepositories() {
	db := database.GetDb()
	tracer := otel.Tracer("cheerioo-repository")

	c.EventRepo = repository.NewEventRepository(db, tracer)
	c.ActivityRepo = repository.NewActivityRepository(db, tracer)
	c.MessageRepo = repository.NewMessageRepository(db, tracer)
	c.ProfileRepo = repository.NewProfileRepository(db, tracer)
	c.AnonymousRepo = repository.NewAnonymousProfileRepository(db, tracer)
	c.AttachmentRepo = repository.NewAttachmentRepository(db, tracer)

	c.PresenceRepo = repository.NewPresenceRepository(cache.GetRedis(), tracer, c.Logger)

	c.Logger.Info("Repositories initialized successfully")
}
