package dependency

import (
	activityUseCase "github.com/cheerioo/api/application/usecases/activity"
	attachmentUseCase "github.com/cheerioo/api/application/usecases/attachment"
	eventUseCase "github.com/cheerioo/api/application/usecases/event"
	messageUseCase "github.com/cheerioo/api/application/usecases/message"
	presenceUseCase "github.com/cheerioo/api/application/usecases/presence"
	profileUseCase "github.com/cheerioo/api/application/usecases/profile"
)

func (c *Container) initUseCases() {
	c.EventUC = eventUseCase.NewEventUseCase(c.EventRepo, c.Logger)
	c.ActivityUC = activityUseCase.NewActivityUseCase(c.ActivityRepo, c.EventRepo, c.RealtimePub, c.MetricsManager, c.Logger, c.Config.Activity)
	c.MessageUC = messageUseCase.NewMessageUseCase(c.MessageRepo, c.EventRepo, c.RealtimePub, c.Logger)
	c.PresenceUC = presenceUseCase.NewPresenceUseCase(c.PresenceRepo, c.RealtimePub, c.Logger)
	c.ProfileUC = profileUseCase.NewProfileUseCase(c.ProfileRepo, c.AnonymousRepo, c.Logger)
	c.AttachmentUC = attachmentUseCase.NewAttachmentUseCase(c.AttachmentRepo, c.EventRepo, c.Storage, c.Logger)

	c.Logger.Info("Use cases initialized successfully")
}
