package event

import (
	"time"

	"github.com/cheerioo/api/domain/model"
)

type CreateEventRequest struct {
	Name        string    `json:"name" binding:"required,max=120"`
	Description string    `json:"description" binding:"omitempty,max=2000"`
	StartsAt    time.Time `json:"starts_at" binding:"omitempty"`
}

type JoinEventRequest struct {
	Username string `json:"username" binding:"omitempty,max=50"`
}

type JoinEventResponse struct {
	Event         *model.Event `json:"event"`
	AlreadyMember bool         `json:"already_member"`
}

type MembersResponse struct {
	Members []model.EventMember `json:"members"`
	Count   int                 `json:"count"`
}
