package message

import "github.com/cheerioo/api/domain/model"

type SendMessageRequest struct {
	Content string   `json:"content" binding:"required,max=2000"`
	Lat     *float64 `json:"lat" binding:"omitempty,latitude"`
	Long    *float64 `json:"long" binding:"omitempty,longitude"`
}

type EditMessageRequest struct {
	Content string `json:"content" binding:"required,max=2000"`
}

type MessageListResponse struct {
	Messages []*model.Message `json:"messages"`
	Count    int              `json:"count"`
}

type MarkersResponse struct {
	Markers []*model.EmojiMarker `json:"markers"`
}
