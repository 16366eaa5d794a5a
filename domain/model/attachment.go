package model

import "time"

type Attachment struct {
	ID           string    `json:"id" gorm:"primaryKey;type:uuid"`
	EventID      string    `json:"eventId" gorm:"index;type:uuid"`
	UploaderID   string    `json:"uploaderId" gorm:"type:uuid"`
	Filename     string    `json:"filename"`
	MimeType     string    `json:"mimeType"`
	Size         int64     `json:"size"`
	StoragePath  string    `json:"-"`
	ThumbnailKey string    `json:"-"`
	URL          string    `json:"url"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (a Attachment) IsImage() bool {
	switch a.MimeType {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
		return true
	}
	return false
}
