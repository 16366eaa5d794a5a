package model

import "time"

// Message is one chat message in an event. Lat/Long are optional; a message
// that carries them and whose content is a single emoji grapheme becomes an
// EmojiMarker on the map.
type Message struct {
	ID        string     `json:"id" gorm:"primaryKey;type:uuid"`
	EventID   string     `json:"eventId" gorm:"index:idx_messages_event_created;type:uuid"`
	UserID    string     `json:"userId" gorm:"type:uuid"`
	Username  string     `json:"username"`
	Content   string     `json:"content"`
	Lat       *float64   `json:"lat,omitempty"`
	Long      *float64   `json:"long,omitempty"`
	Edited    bool       `json:"edited"`
	DeletedAt *time.Time `json:"deletedAt,omitempty" gorm:"index"`
	CreatedAt time.Time  `json:"createdAt" gorm:"index:idx_messages_event_created"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func (m Message) HasLocation() bool {
	return m.Lat != nil && m.Long != nil
}
