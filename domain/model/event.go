package model

import "time"

// Event is a tracked live happening (a race, a ride) that supporters join to
// follow participants. "Room" in older clients means the same thing.
type Event struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid"`
	Slug        string    `json:"slug" gorm:"uniqueIndex"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedBy   string    `json:"createdBy"`
	StartsAt    time.Time `json:"startsAt,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Members []EventMember `json:"members,omitempty" gorm:"foreignKey:EventID"`
}

type EventMember struct {
	EventID  string    `json:"eventId" gorm:"primaryKey;type:uuid"`
	UserID   string    `json:"userId" gorm:"primaryKey;type:uuid"`
	Username string    `json:"username"`
	JoinedAt time.Time `json:"joinedAt"`
}

func (e Event) IsMember(userID string) bool {
	for _, m := range e.Members {
		if m.UserID == userID {
			return true
		}
	}

	return false
}
