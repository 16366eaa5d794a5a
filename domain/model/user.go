package model

import "time"

// Permission levels for profiles. Supporters follow participants; participants
// emit activity of their own.
const (
	PermissionSupporter   = "supporter"
	PermissionParticipant = "participant"
	PermissionAdmin       = "admin"
)

type User struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid"`
	Username    string    `json:"username"`
	IsAnonymous bool      `json:"isAnonymous"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Profile is the persisted profile for a user. It is created lazily on first
// read with supporter permissions.
type Profile struct {
	UserID      string    `json:"userId" gorm:"primaryKey;type:uuid"`
	DisplayName string    `json:"displayName"`
	AvatarURL   string    `json:"avatarUrl,omitempty"`
	Permissions string    `json:"permissions"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// AnonymousProfile backs non-authenticated participants. The id is generated
// client-side and must exist here before any write attributed to it is
// accepted.
type AnonymousProfile struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid"`
	DisplayName string    `json:"displayName"`
	CreatedAt   time.Time `json:"createdAt"`
	LastSeenAt  time.Time `json:"lastSeenAt"`
}
