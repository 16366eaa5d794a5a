package model

import "time"

// TimedValue pairs an activity payload with the timestamp of the record it
// came from.
type TimedValue[T any] struct {
	Value      T         `json:"value"`
	RecordedAt time.Time `json:"recordedAt"`
}

// UserActivitySummary is the latest-value-per-type fold of one user's
// activity records. It is derived on every read and never persisted.
type UserActivitySummary struct {
	UserID       string                      `json:"userId"`
	UserName     string                      `json:"userName"`
	LastLocation *TimedValue[LocationData]   `json:"lastLocation,omitempty"`
	LastSpeed    *TimedValue[SpeedData]      `json:"lastSpeed,omitempty"`
	LastDistance *TimedValue[DistanceData]   `json:"lastDistance,omitempty"`
	LastMusic    *TimedValue[MusicData]      `json:"lastMusic,omitempty"`
}

type PathPoint struct {
	Lat       float64   `json:"lat"`
	Long      float64   `json:"lng"`
	Timestamp time.Time `json:"timestamp"`
}

// TrackingPath is the ordered polyline of one user's location fixes across an
// event, with a palette color assigned by stable order of first appearance.
type TrackingPath struct {
	UserID      string      `json:"userId"`
	UserName    string      `json:"userName"`
	Color       string      `json:"color"`
	Coordinates []PathPoint `json:"coordinates"`
}

// EmojiMarker is derived from a chat message whose content is exactly one
// emoji grapheme and which carries a location.
type EmojiMarker struct {
	MessageID string    `json:"messageId"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Emoji     string    `json:"emoji"`
	Lat       float64   `json:"lat"`
	Long      float64   `json:"long"`
	CreatedAt time.Time `json:"createdAt"`
}
