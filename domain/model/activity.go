package model

import (
	"encoding/json"
	"time"

	"github.com/cheerioo/api/domain/apperrors"
)

type ActivityType string

const (
	ActivityLocation ActivityType = "location"
	ActivitySpeed    ActivityType = "speed"
	ActivityDistance ActivityType = "distance"
	ActivityMusic    ActivityType = "music"
	// ActivityTracking is the consolidated variant carrying location, speed
	// and distance in a single payload. The single-purpose variants above are
	// kept for older clients.
	ActivityTracking ActivityType = "tracking"
)

// ActivityRecord is one timestamped sensor or status reading attributed to a
// user within an event. Records are append-only: never updated, never
// explicitly deleted.
type ActivityRecord struct {
	ID           string          `json:"id" gorm:"primaryKey;type:uuid"`
	UserID       string          `json:"userId" gorm:"index:idx_activity_event_user;type:uuid"`
	EventID      string          `json:"eventId" gorm:"index:idx_activity_event_user;index:idx_activity_event_created;type:uuid"`
	ActivityType ActivityType    `json:"activityType" gorm:"index"`
	Data         json.RawMessage `json:"data" gorm:"type:jsonb"`
	CreatedAt    time.Time       `json:"createdAt" gorm:"index:idx_activity_event_created"`
}

func (ActivityRecord) TableName() string {
	return "activity_records"
}

// LocationData is the payload for "location" records and the positional part
// of "tracking" records.
type LocationData struct {
	Lat      float64  `json:"lat"`
	Long     float64  `json:"long"`
	Accuracy *float64 `json:"accuracy,omitempty"`
}

type SpeedData struct {
	Speed float64 `json:"speed"`
	Unit  string  `json:"unit,omitempty"`
}

type DistanceData struct {
	Distance float64 `json:"distance"`
	Unit     string  `json:"unit,omitempty"`
}

type MusicData struct {
	Title   string `json:"title"`
	Artist  string `json:"artist,omitempty"`
	Album   string `json:"album,omitempty"`
	Cover   string `json:"cover,omitempty"`
	Service string `json:"service,omitempty"`
}

// TrackingData is the consolidated payload. Speed and Distance are optional;
// a fix with neither is equivalent to a plain location record.
type TrackingData struct {
	Lat      float64  `json:"lat"`
	Long     float64  `json:"long"`
	Accuracy *float64 `json:"accuracy,omitempty"`
	Speed    *float64 `json:"speed,omitempty"`
	Distance *float64 `json:"distance,omitempty"`
}

// DecodeActivityData validates a raw payload against its declared type and
// returns the typed value. Writes with an unknown type or a malformed payload
// are rejected here; readers stay permissive (see the aggregator, which skips
// unknown types instead of failing).
func DecodeActivityData(activityType ActivityType, raw json.RawMessage) (any, error) {
	if len(raw) == 0 {
		return nil, apperrors.Validation("missing_data", "activity data is required")
	}

	switch activityType {
	case ActivityLocation:
		var data LocationData
		if err := strictUnmarshal(raw, &data); err != nil {
			return nil, err
		}
		if err := ValidateCoordinates(data.Lat, data.Long); err != nil {
			return nil, err
		}
		return data, nil

	case ActivitySpeed:
		var data SpeedData
		if err := strictUnmarshal(raw, &data); err != nil {
			return nil, err
		}
		if data.Speed < 0 {
			return nil, apperrors.Validation("invalid_speed", "speed cannot be negative")
		}
		return data, nil

	case ActivityDistance:
		var data DistanceData
		if err := strictUnmarshal(raw, &data); err != nil {
			return nil, err
		}
		if data.Distance < 0 {
			return nil, apperrors.Validation("invalid_distance", "distance cannot be negative")
		}
		return data, nil

	case ActivityMusic:
		var data MusicData
		if err := strictUnmarshal(raw, &data); err != nil {
			return nil, err
		}
		if data.Title == "" {
			return nil, apperrors.Validation("missing_title", "music activity requires a title")
		}
		return data, nil

	case ActivityTracking:
		var data TrackingData
		if err := strictUnmarshal(raw, &data); err != nil {
			return nil, err
		}
		if err := ValidateCoordinates(data.Lat, data.Long); err != nil {
			return nil, err
		}
		if data.Speed != nil && *data.Speed < 0 {
			return nil, apperrors.Validation("invalid_speed", "speed cannot be negative")
		}
		if data.Distance != nil && *data.Distance < 0 {
			return nil, apperrors.Validation("invalid_distance", "distance cannot be negative")
		}
		return data, nil

	default:
		return nil, apperrors.Validation("unknown_activity_type", "unknown activity type: "+string(activityType))
	}
}

func strictUnmarshal(raw json.RawMessage, target any) error {
	if err := json.Unmarshal(raw, target); err != nil {
		return apperrors.Wrap(apperrors.KindValidation, "malformed_data", "activity data does not match its declared type", err)
	}
	return nil
}

func ValidateCoordinates(lat, long float64) error {
	if lat < -90 || lat > 90 {
		return apperrors.Validation("invalid_latitude", "latitude must be between -90 and 90")
	}
	if long < -180 || long > 180 {
		return apperrors.Validation("invalid_longitude", "longitude must be between -180 and 180")
	}
	return nil
}
