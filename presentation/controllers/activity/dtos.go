package activity

import (
	"encoding/json"
	"time"

	"github.com/cheerioo/api/domain/model"
)

type RecordActivityRequest struct {
	ActivityType string          `json:"activity_type" binding:"required,oneof=location speed distance music tracking"`
	Data         json.RawMessage `json:"data" binding:"required"`
}

type PositionRequest struct {
	Lat       *float64   `json:"lat" binding:"required,latitude"`
	Long      *float64   `json:"long" binding:"required,longitude"`
	Accuracy  *float64   `json:"accuracy" binding:"omitempty,gte=0"`
	Timestamp *time.Time `json:"timestamp" binding:"omitempty"`
}

type PositionResponse struct {
	Records []*model.ActivityRecord `json:"records"`
}

type ActivityListResponse struct {
	Records []*model.ActivityRecord `json:"records"`
	Count   int                     `json:"count"`
}

type SummaryResponse struct {
	Summaries map[string]*model.UserActivitySummary `json:"summaries"`
}

type PathsResponse struct {
	Paths []*model.TrackingPath `json:"paths"`
}
