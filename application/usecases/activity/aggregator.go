package activity

import (
	"encoding/json"
	"sort"

	"github.com/cheerioo/api/domain/model"
)

// SummaryOptions controls the fold. ExcludeUserID drops the requesting user
// from "other users" views; self views leave it empty.
type SummaryOptions struct {
	ExcludeUserID string
}

// Summarize folds activity records for one event into one latest-value
// summary per user. Records are sorted newest-first internally rather than
// trusting the caller's ordering, so the first usable record per field per
// user is always the most recent. Unknown activity types are skipped, never
// an error.
func Summarize(records []*model.ActivityRecord, names map[string]string, opts SummaryOptions) map[string]*model.UserActivitySummary {
	sorted := make([]*model.ActivityRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	summaries := make(map[string]*model.UserActivitySummary)

	for _, record := range sorted {
		if record.UserID == opts.ExcludeUserID && opts.ExcludeUserID != "" {
			continue
		}

		summary, ok := summaries[record.UserID]
		if !ok {
			summary = &model.UserActivitySummary{
				UserID:   record.UserID,
				UserName: names[record.UserID],
			}
			summaries[record.UserID] = summary
		}

		applyRecord(summary, record)
	}

	return summaries
}

func applyRecord(summary *model.UserActivitySummary, record *model.ActivityRecord) {
	switch record.ActivityType {
	case model.ActivityTracking:
		var data model.TrackingData
		if json.Unmarshal(record.Data, &data) != nil {
			return
		}
		if summary.LastLocation == nil {
			summary.LastLocation = &model.TimedValue[model.LocationData]{
				Value:      model.LocationData{Lat: data.Lat, Long: data.Long, Accuracy: data.Accuracy},
				RecordedAt: record.CreatedAt,
			}
		}
		if data.Speed != nil && summary.LastSpeed == nil {
			summary.LastSpeed = &model.TimedValue[model.SpeedData]{
				Value:      model.SpeedData{Speed: *data.Speed, Unit: "km/h"},
				RecordedAt: record.CreatedAt,
			}
		}
		if data.Distance != nil && summary.LastDistance == nil {
			summary.LastDistance = &model.TimedValue[model.DistanceData]{
				Value:      model.DistanceData{Distance: *data.Distance, Unit: "km"},
				RecordedAt: record.CreatedAt,
			}
		}

	case model.ActivityLocation:
		if summary.LastLocation != nil {
			return
		}
		var data model.LocationData
		if json.Unmarshal(record.Data, &data) != nil {
			return
		}
		summary.LastLocation = &model.TimedValue[model.LocationData]{Value: data, RecordedAt: record.CreatedAt}

	case model.ActivitySpeed:
		if summary.LastSpeed != nil {
			return
		}
		var data model.SpeedData
		if json.Unmarshal(record.Data, &data) != nil {
			return
		}
		summary.LastSpeed = &model.TimedValue[model.SpeedData]{Value: data, RecordedAt: record.CreatedAt}

	case model.ActivityDistance:
		if summary.LastDistance != nil {
			return
		}
		var data model.DistanceData
		if json.Unmarshal(record.Data, &data) != nil {
			return
		}
		summary.LastDistance = &model.TimedValue[model.DistanceData]{Value: data, RecordedAt: record.CreatedAt}

	case model.ActivityMusic:
		if summary.LastMusic != nil {
			return
		}
		var data model.MusicData
		if json.Unmarshal(record.Data, &data) != nil {
			return
		}
		summary.LastMusic = &model.TimedValue[model.MusicData]{Value: data, RecordedAt: record.CreatedAt}

	default:
		// Unknown type written by a newer client. Skip it.
	}
}
