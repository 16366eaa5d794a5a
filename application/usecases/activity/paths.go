package activity

import (
	"encoding/json"
	"sort"

	"github.com/cheerioo/api/domain/model"
)

// palette colors are assigned to users by stable order of first appearance,
// so a refetch doesn't reshuffle the map as long as membership order holds.
var palette = []string{
	"#e6194b", "#3cb44b", "#4363d8", "#f58231", "#911eb4",
	"#42d4f4", "#f032e6", "#bfef45", "#fabed4", "#469990",
	"#9a6324", "#800000", "#808000", "#000075", "#a9a9a9",
}

// BuildTrackingPaths turns all location-bearing records of an event into one
// ordered polyline per user.
func BuildTrackingPaths(records []*model.ActivityRecord, names map[string]string) []*model.TrackingPath {
	sorted := make([]*model.ActivityRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	var order []string
	grouped := make(map[string][]model.PathPoint)

	for _, record := range sorted {
		point, ok := pathPoint(record)
		if !ok {
			continue
		}

		if _, seen := grouped[record.UserID]; !seen {
			order = append(order, record.UserID)
		}
		grouped[record.UserID] = append(grouped[record.UserID], point)
	}

	paths := make([]*model.TrackingPath, 0, len(order))
	for i, userID := range order {
		paths = append(paths, &model.TrackingPath{
			UserID:      userID,
			UserName:    names[userID],
			Color:       palette[i%len(palette)],
			Coordinates: grouped[userID],
		})
	}

	return paths
}

func pathPoint(record *model.ActivityRecord) (model.PathPoint, bool) {
	switch record.ActivityType {
	case model.ActivityLocation:
		var data model.LocationData
		if json.Unmarshal(record.Data, &data) != nil {
			return model.PathPoint{}, false
		}
		return model.PathPoint{Lat: data.Lat, Long: data.Long, Timestamp: record.CreatedAt}, true

	case model.ActivityTracking:
		var data model.TrackingData
		if json.Unmarshal(record.Data, &data) != nil {
			return model.PathPoint{}, false
		}
		return model.PathPoint{Lat: data.Lat, Long: data.Long, Timestamp: record.CreatedAt}, true
	}

	return model.PathPoint{}, false
}
