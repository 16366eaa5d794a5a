package activity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/cheerioo/api/domain/model"
)

func record(t *testing.T, userID string, activityType model.ActivityType, data any, at time.Time) *model.ActivityRecord {
	t.Helper()
	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return &model.ActivityRecord{
		ID:           userID + "-" + string(activityType) + "-" + at.Format(time.RFC3339Nano),
		UserID:       userID,
		EventID:      "evt-1",
		ActivityType: activityType,
		Data:         raw,
		CreatedAt:    at,
	}
}

func TestSummarizeKeepsMostRecentValuePerField(t *testing.T) {
	base := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

	records := []*model.ActivityRecord{
		record(t, "alice", model.ActivityLocation, model.LocationData{Lat: 52.0, Long: 4.0}, base),
		record(t, "alice", model.ActivityLocation, model.LocationData{Lat: 52.5, Long: 4.5}, base.Add(time.Minute)),
		record(t, "alice", model.ActivitySpeed, model.SpeedData{Speed: 12.0, Unit: "km/h"}, base.Add(30*time.Second)),
	}

	summaries := Summarize(records, map[string]string{"alice": "Alice"}, SummaryOptions{})

	alice := summaries["alice"]
	if alice == nil {
		t.Fatal("no summary for alice")
	}
	if alice.UserName != "Alice" {
		t.Errorf("UserName = %q, want Alice", alice.UserName)
	}
	if alice.LastLocation == nil || alice.LastLocation.Value.Lat != 52.5 {
		t.Errorf("LastLocation = %+v, want the newer fix at lat 52.5", alice.LastLocation)
	}
	if alice.LastSpeed == nil || alice.LastSpeed.Value.Speed != 12.0 {
		t.Errorf("LastSpeed = %+v, want 12.0", alice.LastSpeed)
	}
	if alice.LastDistance != nil {
		t.Errorf("LastDistance = %+v, want nil (never reported)", alice.LastDistance)
	}
}

func TestSummarizeDoesNotTrustInputOrdering(t *testing.T) {
	base := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

	// Oldest record listed first: the fold must still pick the newest value.
	records := []*model.ActivityRecord{
		record(t, "bob", model.ActivityLocation, model.LocationData{Lat: 1.0, Long: 1.0}, base),
		record(t, "bob", model.ActivityLocation, model.LocationData{Lat: 3.0, Long: 3.0}, base.Add(2*time.Minute)),
		record(t, "bob", model.ActivityLocation, model.LocationData{Lat: 2.0, Long: 2.0}, base.Add(time.Minute)),
	}

	summaries := Summarize(records, nil, SummaryOptions{})
	bob := summaries["bob"]
	if bob == nil || bob.LastLocation == nil {
		t.Fatal("no location summary for bob")
	}
	if bob.LastLocation.Value.Lat != 3.0 {
		t.Errorf("LastLocation.Lat = %v, want 3.0", bob.LastLocation.Value.Lat)
	}
}

func TestSummarizeSkipsUnknownActivityTypes(t *testing.T) {
	base := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

	records := []*model.ActivityRecord{
		record(t, "carol", model.ActivityType("heart_rate"), map[string]int{"bpm": 150}, base.Add(time.Minute)),
		record(t, "carol", model.ActivityLocation, model.LocationData{Lat: 52.0, Long: 4.0}, base),
	}

	summaries := Summarize(records, nil, SummaryOptions{})
	carol := summaries["carol"]
	if carol == nil {
		t.Fatal("unknown type must not drop the user's summary")
	}
	if carol.LastLocation == nil || carol.LastLocation.Value.Lat != 52.0 {
		t.Errorf("LastLocation = %+v, want the known location record", carol.LastLocation)
	}
}

func TestSummarizeTrackingFillsAllFields(t *testing.T) {
	base := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	speed := 15.5
	distance := 4.2

	records := []*model.ActivityRecord{
		record(t, "dave", model.ActivityTracking, model.TrackingData{
			Lat: 52.0, Long: 4.0, Speed: &speed, Distance: &distance,
		}, base),
	}

	summaries := Summarize(records, nil, SummaryOptions{})
	dave := summaries["dave"]
	if dave == nil {
		t.Fatal("no summary for dave")
	}
	if dave.LastLocation == nil || dave.LastLocation.Value.Lat != 52.0 {
		t.Errorf("LastLocation = %+v", dave.LastLocation)
	}
	if dave.LastSpeed == nil || dave.LastSpeed.Value.Speed != 15.5 || dave.LastSpeed.Value.Unit != "km/h" {
		t.Errorf("LastSpeed = %+v", dave.LastSpeed)
	}
	if dave.LastDistance == nil || dave.LastDistance.Value.Distance != 4.2 || dave.LastDistance.Value.Unit != "km" {
		t.Errorf("LastDistance = %+v", dave.LastDistance)
	}
}

func TestSummarizeExcludesRequestingUser(t *testing.T) {
	base := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

	records := []*model.ActivityRecord{
		record(t, "me", model.ActivityLocation, model.LocationData{Lat: 1.0, Long: 1.0}, base),
		record(t, "them", model.ActivityLocation, model.LocationData{Lat: 2.0, Long: 2.0}, base),
	}

	summaries := Summarize(records, nil, SummaryOptions{ExcludeUserID: "me"})
	if _, ok := summaries["me"]; ok {
		t.Error("requesting user must be excluded from the summary")
	}
	if _, ok := summaries["them"]; !ok {
		t.Error("other users must remain in the summary")
	}
}
