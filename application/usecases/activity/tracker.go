package activity

import (
	"time"

	"github.com/cheerioo/api/domain/model"
	"github.com/cheerioo/api/infrastructure/geo"
)

const (
	// minMoveKm filters GPS jitter: increments below 10 m don't count.
	minMoveKm = 0.01
	// minSpeedKmh suppresses speeds indistinguishable from standing still.
	minSpeedKmh = 1.0
)

// Fix is one position reading from a participant's device.
type Fix struct {
	Lat      float64
	Long     float64
	Accuracy *float64
	At       time.Time
}

// Emission is one activity record the tracker wants written.
type Emission struct {
	Type model.ActivityType
	Data any
}

// Tracker folds a stream of position fixes into activity emissions: a
// location on every fix, a cumulative distance when the fix moved far enough,
// and a speed when it is above the noise floor. State is per participant per
// event; it is cheap enough to discard and rebuild at any time.
type Tracker struct {
	prev    *Fix
	totalKm float64
}

func NewTracker() *Tracker {
	return &Tracker{}
}

// TotalKm returns the accumulated distance so far.
func (t *Tracker) TotalKm() float64 {
	return t.totalKm
}

// Advance consumes one fix and returns the activities to emit for it. The
// first fix only yields a location; later fixes may add distance and speed.
func (t *Tracker) Advance(fix Fix) []Emission {
	emissions := []Emission{{
		Type: model.ActivityLocation,
		Data: model.LocationData{Lat: fix.Lat, Long: fix.Long, Accuracy: fix.Accuracy},
	}}

	prev := t.prev
	t.prev = &fix

	if prev == nil {
		return emissions
	}

	deltaKm := geo.Distance(prev.Lat, prev.Long, fix.Lat, fix.Long)
	if deltaKm <= minMoveKm {
		return emissions
	}

	t.totalKm += deltaKm
	emissions = append(emissions, Emission{
		Type: model.ActivityDistance,
		Data: model.DistanceData{Distance: t.totalKm, Unit: "km"},
	})

	elapsed := fix.At.Sub(prev.At)
	if elapsed <= 0 {
		return emissions
	}

	speedKmh := deltaKm / elapsed.Hours()
	if speedKmh > minSpeedKmh {
		emissions = append(emissions, Emission{
			Type: model.ActivitySpeed,
			Data: model.SpeedData{Speed: speedKmh, Unit: "km/h"},
		})
	}

	return emissions
}
