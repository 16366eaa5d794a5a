package activity

import (
	"math"
	"testing"
	"time"

	"github.com/cheerioo/api/domain/model"
)

func emissionTypes(ems []Emission) []model.ActivityType {
	types := make([]model.ActivityType, len(ems))
	for i, em := range ems {
		types[i] = em.Type
	}
	return types
}

func TestTrackerFirstFixEmitsOnlyLocation(t *testing.T) {
	tr := NewTracker()
	ems := tr.Advance(Fix{Lat: 52.0, Long: 4.0, At: time.Now()})

	if len(ems) != 1 || ems[0].Type != model.ActivityLocation {
		t.Fatalf("emissions = %v, want exactly one location", emissionTypes(ems))
	}
}

func TestTrackerIgnoresJitterBelowTenMeters(t *testing.T) {
	base := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	tr := NewTracker()
	tr.Advance(Fix{Lat: 52.0, Long: 4.0, At: base})

	// Roughly 5.5 m north: below the noise floor.
	ems := tr.Advance(Fix{Lat: 52.00005, Long: 4.0, At: base.Add(10 * time.Second)})

	if len(ems) != 1 || ems[0].Type != model.ActivityLocation {
		t.Fatalf("emissions = %v, want only a location for a jitter fix", emissionTypes(ems))
	}
	if tr.TotalKm() != 0 {
		t.Errorf("TotalKm = %v, want 0 after jitter", tr.TotalKm())
	}
}

func TestTrackerEmitsCumulativeDistanceAndSpeed(t *testing.T) {
	base := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	tr := NewTracker()
	tr.Advance(Fix{Lat: 52.0, Long: 4.0, At: base})

	// Roughly 55.6 m north in 10 s: about 20 km/h.
	ems := tr.Advance(Fix{Lat: 52.0005, Long: 4.0, At: base.Add(10 * time.Second)})

	if len(ems) != 3 {
		t.Fatalf("emissions = %v, want location+distance+speed", emissionTypes(ems))
	}

	dist, ok := ems[1].Data.(model.DistanceData)
	if !ok {
		t.Fatalf("second emission is %T, want DistanceData", ems[1].Data)
	}
	if math.Abs(dist.Distance-0.0556) > 0.002 {
		t.Errorf("Distance = %v km, want about 0.0556", dist.Distance)
	}

	speed, ok := ems[2].Data.(model.SpeedData)
	if !ok {
		t.Fatalf("third emission is %T, want SpeedData", ems[2].Data)
	}
	if math.Abs(speed.Speed-20.0) > 1.0 {
		t.Errorf("Speed = %v km/h, want about 20", speed.Speed)
	}
}

func TestTrackerDistanceIsCumulativeNotDelta(t *testing.T) {
	base := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	tr := NewTracker()
	tr.Advance(Fix{Lat: 52.0, Long: 4.0, At: base})
	tr.Advance(Fix{Lat: 52.0005, Long: 4.0, At: base.Add(10 * time.Second)})
	ems := tr.Advance(Fix{Lat: 52.0010, Long: 4.0, At: base.Add(20 * time.Second)})

	dist, ok := ems[1].Data.(model.DistanceData)
	if !ok {
		t.Fatalf("second emission is %T, want DistanceData", ems[1].Data)
	}
	if math.Abs(dist.Distance-2*0.0556) > 0.004 {
		t.Errorf("Distance = %v km, want the running total of about 0.111", dist.Distance)
	}
	if math.Abs(tr.TotalKm()-dist.Distance) > 1e-9 {
		t.Errorf("emitted distance %v differs from TotalKm %v", dist.Distance, tr.TotalKm())
	}
}

func TestTrackerSuppressesWalkingPaceBelowOneKmh(t *testing.T) {
	base := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	tr := NewTracker()
	tr.Advance(Fix{Lat: 52.0, Long: 4.0, At: base})

	// About 55.6 m in 4 minutes: under 1 km/h, so distance counts but speed
	// does not.
	ems := tr.Advance(Fix{Lat: 52.0005, Long: 4.0, At: base.Add(4 * time.Minute)})

	types := emissionTypes(ems)
	if len(ems) != 2 || types[0] != model.ActivityLocation || types[1] != model.ActivityDistance {
		t.Fatalf("emissions = %v, want location+distance without speed", types)
	}
}
