package presence

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cheerioo/api/domain/apperrors"
	"github.com/cheerioo/api/domain/model"
	"github.com/cheerioo/api/infrastructure/logger"
)

type fakePresenceRepo struct {
	mu      sync.Mutex
	rows    map[string]*model.PresenceRecord
	upserts int
}

func newFakePresenceRepo() *fakePresenceRepo {
	return &fakePresenceRepo{rows: make(map[string]*model.PresenceRecord)}
}

func (r *fakePresenceRepo) key(eventID, userID string) string {
	return eventID + ":" + userID
}

func (r *fakePresenceRepo) Upsert(ctx context.Context, record *model.PresenceRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upserts++
	r.rows[r.key(record.EventID, record.UserID)] = record
	return nil
}

func (r *fakePresenceRepo) GetByEvent(ctx context.Context, eventID string) ([]*model.PresenceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.PresenceRecord
	for _, rec := range r.rows {
		if rec.EventID == eventID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakePresenceRepo) Remove(ctx context.Context, eventID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, r.key(eventID, userID))
	return nil
}

func (r *fakePresenceRepo) SweepStale(ctx context.Context, olderThan time.Duration) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	cutoff := time.Now().Add(-olderThan)
	for key, rec := range r.rows {
		if rec.UpdatedAt.Before(cutoff) {
			delete(r.rows, key)
			removed++
		}
	}
	return removed, nil
}

func (r *fakePresenceRepo) rowCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

func (r *fakePresenceRepo) upsertCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.upserts
}

type nopNotifier struct{}

func (nopNotifier) Notify(ctx context.Context, eventID, table, action, recordID string) {}

func TestGetActiveFiltersByWindow(t *testing.T) {
	repo := newFakePresenceRepo()
	uc := NewPresenceUseCase(repo, nopNotifier{}, logger.NewNop())

	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return now }

	repo.rows["evt:fresh"] = &model.PresenceRecord{
		UserID: "fresh", EventID: "evt", Status: model.PresenceOnline,
		UpdatedAt: now.Add(-29 * time.Second),
	}
	repo.rows["evt:stale"] = &model.PresenceRecord{
		UserID: "stale", EventID: "evt", Status: model.PresenceOnline,
		UpdatedAt: now.Add(-31 * time.Second),
	}

	res, err := uc.GetActive(context.Background(), "evt")
	if err != nil {
		t.Fatalf("get active: %v", err)
	}
	if res.Count != 1 || len(res.Records) != 1 {
		t.Fatalf("Count = %d, Records = %d, want 1 each", res.Count, len(res.Records))
	}
	if res.Records[0].UserID != "fresh" {
		t.Errorf("active user = %q, want fresh", res.Records[0].UserID)
	}
	if repo.rowCount() != 2 {
		t.Errorf("stale rows must be filtered, not deleted; rows = %d", repo.rowCount())
	}
}

func TestUpdateOverwritesExistingRow(t *testing.T) {
	repo := newFakePresenceRepo()
	uc := NewPresenceUseCase(repo, nopNotifier{}, logger.NewNop())
	ctx := context.Background()

	if _, err := uc.Update(ctx, "evt", "u1", model.PresenceOnline, nil); err != nil {
		t.Fatalf("first update: %v", err)
	}
	if _, err := uc.Update(ctx, "evt", "u1", model.PresenceAway, map[string]string{"view": "map"}); err != nil {
		t.Fatalf("second update: %v", err)
	}

	if repo.rowCount() != 1 {
		t.Fatalf("rows = %d, want 1 (same user, same event)", repo.rowCount())
	}
	row := repo.rows["evt:u1"]
	if row.Status != model.PresenceAway || row.Metadata["view"] != "map" {
		t.Errorf("row = %+v, want the second write to win", row)
	}
}

func TestUpdateRejectsUnknownStatus(t *testing.T) {
	uc := NewPresenceUseCase(newFakePresenceRepo(), nopNotifier{}, logger.NewNop())

	_, err := uc.Update(context.Background(), "evt", "u1", "lurking", nil)
	if !apperrors.IsKind(err, apperrors.KindValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestHeartbeatRefreshesAndRemovesOnStop(t *testing.T) {
	repo := newFakePresenceRepo()
	uc := NewPresenceUseCase(repo, nopNotifier{}, logger.NewNop())

	hb := NewHeartbeat(uc, logger.NewNop(), 10*time.Millisecond, "evt", "u1", model.PresenceOnline)
	hb.Start(context.Background())

	deadline := time.Now().Add(2 * time.Second)
	for repo.upsertCount() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if repo.upsertCount() < 3 {
		t.Fatalf("upserts = %d, want at least 3 (initial + ticks)", repo.upsertCount())
	}

	hb.Stop()
	if repo.rowCount() != 0 {
		t.Fatalf("rows = %d, want 0 after Stop", repo.rowCount())
	}
}
