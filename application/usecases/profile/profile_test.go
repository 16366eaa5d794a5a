package profile

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/cheerioo/api/domain/apperrors"
	"github.com/cheerioo/api/domain/model"
	"github.com/cheerioo/api/infrastructure/logger"
)

type fakeProfileRepo struct {
	profiles map[string]*model.Profile
}

func (r *fakeProfileRepo) Create(ctx context.Context, p *model.Profile) error {
	r.profiles[p.UserID] = p
	return nil
}

func (r *fakeProfileRepo) GetByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	p, ok := r.profiles[userID]
	if !ok {
		return nil, apperrors.NotFound("profile_not_found", "profile does not exist")
	}
	return p, nil
}

func (r *fakeProfileRepo) Update(ctx context.Context, p *model.Profile) error {
	r.profiles[p.UserID] = p
	return nil
}

type fakeAnonymousRepo struct {
	profiles map[string]*model.AnonymousProfile
	touches  int
}

func (r *fakeAnonymousRepo) Create(ctx context.Context, p *model.AnonymousProfile) error {
	r.profiles[p.ID] = p
	return nil
}

func (r *fakeAnonymousRepo) GetByID(ctx context.Context, id string) (*model.AnonymousProfile, error) {
	p, ok := r.profiles[id]
	if !ok {
		return nil, apperrors.NotFound("profile_not_found", "profile does not exist")
	}
	return p, nil
}

func (r *fakeAnonymousRepo) TouchLastSeen(ctx context.Context, id string) error {
	r.touches++
	return nil
}

func newTestUseCase() (*ProfileUseCase, *fakeProfileRepo, *fakeAnonymousRepo) {
	profiles := &fakeProfileRepo{profiles: make(map[string]*model.Profile)}
	anon := &fakeAnonymousRepo{profiles: make(map[string]*model.AnonymousProfile)}
	return NewProfileUseCase(profiles, anon, logger.NewNop()), profiles, anon
}

func TestGetCreatesSupporterProfileLazily(t *testing.T) {
	uc, repo, _ := newTestUseCase()

	prof, err := uc.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if prof.Permissions != model.PermissionSupporter {
		t.Errorf("Permissions = %q, want supporter", prof.Permissions)
	}
	if _, ok := repo.profiles["u1"]; !ok {
		t.Error("profile must be persisted on first read")
	}

	again, err := uc.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("second get: %v", err)
	}
	if again != repo.profiles["u1"] {
		t.Error("second read must return the stored profile, not a new one")
	}
}

func TestValidateAnonymousRejectsUnknownID(t *testing.T) {
	uc, _, _ := newTestUseCase()

	_, err := uc.ValidateAnonymous(context.Background(), uuid.NewString())
	if !apperrors.IsKind(err, apperrors.KindForbidden) {
		t.Fatalf("err = %v, want forbidden for unregistered id", err)
	}
}

func TestRegisterAnonymousThenValidate(t *testing.T) {
	uc, _, anon := newTestUseCase()
	ctx := context.Background()

	id := uuid.NewString()
	created, err := uc.RegisterAnonymous(ctx, id, "Runner 42")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if created.ID != id || created.DisplayName != "Runner 42" {
		t.Fatalf("created = %+v", created)
	}

	got, err := uc.ValidateAnonymous(ctx, id)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if got.ID != id {
		t.Errorf("validated id = %q, want %q", got.ID, id)
	}
	if anon.touches == 0 {
		t.Error("validate must touch last-seen")
	}
}

func TestRegisterAnonymousIsIdempotentPerID(t *testing.T) {
	uc, _, anon := newTestUseCase()
	ctx := context.Background()

	id := uuid.NewString()
	if _, err := uc.RegisterAnonymous(ctx, id, "Runner 42"); err != nil {
		t.Fatalf("register: %v", err)
	}
	again, err := uc.RegisterAnonymous(ctx, id, "Different Name")
	if err != nil {
		t.Fatalf("re-register: %v", err)
	}
	if again.DisplayName != "Runner 42" {
		t.Errorf("re-registration must not rename, got %q", again.DisplayName)
	}
	if len(anon.profiles) != 1 {
		t.Errorf("profiles = %d, want 1", len(anon.profiles))
	}
}

func TestRegisterAnonymousRejectsMalformedID(t *testing.T) {
	uc, _, _ := newTestUseCase()

	_, err := uc.RegisterAnonymous(context.Background(), "not-a-uuid", "Runner 42")
	if !apperrors.IsKind(err, apperrors.KindValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
}
