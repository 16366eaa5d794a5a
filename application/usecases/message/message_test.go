package message

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/cheerioo/api/domain/apperrors"
	"github.com/cheerioo/api/domain/model"
	"github.com/cheerioo/api/infrastructure/logger"
)

type fakeMessageRepo struct {
	messages map[string]*model.Message
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{messages: make(map[string]*model.Message)}
}

func (r *fakeMessageRepo) Create(ctx context.Context, msg *model.Message) error {
	clone := *msg
	r.messages[msg.ID] = &clone
	return nil
}

func (r *fakeMessageRepo) GetByID(ctx context.Context, eventID, messageID string) (*model.Message, error) {
	msg, ok := r.messages[messageID]
	if !ok || msg.EventID != eventID {
		return nil, apperrors.NotFound("message_not_found", "message does not exist")
	}
	clone := *msg
	return &clone, nil
}

func (r *fakeMessageRepo) GetByEvent(ctx context.Context, eventID string, limit int) ([]*model.Message, error) {
	return r.GetByEventAfter(ctx, eventID, time.Time{}, limit)
}

func (r *fakeMessageRepo) GetByEventAfter(ctx context.Context, eventID string, after time.Time, limit int) ([]*model.Message, error) {
	var out []*model.Message
	for _, msg := range r.messages {
		if msg.EventID == eventID && msg.DeletedAt == nil && msg.CreatedAt.After(after) {
			clone := *msg
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeMessageRepo) Update(ctx context.Context, msg *model.Message) error {
	clone := *msg
	r.messages[msg.ID] = &clone
	return nil
}

func (r *fakeMessageRepo) SoftDelete(ctx context.Context, eventID, messageID string) error {
	msg, ok := r.messages[messageID]
	if !ok || msg.EventID != eventID {
		return apperrors.NotFound("message_not_found", "message does not exist")
	}
	now := time.Now().UTC()
	msg.DeletedAt = &now
	return nil
}

func (r *fakeMessageRepo) DeleteOlderThan(ctx context.Context, eventID string, before time.Time) error {
	for id, msg := range r.messages {
		if msg.EventID == eventID && msg.CreatedAt.Before(before) {
			delete(r.messages, id)
		}
	}
	return nil
}

func (r *fakeMessageRepo) Count(ctx context.Context, eventID string) (int64, error) {
	var n int64
	for _, msg := range r.messages {
		if msg.EventID == eventID {
			n++
		}
	}
	return n, nil
}

type fakeEventRepo struct{ known map[string]bool }

func (r *fakeEventRepo) GetByID(ctx context.Context, id string) (*model.Event, error) {
	if !r.known[id] {
		return nil, apperrors.NotFound("event_not_found", "event does not exist")
	}
	return &model.Event{ID: id}, nil
}

func (r *fakeEventRepo) Create(ctx context.Context, evt *model.Event) error  { return nil }
func (r *fakeEventRepo) GetBySlug(ctx context.Context, slug string) (*model.Event, error) {
	return nil, apperrors.NotFound("event_not_found", "event does not exist")
}
func (r *fakeEventRepo) GetAll(ctx context.Context) ([]*model.Event, error) { return nil, nil }
func (r *fakeEventRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	return false, nil
}
func (r *fakeEventRepo) AddMember(ctx context.Context, m *model.EventMember) error { return nil }
func (r *fakeEventRepo) IsMember(ctx context.Context, eventID, userID string) (bool, error) {
	return false, nil
}
func (r *fakeEventRepo) GetMembers(ctx context.Context, eventID string) ([]model.EventMember, error) {
	return nil, nil
}
func (r *fakeEventRepo) RemoveMember(ctx context.Context, eventID, userID string) error { return nil }
func (r *fakeEventRepo) Delete(ctx context.Context, id string) error                    { return nil }

type nopNotifier struct{}

func (nopNotifier) Notify(ctx context.Context, eventID, table, action, recordID string) {}

func newTestUseCase() (*MessageUseCase, *fakeMessageRepo) {
	repo := newFakeMessageRepo()
	events := &fakeEventRepo{known: map[string]bool{"evt": true}}
	return NewMessageUseCase(repo, events, nopNotifier{}, logger.NewNop()), repo
}

func ptr(v float64) *float64 { return &v }

func TestSendRejectsIncompleteLocation(t *testing.T) {
	uc, _ := newTestUseCase()

	_, err := uc.Send(context.Background(), "evt", "u1", "Alice", SendMessageInput{
		Content: "hi", Lat: ptr(52.0),
	})
	if !apperrors.IsKind(err, apperrors.KindValidation) {
		t.Fatalf("err = %v, want validation error for lat without long", err)
	}
}

func TestEditOnlyByAuthor(t *testing.T) {
	uc, _ := newTestUseCase()
	ctx := context.Background()

	msg, err := uc.Send(ctx, "evt", "u1", "Alice", SendMessageInput{Content: "original"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	if _, err := uc.Edit(ctx, "evt", msg.ID, "u2", "hijacked"); !apperrors.IsKind(err, apperrors.KindForbidden) {
		t.Fatalf("edit by non-author = %v, want forbidden", err)
	}

	edited, err := uc.Edit(ctx, "evt", msg.ID, "u1", "fixed")
	if err != nil {
		t.Fatalf("edit by author: %v", err)
	}
	if edited.Content != "fixed" || !edited.Edited {
		t.Errorf("edited = %+v, want content replaced and Edited set", edited)
	}
}

func TestDeleteHidesMessageFromList(t *testing.T) {
	uc, _ := newTestUseCase()
	ctx := context.Background()

	msg, _ := uc.Send(ctx, "evt", "u1", "Alice", SendMessageInput{Content: "bye"})
	if err := uc.Delete(ctx, "evt", msg.ID, "u1"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	msgs, err := uc.List(ctx, "evt", time.Time{}, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(msgs) != 0 {
		t.Fatalf("len(msgs) = %d, want 0 after delete", len(msgs))
	}
}

func TestEmojiMarkersSelectsSingleEmojiWithLocation(t *testing.T) {
	uc, _ := newTestUseCase()
	ctx := context.Background()

	uc.Send(ctx, "evt", "u1", "Alice", SendMessageInput{Content: "🎉", Lat: ptr(52.0), Long: ptr(4.0)})
	uc.Send(ctx, "evt", "u2", "Bob", SendMessageInput{Content: "🎉"})                               // no location
	uc.Send(ctx, "evt", "u3", "Carol", SendMessageInput{Content: "go go go", Lat: ptr(52.1), Long: ptr(4.1)}) // not an emoji
	uc.Send(ctx, "evt", "u4", "Dave", SendMessageInput{Content: "🎉🎉", Lat: ptr(52.2), Long: ptr(4.2)})      // two emoji

	markers, err := uc.EmojiMarkers(ctx, "evt", 0)
	if err != nil {
		t.Fatalf("emoji markers: %v", err)
	}
	if len(markers) != 1 {
		t.Fatalf("len(markers) = %d, want 1", len(markers))
	}
	m := markers[0]
	if m.Emoji != "🎉" || m.UserID != "u1" || m.Lat != 52.0 || m.Long != 4.0 {
		t.Errorf("marker = %+v", m)
	}
}

func TestIsSingleEmoji(t *testing.T) {
	cases := []struct {
		content string
		want    bool
	}{
		{"🎉", true},
		{"❤️", true},
		{"👍🏽", true},
		{"👩‍👩‍👧", true},
		{"", false},
		{"hi", false},
		{"🎉🎉", false},
		{"a🎉", false},
	}
	for _, c := range cases {
		if got := IsSingleEmoji(c.content); got != c.want {
			t.Errorf("IsSingleEmoji(%q) = %v, want %v", c.content, got, c.want)
		}
	}
}
