package chat

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"growshare/internal/models"
)

type fakeRepo struct {
	messages  []*models.Message
	readCalls []string // "<farmerID>/<readerRole>"
}

func (r *fakeRepo) InsertMessage(_ context.Context, msg *models.Message) (*models.Message, error) {
	msg.ID = fmt.Sprintf("msg-%d", len(r.messages)+1)
	r.messages = append(r.messages, msg)
	return msg, nil
}

func (r *fakeRepo) ListByFarmer(_ context.Context, farmerID string, _, _ int) ([]*models.Message, error) {
	var out []*models.Message
	for _, m := range r.messages {
		if m.FarmerID == farmerID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeRepo) MarkRead(_ context.Context, farmerID, readerRole string) error {
	r.readCalls = append(r.readCalls, farmerID+"/"+readerRole)
	return nil
}

func (r *fakeRepo) ListConversations(_ context.Context) ([]*models.Conversation, error) {
	return nil, nil
}

type fakeFarmers map[string]string

func (f fakeFarmers) FindProfileIDByUserID(_ context.Context, userID string) (string, error) {
	id, ok := f[userID]
	if !ok {
		return "", models.ErrNotFound
	}
	return id, nil
}

func newTestService() (ServiceInterface, *fakeRepo) {
	repo := &fakeRepo{}
	svc := NewService(repo, fakeFarmers{"farmer-user-1": "fp-1"}, NewHub())
	return svc, repo
}

func TestSendMessageFarmerPinnedToOwnThread(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	msg, err := svc.SendMessage(ctx, "farmer-user-1", models.RoleFarmer, "", "hello")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if msg.FarmerID != "fp-1" || msg.SenderRole != models.RoleFarmer {
		t.Errorf("message = %+v", msg)
	}

	// A farmer naming another farmer's thread is refused.
	if _, err := svc.SendMessage(ctx, "farmer-user-1", models.RoleFarmer, "fp-2", "hi"); !errors.Is(err, models.ErrForbidden) {
		t.Errorf("cross-thread send: error = %v, want ErrForbidden", err)
	}
	if len(repo.messages) != 1 {
		t.Errorf("messages = %d, want 1", len(repo.messages))
	}
}

func TestSendMessageAdminNamesThread(t *testing.T) {
	svc, _ := newTestService()

	msg, err := svc.SendMessage(context.Background(), "admin-1", models.RoleAdmin, "fp-1", "how is the harvest?")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if msg.FarmerID != "fp-1" || msg.SenderRole != models.RoleAdmin {
		t.Errorf("message = %+v", msg)
	}

	// An admin must say which thread they mean.
	if _, err := svc.SendMessage(context.Background(), "admin-1", models.RoleAdmin, "", "hi"); !errors.Is(err, models.ErrValidation) {
		t.Errorf("missing thread: error = %v, want ErrValidation", err)
	}
}

func TestSendMessageConsumerRefused(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.SendMessage(context.Background(), "user-1", models.RoleUser, "fp-1", "hi")
	if !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("error = %v, want ErrForbidden", err)
	}
}

func TestListThreadMarksOtherSideRead(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	if _, err := svc.SendMessage(ctx, "admin-1", models.RoleAdmin, "fp-1", "ping"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	messages, err := svc.ListThread(ctx, "farmer-user-1", models.RoleFarmer, "", 1, 20)
	if err != nil {
		t.Fatalf("ListThread: %v", err)
	}
	if len(messages) != 1 {
		t.Errorf("messages = %d, want 1", len(messages))
	}
	if len(repo.readCalls) != 1 || repo.readCalls[0] != "fp-1/farmer" {
		t.Errorf("readCalls = %v", repo.readCalls)
	}
}
