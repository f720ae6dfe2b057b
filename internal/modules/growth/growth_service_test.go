package growth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"growshare/internal/models"
)

type fakeRepo struct {
	updates []*models.GrowthUpdate
}

func (r *fakeRepo) Append(_ context.Context, update *models.GrowthUpdate) (*models.GrowthUpdate, error) {
	update.ID = fmt.Sprintf("gu-%d", len(r.updates)+1)
	r.updates = append(r.updates, update)
	return update, nil
}

func (r *fakeRepo) ListByOrderID(_ context.Context, orderID string) ([]*models.GrowthUpdate, error) {
	var out []*models.GrowthUpdate
	for _, u := range r.updates {
		if u.OrderID == orderID {
			out = append(out, u)
		}
	}
	return out, nil
}

type failingRepo struct{ fakeRepo }

func (r *failingRepo) Append(_ context.Context, _ *models.GrowthUpdate) (*models.GrowthUpdate, error) {
	return nil, errors.New("insert failed")
}

type fakeOrders struct {
	order *models.Order
}

func (f *fakeOrders) FindByID(_ context.Context, orderID string) (*models.Order, error) {
	if f.order == nil || f.order.ID != orderID {
		return nil, models.ErrNotFound
	}
	return f.order, nil
}

type fakeFarmers map[string]string

func (f fakeFarmers) FindProfileIDByUserID(_ context.Context, userID string) (string, error) {
	id, ok := f[userID]
	if !ok {
		return "", models.ErrNotFound
	}
	return id, nil
}

// stubUploader fails on the n-th upload (1-based) when failAt > 0 and
// records every delete, so tests can observe the rollback.
type stubUploader struct {
	failAt  int
	uploads []string
	deleted []string
}

func (u *stubUploader) Upload(_ context.Context, key, _ string, _ io.Reader) (string, error) {
	if u.failAt > 0 && len(u.uploads)+1 == u.failAt {
		return "", errors.New("upload failed")
	}
	u.uploads = append(u.uploads, key)
	return "https://bucket.example.com/" + key, nil
}

func (u *stubUploader) Delete(_ context.Context, key string) error {
	u.deleted = append(u.deleted, key)
	return nil
}

func growingOrder() *models.Order {
	return &models.Order{
		ID:       "order-1",
		UserID:   "user-1",
		FarmerID: "farmer-1",
		Status:   models.StatusGrowing,
	}
}

func isTerminal(s models.OrderStatus) bool {
	return s == models.StatusDelivered || s == models.StatusRejected || s == models.StatusCancelled
}

func appendReq() models.AppendGrowthUpdateRequest {
	return models.AppendGrowthUpdateRequest{Status: "sprouting", Notes: "first leaves out"}
}

func imageFiles(n int) []ImageFile {
	files := make([]ImageFile, n)
	for i := range files {
		files[i] = ImageFile{
			Filename:    fmt.Sprintf("photo-%d.jpg", i+1),
			ContentType: "image/jpeg",
			Content:     strings.NewReader("jpegdata"),
		}
	}
	return files
}

func TestAppendUpdate(t *testing.T) {
	repo := &fakeRepo{}
	uploader := &stubUploader{}
	svc := NewService(repo, &fakeOrders{order: growingOrder()}, fakeFarmers{"farmer-user-1": "farmer-1"}, uploader, isTerminal)

	update, err := svc.AppendUpdate(context.Background(), "farmer-user-1", "order-1", appendReq(), imageFiles(2))
	if err != nil {
		t.Fatalf("AppendUpdate: %v", err)
	}
	if update.Status != "sprouting" || update.RecordedBy != "farmer-1" {
		t.Errorf("update = %+v", update)
	}
	if len(update.Images) != 2 {
		t.Errorf("images = %d, want 2", len(update.Images))
	}
	if len(uploader.deleted) != 0 {
		t.Errorf("no rollback expected, deleted %v", uploader.deleted)
	}
}

func TestAppendUpdateUploadFailureRollsBack(t *testing.T) {
	repo := &fakeRepo{}
	uploader := &stubUploader{failAt: 2}
	svc := NewService(repo, &fakeOrders{order: growingOrder()}, fakeFarmers{"farmer-user-1": "farmer-1"}, uploader, isTerminal)

	_, err := svc.AppendUpdate(context.Background(), "farmer-user-1", "order-1", appendReq(), imageFiles(3))
	if err == nil {
		t.Fatal("expected upload failure")
	}
	if len(repo.updates) != 0 {
		t.Error("no log entry may be written when an upload fails")
	}
	// The first object was stored before the failure and must be removed.
	if len(uploader.deleted) != 1 {
		t.Errorf("deleted = %v, want the one stored object", uploader.deleted)
	}
}

func TestAppendUpdateRepoFailureRollsBackUploads(t *testing.T) {
	uploader := &stubUploader{}
	svc := NewService(&failingRepo{}, &fakeOrders{order: growingOrder()}, fakeFarmers{"farmer-user-1": "farmer-1"}, uploader, isTerminal)

	_, err := svc.AppendUpdate(context.Background(), "farmer-user-1", "order-1", appendReq(), imageFiles(2))
	if err == nil {
		t.Fatal("expected append failure")
	}
	if len(uploader.deleted) != 2 {
		t.Errorf("deleted = %v, want both stored objects removed", uploader.deleted)
	}
}

func TestAppendUpdateOwnership(t *testing.T) {
	svc := NewService(&fakeRepo{}, &fakeOrders{order: growingOrder()}, fakeFarmers{"other-farmer": "farmer-2"}, &stubUploader{}, isTerminal)

	_, err := svc.AppendUpdate(context.Background(), "other-farmer", "order-1", appendReq(), nil)
	if !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("error = %v, want ErrForbidden", err)
	}
}

func TestAppendUpdateTerminalOrder(t *testing.T) {
	order := growingOrder()
	order.Status = models.StatusDelivered
	svc := NewService(&fakeRepo{}, &fakeOrders{order: order}, fakeFarmers{"farmer-user-1": "farmer-1"}, &stubUploader{}, isTerminal)

	_, err := svc.AppendUpdate(context.Background(), "farmer-user-1", "order-1", appendReq(), nil)
	if !errors.Is(err, models.ErrIllegalTransition) {
		t.Fatalf("error = %v, want ErrIllegalTransition", err)
	}
}

func TestListUpdatesVisibility(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, &fakeOrders{order: growingOrder()}, fakeFarmers{"farmer-user-1": "farmer-1"}, &stubUploader{}, isTerminal)
	ctx := context.Background()

	if _, err := svc.AppendUpdate(ctx, "farmer-user-1", "order-1", appendReq(), nil); err != nil {
		t.Fatalf("AppendUpdate: %v", err)
	}

	if updates, err := svc.ListUpdates(ctx, "order-1", "user-1", models.RoleUser); err != nil || len(updates) != 1 {
		t.Errorf("consumer: %v (%d updates)", err, len(updates))
	}
	if _, err := svc.ListUpdates(ctx, "order-1", "stranger", models.RoleUser); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("stranger: error = %v, want ErrNotFound", err)
	}
	if _, err := svc.ListUpdates(ctx, "order-1", "anyone", models.RoleAdmin); err != nil {
		t.Errorf("admin: %v", err)
	}
}
