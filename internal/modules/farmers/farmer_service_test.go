package farmers

import (
	"context"
	"errors"
	"testing"

	"growshare/internal/models"
)

type fakeRepo struct {
	profiles map[string]*models.FarmerProfile
}

func newFakeRepo(profiles ...*models.FarmerProfile) *fakeRepo {
	r := &fakeRepo{profiles: make(map[string]*models.FarmerProfile)}
	for _, p := range profiles {
		r.profiles[p.ID] = p
	}
	return r
}

func (r *fakeRepo) FindByID(_ context.Context, profileID string) (*models.FarmerProfile, error) {
	p, ok := r.profiles[profileID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return p, nil
}

func (r *fakeRepo) FindByUserID(_ context.Context, userID string) (*models.FarmerProfile, error) {
	for _, p := range r.profiles {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *fakeRepo) FindProfileIDByUserID(ctx context.Context, userID string) (string, error) {
	p, err := r.FindByUserID(ctx, userID)
	if err != nil {
		return "", err
	}
	return p.ID, nil
}

func (r *fakeRepo) Update(ctx context.Context, userID string, req models.UpdateFarmerProfileRequest) (*models.FarmerProfile, error) {
	p, err := r.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.FarmName != nil {
		p.FarmName = *req.FarmName
	}
	return p, nil
}

func (r *fakeRepo) ListPending(_ context.Context) ([]*models.FarmerProfile, error) {
	var out []*models.FarmerProfile
	for _, p := range r.profiles {
		if p.VerificationStatus == models.VerificationPending {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListApproved(_ context.Context, _, _ int) ([]*models.FarmerProfile, int, error) {
	var out []*models.FarmerProfile
	for _, p := range r.profiles {
		if p.VerificationStatus == models.VerificationApproved {
			out = append(out, p)
		}
	}
	return out, len(out), nil
}

func (r *fakeRepo) Review(_ context.Context, profileID, _ string, decision models.VerificationStatus, _ string) (int64, error) {
	p, ok := r.profiles[profileID]
	if !ok || p.VerificationStatus != models.VerificationPending {
		return 0, nil
	}
	p.VerificationStatus = decision
	return 1, nil
}

func pendingProfile(id, userID string) *models.FarmerProfile {
	return &models.FarmerProfile{
		ID:                 id,
		UserID:             userID,
		FarmName:           "Green Acres",
		Location:           "Valley Rd",
		VerificationStatus: models.VerificationPending,
	}
}

func TestReviewFarmerApprove(t *testing.T) {
	repo := newFakeRepo(pendingProfile("fp-1", "u-1"))
	svc := NewService(repo)

	profile, err := svc.ReviewFarmer(context.Background(), "admin-1", "fp-1", models.ReviewFarmerRequest{Decision: "approved"})
	if err != nil {
		t.Fatalf("ReviewFarmer: %v", err)
	}
	if profile.VerificationStatus != models.VerificationApproved {
		t.Errorf("status = %s, want approved", profile.VerificationStatus)
	}
}

func TestReviewFarmerTwice(t *testing.T) {
	repo := newFakeRepo(pendingProfile("fp-1", "u-1"))
	svc := NewService(repo)
	ctx := context.Background()

	if _, err := svc.ReviewFarmer(ctx, "admin-1", "fp-1", models.ReviewFarmerRequest{Decision: "rejected"}); err != nil {
		t.Fatalf("first review: %v", err)
	}

	// A second decision must not overwrite the first.
	_, err := svc.ReviewFarmer(ctx, "admin-1", "fp-1", models.ReviewFarmerRequest{Decision: "approved"})
	if !errors.Is(err, models.ErrIllegalTransition) {
		t.Fatalf("second review: error = %v, want ErrIllegalTransition", err)
	}
	if repo.profiles["fp-1"].VerificationStatus != models.VerificationRejected {
		t.Errorf("status = %s, first decision must stand", repo.profiles["fp-1"].VerificationStatus)
	}
}

func TestReviewFarmerMissing(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.ReviewFarmer(context.Background(), "admin-1", "fp-404", models.ReviewFarmerRequest{Decision: "approved"})
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestGetFarmerHidesUnapproved(t *testing.T) {
	pending := pendingProfile("fp-1", "u-1")
	approved := pendingProfile("fp-2", "u-2")
	approved.VerificationStatus = models.VerificationApproved
	svc := NewService(newFakeRepo(pending, approved))
	ctx := context.Background()

	if _, err := svc.GetFarmer(ctx, "fp-1"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("pending farmer visible to consumers: %v", err)
	}
	if _, err := svc.GetFarmer(ctx, "fp-2"); err != nil {
		t.Errorf("approved farmer: %v", err)
	}
}

func TestListVisibleFarmersOnlyApproved(t *testing.T) {
	pending := pendingProfile("fp-1", "u-1")
	approved := pendingProfile("fp-2", "u-2")
	approved.VerificationStatus = models.VerificationApproved
	svc := NewService(newFakeRepo(pending, approved))

	visible, total, err := svc.ListVisibleFarmers(context.Background(), 1, 20)
	if err != nil {
		t.Fatalf("ListVisibleFarmers: %v", err)
	}
	if total != 1 || len(visible) != 1 || visible[0].ID != "fp-2" {
		t.Errorf("visible = %d farmers, want only fp-2", len(visible))
	}
}
