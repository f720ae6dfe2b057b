package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"growshare/internal/models"
	emailSvc "growshare/pkg/email"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type fakeRepo struct {
	byEmail map[string]*models.User

	createdFarmName string
	createdLocation string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byEmail: make(map[string]*models.User)}
}

func (r *fakeRepo) FindByID(_ context.Context, userID string) (*models.User, error) {
	for _, u := range r.byEmail {
		if u.ID == userID {
			return u, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *fakeRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, models.ErrNotFound
	}
	return u, nil
}

func (r *fakeRepo) FindByPasswordResetToken(_ context.Context, _ string) (*models.User, error) {
	return nil, models.ErrNotFound
}

func (r *fakeRepo) CreateUser(_ context.Context, user *models.User, passwordHash, farmName, location string) (*models.User, error) {
	user.ID = "user-" + user.Email
	user.PasswordHash = passwordHash
	r.byEmail[user.Email] = user
	r.createdFarmName = farmName
	r.createdLocation = location
	return user, nil
}

func (r *fakeRepo) CreateOAuthUser(_ context.Context, user *models.User) (*models.User, error) {
	user.ID = "user-" + user.Email
	r.byEmail[user.Email] = user
	return user, nil
}

func (r *fakeRepo) Update(_ context.Context, _ string, _ models.UserUpdateData) (*models.User, error) {
	return nil, models.ErrNotFound
}

func (r *fakeRepo) SetPasswordResetToken(_ context.Context, _, _ string, _ time.Time) error {
	return nil
}

func (r *fakeRepo) UpdatePasswordAndClearResetToken(_ context.Context, _, _ string) error {
	return nil
}

func (r *fakeRepo) ListAll(_ context.Context, _, _ int) ([]*models.User, int, error) {
	return nil, 0, nil
}

const testSecret = "test-secret"

func newTestService(repo *fakeRepo) ServiceInterface {
	tm, _ := emailSvc.NewTemplateManager()
	return NewService(repo, emailSvc.LogSender{}, tm, testSecret, "http://localhost:5173", nil)
}

func signupReq() models.SignupRequest {
	return models.SignupRequest{
		FullName: "Asha Rao",
		Email:    "asha@example.com",
		Password: "supersecret",
		Role:     models.RoleUser,
	}
}

func TestSignupIssuesTokenWithRole(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	req := signupReq()
	req.Role = models.RoleFarmer
	req.FarmName = "Green Acres"
	req.Location = "Valley Rd"

	resp, err := svc.Signup(context.Background(), req)
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if resp.User.PasswordHash != "" {
		t.Error("password hash leaked in response")
	}
	if repo.createdFarmName != "Green Acres" || repo.createdLocation != "Valley Rd" {
		t.Errorf("farmer profile fields not forwarded: %q / %q", repo.createdFarmName, repo.createdLocation)
	}

	claims := &models.JwtCustomClaims{}
	_, err = jwt.ParseWithClaims(resp.AccessToken, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.Role != models.RoleFarmer {
		t.Errorf("token role = %q, want farmer", claims.Role)
	}
	if claims.UserID == "" {
		t.Error("token has no user id")
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, signupReq()); err != nil {
		t.Fatalf("first signup: %v", err)
	}
	_, err := svc.Signup(ctx, signupReq())
	if !errors.Is(err, models.ErrConflict) {
		t.Fatalf("second signup: error = %v, want ErrConflict", err)
	}
}

func TestLogin(t *testing.T) {
	repo := newFakeRepo()
	hash, err := bcrypt.GenerateFromPassword([]byte("supersecret"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	repo.byEmail["asha@example.com"] = &models.User{
		ID:           "user-1",
		Email:        "asha@example.com",
		PasswordHash: string(hash),
		Role:         models.RoleUser,
	}
	svc := newTestService(repo)
	ctx := context.Background()

	resp, err := svc.Login(ctx, models.LoginRequest{Email: "asha@example.com", Password: "supersecret"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.AccessToken == "" {
		t.Error("no access token issued")
	}

	if _, err := svc.Login(ctx, models.LoginRequest{Email: "asha@example.com", Password: "wrong"}); !errors.Is(err, models.ErrInvalidCredentials) {
		t.Errorf("wrong password: error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(ctx, models.LoginRequest{Email: "nobody@example.com", Password: "supersecret"}); !errors.Is(err, models.ErrInvalidCredentials) {
		t.Errorf("unknown email: error = %v, want ErrInvalidCredentials", err)
	}
}
