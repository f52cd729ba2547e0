package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/orbitforum/internal/model"
)

// --- モック定義 ---

type mockUserRepo struct {
	createFn         func(ctx context.Context, user *model.User) error
	findByUsernameFn func(ctx context.Context, username string) (*model.User, error)
	findByIDFn       func(ctx context.Context, id string) (*model.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.findByUsernameFn != nil {
		return m.findByUsernameFn(ctx, username)
	}
	return nil, nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func newTestService(repo *mockUserRepo) *Service {
	// コスト4はbcrypt.MinCost。テストを速くするためだけの値。
	return NewService(repo, NewTokenService("test-secret", 2*time.Hour), 4)
}

// --- テスト ---

func TestService_Register_MissingFields(t *testing.T) {
	svc := newTestService(&mockUserRepo{})

	tests := []struct {
		name      string
		username  string
		email     string
		password  string
		wantField string
	}{
		{"ユーザー名なし", "", "n@x.com", "pw123456", "username"},
		{"メールなし", "nova", "", "pw123456", "email"},
		{"パスワードなし", "nova", "n@x.com", "", "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Register(context.Background(), tt.username, tt.email, tt.password)

			var apiErr *model.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *model.APIError, got %v", err)
			}
			if apiErr.Code != model.ErrCodeValidation {
				t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeValidation)
			}
			if apiErr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", apiErr.Field, tt.wantField)
			}
		})
	}
}

func TestService_Register_HashesPassword(t *testing.T) {
	var created *model.User
	repo := &mockUserRepo{
		createFn: func(ctx context.Context, user *model.User) error {
			created = user
			return nil
		},
	}
	svc := newTestService(repo)

	if err := svc.Register(context.Background(), "nova", "n@x.com", "pw123456"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if created == nil {
		t.Fatal("expected user to be persisted")
	}
	if created.PasswordHash == "pw123456" || created.PasswordHash == "" {
		t.Error("password must be stored as a hash, never as plaintext")
	}
	if !strings.HasPrefix(created.PasswordHash, "$2") {
		t.Errorf("PasswordHash = %q, want bcrypt hash", created.PasswordHash)
	}
	if created.ID == "" {
		t.Error("expected generated surrogate ID")
	}
}

func TestService_Register_StoreFailure(t *testing.T) {
	repo := &mockUserRepo{
		createFn: func(ctx context.Context, user *model.User) error {
			return errors.New("duplicate key value violates unique constraint")
		},
	}
	svc := newTestService(repo)

	err := svc.Register(context.Background(), "nova", "n@x.com", "pw123456")
	if err == nil {
		t.Fatal("expected error from store failure")
	}
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		t.Errorf("store failures must not surface as APIError, got %v", apiErr)
	}
}

func TestService_RegisterThenLogin_RoundTrip(t *testing.T) {
	var stored *model.User
	repo := &mockUserRepo{
		createFn: func(ctx context.Context, user *model.User) error {
			stored = user
			return nil
		},
		findByUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
			if stored != nil && stored.Username == username {
				return stored, nil
			}
			return nil, nil
		},
	}
	svc := newTestService(repo)

	if err := svc.Register(context.Background(), "nova", "n@x.com", "pw123456"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	result, err := svc.Login(context.Background(), "nova", "pw123456")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if result.Token == "" {
		t.Fatal("expected issued token")
	}
	if result.User.Username != "nova" {
		t.Errorf("User.Username = %q, want %q", result.User.Username, "nova")
	}
	if result.Message != "Welcome back, nova!" {
		t.Errorf("Message = %q, want %q", result.Message, "Welcome back, nova!")
	}

	// トークンに埋め込まれたユーザー名が一致すること
	claims, err := svc.tokens.Verify(result.Token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if claims.Username != "nova" || claims.UserID != stored.ID {
		t.Errorf("claims = {%s %s}, want {%s nova}", claims.UserID, claims.Username, stored.ID)
	}
}

func TestService_Login_UnknownUsername(t *testing.T) {
	svc := newTestService(&mockUserRepo{})

	_, err := svc.Login(context.Background(), "ghost", "pw123456")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *model.APIError, got %v", err)
	}
	if apiErr.Field != "username" {
		t.Errorf("Field = %q, want %q", apiErr.Field, "username")
	}
	if apiErr.Status != 401 {
		t.Errorf("Status = %d, want 401", apiErr.Status)
	}
}

func TestService_Login_WrongPassword(t *testing.T) {
	var stored *model.User
	repo := &mockUserRepo{
		createFn: func(ctx context.Context, user *model.User) error {
			stored = user
			return nil
		},
		findByUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
			return stored, nil
		},
	}
	svc := newTestService(repo)

	if err := svc.Register(context.Background(), "nova", "n@x.com", "pw123456"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	_, err := svc.Login(context.Background(), "nova", "wrong")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *model.APIError, got %v", err)
	}
	if apiErr.Field != "password" {
		t.Errorf("Field = %q, want %q", apiErr.Field, "password")
	}
	if apiErr.Status != 401 {
		t.Errorf("Status = %d, want 401", apiErr.Status)
	}
}

func TestService_Login_StoreFailure(t *testing.T) {
	repo := &mockUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
			return nil, errors.New("connection refused")
		},
	}
	svc := newTestService(repo)

	_, err := svc.Login(context.Background(), "nova", "pw123456")
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		t.Errorf("store failures must not surface as APIError, got %v", apiErr)
	}
}
