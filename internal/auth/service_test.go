package auth

import (
	"context"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/MohamadRazaviDev/ApplyTrack/internal/model"
)

// mockUserRepo はUserRepositoryのテスト用モック。
type mockUserRepo struct {
	findByIDFunc          func(ctx context.Context, id string) (*model.User, error)
	findByEmailFunc       func(ctx context.Context, email string) (*model.User, error)
	createWithProfileFunc func(ctx context.Context, user *model.User, profile *model.Profile) error
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	return m.findByIDFunc(ctx, id)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return m.findByEmailFunc(ctx, email)
}

func (m *mockUserRepo) CreateWithProfile(ctx context.Context, user *model.User, profile *model.Profile) error {
	return m.createWithProfileFunc(ctx, user, profile)
}

func newTestService(repo *mockUserRepo) *Service {
	return NewService(repo, ServiceConfig{
		JWTSecret:         "test-secret",
		TokenExpiry:       time.Hour,
		AllowRegistration: true,
	})
}

func TestRegister(t *testing.T) {
	t.Run("新規ユーザーを空プロフィール付きで作成する", func(t *testing.T) {
		var createdUser *model.User
		var createdProfile *model.Profile

		repo := &mockUserRepo{
			findByEmailFunc: func(ctx context.Context, email string) (*model.User, error) {
				return nil, nil
			},
			createWithProfileFunc: func(ctx context.Context, user *model.User, profile *model.Profile) error {
				createdUser = user
				createdProfile = profile
				return nil
			},
		}

		service := newTestService(repo)
		token, user, err := service.Register(context.Background(), "alice@example.com", "password123")
		if err != nil {
			t.Fatalf("Register() error = %v", err)
		}
		if token == "" {
			t.Error("Register() returned empty token")
		}
		if user.Email != "alice@example.com" {
			t.Errorf("user.Email = %s, want alice@example.com", user.Email)
		}
		if createdUser == nil || createdProfile == nil {
			t.Fatal("user and profile were not created")
		}
		if createdProfile.UserID != createdUser.ID {
			t.Errorf("profile.UserID = %s, want %s", createdProfile.UserID, createdUser.ID)
		}
		if createdUser.PasswordHash == "password123" {
			t.Error("password was stored in plaintext")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(createdUser.PasswordHash), []byte("password123")); err != nil {
			t.Errorf("stored hash does not match password: %v", err)
		}
	})

	t.Run("メールアドレス重複の場合はEMAIL_TAKENを返す", func(t *testing.T) {
		repo := &mockUserRepo{
			findByEmailFunc: func(ctx context.Context, email string) (*model.User, error) {
				return &model.User{ID: "existing", Email: email}, nil
			},
		}

		service := newTestService(repo)
		_, _, err := service.Register(context.Background(), "alice@example.com", "password123")

		apiErr, ok := err.(*model.APIError)
		if !ok {
			t.Fatalf("expected APIError, got %T", err)
		}
		if apiErr.Code != model.ErrCodeEmailTaken {
			t.Errorf("Code = %s, want %s", apiErr.Code, model.ErrCodeEmailTaken)
		}
	})

	t.Run("登録無効時はREGISTRATION_DISABLEDを返す", func(t *testing.T) {
		service := NewService(&mockUserRepo{}, ServiceConfig{
			JWTSecret:         "test-secret",
			TokenExpiry:       time.Hour,
			AllowRegistration: false,
		})

		_, _, err := service.Register(context.Background(), "alice@example.com", "password123")

		apiErr, ok := err.(*model.APIError)
		if !ok {
			t.Fatalf("expected APIError, got %T", err)
		}
		if apiErr.Code != model.ErrCodeRegistrationDisabled {
			t.Errorf("Code = %s, want %s", apiErr.Code, model.ErrCodeRegistrationDisabled)
		}
	})
}

func TestLogin(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.DefaultCost)
	storedUser := &model.User{
		ID:           "user-1",
		Email:        "alice@example.com",
		PasswordHash: string(hash),
	}

	t.Run("正しい資格情報でトークンを発行する", func(t *testing.T) {
		repo := &mockUserRepo{
			findByEmailFunc: func(ctx context.Context, email string) (*model.User, error) {
				return storedUser, nil
			},
		}

		service := newTestService(repo)
		token, user, err := service.Login(context.Background(), "alice@example.com", "correct-password")
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if token == "" {
			t.Error("Login() returned empty token")
		}
		if user.ID != "user-1" {
			t.Errorf("user.ID = %s, want user-1", user.ID)
		}
	})

	t.Run("パスワード不一致はINVALID_CREDENTIALSを返す", func(t *testing.T) {
		repo := &mockUserRepo{
			findByEmailFunc: func(ctx context.Context, email string) (*model.User, error) {
				return storedUser, nil
			},
		}

		service := newTestService(repo)
		_, _, err := service.Login(context.Background(), "alice@example.com", "wrong-password")

		apiErr, ok := err.(*model.APIError)
		if !ok {
			t.Fatalf("expected APIError, got %T", err)
		}
		if apiErr.Code != model.ErrCodeInvalidCredentials {
			t.Errorf("Code = %s, want %s", apiErr.Code, model.ErrCodeInvalidCredentials)
		}
	})

	t.Run("未登録メールアドレスも同じINVALID_CREDENTIALSを返す", func(t *testing.T) {
		repo := &mockUserRepo{
			findByEmailFunc: func(ctx context.Context, email string) (*model.User, error) {
				return nil, nil
			},
		}

		service := newTestService(repo)
		_, _, err := service.Login(context.Background(), "nobody@example.com", "whatever")

		apiErr, ok := err.(*model.APIError)
		if !ok {
			t.Fatalf("expected APIError, got %T", err)
		}
		if apiErr.Code != model.ErrCodeInvalidCredentials {
			t.Errorf("Code = %s, want %s", apiErr.Code, model.ErrCodeInvalidCredentials)
		}
	})
}

func TestResolveUser(t *testing.T) {
	t.Run("有効なトークンでユーザーを解決する", func(t *testing.T) {
		repo := &mockUserRepo{
			findByIDFunc: func(ctx context.Context, id string) (*model.User, error) {
				return &model.User{ID: id, Email: "alice@example.com"}, nil
			},
		}

		service := newTestService(repo)
		token, err := service.tokens.Issue("user-1")
		if err != nil {
			t.Fatalf("Issue() error = %v", err)
		}

		user, err := service.ResolveUser(context.Background(), token)
		if err != nil {
			t.Fatalf("ResolveUser() error = %v", err)
		}
		if user.ID != "user-1" {
			t.Errorf("user.ID = %s, want user-1", user.ID)
		}
	})

	t.Run("不正なトークンはUNAUTHORIZEDを返す", func(t *testing.T) {
		service := newTestService(&mockUserRepo{})

		_, err := service.ResolveUser(context.Background(), "not-a-token")

		apiErr, ok := err.(*model.APIError)
		if !ok {
			t.Fatalf("expected APIError, got %T", err)
		}
		if apiErr.Code != model.ErrCodeUnauthorized {
			t.Errorf("Code = %s, want %s", apiErr.Code, model.ErrCodeUnauthorized)
		}
	})

	t.Run("トークンは有効だがユーザーが存在しない場合もUNAUTHORIZEDを返す", func(t *testing.T) {
		repo := &mockUserRepo{
			findByIDFunc: func(ctx context.Context, id string) (*model.User, error) {
				return nil, nil
			},
		}

		service := newTestService(repo)
		token, _ := service.tokens.Issue("deleted-user")

		_, err := service.ResolveUser(context.Background(), token)

		apiErr, ok := err.(*model.APIError)
		if !ok {
			t.Fatalf("expected APIError, got %T", err)
		}
		if apiErr.Code != model.ErrCodeUnauthorized {
			t.Errorf("Code = %s, want %s", apiErr.Code, model.ErrCodeUnauthorized)
		}
	})
}

func TestTokenIssuer(t *testing.T) {
	t.Run("発行したトークンを検証できる", func(t *testing.T) {
		issuer := NewTokenIssuer("secret", time.Hour)

		token, err := issuer.Issue("user-42")
		if err != nil {
			t.Fatalf("Issue() error = %v", err)
		}

		userID, err := issuer.Verify(token)
		if err != nil {
			t.Fatalf("Verify() error = %v", err)
		}
		if userID != "user-42" {
			t.Errorf("userID = %s, want user-42", userID)
		}
	})

	t.Run("期限切れトークンを拒否する", func(t *testing.T) {
		issuer := NewTokenIssuer("secret", -time.Minute)

		token, err := issuer.Issue("user-42")
		if err != nil {
			t.Fatalf("Issue() error = %v", err)
		}

		if _, err := issuer.Verify(token); err == nil {
			t.Error("Verify() accepted an expired token")
		}
	})

	t.Run("異なる鍵で署名されたトークンを拒否する", func(t *testing.T) {
		issuer := NewTokenIssuer("secret-a", time.Hour)
		other := NewTokenIssuer("secret-b", time.Hour)

		token, err := other.Issue("user-42")
		if err != nil {
			t.Fatalf("Issue() error = %v", err)
		}

		if _, err := issuer.Verify(token); err == nil {
			t.Error("Verify() accepted a token signed with a different key")
		}
	})
}
