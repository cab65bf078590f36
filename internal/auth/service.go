// Package auth はパスワード認証とJWT発行・検証を提供する。
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/MohamadRazaviDev/ApplyTrack/internal/model"
	"github.com/MohamadRazaviDev/ApplyTrack/internal/repository"
)

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	JWTSecret         string
	TokenExpiry       time.Duration
	AllowRegistration bool
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	userRepo repository.UserRepository
	tokens   *TokenIssuer
	config   ServiceConfig
}

// NewService はServiceを生成する。
func NewService(userRepo repository.UserRepository, config ServiceConfig) *Service {
	return &Service{
		userRepo: userRepo,
		tokens:   NewTokenIssuer(config.JWTSecret, config.TokenExpiry),
		config:   config,
	}
}

// Register は新規ユーザーを登録し、アクセストークンを発行する。
// 登録と同時に空のプロフィールを作成する。全ユーザーは登録時点で
// プロフィールを持つという不変条件をここで保証する。
func (s *Service) Register(ctx context.Context, email, password string) (string, *model.User, error) {
	if !s.config.AllowRegistration {
		return "", nil, model.NewRegistrationDisabledError()
	}

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	if existing != nil {
		return "", nil, model.NewEmailTakenError()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
	}
	profile := &model.Profile{
		ID:         uuid.New().String(),
		UserID:     user.ID,
		Links:      map[string]string{},
		Skills:     []string{},
		Projects:   []model.ProjectItem{},
		Experience: []model.ExperienceItem{},
		UpdatedAt:  now,
	}

	if err := s.userRepo.CreateWithProfile(ctx, user, profile); err != nil {
		return "", nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %w", err)
	}

	slog.Info("new user registered", slog.String("user_id", user.ID))
	return token, user, nil
}

// Login はメールアドレスとパスワードを検証し、アクセストークンを発行する。
// メールアドレス未登録とパスワード不一致は区別せず同じエラーを返す。
func (s *Service) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	if user == nil {
		return "", nil, model.NewInvalidCredentialsError()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, model.NewInvalidCredentialsError()
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %w", err)
	}

	slog.Info("user logged in", slog.String("user_id", user.ID))
	return token, user, nil
}

// Me は認証済みユーザーIDからユーザー情報を取得する。
func (s *Service) Me(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}
	return user, nil
}

// ResolveUser はアクセストークンを検証し、対応するユーザーを取得する。
// トークン不正・期限切れ・ユーザー不在はいずれも認証エラーとして扱う。
func (s *Service) ResolveUser(ctx context.Context, token string) (*model.User, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, model.NewUnauthorizedError()
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewUnauthorizedError()
	}

	return user, nil
}
