// Package profile はユーザープロフィールに関するビジネスロジックを提供する。
package profile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/MohamadRazaviDev/ApplyTrack/internal/model"
	"github.com/MohamadRazaviDev/ApplyTrack/internal/repository"
)

// Service はプロフィールに関するビジネスロジックを提供する。
// プロフィールはAIプロンプトのグラウンディング情報として使用されるため、
// 取得時に存在しない場合は空のプロフィールを遅延作成する。
type Service struct {
	profileRepo repository.ProfileRepository
}

// NewService はServiceを生成する。
func NewService(profileRepo repository.ProfileRepository) *Service {
	return &Service{profileRepo: profileRepo}
}

// Get はユーザーのプロフィールを取得する。
// 存在しない場合（登録時の作成より前のレコードなど）は空のプロフィールを
// 作成して返す。
func (s *Service) Get(ctx context.Context, userID string) (*model.Profile, error) {
	profile, err := s.profileRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}
	if profile != nil {
		return profile, nil
	}

	profile = blankProfile(userID)
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to create blank profile: %w", err)
	}

	slog.Info("blank profile created", slog.String("user_id", userID))
	return profile, nil
}

// Update はプロフィールを部分更新する。
// パッチに含まれたフィールドのみを明示的にマージし、UpdatedAtを進める。
func (s *Service) Update(ctx context.Context, userID string, patch model.ProfilePatch) (*model.Profile, error) {
	profile, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if patch.Headline != nil {
		profile.Headline = *patch.Headline
	}
	if patch.Summary != nil {
		profile.Summary = *patch.Summary
	}
	if patch.Location != nil {
		profile.Location = *patch.Location
	}
	if patch.Links != nil {
		profile.Links = *patch.Links
	}
	if patch.Skills != nil {
		profile.Skills = *patch.Skills
	}
	if patch.Projects != nil {
		profile.Projects = *patch.Projects
	}
	if patch.Experience != nil {
		profile.Experience = *patch.Experience
	}
	profile.UpdatedAt = time.Now()

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return profile, nil
}

func blankProfile(userID string) *model.Profile {
	return &model.Profile{
		ID:         uuid.New().String(),
		UserID:     userID,
		Links:      map[string]string{},
		Skills:     []string{},
		Projects:   []model.ProjectItem{},
		Experience: []model.ExperienceItem{},
		UpdatedAt:  time.Now(),
	}
}
