package profile

import (
	"context"
	"testing"

	"github.com/MohamadRazaviDev/ApplyTrack/internal/model"
)

// mockProfileRepo はProfileRepositoryのテスト用モック。
type mockProfileRepo struct {
	findByUserIDFunc func(ctx context.Context, userID string) (*model.Profile, error)
	createFunc       func(ctx context.Context, profile *model.Profile) error
	updateFunc       func(ctx context.Context, profile *model.Profile) error
}

func (m *mockProfileRepo) FindByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	return m.findByUserIDFunc(ctx, userID)
}

func (m *mockProfileRepo) Create(ctx context.Context, profile *model.Profile) error {
	return m.createFunc(ctx, profile)
}

func (m *mockProfileRepo) Update(ctx context.Context, profile *model.Profile) error {
	return m.updateFunc(ctx, profile)
}

func TestGet(t *testing.T) {
	t.Run("既存プロフィールをそのまま返す", func(t *testing.T) {
		stored := &model.Profile{ID: "profile-1", UserID: "user-1", Headline: "Backend Engineer"}
		repo := &mockProfileRepo{
			findByUserIDFunc: func(ctx context.Context, userID string) (*model.Profile, error) {
				return stored, nil
			},
		}

		service := NewService(repo)
		profile, err := service.Get(context.Background(), "user-1")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if profile.Headline != "Backend Engineer" {
			t.Errorf("Headline = %s, want Backend Engineer", profile.Headline)
		}
	})

	t.Run("プロフィールが無い場合は空プロフィールを遅延作成する", func(t *testing.T) {
		var created *model.Profile
		repo := &mockProfileRepo{
			findByUserIDFunc: func(ctx context.Context, userID string) (*model.Profile, error) {
				return nil, nil
			},
			createFunc: func(ctx context.Context, profile *model.Profile) error {
				created = profile
				return nil
			},
		}

		service := NewService(repo)
		profile, err := service.Get(context.Background(), "user-1")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}

		if created == nil {
			t.Fatal("blank profile was not created")
		}
		if profile.UserID != "user-1" {
			t.Errorf("UserID = %s, want user-1", profile.UserID)
		}
		if profile.Skills == nil || profile.Links == nil {
			t.Error("collections should be initialized, not nil")
		}
	})
}

func TestUpdate(t *testing.T) {
	t.Run("パッチに含まれたフィールドのみ更新する", func(t *testing.T) {
		stored := &model.Profile{
			ID:       "profile-1",
			UserID:   "user-1",
			Headline: "Backend Engineer",
			Summary:  "元の自己紹介",
			Skills:   []string{"Go"},
		}
		var updated *model.Profile

		repo := &mockProfileRepo{
			findByUserIDFunc: func(ctx context.Context, userID string) (*model.Profile, error) {
				return stored, nil
			},
			updateFunc: func(ctx context.Context, profile *model.Profile) error {
				updated = profile
				return nil
			},
		}

		service := NewService(repo)

		newSkills := []string{"Go", "PostgreSQL"}
		profile, err := service.Update(context.Background(), "user-1", model.ProfilePatch{
			Skills: &newSkills,
		})
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}

		if updated == nil {
			t.Fatal("profile was not persisted")
		}
		if len(profile.Skills) != 2 {
			t.Errorf("len(Skills) = %d, want 2", len(profile.Skills))
		}
		if profile.Headline != "Backend Engineer" {
			t.Errorf("Headline = %s, want unchanged", profile.Headline)
		}
		if profile.Summary != "元の自己紹介" {
			t.Errorf("Summary = %s, want unchanged", profile.Summary)
		}
	})
}
