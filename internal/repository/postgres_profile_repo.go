package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/MohamadRazaviDev/ApplyTrack/internal/model"
)

// PostgresProfileRepo はPostgreSQLを使用したプロフィールリポジトリ。
// 非構造化データ（links/skills/projects/experience）はJSONBカラムに格納する。
type PostgresProfileRepo struct {
	db *sql.DB
}

// NewPostgresProfileRepo はPostgresProfileRepoを生成する。
func NewPostgresProfileRepo(db *sql.DB) *PostgresProfileRepo {
	return &PostgresProfileRepo{db: db}
}

// FindByUserID は指定ユーザーのプロフィールを取得する。見つからない場合はnilを返す。
func (r *PostgresProfileRepo) FindByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	profile := &model.Profile{}
	var linksJSON, skillsJSON, projectsJSON, experienceJSON []byte

	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, headline, summary, location,
		        links_json, skills_json, projects_json, experience_json, updated_at
		 FROM profiles WHERE user_id = $1`,
		userID,
	).Scan(
		&profile.ID, &profile.UserID, &profile.Headline, &profile.Summary, &profile.Location,
		&linksJSON, &skillsJSON, &projectsJSON, &experienceJSON, &profile.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}

	if err := unmarshalProfileColumns(profile, linksJSON, skillsJSON, projectsJSON, experienceJSON); err != nil {
		return nil, err
	}

	return profile, nil
}

// Create はプロフィールを作成する。
func (r *PostgresProfileRepo) Create(ctx context.Context, profile *model.Profile) error {
	linksJSON, skillsJSON, projectsJSON, experienceJSON, err := marshalProfileColumns(profile)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO profiles (id, user_id, headline, summary, location,
		                       links_json, skills_json, projects_json, experience_json, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		profile.ID, profile.UserID, profile.Headline, profile.Summary, profile.Location,
		linksJSON, skillsJSON, projectsJSON, experienceJSON, profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert profile: %w", err)
	}

	return nil
}

// Update はプロフィール全体を上書き更新する。
func (r *PostgresProfileRepo) Update(ctx context.Context, profile *model.Profile) error {
	linksJSON, skillsJSON, projectsJSON, experienceJSON, err := marshalProfileColumns(profile)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`UPDATE profiles
		 SET headline = $1, summary = $2, location = $3,
		     links_json = $4, skills_json = $5, projects_json = $6, experience_json = $7,
		     updated_at = $8
		 WHERE user_id = $9`,
		profile.Headline, profile.Summary, profile.Location,
		linksJSON, skillsJSON, projectsJSON, experienceJSON,
		profile.UpdatedAt, profile.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	return nil
}

// marshalProfileColumns はJSONBカラム用にスライス・マップをシリアライズする。
// nilはJSONのnullではなく空のコレクションとして格納する。
func marshalProfileColumns(profile *model.Profile) (links, skills, projects, experience []byte, err error) {
	if profile.Links == nil {
		profile.Links = map[string]string{}
	}
	if profile.Skills == nil {
		profile.Skills = []string{}
	}
	if profile.Projects == nil {
		profile.Projects = []model.ProjectItem{}
	}
	if profile.Experience == nil {
		profile.Experience = []model.ExperienceItem{}
	}

	if links, err = json.Marshal(profile.Links); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to marshal links: %w", err)
	}
	if skills, err = json.Marshal(profile.Skills); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to marshal skills: %w", err)
	}
	if projects, err = json.Marshal(profile.Projects); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to marshal projects: %w", err)
	}
	if experience, err = json.Marshal(profile.Experience); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to marshal experience: %w", err)
	}

	return links, skills, projects, experience, nil
}

// unmarshalProfileColumns はJSONBカラムをドメインモデルに復元する。
func unmarshalProfileColumns(profile *model.Profile, links, skills, projects, experience []byte) error {
	if err := json.Unmarshal(links, &profile.Links); err != nil {
		return fmt.Errorf("failed to unmarshal links: %w", err)
	}
	if err := json.Unmarshal(skills, &profile.Skills); err != nil {
		return fmt.Errorf("failed to unmarshal skills: %w", err)
	}
	if err := json.Unmarshal(projects, &profile.Projects); err != nil {
		return fmt.Errorf("failed to unmarshal projects: %w", err)
	}
	if err := json.Unmarshal(experience, &profile.Experience); err != nil {
		return fmt.Errorf("failed to unmarshal experience: %w", err)
	}
	return nil
}

// compile-time interface check
var _ ProfileRepository = (*PostgresProfileRepo)(nil)
