package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MohamadRazaviDev/ApplyTrack/internal/model"
)

// PostgresCompanyRepo はPostgreSQLを使用した企業リポジトリ。
type PostgresCompanyRepo struct {
	db *sql.DB
}

// NewPostgresCompanyRepo はPostgresCompanyRepoを生成する。
func NewPostgresCompanyRepo(db *sql.DB) *PostgresCompanyRepo {
	return &PostgresCompanyRepo{db: db}
}

const companyColumns = `id, user_id, name, website_url, linkedin_url, careers_url, hq_location, notes, created_at`

func scanCompany(row interface{ Scan(...any) error }) (*model.Company, error) {
	c := &model.Company{}
	err := row.Scan(
		&c.ID, &c.UserID, &c.Name, &c.WebsiteURL, &c.LinkedinURL,
		&c.CareersURL, &c.HQLocation, &c.Notes, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// FindByID は指定IDの企業を取得する。見つからない場合はnilを返す。
func (r *PostgresCompanyRepo) FindByID(ctx context.Context, id, userID string) (*model.Company, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	company, err := scanCompany(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find company by ID: %w", err)
	}
	return company, nil
}

// FindByName は企業名で企業を検索する。見つからない場合はnilを返す。
func (r *PostgresCompanyRepo) FindByName(ctx context.Context, userID, name string) (*model.Company, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE user_id = $1 AND name = $2`,
		userID, name,
	)
	company, err := scanCompany(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find company by name: %w", err)
	}
	return company, nil
}

// ListByUserID はユーザーの企業一覧を名前順で返す。
func (r *PostgresCompanyRepo) ListByUserID(ctx context.Context, userID string) ([]*model.Company, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE user_id = $1 ORDER BY name`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	var companies []*model.Company
	for rows.Next() {
		company, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		companies = append(companies, company)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate companies: %w", err)
	}

	return companies, nil
}

// compile-time interface check
var _ CompanyRepository = (*PostgresCompanyRepo)(nil)
