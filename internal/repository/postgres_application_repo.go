package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MohamadRazaviDev/ApplyTrack/internal/model"
)

// PostgresApplicationRepo はPostgreSQLを使用した応募リポジトリ。
type PostgresApplicationRepo struct {
	db *sql.DB
}

// NewPostgresApplicationRepo はPostgresApplicationRepoを生成する。
func NewPostgresApplicationRepo(db *sql.DB) *PostgresApplicationRepo {
	return &PostgresApplicationRepo{db: db}
}

// FindByID は指定IDの応募を取得する。見つからない場合はnilを返す。
func (r *PostgresApplicationRepo) FindByID(ctx context.Context, id, userID string) (*model.Application, error) {
	app := &model.Application{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, job_posting_id, status, priority, notes,
		        applied_at, next_followup_at, salary_expectation, created_at, updated_at
		 FROM applications WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(
		&app.ID, &app.UserID, &app.JobPostingID, &app.Status, &app.Priority, &app.Notes,
		&app.AppliedAt, &app.NextFollowupAt, &app.SalaryExpectation, &app.CreatedAt, &app.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find application by ID: %w", err)
	}

	return app, nil
}

// detailQuery は応募・求人・企業を結合するベースクエリ。
const detailQuery = `
	SELECT a.id, a.user_id, a.job_posting_id, a.status, a.priority, a.notes,
	       a.applied_at, a.next_followup_at, a.salary_expectation, a.created_at, a.updated_at,
	       p.id, COALESCE(p.company_id, ''), p.title, p.location, p.remote_type,
	       p.posting_url, p.source, p.description_raw, p.created_at,
	       COALESCE(c.id, ''), COALESCE(c.user_id, ''), COALESCE(c.name, ''),
	       COALESCE(c.website_url, ''), COALESCE(c.linkedin_url, ''), COALESCE(c.careers_url, ''),
	       COALESCE(c.hq_location, ''), COALESCE(c.notes, ''), COALESCE(c.created_at, a.created_at)
	FROM applications a
	JOIN job_postings p ON p.id = a.job_posting_id
	LEFT JOIN companies c ON c.id = p.company_id
	WHERE a.user_id = $1`

func scanDetail(row interface{ Scan(...any) error }) (*model.ApplicationDetail, error) {
	d := &model.ApplicationDetail{}
	err := row.Scan(
		&d.ID, &d.UserID, &d.JobPostingID, &d.Status, &d.Priority, &d.Notes,
		&d.AppliedAt, &d.NextFollowupAt, &d.SalaryExpectation, &d.CreatedAt, &d.UpdatedAt,
		&d.JobPosting.ID, &d.JobPosting.CompanyID, &d.JobPosting.Title, &d.JobPosting.Location,
		&d.JobPosting.RemoteType, &d.JobPosting.PostingURL, &d.JobPosting.Source,
		&d.JobPosting.DescriptionRaw, &d.JobPosting.CreatedAt,
		&d.Company.ID, &d.Company.UserID, &d.Company.Name,
		&d.Company.WebsiteURL, &d.Company.LinkedinURL, &d.Company.CareersURL,
		&d.Company.HQLocation, &d.Company.Notes, &d.Company.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// FindDetailByID は応募を求人・企業情報と結合して取得する。見つからない場合はnilを返す。
func (r *PostgresApplicationRepo) FindDetailByID(ctx context.Context, id, userID string) (*model.ApplicationDetail, error) {
	row := r.db.QueryRowContext(ctx, detailQuery+` AND a.id = $2`, userID, id)

	detail, err := scanDetail(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find application detail: %w", err)
	}

	return detail, nil
}

// List はユーザーの応募一覧をupdated_at降順で返す。
// ステータスと検索語（タイトル・企業名に対するILIKE部分一致）は
// すべてクエリレベルで適用する。全件ロード後のアプリ内絞り込みは行わない。
func (r *PostgresApplicationRepo) List(ctx context.Context, userID string, filter ApplicationFilter) ([]*model.ApplicationDetail, error) {
	query := detailQuery
	args := []any{userID}

	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		query += fmt.Sprintf(` AND a.status = $%d`, len(args))
	}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(` AND (p.title ILIKE $%d OR COALESCE(c.name, '') ILIKE $%d)`, len(args), len(args))
	}

	query += ` ORDER BY a.updated_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var details []*model.ApplicationDetail
	for rows.Next() {
		detail, err := scanDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		details = append(details, detail)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate applications: %w", err)
	}

	return details, nil
}

// CreateFlat は企業（必要な場合）・求人・応募を同一トランザクションで作成する。
func (r *PostgresApplicationRepo) CreateFlat(ctx context.Context, company *model.Company, createCompany bool, posting *model.JobPosting, app *model.Application) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if createCompany {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO companies (id, user_id, name, website_url, linkedin_url, careers_url, hq_location, notes, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			company.ID, company.UserID, company.Name, company.WebsiteURL, company.LinkedinURL,
			company.CareersURL, company.HQLocation, company.Notes, company.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert company: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO job_postings (id, company_id, title, location, remote_type, posting_url, source, description_raw, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		posting.ID, posting.CompanyID, posting.Title, posting.Location, posting.RemoteType,
		posting.PostingURL, posting.Source, posting.DescriptionRaw, posting.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert job posting: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO applications (id, user_id, job_posting_id, status, priority, notes,
		                           applied_at, next_followup_at, salary_expectation, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		app.ID, app.UserID, app.JobPostingID, app.Status, app.Priority, app.Notes,
		app.AppliedAt, app.NextFollowupAt, app.SalaryExpectation, app.CreatedAt, app.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert application: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Update は応募を上書き更新する。
func (r *PostgresApplicationRepo) Update(ctx context.Context, app *model.Application) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE applications
		 SET status = $1, priority = $2, notes = $3,
		     applied_at = $4, next_followup_at = $5, salary_expectation = $6, updated_at = $7
		 WHERE id = $8 AND user_id = $9`,
		app.Status, app.Priority, app.Notes,
		app.AppliedAt, app.NextFollowupAt, app.SalaryExpectation, app.UpdatedAt,
		app.ID, app.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update application: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return model.NewApplicationNotFoundError(app.ID)
	}
	return nil
}

// DeleteCascade は応募と子レコードを同一トランザクションで削除する。
// 削除順序: activity_events → ai_tasks → ai_outputs → reminders → application。
// 求人・企業レコードは他の応募から参照されうるため残す。
func (r *PostgresApplicationRepo) DeleteCascade(ctx context.Context, id, userID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// 子レコード削除の前に所有確認を行う
	var exists bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM applications WHERE id = $1 AND user_id = $2)`,
		id, userID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check application ownership: %w", err)
	}
	if !exists {
		return model.NewApplicationNotFoundError(id)
	}

	for _, table := range []string{"activity_events", "ai_tasks", "ai_outputs", "reminders"} {
		_, err = tx.ExecContext(ctx,
			`DELETE FROM `+table+` WHERE application_id = $1`, id,
		)
		if err != nil {
			return fmt.Errorf("failed to delete %s: %w", table, err)
		}
	}

	result, err := tx.ExecContext(ctx,
		`DELETE FROM applications WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete application: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return model.NewApplicationNotFoundError(id)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// compile-time interface check
var _ ApplicationRepository = (*PostgresApplicationRepo)(nil)
