package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MohamadRazaviDev/ApplyTrack/internal/model"
)

// PostgresReminderRepo はPostgreSQLを使用したリマインダーリポジトリ。
type PostgresReminderRepo struct {
	db *sql.DB
}

// NewPostgresReminderRepo はPostgresReminderRepoを生成する。
func NewPostgresReminderRepo(db *sql.DB) *PostgresReminderRepo {
	return &PostgresReminderRepo{db: db}
}

const reminderColumns = `id, application_id, user_id, text, due_at, done, created_at`

func scanReminder(row interface{ Scan(...any) error }) (*model.Reminder, error) {
	rem := &model.Reminder{}
	err := row.Scan(
		&rem.ID, &rem.ApplicationID, &rem.UserID, &rem.Text, &rem.DueAt, &rem.Done, &rem.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return rem, nil
}

// FindByID は指定IDのリマインダーを取得する。見つからない場合はnilを返す。
func (r *PostgresReminderRepo) FindByID(ctx context.Context, id, userID string) (*model.Reminder, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+reminderColumns+` FROM reminders WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	reminder, err := scanReminder(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find reminder by ID: %w", err)
	}
	return reminder, nil
}

// Create はリマインダーを作成する。
func (r *PostgresReminderRepo) Create(ctx context.Context, reminder *model.Reminder) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO reminders (id, application_id, user_id, text, due_at, done, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		reminder.ID, reminder.ApplicationID, reminder.UserID,
		reminder.Text, reminder.DueAt, reminder.Done, reminder.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert reminder: %w", err)
	}
	return nil
}

// ListByUserID はユーザーのリマインダー一覧をdue_at昇順で返す。
func (r *PostgresReminderRepo) ListByUserID(ctx context.Context, userID string, done *bool) ([]*model.Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM reminders WHERE user_id = $1`
	args := []any{userID}

	if done != nil {
		args = append(args, *done)
		query += fmt.Sprintf(` AND done = $%d`, len(args))
	}
	query += ` ORDER BY due_at ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	defer rows.Close()

	var reminders []*model.Reminder
	for rows.Next() {
		reminder, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		reminders = append(reminders, reminder)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reminders: %w", err)
	}

	return reminders, nil
}

// Update はリマインダーを上書き更新する。
func (r *PostgresReminderRepo) Update(ctx context.Context, reminder *model.Reminder) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE reminders SET text = $1, due_at = $2, done = $3
		 WHERE id = $4 AND user_id = $5`,
		reminder.Text, reminder.DueAt, reminder.Done, reminder.ID, reminder.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update reminder: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return model.NewReminderNotFoundError(reminder.ID)
	}
	return nil
}

// compile-time interface check
var _ ReminderRepository = (*PostgresReminderRepo)(nil)
