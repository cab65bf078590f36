package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MohamadRazaviDev/ApplyTrack/internal/model"
)

// PostgresActivityEventRepo はPostgreSQLを使用した応募タイムラインリポジトリ。
type PostgresActivityEventRepo struct {
	db *sql.DB
}

// NewPostgresActivityEventRepo はPostgresActivityEventRepoを生成する。
func NewPostgresActivityEventRepo(db *sql.DB) *PostgresActivityEventRepo {
	return &PostgresActivityEventRepo{db: db}
}

// Append はイベントを追記する。
func (r *PostgresActivityEventRepo) Append(ctx context.Context, event *model.ActivityEvent) error {
	var payload any
	if len(event.Payload) > 0 {
		payload = []byte(event.Payload)
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO activity_events (id, application_id, type, payload_json, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		event.ID, event.ApplicationID, event.Type, payload, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert activity event: %w", err)
	}
	return nil
}

// ListByApplicationID は応募のイベント一覧をcreated_at降順で返す。
func (r *PostgresActivityEventRepo) ListByApplicationID(ctx context.Context, applicationID string) ([]*model.ActivityEvent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, application_id, type, payload_json, created_at
		 FROM activity_events WHERE application_id = $1 ORDER BY created_at DESC`,
		applicationID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity events: %w", err)
	}
	defer rows.Close()

	var events []*model.ActivityEvent
	for rows.Next() {
		event := &model.ActivityEvent{}
		var payloadJSON []byte
		err := rows.Scan(&event.ID, &event.ApplicationID, &event.Type, &payloadJSON, &event.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity event: %w", err)
		}
		event.Payload = payloadJSON
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate activity events: %w", err)
	}

	return events, nil
}

// compile-time interface check
var _ ActivityEventRepository = (*PostgresActivityEventRepo)(nil)
