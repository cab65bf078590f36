package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MohamadRazaviDev/ApplyTrack/internal/model"
)

// PostgresAIOutputRepo はPostgreSQLを使用したAI実行結果リポジトリ。
// 行は書き込み後に更新されない（追記専用）。
type PostgresAIOutputRepo struct {
	db *sql.DB
}

// NewPostgresAIOutputRepo はPostgresAIOutputRepoを生成する。
func NewPostgresAIOutputRepo(db *sql.DB) *PostgresAIOutputRepo {
	return &PostgresAIOutputRepo{db: db}
}

// Create はAI実行結果を保存する。
func (r *PostgresAIOutputRepo) Create(ctx context.Context, output *model.AIOutput) error {
	evidence := output.Evidence
	if len(evidence) == 0 {
		evidence = []byte(`[]`)
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO ai_outputs (id, application_id, kind, input_hash, output_json, evidence_json, model, latency_seconds, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		output.ID, output.ApplicationID, output.Kind, output.InputHash,
		[]byte(output.Output), []byte(evidence), output.Model, output.LatencySeconds, output.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert ai output: %w", err)
	}
	return nil
}

// ListByApplicationID は応募のAI実行結果一覧をcreated_at降順で返す。
func (r *PostgresAIOutputRepo) ListByApplicationID(ctx context.Context, applicationID string) ([]*model.AIOutput, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, application_id, kind, input_hash, output_json, evidence_json, model, latency_seconds, created_at
		 FROM ai_outputs WHERE application_id = $1 ORDER BY created_at DESC`,
		applicationID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list ai outputs: %w", err)
	}
	defer rows.Close()

	var outputs []*model.AIOutput
	for rows.Next() {
		output := &model.AIOutput{}
		var outputJSON, evidenceJSON []byte
		err := rows.Scan(
			&output.ID, &output.ApplicationID, &output.Kind, &output.InputHash,
			&outputJSON, &evidenceJSON, &output.Model, &output.LatencySeconds, &output.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ai output: %w", err)
		}
		output.Output = outputJSON
		output.Evidence = evidenceJSON
		outputs = append(outputs, output)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ai outputs: %w", err)
	}

	return outputs, nil
}

// compile-time interface check
var _ AIOutputRepository = (*PostgresAIOutputRepo)(nil)
