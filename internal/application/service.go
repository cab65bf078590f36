// Package application は応募トラッキングに関するビジネスロジックを提供する。
package application

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/MohamadRazaviDev/ApplyTrack/internal/model"
	"github.com/MohamadRazaviDev/ApplyTrack/internal/repository"
	"github.com/MohamadRazaviDev/ApplyTrack/internal/security"
)

// CreateInput は応募のフラット作成の入力を表す。
// 企業名と求人タイトルから企業・求人・応募を1リクエストで作成する。
// 企業名が既存企業と一致する場合はその企業に紐づける。
type CreateInput struct {
	CompanyName       string
	Title             string
	Location          string
	RemoteType        model.RemoteType
	PostingURL        string
	Source            model.JobSource
	DescriptionRaw    string
	Status            model.ApplicationStatus
	Priority          model.ApplicationPriority
	Notes             string
	AppliedAt         *time.Time
	NextFollowupAt    *time.Time
	SalaryExpectation *int
}

// Service は応募に関するビジネスロジックを提供する。
type Service struct {
	appRepo      repository.ApplicationRepository
	companyRepo  repository.CompanyRepository
	aiOutputRepo repository.AIOutputRepository
	activityRepo repository.ActivityEventRepository
	sanitizer    security.ContentSanitizerService
}

// NewService はServiceを生成する。
func NewService(
	appRepo repository.ApplicationRepository,
	companyRepo repository.CompanyRepository,
	aiOutputRepo repository.AIOutputRepository,
	activityRepo repository.ActivityEventRepository,
	sanitizer security.ContentSanitizerService,
) *Service {
	return &Service{
		appRepo:      appRepo,
		companyRepo:  companyRepo,
		aiOutputRepo: aiOutputRepo,
		activityRepo: activityRepo,
		sanitizer:    sanitizer,
	}
}

// List はユーザーの応募一覧を更新日時の降順で返す。
// ステータス・検索語の絞り込みはリポジトリのクエリレベルで行う。
func (s *Service) List(ctx context.Context, userID string, filter repository.ApplicationFilter) ([]*model.ApplicationDetail, error) {
	if filter.Status != nil && !model.ValidApplicationStatus(*filter.Status) {
		return nil, model.NewValidationError(fmt.Sprintf("不明なステータスです: %s", *filter.Status))
	}

	details, err := s.appRepo.List(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return details, nil
}

// Get は応募を求人・企業情報と結合して取得する。
func (s *Service) Get(ctx context.Context, userID, id string) (*model.ApplicationDetail, error) {
	detail, err := s.appRepo.FindDetailByID(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find application: %w", err)
	}
	if detail == nil {
		return nil, model.NewApplicationNotFoundError(id)
	}
	return detail, nil
}

// Create は企業・求人・応募をまとめて作成する。
// 同名の既存企業があれば再利用し、なければ新規作成する。
// 求人票本文とメモは保存前にサニタイズする。
func (s *Service) Create(ctx context.Context, userID string, input CreateInput) (*model.ApplicationDetail, error) {
	if err := s.validateCreateInput(&input); err != nil {
		return nil, err
	}

	company, err := s.companyRepo.FindByName(ctx, userID, input.CompanyName)
	if err != nil {
		return nil, fmt.Errorf("failed to find company by name: %w", err)
	}

	now := time.Now()
	createCompany := company == nil
	if createCompany {
		company = &model.Company{
			ID:        uuid.New().String(),
			UserID:    userID,
			Name:      input.CompanyName,
			CreatedAt: now,
		}
	}

	posting := &model.JobPosting{
		ID:             uuid.New().String(),
		CompanyID:      company.ID,
		Title:          input.Title,
		Location:       input.Location,
		RemoteType:     input.RemoteType,
		PostingURL:     input.PostingURL,
		Source:         input.Source,
		DescriptionRaw: s.sanitizer.Sanitize(input.DescriptionRaw),
		CreatedAt:      now,
	}

	app := &model.Application{
		ID:                uuid.New().String(),
		UserID:            userID,
		JobPostingID:      posting.ID,
		Status:            input.Status,
		Priority:          input.Priority,
		Notes:             s.sanitizer.Sanitize(input.Notes),
		AppliedAt:         input.AppliedAt,
		NextFollowupAt:    input.NextFollowupAt,
		SalaryExpectation: input.SalaryExpectation,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.appRepo.CreateFlat(ctx, company, createCompany, posting, app); err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	slog.Info("application created",
		slog.String("application_id", app.ID),
		slog.String("user_id", userID),
		slog.String("company", company.Name),
	)

	return s.Get(ctx, userID, app.ID)
}

// Update は応募を部分更新する。
// パッチに含まれたフィールドのみを明示的にマージする。
// ステータス変更時はstatus_changed、メモ変更時はnote_addedイベントを
// タイムラインに追記する。
func (s *Service) Update(ctx context.Context, userID, id string, patch model.ApplicationPatch) (*model.ApplicationDetail, error) {
	app, err := s.appRepo.FindByID(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find application: %w", err)
	}
	if app == nil {
		return nil, model.NewApplicationNotFoundError(id)
	}

	statusFrom := app.Status
	statusChanged := false
	noteChanged := false

	if patch.Status != nil {
		if !model.ValidApplicationStatus(*patch.Status) {
			return nil, model.NewValidationError(fmt.Sprintf("不明なステータスです: %s", *patch.Status))
		}
		statusChanged = *patch.Status != app.Status
		app.Status = *patch.Status
	}
	if patch.Priority != nil {
		if !model.ValidApplicationPriority(*patch.Priority) {
			return nil, model.NewValidationError(fmt.Sprintf("不明な優先度です: %s", *patch.Priority))
		}
		app.Priority = *patch.Priority
	}
	if patch.Notes != nil {
		sanitized := s.sanitizer.Sanitize(*patch.Notes)
		noteChanged = sanitized != app.Notes
		app.Notes = sanitized
	}
	if patch.AppliedAt != nil {
		app.AppliedAt = patch.AppliedAt
	}
	if patch.NextFollowupAt != nil {
		app.NextFollowupAt = patch.NextFollowupAt
	}
	if patch.SalaryExpectation != nil {
		app.SalaryExpectation = patch.SalaryExpectation
	}
	app.UpdatedAt = time.Now()

	if err := s.appRepo.Update(ctx, app); err != nil {
		return nil, fmt.Errorf("failed to update application: %w", err)
	}

	if statusChanged {
		payload, _ := json.Marshal(map[string]string{
			"from": string(statusFrom),
			"to":   string(app.Status),
		})
		s.appendEvent(ctx, app.ID, model.EventStatusChanged, payload)
	}
	if noteChanged {
		s.appendEvent(ctx, app.ID, model.EventNoteAdded, nil)
	}

	return s.Get(ctx, userID, id)
}

// Delete は応募と子レコードをまとめて削除する。
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if err := s.appRepo.DeleteCascade(ctx, id, userID); err != nil {
		if _, ok := err.(*model.APIError); ok {
			return err
		}
		return fmt.Errorf("failed to delete application: %w", err)
	}

	slog.Info("application deleted",
		slog.String("application_id", id),
		slog.String("user_id", userID),
	)
	return nil
}

// ListAIOutputs は応募のAI実行結果一覧を返す。
func (s *Service) ListAIOutputs(ctx context.Context, userID, applicationID string) ([]*model.AIOutput, error) {
	if err := s.checkOwnership(ctx, userID, applicationID); err != nil {
		return nil, err
	}

	outputs, err := s.aiOutputRepo.ListByApplicationID(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ai outputs: %w", err)
	}
	return outputs, nil
}

// ListActivity は応募のタイムラインイベント一覧を返す。
func (s *Service) ListActivity(ctx context.Context, userID, applicationID string) ([]*model.ActivityEvent, error) {
	if err := s.checkOwnership(ctx, userID, applicationID); err != nil {
		return nil, err
	}

	events, err := s.activityRepo.ListByApplicationID(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity events: %w", err)
	}
	return events, nil
}

func (s *Service) validateCreateInput(input *CreateInput) error {
	if input.CompanyName == "" {
		return model.NewValidationError("企業名は必須です")
	}
	if input.Title == "" {
		return model.NewValidationError("求人タイトルは必須です")
	}

	// 未指定はデフォルト値で補完する
	if input.Status == "" {
		input.Status = model.StatusNotApplied
	}
	if input.Priority == "" {
		input.Priority = model.PriorityMedium
	}
	if input.RemoteType == "" {
		input.RemoteType = model.RemoteOnsite
	}
	if input.Source == "" {
		input.Source = model.SourceOther
	}

	if !model.ValidApplicationStatus(input.Status) {
		return model.NewValidationError(fmt.Sprintf("不明なステータスです: %s", input.Status))
	}
	if !model.ValidApplicationPriority(input.Priority) {
		return model.NewValidationError(fmt.Sprintf("不明な優先度です: %s", input.Priority))
	}
	return nil
}

func (s *Service) checkOwnership(ctx context.Context, userID, applicationID string) error {
	app, err := s.appRepo.FindByID(ctx, applicationID, userID)
	if err != nil {
		return fmt.Errorf("failed to find application: %w", err)
	}
	if app == nil {
		return model.NewApplicationNotFoundError(applicationID)
	}
	return nil
}

// appendEvent はタイムラインイベントを追記する。
// イベント追記の失敗は主操作を巻き戻さず、ログに記録するのみとする。
func (s *Service) appendEvent(ctx context.Context, applicationID string, eventType model.ActivityEventType, payload json.RawMessage) {
	event := &model.ActivityEvent{
		ID:            uuid.New().String(),
		ApplicationID: applicationID,
		Type:          eventType,
		Payload:       payload,
		CreatedAt:     time.Now(),
	}
	if err := s.activityRepo.Append(ctx, event); err != nil {
		slog.Warn("failed to append activity event",
			slog.String("application_id", applicationID),
			slog.String("type", string(eventType)),
			slog.String("error", err.Error()),
		)
	}
}
