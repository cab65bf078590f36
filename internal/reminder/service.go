// Package reminder はフォローアップリマインダーに関するビジネスロジックを提供する。
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/MohamadRazaviDev/ApplyTrack/internal/model"
	"github.com/MohamadRazaviDev/ApplyTrack/internal/repository"
)

// Service はリマインダーに関するビジネスロジックを提供する。
type Service struct {
	reminderRepo repository.ReminderRepository
	appRepo      repository.ApplicationRepository
	activityRepo repository.ActivityEventRepository
}

// NewService はServiceを生成する。
func NewService(
	reminderRepo repository.ReminderRepository,
	appRepo repository.ApplicationRepository,
	activityRepo repository.ActivityEventRepository,
) *Service {
	return &Service{
		reminderRepo: reminderRepo,
		appRepo:      appRepo,
		activityRepo: activityRepo,
	}
}

// Create はリマインダーを作成し、reminder_createdイベントを追記する。
// 応募の所有確認を先に行い、他ユーザーの応募にはリマインダーを作成できない。
func (s *Service) Create(ctx context.Context, userID, applicationID, text string, dueAt time.Time) (*model.Reminder, error) {
	if text == "" {
		return nil, model.NewValidationError("リマインダー本文は必須です")
	}
	if dueAt.IsZero() {
		return nil, model.NewValidationError("期日は必須です")
	}

	app, err := s.appRepo.FindByID(ctx, applicationID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find application: %w", err)
	}
	if app == nil {
		return nil, model.NewApplicationNotFoundError(applicationID)
	}

	reminder := &model.Reminder{
		ID:            uuid.New().String(),
		ApplicationID: applicationID,
		UserID:        userID,
		Text:          text,
		DueAt:         dueAt,
		Done:          false,
		CreatedAt:     time.Now(),
	}

	if err := s.reminderRepo.Create(ctx, reminder); err != nil {
		return nil, fmt.Errorf("failed to create reminder: %w", err)
	}

	s.appendEvent(ctx, applicationID, model.EventReminderCreated)

	return reminder, nil
}

// List はユーザーのリマインダー一覧を期日の昇順で返す。
// doneが非nilの場合は完了状態で絞り込む。
func (s *Service) List(ctx context.Context, userID string, done *bool) ([]*model.Reminder, error) {
	reminders, err := s.reminderRepo.ListByUserID(ctx, userID, done)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	return reminders, nil
}

// Update はリマインダーを部分更新する。
// 未完了から完了への遷移時はreminder_doneイベントを追記する。
func (s *Service) Update(ctx context.Context, userID, id string, patch model.ReminderPatch) (*model.Reminder, error) {
	reminder, err := s.reminderRepo.FindByID(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find reminder: %w", err)
	}
	if reminder == nil {
		return nil, model.NewReminderNotFoundError(id)
	}

	completed := false

	if patch.Text != nil {
		if *patch.Text == "" {
			return nil, model.NewValidationError("リマインダー本文は必須です")
		}
		reminder.Text = *patch.Text
	}
	if patch.DueAt != nil {
		reminder.DueAt = *patch.DueAt
	}
	if patch.Done != nil {
		completed = *patch.Done && !reminder.Done
		reminder.Done = *patch.Done
	}

	if err := s.reminderRepo.Update(ctx, reminder); err != nil {
		return nil, fmt.Errorf("failed to update reminder: %w", err)
	}

	if completed {
		s.appendEvent(ctx, reminder.ApplicationID, model.EventReminderDone)
	}

	return reminder, nil
}

// appendEvent はタイムラインイベントを追記する。追記失敗は主操作を巻き戻さない。
func (s *Service) appendEvent(ctx context.Context, applicationID string, eventType model.ActivityEventType) {
	event := &model.ActivityEvent{
		ID:            uuid.New().String(),
		ApplicationID: applicationID,
		Type:          eventType,
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
