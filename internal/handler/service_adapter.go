package handler

import (
	"context"

	"github.com/MohamadRazaviDev/ApplyTrack/internal/application"
	"github.com/MohamadRazaviDev/ApplyTrack/internal/model"
	"github.com/MohamadRazaviDev/ApplyTrack/internal/repository"
)

// ApplicationCreationRecorder は応募作成メトリクスの記録インターフェース。
type ApplicationCreationRecorder interface {
	RecordApplicationCreated()
}

// InstrumentedApplicationService は ApplicationServiceInterface に
// 作成メトリクスの記録を付加するアダプタ。
type InstrumentedApplicationService struct {
	svc      ApplicationServiceInterface
	recorder ApplicationCreationRecorder
}

// NewInstrumentedApplicationService はInstrumentedApplicationServiceを生成する。
func NewInstrumentedApplicationService(svc ApplicationServiceInterface, recorder ApplicationCreationRecorder) *InstrumentedApplicationService {
	return &InstrumentedApplicationService{svc: svc, recorder: recorder}
}

// Create は応募を作成し、成功時に作成カウンタを進める。
func (a *InstrumentedApplicationService) Create(ctx context.Context, userID string, input application.CreateInput) (*model.ApplicationDetail, error) {
	detail, err := a.svc.Create(ctx, userID, input)
	if err != nil {
		return nil, err
	}
	a.recorder.RecordApplicationCreated()
	return detail, nil
}

func (a *InstrumentedApplicationService) List(ctx context.Context, userID string, filter repository.ApplicationFilter) ([]*model.ApplicationDetail, error) {
	return a.svc.List(ctx, userID, filter)
}

func (a *InstrumentedApplicationService) Get(ctx context.Context, userID, id string) (*model.ApplicationDetail, error) {
	return a.svc.Get(ctx, userID, id)
}

func (a *InstrumentedApplicationService) Update(ctx context.Context, userID, id string, patch model.ApplicationPatch) (*model.ApplicationDetail, error) {
	return a.svc.Update(ctx, userID, id, patch)
}

func (a *InstrumentedApplicationService) Delete(ctx context.Context, userID, id string) error {
	return a.svc.Delete(ctx, userID, id)
}

func (a *InstrumentedApplicationService) ListAIOutputs(ctx context.Context, userID, applicationID string) ([]*model.AIOutput, error) {
	return a.svc.ListAIOutputs(ctx, userID, applicationID)
}

func (a *InstrumentedApplicationService) ListActivity(ctx context.Context, userID, applicationID string) ([]*model.ActivityEvent, error) {
	return a.svc.ListActivity(ctx, userID, applicationID)
}

// compile-time interface check
var _ ApplicationServiceInterface = (*InstrumentedApplicationService)(nil)
