// Package company は応募先企業に関するビジネスロジックを提供する。
package company

import (
	"context"
	"fmt"

	"github.com/MohamadRazaviDev/ApplyTrack/internal/model"
	"github.com/MohamadRazaviDev/ApplyTrack/internal/repository"
)

// Service は企業に関するビジネスロジックを提供する。
// 企業レコードは応募のフラット作成時に暗黙的に作られるため、
// このサービスは参照系の操作のみを持つ。
type Service struct {
	companyRepo repository.CompanyRepository
}

// NewService はServiceを生成する。
func NewService(companyRepo repository.CompanyRepository) *Service {
	return &Service{companyRepo: companyRepo}
}

// List はユーザーの企業一覧を名前順で返す。
func (s *Service) List(ctx context.Context, userID string) ([]*model.Company, error) {
	companies, err := s.companyRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	return companies, nil
}

// Get は指定IDの企業を取得する。
// 他ユーザー所有の企業も存在を隠すため同じ未検出エラーを返す。
func (s *Service) Get(ctx context.Context, userID, id string) (*model.Company, error) {
	company, err := s.companyRepo.FindByID(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find company: %w", err)
	}
	if company == nil {
		return nil, model.NewCompanyNotFoundError(id)
	}
	return company, nil
}
