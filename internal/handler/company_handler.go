package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MohamadRazaviDev/ApplyTrack/internal/middleware"
	"github.com/MohamadRazaviDev/ApplyTrack/internal/model"
)

// CompanyServiceInterface は企業ハンドラーが必要とするサービスインターフェース。
type CompanyServiceInterface interface {
	// List はユーザーの企業一覧を名前順で返す。
	List(ctx context.Context, userID string) ([]*model.Company, error)
	// Get は企業を取得する。
	Get(ctx context.Context, userID, id string) (*model.Company, error)
}

// CompanyHandler は企業参照のHTTPハンドラー。
// 企業は応募作成時に暗黙的に作成されるため、参照専用のエンドポイントのみ持つ。
type CompanyHandler struct {
	service CompanyServiceInterface
}

// NewCompanyHandler はCompanyHandlerを生成する。
func NewCompanyHandler(service CompanyServiceInterface) *CompanyHandler {
	return &CompanyHandler{service: service}
}

// companyResponse は企業情報のAPIレスポンス。
type companyResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	WebsiteURL  string    `json:"website_url"`
	LinkedinURL string    `json:"linkedin_url"`
	CareersURL  string    `json:"careers_url"`
	HQLocation  string    `json:"hq_location"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
}

// List は企業一覧を返す。
// GET /api/v1/companies
func (h *CompanyHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	companies, err := h.service.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	body := make([]companyResponse, 0, len(companies))
	for _, company := range companies {
		body = append(body, toCompanyResponse(company))
	}
	writeJSONResponse(w, http.StatusOK, body)
}

// Get は企業詳細を返す。
// GET /api/v1/companies/{id}
func (h *CompanyHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	company, err := h.service.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toCompanyResponse(company))
}

// toCompanyResponse はmodel.CompanyからAPIレスポンスに変換する。
func toCompanyResponse(company *model.Company) companyResponse {
	return companyResponse{
		ID:          company.ID,
		Name:        company.Name,
		WebsiteURL:  company.WebsiteURL,
		LinkedinURL: company.LinkedinURL,
		CareersURL:  company.CareersURL,
		HQLocation:  company.HQLocation,
		Notes:       company.Notes,
		CreatedAt:   company.CreatedAt,
	}
}
