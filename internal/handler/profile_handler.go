package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/MohamadRazaviDev/ApplyTrack/internal/middleware"
	"github.com/MohamadRazaviDev/ApplyTrack/internal/model"
)

// ProfileServiceInterface はプロフィールハンドラーが必要とするサービスインターフェース。
type ProfileServiceInterface interface {
	// Get はユーザーのプロフィールを取得する。
	Get(ctx context.Context, userID string) (*model.Profile, error)
	// Update はプロフィールを部分更新する。
	Update(ctx context.Context, userID string, patch model.ProfilePatch) (*model.Profile, error)
}

// ProfileHandler はプロフィール管理のHTTPハンドラー。
type ProfileHandler struct {
	service ProfileServiceInterface
}

// NewProfileHandler はProfileHandlerを生成する。
func NewProfileHandler(service ProfileServiceInterface) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// updateProfileRequest はプロフィール更新リクエストのボディ。
// nilフィールドは変更しない。
type updateProfileRequest struct {
	Headline   *string                 `json:"headline"`
	Summary    *string                 `json:"summary"`
	Location   *string                 `json:"location"`
	Links      *map[string]string      `json:"links"`
	Skills     *[]string               `json:"skills"`
	Projects   *[]model.ProjectItem    `json:"projects"`
	Experience *[]model.ExperienceItem `json:"experience"`
}

// profileResponse はプロフィール情報のAPIレスポンス。
type profileResponse struct {
	ID         string                 `json:"id"`
	Headline   string                 `json:"headline"`
	Summary    string                 `json:"summary"`
	Location   string                 `json:"location"`
	Links      map[string]string      `json:"links"`
	Skills     []string               `json:"skills"`
	Projects   []model.ProjectItem    `json:"projects"`
	Experience []model.ExperienceItem `json:"experience"`
	UpdatedAt  time.Time              `json:"updated_at"`
}

// Get はプロフィール取得を処理する。
// GET /api/v1/profile
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	profile, err := h.service.Get(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toProfileResponse(profile))
}

// Update はプロフィールの部分更新を処理する。
// PUT /api/v1/profile
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req updateProfileRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	profile, err := h.service.Update(r.Context(), userID, model.ProfilePatch{
		Headline:   req.Headline,
		Summary:    req.Summary,
		Location:   req.Location,
		Links:      req.Links,
		Skills:     req.Skills,
		Projects:   req.Projects,
		Experience: req.Experience,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toProfileResponse(profile))
}

// toProfileResponse はmodel.ProfileからAPIレスポンスに変換する。
func toProfileResponse(profile *model.Profile) profileResponse {
	return profileResponse{
		ID:         profile.ID,
		Headline:   profile.Headline,
		Summary:    profile.Summary,
		Location:   profile.Location,
		Links:      profile.Links,
		Skills:     profile.Skills,
		Projects:   profile.Projects,
		Experience: profile.Experience,
		UpdatedAt:  profile.UpdatedAt,
	}
}
