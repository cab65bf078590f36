package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MohamadRazaviDev/ApplyTrack/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	UserResolver      middleware.UserResolver
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter

	// サービス
	AuthService        AuthServiceInterface
	ProfileService     ProfileServiceInterface
	CompanyService     CompanyServiceInterface
	ApplicationService ApplicationServiceInterface
	ReminderService    ReminderServiceInterface
	AIDispatcher       AIDispatchInterface

	// Prometheusメトリクスのエクスポート用ハンドラー
	MetricsHandler http.Handler
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORSMiddleware → AuthMiddleware → RateLimitMiddleware
//
// 認証ルート（登録・ログイン）とヘルスチェック、メトリクスは
// 認証ミドルウェアチェーンの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	// CORS ミドルウェアを最上位に適用（全ルートに効く）
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	authHandler := NewAuthHandler(deps.AuthService)
	profileHandler := NewProfileHandler(deps.ProfileService)
	companyHandler := NewCompanyHandler(deps.CompanyService)
	appHandler := NewApplicationHandler(deps.ApplicationService)
	reminderHandler := NewReminderHandler(deps.ReminderService)
	aiHandler := NewAIHandler(deps.AIDispatcher)

	// --- 認証不要のルート ---

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	r.Post("/api/v1/auth/register", authHandler.Register)
	r.Post("/api/v1/auth/login", authHandler.Login)

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Auth → RateLimit
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(deps.UserResolver))
		r.Use(deps.RateLimiter.Middleware())

		r.Get("/api/v1/auth/me", authHandler.Me)

		// プロフィール管理
		r.Route("/api/v1/profile", func(r chi.Router) {
			r.Get("/", profileHandler.Get)
			r.Put("/", profileHandler.Update)
		})

		// 企業参照
		r.Route("/api/v1/companies", func(r chi.Router) {
			r.Get("/", companyHandler.List)
			r.Get("/{id}", companyHandler.Get)
		})

		// 応募管理
		r.Route("/api/v1/applications", func(r chi.Router) {
			r.Get("/", appHandler.List)
			r.Post("/", appHandler.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", appHandler.Get)
				r.Patch("/", appHandler.Update)
				r.Delete("/", appHandler.Delete)

				// AI実行結果とタイムライン
				r.Get("/ai-outputs", appHandler.ListAIOutputs)
				r.Get("/activity", appHandler.ListActivity)

				// リマインダーは応募に紐付けて作成する
				r.Post("/reminders", reminderHandler.Create)
			})
		})

		// リマインダー管理
		r.Route("/api/v1/reminders", func(r chi.Router) {
			r.Get("/", reminderHandler.List)
			r.Patch("/{id}", reminderHandler.Update)
		})

		// AIタスク受付・ポーリング
		r.Route("/api/v1/ai", func(r chi.Router) {
			r.Get("/tasks/{taskID}", aiHandler.GetTask)
			r.Post("/{kind}/{applicationID}", aiHandler.Submit)
		})
	})

	return r
}
