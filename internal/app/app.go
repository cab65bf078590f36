// Package app はアプリケーションの起動と依存関係のワイヤリングを担う。
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/MohamadRazaviDev/ApplyTrack/internal/ai"
	"github.com/MohamadRazaviDev/ApplyTrack/internal/application"
	"github.com/MohamadRazaviDev/ApplyTrack/internal/auth"
	"github.com/MohamadRazaviDev/ApplyTrack/internal/company"
	"github.com/MohamadRazaviDev/ApplyTrack/internal/config"
	"github.com/MohamadRazaviDev/ApplyTrack/internal/database"
	"github.com/MohamadRazaviDev/ApplyTrack/internal/handler"
	"github.com/MohamadRazaviDev/ApplyTrack/internal/logger"
	"github.com/MohamadRazaviDev/ApplyTrack/internal/metrics"
	"github.com/MohamadRazaviDev/ApplyTrack/internal/middleware"
	"github.com/MohamadRazaviDev/ApplyTrack/internal/profile"
	"github.com/MohamadRazaviDev/ApplyTrack/internal/reminder"
	"github.com/MohamadRazaviDev/ApplyTrack/internal/repository"
	"github.com/MohamadRazaviDev/ApplyTrack/internal/security"
	"github.com/MohamadRazaviDev/ApplyTrack/internal/worker/aitask"
)

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("ai_mode", string(cfg.AIMode)),
	)

	switch cmd {
	case CommandServe:
		return runServe(cfg)
	case CommandWorker:
		return runWorker(cfg)
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// runServe はAPIサーバーモードで起動する。
// DB接続を開き、全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	// 1. DB接続
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established")

	// スキーマは冪等のため起動時にも適用する
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// 2. リポジトリの初期化
	userRepo := repository.NewPostgresUserRepo(db)
	profileRepo := repository.NewPostgresProfileRepo(db)
	companyRepo := repository.NewPostgresCompanyRepo(db)
	appRepo := repository.NewPostgresApplicationRepo(db)
	reminderRepo := repository.NewPostgresReminderRepo(db)
	aiOutputRepo := repository.NewPostgresAIOutputRepo(db)
	taskRepo := repository.NewPostgresAITaskRepo(db)
	activityRepo := repository.NewPostgresActivityEventRepo(db)

	// 3. セキュリティ・メトリクスの初期化
	sanitizer := security.NewContentSanitizer()
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 4. ドメインサービスの初期化
	authService := auth.NewService(userRepo, auth.ServiceConfig{
		JWTSecret:         cfg.JWTSecret,
		TokenExpiry:       cfg.TokenExpiry,
		AllowRegistration: cfg.AllowRegistration,
	})
	profileService := profile.NewService(profileRepo)
	companyService := company.NewService(companyRepo)
	appService := application.NewService(appRepo, companyRepo, aiOutputRepo, activityRepo, sanitizer)
	reminderService := reminder.NewService(reminderRepo, appRepo, activityRepo)

	// 5. AIタスクの受付（キュー投入）の初期化
	enqueuer := aitask.NewEnqueuer(cfg.RedisAddr, cfg.AITimeout)
	defer enqueuer.Close()
	dispatcher := ai.NewDispatcher(taskRepo, appRepo, activityRepo, enqueuer)

	// 6. ルーターの構築
	rateLimiter := middleware.NewRateLimiter(middleware.NewRateLimiterConfig(cfg.RateLimitGeneral))
	defer rateLimiter.Stop()

	deps := &handler.RouterDeps{
		UserResolver:      authService,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       rateLimiter,

		AuthService:        authService,
		ProfileService:     profileService,
		CompanyService:     companyService,
		ApplicationService: handler.NewInstrumentedApplicationService(appService, collector),
		ReminderService:    reminderService,
		AIDispatcher:       dispatcher,

		MetricsHandler: metrics.Handler(registry),
	}

	// 外側のミドルウェア: Recovery → SecurityHeaders → Logging → Metrics
	var h http.Handler = handler.NewRouter(deps)
	h = middleware.NewMetricsMiddleware(collector)(h)
	h = middleware.NewLoggingMiddleware(slog.Default())(h)
	h = middleware.NewSecurityHeadersMiddleware()(h)
	h = middleware.NewRecoveryMiddleware()(h)

	// 7. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runWorker はAIタスクワーカーモードで起動する。
// DB接続を開き、キューからAIタスクを受け取って実行パイプラインを回す。
// シグナルハンドリングとグレースフルシャットダウンはasynqサーバーが行う。
func runWorker(cfg *config.Config) error {
	// 1. DB接続
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established (worker)")

	// 2. リポジトリの初期化
	appRepo := repository.NewPostgresApplicationRepo(db)
	profileRepo := repository.NewPostgresProfileRepo(db)
	aiOutputRepo := repository.NewPostgresAIOutputRepo(db)
	taskRepo := repository.NewPostgresAITaskRepo(db)
	activityRepo := repository.NewPostgresActivityEventRepo(db)

	// 3. AI実行パイプラインの初期化
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)
	client := ai.NewClient(cfg)
	runner := ai.NewRunner(
		taskRepo, appRepo, profileRepo, aiOutputRepo, activityRepo,
		client, cfg.AIModel, collector,
	)

	// 4. キューサーバーの起動
	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		asynq.Config{Concurrency: cfg.WorkerConcurrency},
	)

	mux := asynq.NewServeMux()
	aitask.NewProcessor(runner).Register(mux)

	slog.Info("worker starting",
		slog.String("redis_addr", cfg.RedisAddr),
		slog.Int("concurrency", cfg.WorkerConcurrency),
		slog.String("ai_mode", string(cfg.AIMode)),
	)

	if err := srv.Run(mux); err != nil {
		return fmt.Errorf("worker server failed: %w", err)
	}

	slog.Info("worker stopped gracefully")
	return nil
}

// runMigrate はデータベースマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate(cfg *config.Config) error {
	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLの認証情報をマスクする。
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
