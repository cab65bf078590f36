package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// AIMode はAIクライアントの動作モードを表す。
type AIMode string

const (
	// AIModeMock は決定的なサンプル出力を返すモード。開発・テスト用。
	AIModeMock AIMode = "mock"
	// AIModeLive はチャット補完APIを実際に呼び出すモード。
	AIModeLive AIMode = "live"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
// グローバル変数にはせず、必要なコンポーネントへ注入する。
type Config struct {
	// Database
	DatabaseURL string

	// Auth
	JWTSecret   string
	TokenExpiry time.Duration

	// Task Queue (Redisブローカー)
	RedisAddr string

	// AI
	AIMode    AIMode
	AIModel   string
	AIAPIKey  string
	AIBaseURL string
	AITimeout time.Duration

	// Feature flags
	AllowRegistration bool

	// Rate Limit (req/min/user)
	RateLimitGeneral int

	// Worker
	WorkerConcurrency int

	// Server
	ServerPort string

	// CORS
	CORSAllowedOrigin string
}

// Load は環境変数からConfigを読み込む。
// カレントディレクトリに.envがあれば先に読み込む（未設定の変数のみ反映）。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	// .envは存在しなくてもよい
	_ = godotenv.Load()

	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	cfg.TokenExpiry = getEnvDuration("TOKEN_EXPIRY", 168*time.Hour)
	cfg.RedisAddr = getEnvString("REDIS_ADDR", "localhost:6379")
	cfg.AIMode = parseAIMode(os.Getenv("AI_MODE"))
	cfg.AIModel = getEnvString("AI_MODEL", "anthropic/claude-3.5-sonnet")
	cfg.AIAPIKey = getEnvString("AI_API_KEY", "")
	cfg.AIBaseURL = getEnvString("AI_BASE_URL", "https://openrouter.ai/api/v1")
	cfg.AITimeout = getEnvDuration("AI_TIMEOUT", 60*time.Second)
	cfg.AllowRegistration = getEnvBool("ALLOW_REGISTRATION", true)
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.WorkerConcurrency = getEnvInt("WORKER_CONCURRENCY", 5)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:3000")

	// ライブモードにはAPIキーが必須
	if cfg.AIMode == AIModeLive && cfg.AIAPIKey == "" {
		return nil, fmt.Errorf("AI_API_KEY is required when AI_MODE=live")
	}

	return cfg, nil
}

// parseAIMode はAI_MODE環境変数を解釈する。不明な値はmockにフォールバックする。
func parseAIMode(v string) AIMode {
	if v == string(AIModeLive) {
		return AIModeLive
	}
	return AIModeMock
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
