package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/MohamadRazaviDev/ApplyTrack/internal/config"
	"github.com/MohamadRazaviDev/ApplyTrack/internal/model"
)

// Client はチャット補完モデルの呼び出しインターフェース。
// 応答のJSONテキストとレイテンシ（秒）を返す。
type Client interface {
	ChatJSON(ctx context.Context, system, user string, kind model.AIOutputKind) (json.RawMessage, float64, error)
}

// NewClient は設定に応じてモック・ライブいずれかのクライアントを生成する。
func NewClient(cfg *config.Config) Client {
	if cfg.AIMode == config.AIModeLive {
		return NewLiveClient(cfg.AIBaseURL, cfg.AIAPIKey, cfg.AIModel, cfg.AITimeout)
	}
	return NewMockClient()
}

// MockClient はスキーマ検証を通過する決定的なサンプル出力を返す。
// 開発・テストでAPIキーなしに全パイプラインを動かすために使用する。
type MockClient struct {
	// delay はレイテンシフィールドが0にならないための擬似遅延。
	delay time.Duration
}

// NewMockClient はMockClientを生成する。
func NewMockClient() *MockClient {
	return &MockClient{delay: 300 * time.Millisecond}
}

// ChatJSON は種別に対応したサンプル出力を返す。
func (c *MockClient) ChatJSON(ctx context.Context, system, user string, kind model.AIOutputKind) (json.RawMessage, float64, error) {
	start := time.Now()

	slog.Info("AI mock mode, returning sample output", slog.String("kind", string(kind)))

	select {
	case <-time.After(c.delay):
	case <-ctx.Done():
		return nil, 0, ctx.Err()
	}

	fixture, ok := mockOutputs[kind]
	if !ok {
		return nil, 0, fmt.Errorf("no mock output for kind: %s", kind)
	}
	return json.RawMessage(fixture), time.Since(start).Seconds(), nil
}

// LiveClient はOpenAI互換のチャット補完APIを呼び出す。
// response_formatにjson_objectを指定し、JSONのみの応答を要求する。
type LiveClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

// NewLiveClient はLiveClientを生成する。
func NewLiveClient(baseURL, apiKey, modelName string, timeout time.Duration) *LiveClient {
	return &LiveClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      modelName,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ChatJSON はチャット補完を実行し、応答本文のJSONテキストを返す。
func (c *LiveClient) ChatJSON(ctx context.Context, system, user string, kind model.AIOutputKind) (json.RawMessage, float64, error) {
	start := time.Now()

	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}
	reqBody.ResponseFormat.Type = "json_object"

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	slog.Info("calling chat completion API",
		slog.String("model", c.model),
		slog.String("kind", string(kind)),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to call chat completion API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read chat response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("chat completion API returned status %d: %s", resp.StatusCode, body)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, 0, fmt.Errorf("failed to parse chat response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return nil, 0, fmt.Errorf("chat completion API returned no choices")
	}

	content := chatResp.Choices[0].Message.Content
	if content == "" {
		content = "{}"
	}

	return json.RawMessage(content), time.Since(start).Seconds(), nil
}

// compile-time interface checks
var (
	_ Client = (*MockClient)(nil)
	_ Client = (*LiveClient)(nil)
)
