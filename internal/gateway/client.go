// Package gateway は生成ゲートウェイ（OpenRouter互換のチャットAPI）との通信と、
// プロバイダ依存で形の安定しない応答JSONの正規化を担当します。
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// ErrUpstream はゲートウェイが非成功ステータスまたは解析不能なボディを返したことを示します。
var ErrUpstream = errors.New("generation gateway error")

// maxErrorBodyLen エラー詳細に添付するボディ抜粋の上限です。
const maxErrorBodyLen = 512

// Message はチャットAPIの1メッセージです。Content は文字列またはパート配列を取ります。
type Message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// chatRequest はチャット形式のゲートウェイリクエストです。
type chatRequest struct {
	Model      string    `json:"model"`
	Messages   []Message `json:"messages"`
	Modalities []string  `json:"modalities,omitempty"`
	MaxTokens  int       `json:"max_tokens,omitempty"`
}

// Client は生成ゲートウェイへのHTTPクライアントです。
type Client struct {
	baseURL    string
	apiKey     string
	maxTokens  int
	httpClient *http.Client
}

// NewClient は新しいゲートウェイクライアントを生成します。
// タイムアウトはアップストリーム1呼び出しあたりの上限として機能します。
func NewClient(baseURL, apiKey string, timeout time.Duration, maxTokens int) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		maxTokens:  maxTokens,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// GenerateImage はマルチモーダルモデルに画像生成を依頼し、応答JSONをそのまま返します。
// 応答の形はプロバイダ依存で信用できないため、解釈は Normalizer に委ねます。
func (c *Client) GenerateImage(ctx context.Context, model, prompt string) (json.RawMessage, error) {
	req := chatRequest{
		Model: model,
		Messages: []Message{
			{Role: "user", Content: []map[string]string{{"type": "text", "text": prompt}}},
		},
		Modalities: []string{"text", "image"},
		MaxTokens:  c.maxTokens,
	}

	slog.InfoContext(ctx, "🎨 画像生成を依頼します", "model", model)
	return c.postChat(ctx, req)
}

// GenerateText はチャットモデルに台本生成を依頼し、本文テキストを取り出して返します。
// 2番目の戻り値は応答JSONの原文です。
func (c *Client) GenerateText(ctx context.Context, model, prompt string) (string, json.RawMessage, error) {
	req := chatRequest{
		Model: model,
		Messages: []Message{
			{Role: "user", Content: prompt},
		},
	}

	slog.InfoContext(ctx, "📝 台本生成を依頼します", "model", model)
	raw, err := c.postChat(ctx, req)
	if err != nil {
		return "", nil, err
	}

	text, err := extractTextContent(raw)
	if err != nil {
		return "", raw, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return text, raw, nil
}

// postChat はチャット補完エンドポイントを呼び出し、検証済みの応答ボディを返します。
func (c *Client) postChat(ctx context.Context, payload chatRequest) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode gateway request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build gateway request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %v", ErrUpstream, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d (body: %s)", ErrUpstream, resp.StatusCode, truncateString(string(raw), maxErrorBodyLen))
	}

	if !json.Valid(raw) {
		return nil, fmt.Errorf("%w: response body is not valid JSON (body: %s)", ErrUpstream, truncateString(string(raw), maxErrorBodyLen))
	}

	return raw, nil
}

// chatEnvelope はテキスト取り出しに必要な最小限の応答構造です。
// content は文字列の場合とパート配列の場合があるため RawMessage で受けます。
type chatEnvelope struct {
	Choices []struct {
		Message struct {
			Content json.RawMessage `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// extractTextContent は choices[0].message.content から本文テキストを取り出します。
func extractTextContent(raw json.RawMessage) (string, error) {
	var env chatEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return "", fmt.Errorf("unexpected response envelope: %v", err)
	}
	if len(env.Choices) == 0 || len(env.Choices[0].Message.Content) == 0 {
		return "", errors.New("response contains no choices")
	}

	content := env.Choices[0].Message.Content

	// パターン1: content が素の文字列
	var text string
	if err := json.Unmarshal(content, &text); err == nil {
		return text, nil
	}

	// パターン2: content がマルチモーダルのパート配列
	var parts []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}
	if err := json.Unmarshal(content, &parts); err == nil {
		var sb strings.Builder
		for _, p := range parts {
			if p.Text != "" {
				sb.WriteString(p.Text)
			}
		}
		if sb.Len() > 0 {
			return sb.String(), nil
		}
	}

	return "", errors.New("no text content in response")
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
