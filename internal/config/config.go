package config

import (
	"time"

	"github.com/shouni/go-utils/envutil"
)

const (
	// DefaultGatewayBaseURL 生成ゲートウェイ（OpenRouter互換API）のエンドポイントです。
	DefaultGatewayBaseURL = "https://openrouter.ai/api/v1"
	// DefaultImageModel 画像を返せるマルチモーダルモデルです。
	DefaultImageModel = "google/gemini-2.0-flash-exp"
	// DefaultTextModel 台本生成用のチャットモデルです。
	DefaultTextModel = "openai/gpt-4o-mini"
	// DefaultStyleHint リクエストで style が省略されたときの画風指定です。
	DefaultStyleHint = "lifestyle, aesthetic, clean lighting"
	// DefaultHTTPTimeout 画像生成やチャットAPIの応答を考慮したタイムアウトです。
	DefaultHTTPTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 15 * time.Second
	// DefaultMaxTokens 画像生成呼び出しに与えるトークン上限です。
	DefaultMaxTokens = 2048
)

// Config は環境変数から読み込まれたアプリケーションの全設定を保持します。
type Config struct {
	ServiceURL string
	Port       string

	// GatewayAPIKey は生成ゲートウェイのBearer認証キーです。必須項目です。
	GatewayAPIKey  string
	GatewayBaseURL string
	ImageModel     string // 画像生成用モデル
	TextModel      string // 台本生成用モデル
	StyleHint      string // 画風のデフォルト指定

	SlackWebhookURL string

	HTTPTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// LoadConfig は環境変数から設定を読み込み、Config 構造体を生成します。
func LoadConfig() *Config {
	return &Config{
		ServiceURL:      envutil.GetEnv("SERVICE_URL", "http://localhost:8080"),
		Port:            envutil.GetEnv("PORT", "8080"),
		GatewayAPIKey:   envutil.GetEnv("GATEWAY_API_KEY", ""),
		GatewayBaseURL:  envutil.GetEnv("GATEWAY_BASE_URL", DefaultGatewayBaseURL),
		ImageModel:      envutil.GetEnv("IMAGE_MODEL", DefaultImageModel),
		TextModel:       envutil.GetEnv("TEXT_MODEL", DefaultTextModel),
		StyleHint:       envutil.GetEnv("DEFAULT_STYLE_HINT", DefaultStyleHint),
		SlackWebhookURL: envutil.GetEnv("SLACK_WEBHOOK_URL", ""),
		HTTPTimeout:     getDurationEnv("HTTP_TIMEOUT", DefaultHTTPTimeout),
		ShutdownTimeout: DefaultShutdownTimeout,
	}
}

// getDurationEnv は "60s" のような Duration 形式の環境変数を読み取ります。
// 未設定・解析不能の場合はデフォルト値にフォールバックします。
func getDurationEnv(key string, fallback time.Duration) time.Duration {
	raw := envutil.GetEnv(key, "")
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}
