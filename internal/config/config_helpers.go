package config

import (
	"fmt"

	"github.com/shouni/netarmor/securenet"
)

// --- バリデーション ---

// ValidateEssentialConfig はアプリケーション実行に不可欠な設定を検証します。
// ゲートウェイの認証キーが無い状態で起動しても全リクエストが失敗するだけなので、
// ここで早期に落とします。
func ValidateEssentialConfig(cfg *Config) error {
	if cfg.GatewayAPIKey == "" {
		return fmt.Errorf("configuration error: GATEWAY_API_KEY is not set")
	}

	if !IsSecureURL(cfg.GatewayBaseURL) {
		return fmt.Errorf("security error: GATEWAY_BASE_URL ('%s') must be HTTPS in production", cfg.GatewayBaseURL)
	}

	if cfg.HTTPTimeout <= 0 {
		return fmt.Errorf("configuration error: HTTP_TIMEOUT must be positive")
	}

	return nil
}

// IsSecureURL は指定された URL が HTTPS または localhost であるか判定します。
func IsSecureURL(rawURL string) bool {
	return securenet.IsSecureServiceURL(rawURL)
}
