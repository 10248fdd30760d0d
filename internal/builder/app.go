package builder

import (
	"context"
	"fmt"

	"ap-promo-web/internal/adapters"
	"ap-promo-web/internal/app"
	"ap-promo-web/internal/config"
	"ap-promo-web/internal/gateway"
	"ap-promo-web/internal/metadata"
	"ap-promo-web/internal/pipeline"
	"ap-promo-web/internal/webtext"

	"github.com/shouni/go-http-kit/pkg/httpkit"
)

// BuildContainer は外部サービスとの接続を確立し、依存関係を組み立てます。
// 各依存はインターフェース越しに注入するため、テストでのモック差し替えが容易です。
func BuildContainer(_ context.Context, cfg *config.Config) (*app.Container, error) {
	// 1. 基盤クライアントの初期化
	httpClient := httpkit.New(cfg.HTTPTimeout)

	// 2. ページ読み取り系コンポーネントの初期化
	metaExtractor := metadata.NewExtractor(cfg.HTTPTimeout)
	textReader, err := webtext.NewReader(httpClient)
	if err != nil {
		return nil, fmt.Errorf("failed to create web text reader: %w", err)
	}

	// 3. 生成ゲートウェイクライアントの初期化
	gatewayClient := gateway.NewClient(cfg.GatewayBaseURL, cfg.GatewayAPIKey, cfg.HTTPTimeout, config.DefaultMaxTokens)

	// 4. アダプターの初期化
	slack, err := adapters.NewSlackAdapter(httpClient, cfg.SlackWebhookURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Slack adapter: %w", err)
	}

	// 5. パイプラインの組み立て
	promoPipeline := pipeline.NewPromoPipeline(cfg, metaExtractor, textReader, gatewayClient, slack)

	return &app.Container{
		Config:        cfg,
		Pipeline:      promoPipeline,
		HTTPClient:    httpClient,
		SlackNotifier: slack,
	}, nil
}
