package app

import (
	"ap-promo-web/internal/adapters"
	"ap-promo-web/internal/config"
	"ap-promo-web/internal/pipeline"

	"github.com/shouni/go-http-kit/pkg/httpkit"
)

// Container はアプリケーションの依存関係（DIコンテナ）を保持します。
type Container struct {
	Config *config.Config

	// Business Logic
	Pipeline *pipeline.PromoPipeline

	// External Adapters
	HTTPClient    httpkit.ClientInterface
	SlackNotifier adapters.SlackNotifier
}
