package adapters

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"ap-promo-web/internal/domain"

	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-notifier/pkg/factory"
	"github.com/shouni/go-notifier/pkg/slack"
)

// --- インターフェース定義 ---

type SlackNotifier interface {
	Notify(ctx context.Context, req domain.NotificationRequest) error
	NotifyError(ctx context.Context, errDetail error, req domain.NotificationRequest) error
}

// --- 具象アダプター ---

type SlackAdapter struct {
	httpClient  httpkit.ClientInterface
	webhookURL  string
	slackClient *slack.Client
}

// NewSlackAdapter は Slack アダプターを初期化します。
// Webhook URL が空の場合は通知を行わないダミーとして振る舞います。
func NewSlackAdapter(httpClient httpkit.ClientInterface, webhookURL string) (*SlackAdapter, error) {
	if webhookURL == "" {
		return &SlackAdapter{webhookURL: webhookURL}, nil
	}
	client, err := factory.GetSlackClient(httpClient)
	if err != nil {
		return nil, fmt.Errorf("Slackクライアントの初期化に失敗したのだ: %w", err)
	}

	return &SlackAdapter{
		httpClient:  httpClient,
		webhookURL:  webhookURL,
		slackClient: client,
	}, nil
}

// Notify はプロモ素材の生成完了をSlackへ通知します。
func (a *SlackAdapter) Notify(ctx context.Context, req domain.NotificationRequest) error {
	if a.slackClient == nil {
		slog.Info("Slackクライアントが初期化されていないため、通知をスキップします。", "title", req.TargetTitle)
		return nil
	}

	// 画像の解決結果に応じた絵文字の出し分けをすると可愛いのだ！
	icon := "🖼️"
	if req.ImageKind == string(domain.ImageKindAbsent) {
		icon = "📝"
	}

	title := fmt.Sprintf("%s プロモ素材の生成が完了しました！", icon)
	content := a.buildSlackContent(req)

	if err := a.slackClient.SendTextWithHeader(ctx, title, content); err != nil {
		return fmt.Errorf("Slackへの投稿に失敗しました: %w", err)
	}

	slog.Info("Slack に完了通知を送信しました。", "title", req.TargetTitle)
	return nil
}

// NotifyError はエラー詳細と実行メタデータを含むSlackエラー通知を送信します。
func (a *SlackAdapter) NotifyError(ctx context.Context, errDetail error, req domain.NotificationRequest) error {
	if a.slackClient == nil {
		slog.Info("Slackクライアントが初期化されていないため、エラー通知をスキップします。", "error", errDetail)
		return nil
	}

	title := "❌ プロモ生成中にエラーが発生しました"

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("*商品タイトル:* `%s`\n", req.TargetTitle))
	sb.WriteString(fmt.Sprintf("*ソース:* %s\n\n", req.SourceURL))

	// エラー詳細をコードブロックで囲むことで、上流の応答抜粋などの可読性を向上させます。
	sb.WriteString("*エラー内容:*\n")
	sb.WriteString(fmt.Sprintf("```\n%v\n```\n", errDetail))

	if err := a.slackClient.SendTextWithHeader(ctx, title, sb.String()); err != nil {
		return fmt.Errorf("Slackへのエラー通知に失敗しました: %w", err)
	}

	slog.Info("Slack にエラー通知を送信しました。", "error", errDetail)
	return nil
}

// buildSlackContent は通知リクエストに基づき、Slack メッセージの内容を生成します。
func (a *SlackAdapter) buildSlackContent(req domain.NotificationRequest) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("**商品タイトル:** `%s`\n", req.TargetTitle))
	if req.SourceURL != "" {
		sb.WriteString(fmt.Sprintf("**ソース:** %s\n", req.SourceURL))
	}
	sb.WriteString(fmt.Sprintf("**画像:** `%s`\n", req.ImageKind))
	return sb.String()
}
