// Package pipeline は1リクエスト分のプロモ生成フローを編成します。
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"ap-promo-web/internal/adapters"
	"ap-promo-web/internal/config"
	"ap-promo-web/internal/domain"
	"ap-promo-web/internal/gateway"
	"ap-promo-web/internal/prompt"
	"ap-promo-web/internal/script"

	"golang.org/x/sync/errgroup"
)

// MetadataExtractor は商品ページのメタデータ抽出を抽象化します。
type MetadataExtractor interface {
	Extract(ctx context.Context, url string) (domain.PageMetadata, error)
}

// TextReader は商品ページの本文テキスト抽出を抽象化します。
type TextReader interface {
	FetchText(ctx context.Context, url string) (string, error)
}

// Generator は生成ゲートウェイへの2種類の呼び出しを抽象化します。
type Generator interface {
	GenerateImage(ctx context.Context, model, prompt string) (json.RawMessage, error)
	GenerateText(ctx context.Context, model, prompt string) (string, json.RawMessage, error)
}

// PromoPipeline はプロモ素材生成の一連の流れを保持します。
// 1回の Generate 呼び出しの中で完結し、リクエスト間で共有する可変状態はありません。
type PromoPipeline struct {
	cfg        *config.Config
	metadata   MetadataExtractor
	webtext    TextReader
	gateway    Generator
	normalizer *gateway.Normalizer
	segmenter  *script.Segmenter
	prompts    *prompt.Builder
	notifier   adapters.SlackNotifier
}

// NewPromoPipeline は依存関係を注入して PromoPipeline を初期化します。
func NewPromoPipeline(
	cfg *config.Config,
	meta MetadataExtractor,
	webtext TextReader,
	gw Generator,
	notifier adapters.SlackNotifier,
) *PromoPipeline {
	return &PromoPipeline{
		cfg:        cfg,
		metadata:   meta,
		webtext:    webtext,
		gateway:    gw,
		normalizer: gateway.NewNormalizer(),
		segmenter:  script.NewSegmenter(),
		prompts:    prompt.NewBuilder(cfg.StyleHint),
		notifier:   notifier,
	}
}

// Generate はリクエストを検証し、メタデータ抽出・画像生成・台本生成を経て
// 最終結果を組み立てます。台本の失敗は致命的ですが、メタデータと画像の失敗は
// ローカルに回復します（画像は absent に縮退します）。
func (p *PromoPipeline) Generate(ctx context.Context, req domain.ProductRequest) (*domain.GenerationResult, error) {
	// 1. バリデーション（ネットワーク呼び出しの前に確定させます）
	if req.URL == "" && req.Desc == "" {
		return nil, fmt.Errorf("%w: either url or desc is required", ErrValidation)
	}
	if p.cfg.GatewayAPIKey == "" {
		return nil, fmt.Errorf("%w: GATEWAY_API_KEY is not set", ErrConfiguration)
	}

	// 2. ページメタデータと本文のベストエフォート取得
	meta, pageText := p.fetchPageContext(ctx, req.URL)

	// 3. 画像と台本の生成。互いに独立しているため並行して発行します。
	//    og:image が取れている場合は参照ペイロードとして再利用し、画像生成は行いません。
	image := domain.AbsentImage()
	eg, egCtx := errgroup.WithContext(ctx)

	if meta.OGImage != "" {
		image = domain.ReferenceImage(meta.OGImage)
		slog.InfoContext(ctx, "og:image を再利用するため画像生成をスキップします", "og_image", meta.OGImage)
	} else {
		eg.Go(func() error {
			raw, err := p.gateway.GenerateImage(egCtx, p.cfg.ImageModel, p.prompts.BuildImagePrompt(req.Desc, req.StyleHint, meta))
			if err != nil {
				// 画像は必須成果物ではないため、失敗しても absent に縮退して続行します。
				slog.WarnContext(egCtx, "画像生成に失敗したため absent に縮退します", "error", err)
				return nil
			}
			image = p.normalizer.Normalize(raw)
			return nil
		})
	}

	var rawScript string
	eg.Go(func() error {
		text, _, err := p.gateway.GenerateText(egCtx, p.cfg.TextModel, p.prompts.BuildScriptPrompt(req.Desc, meta, pageText))
		if err != nil {
			// 台本は唯一省略できない成果物なので、失敗はリクエスト全体の失敗です。
			return fmt.Errorf("script generation failed: %w", err)
		}
		rawScript = text
		return nil
	})

	if err := eg.Wait(); err != nil {
		p.notifyError(ctx, err, req, meta)
		return nil, err
	}

	// 4. 台本をちょうど4場面に分割して結果を組み立てます。
	result := &domain.GenerationResult{
		Metadata:  meta,
		Image:     image,
		Scenes:    p.segmenter.Segment(rawScript),
		RawScript: rawScript,
	}

	slog.InfoContext(ctx, "✅ プロモ素材の生成が完了しました", "image_kind", result.Image.Kind, "scene_count", len(result.Scenes))
	p.notifyDone(ctx, result, req)
	return result, nil
}

// fetchPageContext は URL からメタデータと本文を取得します。
// どちらもベストエフォートであり、失敗はログに残して空の値で続行します。
func (p *PromoPipeline) fetchPageContext(ctx context.Context, url string) (domain.PageMetadata, string) {
	if url == "" {
		return domain.PageMetadata{}, ""
	}

	meta, err := p.metadata.Extract(ctx, url)
	if err != nil {
		slog.WarnContext(ctx, "メタデータ抽出に失敗しました（空のメタデータで続行します）", "url", url, "error", err)
		meta = domain.PageMetadata{}
	}

	pageText, err := p.webtext.FetchText(ctx, url)
	if err != nil {
		slog.WarnContext(ctx, "ページ本文の抽出に失敗しました（本文なしで続行します）", "url", url, "error", err)
		pageText = ""
	}

	return meta, pageText
}

func (p *PromoPipeline) notifyDone(ctx context.Context, result *domain.GenerationResult, req domain.ProductRequest) {
	if p.notifier == nil {
		return
	}
	nreq := domain.NotificationRequest{
		SourceURL:   req.URL,
		TargetTitle: notificationTitle(result.Metadata, req),
		ImageKind:   string(result.Image.Kind),
	}
	if err := p.notifier.Notify(ctx, nreq); err != nil {
		slog.WarnContext(ctx, "完了通知の送信に失敗しました", "error", err)
	}
}

func (p *PromoPipeline) notifyError(ctx context.Context, genErr error, req domain.ProductRequest, meta domain.PageMetadata) {
	if p.notifier == nil {
		return
	}
	nreq := domain.NotificationRequest{
		SourceURL:   req.URL,
		TargetTitle: notificationTitle(meta, req),
		ImageKind:   domain.CategoryNotAvailable,
	}
	if err := p.notifier.NotifyError(ctx, genErr, nreq); err != nil {
		slog.WarnContext(ctx, "エラー通知の送信に失敗しました", "error", err)
	}
}

// notificationTitle は通知に載せる見出しを決めます。
func notificationTitle(meta domain.PageMetadata, req domain.ProductRequest) string {
	if meta.Title != "" {
		return meta.Title
	}
	if req.Desc != "" {
		return req.Desc
	}
	return domain.CategoryNotAvailable
}
