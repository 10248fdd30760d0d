// Package metadata は商品ページのHTMLから OGP 中心のメタデータを抽出します。
package metadata

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"ap-promo-web/internal/domain"

	"github.com/PuerkitoBio/goquery"
)

// userAgent ボット扱いでブロックされるのを避けるための控えめなUAです。
const userAgent = "Mozilla/5.0 (compatible; ap-promo-web/1.0)"

// Extractor は商品ページのメタデータ抽出を担当します。
type Extractor struct {
	client *http.Client
}

// NewExtractor は新しい Extractor を生成します。
func NewExtractor(timeout time.Duration) *Extractor {
	return &Extractor{
		client: &http.Client{Timeout: timeout},
	}
}

// Extract は URL を取得し、タイトル・説明・og:image を抽出します。
// 失敗するのはトランスポートレベルのエラーのみで、フィールドの欠落では失敗しません。
// 呼び出し側はエラーを「メタデータなし」として回復することを想定しています。
func (e *Extractor) Extract(ctx context.Context, pageURL string) (domain.PageMetadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return domain.PageMetadata{}, fmt.Errorf("invalid product URL (%s): %w", pageURL, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return domain.PageMetadata{}, fmt.Errorf("failed to fetch product page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.PageMetadata{}, fmt.Errorf("unexpected status code from product page: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return domain.PageMetadata{}, fmt.Errorf("failed to parse product page HTML: %w", err)
	}

	meta := extractFromDocument(doc)
	slog.InfoContext(ctx, "メタデータを抽出しました", "url", pageURL, "title", meta.Title, "has_og_image", meta.OGImage != "")
	return meta, nil
}

// extractFromDocument は解析済みドキュメントからメタデータを組み立てます。
// og:* プロパティは property / name どちらの属性で書かれていても、
// 大文字小文字が揺れていても拾います。
func extractFromDocument(doc *goquery.Document) domain.PageMetadata {
	tags := collectMetaTags(doc)

	meta := domain.PageMetadata{}

	// タイトル: og:title を優先し、無ければ <title> にフォールバック
	if v := tags["og:title"]; v != "" {
		meta.Title = v
	} else {
		meta.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	// 説明: og:description → description の優先順
	if v := tags["og:description"]; v != "" {
		meta.Description = v
	} else {
		meta.Description = tags["description"]
	}

	meta.OGImage = tags["og:image"]

	return meta
}

// collectMetaTags は meta タグを一括で走査し、キーを小文字に正規化したマップを返します。
func collectMetaTags(doc *goquery.Document) map[string]string {
	tags := make(map[string]string)

	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		key, ok := s.Attr("property")
		if !ok || key == "" {
			key, _ = s.Attr("name")
		}
		if key == "" {
			return
		}

		content, ok := s.Attr("content")
		if !ok || content == "" {
			return
		}

		key = strings.ToLower(strings.TrimSpace(key))
		// 同じキーが複数回現れた場合は最初の値を優先します。
		if _, exists := tags[key]; !exists {
			tags[key] = strings.TrimSpace(content)
		}
	})

	return tags
}
