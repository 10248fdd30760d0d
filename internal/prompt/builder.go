// Package prompt はゲートウェイへ渡すプロンプトの組み立てを担当します。
package prompt

import (
	"fmt"
	"strings"

	"ap-promo-web/internal/domain"
)

// maxPageTextLen プロンプトに流し込むページ本文の上限です。
// 長文ページでトークンを浪費しないための打ち切りです。
const maxPageTextLen = 2000

// Builder は商品情報からプロンプトを構築します。
type Builder struct {
	defaultStyleHint string
}

// NewBuilder はデフォルトの画風指定を保持した Builder を返します。
func NewBuilder(defaultStyleHint string) *Builder {
	return &Builder{defaultStyleHint: defaultStyleHint}
}

// BuildImagePrompt はアフィリエイト商品写真の生成プロンプトを組み立てます。
// style が空の場合はデフォルトの画風指定を使います。
func (b *Builder) BuildImagePrompt(desc, style string, meta domain.PageMetadata) string {
	if style == "" {
		style = b.defaultStyleHint
	}

	product := productSummary(desc, meta)

	var sb strings.Builder
	sb.WriteString("Photorealistic image for an affiliate product.\n")
	sb.WriteString("A real human model holding the product.\n")
	sb.WriteString(fmt.Sprintf("Product: %s\n", product))
	sb.WriteString(fmt.Sprintf("Style: %s\n", style))
	sb.WriteString("Very high quality, natural lighting, real human model.")
	return sb.String()
}

// BuildScriptPrompt は固定4場面のプロモ台本を要求するプロンプトを組み立てます。
// pageText はベストエフォートで抽出した商品ページの本文です（空でも構いません）。
func (b *Builder) BuildScriptPrompt(desc string, meta domain.PageMetadata, pageText string) string {
	product := productSummary(desc, meta)

	var sb strings.Builder
	sb.WriteString("Write a short-form AFFILIATE promo script in exactly 4 scenes:\n")
	for i, role := range domain.SceneRoles() {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, role))
	}
	sb.WriteString(fmt.Sprintf("Product: %s\n", product))
	if meta.Description != "" {
		sb.WriteString(fmt.Sprintf("Product description: %s\n", meta.Description))
	}
	if pageText != "" {
		sb.WriteString(fmt.Sprintf("Product page excerpt:\n%s\n", truncate(pageText, maxPageTextLen)))
	}
	sb.WriteString("Use a short, persuasive TikTok-style tone. ")
	sb.WriteString("Start each scene with its role name followed by a colon, separated by blank lines.")
	return sb.String()
}

// productSummary は商品を一言で表す文字列を決めます。
// リクエストの説明文を優先し、無ければページタイトルを使います。
func productSummary(desc string, meta domain.PageMetadata) string {
	if desc != "" {
		return desc
	}
	if meta.Title != "" {
		return meta.Title
	}
	return "the product"
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
