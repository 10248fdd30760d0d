// Package webtext は商品ページの本文テキスト抽出を担当します。
// メタデータ（OGP）とは別に、台本プロンプトへ流し込む素材として使います。
package webtext

import (
	"context"
	"fmt"

	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-web-exact/v2/pkg/extract"
)

// Reader はWebページから本文テキストを取り出すためのラッパーです。
type Reader struct {
	extractor *extract.Extractor
}

// NewReader は共有HTTPクライアントを用いて Reader を初期化します。
func NewReader(httpClient httpkit.ClientInterface) (*Reader, error) {
	extractor, err := extract.NewExtractor(httpClient)
	if err != nil {
		return nil, fmt.Errorf("failed to create web extractor: %w", err)
	}
	return &Reader{extractor: extractor}, nil
}

// FetchText は URL の本文テキストを抽出して返します。
// メタデータ抽出と同様にベストエフォートであり、呼び出し側で回復可能です。
func (r *Reader) FetchText(ctx context.Context, url string) (string, error) {
	text, _, err := r.extractor.FetchAndExtractText(ctx, url)
	if err != nil {
		return "", fmt.Errorf("failed to extract text from URL: %w", err)
	}
	return text, nil
}
