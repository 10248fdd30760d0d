package gateway

import (
	"encoding/json"
	"log/slog"
	"regexp"

	"ap-promo-web/internal/domain"
)

// ゲートウェイの画像応答はプロバイダ・モデルの組み合わせで形が変わり、
// 契約として固定できません。そこで「名前付きの解決戦略」を優先順に並べ、
// 最初に成功したものを採用します。どの戦略でも解決できなければ absent です。
// 同じ入力は常に同じ解決結果になります。

var (
	// base64Run は base64 アルファベットのみで構成される200文字以上の連続列です。
	// 構造化フィールドが見つからないときの最終手段として使います。
	base64Run = regexp.MustCompile(`[A-Za-z0-9+/]{200,}={0,2}`)

	// httpURL は JSON テキスト中の絶対URLトークンです。
	httpURL = regexp.MustCompile(`https?://[^\s"'\\<>]+`)
)

// Resolver は応答JSONから画像ペイロードの解決を試みる純粋関数です。
type Resolver struct {
	Name    string
	Resolve func(raw []byte) (domain.ImagePayload, bool)
}

// Normalizer は解決戦略の優先順リストを保持します。
type Normalizer struct {
	resolvers []Resolver
}

// NewNormalizer は既定の戦略を優先順に組み込んだ Normalizer を返します。
func NewNormalizer() *Normalizer {
	return &Normalizer{
		resolvers: []Resolver{
			{Name: "explicit-field", Resolve: resolveExplicitField},
			{Name: "message-content", Resolve: resolveMessageContent},
			{Name: "embedded-base64", Resolve: resolveEmbeddedBase64},
			{Name: "embedded-url", Resolve: resolveEmbeddedURL},
		},
	}
}

// Normalize は応答JSONを ImagePayload に正規化します。決して失敗しません。
func (n *Normalizer) Normalize(raw json.RawMessage) domain.ImagePayload {
	if len(raw) == 0 {
		return domain.AbsentImage()
	}

	for _, r := range n.resolvers {
		if payload, ok := r.Resolve(raw); ok {
			slog.Debug("画像ペイロードを解決しました", "strategy", r.Name, "kind", payload.Kind)
			return payload
		}
	}

	slog.Debug("画像ペイロードを解決できませんでした")
	return domain.AbsentImage()
}

// resolveExplicitField は既知の「base64画像フィールド」の規約を直接見に行きます。
// 画像専用APIの data[0].b64_json と、トップレベルの image_base64 に対応します。
func resolveExplicitField(raw []byte) (domain.ImagePayload, bool) {
	var env struct {
		ImageBase64 string `json:"image_base64"`
		Data        []struct {
			B64JSON string `json:"b64_json"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return domain.ImagePayload{}, false
	}

	if env.ImageBase64 != "" {
		return domain.InlineImage(env.ImageBase64), true
	}
	if len(env.Data) > 0 && env.Data[0].B64JSON != "" {
		return domain.InlineImage(env.Data[0].B64JSON), true
	}
	return domain.ImagePayload{}, false
}

// resolveMessageContent はチャット応答の content 配列から、
// 画像出力としてタグ付けされた要素を探します。
func resolveMessageContent(raw []byte) (domain.ImagePayload, bool) {
	var env struct {
		Choices []struct {
			Message struct {
				Content []struct {
					Type        string `json:"type"`
					ImageBase64 string `json:"image_base64"`
					ImageURL    struct {
						URL string `json:"url"`
					} `json:"image_url"`
				} `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return domain.ImagePayload{}, false
	}

	for _, choice := range env.Choices {
		for _, part := range choice.Message.Content {
			if part.Type == "output_image" && part.ImageBase64 != "" {
				return domain.InlineImage(part.ImageBase64), true
			}
			if part.Type == "image_url" && part.ImageURL.URL != "" {
				return domain.ReferenceImage(part.ImageURL.URL), true
			}
		}
	}
	return domain.ImagePayload{}, false
}

// resolveEmbeddedBase64 は応答テキスト全体を走査し、base64 らしき長い連続列を探します。
// 非構造なエンベロープにペイロードを埋め込むプロバイダ向けの最終手段です。
func resolveEmbeddedBase64(raw []byte) (domain.ImagePayload, bool) {
	if match := base64Run.Find(raw); match != nil {
		return domain.InlineImage(string(match)), true
	}
	return domain.ImagePayload{}, false
}

// resolveEmbeddedURL は応答テキスト中の絶対 HTTP(S) URL を参照ペイロードとして拾います。
func resolveEmbeddedURL(raw []byte) (domain.ImagePayload, bool) {
	if match := httpURL.Find(raw); match != nil {
		return domain.ReferenceImage(string(match)), true
	}
	return domain.ImagePayload{}, false
}
