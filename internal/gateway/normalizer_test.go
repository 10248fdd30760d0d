package gateway

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"ap-promo-web/internal/domain"
)

func TestNormalizer_ExplicitField(t *testing.T) {
	n := NewNormalizer()

	t.Run("data[0].b64_json を inline として解決するのだ", func(t *testing.T) {
		raw := json.RawMessage(`{"created":1,"data":[{"b64_json":"aGVsbG8="}]}`)

		got := n.Normalize(raw)

		if got.Kind != domain.ImageKindInline || got.Data != "aGVsbG8=" {
			t.Errorf("inline に解決されていないのだ: %+v", got)
		}
	})

	t.Run("トップレベルの image_base64 も拾えるのだ", func(t *testing.T) {
		raw := json.RawMessage(`{"image_base64":"Zm9vYmFy"}`)

		got := n.Normalize(raw)

		if got.Kind != domain.ImageKindInline || got.Data != "Zm9vYmFy" {
			t.Errorf("inline に解決されていないのだ: %+v", got)
		}
	})
}

func TestNormalizer_MessageContent(t *testing.T) {
	n := NewNormalizer()

	t.Run("content 配列の output_image 要素を拾えるのだ", func(t *testing.T) {
		raw := json.RawMessage(`{
			"choices":[{"message":{"content":[
				{"type":"text","text":"here is your image"},
				{"type":"output_image","image_base64":"cG5nZGF0YQ=="}
			]}}]
		}`)

		got := n.Normalize(raw)

		if got.Kind != domain.ImageKindInline || got.Data != "cG5nZGF0YQ==" {
			t.Errorf("inline に解決されていないのだ: %+v", got)
		}
	})

	t.Run("image_url 要素は reference として解決するのだ", func(t *testing.T) {
		raw := json.RawMessage(`{
			"choices":[{"message":{"content":[
				{"type":"image_url","image_url":{"url":"https://img.example.com/a.png"}}
			]}}]
		}`)

		got := n.Normalize(raw)

		if got.Kind != domain.ImageKindReference || got.URL != "https://img.example.com/a.png" {
			t.Errorf("reference に解決されていないのだ: %+v", got)
		}
	})
}

func TestNormalizer_EmbeddedHeuristics(t *testing.T) {
	n := NewNormalizer()

	t.Run("構造化フィールドが無くても200文字以上のbase64連続列を拾えるのだ", func(t *testing.T) {
		run := strings.Repeat("A1b2", 125) // 500文字、すべてbase64アルファベット
		raw := json.RawMessage(fmt.Sprintf(`{"result":{"blob":"prefix %s suffix"}}`, run))

		got := n.Normalize(raw)

		if got.Kind != domain.ImageKindInline {
			t.Fatalf("inline に解決されていないのだ: %+v", got)
		}
		if got.Data != run {
			t.Errorf("抽出された連続列が元と一致しないのだ。長さ: 期待 %d, 実際 %d", len(run), len(got.Data))
		}
	})

	t.Run("base64が無ければURLトークンを reference として拾うのだ", func(t *testing.T) {
		raw := json.RawMessage(`{"note":"your asset is ready","location":"https://cdn.example.com/promo/42.png"}`)

		got := n.Normalize(raw)

		if got.Kind != domain.ImageKindReference || got.URL != "https://cdn.example.com/promo/42.png" {
			t.Errorf("reference に解決されていないのだ: %+v", got)
		}
	})

	t.Run("何も見つからなければ absent になるのだ", func(t *testing.T) {
		raw := json.RawMessage(`{"status":"ok","detail":"nothing to see"}`)

		got := n.Normalize(raw)

		if got.Kind != domain.ImageKindAbsent {
			t.Errorf("absent に解決されていないのだ: %+v", got)
		}
		if got.Data != "" || got.URL != "" {
			t.Errorf("absent なのにペイロードが残っているのだ: %+v", got)
		}
	})

	t.Run("空の応答も absent になるのだ", func(t *testing.T) {
		if got := n.Normalize(nil); got.Kind != domain.ImageKindAbsent {
			t.Errorf("absent に解決されていないのだ: %+v", got)
		}
	})
}

func TestNormalizer_Determinism(t *testing.T) {
	n := NewNormalizer()

	t.Run("同じ入力は常に同じ解決結果になるのだ", func(t *testing.T) {
		raw := json.RawMessage(`{"data":[{"b64_json":"QUJD"}],"url":"https://example.com/x.png"}`)

		first := n.Normalize(raw)
		second := n.Normalize(raw)

		if !reflect.DeepEqual(first, second) {
			t.Errorf("解決が決定的ではないのだ。1回目: %+v, 2回目: %+v", first, second)
		}
		// 明示フィールドがヒューリスティックより優先されることも確認するのだ
		if first.Kind != domain.ImageKindInline || first.Data != "QUJD" {
			t.Errorf("優先順位が守られていないのだ: %+v", first)
		}
	})
}
