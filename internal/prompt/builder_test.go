package prompt

import (
	"strings"
	"testing"

	"ap-promo-web/internal/domain"
)

func TestBuilder_BuildImagePrompt(t *testing.T) {
	b := NewBuilder("default style")

	t.Run("style 未指定ならデフォルトの画風を使うのだ", func(t *testing.T) {
		got := b.BuildImagePrompt("blender kopi", "", domain.PageMetadata{})

		if !strings.Contains(got, "Style: default style") {
			t.Errorf("デフォルト画風が使われていないのだ:\n%s", got)
		}
		if !strings.Contains(got, "Product: blender kopi") {
			t.Errorf("商品説明が入っていないのだ:\n%s", got)
		}
	})

	t.Run("style 指定があればそちらを優先するのだ", func(t *testing.T) {
		got := b.BuildImagePrompt("blender kopi", "lifestyle", domain.PageMetadata{})

		if !strings.Contains(got, "Style: lifestyle") {
			t.Errorf("指定画風が使われていないのだ:\n%s", got)
		}
	})

	t.Run("desc が無ければページタイトルで代用するのだ", func(t *testing.T) {
		got := b.BuildImagePrompt("", "", domain.PageMetadata{Title: "Blender Kopi Deluxe"})

		if !strings.Contains(got, "Product: Blender Kopi Deluxe") {
			t.Errorf("タイトルが代用されていないのだ:\n%s", got)
		}
	})
}

func TestBuilder_BuildScriptPrompt(t *testing.T) {
	b := NewBuilder("default style")

	t.Run("4役割すべてをプロンプトで指示するのだ", func(t *testing.T) {
		got := b.BuildScriptPrompt("blender kopi", domain.PageMetadata{}, "")

		for _, role := range domain.SceneRoles() {
			if !strings.Contains(got, string(role)) {
				t.Errorf("役割 %s がプロンプトに含まれていないのだ", role)
			}
		}
	})

	t.Run("ページ本文は長すぎる場合に打ち切られるのだ", func(t *testing.T) {
		longText := strings.Repeat("x", maxPageTextLen*2)

		got := b.BuildScriptPrompt("blender", domain.PageMetadata{}, longText)

		if strings.Contains(got, longText) {
			t.Error("本文が打ち切られていないのだ")
		}
		if !strings.Contains(got, "...") {
			t.Error("打ち切りの目印が無いのだ")
		}
	})
}
