package metadata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func serveHTML(t *testing.T, html string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(html))
	}))
}

func TestExtractor_Extract(t *testing.T) {
	e := NewExtractor(5 * time.Second)

	t.Run("OGPタグを優先して抽出するのだ", func(t *testing.T) {
		srv := serveHTML(t, `<!DOCTYPE html>
<html><head>
<title>Fallback Title</title>
<meta property="og:title" content="Blender Kopi Deluxe">
<meta content="Blender kopi untuk rumah" property="og:description">
<meta property='og:image' content='https://shop.example/img/main.jpg'>
<meta name="description" content="generic description">
</head><body></body></html>`)
		defer srv.Close()

		meta, err := e.Extract(context.Background(), srv.URL)
		if err != nil {
			t.Fatalf("抽出に失敗したのだ: %v", err)
		}

		if meta.Title != "Blender Kopi Deluxe" {
			t.Errorf("og:title が優先されていないのだ: %q", meta.Title)
		}
		// 属性の順序が逆でも拾えることの確認なのだ
		if meta.Description != "Blender kopi untuk rumah" {
			t.Errorf("og:description が拾えていないのだ: %q", meta.Description)
		}
		// シングルクォートの属性値も拾えることの確認なのだ
		if meta.OGImage != "https://shop.example/img/main.jpg" {
			t.Errorf("og:image が拾えていないのだ: %q", meta.OGImage)
		}
	})

	t.Run("OGPが無ければ title と description にフォールバックするのだ", func(t *testing.T) {
		srv := serveHTML(t, `<html><head>
<title>  Plain Product Page  </title>
<meta name="description" content="a plain description">
</head><body></body></html>`)
		defer srv.Close()

		meta, err := e.Extract(context.Background(), srv.URL)
		if err != nil {
			t.Fatalf("抽出に失敗したのだ: %v", err)
		}

		if meta.Title != "Plain Product Page" {
			t.Errorf("title フォールバックが働いていないのだ: %q", meta.Title)
		}
		if meta.Description != "a plain description" {
			t.Errorf("description フォールバックが働いていないのだ: %q", meta.Description)
		}
		if meta.OGImage != "" {
			t.Errorf("og:image が存在しないのに値が入っているのだ: %q", meta.OGImage)
		}
	})

	t.Run("プロパティ名の大文字小文字は区別しないのだ", func(t *testing.T) {
		srv := serveHTML(t, `<html><head>
<meta property="OG:Title" content="Upper Case Tag">
</head><body></body></html>`)
		defer srv.Close()

		meta, err := e.Extract(context.Background(), srv.URL)
		if err != nil {
			t.Fatalf("抽出に失敗したのだ: %v", err)
		}
		if meta.Title != "Upper Case Tag" {
			t.Errorf("大文字のOGPタグが拾えていないのだ: %q", meta.Title)
		}
	})

	t.Run("フィールドが全く無くても失敗しないのだ", func(t *testing.T) {
		srv := serveHTML(t, `<html><body><p>no metadata here</p></body></html>`)
		defer srv.Close()

		meta, err := e.Extract(context.Background(), srv.URL)
		if err != nil {
			t.Fatalf("欠落フィールドで失敗してはいけないのだ: %v", err)
		}
		if meta.Title != "" || meta.Description != "" || meta.OGImage != "" {
			t.Errorf("空のメタデータになっていないのだ: %+v", meta)
		}
	})

	t.Run("非200応答はトランスポートエラーとして返すのだ", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "not found", http.StatusNotFound)
		}))
		defer srv.Close()

		if _, err := e.Extract(context.Background(), srv.URL); err == nil {
			t.Error("エラーが返っていないのだ")
		}
	})
}
