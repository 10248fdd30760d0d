package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(url string) *Client {
	return NewClient(url, "test-key", 5*time.Second, 2048)
}

func TestClient_GenerateText(t *testing.T) {
	t.Run("Bearerヘッダ付きでチャット補完を呼び出し、本文を取り出すのだ", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/chat/completions" {
				t.Errorf("呼び出し先が違うのだ: %s", r.URL.Path)
			}
			if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
				t.Errorf("Authorizationヘッダが違うのだ: %s", got)
			}

			var req map[string]any
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("リクエストボディが解析できないのだ: %v", err)
			}
			if req["model"] != "text-model" {
				t.Errorf("モデル指定が違うのだ: %v", req["model"])
			}

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"choices":[{"message":{"content":"Hook: hi"}}]}`))
		}))
		defer srv.Close()

		text, raw, err := newTestClient(srv.URL).GenerateText(context.Background(), "text-model", "prompt")
		if err != nil {
			t.Fatalf("エラーになってしまったのだ: %v", err)
		}
		if text != "Hook: hi" {
			t.Errorf("本文が取り出せていないのだ: %q", text)
		}
		if len(raw) == 0 {
			t.Error("応答の原文が返っていないのだ")
		}
	})

	t.Run("content がパート配列でもテキストを連結できるのだ", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{"choices":[{"message":{"content":[{"type":"text","text":"part1 "},{"type":"text","text":"part2"}]}}]}`))
		}))
		defer srv.Close()

		text, _, err := newTestClient(srv.URL).GenerateText(context.Background(), "m", "p")
		if err != nil {
			t.Fatalf("エラーになってしまったのだ: %v", err)
		}
		if text != "part1 part2" {
			t.Errorf("パートが連結されていないのだ: %q", text)
		}
	})

	t.Run("非成功ステータスは ErrUpstream になるのだ", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
		}))
		defer srv.Close()

		_, _, err := newTestClient(srv.URL).GenerateText(context.Background(), "m", "p")
		if !errors.Is(err, ErrUpstream) {
			t.Errorf("ErrUpstream に分類されていないのだ: %v", err)
		}
	})

	t.Run("JSONとして解析できないボディも ErrUpstream になるのだ", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte("<html>gateway timeout</html>"))
		}))
		defer srv.Close()

		_, _, err := newTestClient(srv.URL).GenerateText(context.Background(), "m", "p")
		if !errors.Is(err, ErrUpstream) {
			t.Errorf("ErrUpstream に分類されていないのだ: %v", err)
		}
	})
}

func TestClient_GenerateImage(t *testing.T) {
	t.Run("モダリティ指定付きで呼び出し、応答JSONをそのまま返すのだ", func(t *testing.T) {
		body := `{"choices":[{"message":{"content":[{"type":"output_image","image_base64":"QUJD"}]}}]}`
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req map[string]any
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("リクエストボディが解析できないのだ: %v", err)
			}
			modalities, ok := req["modalities"].([]any)
			if !ok || len(modalities) != 2 {
				t.Errorf("modalities が指定されていないのだ: %v", req["modalities"])
			}

			w.Write([]byte(body))
		}))
		defer srv.Close()

		raw, err := newTestClient(srv.URL).GenerateImage(context.Background(), "image-model", "prompt")
		if err != nil {
			t.Fatalf("エラーになってしまったのだ: %v", err)
		}
		if string(raw) != body {
			t.Errorf("応答が加工されてしまっているのだ: %s", raw)
		}
	})
}
