package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"ap-promo-web/internal/domain"
	"ap-promo-web/internal/gateway"
	"ap-promo-web/internal/pipeline"
)

// PromoGenerator は生成パイプラインを抽象化します。
type PromoGenerator interface {
	Generate(ctx context.Context, req domain.ProductRequest) (*domain.GenerationResult, error)
}

// Handler は生成APIのHTTPハンドラーです。
type Handler struct {
	pipeline PromoGenerator
}

// NewHandler は新しい Handler を初期化します。
func NewHandler(p PromoGenerator) *Handler {
	return &Handler{pipeline: p}
}

// generateResponse は成功時のレスポンスボディです。
// 画像は inline / reference のどちらか一方のフィールドにだけ現れます。
type generateResponse struct {
	ImageBase64 string         `json:"image_base64,omitempty"`
	ImageURL    string         `json:"image_url,omitempty"`
	Title       string         `json:"title,omitempty"`
	Description string         `json:"description,omitempty"`
	Script      string         `json:"script,omitempty"`
	Scenes      []domain.Scene `json:"scenes"`
}

// HandleGenerate は POST /api/generate を処理します。
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var req domain.ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.WarnContext(r.Context(), "リクエストボディの解析に失敗しました", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	result, err := h.pipeline.Generate(r.Context(), req)
	if err != nil {
		h.writeGenerateError(w, r, err)
		return
	}

	resp := generateResponse{
		Title:       result.Metadata.Title,
		Description: result.Metadata.Description,
		Script:      result.RawScript,
		Scenes:      result.Scenes,
	}
	switch result.Image.Kind {
	case domain.ImageKindInline:
		resp.ImageBase64 = result.Image.Data
	case domain.ImageKindReference:
		resp.ImageURL = result.Image.URL
	}

	writeJSON(w, http.StatusOK, resp)
}

// writeGenerateError はパイプラインのエラー分類をHTTPステータスへ写します。
func (h *Handler) writeGenerateError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, pipeline.ErrValidation):
		writeError(w, http.StatusBadRequest, "Missing fields", err.Error())

	case errors.Is(err, pipeline.ErrConfiguration):
		slog.ErrorContext(r.Context(), "設定エラーによりリクエストを処理できません", "error", err)
		writeError(w, http.StatusInternalServerError, "Server misconfiguration", err.Error())

	case errors.Is(err, gateway.ErrUpstream):
		slog.ErrorContext(r.Context(), "上流ゲートウェイのエラーです", "error", err)
		writeError(w, http.StatusInternalServerError, "Upstream gateway error", err.Error())

	default:
		slog.ErrorContext(r.Context(), "プロモ生成に失敗しました", "error", err)
		writeError(w, http.StatusInternalServerError, "Server error", err.Error())
	}
}
