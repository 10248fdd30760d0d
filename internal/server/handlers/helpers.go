package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// errorResponse はエラー時のレスポンスボディです。
type errorResponse struct {
	Error       string `json:"error"`
	ErrorDetail string `json:"error_detail,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("レスポンスの書き込みに失敗しました", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message, detail string) {
	writeJSON(w, status, errorResponse{Error: message, ErrorDetail: detail})
}

// WriteMethodNotAllowed はルーター全体で共有する405レスポンスです。
func WriteMethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "Method not allowed"})
}

// WriteNotFound はルーター全体で共有する404レスポンスです。
func WriteNotFound(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusNotFound, errorResponse{Error: "Not found"})
}
