package server

import (
	"net/http"

	"ap-promo-web/internal/app"
	"ap-promo-web/internal/server/handlers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter は、ミドルウェアとルーティングを統合した http.Handler を構築します。
func NewRouter(c *app.Container) http.Handler {
	r := chi.NewRouter()

	setupCommonMiddleware(r)

	h := handlers.NewHandler(c.Pipeline)
	setupRoutes(r, h)

	return r
}

func setupCommonMiddleware(r *chi.Mux) {
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.CleanPath)
}

func setupRoutes(r chi.Router, h *handlers.Handler) {
	// 生成APIは POST のみ受け付けます。他メソッドはJSONの405で応答します。
	r.Post("/api/generate", h.HandleGenerate)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.MethodNotAllowed(handlers.WriteMethodNotAllowed)
	r.NotFound(handlers.WriteNotFound)
}
